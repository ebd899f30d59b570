package middleware

import (
	"net/http"
	"runtime/debug"

	perr "jakebot/internal/platform/errors"
	"jakebot/internal/platform/logger"
	pnet "jakebot/internal/platform/net"
	phttp "jakebot/internal/platform/net/http"
)

var panicReply = phttp.Handle(func(*http.Request) phttp.Response {
	return phttp.Error(perr.PanicErrf("panic recovered"))
})

// RecoverJSON turns a handler panic into the standard 500 envelope and logs the stack
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			reqID := pnet.RequestID(r.Context())
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Str("path", r.URL.Path).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if reqID != "" {
				w.Header().Set("X-Request-ID", reqID)
			}
			panicReply(w, r)
		}()
		next.ServeHTTP(w, r)
	})
}
