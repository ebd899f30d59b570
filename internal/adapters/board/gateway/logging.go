package gateway

import (
	"jakebot/internal/platform/logger"

	"github.com/rs/zerolog"
)

// leveled adapts zerolog to retryablehttp.LeveledLogger
type leveled struct{ l *logger.Logger }

func (z leveled) Error(msg string, kv ...any) { z.emit(z.l.Error(), msg, kv) }
func (z leveled) Info(msg string, kv ...any)  { z.emit(z.l.Debug(), msg, kv) }
func (z leveled) Debug(msg string, kv ...any) { z.emit(z.l.Trace(), msg, kv) }
func (z leveled) Warn(msg string, kv ...any)  { z.emit(z.l.Warn(), msg, kv) }

func (leveled) emit(ev *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			continue
		}
		ev = ev.Interface(k, kv[i+1])
	}
	ev.Msg(msg)
}
