// Package gateway talks to the board automation gateway, the service that drives the
// signed in browser session on the bot's behalf
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"jakebot/internal/core/posts"
	"jakebot/internal/core/version"
	perr "jakebot/internal/platform/errors"
	"jakebot/internal/platform/logger"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultMaxRetry  = 3
	defaultRetryBase = 500 * time.Millisecond
	maxExportBytes   = 8 << 20
)

// Options configures the Client
type Options struct {
	BaseURL   string
	BoardID   string
	BoardURL  string
	UserAgent string
	Timeout   time.Duration

	// Token is sent as a bearer token. When empty and Email is set the client signs in first
	Token    string
	Email    string
	Password string

	// Retry config for transient and rate limited responses
	MaxRetries int
	RetryBase  time.Duration
}

// Client implements the engine Board port over HTTP
type Client struct {
	http *retryablehttp.Client
	opts Options
	log  *logger.Logger

	mu    sync.Mutex
	token string
}

// New creates a Client with sane defaults
func New(o Options) *Client {
	if o.UserAgent == "" {
		o.UserAgent = "jakebot/" + version.Info().Version
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.MaxRetries <= 0 {
		o.MaxRetries = defaultMaxRetry
	}
	if o.RetryBase <= 0 {
		o.RetryBase = defaultRetryBase
	}
	o.BaseURL = strings.TrimRight(o.BaseURL, "/")

	log := logger.Named("board")
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = o.Timeout
	rc.RetryMax = o.MaxRetries
	rc.RetryWaitMin = o.RetryBase
	rc.RetryWaitMax = 30 * time.Second
	rc.Logger = leveled{log}
	// hand the last response back so status mapping sees it
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Client{http: rc, opts: o, log: log, token: o.Token}
}

// FetchExport reads the board content; the response content type picks the format
func (c *Client) FetchExport(ctx context.Context) (posts.Export, error) {
	resp, err := c.do(ctx, http.MethodGet, c.boardPath("export"), nil)
	if err != nil {
		return posts.Export{}, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxExportBytes))
	if err != nil {
		return posts.Export{}, perr.Wrap(err, perr.ErrorCodeUnavailable, "read board export")
	}
	return posts.Export{
		Format: posts.ParseFormat(resp.Header.Get("Content-Type")),
		Body:   string(b),
	}, nil
}

// PostContent creates a board entry as the signed in identity
func (c *Client) PostContent(ctx context.Context, title, body string) error {
	resp, err := c.do(ctx, http.MethodPost, c.boardPath("posts"), map[string]string{"title": title, "body": body})
	if err != nil {
		return err
	}
	return drainAndClose(resp.Body)
}

// DeletePost removes an entry whose visible text contains matching
func (c *Client) DeletePost(ctx context.Context, matching string) (bool, error) {
	path := c.boardPath("posts") + "?match=" + url.QueryEscape(matching)
	resp, err := c.do(ctx, http.MethodDelete, path, nil)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	var out struct {
		Deleted bool `json:"deleted"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&out); err != nil {
		return false, perr.Wrap(err, perr.ErrorCodeJSON, "decode delete response")
	}
	return out.Deleted, nil
}

// DeleteMostRecentPost removes the newest entry on the board
func (c *Client) DeleteMostRecentPost(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodDelete, c.boardPath("posts/latest"), nil)
	if err != nil {
		return err
	}
	return drainAndClose(resp.Body)
}

// Release ends the gateway's browser session
func (c *Client) Release(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, "/v1/session/release", nil)
	if err != nil {
		return err
	}
	return drainAndClose(resp.Body)
}

func (c *Client) boardPath(rest string) string {
	return fmt.Sprintf("/v1/boards/%s/%s", url.PathEscape(c.opts.BoardID), rest)
}

// signIn trades the mind buddy credentials for a session token once
func (c *Client) signIn(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" || c.opts.Email == "" {
		return c.token, nil
	}

	payload := map[string]string{
		"email":     c.opts.Email,
		"password":  c.opts.Password,
		"board_url": c.opts.BoardURL,
	}
	resp, err := c.send(ctx, http.MethodPost, "/v1/session", payload, "")
	if err != nil {
		return "", perr.WithOp(err, "sign_in")
	}
	defer resp.Body.Close()

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&out); err != nil {
		return "", perr.Wrap(err, perr.ErrorCodeJSON, "decode session response")
	}
	if out.Token == "" {
		return "", perr.New(perr.ErrorCodeUnauthorized, "gateway returned an empty session token")
	}
	c.token = out.Token
	c.log.Info().Str("board_id", c.opts.BoardID).Msg("signed in to board gateway")
	return c.token, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	tok, err := c.signIn(ctx)
	if err != nil {
		return nil, err
	}
	return c.send(ctx, method, path, payload, tok)
}

// send issues one request through the retrying client and maps non 2xx statuses to perr codes
func (c *Client) send(ctx context.Context, method, path string, payload any, token string) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeJSON, "encode gateway request")
		}
		body = bytes.NewReader(b)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.opts.BaseURL+path, body)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "gateway new request failed")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json, text/markdown, text/html")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, perr.Wrapf(err, perr.ErrorCodeUnavailable, "gateway %s %s failed", method, path)
	}
	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("gateway http response")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	tail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	_ = resp.Body.Close()
	return nil, statusError(method, path, resp.StatusCode, strings.TrimSpace(string(tail)))
}

func statusError(method, path string, status int, body string) error {
	var code perr.ErrorCode
	switch {
	case status == http.StatusTooManyRequests:
		code = perr.ErrorCodeTooManyRequests
	case status >= 500:
		code = perr.ErrorCodeUnavailable
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		code = perr.ErrorCodeUnauthorized
	case status == http.StatusNotFound:
		code = perr.ErrorCodeNotFound
	default:
		code = perr.ErrorCodeInvalidArgument
	}
	return perr.Newf(code, "gateway %s %s: status %d %s", method, path, status, body)
}

func drainAndClose(rc io.ReadCloser) error {
	_, _ = io.Copy(io.Discard, io.LimitReader(rc, 64<<10))
	return rc.Close()
}
