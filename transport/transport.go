// Package transport executes API requests over HTTP. It owns everything the
// SDK core does not: authentication, retries with backoff, request logging and
// turning non-2xx responses into errors.
package transport

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Request describes one API call. URL is absolute; Body is nil for requests
// without a payload.
type Request struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Transport executes a request. On success the caller owns the response and
// must close its body.
type Transport interface {
	Execute(ctx context.Context, req *Request) (*http.Response, error)
}

// Func adapts a plain function to Transport.
type Func func(ctx context.Context, req *Request) (*http.Response, error)

func (f Func) Execute(ctx context.Context, req *Request) (*http.Response, error) { return f(ctx, req) }

// Options configures an HTTP transport.
type Options struct {
	APIKey     string
	UserAgent  string
	HTTPClient *http.Client
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries      uint
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Logger          *zerolog.Logger
}

// HTTP is the default Transport.
type HTTP struct {
	apiKey     string
	userAgent  string
	client     *http.Client
	maxRetries uint
	initial    time.Duration
	max        time.Duration
	log        zerolog.Logger
}

// NewHTTP returns an HTTP transport. Zero options fall back to http.DefaultClient,
// a 500ms initial interval and a 8s cap.
func NewHTTP(o Options) *HTTP {
	t := &HTTP{
		apiKey:     o.APIKey,
		userAgent:  o.UserAgent,
		client:     o.HTTPClient,
		maxRetries: o.MaxRetries,
		initial:    o.InitialInterval,
		max:        o.MaxInterval,
		log:        zerolog.Nop(),
	}
	if t.client == nil {
		t.client = http.DefaultClient
	}
	if t.initial <= 0 {
		t.initial = 500 * time.Millisecond
	}
	if t.max <= 0 {
		t.max = 8 * time.Second
	}
	if o.Logger != nil {
		t.log = o.Logger.With().Str("component", "transport").Logger()
	}
	return t
}

// HeaderIdempotencyKey lets the API deduplicate repeated writes.
const HeaderIdempotencyKey = "Idempotency-Key"

// Execute sends req, retrying network errors and retryable statuses with
// exponential backoff. A non-2xx response that is not retried, or that is
// still failing after the last attempt, is returned as *StatusError.
// Writes without an Idempotency-Key get a generated one that every attempt
// reuses, so a retried create is never applied twice.
func (t *HTTP) Execute(ctx context.Context, req *Request) (*http.Response, error) {
	if t.maxRetries > 0 {
		req = withIdempotencyKey(req)
	}
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = t.initial
	b.MaxInterval = t.max

	attempt := 0
	op := func() (*http.Response, error) {
		attempt++
		hr, err := t.newRequest(ctx, req)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		start := time.Now()
		resp, err := t.client.Do(hr)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(ctx.Err())
			}
			t.log.Warn().Err(err).
				Str("method", req.Method).
				Str("url", req.URL).
				Int("attempt", attempt).
				Msg("request failed")
			return nil, err
		}

		t.log.Debug().
			Str("method", req.Method).
			Str("url", req.URL).
			Int("status", resp.StatusCode).
			Int("attempt", attempt).
			Dur("elapsed", time.Since(start)).
			Msg("request completed")

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}

		statusErr := newStatusError(req, resp)
		if Retryable(resp.StatusCode) {
			t.log.Warn().
				Str("method", req.Method).
				Str("url", req.URL).
				Int("status", resp.StatusCode).
				Int("attempt", attempt).
				Msg("retrying request")
			return nil, statusErr
		}
		return nil, backoff.Permanent(statusErr)
	}

	resp, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(t.maxRetries+1),
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func withIdempotencyKey(req *Request) *Request {
	switch req.Method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return req
	}
	if req.Header.Get(HeaderIdempotencyKey) != "" {
		return req
	}
	out := *req
	out.Header = req.Header.Clone()
	if out.Header == nil {
		out.Header = http.Header{}
	}
	out.Header.Set(HeaderIdempotencyKey, uuid.NewString())
	return &out
}

func (t *HTTP) newRequest(ctx context.Context, req *Request) (*http.Request, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	hr, err := http.NewRequestWithContext(ctx, req.Method, req.URL, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range req.Header {
		for _, v := range vs {
			hr.Header.Add(k, v)
		}
	}
	if t.apiKey != "" {
		hr.Header.Set("Authorization", "Bearer "+t.apiKey)
	}
	if t.userAgent != "" {
		hr.Header.Set("User-Agent", t.userAgent)
	}
	hr.Header.Set("Accept", "application/json")
	if req.Body != nil {
		hr.Header.Set("Content-Type", "application/json")
	}
	return hr, nil
}

// Retryable reports whether a response status is worth another attempt.
func Retryable(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusConflict, http.StatusTooManyRequests:
		return true
	}
	return status >= 500
}

// IsStatus reports whether err is a *StatusError with the given status code.
func IsStatus(err error, status int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == status
}
