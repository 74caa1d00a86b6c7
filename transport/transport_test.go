package transport_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/straddle-go/transport"
)

func newTransport(retries uint) *transport.HTTP {
	return transport.NewHTTP(transport.Options{
		APIKey:          "sk_test",
		UserAgent:       "straddle-go/test",
		MaxRetries:      retries,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
	})
}

func TestExecute_SendsHeadersAndBody(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/v1/payouts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "straddle-go/test", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "key-1", r.Header.Get("Idempotency-Key"))
		b, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"amount":100}`, string(b))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{}}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := newTransport(0).Execute(context.Background(), &transport.Request{
		Method: http.MethodPost,
		URL:    srv.URL + "/v1/payouts",
		Header: http.Header{"Idempotency-Key": {"key-1"}},
		Body:   []byte(`{"amount":100}`),
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestExecute_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Get("/v1/paykeys/{id}", func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "pk_1", chi.URLParam(r, "id"))
		_, _ = w.Write([]byte(`{"data":{"id":"pk_1"}}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	resp, err := newTransport(3).Execute(context.Background(), &transport.Request{
		Method: http.MethodGet,
		URL:    srv.URL + "/v1/paykeys/pk_1",
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, int32(3), calls.Load())
}

func TestExecute_RetriedWriteReusesGeneratedIdempotencyKey(t *testing.T) {
	var (
		mu   sync.Mutex
		keys []string
	)
	r := chi.NewRouter()
	r.Post("/v1/payouts", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get(transport.HeaderIdempotencyKey))
		n := len(keys)
		mu.Unlock()
		if n == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"po_1"}}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	req := &transport.Request{
		Method: http.MethodPost,
		URL:    srv.URL + "/v1/payouts",
		Body:   []byte(`{"amount":100}`),
	}
	resp, err := newTransport(2).Execute(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Len(t, keys, 2)
	assert.NotEmpty(t, keys[0])
	assert.Equal(t, keys[0], keys[1])
	assert.Empty(t, req.Header.Get(transport.HeaderIdempotencyKey), "caller's request is left as it was")
}

func TestExecute_CallerIdempotencyKeyIsKept(t *testing.T) {
	r := chi.NewRouter()
	r.Put("/v1/payouts/{id}/hold", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "mine", r.Header.Get(transport.HeaderIdempotencyKey))
		_, _ = w.Write([]byte(`{}`))
	})
	r.Get("/v1/payouts/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(transport.HeaderIdempotencyKey))
		_, _ = w.Write([]byte(`{}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()
	tr := newTransport(2)

	resp, err := tr.Execute(context.Background(), &transport.Request{
		Method: http.MethodPut,
		URL:    srv.URL + "/v1/payouts/po_1/hold",
		Header: http.Header{transport.HeaderIdempotencyKey: {"mine"}},
		Body:   []byte(`{}`),
	})
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = tr.Execute(context.Background(), &transport.Request{
		Method: http.MethodGet,
		URL:    srv.URL + "/v1/payouts/po_1",
	})
	require.NoError(t, err)
	resp.Body.Close()
}

func TestExecute_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTransport(2).Execute(context.Background(), &transport.Request{Method: http.MethodGet, URL: srv.URL})
	require.Error(t, err)
	assert.True(t, transport.IsStatus(err, http.StatusTooManyRequests))
	assert.Equal(t, int32(3), calls.Load())
}

func TestExecute_StatusErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Get("/v1/customers/{id}", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"title":"Not Found","detail":"customer not found","type":"not_found"},"meta":{"api_request_id":"req_9"}}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	_, err := newTransport(3).Execute(context.Background(), &transport.Request{
		Method: http.MethodGet,
		URL:    srv.URL + "/v1/customers/cus_1",
	})
	var se *transport.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, "Not Found", se.Title)
	assert.Equal(t, "customer not found", se.Detail)
	assert.Equal(t, "not_found", se.Type)
	assert.Equal(t, "req_9", se.RequestID)
	assert.Contains(t, se.Error(), "404 Not Found: customer not found (request req_9)")
}

func TestExecute_NonJSONErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Request-Id", "req_h")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("bad things"))
	}))
	defer srv.Close()

	_, err := newTransport(0).Execute(context.Background(), &transport.Request{Method: http.MethodGet, URL: srv.URL})
	var se *transport.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "bad things", string(se.Body))
	assert.Equal(t, "req_h", se.RequestID)
	assert.Contains(t, se.Error(), "Bad Request")
}

func TestExecute_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTransport(3).Execute(ctx, &transport.Request{Method: http.MethodGet, URL: srv.URL})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryable(t *testing.T) {
	for _, s := range []int{408, 409, 429, 500, 502, 503} {
		assert.True(t, transport.Retryable(s), s)
	}
	for _, s := range []int{400, 401, 403, 404, 422} {
		assert.False(t, transport.Retryable(s), s)
	}
}

func TestFunc(t *testing.T) {
	var got *transport.Request
	var tr transport.Transport = transport.Func(func(_ context.Context, req *transport.Request) (*http.Response, error) {
		got = req
		return nil, errors.New("offline")
	})
	_, err := tr.Execute(context.Background(), &transport.Request{Method: http.MethodDelete})
	assert.EqualError(t, err, "offline")
	assert.Equal(t, http.MethodDelete, got.Method)
}
