package straddle_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	straddle "github.com/reoring/straddle-go"
)

const testMeta = `{"api_request_id":"req_1","api_request_timestamp":"2024-06-01T12:00:00Z"}`

func envelope(data string) string {
	return `{"data":` + data + `,"meta":` + testMeta + `,"response_type":"object"}`
}

func newTestClient(t *testing.T, r chi.Router, mutate ...func(*straddle.Config)) *straddle.Client {
	t.Helper()
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	cfg := straddle.Config{
		APIKey:     "sk_test",
		BaseURL:    srv.URL,
		MaxRetries: -1,
	}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := straddle.NewClient(cfg)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

const payoutJSON = `{
	"id": "po_1",
	"amount": 10000,
	"currency": "USD",
	"description": "weekly settlement",
	"external_id": "ext_1",
	"paykey": "pk_token",
	"payment_date": "2019-12-27",
	"status": "pending",
	"status_details": {
		"changed_at": "2019-12-27T10:00:00Z",
		"message": "queued",
		"reason": "ok",
		"source": "system",
		"code": null
	},
	"status_history": [
		{"changed_at": "2019-12-26T10:00:00Z", "message": "created", "reason": "ok", "source": "system", "status": "created"}
	],
	"device": {"ip_address": "192.0.2.1"},
	"funding_ids": ["fe_1"],
	"effective_at": null,
	"created_at": "2019-12-26T10:00:00Z",
	"updated_at": "2019-12-27T10:00:00Z",
	"metadata": {"order": "42", "note": null},
	"experimental_flag": {"tier": 2}
}`
