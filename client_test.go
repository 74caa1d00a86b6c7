package straddle_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	straddle "github.com/reoring/straddle-go"
	"github.com/reoring/straddle-go/apijson"
	"github.com/reoring/straddle-go/transport"
)

func TestNewClient_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     straddle.Config
		wantErr bool
		wantURL string
	}{
		{name: "sandbox by default", cfg: straddle.Config{APIKey: "k"}, wantURL: "https://sandbox.straddle.io"},
		{name: "production", cfg: straddle.Config{APIKey: "k", Environment: straddle.EnvironmentProduction}, wantURL: "https://production.straddle.io"},
		{name: "base url wins", cfg: straddle.Config{APIKey: "k", BaseURL: "http://localhost:8080/"}, wantURL: "http://localhost:8080"},
		{name: "missing api key", cfg: straddle.Config{}, wantErr: true},
		{name: "unknown environment", cfg: straddle.Config{APIKey: "k", Environment: "staging"}, wantErr: true},
		{name: "bad base url", cfg: straddle.Config{APIKey: "k", BaseURL: "not a url"}, wantErr: true},
		{name: "too many retries", cfg: straddle.Config{APIKey: "k", MaxRetries: 50}, wantErr: true},
		{
			name:    "custom transport needs no key",
			cfg:     straddle.Config{Transport: transport.Func(func(context.Context, *transport.Request) (*http.Response, error) { return nil, nil })},
			wantURL: "https://sandbox.straddle.io",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := straddle.NewClient(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantURL, c.BaseURL())
		})
	}
}

func TestPayouts_Get(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/v1/payouts/{id}", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "po_1", chi.URLParam(r, "id"))
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.Equal(t, "acct_9", r.Header.Get("Straddle-Account-Id"))
		assert.Empty(t, r.Header.Get("Correlation-Id"))
		writeJSON(w, http.StatusOK, envelope(payoutJSON))
	})
	c := newTestClient(t, r)

	var params straddle.PayoutGetParams
	params.SetStraddleAccountID("acct_9")
	resp, err := c.Payouts.Get(context.Background(), "po_1", &params)
	require.NoError(t, err)
	require.NoError(t, resp.Validate())

	payout, err := resp.Data()
	require.NoError(t, err)

	amount, err := payout.Amount()
	require.NoError(t, err)
	assert.Equal(t, int64(10000), amount)

	status, err := payout.Status()
	require.NoError(t, err)
	v, ok := status.Value()
	assert.True(t, ok)
	assert.Equal(t, straddle.PaymentStatusPending, v)

	details, err := payout.StatusDetails()
	require.NoError(t, err)
	code, err := details.Code()
	require.NoError(t, err)
	assert.True(t, code.IsNull())

	history, err := payout.StatusHistory()
	require.NoError(t, err)
	require.Len(t, history, 1)

	eff, err := payout.EffectiveAt()
	require.NoError(t, err)
	assert.True(t, eff.IsNull())

	md, err := payout.Metadata()
	require.NoError(t, err)
	m, ok := md.Get()
	require.True(t, ok)
	assert.Equal(t, "42", *m["order"])
	assert.Nil(t, m["note"])

	created, err := payout.CreatedAt()
	require.NoError(t, err)
	assert.True(t, created.Equal(time.Date(2019, 12, 26, 10, 0, 0, 0, time.UTC)))

	assert.Equal(t, int64(2), payout.Path("experimental_flag.tier").Int())

	meta, err := resp.Meta()
	require.NoError(t, err)
	id, err := meta.APIRequestID()
	require.NoError(t, err)
	assert.Equal(t, "req_1", id)
}

func TestPayouts_RoundTrip(t *testing.T) {
	var p straddle.Payout
	require.NoError(t, json.Unmarshal([]byte(payoutJSON), &p))
	require.NoError(t, p.Validate())

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, payoutJSON, string(out))

	var back straddle.Payout
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, apijson.Equal(p, back))
}

func TestPayouts_MissingID(t *testing.T) {
	called := false
	c, err := straddle.NewClient(straddle.Config{
		APIKey: "k",
		Transport: transport.Func(func(context.Context, *transport.Request) (*http.Response, error) {
			called = true
			return nil, errors.New("unexpected call")
		}),
	})
	require.NoError(t, err)

	_, err = c.Payouts.Get(context.Background(), "", nil)
	iss, ok := straddle.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, apijson.CodeMissingPathParam, iss[0].Code)
	assert.Equal(t, "/payout_id", iss[0].Path)

	_, err = c.Customers.Delete(context.Background(), "", &straddle.CustomerGetParams{})
	assert.True(t, straddle.IsInvalidData(err))

	_, err = c.Accounts.ListCapabilityRequests(context.Background(), "", nil)
	assert.True(t, straddle.IsInvalidData(err))
	assert.False(t, called)
}

func TestPayouts_IDArgumentWinsOverParams(t *testing.T) {
	var got []string
	r := chi.NewRouter()
	r.Put("/v1/payouts/{id}/cancel", func(w http.ResponseWriter, r *http.Request) {
		got = append(got, chi.URLParam(r, "id"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"reason":null}`, string(body))
		writeJSON(w, http.StatusOK, envelope(payoutJSON))
	})
	c := newTestClient(t, r)

	params := straddle.PayoutActionParams{PayoutID: "po_from_params"}
	params.SetReason(nil)
	_, err := c.Payouts.Cancel(context.Background(), "po_arg", &params)
	require.NoError(t, err)

	params2 := straddle.PayoutActionParams{PayoutID: "po_from_params"}
	params2.SetReason(nil)
	_, err = c.Payouts.Cancel(context.Background(), "", &params2)
	require.NoError(t, err)

	assert.Equal(t, []string{"po_arg", "po_from_params"}, got)
}

func TestPayouts_CreateChecksRequiredKeysFirst(t *testing.T) {
	called := false
	c, err := straddle.NewClient(straddle.Config{
		APIKey: "k",
		Transport: transport.Func(func(context.Context, *transport.Request) (*http.Response, error) {
			called = true
			return nil, errors.New("unexpected call")
		}),
	})
	require.NoError(t, err)

	var p straddle.PayoutCreateParams
	p.SetAmount(10000)
	p.SetCurrency("USD")
	p.SetPaymentDate(apijson.NewDate(2019, time.December, 27))
	p.SetMetadata(nil)

	_, err = c.Payouts.Create(context.Background(), &p)
	iss, ok := straddle.AsIssues(err)
	require.True(t, ok)
	var paths []string
	for _, it := range iss {
		assert.Equal(t, apijson.CodeRequired, it.Code)
		paths = append(paths, it.Path)
	}
	assert.Equal(t, []string{"/description", "/device", "/external_id", "/paykey"}, paths)
	assert.False(t, called)
}

func TestPayouts_CreateSendsBodyAndIdempotencyKey(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/v1/payouts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "idem-1", r.Header.Get("Idempotency-Key"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, `{"amount":10000,"currency":"USD","description":"weekly settlement","device":{"ip_address":"192.0.2.1"},"external_id":"ext_1","paykey":"pk_token","payment_date":"2019-12-27","metadata":null}`, string(body))
		writeJSON(w, http.StatusCreated, envelope(payoutJSON))
	})
	c := newTestClient(t, r)

	var p straddle.PayoutCreateParams
	p.SetIdempotencyKey("idem-1")
	p.SetAmount(10000)
	p.SetCurrency("USD")
	p.SetDescription("weekly settlement")
	p.SetDevice(straddle.NewDeviceInfo("192.0.2.1"))
	p.SetExternalID("ext_1")
	p.SetPaykey("pk_token")
	p.SetPaymentDate(apijson.NewDate(2019, time.December, 27))
	p.SetMetadata(nil)

	resp, err := c.Payouts.Create(context.Background(), &p)
	require.NoError(t, err)
	payout, err := resp.Data()
	require.NoError(t, err)
	id, err := payout.ID()
	require.NoError(t, err)
	assert.Equal(t, "po_1", id)
}

func TestPayouts_FrozenParamsFail(t *testing.T) {
	c := newTestClient(t, chi.NewRouter())

	var p straddle.PayoutCreateParams
	p.SetAmount(1)
	_ = p.RawBodyData()
	p.SetAmount(2)

	_, err := c.Payouts.Create(context.Background(), &p)
	assert.ErrorIs(t, err, apijson.ErrFrozen)
}

func TestValidateResponses_UnknownEnum(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/v1/charges/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, envelope(`{"id":"ch_1","status":"quantum_pending","status_details":{"reason":"new_reason"}}`))
	})

	lenient := newTestClient(t, r)
	resp, err := lenient.Charges.Get(context.Background(), "ch_1", nil)
	require.NoError(t, err)
	charge, err := resp.Data()
	require.NoError(t, err)
	status, err := charge.Status()
	require.NoError(t, err)
	assert.Equal(t, "quantum_pending", status.Raw())
	assert.False(t, status.IsKnown())

	strict := newTestClient(t, r, func(c *straddle.Config) { c.ValidateResponses = true })
	_, err = strict.Charges.Get(context.Background(), "ch_1", nil)
	iss, ok := straddle.AsIssues(err)
	require.True(t, ok)

	codes := map[string]string{}
	for _, it := range iss {
		codes[it.Path] = it.Code
	}
	assert.Equal(t, apijson.CodeInvalidEnum, codes["/data/status"])
	assert.Equal(t, apijson.CodeInvalidEnum, codes["/data/status_details/reason"])
	assert.Equal(t, apijson.CodeRequired, codes["/data/status_details/message"])
	assert.Equal(t, apijson.CodeRequired, codes["/data/amount"])
}

func TestStrictDuplicateKeys(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/v1/paykeys/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":{"id":"a"},"data":{"id":"b"},"meta":`+testMeta+`,"response_type":"object"}`)
	})

	lenient := newTestClient(t, r)
	resp, err := lenient.Paykeys.Get(context.Background(), "pk_1", nil)
	require.NoError(t, err)
	pk, err := resp.Data()
	require.NoError(t, err)
	id, err := pk.ID()
	require.NoError(t, err)
	assert.Equal(t, "b", id)

	strict := newTestClient(t, r, func(c *straddle.Config) { c.StrictDuplicateKeys = true })
	_, err = strict.Paykeys.Get(context.Background(), "pk_1", nil)
	iss, ok := straddle.AsIssues(err)
	require.True(t, ok)
	assert.Equal(t, apijson.CodeDuplicateKey, iss[0].Code)
	assert.Equal(t, "/data", iss[0].Path)
}

func TestAPIError(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/v1/customers/{id}", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"error":{"title":"Not Found","detail":"no such customer"},"meta":{"api_request_id":"req_404"}}`)
	})
	c := newTestClient(t, r)

	_, err := c.Customers.Get(context.Background(), "cus_missing", nil)
	require.Error(t, err)
	assert.True(t, straddle.IsNotFound(err))
	assert.Contains(t, err.Error(), `getting customer "cus_missing"`)

	apiErr, ok := straddle.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "req_404", apiErr.RequestID)
	assert.Equal(t, "no such customer", apiErr.Detail)
}

func TestCustomers_ListQuery(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/v1/customers", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, []string{"verified", "review"}, q["status"])
		assert.Equal(t, "acme co", q.Get("search_text"))
		assert.Equal(t, "25", q.Get("page_size"))
		assert.Equal(t, "desc", q.Get("sort_order"))
		writeJSON(w, http.StatusOK, `{"data":[],"meta":{"api_request_id":"r","api_request_timestamp":"2024-06-01T12:00:00Z","page_number":1,"page_size":25},"response_type":"array"}`)
	})
	c := newTestClient(t, r)

	var p straddle.CustomerListParams
	p.SetStatus([]straddle.CustomerStatus{straddle.CustomerStatusVerified, straddle.CustomerStatusReview})
	p.SetSearchText("acme co")
	p.SetPageSize(25)
	p.SetSortOrder(straddle.SortOrderDesc)

	page, err := c.Customers.List(context.Background(), &p)
	require.NoError(t, err)
	assert.Empty(t, page.Items())
	assert.False(t, page.HasNext())

	// The caller's params are cloned, so they stay writable.
	p.SetPageSize(50)
	assert.NoError(t, p.RawQueryData().Err())
}

func TestCustomers_ListSurfacesFailedParamWrite(t *testing.T) {
	var calls atomic.Int32
	r := chi.NewRouter()
	r.Get("/v1/customers", func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, `{"data":[],"meta":{"api_request_id":"r"},"response_type":"array"}`)
	})
	c := newTestClient(t, r)

	var p straddle.CustomerListParams
	p.SetPageSize(25)
	_ = p.RawQueryData()
	p.SetSortBy("name")

	_, err := c.Customers.List(context.Background(), &p)
	require.ErrorIs(t, err, apijson.ErrFrozen)
	assert.Zero(t, calls.Load())
}

func TestCustomers_Review(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/v1/customers/{id}/review", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, envelope(`{
			"customer_details": {"id": "cus_1", "name": "Ada", "type": "individual", "status": "review"},
			"identity_details": {"review_id": "rev_1", "decision": "review", "messages": {"I001": "address mismatch"}}
		}`))
	})
	r.Patch("/v1/customers/{id}/review", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"status":"verified"}`, string(body))
		writeJSON(w, http.StatusOK, envelope(`{"id":"cus_1","status":"verified"}`))
	})
	c := newTestClient(t, r)

	resp, err := c.Customers.Review(context.Background(), "cus_1", nil)
	require.NoError(t, err)
	review, err := resp.Data()
	require.NoError(t, err)
	cust, err := review.CustomerDetails()
	require.NoError(t, err)
	name, err := cust.Name()
	require.NoError(t, err)
	assert.Equal(t, "Ada", name)

	idf, err := review.IdentityDetails()
	require.NoError(t, err)
	id, ok := idf.Get()
	require.True(t, ok)
	msgs, err := id.Messages()
	require.NoError(t, err)
	assert.Equal(t, "address mismatch", *msgs["I001"])

	var d straddle.CustomerReviewDecisionParams
	d.SetStatus(straddle.CustomerStatusVerified)
	out, err := c.Customers.ReviewDecision(context.Background(), "cus_1", &d)
	require.NoError(t, err)
	got, err := out.Data()
	require.NoError(t, err)
	st, err := got.Status()
	require.NoError(t, err)
	assert.Equal(t, "verified", st.Raw())
}

func TestAccounts_CapabilityRequests(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/v1/accounts/{id}/capability_requests", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"internet":{"enable":true}}`, string(body))
		writeJSON(w, http.StatusOK, `{"data":[{"id":"cr_1","account_id":"acct_1","category":"consent_type","type":"internet","status":"in_review","created_at":"2024-06-01T12:00:00Z","updated_at":"2024-06-01T12:00:00Z"}],"meta":{"api_request_id":"r","api_request_timestamp":"2024-06-01T12:00:00Z","page_number":1,"page_size":100},"response_type":"array"}`)
	})
	c := newTestClient(t, r, func(c *straddle.Config) { c.ValidateResponses = true })

	var p straddle.CapabilityRequestCreateParams
	enable := true
	p.SetInternet(&enable)
	p.SetBusinesses(nil)
	resp, err := c.Accounts.CreateCapabilityRequest(context.Background(), "acct_1", &p)
	require.NoError(t, err)
	reqs, err := resp.Data()
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	typ, err := reqs[0].Type()
	require.NoError(t, err)
	assert.Equal(t, "internet", typ.Raw())
}

func TestAccounts_CapabilitiesValidate(t *testing.T) {
	var a straddle.AccountCapabilities
	require.NoError(t, json.Unmarshal([]byte(`{"payment_types":{"charges":{"capability_status":"active"},"payouts":{"capability_status":"paused"}}}`), &a))

	types, err := a.PaymentTypes()
	require.NoError(t, err)
	st, err := types["charges"].CapabilityStatus()
	require.NoError(t, err)
	assert.True(t, st.IsKnown())

	iss, ok := apijson.AsIssues(a.Validate())
	require.True(t, ok)
	require.Len(t, iss, 1)
	assert.Equal(t, "/payment_types/payouts/capability_status", iss[0].Path)
}

func TestReports_TotalCustomersByStatus(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/v1/reports/total_customers_by_status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, envelope(`{"inactive":1,"pending":2,"rejected":3,"review":4,"verified":5,"suspended":6}`))
	})
	c := newTestClient(t, r, func(c *straddle.Config) { c.ValidateResponses = true })

	resp, err := c.Reports.TotalCustomersByStatus(context.Background(), nil)
	require.NoError(t, err)
	report, err := resp.Data()
	require.NoError(t, err)
	verified, err := report.Verified()
	require.NoError(t, err)
	assert.Equal(t, int64(5), verified)
	total, err := report.Total()
	require.NoError(t, err)
	assert.Equal(t, int64(21), total)
}
