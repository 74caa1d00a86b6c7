package straddle_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	straddle "github.com/reoring/straddle-go"
	"github.com/reoring/straddle-go/apijson"
)

func TestAccounts_OnboardAndSimulate(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/v1/accounts/{id}/onboard", func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		assert.Equal(t, "embedded", gjson.GetBytes(body, "terms_of_service.agreement_type").String())
		assert.Equal(t, "2024-05-01T09:30:00Z", gjson.GetBytes(body, "terms_of_service.accepted_date").String())
		writeJSON(w, http.StatusOK, envelope(`{"id":"`+chi.URLParam(req, "id")+`","status":"onboarding"}`))
	})
	r.Post("/v1/accounts/{id}/simulate", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "active", req.URL.Query().Get("final_status"))
		writeJSON(w, http.StatusOK, envelope(`{"id":"`+chi.URLParam(req, "id")+`","status":"active"}`))
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	_, err := c.Accounts.Onboard(ctx, "acct_1", nil)
	iss, ok := straddle.AsIssues(err)
	require.True(t, ok, "onboard without terms must fail before sending")
	assert.Equal(t, "/terms_of_service", iss[0].Path)

	op := &straddle.AccountOnboardParams{}
	op.SetTermsOfService(straddle.NewTermsOfService(
		time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), straddle.AgreementTypeEmbedded, "https://example.com/tos"))
	resp, err := c.Accounts.Onboard(ctx, "acct_1", op)
	require.NoError(t, err)
	acct, err := resp.Data()
	require.NoError(t, err)
	status, err := acct.Status()
	require.NoError(t, err)
	assert.Equal(t, "onboarding", status.Raw())

	sp := &straddle.AccountSimulateParams{}
	sp.SetFinalStatus(straddle.SimulateFinalStatusActive)
	resp, err = c.Accounts.Simulate(ctx, "acct_1", sp)
	require.NoError(t, err)
	acct, _ = resp.Data()
	status, _ = acct.Status()
	v, known := status.Value()
	assert.True(t, known)
	assert.Equal(t, straddle.AccountStatusActive, v)
}

func TestRepresentatives_UnmaskAndList(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/v1/representatives/{id}/unmask", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, envelope(`{"id":"`+chi.URLParam(req, "id")+`","ssn_last4":"6789"}`))
	})
	r.Get("/v1/representatives", func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "acct_1", req.URL.Query().Get("account_id"))
		writeJSON(w, http.StatusOK, `{"data":[{"id":"rep_1"},{"id":"rep_2"}],"meta":{"api_request_id":"req_1","page_number":1,"page_size":2,"total_pages":1},"response_type":"array"}`)
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	resp, err := c.Representatives.Unmask(ctx, "rep_1", nil)
	require.NoError(t, err)
	rep, _ := resp.Data()
	ssn, err := rep.SSNLast4()
	require.NoError(t, err)
	assert.Equal(t, "6789", ssn)

	lp := &straddle.RepresentativeListParams{}
	lp.SetAccountID("acct_1")
	page, err := c.Representatives.List(ctx, lp)
	require.NoError(t, err)
	assert.Len(t, page.Items(), 2)
	assert.False(t, page.HasNext())
}

func TestCharges_Actions(t *testing.T) {
	var seen []string
	r := chi.NewRouter()
	r.Put("/v1/charges/{id}/{action}", func(w http.ResponseWriter, req *http.Request) {
		action := chi.URLParam(req, "action")
		seen = append(seen, action)
		body, _ := io.ReadAll(req.Body)
		if action == "release" {
			assert.True(t, gjson.GetBytes(body, "reason").Exists())
			assert.Equal(t, gjson.Null, gjson.GetBytes(body, "reason").Type)
		}
		writeJSON(w, http.StatusOK, envelope(`{"id":"`+chi.URLParam(req, "id")+`","status":"on_hold"}`))
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	reason := "fraud review"
	hp := &straddle.ChargeActionParams{}
	hp.SetReason(&reason)
	_, err := c.Charges.Hold(ctx, "ch_1", hp)
	require.NoError(t, err)

	rp := &straddle.ChargeActionParams{}
	rp.SetReason(nil)
	_, err = c.Charges.Release(ctx, "ch_1", rp)
	require.NoError(t, err)

	_, err = c.Charges.Cancel(ctx, "ch_1", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"hold", "release", "cancel"}, seen)

	_, err = c.Charges.Cancel(ctx, "", nil)
	require.Error(t, err)
}

func TestPaykeys_RevealAndCancel(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/v1/paykeys/{id}/reveal", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, envelope(`{"id":"`+chi.URLParam(req, "id")+`","status":"active"}`))
	})
	r.Put("/v1/paykeys/{id}/cancel", func(w http.ResponseWriter, req *http.Request) {
		body, _ := io.ReadAll(req.Body)
		assert.Equal(t, "closed", gjson.GetBytes(body, "reason").String())
		writeJSON(w, http.StatusOK, envelope(`{"id":"`+chi.URLParam(req, "id")+`","status":"inactive"}`))
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	resp, err := c.Paykeys.Reveal(ctx, "pk_1", nil)
	require.NoError(t, err)
	pk, _ := resp.Data()
	id, _ := pk.ID()
	assert.Equal(t, "pk_1", id)

	reason := "closed"
	cp := &straddle.PaykeyCancelParams{}
	cp.SetReason(&reason)
	_, err = c.Paykeys.Cancel(ctx, "pk_1", cp)
	require.NoError(t, err)
}

func TestFundingEvents_GetAndList(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/v1/funding_events/{id}", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, envelope(`{"id":"`+chi.URLParam(req, "id")+`","amount":1250,"direction":"deposit","trace_number":null,"transfer_date":"2024-03-04"}`))
	})
	r.Get("/v1/funding_events", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		assert.Equal(t, "withdrawal", q.Get("direction"))
		assert.Equal(t, "2024-03-01", q.Get("created_from"))
		writeJSON(w, http.StatusOK, `{"data":[],"meta":{"api_request_id":"req_1","page_number":1,"page_size":10},"response_type":"array"}`)
	})
	c := newTestClient(t, r)
	ctx := context.Background()

	resp, err := c.FundingEvents.Get(ctx, "fe_1", nil)
	require.NoError(t, err)
	fe, _ := resp.Data()
	amount, err := fe.Amount()
	require.NoError(t, err)
	assert.Equal(t, int64(1250), amount)
	trace, err := fe.TraceNumber()
	require.NoError(t, err)
	assert.True(t, trace.IsNull())
	date, err := fe.TransferDate()
	require.NoError(t, err)
	assert.Equal(t, apijson.NewDate(2024, time.March, 4), date)

	lp := &straddle.FundingEventListParams{}
	lp.SetDirection(straddle.FundingEventDirectionWithdrawal)
	lp.SetCreatedFrom(apijson.NewDate(2024, time.March, 1))
	page, err := c.FundingEvents.List(ctx, lp)
	require.NoError(t, err)
	assert.Empty(t, page.Items())
	assert.False(t, page.HasNext())
}
