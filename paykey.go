package straddle

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/reoring/straddle-go/apijson"
)

type PaykeyStatus string

const (
	PaykeyStatusPending  PaykeyStatus = "pending"
	PaykeyStatusActive   PaykeyStatus = "active"
	PaykeyStatusInactive PaykeyStatus = "inactive"
	PaykeyStatusRejected PaykeyStatus = "rejected"
	PaykeyStatusReview   PaykeyStatus = "review"
)

func (r PaykeyStatus) IsKnown() bool {
	switch r {
	case PaykeyStatusPending, PaykeyStatusActive, PaykeyStatusInactive, PaykeyStatusRejected, PaykeyStatusReview:
		return true
	}
	return false
}

// PaykeySource is how the bank account behind a paykey was linked.
type PaykeySource string

const (
	PaykeySourceBankAccount PaykeySource = "bank_account"
	PaykeySourceStraddle    PaykeySource = "straddle"
	PaykeySourceMX          PaykeySource = "mx"
	PaykeySourcePlaid       PaykeySource = "plaid"
	PaykeySourceTAN         PaykeySource = "tan"
	PaykeySourceQuiltt      PaykeySource = "quiltt"
)

func (r PaykeySource) IsKnown() bool {
	switch r {
	case PaykeySourceBankAccount, PaykeySourceStraddle, PaykeySourceMX,
		PaykeySourcePlaid, PaykeySourceTAN, PaykeySourceQuiltt:
		return true
	}
	return false
}

type BankAccountType string

const (
	BankAccountTypeChecking BankAccountType = "checking"
	BankAccountTypeSavings  BankAccountType = "savings"
)

func (r BankAccountType) IsKnown() bool {
	switch r {
	case BankAccountTypeChecking, BankAccountTypeSavings:
		return true
	}
	return false
}

// BankData describes the account a paykey points to. Account numbers are
// masked unless the paykey was read through Reveal or Unmasked.
type BankData struct{ apijson.Object }

func (r BankData) AccountNumber() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "account_number")
}

func (r BankData) AccountType() (apijson.Enum[BankAccountType], error) {
	return apijson.GetNotNull[apijson.Enum[BankAccountType]](r.Raw(), "account_type")
}

func (r BankData) RoutingNumber() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "routing_number")
}

func (r BankData) Validate() error {
	return r.Check(
		apijson.Required[string]("account_number"),
		apijson.Required[apijson.Enum[BankAccountType]]("account_type"),
		apijson.Required[string]("routing_number"),
	)
}

type BalanceStatus string

const (
	BalanceStatusPending   BalanceStatus = "pending"
	BalanceStatusCompleted BalanceStatus = "completed"
	BalanceStatusFailed    BalanceStatus = "failed"
)

func (r BalanceStatus) IsKnown() bool {
	switch r {
	case BalanceStatusPending, BalanceStatusCompleted, BalanceStatusFailed:
		return true
	}
	return false
}

// Balance is the last known balance of the linked account, in cents.
type Balance struct{ apijson.Object }

func (r Balance) AccountBalance() (apijson.Field[int64], error) {
	return apijson.GetField[int64](r.Raw(), "account_balance")
}

func (r Balance) Status() (apijson.Enum[BalanceStatus], error) {
	return apijson.GetNotNull[apijson.Enum[BalanceStatus]](r.Raw(), "status")
}

func (r Balance) UpdatedAt() (apijson.Field[time.Time], error) {
	return apijson.GetField[time.Time](r.Raw(), "updated_at")
}

func (r Balance) Validate() error {
	return r.Check(
		apijson.Optional[int64]("account_balance"),
		apijson.Required[apijson.Enum[BalanceStatus]]("status"),
		apijson.Optional[time.Time]("updated_at"),
	)
}

// Paykey is a token for a customer's linked bank account.
type Paykey struct{ apijson.Object }

func (r Paykey) ID() (string, error) { return apijson.GetNotNull[string](r.Raw(), "id") }
func (r Paykey) CustomerID() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "customer_id")
}
func (r Paykey) Label() (string, error) { return apijson.GetNotNull[string](r.Raw(), "label") }

// Paykey returns the token itself.
func (r Paykey) Paykey() (string, error) { return apijson.GetNotNull[string](r.Raw(), "paykey") }

func (r Paykey) Source() (apijson.Enum[PaykeySource], error) {
	return apijson.GetNotNull[apijson.Enum[PaykeySource]](r.Raw(), "source")
}

func (r Paykey) Status() (apijson.Enum[PaykeyStatus], error) {
	return apijson.GetNotNull[apijson.Enum[PaykeyStatus]](r.Raw(), "status")
}

func (r Paykey) StatusDetails() (StatusDetails, error) {
	return apijson.GetNullable[StatusDetails](r.Raw(), "status_details")
}

func (r Paykey) InstitutionName() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "institution_name")
}

func (r Paykey) BankData() (BankData, error) {
	return apijson.GetNullable[BankData](r.Raw(), "bank_data")
}

func (r Paykey) Balance() (Balance, error) { return apijson.GetNullable[Balance](r.Raw(), "balance") }

func (r Paykey) ExpiresAt() (apijson.Field[time.Time], error) {
	return apijson.GetField[time.Time](r.Raw(), "expires_at")
}

func (r Paykey) ExternalID() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "external_id")
}

func (r Paykey) CreatedAt() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "created_at")
}

func (r Paykey) UpdatedAt() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "updated_at")
}

func (r Paykey) Metadata() (apijson.Field[map[string]*string], error) { return metadataOf(r.Raw()) }

func (r Paykey) Validate() error {
	return r.Check(
		apijson.Required[string]("id"),
		apijson.Required[string]("customer_id"),
		apijson.Required[string]("label"),
		apijson.Required[string]("paykey"),
		apijson.Required[apijson.Enum[PaykeySource]]("source"),
		apijson.Required[apijson.Enum[PaykeyStatus]]("status"),
		apijson.Optional[StatusDetails]("status_details"),
		apijson.Optional[string]("institution_name"),
		apijson.Optional[BankData]("bank_data"),
		apijson.Optional[Balance]("balance"),
		apijson.Optional[time.Time]("expires_at"),
		apijson.Optional[string]("external_id"),
		apijson.Required[time.Time]("created_at"),
		apijson.Required[time.Time]("updated_at"),
		apijson.Optional[map[string]*string]("metadata"),
	)
}

// PaykeyDetails is the paykey summary embedded in unmasked payments.
type PaykeyDetails struct{ apijson.Object }

func (r PaykeyDetails) ID() (string, error) { return apijson.GetNotNull[string](r.Raw(), "id") }

func (r PaykeyDetails) CustomerID() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "customer_id")
}

func (r PaykeyDetails) Label() (string, error) { return apijson.GetNotNull[string](r.Raw(), "label") }

func (r PaykeyDetails) Balance() (apijson.Field[int64], error) {
	return apijson.GetField[int64](r.Raw(), "balance")
}

func (r PaykeyDetails) Validate() error {
	return r.Check(
		apijson.Required[string]("id"),
		apijson.Required[string]("customer_id"),
		apijson.Required[string]("label"),
		apijson.Optional[int64]("balance"),
	)
}

type PaykeyGetParams struct {
	requestParams
	PaykeyID string
}

func (p PaykeyGetParams) Clone() PaykeyGetParams {
	p.requestParams = p.requestParams.clone()
	return p
}

type PaykeyListParams struct {
	listParams
}

func (p PaykeyListParams) Clone() PaykeyListParams {
	p.requestParams = p.requestParams.clone()
	return p
}

func (p *PaykeyListParams) SetCustomerID(v string) { setValue(p.queries(), "customer_id", v) }

func (p *PaykeyListParams) SetSource(v []PaykeySource) { setOptionalSlice(p.queries(), "source", v) }

func (p *PaykeyListParams) SetStatus(v []PaykeyStatus) { setOptionalSlice(p.queries(), "status", v) }

type PaykeyCancelParams struct {
	requestParams
	PaykeyID string
}

func (p PaykeyCancelParams) Clone() PaykeyCancelParams {
	p.requestParams = p.requestParams.clone()
	return p
}

// SetReason records why the paykey was cancelled; nil sends an explicit null.
func (p *PaykeyCancelParams) SetReason(v *string) { setNullable(p.bodies(), "reason", v) }

// PaykeyService reads and cancels paykeys.
type PaykeyService struct {
	c *Client
}

func (s *PaykeyService) Get(ctx context.Context, id string, params *PaykeyGetParams) (*Response[Paykey], error) {
	return s.get(ctx, "/v1/paykeys/%s", "getting", id, params)
}

// Reveal reads a paykey with its bank account number in the clear.
func (s *PaykeyService) Reveal(ctx context.Context, id string, params *PaykeyGetParams) (*Response[Paykey], error) {
	return s.get(ctx, "/v1/paykeys/%s/reveal", "revealing", id, params)
}

// Unmasked reads a paykey with every masked field in the clear.
func (s *PaykeyService) Unmasked(ctx context.Context, id string, params *PaykeyGetParams) (*Response[Paykey], error) {
	return s.get(ctx, "/v1/paykeys/%s/unmasked", "unmasking", id, params)
}

func (s *PaykeyService) get(ctx context.Context, path, verb, id string, params *PaykeyGetParams) (*Response[Paykey], error) {
	p := PaykeyGetParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.PaykeyID = id
	}
	if err := requirePath("paykey_id", p.PaykeyID); err != nil {
		return nil, err
	}
	resp, err := do[Paykey](ctx, s.c, operation{
		method: http.MethodGet,
		path:   pathf(path, p.PaykeyID),
		params: &p.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("%s paykey %q: %w", verb, p.PaykeyID, err)
	}
	return resp, nil
}

func (s *PaykeyService) List(ctx context.Context, params *PaykeyListParams) (*Page[Paykey], error) {
	p := PaykeyListParams{}
	if params != nil {
		p = params.Clone()
	}
	page, err := list(ctx, s.c, operation{
		method: http.MethodGet,
		path:   "/v1/paykeys",
		params: &p.requestParams,
	}, &p.listParams, func(ctx context.Context, n int64) (*Page[Paykey], error) {
		next := p.Clone()
		next.SetPageNumber(n)
		return s.List(ctx, &next)
	})
	if err != nil {
		return nil, fmt.Errorf("listing paykeys: %w", err)
	}
	return page, nil
}

func (s *PaykeyService) Cancel(ctx context.Context, id string, params *PaykeyCancelParams) (*Response[Paykey], error) {
	p := PaykeyCancelParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.PaykeyID = id
	}
	if err := requirePath("paykey_id", p.PaykeyID); err != nil {
		return nil, err
	}
	resp, err := do[Paykey](ctx, s.c, operation{
		method: http.MethodPut,
		path:   pathf("/v1/paykeys/%s/cancel", p.PaykeyID),
		params: &p.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("cancelling paykey %q: %w", p.PaykeyID, err)
	}
	return resp, nil
}
