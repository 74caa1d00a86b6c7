package straddle

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/reoring/straddle-go/apijson"
)

// PaymentStatus is the lifecycle state of a charge or payout.
type PaymentStatus string

const (
	PaymentStatusCreated   PaymentStatus = "created"
	PaymentStatusScheduled PaymentStatus = "scheduled"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusCancelled PaymentStatus = "cancelled"
	PaymentStatusOnHold    PaymentStatus = "on_hold"
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusPaid      PaymentStatus = "paid"
	PaymentStatusReversed  PaymentStatus = "reversed"
)

func (r PaymentStatus) IsKnown() bool {
	switch r {
	case PaymentStatusCreated, PaymentStatusScheduled, PaymentStatusFailed, PaymentStatusCancelled,
		PaymentStatusOnHold, PaymentStatusPending, PaymentStatusPaid, PaymentStatusReversed:
		return true
	}
	return false
}

// PayoutSandboxOutcome forces the result of a payout in the sandbox.
type PayoutSandboxOutcome string

const (
	PayoutSandboxOutcomeStandard                  PayoutSandboxOutcome = "standard"
	PayoutSandboxOutcomePaid                      PayoutSandboxOutcome = "paid"
	PayoutSandboxOutcomeOnHoldDailyLimit          PayoutSandboxOutcome = "on_hold_daily_limit"
	PayoutSandboxOutcomeCancelledForFraudRisk     PayoutSandboxOutcome = "cancelled_for_fraud_risk"
	PayoutSandboxOutcomeCancelledForBalanceCheck  PayoutSandboxOutcome = "cancelled_for_balance_check"
	PayoutSandboxOutcomeFailedInsufficientFunds   PayoutSandboxOutcome = "failed_insufficient_funds"
	PayoutSandboxOutcomeReversedInsufficientFunds PayoutSandboxOutcome = "reversed_insufficient_funds"
	PayoutSandboxOutcomeFailedCustomerDispute     PayoutSandboxOutcome = "failed_customer_dispute"
	PayoutSandboxOutcomeReversedCustomerDispute   PayoutSandboxOutcome = "reversed_customer_dispute"
	PayoutSandboxOutcomeFailedClosedBankAccount   PayoutSandboxOutcome = "failed_closed_bank_account"
	PayoutSandboxOutcomeReversedClosedBankAccount PayoutSandboxOutcome = "reversed_closed_bank_account"
)

func (r PayoutSandboxOutcome) IsKnown() bool {
	switch r {
	case PayoutSandboxOutcomeStandard, PayoutSandboxOutcomePaid, PayoutSandboxOutcomeOnHoldDailyLimit,
		PayoutSandboxOutcomeCancelledForFraudRisk, PayoutSandboxOutcomeCancelledForBalanceCheck,
		PayoutSandboxOutcomeFailedInsufficientFunds, PayoutSandboxOutcomeReversedInsufficientFunds,
		PayoutSandboxOutcomeFailedCustomerDispute, PayoutSandboxOutcomeReversedCustomerDispute,
		PayoutSandboxOutcomeFailedClosedBankAccount, PayoutSandboxOutcomeReversedClosedBankAccount:
		return true
	}
	return false
}

// PayoutConfig holds per-payout processing options.
type PayoutConfig struct{ apijson.Object }

func (r PayoutConfig) SandboxOutcome() (apijson.Enum[PayoutSandboxOutcome], error) {
	return apijson.GetNullable[apijson.Enum[PayoutSandboxOutcome]](r.Raw(), "sandbox_outcome")
}

func (r *PayoutConfig) SetSandboxOutcome(v PayoutSandboxOutcome) {
	setValue(r.Writable(), "sandbox_outcome", v)
}

func (r PayoutConfig) Validate() error {
	return r.Check(apijson.Optional[apijson.Enum[PayoutSandboxOutcome]]("sandbox_outcome"))
}

// Payout is money sent from the platform to a customer's bank account.
type Payout struct{ apijson.Object }

func (r Payout) ID() (string, error)       { return apijson.GetNotNull[string](r.Raw(), "id") }
func (r Payout) Amount() (int64, error)    { return apijson.GetNotNull[int64](r.Raw(), "amount") }
func (r Payout) Currency() (string, error) { return apijson.GetNotNull[string](r.Raw(), "currency") }

func (r Payout) Description() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "description")
}

func (r Payout) ExternalID() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "external_id")
}

func (r Payout) Paykey() (string, error) { return apijson.GetNotNull[string](r.Raw(), "paykey") }

func (r Payout) PaymentDate() (apijson.Date, error) {
	return apijson.GetNotNull[apijson.Date](r.Raw(), "payment_date")
}

func (r Payout) Status() (apijson.Enum[PaymentStatus], error) {
	return apijson.GetNotNull[apijson.Enum[PaymentStatus]](r.Raw(), "status")
}

func (r Payout) StatusDetails() (StatusDetails, error) {
	return apijson.GetNotNull[StatusDetails](r.Raw(), "status_details")
}

func (r Payout) StatusHistory() ([]StatusHistoryEntry, error) {
	return apijson.GetNullable[[]StatusHistoryEntry](r.Raw(), "status_history")
}

func (r Payout) Config() (PayoutConfig, error) {
	return apijson.GetNullable[PayoutConfig](r.Raw(), "config")
}

func (r Payout) Device() (DeviceInfo, error) {
	return apijson.GetNullable[DeviceInfo](r.Raw(), "device")
}

func (r Payout) FundingIDs() ([]string, error) {
	return apijson.GetNullable[[]string](r.Raw(), "funding_ids")
}

func (r Payout) EffectiveAt() (apijson.Field[time.Time], error) {
	return apijson.GetField[time.Time](r.Raw(), "effective_at")
}

func (r Payout) CreatedAt() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "created_at")
}

func (r Payout) UpdatedAt() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "updated_at")
}

func (r Payout) Metadata() (apijson.Field[map[string]*string], error) { return metadataOf(r.Raw()) }

func (r Payout) Validate() error {
	return r.Check(
		apijson.Required[string]("id"),
		apijson.Required[int64]("amount"),
		apijson.Required[string]("currency"),
		apijson.Required[string]("description"),
		apijson.Required[string]("external_id"),
		apijson.Required[string]("paykey"),
		apijson.Required[apijson.Date]("payment_date"),
		apijson.Required[apijson.Enum[PaymentStatus]]("status"),
		apijson.Required[StatusDetails]("status_details"),
		apijson.OptionalEach[StatusHistoryEntry]("status_history"),
		apijson.Optional[PayoutConfig]("config"),
		apijson.Optional[DeviceInfo]("device"),
		apijson.Optional[[]string]("funding_ids"),
		apijson.Optional[time.Time]("effective_at"),
		apijson.Required[time.Time]("created_at"),
		apijson.Required[time.Time]("updated_at"),
		apijson.Optional[map[string]*string]("metadata"),
	)
}

// PayoutUnmasked is a payout with the full paykey details.
type PayoutUnmasked struct{ Payout }

func (r PayoutUnmasked) PaykeyDetails() (PaykeyDetails, error) {
	return apijson.GetNullable[PaykeyDetails](r.Raw(), "paykey_details")
}

func (r PayoutUnmasked) Validate() error {
	return r.Check(
		apijson.Embedded(r.Payout),
		apijson.Optional[PaykeyDetails]("paykey_details"),
	)
}

// PayoutCreateParams creates a payout. Amount, currency, description, device,
// external ID, paykey and payment date are required.
type PayoutCreateParams struct {
	requestParams
}

func (p PayoutCreateParams) Clone() PayoutCreateParams {
	p.requestParams = p.requestParams.clone()
	return p
}

// SetAmount sets the amount in cents.
func (p *PayoutCreateParams) SetAmount(v int64)             { setValue(p.bodies(), "amount", v) }
func (p *PayoutCreateParams) SetCurrency(v string)          { setValue(p.bodies(), "currency", v) }
func (p *PayoutCreateParams) SetDescription(v string)       { setValue(p.bodies(), "description", v) }
func (p *PayoutCreateParams) SetDevice(v DeviceInfo)        { setValue(p.bodies(), "device", v) }
func (p *PayoutCreateParams) SetExternalID(v string)        { setValue(p.bodies(), "external_id", v) }
func (p *PayoutCreateParams) SetPaykey(v string)            { setValue(p.bodies(), "paykey", v) }
func (p *PayoutCreateParams) SetPaymentDate(v apijson.Date) { setValue(p.bodies(), "payment_date", v) }

// SetConfig is optional; nil leaves the key out.
func (p *PayoutCreateParams) SetConfig(v *PayoutConfig) { setOptional(p.bodies(), "config", v) }

// SetMetadata writes the metadata map; nil sends an explicit null.
func (p *PayoutCreateParams) SetMetadata(v map[string]string) { setMetadata(p.bodies(), v) }

func (p PayoutCreateParams) Amount() (int64, error) {
	return apijson.GetNotNull[int64](p.RawBodyData(), "amount")
}

func (p PayoutCreateParams) Currency() (string, error) {
	return apijson.GetNotNull[string](p.RawBodyData(), "currency")
}

func (p PayoutCreateParams) PaymentDate() (apijson.Date, error) {
	return apijson.GetNotNull[apijson.Date](p.RawBodyData(), "payment_date")
}

func (p PayoutCreateParams) Config() (PayoutConfig, error) {
	return apijson.GetNullable[PayoutConfig](p.RawBodyData(), "config")
}

func (p PayoutCreateParams) Metadata() (apijson.Field[map[string]*string], error) {
	return metadataOf(p.RawBodyData())
}

var payoutCreateRequired = []string{"amount", "currency", "description", "device", "external_id", "paykey", "payment_date"}

// PayoutUpdateParams changes a payout that has not been sent yet.
type PayoutUpdateParams struct {
	requestParams
	PayoutID string
}

func (p PayoutUpdateParams) Clone() PayoutUpdateParams {
	p.requestParams = p.requestParams.clone()
	return p
}

func (p *PayoutUpdateParams) SetAmount(v int64)               { setValue(p.bodies(), "amount", v) }
func (p *PayoutUpdateParams) SetDescription(v string)         { setValue(p.bodies(), "description", v) }
func (p *PayoutUpdateParams) SetPaymentDate(v apijson.Date)   { setValue(p.bodies(), "payment_date", v) }
func (p *PayoutUpdateParams) SetMetadata(v map[string]string) { setMetadata(p.bodies(), v) }

// PayoutGetParams reads a payout, or its unmasked form.
type PayoutGetParams struct {
	requestParams
	PayoutID string
}

func (p PayoutGetParams) Clone() PayoutGetParams {
	p.requestParams = p.requestParams.clone()
	return p
}

// PayoutActionParams cancels, holds or releases a payout.
type PayoutActionParams struct {
	requestParams
	PayoutID string
}

func (p PayoutActionParams) Clone() PayoutActionParams {
	p.requestParams = p.requestParams.clone()
	return p
}

// SetReason records why the action was taken; nil sends an explicit null.
func (p *PayoutActionParams) SetReason(v *string) { setNullable(p.bodies(), "reason", v) }

// PayoutService manages payouts.
type PayoutService struct {
	c *Client
}

// Create schedules a payout.
func (s *PayoutService) Create(ctx context.Context, params *PayoutCreateParams) (*Response[Payout], error) {
	if params == nil {
		params = &PayoutCreateParams{}
	}
	resp, err := do[Payout](ctx, s.c, operation{
		method:   http.MethodPost,
		path:     "/v1/payouts",
		params:   &params.requestParams,
		required: payoutCreateRequired,
	})
	if err != nil {
		return nil, fmt.Errorf("creating payout: %w", err)
	}
	return resp, nil
}

// Update changes the amount, description or date of a payout. A non-empty id
// takes precedence over params.PayoutID.
func (s *PayoutService) Update(ctx context.Context, id string, params *PayoutUpdateParams) (*Response[Payout], error) {
	p := PayoutUpdateParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.PayoutID = id
	}
	if err := requirePath("payout_id", p.PayoutID); err != nil {
		return nil, err
	}
	resp, err := do[Payout](ctx, s.c, operation{
		method: http.MethodPut,
		path:   pathf("/v1/payouts/%s", p.PayoutID),
		params: &p.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("updating payout %q: %w", p.PayoutID, err)
	}
	return resp, nil
}

// Get reads a payout.
func (s *PayoutService) Get(ctx context.Context, id string, params *PayoutGetParams) (*Response[Payout], error) {
	p := PayoutGetParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.PayoutID = id
	}
	if err := requirePath("payout_id", p.PayoutID); err != nil {
		return nil, err
	}
	resp, err := do[Payout](ctx, s.c, operation{
		method: http.MethodGet,
		path:   pathf("/v1/payouts/%s", p.PayoutID),
		params: &p.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("getting payout %q: %w", p.PayoutID, err)
	}
	return resp, nil
}

// Unmask reads a payout with its paykey details in the clear.
func (s *PayoutService) Unmask(ctx context.Context, id string, params *PayoutGetParams) (*Response[PayoutUnmasked], error) {
	p := PayoutGetParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.PayoutID = id
	}
	if err := requirePath("payout_id", p.PayoutID); err != nil {
		return nil, err
	}
	resp, err := do[PayoutUnmasked](ctx, s.c, operation{
		method: http.MethodGet,
		path:   pathf("/v1/payouts/%s/unmask", p.PayoutID),
		params: &p.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("unmasking payout %q: %w", p.PayoutID, err)
	}
	return resp, nil
}

// Cancel stops a payout before it is sent to the bank.
func (s *PayoutService) Cancel(ctx context.Context, id string, params *PayoutActionParams) (*Response[Payout], error) {
	return s.action(ctx, "cancel", "cancelling", id, params)
}

// Hold pauses a payout until it is released.
func (s *PayoutService) Hold(ctx context.Context, id string, params *PayoutActionParams) (*Response[Payout], error) {
	return s.action(ctx, "hold", "holding", id, params)
}

// Release resumes a held payout.
func (s *PayoutService) Release(ctx context.Context, id string, params *PayoutActionParams) (*Response[Payout], error) {
	return s.action(ctx, "release", "releasing", id, params)
}

func (s *PayoutService) action(ctx context.Context, action, verb, id string, params *PayoutActionParams) (*Response[Payout], error) {
	p := PayoutActionParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.PayoutID = id
	}
	if err := requirePath("payout_id", p.PayoutID); err != nil {
		return nil, err
	}
	resp, err := do[Payout](ctx, s.c, operation{
		method: http.MethodPut,
		path:   pathf("/v1/payouts/%s/"+action, p.PayoutID),
		params: &p.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("%s payout %q: %w", verb, p.PayoutID, err)
	}
	return resp, nil
}
