package straddle

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/reoring/straddle-go/apijson"
)

// ConsentType is how the customer authorized a charge.
type ConsentType string

const (
	ConsentTypeInternet ConsentType = "internet"
	ConsentTypeSigned   ConsentType = "signed"
)

func (r ConsentType) IsKnown() bool {
	switch r {
	case ConsentTypeInternet, ConsentTypeSigned:
		return true
	}
	return false
}

// BalanceCheck controls whether the paykey balance is verified before a charge.
type BalanceCheck string

const (
	BalanceCheckRequired BalanceCheck = "required"
	BalanceCheckEnabled  BalanceCheck = "enabled"
	BalanceCheckDisabled BalanceCheck = "disabled"
)

func (r BalanceCheck) IsKnown() bool {
	switch r {
	case BalanceCheckRequired, BalanceCheckEnabled, BalanceCheckDisabled:
		return true
	}
	return false
}

type ChargeSandboxOutcome string

const (
	ChargeSandboxOutcomeStandard                  ChargeSandboxOutcome = "standard"
	ChargeSandboxOutcomePaid                      ChargeSandboxOutcome = "paid"
	ChargeSandboxOutcomeOnHoldDailyLimit          ChargeSandboxOutcome = "on_hold_daily_limit"
	ChargeSandboxOutcomeCancelledForFraudRisk     ChargeSandboxOutcome = "cancelled_for_fraud_risk"
	ChargeSandboxOutcomeCancelledForBalanceCheck  ChargeSandboxOutcome = "cancelled_for_balance_check"
	ChargeSandboxOutcomeFailedInsufficientFunds   ChargeSandboxOutcome = "failed_insufficient_funds"
	ChargeSandboxOutcomeReversedInsufficientFunds ChargeSandboxOutcome = "reversed_insufficient_funds"
	ChargeSandboxOutcomeFailedCustomerDispute     ChargeSandboxOutcome = "failed_customer_dispute"
	ChargeSandboxOutcomeReversedCustomerDispute   ChargeSandboxOutcome = "reversed_customer_dispute"
	ChargeSandboxOutcomeFailedClosedBankAccount   ChargeSandboxOutcome = "failed_closed_bank_account"
	ChargeSandboxOutcomeReversedClosedBankAccount ChargeSandboxOutcome = "reversed_closed_bank_account"
)

func (r ChargeSandboxOutcome) IsKnown() bool {
	switch r {
	case ChargeSandboxOutcomeStandard, ChargeSandboxOutcomePaid, ChargeSandboxOutcomeOnHoldDailyLimit,
		ChargeSandboxOutcomeCancelledForFraudRisk, ChargeSandboxOutcomeCancelledForBalanceCheck,
		ChargeSandboxOutcomeFailedInsufficientFunds, ChargeSandboxOutcomeReversedInsufficientFunds,
		ChargeSandboxOutcomeFailedCustomerDispute, ChargeSandboxOutcomeReversedCustomerDispute,
		ChargeSandboxOutcomeFailedClosedBankAccount, ChargeSandboxOutcomeReversedClosedBankAccount:
		return true
	}
	return false
}

// ChargeConfig holds per-charge processing options.
type ChargeConfig struct{ apijson.Object }

// NewChargeConfig returns a config with the required balance check mode.
func NewChargeConfig(balanceCheck BalanceCheck) ChargeConfig {
	var c ChargeConfig
	c.SetBalanceCheck(balanceCheck)
	return c
}

func (r ChargeConfig) BalanceCheck() (apijson.Enum[BalanceCheck], error) {
	return apijson.GetNotNull[apijson.Enum[BalanceCheck]](r.Raw(), "balance_check")
}

func (r ChargeConfig) SandboxOutcome() (apijson.Enum[ChargeSandboxOutcome], error) {
	return apijson.GetNullable[apijson.Enum[ChargeSandboxOutcome]](r.Raw(), "sandbox_outcome")
}

func (r *ChargeConfig) SetBalanceCheck(v BalanceCheck) { setValue(r.Writable(), "balance_check", v) }

func (r *ChargeConfig) SetSandboxOutcome(v ChargeSandboxOutcome) {
	setValue(r.Writable(), "sandbox_outcome", v)
}

func (r ChargeConfig) Validate() error {
	return r.Check(
		apijson.Required[apijson.Enum[BalanceCheck]]("balance_check"),
		apijson.Optional[apijson.Enum[ChargeSandboxOutcome]]("sandbox_outcome"),
	)
}

// Charge is money pulled from a customer's bank account.
type Charge struct{ apijson.Object }

func (r Charge) ID() (string, error)       { return apijson.GetNotNull[string](r.Raw(), "id") }
func (r Charge) Amount() (int64, error)    { return apijson.GetNotNull[int64](r.Raw(), "amount") }
func (r Charge) Currency() (string, error) { return apijson.GetNotNull[string](r.Raw(), "currency") }

func (r Charge) Description() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "description")
}

func (r Charge) ExternalID() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "external_id")
}

func (r Charge) Paykey() (string, error) { return apijson.GetNotNull[string](r.Raw(), "paykey") }

func (r Charge) ConsentType() (apijson.Enum[ConsentType], error) {
	return apijson.GetNotNull[apijson.Enum[ConsentType]](r.Raw(), "consent_type")
}

func (r Charge) Config() (ChargeConfig, error) {
	return apijson.GetNotNull[ChargeConfig](r.Raw(), "config")
}

func (r Charge) PaymentDate() (apijson.Date, error) {
	return apijson.GetNotNull[apijson.Date](r.Raw(), "payment_date")
}

func (r Charge) Status() (apijson.Enum[PaymentStatus], error) {
	return apijson.GetNotNull[apijson.Enum[PaymentStatus]](r.Raw(), "status")
}

func (r Charge) StatusDetails() (StatusDetails, error) {
	return apijson.GetNotNull[StatusDetails](r.Raw(), "status_details")
}

func (r Charge) StatusHistory() ([]StatusHistoryEntry, error) {
	return apijson.GetNullable[[]StatusHistoryEntry](r.Raw(), "status_history")
}

func (r Charge) Device() (DeviceInfo, error) {
	return apijson.GetNullable[DeviceInfo](r.Raw(), "device")
}

func (r Charge) FundingIDs() ([]string, error) {
	return apijson.GetNullable[[]string](r.Raw(), "funding_ids")
}

func (r Charge) EffectiveAt() (apijson.Field[time.Time], error) {
	return apijson.GetField[time.Time](r.Raw(), "effective_at")
}

func (r Charge) CreatedAt() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "created_at")
}

func (r Charge) UpdatedAt() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "updated_at")
}

func (r Charge) Metadata() (apijson.Field[map[string]*string], error) { return metadataOf(r.Raw()) }

func (r Charge) Validate() error {
	return r.Check(
		apijson.Required[string]("id"),
		apijson.Required[int64]("amount"),
		apijson.Required[string]("currency"),
		apijson.Required[string]("description"),
		apijson.Required[string]("external_id"),
		apijson.Required[string]("paykey"),
		apijson.Required[apijson.Enum[ConsentType]]("consent_type"),
		apijson.Required[ChargeConfig]("config"),
		apijson.Required[apijson.Date]("payment_date"),
		apijson.Required[apijson.Enum[PaymentStatus]]("status"),
		apijson.Required[StatusDetails]("status_details"),
		apijson.OptionalEach[StatusHistoryEntry]("status_history"),
		apijson.Optional[DeviceInfo]("device"),
		apijson.Optional[[]string]("funding_ids"),
		apijson.Optional[time.Time]("effective_at"),
		apijson.Required[time.Time]("created_at"),
		apijson.Required[time.Time]("updated_at"),
		apijson.Optional[map[string]*string]("metadata"),
	)
}

// ChargeUnmasked is a charge with the full paykey details.
type ChargeUnmasked struct{ Charge }

func (r ChargeUnmasked) PaykeyDetails() (PaykeyDetails, error) {
	return apijson.GetNullable[PaykeyDetails](r.Raw(), "paykey_details")
}

func (r ChargeUnmasked) Validate() error {
	return r.Check(
		apijson.Embedded(r.Charge),
		apijson.Optional[PaykeyDetails]("paykey_details"),
	)
}

// ChargeCreateParams creates a charge. Every setter except SetMetadata is
// required.
type ChargeCreateParams struct {
	requestParams
}

func (p ChargeCreateParams) Clone() ChargeCreateParams {
	p.requestParams = p.requestParams.clone()
	return p
}

// SetAmount sets the amount in cents.
func (p *ChargeCreateParams) SetAmount(v int64)               { setValue(p.bodies(), "amount", v) }
func (p *ChargeCreateParams) SetConfig(v ChargeConfig)        { setValue(p.bodies(), "config", v) }
func (p *ChargeCreateParams) SetConsentType(v ConsentType)    { setValue(p.bodies(), "consent_type", v) }
func (p *ChargeCreateParams) SetCurrency(v string)            { setValue(p.bodies(), "currency", v) }
func (p *ChargeCreateParams) SetDescription(v string)         { setValue(p.bodies(), "description", v) }
func (p *ChargeCreateParams) SetDevice(v DeviceInfo)          { setValue(p.bodies(), "device", v) }
func (p *ChargeCreateParams) SetExternalID(v string)          { setValue(p.bodies(), "external_id", v) }
func (p *ChargeCreateParams) SetPaykey(v string)              { setValue(p.bodies(), "paykey", v) }
func (p *ChargeCreateParams) SetPaymentDate(v apijson.Date)   { setValue(p.bodies(), "payment_date", v) }
func (p *ChargeCreateParams) SetMetadata(v map[string]string) { setMetadata(p.bodies(), v) }

var chargeCreateRequired = []string{
	"amount", "config", "consent_type", "currency", "description",
	"device", "external_id", "paykey", "payment_date",
}

type ChargeUpdateParams struct {
	requestParams
	ChargeID string
}

func (p ChargeUpdateParams) Clone() ChargeUpdateParams {
	p.requestParams = p.requestParams.clone()
	return p
}

func (p *ChargeUpdateParams) SetAmount(v int64)               { setValue(p.bodies(), "amount", v) }
func (p *ChargeUpdateParams) SetDescription(v string)         { setValue(p.bodies(), "description", v) }
func (p *ChargeUpdateParams) SetPaymentDate(v apijson.Date)   { setValue(p.bodies(), "payment_date", v) }
func (p *ChargeUpdateParams) SetMetadata(v map[string]string) { setMetadata(p.bodies(), v) }

type ChargeGetParams struct {
	requestParams
	ChargeID string
}

func (p ChargeGetParams) Clone() ChargeGetParams {
	p.requestParams = p.requestParams.clone()
	return p
}

// ChargeActionParams cancels, holds or releases a charge.
type ChargeActionParams struct {
	requestParams
	ChargeID string
}

func (p ChargeActionParams) Clone() ChargeActionParams {
	p.requestParams = p.requestParams.clone()
	return p
}

// SetReason records why the action was taken; nil sends an explicit null.
func (p *ChargeActionParams) SetReason(v *string) { setNullable(p.bodies(), "reason", v) }

// ChargeService manages charges.
type ChargeService struct {
	c *Client
}

func (s *ChargeService) Create(ctx context.Context, params *ChargeCreateParams) (*Response[Charge], error) {
	if params == nil {
		params = &ChargeCreateParams{}
	}
	resp, err := do[Charge](ctx, s.c, operation{
		method:   http.MethodPost,
		path:     "/v1/charges",
		params:   &params.requestParams,
		required: chargeCreateRequired,
	})
	if err != nil {
		return nil, fmt.Errorf("creating charge: %w", err)
	}
	return resp, nil
}

func (s *ChargeService) Update(ctx context.Context, id string, params *ChargeUpdateParams) (*Response[Charge], error) {
	p := ChargeUpdateParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.ChargeID = id
	}
	if err := requirePath("charge_id", p.ChargeID); err != nil {
		return nil, err
	}
	resp, err := do[Charge](ctx, s.c, operation{
		method: http.MethodPut,
		path:   pathf("/v1/charges/%s", p.ChargeID),
		params: &p.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("updating charge %q: %w", p.ChargeID, err)
	}
	return resp, nil
}

func (s *ChargeService) Get(ctx context.Context, id string, params *ChargeGetParams) (*Response[Charge], error) {
	p := ChargeGetParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.ChargeID = id
	}
	if err := requirePath("charge_id", p.ChargeID); err != nil {
		return nil, err
	}
	resp, err := do[Charge](ctx, s.c, operation{
		method: http.MethodGet,
		path:   pathf("/v1/charges/%s", p.ChargeID),
		params: &p.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("getting charge %q: %w", p.ChargeID, err)
	}
	return resp, nil
}

func (s *ChargeService) Unmask(ctx context.Context, id string, params *ChargeGetParams) (*Response[ChargeUnmasked], error) {
	p := ChargeGetParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.ChargeID = id
	}
	if err := requirePath("charge_id", p.ChargeID); err != nil {
		return nil, err
	}
	resp, err := do[ChargeUnmasked](ctx, s.c, operation{
		method: http.MethodGet,
		path:   pathf("/v1/charges/%s/unmask", p.ChargeID),
		params: &p.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("unmasking charge %q: %w", p.ChargeID, err)
	}
	return resp, nil
}

func (s *ChargeService) Cancel(ctx context.Context, id string, params *ChargeActionParams) (*Response[Charge], error) {
	return s.action(ctx, "cancel", "cancelling", id, params)
}

func (s *ChargeService) Hold(ctx context.Context, id string, params *ChargeActionParams) (*Response[Charge], error) {
	return s.action(ctx, "hold", "holding", id, params)
}

func (s *ChargeService) Release(ctx context.Context, id string, params *ChargeActionParams) (*Response[Charge], error) {
	return s.action(ctx, "release", "releasing", id, params)
}

func (s *ChargeService) action(ctx context.Context, action, verb, id string, params *ChargeActionParams) (*Response[Charge], error) {
	p := ChargeActionParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.ChargeID = id
	}
	if err := requirePath("charge_id", p.ChargeID); err != nil {
		return nil, err
	}
	resp, err := do[Charge](ctx, s.c, operation{
		method: http.MethodPut,
		path:   pathf("/v1/charges/%s/"+action, p.ChargeID),
		params: &p.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("%s charge %q: %w", verb, p.ChargeID, err)
	}
	return resp, nil
}
