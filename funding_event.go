package straddle

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/reoring/straddle-go/apijson"
)

type FundingEventDirection string

const (
	FundingEventDirectionDeposit    FundingEventDirection = "deposit"
	FundingEventDirectionWithdrawal FundingEventDirection = "withdrawal"
)

func (r FundingEventDirection) IsKnown() bool {
	switch r {
	case FundingEventDirectionDeposit, FundingEventDirectionWithdrawal:
		return true
	}
	return false
}

type FundingEventType string

const (
	FundingEventTypeChargeDeposit    FundingEventType = "charge_deposit"
	FundingEventTypeChargeReversal   FundingEventType = "charge_reversal"
	FundingEventTypePayoutReturn     FundingEventType = "payout_return"
	FundingEventTypePayoutWithdrawal FundingEventType = "payout_withdrawal"
)

func (r FundingEventType) IsKnown() bool {
	switch r {
	case FundingEventTypeChargeDeposit, FundingEventTypeChargeReversal,
		FundingEventTypePayoutReturn, FundingEventTypePayoutWithdrawal:
		return true
	}
	return false
}

// FundingEvent is a movement of money between the platform's bank account
// and Straddle, grouping the payments it settles.
type FundingEvent struct{ apijson.Object }

func (r FundingEvent) ID() (string, error)    { return apijson.GetNotNull[string](r.Raw(), "id") }
func (r FundingEvent) Amount() (int64, error) { return apijson.GetNotNull[int64](r.Raw(), "amount") }

func (r FundingEvent) Direction() (apijson.Enum[FundingEventDirection], error) {
	return apijson.GetNotNull[apijson.Enum[FundingEventDirection]](r.Raw(), "direction")
}

func (r FundingEvent) EventType() (apijson.Enum[FundingEventType], error) {
	return apijson.GetNotNull[apijson.Enum[FundingEventType]](r.Raw(), "event_type")
}

func (r FundingEvent) PaymentCount() (int64, error) {
	return apijson.GetNotNull[int64](r.Raw(), "payment_count")
}

func (r FundingEvent) TraceNumber() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "trace_number")
}

func (r FundingEvent) TraceNumbers() ([]string, error) {
	return apijson.GetNullable[[]string](r.Raw(), "trace_numbers")
}

func (r FundingEvent) TransferDate() (apijson.Date, error) {
	return apijson.GetNotNull[apijson.Date](r.Raw(), "transfer_date")
}

func (r FundingEvent) CreatedAt() (apijson.Field[time.Time], error) {
	return apijson.GetField[time.Time](r.Raw(), "created_at")
}

func (r FundingEvent) UpdatedAt() (apijson.Field[time.Time], error) {
	return apijson.GetField[time.Time](r.Raw(), "updated_at")
}

func (r FundingEvent) Validate() error {
	return r.Check(
		apijson.Required[string]("id"),
		apijson.Required[int64]("amount"),
		apijson.Required[apijson.Enum[FundingEventDirection]]("direction"),
		apijson.Required[apijson.Enum[FundingEventType]]("event_type"),
		apijson.Required[int64]("payment_count"),
		apijson.Optional[string]("trace_number"),
		apijson.Optional[[]string]("trace_numbers"),
		apijson.Required[apijson.Date]("transfer_date"),
		apijson.Optional[time.Time]("created_at"),
		apijson.Optional[time.Time]("updated_at"),
	)
}

type FundingEventGetParams struct {
	requestParams
	FundingEventID string
}

func (p FundingEventGetParams) Clone() FundingEventGetParams {
	p.requestParams = p.requestParams.clone()
	return p
}

type FundingEventListParams struct {
	listParams
}

func (p FundingEventListParams) Clone() FundingEventListParams {
	p.requestParams = p.requestParams.clone()
	return p
}

func (p *FundingEventListParams) SetCreatedFrom(v apijson.Date) {
	setValue(p.queries(), "created_from", v)
}
func (p *FundingEventListParams) SetCreatedTo(v apijson.Date) { setValue(p.queries(), "created_to", v) }
func (p *FundingEventListParams) SetSearchText(v string)      { setValue(p.queries(), "search_text", v) }
func (p *FundingEventListParams) SetTraceNumber(v string)     { setValue(p.queries(), "trace_number", v) }

func (p *FundingEventListParams) SetDirection(v FundingEventDirection) {
	setValue(p.queries(), "direction", v)
}

func (p *FundingEventListParams) SetEventType(v FundingEventType) {
	setValue(p.queries(), "event_type", v)
}

// FundingEventService reads funding events.
type FundingEventService struct {
	c *Client
}

func (s *FundingEventService) Get(ctx context.Context, id string, params *FundingEventGetParams) (*Response[FundingEvent], error) {
	p := FundingEventGetParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.FundingEventID = id
	}
	if err := requirePath("id", p.FundingEventID); err != nil {
		return nil, err
	}
	resp, err := do[FundingEvent](ctx, s.c, operation{
		method: http.MethodGet,
		path:   pathf("/v1/funding_events/%s", p.FundingEventID),
		params: &p.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("getting funding event %q: %w", p.FundingEventID, err)
	}
	return resp, nil
}

func (s *FundingEventService) List(ctx context.Context, params *FundingEventListParams) (*Page[FundingEvent], error) {
	p := FundingEventListParams{}
	if params != nil {
		p = params.Clone()
	}
	page, err := list(ctx, s.c, operation{
		method: http.MethodGet,
		path:   "/v1/funding_events",
		params: &p.requestParams,
	}, &p.listParams, func(ctx context.Context, n int64) (*Page[FundingEvent], error) {
		next := p.Clone()
		next.SetPageNumber(n)
		return s.List(ctx, &next)
	})
	if err != nil {
		return nil, fmt.Errorf("listing funding events: %w", err)
	}
	return page, nil
}
