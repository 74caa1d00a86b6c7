package straddle

import (
	"context"
	"fmt"
	"net/http"

	"github.com/reoring/straddle-go/apijson"
)

// CustomersByStatus counts customers per status.
type CustomersByStatus struct{ apijson.Object }

func (r CustomersByStatus) Inactive() (int64, error) {
	return apijson.GetNotNull[int64](r.Raw(), "inactive")
}
func (r CustomersByStatus) Pending() (int64, error) {
	return apijson.GetNotNull[int64](r.Raw(), "pending")
}
func (r CustomersByStatus) Rejected() (int64, error) {
	return apijson.GetNotNull[int64](r.Raw(), "rejected")
}
func (r CustomersByStatus) Review() (int64, error) {
	return apijson.GetNotNull[int64](r.Raw(), "review")
}
func (r CustomersByStatus) Verified() (int64, error) {
	return apijson.GetNotNull[int64](r.Raw(), "verified")
}

// Total sums every status count the response carries, including statuses
// this client does not know about.
func (r CustomersByStatus) Total() (int64, error) {
	var total int64
	for k := range r.Raw().All() {
		n, err := apijson.GetNullable[int64](r.Raw(), k)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func (r CustomersByStatus) Validate() error {
	return r.Check(
		apijson.Required[int64]("inactive"),
		apijson.Required[int64]("pending"),
		apijson.Required[int64]("rejected"),
		apijson.Required[int64]("review"),
		apijson.Required[int64]("verified"),
	)
}

type ReportParams struct {
	requestParams
}

func (p ReportParams) Clone() ReportParams {
	p.requestParams = p.requestParams.clone()
	return p
}

// ReportService runs aggregate reports.
type ReportService struct {
	c *Client
}

// TotalCustomersByStatus counts the platform's customers by status.
func (s *ReportService) TotalCustomersByStatus(ctx context.Context, params *ReportParams) (*Response[CustomersByStatus], error) {
	if params == nil {
		params = &ReportParams{}
	}
	resp, err := do[CustomersByStatus](ctx, s.c, operation{
		method: http.MethodPost,
		path:   "/v1/reports/total_customers_by_status",
		params: &params.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("reporting customers by status: %w", err)
	}
	return resp, nil
}
