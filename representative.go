package straddle

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/reoring/straddle-go/apijson"
)

// Relationship describes how a representative relates to the business.
type Relationship struct{ apijson.Object }

// NewRelationship returns a relationship with the required flags set.
func NewRelationship(control, owner, primary bool) Relationship {
	var r Relationship
	r.SetControl(control)
	r.SetOwner(owner)
	r.SetPrimary(primary)
	return r
}

func (r Relationship) Control() (bool, error) { return apijson.GetNotNull[bool](r.Raw(), "control") }
func (r Relationship) Owner() (bool, error)   { return apijson.GetNotNull[bool](r.Raw(), "owner") }
func (r Relationship) Primary() (bool, error) { return apijson.GetNotNull[bool](r.Raw(), "primary") }

func (r Relationship) PercentOwnership() (apijson.Field[float64], error) {
	return apijson.GetField[float64](r.Raw(), "percent_ownership")
}

func (r Relationship) Title() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "title")
}

func (r *Relationship) SetControl(v bool)  { setValue(r.Writable(), "control", v) }
func (r *Relationship) SetOwner(v bool)    { setValue(r.Writable(), "owner", v) }
func (r *Relationship) SetPrimary(v bool)  { setValue(r.Writable(), "primary", v) }
func (r *Relationship) SetTitle(v *string) { setNullable(r.Writable(), "title", v) }

func (r *Relationship) SetPercentOwnership(v *float64) {
	setNullable(r.Writable(), "percent_ownership", v)
}

func (r Relationship) Validate() error {
	return r.Check(
		apijson.Required[bool]("control"),
		apijson.Required[bool]("owner"),
		apijson.Required[bool]("primary"),
		apijson.Optional[float64]("percent_ownership"),
		apijson.Optional[string]("title"),
	)
}

// Representative is a person acting for a business account.
type Representative struct{ apijson.Object }

func (r Representative) ID() (string, error) { return apijson.GetNotNull[string](r.Raw(), "id") }

func (r Representative) AccountID() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "account_id")
}

func (r Representative) FirstName() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "first_name")
}

func (r Representative) LastName() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "last_name")
}

func (r Representative) Email() (string, error) { return apijson.GetNotNull[string](r.Raw(), "email") }

func (r Representative) MobileNumber() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "mobile_number")
}

func (r Representative) DOB() (apijson.Date, error) {
	return apijson.GetNotNull[apijson.Date](r.Raw(), "dob")
}

// SSNLast4 is masked; Unmask returns the full number under SSN.
func (r Representative) SSNLast4() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "ssn_last4")
}

func (r Representative) SSN() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "ssn")
}

func (r Representative) Relationship() (Relationship, error) {
	return apijson.GetNotNull[Relationship](r.Raw(), "relationship")
}

func (r Representative) Status() (apijson.Enum[AccountStatus], error) {
	return apijson.GetNotNull[apijson.Enum[AccountStatus]](r.Raw(), "status")
}

func (r Representative) StatusDetail() (StatusDetails, error) {
	return apijson.GetNullable[StatusDetails](r.Raw(), "status_detail")
}

func (r Representative) ExternalID() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "external_id")
}

func (r Representative) CreatedAt() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "created_at")
}

func (r Representative) UpdatedAt() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "updated_at")
}

func (r Representative) Metadata() (apijson.Field[map[string]*string], error) {
	return metadataOf(r.Raw())
}

func (r Representative) Validate() error {
	return r.Check(
		apijson.Required[string]("id"),
		apijson.Required[string]("account_id"),
		apijson.Required[string]("first_name"),
		apijson.Required[string]("last_name"),
		apijson.Required[string]("email"),
		apijson.Required[string]("mobile_number"),
		apijson.Required[apijson.Date]("dob"),
		apijson.Required[string]("ssn_last4"),
		apijson.Optional[string]("ssn"),
		apijson.Required[Relationship]("relationship"),
		apijson.Required[apijson.Enum[AccountStatus]]("status"),
		apijson.Optional[StatusDetails]("status_detail"),
		apijson.Optional[string]("external_id"),
		apijson.Required[time.Time]("created_at"),
		apijson.Required[time.Time]("updated_at"),
		apijson.Optional[map[string]*string]("metadata"),
	)
}

// RepresentativeCreateParams adds a representative to an account. Every
// setter except SetExternalID and SetMetadata is required.
type RepresentativeCreateParams struct {
	requestParams
}

func (p RepresentativeCreateParams) Clone() RepresentativeCreateParams {
	p.requestParams = p.requestParams.clone()
	return p
}

func (p *RepresentativeCreateParams) SetAccountID(v string) { setValue(p.bodies(), "account_id", v) }
func (p *RepresentativeCreateParams) SetFirstName(v string) { setValue(p.bodies(), "first_name", v) }
func (p *RepresentativeCreateParams) SetLastName(v string)  { setValue(p.bodies(), "last_name", v) }
func (p *RepresentativeCreateParams) SetEmail(v string)     { setValue(p.bodies(), "email", v) }
func (p *RepresentativeCreateParams) SetMobileNumber(v string) {
	setValue(p.bodies(), "mobile_number", v)
}
func (p *RepresentativeCreateParams) SetDOB(v apijson.Date) { setValue(p.bodies(), "dob", v) }
func (p *RepresentativeCreateParams) SetSSNLast4(v string)  { setValue(p.bodies(), "ssn_last4", v) }
func (p *RepresentativeCreateParams) SetRelationship(v Relationship) {
	setValue(p.bodies(), "relationship", v)
}
func (p *RepresentativeCreateParams) SetExternalID(v *string) {
	setNullable(p.bodies(), "external_id", v)
}
func (p *RepresentativeCreateParams) SetMetadata(v map[string]string) { setMetadata(p.bodies(), v) }

var representativeCreateRequired = []string{
	"account_id", "first_name", "last_name", "email", "mobile_number", "dob", "ssn_last4", "relationship",
}

type RepresentativeUpdateParams struct {
	requestParams
	RepresentativeID string
}

func (p RepresentativeUpdateParams) Clone() RepresentativeUpdateParams {
	p.requestParams = p.requestParams.clone()
	return p
}

func (p *RepresentativeUpdateParams) SetFirstName(v string) { setValue(p.bodies(), "first_name", v) }
func (p *RepresentativeUpdateParams) SetLastName(v string)  { setValue(p.bodies(), "last_name", v) }
func (p *RepresentativeUpdateParams) SetEmail(v string)     { setValue(p.bodies(), "email", v) }
func (p *RepresentativeUpdateParams) SetMobileNumber(v string) {
	setValue(p.bodies(), "mobile_number", v)
}
func (p *RepresentativeUpdateParams) SetDOB(v apijson.Date) { setValue(p.bodies(), "dob", v) }
func (p *RepresentativeUpdateParams) SetSSNLast4(v string)  { setValue(p.bodies(), "ssn_last4", v) }
func (p *RepresentativeUpdateParams) SetRelationship(v Relationship) {
	setValue(p.bodies(), "relationship", v)
}
func (p *RepresentativeUpdateParams) SetExternalID(v *string) {
	setNullable(p.bodies(), "external_id", v)
}
func (p *RepresentativeUpdateParams) SetMetadata(v map[string]string) { setMetadata(p.bodies(), v) }

type RepresentativeGetParams struct {
	requestParams
	RepresentativeID string
}

func (p RepresentativeGetParams) Clone() RepresentativeGetParams {
	p.requestParams = p.requestParams.clone()
	return p
}

type RepresentativeListParams struct {
	listParams
}

func (p RepresentativeListParams) Clone() RepresentativeListParams {
	p.requestParams = p.requestParams.clone()
	return p
}

func (p *RepresentativeListParams) SetAccountID(v string) { setValue(p.queries(), "account_id", v) }

// RepresentativeService manages the people behind business accounts.
type RepresentativeService struct {
	c *Client
}

func (s *RepresentativeService) Create(ctx context.Context, params *RepresentativeCreateParams) (*Response[Representative], error) {
	if params == nil {
		params = &RepresentativeCreateParams{}
	}
	resp, err := do[Representative](ctx, s.c, operation{
		method:   http.MethodPost,
		path:     "/v1/representatives",
		params:   &params.requestParams,
		required: representativeCreateRequired,
	})
	if err != nil {
		return nil, fmt.Errorf("creating representative: %w", err)
	}
	return resp, nil
}

func (s *RepresentativeService) Update(ctx context.Context, id string, params *RepresentativeUpdateParams) (*Response[Representative], error) {
	p := RepresentativeUpdateParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.RepresentativeID = id
	}
	if err := requirePath("representative_id", p.RepresentativeID); err != nil {
		return nil, err
	}
	resp, err := do[Representative](ctx, s.c, operation{
		method: http.MethodPut,
		path:   pathf("/v1/representatives/%s", p.RepresentativeID),
		params: &p.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("updating representative %q: %w", p.RepresentativeID, err)
	}
	return resp, nil
}

func (s *RepresentativeService) Get(ctx context.Context, id string, params *RepresentativeGetParams) (*Response[Representative], error) {
	return s.get(ctx, "/v1/representatives/%s", "getting", id, params)
}

// Unmask reads a representative with the full SSN.
func (s *RepresentativeService) Unmask(ctx context.Context, id string, params *RepresentativeGetParams) (*Response[Representative], error) {
	return s.get(ctx, "/v1/representatives/%s/unmask", "unmasking", id, params)
}

func (s *RepresentativeService) get(ctx context.Context, path, verb, id string, params *RepresentativeGetParams) (*Response[Representative], error) {
	p := RepresentativeGetParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.RepresentativeID = id
	}
	if err := requirePath("representative_id", p.RepresentativeID); err != nil {
		return nil, err
	}
	resp, err := do[Representative](ctx, s.c, operation{
		method: http.MethodGet,
		path:   pathf(path, p.RepresentativeID),
		params: &p.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("%s representative %q: %w", verb, p.RepresentativeID, err)
	}
	return resp, nil
}

func (s *RepresentativeService) List(ctx context.Context, params *RepresentativeListParams) (*Page[Representative], error) {
	p := RepresentativeListParams{}
	if params != nil {
		p = params.Clone()
	}
	page, err := list(ctx, s.c, operation{
		method: http.MethodGet,
		path:   "/v1/representatives",
		params: &p.requestParams,
	}, &p.listParams, func(ctx context.Context, n int64) (*Page[Representative], error) {
		next := p.Clone()
		next.SetPageNumber(n)
		return s.List(ctx, &next)
	})
	if err != nil {
		return nil, fmt.Errorf("listing representatives: %w", err)
	}
	return page, nil
}
