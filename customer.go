package straddle

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/reoring/straddle-go/apijson"
)

type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "individual"
	CustomerTypeBusiness   CustomerType = "business"
)

func (r CustomerType) IsKnown() bool {
	switch r {
	case CustomerTypeIndividual, CustomerTypeBusiness:
		return true
	}
	return false
}

type CustomerStatus string

const (
	CustomerStatusPending  CustomerStatus = "pending"
	CustomerStatusReview   CustomerStatus = "review"
	CustomerStatusVerified CustomerStatus = "verified"
	CustomerStatusInactive CustomerStatus = "inactive"
	CustomerStatusRejected CustomerStatus = "rejected"
)

func (r CustomerStatus) IsKnown() bool {
	switch r {
	case CustomerStatusPending, CustomerStatusReview, CustomerStatusVerified,
		CustomerStatusInactive, CustomerStatusRejected:
		return true
	}
	return false
}

// ProcessingMethod selects when identity verification runs for a new customer.
type ProcessingMethod string

const (
	ProcessingMethodInline     ProcessingMethod = "inline"
	ProcessingMethodBackground ProcessingMethod = "background"
	ProcessingMethodSkip       ProcessingMethod = "skip"
)

func (r ProcessingMethod) IsKnown() bool {
	switch r {
	case ProcessingMethodInline, ProcessingMethodBackground, ProcessingMethodSkip:
		return true
	}
	return false
}

type CustomerSandboxOutcome string

const (
	CustomerSandboxOutcomeStandard CustomerSandboxOutcome = "standard"
	CustomerSandboxOutcomeVerified CustomerSandboxOutcome = "verified"
	CustomerSandboxOutcomeRejected CustomerSandboxOutcome = "rejected"
	CustomerSandboxOutcomeReview   CustomerSandboxOutcome = "review"
)

func (r CustomerSandboxOutcome) IsKnown() bool {
	switch r {
	case CustomerSandboxOutcomeStandard, CustomerSandboxOutcomeVerified,
		CustomerSandboxOutcomeRejected, CustomerSandboxOutcomeReview:
		return true
	}
	return false
}

// CustomerConfig holds options for customer creation.
type CustomerConfig struct{ apijson.Object }

func (r CustomerConfig) ProcessingMethod() (apijson.Enum[ProcessingMethod], error) {
	return apijson.GetNullable[apijson.Enum[ProcessingMethod]](r.Raw(), "processing_method")
}

func (r CustomerConfig) SandboxOutcome() (apijson.Enum[CustomerSandboxOutcome], error) {
	return apijson.GetNullable[apijson.Enum[CustomerSandboxOutcome]](r.Raw(), "sandbox_outcome")
}

func (r *CustomerConfig) SetProcessingMethod(v ProcessingMethod) {
	setValue(r.Writable(), "processing_method", v)
}

func (r *CustomerConfig) SetSandboxOutcome(v CustomerSandboxOutcome) {
	setValue(r.Writable(), "sandbox_outcome", v)
}

func (r CustomerConfig) Validate() error {
	return r.Check(
		apijson.Optional[apijson.Enum[ProcessingMethod]]("processing_method"),
		apijson.Optional[apijson.Enum[CustomerSandboxOutcome]]("sandbox_outcome"),
	)
}

// ComplianceProfile carries identity data used for verification. Individuals
// use DOB and SSN; businesses use EIN, legal name and website. Sensitive values
// are masked unless read through Unmasked.
type ComplianceProfile struct{ apijson.Object }

func (r ComplianceProfile) DOB() (apijson.Field[apijson.Date], error) {
	return apijson.GetField[apijson.Date](r.Raw(), "dob")
}

func (r ComplianceProfile) SSN() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "ssn")
}

func (r ComplianceProfile) EIN() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "ein")
}

func (r ComplianceProfile) LegalBusinessName() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "legal_business_name")
}

func (r ComplianceProfile) Website() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "website")
}

func (r *ComplianceProfile) SetDOB(v *apijson.Date) { setNullable(r.Writable(), "dob", v) }
func (r *ComplianceProfile) SetSSN(v *string)       { setNullable(r.Writable(), "ssn", v) }
func (r *ComplianceProfile) SetEIN(v *string)       { setNullable(r.Writable(), "ein", v) }
func (r *ComplianceProfile) SetLegalBusinessName(v *string) {
	setNullable(r.Writable(), "legal_business_name", v)
}
func (r *ComplianceProfile) SetWebsite(v *string) { setNullable(r.Writable(), "website", v) }

func (r ComplianceProfile) Validate() error {
	return r.Check(
		apijson.Optional[apijson.Date]("dob"),
		apijson.Optional[string]("ssn"),
		apijson.Optional[string]("ein"),
		apijson.Optional[string]("legal_business_name"),
		apijson.Optional[string]("website"),
	)
}

// Customer is a person or business that pays or gets paid.
type Customer struct{ apijson.Object }

func (r Customer) ID() (string, error)    { return apijson.GetNotNull[string](r.Raw(), "id") }
func (r Customer) Name() (string, error)  { return apijson.GetNotNull[string](r.Raw(), "name") }
func (r Customer) Email() (string, error) { return apijson.GetNotNull[string](r.Raw(), "email") }
func (r Customer) Phone() (string, error) { return apijson.GetNotNull[string](r.Raw(), "phone") }

func (r Customer) Type() (apijson.Enum[CustomerType], error) {
	return apijson.GetNotNull[apijson.Enum[CustomerType]](r.Raw(), "type")
}

func (r Customer) Status() (apijson.Enum[CustomerStatus], error) {
	return apijson.GetNotNull[apijson.Enum[CustomerStatus]](r.Raw(), "status")
}

func (r Customer) Address() (apijson.Field[Address], error) {
	return apijson.GetField[Address](r.Raw(), "address")
}

func (r Customer) ComplianceProfile() (apijson.Field[ComplianceProfile], error) {
	return apijson.GetField[ComplianceProfile](r.Raw(), "compliance_profile")
}

func (r Customer) Device() (DeviceInfo, error) {
	return apijson.GetNullable[DeviceInfo](r.Raw(), "device")
}

func (r Customer) ExternalID() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "external_id")
}

func (r Customer) CreatedAt() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "created_at")
}

func (r Customer) UpdatedAt() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "updated_at")
}

func (r Customer) Metadata() (apijson.Field[map[string]*string], error) { return metadataOf(r.Raw()) }

func (r Customer) Validate() error {
	return r.Check(
		apijson.Required[string]("id"),
		apijson.Required[string]("name"),
		apijson.Required[string]("email"),
		apijson.Required[string]("phone"),
		apijson.Required[apijson.Enum[CustomerType]]("type"),
		apijson.Required[apijson.Enum[CustomerStatus]]("status"),
		apijson.Optional[Address]("address"),
		apijson.Optional[ComplianceProfile]("compliance_profile"),
		apijson.Optional[DeviceInfo]("device"),
		apijson.Optional[string]("external_id"),
		apijson.Required[time.Time]("created_at"),
		apijson.Required[time.Time]("updated_at"),
		apijson.Optional[map[string]*string]("metadata"),
	)
}

type ReviewDecision string

const (
	ReviewDecisionAccept ReviewDecision = "accept"
	ReviewDecisionReject ReviewDecision = "reject"
	ReviewDecisionReview ReviewDecision = "review"
)

func (r ReviewDecision) IsKnown() bool {
	switch r {
	case ReviewDecisionAccept, ReviewDecisionReject, ReviewDecisionReview:
		return true
	}
	return false
}

// IdentityDetails is the outcome of identity verification.
type IdentityDetails struct{ apijson.Object }

func (r IdentityDetails) ReviewID() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "review_id")
}

func (r IdentityDetails) Decision() (apijson.Enum[ReviewDecision], error) {
	return apijson.GetNotNull[apijson.Enum[ReviewDecision]](r.Raw(), "decision")
}

// Messages maps verification check codes to their explanations.
func (r IdentityDetails) Messages() (map[string]*string, error) {
	return apijson.GetNullable[map[string]*string](r.Raw(), "messages")
}

func (r IdentityDetails) CreatedAt() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "created_at")
}

func (r IdentityDetails) UpdatedAt() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "updated_at")
}

func (r IdentityDetails) Validate() error {
	return r.Check(
		apijson.Required[string]("review_id"),
		apijson.Required[apijson.Enum[ReviewDecision]]("decision"),
		apijson.Optional[map[string]*string]("messages"),
		apijson.Required[time.Time]("created_at"),
		apijson.Required[time.Time]("updated_at"),
	)
}

// CustomerReview pairs a customer with its identity verification.
type CustomerReview struct{ apijson.Object }

func (r CustomerReview) CustomerDetails() (Customer, error) {
	return apijson.GetNotNull[Customer](r.Raw(), "customer_details")
}

func (r CustomerReview) IdentityDetails() (apijson.Field[IdentityDetails], error) {
	return apijson.GetField[IdentityDetails](r.Raw(), "identity_details")
}

func (r CustomerReview) Validate() error {
	return r.Check(
		apijson.Required[Customer]("customer_details"),
		apijson.Optional[IdentityDetails]("identity_details"),
	)
}

// CustomerCreateParams creates a customer. Name, type, email, phone and
// device are required.
type CustomerCreateParams struct {
	requestParams
}

func (p CustomerCreateParams) Clone() CustomerCreateParams {
	p.requestParams = p.requestParams.clone()
	return p
}

func (p *CustomerCreateParams) SetName(v string)                { setValue(p.bodies(), "name", v) }
func (p *CustomerCreateParams) SetType(v CustomerType)          { setValue(p.bodies(), "type", v) }
func (p *CustomerCreateParams) SetEmail(v string)               { setValue(p.bodies(), "email", v) }
func (p *CustomerCreateParams) SetPhone(v string)               { setValue(p.bodies(), "phone", v) }
func (p *CustomerCreateParams) SetDevice(v DeviceInfo)          { setValue(p.bodies(), "device", v) }
func (p *CustomerCreateParams) SetAddress(v *Address)           { setNullable(p.bodies(), "address", v) }
func (p *CustomerCreateParams) SetConfig(v *CustomerConfig)     { setOptional(p.bodies(), "config", v) }
func (p *CustomerCreateParams) SetExternalID(v *string)         { setNullable(p.bodies(), "external_id", v) }
func (p *CustomerCreateParams) SetMetadata(v map[string]string) { setMetadata(p.bodies(), v) }

func (p *CustomerCreateParams) SetComplianceProfile(v *ComplianceProfile) {
	setNullable(p.bodies(), "compliance_profile", v)
}

var customerCreateRequired = []string{"name", "type", "email", "phone", "device"}

// CustomerUpdateParams replaces the editable fields of a customer.
type CustomerUpdateParams struct {
	requestParams
	CustomerID string
}

func (p CustomerUpdateParams) Clone() CustomerUpdateParams {
	p.requestParams = p.requestParams.clone()
	return p
}

func (p *CustomerUpdateParams) SetName(v string)                { setValue(p.bodies(), "name", v) }
func (p *CustomerUpdateParams) SetEmail(v string)               { setValue(p.bodies(), "email", v) }
func (p *CustomerUpdateParams) SetPhone(v string)               { setValue(p.bodies(), "phone", v) }
func (p *CustomerUpdateParams) SetStatus(v CustomerStatus)      { setValue(p.bodies(), "status", v) }
func (p *CustomerUpdateParams) SetDevice(v DeviceInfo)          { setValue(p.bodies(), "device", v) }
func (p *CustomerUpdateParams) SetAddress(v *Address)           { setNullable(p.bodies(), "address", v) }
func (p *CustomerUpdateParams) SetExternalID(v *string)         { setNullable(p.bodies(), "external_id", v) }
func (p *CustomerUpdateParams) SetMetadata(v map[string]string) { setMetadata(p.bodies(), v) }

var customerUpdateRequired = []string{"name", "email", "phone", "status", "device"}

// CustomerGetParams addresses one customer. Get, Delete, Unmasked, Review and
// RefreshReview share it.
type CustomerGetParams struct {
	requestParams
	CustomerID string
}

func (p CustomerGetParams) Clone() CustomerGetParams {
	p.requestParams = p.requestParams.clone()
	return p
}

type CustomerListParams struct {
	listParams
}

func (p CustomerListParams) Clone() CustomerListParams {
	p.requestParams = p.requestParams.clone()
	return p
}

func (p *CustomerListParams) SetCreatedFrom(v time.Time) { setValue(p.queries(), "created_from", v) }
func (p *CustomerListParams) SetCreatedTo(v time.Time)   { setValue(p.queries(), "created_to", v) }
func (p *CustomerListParams) SetEmail(v string)          { setValue(p.queries(), "email", v) }
func (p *CustomerListParams) SetExternalID(v string)     { setValue(p.queries(), "external_id", v) }
func (p *CustomerListParams) SetName(v string)           { setValue(p.queries(), "name", v) }
func (p *CustomerListParams) SetSearchText(v string)     { setValue(p.queries(), "search_text", v) }
func (p *CustomerListParams) SetStatus(v []CustomerStatus) {
	setOptionalSlice(p.queries(), "status", v)
}
func (p *CustomerListParams) SetTypes(v []CustomerType) { setOptionalSlice(p.queries(), "types", v) }

// CustomerReviewDecisionParams accepts or rejects a customer in review.
type CustomerReviewDecisionParams struct {
	requestParams
	CustomerID string
}

func (p CustomerReviewDecisionParams) Clone() CustomerReviewDecisionParams {
	p.requestParams = p.requestParams.clone()
	return p
}

// SetStatus sets the decision, verified or rejected.
func (p *CustomerReviewDecisionParams) SetStatus(v CustomerStatus) { setValue(p.bodies(), "status", v) }

// CustomerService manages customers and their identity reviews.
type CustomerService struct {
	c *Client
}

func (s *CustomerService) Create(ctx context.Context, params *CustomerCreateParams) (*Response[Customer], error) {
	if params == nil {
		params = &CustomerCreateParams{}
	}
	resp, err := do[Customer](ctx, s.c, operation{
		method:   http.MethodPost,
		path:     "/v1/customers",
		params:   &params.requestParams,
		required: customerCreateRequired,
	})
	if err != nil {
		return nil, fmt.Errorf("creating customer: %w", err)
	}
	return resp, nil
}

func (s *CustomerService) Update(ctx context.Context, id string, params *CustomerUpdateParams) (*Response[Customer], error) {
	p := CustomerUpdateParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.CustomerID = id
	}
	if err := requirePath("customer_id", p.CustomerID); err != nil {
		return nil, err
	}
	resp, err := do[Customer](ctx, s.c, operation{
		method:   http.MethodPut,
		path:     pathf("/v1/customers/%s", p.CustomerID),
		params:   &p.requestParams,
		required: customerUpdateRequired,
	})
	if err != nil {
		return nil, fmt.Errorf("updating customer %q: %w", p.CustomerID, err)
	}
	return resp, nil
}

func (s *CustomerService) Get(ctx context.Context, id string, params *CustomerGetParams) (*Response[Customer], error) {
	return customerCall[Customer](ctx, s, http.MethodGet, "/v1/customers/%s", "getting", id, params)
}

// Delete deactivates a customer. The response holds its final state.
func (s *CustomerService) Delete(ctx context.Context, id string, params *CustomerGetParams) (*Response[Customer], error) {
	return customerCall[Customer](ctx, s, http.MethodDelete, "/v1/customers/%s", "deleting", id, params)
}

// Unmasked reads a customer with its compliance profile in the clear.
func (s *CustomerService) Unmasked(ctx context.Context, id string, params *CustomerGetParams) (*Response[Customer], error) {
	return customerCall[Customer](ctx, s, http.MethodGet, "/v1/customers/%s/unmasked", "unmasking", id, params)
}

// Review reads the identity verification of a customer.
func (s *CustomerService) Review(ctx context.Context, id string, params *CustomerGetParams) (*Response[CustomerReview], error) {
	return customerCall[CustomerReview](ctx, s, http.MethodGet, "/v1/customers/%s/review", "reviewing", id, params)
}

// RefreshReview runs identity verification again.
func (s *CustomerService) RefreshReview(ctx context.Context, id string, params *CustomerGetParams) (*Response[Customer], error) {
	return customerCall[Customer](ctx, s, http.MethodPut, "/v1/customers/%s/refresh_review", "refreshing review of", id, params)
}

// ReviewDecision settles a customer in review.
func (s *CustomerService) ReviewDecision(ctx context.Context, id string, params *CustomerReviewDecisionParams) (*Response[Customer], error) {
	p := CustomerReviewDecisionParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.CustomerID = id
	}
	if err := requirePath("customer_id", p.CustomerID); err != nil {
		return nil, err
	}
	resp, err := do[Customer](ctx, s.c, operation{
		method:   http.MethodPatch,
		path:     pathf("/v1/customers/%s/review", p.CustomerID),
		params:   &p.requestParams,
		required: []string{"status"},
	})
	if err != nil {
		return nil, fmt.Errorf("deciding review of customer %q: %w", p.CustomerID, err)
	}
	return resp, nil
}

func (s *CustomerService) List(ctx context.Context, params *CustomerListParams) (*Page[Customer], error) {
	p := CustomerListParams{}
	if params != nil {
		p = params.Clone()
	}
	page, err := list(ctx, s.c, operation{
		method: http.MethodGet,
		path:   "/v1/customers",
		params: &p.requestParams,
	}, &p.listParams, func(ctx context.Context, n int64) (*Page[Customer], error) {
		next := p.Clone()
		next.SetPageNumber(n)
		return s.List(ctx, &next)
	})
	if err != nil {
		return nil, fmt.Errorf("listing customers: %w", err)
	}
	return page, nil
}

func customerCall[T any](ctx context.Context, s *CustomerService, method, path, verb, id string, params *CustomerGetParams) (*Response[T], error) {
	p := CustomerGetParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.CustomerID = id
	}
	if err := requirePath("customer_id", p.CustomerID); err != nil {
		return nil, err
	}
	resp, err := do[T](ctx, s.c, operation{
		method: method,
		path:   pathf(path, p.CustomerID),
		params: &p.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("%s customer %q: %w", verb, p.CustomerID, err)
	}
	return resp, nil
}
