package straddle

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/reoring/straddle-go/apijson"
)

type AccountType string

const AccountTypeBusiness AccountType = "business"

func (r AccountType) IsKnown() bool { return r == AccountTypeBusiness }

type AccessLevel string

const (
	AccessLevelStandard AccessLevel = "standard"
	AccessLevelManaged  AccessLevel = "managed"
)

func (r AccessLevel) IsKnown() bool {
	switch r {
	case AccessLevelStandard, AccessLevelManaged:
		return true
	}
	return false
}

// AccountStatus is the onboarding state of an account or representative.
type AccountStatus string

const (
	AccountStatusCreated    AccountStatus = "created"
	AccountStatusOnboarding AccountStatus = "onboarding"
	AccountStatusActive     AccountStatus = "active"
	AccountStatusRejected   AccountStatus = "rejected"
	AccountStatusInactive   AccountStatus = "inactive"
)

func (r AccountStatus) IsKnown() bool {
	switch r {
	case AccountStatusCreated, AccountStatusOnboarding, AccountStatusActive,
		AccountStatusRejected, AccountStatusInactive:
		return true
	}
	return false
}

// BusinessProfile describes the business behind an account.
type BusinessProfile struct{ apijson.Object }

// NewBusinessProfile returns a profile with the required name and website.
func NewBusinessProfile(name, website string) BusinessProfile {
	var b BusinessProfile
	b.SetName(name)
	b.SetWebsite(website)
	return b
}

func (r BusinessProfile) Name() (string, error) { return apijson.GetNotNull[string](r.Raw(), "name") }
func (r BusinessProfile) Website() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "website")
}

func (r BusinessProfile) LegalName() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "legal_name")
}

func (r BusinessProfile) Description() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "description")
}

func (r BusinessProfile) UseCase() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "use_case")
}

func (r BusinessProfile) TaxID() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "tax_id")
}

func (r BusinessProfile) Phone() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "phone")
}

func (r BusinessProfile) Address() (apijson.Field[Address], error) {
	return apijson.GetField[Address](r.Raw(), "address")
}

func (r *BusinessProfile) SetName(v string)         { setValue(r.Writable(), "name", v) }
func (r *BusinessProfile) SetWebsite(v string)      { setValue(r.Writable(), "website", v) }
func (r *BusinessProfile) SetLegalName(v *string)   { setNullable(r.Writable(), "legal_name", v) }
func (r *BusinessProfile) SetDescription(v *string) { setNullable(r.Writable(), "description", v) }
func (r *BusinessProfile) SetUseCase(v *string)     { setNullable(r.Writable(), "use_case", v) }
func (r *BusinessProfile) SetTaxID(v *string)       { setNullable(r.Writable(), "tax_id", v) }
func (r *BusinessProfile) SetPhone(v *string)       { setNullable(r.Writable(), "phone", v) }
func (r *BusinessProfile) SetAddress(v *Address)    { setNullable(r.Writable(), "address", v) }

func (r BusinessProfile) Validate() error {
	return r.Check(
		apijson.Required[string]("name"),
		apijson.Required[string]("website"),
		apijson.Optional[string]("legal_name"),
		apijson.Optional[string]("description"),
		apijson.Optional[string]("use_case"),
		apijson.Optional[string]("tax_id"),
		apijson.Optional[string]("phone"),
		apijson.Optional[Address]("address"),
	)
}

// AccountCapabilities groups capabilities by category. Keys are capability
// names such as "charges" or "internet".
type AccountCapabilities struct{ apijson.Object }

func (r AccountCapabilities) ConsentTypes() (map[string]Capability, error) {
	return apijson.GetNullable[map[string]Capability](r.Raw(), "consent_types")
}

func (r AccountCapabilities) CustomerTypes() (map[string]Capability, error) {
	return apijson.GetNullable[map[string]Capability](r.Raw(), "customer_types")
}

func (r AccountCapabilities) PaymentTypes() (map[string]Capability, error) {
	return apijson.GetNullable[map[string]Capability](r.Raw(), "payment_types")
}

func (r AccountCapabilities) Validate() error {
	return r.Check(
		validateCapabilityMap("consent_types"),
		validateCapabilityMap("customer_types"),
		validateCapabilityMap("payment_types"),
	)
}

func validateCapabilityMap(key string) apijson.Rule {
	return func(s *apijson.Store) apijson.Issues {
		caps, err := apijson.GetNullable[map[string]Capability](s, key)
		if err != nil {
			iss, _ := apijson.AsIssues(err)
			return iss
		}
		var out apijson.Issues
		for name, c := range caps {
			if iss, ok := apijson.AsIssues(c.Validate()); ok {
				for _, it := range iss {
					it.Path = "/" + key + "/" + name + it.Path
					out = append(out, it)
				}
			}
		}
		return out
	}
}

// Account is a business onboarded to the platform.
type Account struct{ apijson.Object }

func (r Account) ID() (string, error) { return apijson.GetNotNull[string](r.Raw(), "id") }

func (r Account) AccountType() (apijson.Enum[AccountType], error) {
	return apijson.GetNotNull[apijson.Enum[AccountType]](r.Raw(), "account_type")
}

func (r Account) AccessLevel() (apijson.Enum[AccessLevel], error) {
	return apijson.GetNotNull[apijson.Enum[AccessLevel]](r.Raw(), "access_level")
}

func (r Account) OrganizationID() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "organization_id")
}

func (r Account) BusinessProfile() (BusinessProfile, error) {
	return apijson.GetNotNull[BusinessProfile](r.Raw(), "business_profile")
}

func (r Account) Capabilities() (AccountCapabilities, error) {
	return apijson.GetNullable[AccountCapabilities](r.Raw(), "capabilities")
}

func (r Account) Status() (apijson.Enum[AccountStatus], error) {
	return apijson.GetNotNull[apijson.Enum[AccountStatus]](r.Raw(), "status")
}

func (r Account) StatusDetail() (StatusDetails, error) {
	return apijson.GetNullable[StatusDetails](r.Raw(), "status_detail")
}

func (r Account) ExternalID() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "external_id")
}

func (r Account) CreatedAt() (apijson.Field[time.Time], error) {
	return apijson.GetField[time.Time](r.Raw(), "created_at")
}

func (r Account) UpdatedAt() (apijson.Field[time.Time], error) {
	return apijson.GetField[time.Time](r.Raw(), "updated_at")
}

func (r Account) Metadata() (apijson.Field[map[string]*string], error) { return metadataOf(r.Raw()) }

func (r Account) Validate() error {
	return r.Check(
		apijson.Required[string]("id"),
		apijson.Required[apijson.Enum[AccountType]]("account_type"),
		apijson.Required[apijson.Enum[AccessLevel]]("access_level"),
		apijson.Required[string]("organization_id"),
		apijson.Required[BusinessProfile]("business_profile"),
		apijson.Optional[AccountCapabilities]("capabilities"),
		apijson.Required[apijson.Enum[AccountStatus]]("status"),
		apijson.Optional[StatusDetails]("status_detail"),
		apijson.Optional[string]("external_id"),
		apijson.Optional[time.Time]("created_at"),
		apijson.Optional[time.Time]("updated_at"),
		apijson.Optional[map[string]*string]("metadata"),
	)
}

type CapabilityCategory string

const (
	CapabilityCategoryPaymentType  CapabilityCategory = "payment_type"
	CapabilityCategoryCustomerType CapabilityCategory = "customer_type"
	CapabilityCategoryConsentType  CapabilityCategory = "consent_type"
)

func (r CapabilityCategory) IsKnown() bool {
	switch r {
	case CapabilityCategoryPaymentType, CapabilityCategoryCustomerType, CapabilityCategoryConsentType:
		return true
	}
	return false
}

type CapabilityType string

const (
	CapabilityTypeCharges         CapabilityType = "charges"
	CapabilityTypePayouts         CapabilityType = "payouts"
	CapabilityTypeIndividuals     CapabilityType = "individuals"
	CapabilityTypeBusinesses      CapabilityType = "businesses"
	CapabilityTypeSignedAgreement CapabilityType = "signed_agreement"
	CapabilityTypeInternet        CapabilityType = "internet"
)

func (r CapabilityType) IsKnown() bool {
	switch r {
	case CapabilityTypeCharges, CapabilityTypePayouts, CapabilityTypeIndividuals,
		CapabilityTypeBusinesses, CapabilityTypeSignedAgreement, CapabilityTypeInternet:
		return true
	}
	return false
}

type CapabilityRequestStatus string

const (
	CapabilityRequestStatusActive   CapabilityRequestStatus = "active"
	CapabilityRequestStatusInactive CapabilityRequestStatus = "inactive"
	CapabilityRequestStatusInReview CapabilityRequestStatus = "in_review"
	CapabilityRequestStatusRejected CapabilityRequestStatus = "rejected"
)

func (r CapabilityRequestStatus) IsKnown() bool {
	switch r {
	case CapabilityRequestStatusActive, CapabilityRequestStatusInactive,
		CapabilityRequestStatusInReview, CapabilityRequestStatusRejected:
		return true
	}
	return false
}

// CapabilityRequest asks for a capability to be enabled on an account.
type CapabilityRequest struct{ apijson.Object }

func (r CapabilityRequest) ID() (string, error) { return apijson.GetNotNull[string](r.Raw(), "id") }

func (r CapabilityRequest) AccountID() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "account_id")
}

func (r CapabilityRequest) Category() (apijson.Enum[CapabilityCategory], error) {
	return apijson.GetNotNull[apijson.Enum[CapabilityCategory]](r.Raw(), "category")
}

func (r CapabilityRequest) Type() (apijson.Enum[CapabilityType], error) {
	return apijson.GetNotNull[apijson.Enum[CapabilityType]](r.Raw(), "type")
}

func (r CapabilityRequest) Status() (apijson.Enum[CapabilityRequestStatus], error) {
	return apijson.GetNotNull[apijson.Enum[CapabilityRequestStatus]](r.Raw(), "status")
}

func (r CapabilityRequest) CreatedAt() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "created_at")
}

func (r CapabilityRequest) UpdatedAt() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "updated_at")
}

func (r CapabilityRequest) Validate() error {
	return r.Check(
		apijson.Required[string]("id"),
		apijson.Required[string]("account_id"),
		apijson.Required[apijson.Enum[CapabilityCategory]]("category"),
		apijson.Required[apijson.Enum[CapabilityType]]("type"),
		apijson.Required[apijson.Enum[CapabilityRequestStatus]]("status"),
		apijson.Required[time.Time]("created_at"),
		apijson.Required[time.Time]("updated_at"),
	)
}

type AgreementType string

const (
	AgreementTypeEmbedded AgreementType = "embedded"
	AgreementTypeDirect   AgreementType = "direct"
)

func (r AgreementType) IsKnown() bool {
	switch r {
	case AgreementTypeEmbedded, AgreementTypeDirect:
		return true
	}
	return false
}

// TermsOfService records the acceptance of the platform agreement.
type TermsOfService struct{ apijson.Object }

// NewTermsOfService returns an acceptance with every required key set.
func NewTermsOfService(acceptedAt time.Time, agreement AgreementType, agreementURL string) TermsOfService {
	var t TermsOfService
	setValue(t.Writable(), "accepted_date", apijson.FormatTimestamp(acceptedAt))
	setValue(t.Writable(), "agreement_type", agreement)
	setValue(t.Writable(), "agreement_url", agreementURL)
	return t
}

func (r TermsOfService) AcceptedDate() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "accepted_date")
}

func (r TermsOfService) AgreementType() (apijson.Enum[AgreementType], error) {
	return apijson.GetNotNull[apijson.Enum[AgreementType]](r.Raw(), "agreement_type")
}

func (r TermsOfService) AgreementURL() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "agreement_url")
}

func (r TermsOfService) AcceptedIP() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "accepted_ip")
}

func (r TermsOfService) AcceptedUserAgent() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "accepted_user_agent")
}

func (r *TermsOfService) SetAcceptedIP(v *string) { setNullable(r.Writable(), "accepted_ip", v) }

func (r *TermsOfService) SetAcceptedUserAgent(v *string) {
	setNullable(r.Writable(), "accepted_user_agent", v)
}

func (r TermsOfService) Validate() error {
	return r.Check(
		apijson.Required[time.Time]("accepted_date"),
		apijson.Required[apijson.Enum[AgreementType]]("agreement_type"),
		apijson.Required[string]("agreement_url"),
		apijson.Optional[string]("accepted_ip"),
		apijson.Optional[string]("accepted_user_agent"),
	)
}

// AccountCreateParams creates an account. Account type, access level,
// business profile and organization ID are required.
type AccountCreateParams struct {
	requestParams
}

func (p AccountCreateParams) Clone() AccountCreateParams {
	p.requestParams = p.requestParams.clone()
	return p
}

func (p *AccountCreateParams) SetAccountType(v AccountType) { setValue(p.bodies(), "account_type", v) }
func (p *AccountCreateParams) SetAccessLevel(v AccessLevel) { setValue(p.bodies(), "access_level", v) }
func (p *AccountCreateParams) SetOrganizationID(v string)   { setValue(p.bodies(), "organization_id", v) }

func (p *AccountCreateParams) SetBusinessProfile(v BusinessProfile) {
	setValue(p.bodies(), "business_profile", v)
}

func (p *AccountCreateParams) SetExternalID(v *string)         { setNullable(p.bodies(), "external_id", v) }
func (p *AccountCreateParams) SetMetadata(v map[string]string) { setMetadata(p.bodies(), v) }

var accountCreateRequired = []string{"account_type", "access_level", "business_profile", "organization_id"}

type AccountUpdateParams struct {
	requestParams
	AccountID string
}

func (p AccountUpdateParams) Clone() AccountUpdateParams {
	p.requestParams = p.requestParams.clone()
	return p
}

func (p *AccountUpdateParams) SetBusinessProfile(v BusinessProfile) {
	setValue(p.bodies(), "business_profile", v)
}

func (p *AccountUpdateParams) SetExternalID(v *string)         { setNullable(p.bodies(), "external_id", v) }
func (p *AccountUpdateParams) SetMetadata(v map[string]string) { setMetadata(p.bodies(), v) }

type AccountGetParams struct {
	requestParams
	AccountID string
}

func (p AccountGetParams) Clone() AccountGetParams {
	p.requestParams = p.requestParams.clone()
	return p
}

type AccountListParams struct {
	listParams
}

func (p AccountListParams) Clone() AccountListParams {
	p.requestParams = p.requestParams.clone()
	return p
}

func (p *AccountListParams) SetSearchText(v string) { setValue(p.queries(), "search_text", v) }

func (p *AccountListParams) SetStatus(v []AccountStatus) { setOptionalSlice(p.queries(), "status", v) }

type AccountOnboardParams struct {
	requestParams
	AccountID string
}

func (p AccountOnboardParams) Clone() AccountOnboardParams {
	p.requestParams = p.requestParams.clone()
	return p
}

func (p *AccountOnboardParams) SetTermsOfService(v TermsOfService) {
	setValue(p.bodies(), "terms_of_service", v)
}

// SimulateFinalStatus is the status a sandbox account is moved to.
type SimulateFinalStatus string

const (
	SimulateFinalStatusOnboarding SimulateFinalStatus = "onboarding"
	SimulateFinalStatusActive     SimulateFinalStatus = "active"
)

func (r SimulateFinalStatus) IsKnown() bool {
	switch r {
	case SimulateFinalStatusOnboarding, SimulateFinalStatusActive:
		return true
	}
	return false
}

type AccountSimulateParams struct {
	requestParams
	AccountID string
}

func (p AccountSimulateParams) Clone() AccountSimulateParams {
	p.requestParams = p.requestParams.clone()
	return p
}

func (p *AccountSimulateParams) SetFinalStatus(v SimulateFinalStatus) {
	setValue(p.queries(), "final_status", v)
}

// CapabilityRequestCreateParams enables capabilities on an account. Each
// setter toggles one capability; nil leaves it out of the request.
type CapabilityRequestCreateParams struct {
	requestParams
	AccountID string
}

func (p CapabilityRequestCreateParams) Clone() CapabilityRequestCreateParams {
	p.requestParams = p.requestParams.clone()
	return p
}

func (p *CapabilityRequestCreateParams) SetBusinesses(v *bool)  { p.toggle("businesses", v) }
func (p *CapabilityRequestCreateParams) SetIndividuals(v *bool) { p.toggle("individuals", v) }
func (p *CapabilityRequestCreateParams) SetInternet(v *bool)    { p.toggle("internet", v) }

func (p *CapabilityRequestCreateParams) SetSignedAgreement(v *bool) { p.toggle("signed_agreement", v) }

func (p *CapabilityRequestCreateParams) toggle(key string, v *bool) {
	if v == nil {
		return
	}
	setValue(p.bodies(), key, map[string]bool{"enable": *v})
}

type CapabilityRequestListParams struct {
	listParams
	AccountID string
}

func (p CapabilityRequestListParams) Clone() CapabilityRequestListParams {
	p.requestParams = p.requestParams.clone()
	return p
}

func (p *CapabilityRequestListParams) SetCategory(v CapabilityCategory) {
	setValue(p.queries(), "category", v)
}

func (p *CapabilityRequestListParams) SetType(v CapabilityType) { setValue(p.queries(), "type", v) }

func (p *CapabilityRequestListParams) SetStatus(v CapabilityRequestStatus) {
	setValue(p.queries(), "status", v)
}

// AccountService manages accounts and their capabilities.
type AccountService struct {
	c *Client
}

func (s *AccountService) Create(ctx context.Context, params *AccountCreateParams) (*Response[Account], error) {
	if params == nil {
		params = &AccountCreateParams{}
	}
	resp, err := do[Account](ctx, s.c, operation{
		method:   http.MethodPost,
		path:     "/v1/accounts",
		params:   &params.requestParams,
		required: accountCreateRequired,
	})
	if err != nil {
		return nil, fmt.Errorf("creating account: %w", err)
	}
	return resp, nil
}

func (s *AccountService) Update(ctx context.Context, id string, params *AccountUpdateParams) (*Response[Account], error) {
	p := AccountUpdateParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.AccountID = id
	}
	if err := requirePath("account_id", p.AccountID); err != nil {
		return nil, err
	}
	resp, err := do[Account](ctx, s.c, operation{
		method:   http.MethodPut,
		path:     pathf("/v1/accounts/%s", p.AccountID),
		params:   &p.requestParams,
		required: []string{"business_profile"},
	})
	if err != nil {
		return nil, fmt.Errorf("updating account %q: %w", p.AccountID, err)
	}
	return resp, nil
}

func (s *AccountService) Get(ctx context.Context, id string, params *AccountGetParams) (*Response[Account], error) {
	p := AccountGetParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.AccountID = id
	}
	if err := requirePath("account_id", p.AccountID); err != nil {
		return nil, err
	}
	resp, err := do[Account](ctx, s.c, operation{
		method: http.MethodGet,
		path:   pathf("/v1/accounts/%s", p.AccountID),
		params: &p.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("getting account %q: %w", p.AccountID, err)
	}
	return resp, nil
}

func (s *AccountService) List(ctx context.Context, params *AccountListParams) (*Page[Account], error) {
	p := AccountListParams{}
	if params != nil {
		p = params.Clone()
	}
	page, err := list(ctx, s.c, operation{
		method: http.MethodGet,
		path:   "/v1/accounts",
		params: &p.requestParams,
	}, &p.listParams, func(ctx context.Context, n int64) (*Page[Account], error) {
		next := p.Clone()
		next.SetPageNumber(n)
		return s.List(ctx, &next)
	})
	if err != nil {
		return nil, fmt.Errorf("listing accounts: %w", err)
	}
	return page, nil
}

// Onboard submits an account for review once its terms of service are accepted.
func (s *AccountService) Onboard(ctx context.Context, id string, params *AccountOnboardParams) (*Response[Account], error) {
	p := AccountOnboardParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.AccountID = id
	}
	if err := requirePath("account_id", p.AccountID); err != nil {
		return nil, err
	}
	resp, err := do[Account](ctx, s.c, operation{
		method:   http.MethodPost,
		path:     pathf("/v1/accounts/%s/onboard", p.AccountID),
		params:   &p.requestParams,
		required: []string{"terms_of_service"},
	})
	if err != nil {
		return nil, fmt.Errorf("onboarding account %q: %w", p.AccountID, err)
	}
	return resp, nil
}

// Simulate moves a sandbox account through onboarding.
func (s *AccountService) Simulate(ctx context.Context, id string, params *AccountSimulateParams) (*Response[Account], error) {
	p := AccountSimulateParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.AccountID = id
	}
	if err := requirePath("account_id", p.AccountID); err != nil {
		return nil, err
	}
	resp, err := do[Account](ctx, s.c, operation{
		method: http.MethodPost,
		path:   pathf("/v1/accounts/%s/simulate", p.AccountID),
		params: &p.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("simulating account %q: %w", p.AccountID, err)
	}
	return resp, nil
}

func (s *AccountService) CreateCapabilityRequest(ctx context.Context, id string, params *CapabilityRequestCreateParams) (*PagedResponse[CapabilityRequest], error) {
	p := CapabilityRequestCreateParams{}
	if params != nil {
		p = *params
	}
	if id != "" {
		p.AccountID = id
	}
	if err := requirePath("account_id", p.AccountID); err != nil {
		return nil, err
	}
	data, err := s.c.send(ctx, operation{
		method: http.MethodPost,
		path:   pathf("/v1/accounts/%s/capability_requests", p.AccountID),
		params: &p.requestParams,
	})
	if err != nil {
		return nil, fmt.Errorf("requesting capabilities for account %q: %w", p.AccountID, err)
	}
	resp, err := apijson.DecodeModel[PagedResponse[CapabilityRequest]](data, s.c.parseOpts)
	if err != nil {
		return nil, fmt.Errorf("requesting capabilities for account %q: %w", p.AccountID, err)
	}
	if s.c.validate {
		if err := resp.Validate(); err != nil {
			return nil, err
		}
	}
	return &resp, nil
}

func (s *AccountService) ListCapabilityRequests(ctx context.Context, id string, params *CapabilityRequestListParams) (*Page[CapabilityRequest], error) {
	p := CapabilityRequestListParams{}
	if params != nil {
		p = params.Clone()
	}
	if id != "" {
		p.AccountID = id
	}
	if err := requirePath("account_id", p.AccountID); err != nil {
		return nil, err
	}
	page, err := list(ctx, s.c, operation{
		method: http.MethodGet,
		path:   pathf("/v1/accounts/%s/capability_requests", p.AccountID),
		params: &p.requestParams,
	}, &p.listParams, func(ctx context.Context, n int64) (*Page[CapabilityRequest], error) {
		next := p.Clone()
		next.SetPageNumber(n)
		return s.ListCapabilityRequests(ctx, "", &next)
	})
	if err != nil {
		return nil, fmt.Errorf("listing capability requests of account %q: %w", p.AccountID, err)
	}
	return page, nil
}
