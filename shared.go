package straddle

import (
	"time"

	"github.com/reoring/straddle-go/apijson"
)

// StatusReason is the machine-readable reason behind a status change. Every
// resource with status details shares it.
type StatusReason string

const (
	StatusReasonInsufficientFunds   StatusReason = "insufficient_funds"
	StatusReasonClosedBankAccount   StatusReason = "closed_bank_account"
	StatusReasonInvalidBankAccount  StatusReason = "invalid_bank_account"
	StatusReasonInvalidRouting      StatusReason = "invalid_routing"
	StatusReasonDisputed            StatusReason = "disputed"
	StatusReasonPaymentStopped      StatusReason = "payment_stopped"
	StatusReasonOwnerDeceased       StatusReason = "owner_deceased"
	StatusReasonFrozenBankAccount   StatusReason = "frozen_bank_account"
	StatusReasonRiskReview          StatusReason = "risk_review"
	StatusReasonFraudulent          StatusReason = "fraudulent"
	StatusReasonDuplicateEntry      StatusReason = "duplicate_entry"
	StatusReasonInvalidPaykey       StatusReason = "invalid_paykey"
	StatusReasonPaymentBlocked      StatusReason = "payment_blocked"
	StatusReasonAmountTooLarge      StatusReason = "amount_too_large"
	StatusReasonTooManyAttempts     StatusReason = "too_many_attempts"
	StatusReasonInternalSystemError StatusReason = "internal_system_error"
	StatusReasonUserRequest         StatusReason = "user_request"
	StatusReasonOK                  StatusReason = "ok"
	StatusReasonOtherNetworkReturn  StatusReason = "other_network_return"
	StatusReasonPayoutRefused       StatusReason = "payout_refused"
	StatusReasonCancelRequest       StatusReason = "cancel_request"
	StatusReasonFailedVerification  StatusReason = "failed_verification"
	StatusReasonRequiresReview      StatusReason = "require_review"
	StatusReasonExpired             StatusReason = "expired"
)

func (r StatusReason) IsKnown() bool {
	switch r {
	case StatusReasonInsufficientFunds, StatusReasonClosedBankAccount, StatusReasonInvalidBankAccount,
		StatusReasonInvalidRouting, StatusReasonDisputed, StatusReasonPaymentStopped,
		StatusReasonOwnerDeceased, StatusReasonFrozenBankAccount, StatusReasonRiskReview,
		StatusReasonFraudulent, StatusReasonDuplicateEntry, StatusReasonInvalidPaykey,
		StatusReasonPaymentBlocked, StatusReasonAmountTooLarge, StatusReasonTooManyAttempts,
		StatusReasonInternalSystemError, StatusReasonUserRequest, StatusReasonOK,
		StatusReasonOtherNetworkReturn, StatusReasonPayoutRefused, StatusReasonCancelRequest,
		StatusReasonFailedVerification, StatusReasonRequiresReview, StatusReasonExpired:
		return true
	}
	return false
}

// StatusSource tells who caused a status change.
type StatusSource string

const (
	StatusSourceWatchtower      StatusSource = "watchtower"
	StatusSourceBankDecline     StatusSource = "bank_decline"
	StatusSourceCustomerDispute StatusSource = "customer_dispute"
	StatusSourceUserAction      StatusSource = "user_action"
	StatusSourceSystem          StatusSource = "system"
)

func (r StatusSource) IsKnown() bool {
	switch r {
	case StatusSourceWatchtower, StatusSourceBankDecline, StatusSourceCustomerDispute,
		StatusSourceUserAction, StatusSourceSystem:
		return true
	}
	return false
}

// StatusDetails explains the current status of a payment, paykey, account or
// representative.
type StatusDetails struct{ apijson.Object }

func (r StatusDetails) ChangedAt() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "changed_at")
}

func (r StatusDetails) Message() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "message")
}

func (r StatusDetails) Reason() (apijson.Enum[StatusReason], error) {
	return apijson.GetNotNull[apijson.Enum[StatusReason]](r.Raw(), "reason")
}

func (r StatusDetails) Source() (apijson.Enum[StatusSource], error) {
	return apijson.GetNotNull[apijson.Enum[StatusSource]](r.Raw(), "source")
}

// Code is the network return code, such as R01, when there is one.
func (r StatusDetails) Code() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "code")
}

func (r StatusDetails) Validate() error {
	return r.Check(
		apijson.Required[time.Time]("changed_at"),
		apijson.Required[string]("message"),
		apijson.Required[apijson.Enum[StatusReason]]("reason"),
		apijson.Required[apijson.Enum[StatusSource]]("source"),
		apijson.Optional[string]("code"),
	)
}

// Address is a US postal address.
type Address struct{ apijson.Object }

// NewAddress returns an address with the keys every address requires.
func NewAddress(address1, city, state, zip string) Address {
	var a Address
	a.SetAddress1(address1)
	a.SetCity(city)
	a.SetState(state)
	a.SetZip(zip)
	return a
}

func (r Address) Address1() (string, error) { return apijson.GetNotNull[string](r.Raw(), "address1") }

func (r Address) Address2() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "address2")
}

func (r Address) City() (string, error)  { return apijson.GetNotNull[string](r.Raw(), "city") }
func (r Address) State() (string, error) { return apijson.GetNotNull[string](r.Raw(), "state") }
func (r Address) Zip() (string, error)   { return apijson.GetNotNull[string](r.Raw(), "zip") }

func (r *Address) SetAddress1(v string)  { setValue(r.Writable(), "address1", v) }
func (r *Address) SetAddress2(v *string) { setNullable(r.Writable(), "address2", v) }
func (r *Address) SetCity(v string)      { setValue(r.Writable(), "city", v) }
func (r *Address) SetState(v string)     { setValue(r.Writable(), "state", v) }
func (r *Address) SetZip(v string)       { setValue(r.Writable(), "zip", v) }

func (r Address) Validate() error {
	return r.Check(
		apijson.Required[string]("address1"),
		apijson.Optional[string]("address2"),
		apijson.Required[string]("city"),
		apijson.Required[string]("state"),
		apijson.Required[string]("zip"),
	)
}

// DeviceInfo describes the device a payment or customer was created from.
type DeviceInfo struct{ apijson.Object }

// NewDeviceInfo returns device information for the given IP address.
func NewDeviceInfo(ipAddress string) DeviceInfo {
	var d DeviceInfo
	d.SetIPAddress(ipAddress)
	return d
}

func (r DeviceInfo) IPAddress() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "ip_address")
}

func (r *DeviceInfo) SetIPAddress(v string) { setValue(r.Writable(), "ip_address", v) }

func (r DeviceInfo) Validate() error {
	return r.Check(apijson.Required[string]("ip_address"))
}

type CapabilityStatus string

const (
	CapabilityStatusActive   CapabilityStatus = "active"
	CapabilityStatusInactive CapabilityStatus = "inactive"
)

func (r CapabilityStatus) IsKnown() bool {
	switch r {
	case CapabilityStatusActive, CapabilityStatusInactive:
		return true
	}
	return false
}

// Capability is the state of one account capability.
type Capability struct{ apijson.Object }

func (r Capability) CapabilityStatus() (apijson.Enum[CapabilityStatus], error) {
	return apijson.GetNotNull[apijson.Enum[CapabilityStatus]](r.Raw(), "capability_status")
}

func (r Capability) Validate() error {
	return r.Check(apijson.Required[apijson.Enum[CapabilityStatus]]("capability_status"))
}

// StatusHistoryEntry is one past status of a payment.
type StatusHistoryEntry struct{ apijson.Object }

func (r StatusHistoryEntry) ChangedAt() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "changed_at")
}

func (r StatusHistoryEntry) Message() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "message")
}

func (r StatusHistoryEntry) Reason() (apijson.Enum[StatusReason], error) {
	return apijson.GetNotNull[apijson.Enum[StatusReason]](r.Raw(), "reason")
}

func (r StatusHistoryEntry) Source() (apijson.Enum[StatusSource], error) {
	return apijson.GetNotNull[apijson.Enum[StatusSource]](r.Raw(), "source")
}

func (r StatusHistoryEntry) Status() (apijson.Enum[PaymentStatus], error) {
	return apijson.GetNotNull[apijson.Enum[PaymentStatus]](r.Raw(), "status")
}

func (r StatusHistoryEntry) Code() (apijson.Field[string], error) {
	return apijson.GetField[string](r.Raw(), "code")
}

func (r StatusHistoryEntry) Validate() error {
	return r.Check(
		apijson.Required[time.Time]("changed_at"),
		apijson.Required[string]("message"),
		apijson.Required[apijson.Enum[StatusReason]]("reason"),
		apijson.Required[apijson.Enum[StatusSource]]("source"),
		apijson.Required[apijson.Enum[PaymentStatus]]("status"),
		apijson.Optional[string]("code"),
	)
}

// metadataOf reads the free-form string map most resources carry. Values may
// be null.
func metadataOf(s *apijson.Store) (apijson.Field[map[string]*string], error) {
	return apijson.GetField[map[string]*string](s, "metadata")
}
