// Package apijson provides the typed overlay used by every Straddle model:
//
// - Store: an insertion-ordered map of raw JSON values that freezes on first read
// - Presence and Field: absent vs explicit null vs populated
// - GetNotNull / GetNullable / GetField: typed reads with invalid-data issues
// - Object: the embeddable base for models, with Validate rules and structural equality
// - Enum: open enums that keep unknown wire strings verbatim
// - Date: calendar dates encoded as YYYY-MM-DD
//
// Typical usage:
//
//	type Payout struct{ apijson.Object }
//
//	func (r Payout) Amount() (int64, error) { return apijson.GetNotNull[int64](r.Raw(), "amount") }
//
//	func (r Payout) Validate() error {
//		return r.Check(apijson.Required[int64]("amount"), apijson.Required[apijson.Enum[PayoutStatus]]("status"))
//	}
package apijson
