package apijson

import (
	"bytes"

	json "github.com/goccy/go-json"

	"github.com/reoring/straddle-go/i18n"
)

// Variant is a string-kinded enum type that knows its own variants.
type Variant interface {
	~string
	IsKnown() bool
}

// Enum pairs the wire string with a typed variant. Strings the client does not
// recognize are kept verbatim and re-emitted unchanged, so values added by the
// server later pass through older clients.
//
// The zero Enum was never set and cannot be encoded.
type Enum[V Variant] struct {
	raw string
	set bool
}

// EnumOf returns the Enum for a variant.
func EnumOf[V Variant](v V) Enum[V] { return Enum[V]{raw: string(v), set: true} }

// ParseEnum returns the Enum for an arbitrary wire string.
func ParseEnum[V Variant](s string) Enum[V] { return Enum[V]{raw: s, set: true} }

// Raw returns the wire string.
func (e Enum[V]) Raw() string { return e.raw }

// Value returns the typed variant and whether it is a known one.
func (e Enum[V]) Value() (V, bool) {
	v := V(e.raw)
	return v, e.set && v.IsKnown()
}

// IsKnown reports whether the wire string maps to a known variant.
func (e Enum[V]) IsKnown() bool {
	_, ok := e.Value()
	return ok
}

func (e Enum[V]) String() string { return e.raw }

// Validate fails with invalid_enum when the wire string is not a known variant.
func (e Enum[V]) Validate() error {
	if e.IsKnown() {
		return nil
	}
	return NewIssue("/", CodeInvalidEnum, map[string]any{"value": e.raw})
}

func (e Enum[V]) MarshalJSON() ([]byte, error) {
	if !e.set {
		return nil, NewIssue("/", CodeInvalidEnum, map[string]any{"value": "<unset>"})
	}
	return json.Marshal(e.raw)
}

func (e *Enum[V]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), nullLiteral) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return Issues{{Path: "/", Code: CodeInvalidType, Message: i18n.T(CodeInvalidType, nil), Cause: err}}
	}
	*e = ParseEnum[V](s)
	return nil
}
