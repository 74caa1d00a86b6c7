package apijson

import (
	"bytes"
)

// Object is the raw-store base embedded by every overlay model. Typed
// properties are methods that read from or write into the store; keys the
// model does not know about are kept untouched.
type Object struct {
	store *Store
	// A struct holding a single pointer is stored directly in interfaces,
	// and go-json encodes it as null when that pointer is nil, skipping
	// MarshalJSON. The second field keeps a zero model encoding as {}.
	_ struct{}
}

// Wrap returns an Object over s without copying or checking it.
func Wrap(s *Store) Object { return Object{store: s} }

// Raw returns the backing store, frozen. A zero Object reads as empty.
func (o Object) Raw() *Store {
	if o.store == nil {
		return NewStore().Freeze()
	}
	return o.store.Freeze()
}

// Writable returns the backing store for setters, creating it on first use.
func (o *Object) Writable() *Store {
	if o.store == nil {
		o.store = NewStore()
	}
	return o.store
}

// Bind replaces the backing store.
func (o *Object) Bind(s *Store) { o.store = s }

// Equal compares the backing stores structurally.
func (o Object) Equal(other Object) bool { return o.Raw().Equal(other.Raw()) }

// Check runs validation rules against the backing store.
func (o Object) Check(rules ...Rule) error { return Check(o.Raw(), rules...) }

func (o Object) MarshalJSON() ([]byte, error) {
	if o.store == nil {
		return []byte("{}"), nil
	}
	return o.store.MarshalJSON()
}

// UnmarshalJSON wraps the payload in a fresh store. JSON null leaves the
// Object empty.
func (o *Object) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), nullLiteral) {
		return nil
	}
	s, err := Parse(data, ParseOptions{})
	if err != nil {
		return err
	}
	o.store = s
	return nil
}

// Model is implemented by every overlay model through its embedded Object.
type Model interface {
	Raw() *Store
}

// Binder is the pointer side of an overlay model.
type Binder interface {
	Model
	Writable() *Store
	Bind(s *Store)
}

// Validator is implemented by models and enums that can check themselves.
type Validator interface {
	Validate() error
}

// FromRawUnchecked wraps caller-supplied data as a T without validation. The
// decode pipeline relies on it and defers checks to Validate.
func FromRawUnchecked[T any, PT interface {
	*T
	Binder
}](s *Store) T {
	var out T
	PT(&out).Bind(s)
	return out
}

// Clone returns a copy of v backed by an independent, mutable store. The
// original is left as it was, frozen or not.
func Clone[T any, PT interface {
	*T
	Binder
}](v T) T {
	var out T
	PT(&out).Bind(PT(&v).Writable().Clone())
	return out
}

// Equal compares two models by their raw stores.
func Equal(a, b Model) bool { return a.Raw().Equal(b.Raw()) }

// DecodeModel parses data as a T using opt for the top-level object.
func DecodeModel[T any, PT interface {
	*T
	Binder
}](data []byte, opt ParseOptions) (T, error) {
	s, err := Parse(data, opt)
	if err != nil {
		var zero T
		return zero, err
	}
	return FromRawUnchecked[T, PT](s), nil
}
