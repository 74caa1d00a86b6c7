package apijson

// Presence is the bit flag describing how a key appears in a raw store.
type Presence uint8

const (
	PresenceSeen    Presence = 1 << iota // Key is present in the store.
	PresenceWasNull                      // Key is present and its value is JSON null.
)

// Absent reports that the key was never written.
func (p Presence) Absent() bool { return p&PresenceSeen == 0 }

// Null reports that the key is present with JSON null.
func (p Presence) Null() bool { return p&PresenceSeen != 0 && p&PresenceWasNull != 0 }

// Valued reports that the key is present with a non-null value.
func (p Presence) Valued() bool { return p&PresenceSeen != 0 && p&PresenceWasNull == 0 }

func (p Presence) String() string {
	switch {
	case p.Absent():
		return "absent"
	case p.Null():
		return "null"
	default:
		return "value"
	}
}

// Field carries a decoded value together with its presence, so callers can
// tell "omitted" from "explicitly null" from "populated".
type Field[T any] struct {
	value    T
	presence Presence
}

// Get returns the value and whether it is populated.
func (f Field[T]) Get() (T, bool) { return f.value, f.presence.Valued() }

// Value returns the value, or the zero value when absent or null.
func (f Field[T]) Value() T { return f.value }

// Presence returns the raw presence flags.
func (f Field[T]) Presence() Presence { return f.presence }

func (f Field[T]) IsAbsent() bool  { return f.presence.Absent() }
func (f Field[T]) IsNull() bool    { return f.presence.Null() }
func (f Field[T]) IsPresent() bool { return f.presence.Valued() }

// Ptr returns a pointer to v; handy for optional setters.
func Ptr[T any](v T) *T { return &v }
