package apijson

import (
	"bytes"
	"fmt"
	"iter"
	"slices"
	"sync/atomic"

	json "github.com/goccy/go-json"

	"github.com/reoring/straddle-go/i18n"
)

var nullLiteral = []byte("null")

// Store is an insertion-ordered map from key to one raw JSON value. It backs
// every model and every request channel.
//
// A store starts mutable and becomes frozen on Freeze or on its first read;
// after that its keys and values never change. Writes before the freeze are
// not synchronized: build a store on one goroutine, then share it. Reads of a
// frozen store are safe for concurrent use.
type Store struct {
	keys   []string
	values map[string]json.RawMessage
	frozen atomic.Bool
	err    error
}

// NewStore returns an empty, mutable store.
func NewStore() *Store {
	return &Store{values: make(map[string]json.RawMessage)}
}

// Parse builds a mutable store from a JSON object. Keys keep the order of
// their first appearance.
func Parse(data []byte, opt ParseOptions) (*Store, error) {
	buf := bytes.TrimSpace(data)
	if len(buf) == 0 || buf[0] != '{' {
		return nil, NewIssue("/", CodeInvalidType, map[string]any{"expected": "object"})
	}
	buf = bytes.Clone(buf)

	var values map[string]json.RawMessage
	if err := json.Unmarshal(buf, &values); err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err}}
	}
	keys, dups, err := scanKeys(buf)
	if err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: i18n.T(CodeParseError, nil), Cause: err}}
	}
	if len(dups) > 0 && opt.OnDuplicateKey == Error {
		var iss Issues
		for _, k := range dups {
			iss = AppendIssues(iss, NewIssue(pointer(k), CodeDuplicateKey, map[string]any{"key": k})...)
		}
		return nil, iss
	}
	if values == nil {
		values = make(map[string]json.RawMessage)
	}
	return &Store{keys: keys, values: values}, nil
}

// Set encodes v and writes it under key. Untyped nil encodes as JSON null.
func (s *Store) Set(key string, v any) error {
	if s.frozen.Load() {
		return s.fail(ErrFrozen)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return s.fail(fmt.Errorf("apijson: encoding %q: %w", key, err))
	}
	s.put(key, raw)
	return nil
}

// SetNull writes JSON null under key.
func (s *Store) SetNull(key string) error {
	if s.frozen.Load() {
		return s.fail(ErrFrozen)
	}
	s.put(key, slices.Clone(nullLiteral))
	return nil
}

// SetRaw writes an already encoded JSON value under key.
func (s *Store) SetRaw(key string, raw []byte) error {
	if s.frozen.Load() {
		return s.fail(ErrFrozen)
	}
	if !json.Valid(raw) {
		return s.fail(NewIssue(pointer(key), CodeParseError, nil))
	}
	s.put(key, bytes.Clone(raw))
	return nil
}

func (s *Store) put(key string, raw json.RawMessage) {
	if s.values == nil {
		s.values = make(map[string]json.RawMessage)
	}
	if _, ok := s.values[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.values[key] = raw
}

func (s *Store) fail(err error) error {
	if s.err == nil {
		s.err = err
	}
	return err
}

// Err returns the first write error recorded by the store.
func (s *Store) Err() error {
	if s == nil {
		return nil
	}
	return s.err
}

// Freeze makes the store immutable. It is idempotent.
func (s *Store) Freeze() *Store {
	if s != nil {
		s.frozen.Store(true)
	}
	return s
}

// Frozen reports whether the store rejects writes.
func (s *Store) Frozen() bool { return s != nil && s.frozen.Load() }

// Lookup returns the raw value stored under key along with its presence.
func (s *Store) Lookup(key string) (json.RawMessage, Presence) {
	if s == nil {
		return nil, 0
	}
	s.Freeze()
	raw, ok := s.values[key]
	if !ok {
		return nil, 0
	}
	if bytes.Equal(bytes.TrimSpace(raw), nullLiteral) {
		return raw, PresenceSeen | PresenceWasNull
	}
	return raw, PresenceSeen
}

// Presence reports how key appears in the store.
func (s *Store) Presence(key string) Presence {
	_, p := s.Lookup(key)
	return p
}

// Has reports whether key is present, null or not.
func (s *Store) Has(key string) bool { return !s.Presence(key).Absent() }

// IsNull reports whether key is present with JSON null.
func (s *Store) IsNull(key string) bool { return s.Presence(key).Null() }

// Keys returns the keys in insertion order.
func (s *Store) Keys() []string {
	if s == nil {
		return nil
	}
	s.Freeze()
	return slices.Clone(s.keys)
}

// Len returns the number of keys.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	s.Freeze()
	return len(s.keys)
}

// All iterates keys and raw values in insertion order.
func (s *Store) All() iter.Seq2[string, json.RawMessage] {
	return func(yield func(string, json.RawMessage) bool) {
		if s == nil {
			return
		}
		s.Freeze()
		for _, k := range s.keys {
			if !yield(k, s.values[k]) {
				return
			}
		}
	}
}

// Clone returns a mutable deep copy that shares no storage with s. A write
// error recorded on s carries over to the copy.
func (s *Store) Clone() *Store {
	out := NewStore()
	if s == nil {
		return out
	}
	out.err = s.err
	out.keys = slices.Clone(s.keys)
	for k, v := range s.values {
		out.values[k] = bytes.Clone(v)
	}
	return out
}

// Equal reports structural equality: the same keys mapped to structurally
// equal values, regardless of key order.
func (s *Store) Equal(o *Store) bool {
	if s.Len() != o.Len() {
		return false
	}
	for k, v := range s.All() {
		ov, p := o.Lookup(k)
		if p.Absent() {
			return false
		}
		if !equalRaw(v, ov) {
			return false
		}
	}
	return true
}

// MarshalJSON writes the object with keys in insertion order. Explicit nulls
// are kept and absent keys stay absent.
func (s *Store) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("{}"), nil
	}
	s.Freeze()
	if s.err != nil {
		return nil, s.err
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range s.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(s.values[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON replaces the contents of a mutable store. Duplicate keys keep
// the last value.
func (s *Store) UnmarshalJSON(data []byte) error {
	if s.frozen.Load() {
		return s.fail(ErrFrozen)
	}
	if bytes.Equal(bytes.TrimSpace(data), nullLiteral) {
		return nil
	}
	parsed, err := Parse(data, ParseOptions{})
	if err != nil {
		return err
	}
	s.keys, s.values = parsed.keys, parsed.values
	return nil
}
