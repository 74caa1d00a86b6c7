package apijson

import (
	json "github.com/goccy/go-json"

	"github.com/reoring/straddle-go/i18n"
)

// GetNotNull decodes the value under key into T. A missing key or an explicit
// null yields a required issue.
func GetNotNull[T any](s *Store, key string) (T, error) {
	var zero T
	raw, p := s.Lookup(key)
	if !p.Valued() {
		return zero, NewIssue(pointer(key), CodeRequired, map[string]any{"key": key})
	}
	return decode[T](key, raw)
}

// GetNullable decodes the value under key into T, returning the zero value
// when the key is missing or null. Callers that must tell those two apart use
// GetField.
func GetNullable[T any](s *Store, key string) (T, error) {
	var zero T
	raw, p := s.Lookup(key)
	if !p.Valued() {
		return zero, nil
	}
	return decode[T](key, raw)
}

// GetField decodes the value under key and keeps its presence.
func GetField[T any](s *Store, key string) (Field[T], error) {
	raw, p := s.Lookup(key)
	if !p.Valued() {
		return Field[T]{presence: p}, nil
	}
	v, err := decode[T](key, raw)
	if err != nil {
		return Field[T]{}, err
	}
	return Field[T]{value: v, presence: p}, nil
}

func decode[T any](key string, raw []byte) (T, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		if iss, ok := AsIssues(err); ok {
			return zero, reroot(pointer(key), iss)
		}
		return zero, Issues{{
			Path:    pointer(key),
			Code:    CodeInvalidType,
			Message: i18n.T(CodeInvalidType, nil),
			Cause:   err,
		}}
	}
	return v, nil
}
