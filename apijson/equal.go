package apijson

import (
	"bytes"
	"strconv"

	json "github.com/goccy/go-json"
)

// equalRaw compares two raw JSON values structurally.
func equalRaw(a, b []byte) bool {
	if bytes.Equal(a, b) {
		return true
	}
	av, err := decodeAny(a)
	if err != nil {
		return false
	}
	bv, err := decodeAny(b)
	if err != nil {
		return false
	}
	return equalValue(av, bv)
}

func decodeAny(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

func equalValue(a, b any) bool {
	switch at := a.(type) {
	case nil:
		return b == nil
	case bool:
		bt, ok := b.(bool)
		return ok && at == bt
	case string:
		bt, ok := b.(string)
		return ok && at == bt
	case json.Number:
		bt, ok := b.(json.Number)
		return ok && equalNumber(at, bt)
	case []any:
		bt, ok := b.([]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for i := range at {
			if !equalValue(at[i], bt[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		bt, ok := b.(map[string]any)
		if !ok || len(at) != len(bt) {
			return false
		}
		for k, v := range at {
			w, ok := bt[k]
			if !ok || !equalValue(v, w) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func equalNumber(a, b json.Number) bool {
	if a == b {
		return true
	}
	if ai, err := strconv.ParseInt(string(a), 10, 64); err == nil {
		if bi, err := strconv.ParseInt(string(b), 10, 64); err == nil {
			return ai == bi
		}
	}
	af, err := strconv.ParseFloat(string(a), 64)
	if err != nil {
		return false
	}
	bf, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return false
	}
	return af == bf
}

// EqualJSON reports whether two encoded JSON values are structurally equal.
func EqualJSON(a, b []byte) bool { return equalRaw(a, b) }
