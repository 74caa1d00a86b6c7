package apijson

import (
	"net/url"

	"github.com/tidwall/gjson"
)

// EncodeQuery renders a store as URL query values. Strings are used as-is,
// numbers and booleans as their literal text, arrays as repeated keys and
// objects as key[sub]. Null values are skipped.
func EncodeQuery(s *Store) url.Values {
	out := url.Values{}
	for k, raw := range s.All() {
		addQuery(out, k, gjson.ParseBytes(raw))
	}
	return out
}

func addQuery(out url.Values, key string, r gjson.Result) {
	switch {
	case r.Type == gjson.Null:
	case r.IsArray():
		r.ForEach(func(_, e gjson.Result) bool {
			addQuery(out, key, e)
			return true
		})
	case r.IsObject():
		r.ForEach(func(k, e gjson.Result) bool {
			addQuery(out, key+"["+k.String()+"]", e)
			return true
		})
	case r.Type == gjson.String:
		out.Add(key, r.Str)
	default:
		out.Add(key, r.Raw)
	}
}

// Path looks up a dotted gjson path over the object's raw JSON. It reaches
// fields the typed accessors do not know about.
func (o Object) Path(path string) gjson.Result {
	raw, err := o.Raw().MarshalJSON()
	if err != nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(raw, path)
}
