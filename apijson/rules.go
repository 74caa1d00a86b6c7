package apijson

import "strconv"

// Rule checks one key of a store and reports what it finds.
type Rule func(s *Store) Issues

// Check runs every rule and collects all issues. It returns nil when the
// store satisfies the rules.
func Check(s *Store, rules ...Rule) error {
	var iss Issues
	for _, r := range rules {
		iss = append(iss, r(s)...)
	}
	if len(iss) == 0 {
		return nil
	}
	return iss
}

// Required decodes key as T, failing when absent or null, and validates the
// value when T is a Validator.
func Required[T any](key string) Rule {
	return func(s *Store) Issues {
		v, err := GetNotNull[T](s, key)
		if err != nil {
			return rooted(pointer(key), err)
		}
		return validateNested(pointer(key), v)
	}
}

// Optional decodes key as T when it carries a value. Absent and null both pass.
func Optional[T any](key string) Rule {
	return func(s *Store) Issues {
		f, err := GetField[T](s, key)
		if err != nil {
			return rooted(pointer(key), err)
		}
		if v, ok := f.Get(); ok {
			return validateNested(pointer(key), v)
		}
		return nil
	}
}

// RequiredEach decodes key as []T and validates every element.
func RequiredEach[T any](key string) Rule {
	return func(s *Store) Issues {
		vs, err := GetNotNull[[]T](s, key)
		if err != nil {
			return rooted(pointer(key), err)
		}
		return validateEach(pointer(key), vs)
	}
}

// OptionalEach is RequiredEach for keys that may be absent or null.
func OptionalEach[T any](key string) Rule {
	return func(s *Store) Issues {
		vs, err := GetNullable[[]T](s, key)
		if err != nil {
			return rooted(pointer(key), err)
		}
		return validateEach(pointer(key), vs)
	}
}

func validateEach[T any](prefix string, vs []T) Issues {
	var iss Issues
	for i, v := range vs {
		iss = append(iss, validateNested(prefix+"/"+strconv.Itoa(i), v)...)
	}
	return iss
}

func validateNested(prefix string, v any) Issues {
	vv, ok := v.(Validator)
	if !ok {
		return nil
	}
	err := vv.Validate()
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return reroot(prefix, iss)
	}
	return rooted(prefix, err)
}

// rooted returns getter errors, which already carry the key's pointer.
func rooted(path string, err error) Issues {
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	return Issues{{Path: path, Code: CodeInvalidType, Message: err.Error(), Cause: err}}
}

// Embedded runs the rules of an embedded model against the same store.
func Embedded(v Validator) Rule {
	return func(*Store) Issues {
		err := v.Validate()
		if err == nil {
			return nil
		}
		return rooted("", err)
	}
}
