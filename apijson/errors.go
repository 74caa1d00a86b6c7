package apijson

import (
	"errors"
	"fmt"
	"strings"

	"github.com/reoring/straddle-go/i18n"
)

// Issue codes.
const (
	CodeRequired         = "required"
	CodeInvalidType      = "invalid_type"
	CodeInvalidEnum      = "invalid_enum"
	CodeInvalidFormat    = "invalid_format"
	CodeDuplicateKey     = "duplicate_key"
	CodeParseError       = "parse_error"
	CodeMissingPathParam = "missing_path_param"
)

// ErrFrozen is returned by every write to a store that has already been frozen.
var ErrFrozen = errors.New("apijson: store is frozen")

// Issue describes one invalid-data finding.
type Issue struct {
	Path    string // JSON Pointer (for example: /data/status_details/reason).
	Code    string // One of the codes listed above.
	Message string
	// Params carries structured values such as the offending enum string.
	Params map[string]any
	Cause  error // Optional: underlying decode error.
}

// Issues is a collection of invalid-data findings that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if v, ok := it.Params["value"]; ok {
			fmt.Fprintf(b, " (%q)", v)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the causes so errors.Is/As can see decode errors.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// IsInvalidData reports whether err carries invalid-data issues.
func IsInvalidData(err error) bool {
	_, ok := AsIssues(err)
	return ok
}

// NewIssue builds a single-issue error with a translated message.
func NewIssue(path, code string, params map[string]any) Issues {
	return Issues{{Path: path, Code: code, Message: i18n.T(code, stringParams(params)), Params: params}}
}

// MissingPathParam reports an empty path identifier such as payout_id.
func MissingPathParam(name string) Issues {
	return NewIssue("/"+name, CodeMissingPathParam, map[string]any{"param": name})
}

// reroot prefixes every issue path with the pointer of the parent key.
func reroot(prefix string, iss Issues) Issues {
	out := make(Issues, len(iss))
	for i, it := range iss {
		if it.Path == "" || it.Path == "/" {
			it.Path = prefix
		} else {
			it.Path = prefix + it.Path
		}
		out[i] = it
	}
	return out
}

func pointer(key string) string {
	// RFC 6901 escaping
	key = strings.ReplaceAll(key, "~", "~0")
	key = strings.ReplaceAll(key, "/", "~1")
	return "/" + key
}

func stringParams(params map[string]any) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for k, v := range params {
		out[k] = fmt.Sprint(v)
	}
	return out
}
