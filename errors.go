package straddle

import (
	"github.com/reoring/straddle-go/apijson"
	"github.com/reoring/straddle-go/transport"
)

// Issues is the invalid-data error: missing required fields, values of the
// wrong shape, unknown enum values and missing path parameters.
type Issues = apijson.Issues

// Issue is one invalid-data finding.
type Issue = apijson.Issue

// APIError is a non-2xx response from the API.
type APIError = transport.StatusError

// AsIssues extracts invalid-data issues from err.
func AsIssues(err error) (Issues, bool) { return apijson.AsIssues(err) }

// IsInvalidData reports whether err carries invalid-data issues.
func IsInvalidData(err error) bool { return apijson.IsInvalidData(err) }
