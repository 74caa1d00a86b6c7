package transport

import (
	"fmt"
	"io"
	"net/http"

	"github.com/tidwall/gjson"
)

// maxErrorBody bounds how much of a failed response is kept.
const maxErrorBody = 64 << 10

// StatusError is a non-2xx API response.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Title      string
	Detail     string
	Type       string
	RequestID  string
	Body       []byte
}

func (e *StatusError) Error() string {
	msg := e.Title
	if e.Detail != "" {
		if msg != "" {
			msg += ": "
		}
		msg += e.Detail
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	s := fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, msg)
	if e.RequestID != "" {
		s += " (request " + e.RequestID + ")"
	}
	return s
}

// newStatusError reads and closes the body of a failed response. The error
// document looks like {"error": {"title", "detail", "type"}, "meta": {"api_request_id"}}.
func newStatusError(req *Request, resp *http.Response) *StatusError {
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	e := &StatusError{
		Method:     req.Method,
		URL:        req.URL,
		StatusCode: resp.StatusCode,
		Body:       body,
	}
	if gjson.ValidBytes(body) {
		r := gjson.ParseBytes(body)
		e.Title = r.Get("error.title").String()
		e.Detail = r.Get("error.detail").String()
		e.Type = r.Get("error.type").String()
		e.RequestID = r.Get("meta.api_request_id").String()
	}
	if e.RequestID == "" {
		e.RequestID = resp.Header.Get("Request-Id")
	}
	return e
}
