package straddle

import (
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/reoring/straddle-go/apijson"
)

// Header keys shared by every operation.
const (
	HeaderCorrelationID     = "Correlation-Id"
	HeaderIdempotencyKey    = "Idempotency-Key"
	HeaderRequestID         = "Request-Id"
	HeaderStraddleAccountID = "Straddle-Account-Id"
)

// requestParams holds the three channels of an outgoing request. Every params
// type embeds it. The stores are created on first write and freeze when the
// request is sent.
type requestParams struct {
	header *apijson.Store
	query  *apijson.Store
	body   *apijson.Store
}

// NewIdempotencyKey returns a fresh random key for SetIdempotencyKey.
func NewIdempotencyKey() string { return uuid.NewString() }

// SetCorrelationID sets the Correlation-Id header. Empty values are not sent.
func (p *requestParams) SetCorrelationID(v string) { p.setHeader(HeaderCorrelationID, v) }

// SetIdempotencyKey sets the Idempotency-Key header. Empty values are not sent.
func (p *requestParams) SetIdempotencyKey(v string) { p.setHeader(HeaderIdempotencyKey, v) }

// SetRequestID sets the Request-Id header. Empty values are not sent.
func (p *requestParams) SetRequestID(v string) { p.setHeader(HeaderRequestID, v) }

// SetStraddleAccountID sets the Straddle-Account-Id header used by platforms
// acting on behalf of one of their accounts. Empty values are not sent.
func (p *requestParams) SetStraddleAccountID(v string) { p.setHeader(HeaderStraddleAccountID, v) }

// RawHeaderData returns the header store, frozen.
func (p requestParams) RawHeaderData() *apijson.Store { return frozen(p.header) }

// RawQueryData returns the query store, frozen.
func (p requestParams) RawQueryData() *apijson.Store { return frozen(p.query) }

// RawBodyData returns the body store, frozen.
func (p requestParams) RawBodyData() *apijson.Store { return frozen(p.body) }

func frozen(s *apijson.Store) *apijson.Store {
	if s == nil {
		return apijson.NewStore().Freeze()
	}
	return s.Freeze()
}

func (p *requestParams) headers() *apijson.Store {
	if p.header == nil {
		p.header = apijson.NewStore()
	}
	return p.header
}

func (p *requestParams) queries() *apijson.Store {
	if p.query == nil {
		p.query = apijson.NewStore()
	}
	return p.query
}

func (p *requestParams) bodies() *apijson.Store {
	if p.body == nil {
		p.body = apijson.NewStore()
	}
	return p.body
}

func (p *requestParams) setHeader(key, v string) {
	if v == "" {
		return
	}
	_ = p.headers().Set(key, v)
}

func (p requestParams) clone() requestParams {
	out := requestParams{}
	if p.header != nil {
		out.header = p.header.Clone()
	}
	if p.query != nil {
		out.query = p.query.Clone()
	}
	if p.body != nil {
		out.body = p.body.Clone()
	}
	return out
}

// err returns the first failed write on any channel.
func (p requestParams) err() error {
	for _, s := range []*apijson.Store{p.header, p.query, p.body} {
		if err := s.Err(); err != nil {
			return err
		}
	}
	return nil
}

// requireBody fails with a required issue for every key that is absent or
// null in the body.
func (p requestParams) requireBody(keys ...string) error {
	var iss apijson.Issues
	body := p.RawBodyData()
	for _, k := range keys {
		if !body.Presence(k).Valued() {
			iss = apijson.AppendIssues(iss, apijson.NewIssue("/"+k, apijson.CodeRequired, map[string]any{"key": k})...)
		}
	}
	if len(iss) == 0 {
		return nil
	}
	return iss
}

func (p requestParams) httpHeader() http.Header {
	h := http.Header{}
	for k, raw := range p.RawHeaderData().All() {
		r := gjson.ParseBytes(raw)
		if r.Type == gjson.Null {
			continue
		}
		h.Set(k, r.String())
	}
	return h
}

func (p requestParams) urlQuery() url.Values { return apijson.EncodeQuery(p.RawQueryData()) }

func setValue(s *apijson.Store, key string, v any) { _ = s.Set(key, v) }

// setOptional writes v unless it is nil; a nil optional is never sent.
func setOptional[T any](s *apijson.Store, key string, v *T) {
	if v == nil {
		return
	}
	_ = s.Set(key, *v)
}

// setNullable writes v, or JSON null when v is nil.
func setNullable[T any](s *apijson.Store, key string, v *T) {
	if v == nil {
		_ = s.SetNull(key)
		return
	}
	_ = s.Set(key, *v)
}

func setOptionalSlice[T any](s *apijson.Store, key string, v []T) {
	if v == nil {
		return
	}
	_ = s.Set(key, v)
}

func setMetadata(s *apijson.Store, v map[string]string) {
	if v == nil {
		_ = s.SetNull("metadata")
		return
	}
	_ = s.Set("metadata", v)
}

// listParams carries the query keys every list endpoint understands.
type listParams struct {
	requestParams
}

// SetPageNumber selects the 1-based page to fetch.
func (p *listParams) SetPageNumber(v int64) { setValue(p.queries(), "page_number", v) }

// SetPageSize sets the number of items per page.
func (p *listParams) SetPageSize(v int64) { setValue(p.queries(), "page_size", v) }

func (p *listParams) SetSortBy(v string) { setValue(p.queries(), "sort_by", v) }

func (p *listParams) SetSortOrder(v SortOrder) { setValue(p.queries(), "sort_order", v) }

// PageNumber returns the requested page, defaulting to 1.
func (p listParams) PageNumber() int64 {
	n, err := apijson.GetNullable[int64](p.RawQueryData(), "page_number")
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// requirePath fails fast when a path identifier such as payout_id is empty.
func requirePath(name, v string) error {
	if v == "" {
		return apijson.MissingPathParam(name)
	}
	return nil
}
