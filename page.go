package straddle

import (
	"context"
	"iter"
	"slices"

	json "github.com/goccy/go-json"

	"github.com/reoring/straddle-go/apijson"
)

// Page is one page of a list endpoint. It keeps the request that produced it,
// so Next can ask for the following page.
type Page[T any] struct {
	resp       PagedResponse[T]
	items      []T
	pageNumber int64
	fetch      func(ctx context.Context, pageNumber int64) (*Page[T], error)
}

// Response returns the decoded envelope of this page.
func (p *Page[T]) Response() PagedResponse[T] { return p.resp }

// Items returns a copy of the page's items.
func (p *Page[T]) Items() []T { return slices.Clone(p.items) }

// PageNumber returns the page number that was requested.
func (p *Page[T]) PageNumber() int64 { return p.pageNumber }

// HasNext reports whether another page may exist. An empty page is the end.
// When the server reports both page_number and total_pages, the last page is
// the end too.
func (p *Page[T]) HasNext() bool {
	if len(p.items) == 0 {
		return false
	}
	meta, err := apijson.GetField[PagedResponseMetadata](p.resp.Raw(), "meta")
	if err != nil || !meta.IsPresent() {
		return true
	}
	m := meta.Value()
	number, err := apijson.GetField[int64](m.Raw(), "page_number")
	if err != nil || !number.IsPresent() {
		return true
	}
	total, err := m.TotalPages()
	if err != nil || !total.IsPresent() {
		return true
	}
	return number.Value() < total.Value()
}

// Next fetches the page after this one. Past the end the server answers with
// an empty page.
func (p *Page[T]) Next(ctx context.Context) (*Page[T], error) {
	return p.fetch(ctx, p.pageNumber+1)
}

// All iterates over every item of this page and the ones after it, fetching
// pages as needed. Iteration stops after the first error.
func (p *Page[T]) All(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		page := p
		for {
			for _, it := range page.items {
				if !yield(it, nil) {
					return
				}
			}
			if !page.HasNext() {
				return
			}
			next, err := page.Next(ctx)
			if err != nil {
				var zero T
				yield(zero, err)
				return
			}
			page = next
		}
	}
}

// Equal reports whether both pages hold structurally equal items in the same
// order.
func (p *Page[T]) Equal(o *Page[T]) bool {
	if p == nil || o == nil {
		return p == o
	}
	if len(p.items) != len(o.items) {
		return false
	}
	for i := range p.items {
		if !equalItem(p.items[i], o.items[i]) {
			return false
		}
	}
	return true
}

func equalItem[T any](a, b T) bool {
	if am, ok := any(a).(apijson.Model); ok {
		return apijson.Equal(am, any(b).(apijson.Model))
	}
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return apijson.EqualJSON(ab, bb)
}
