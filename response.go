package straddle

import (
	"time"

	"github.com/reoring/straddle-go/apijson"
)

// ResponseType tells whether data holds an object or an array.
type ResponseType string

const (
	ResponseTypeObject ResponseType = "object"
	ResponseTypeArray  ResponseType = "array"
	ResponseTypeError  ResponseType = "error"
	ResponseTypeNone   ResponseType = "none"
)

func (r ResponseType) IsKnown() bool {
	switch r {
	case ResponseTypeObject, ResponseTypeArray, ResponseTypeError, ResponseTypeNone:
		return true
	}
	return false
}

type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

func (r SortOrder) IsKnown() bool {
	switch r {
	case SortOrderAsc, SortOrderDesc:
		return true
	}
	return false
}

// Response is the envelope of single-object responses.
type Response[T any] struct{ apijson.Object }

func (r Response[T]) Data() (T, error) { return apijson.GetNotNull[T](r.Raw(), "data") }

func (r Response[T]) Meta() (ResponseMetadata, error) {
	return apijson.GetNotNull[ResponseMetadata](r.Raw(), "meta")
}

func (r Response[T]) ResponseType() (apijson.Enum[ResponseType], error) {
	return apijson.GetNotNull[apijson.Enum[ResponseType]](r.Raw(), "response_type")
}

func (r Response[T]) Validate() error {
	return r.Check(
		apijson.Required[T]("data"),
		apijson.Required[ResponseMetadata]("meta"),
		apijson.Required[apijson.Enum[ResponseType]]("response_type"),
	)
}

// PagedResponse is the envelope of list responses.
type PagedResponse[T any] struct{ apijson.Object }

func (r PagedResponse[T]) Data() ([]T, error) { return apijson.GetNotNull[[]T](r.Raw(), "data") }

func (r PagedResponse[T]) Meta() (PagedResponseMetadata, error) {
	return apijson.GetNotNull[PagedResponseMetadata](r.Raw(), "meta")
}

func (r PagedResponse[T]) ResponseType() (apijson.Enum[ResponseType], error) {
	return apijson.GetNotNull[apijson.Enum[ResponseType]](r.Raw(), "response_type")
}

func (r PagedResponse[T]) Validate() error {
	return r.Check(
		apijson.RequiredEach[T]("data"),
		apijson.Required[PagedResponseMetadata]("meta"),
		apijson.Required[apijson.Enum[ResponseType]]("response_type"),
	)
}

// ResponseMetadata identifies the API request that produced a response.
type ResponseMetadata struct{ apijson.Object }

func (r ResponseMetadata) APIRequestID() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "api_request_id")
}

func (r ResponseMetadata) APIRequestTimestamp() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "api_request_timestamp")
}

func (r ResponseMetadata) Validate() error {
	return r.Check(
		apijson.Required[string]("api_request_id"),
		apijson.Required[time.Time]("api_request_timestamp"),
	)
}

// PagedResponseMetadata adds paging state to ResponseMetadata.
type PagedResponseMetadata struct{ apijson.Object }

func (r PagedResponseMetadata) APIRequestID() (string, error) {
	return apijson.GetNotNull[string](r.Raw(), "api_request_id")
}

func (r PagedResponseMetadata) APIRequestTimestamp() (time.Time, error) {
	return apijson.GetNotNull[time.Time](r.Raw(), "api_request_timestamp")
}

func (r PagedResponseMetadata) MaxPageSize() (int64, error) {
	return apijson.GetNullable[int64](r.Raw(), "max_page_size")
}

func (r PagedResponseMetadata) PageNumber() (int64, error) {
	return apijson.GetNotNull[int64](r.Raw(), "page_number")
}

func (r PagedResponseMetadata) PageSize() (int64, error) {
	return apijson.GetNotNull[int64](r.Raw(), "page_size")
}

func (r PagedResponseMetadata) SortBy() (string, error) {
	return apijson.GetNullable[string](r.Raw(), "sort_by")
}

func (r PagedResponseMetadata) SortOrder() (apijson.Enum[SortOrder], error) {
	return apijson.GetNullable[apijson.Enum[SortOrder]](r.Raw(), "sort_order")
}

func (r PagedResponseMetadata) TotalItems() (apijson.Field[int64], error) {
	return apijson.GetField[int64](r.Raw(), "total_items")
}

func (r PagedResponseMetadata) TotalPages() (apijson.Field[int64], error) {
	return apijson.GetField[int64](r.Raw(), "total_pages")
}

func (r PagedResponseMetadata) Validate() error {
	return r.Check(
		apijson.Required[string]("api_request_id"),
		apijson.Required[time.Time]("api_request_timestamp"),
		apijson.Optional[int64]("max_page_size"),
		apijson.Required[int64]("page_number"),
		apijson.Required[int64]("page_size"),
		apijson.Optional[string]("sort_by"),
		apijson.Optional[apijson.Enum[SortOrder]]("sort_order"),
		apijson.Optional[int64]("total_items"),
		apijson.Optional[int64]("total_pages"),
	)
}
