package domain

import (
	"context"
	"strings"
)

const (
	DefaultPageSize = 50
	MaxPageSize     = 200
)

// Filter expresses a simple filter clause. Only "eq" is honored.
type Filter struct {
	Field string `json:"field"`
	Op    string `json:"op"`
	Value string `json:"value"`
}

// QueryRequest is the paged query contract shared by every list endpoint.
type QueryRequest struct {
	Page     int      `json:"page" form:"page"`
	PageSize int      `json:"pageSize" form:"pageSize"`
	Search   string   `json:"search" form:"search"`
	SortBy   string   `json:"sortBy" form:"sortBy"`
	SortDesc bool     `json:"sortDesc" form:"sortDesc"`
	Filters  []Filter `json:"filters,omitempty" form:"-"`
}

// Normalize clamps paging values and trims text inputs.
func (q QueryRequest) Normalize() QueryRequest {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 {
		q.PageSize = DefaultPageSize
	}
	if q.PageSize > MaxPageSize {
		q.PageSize = MaxPageSize
	}
	q.Search = strings.TrimSpace(q.Search)
	q.SortBy = strings.TrimSpace(q.SortBy)
	return q
}

func (q QueryRequest) Offset() int {
	return (q.Page - 1) * q.PageSize
}

// Filter returns the value of the eq filter for field, if any.
func (q QueryRequest) Filter(field string) (string, bool) {
	for _, f := range q.Filters {
		if f.Field == field && (f.Op == "" || f.Op == "eq") {
			return f.Value, true
		}
	}
	return "", false
}

// WithFilter returns a copy of q with an extra eq filter.
func (q QueryRequest) WithFilter(field, value string) QueryRequest {
	filters := make([]Filter, 0, len(q.Filters)+1)
	filters = append(filters, q.Filters...)
	q.Filters = append(filters, Filter{Field: field, Op: "eq", Value: value})
	return q
}

// PagedResult is one page of T plus totals.
type PagedResult[T any] struct {
	Items       []T   `json:"items"`
	Page        int   `json:"page"`
	PageSize    int   `json:"pageSize"`
	TotalCount  int64 `json:"totalCount"`
	TotalPages  int   `json:"totalPages"`
	HasPrevious bool  `json:"hasPrevious"`
	HasNext     bool  `json:"hasNext"`
}

// NewPagedResult computes the derived paging fields for a normalized q.
func NewPagedResult[T any](items []T, q QueryRequest, total int64) PagedResult[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if total > 0 && q.PageSize > 0 {
		pages = int((total + int64(q.PageSize) - 1) / int64(q.PageSize))
	}
	return PagedResult[T]{
		Items:       items,
		Page:        q.Page,
		PageSize:    q.PageSize,
		TotalCount:  total,
		TotalPages:  pages,
		HasPrevious: q.Page > 1,
		HasNext:     q.Page < pages,
	}
}

// MapPage projects every item of p through fn, keeping the paging fields.
func MapPage[E, R any](p PagedResult[E], fn func(E) R) PagedResult[R] {
	items := make([]R, 0, len(p.Items))
	for _, e := range p.Items {
		items = append(items, fn(e))
	}
	return PagedResult[R]{
		Items:       items,
		Page:        p.Page,
		PageSize:    p.PageSize,
		TotalCount:  p.TotalCount,
		TotalPages:  p.TotalPages,
		HasPrevious: p.HasPrevious,
		HasNext:     p.HasNext,
	}
}

// MapSlice projects a slice; the result is never nil.
func MapSlice[E, R any](in []E, fn func(E) R) []R {
	out := make([]R, 0, len(in))
	for _, e := range in {
		out = append(out, fn(e))
	}
	return out
}

// RequestContext carries the authenticated principal when available.
type RequestContext struct {
	UserID      int64    `json:"userId"`
	Username    string   `json:"username"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

type requestContextKey struct{}

func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

func RequestContextFrom(ctx context.Context) (RequestContext, bool) {
	if ctx == nil {
		return RequestContext{}, false
	}
	rc, ok := ctx.Value(requestContextKey{}).(RequestContext)
	return rc, ok
}

// SystemActor is written into audit fields when no user is authenticated.
const SystemActor = "system"

// ActorFrom returns the username for audit stamping.
func ActorFrom(ctx context.Context) string {
	if rc, ok := RequestContextFrom(ctx); ok && rc.Username != "" {
		return rc.Username
	}
	return SystemActor
}
