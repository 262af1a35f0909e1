package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryRequestNormalize(t *testing.T) {
	q := QueryRequest{Page: 0, PageSize: 0, Search: "  acme "}.Normalize()
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, DefaultPageSize, q.PageSize)
	assert.Equal(t, "acme", q.Search)

	q = QueryRequest{Page: 3, PageSize: 1000}.Normalize()
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, MaxPageSize, q.PageSize)
	assert.Equal(t, 400, q.Offset())
}

func TestNewPagedResult(t *testing.T) {
	q := QueryRequest{Page: 2, PageSize: 10}
	p := NewPagedResult([]int{11, 12}, q, 25)
	assert.Equal(t, 3, p.TotalPages)
	assert.True(t, p.HasPrevious)
	assert.True(t, p.HasNext)

	last := NewPagedResult([]int{21}, QueryRequest{Page: 3, PageSize: 10}, 25)
	assert.False(t, last.HasNext)

	empty := NewPagedResult[int](nil, QueryRequest{Page: 1, PageSize: 10}, 0)
	require.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrevious)
}

func TestMapPageKeepsTotals(t *testing.T) {
	p := NewPagedResult([]int{1, 2}, QueryRequest{Page: 1, PageSize: 2}, 5)
	out := MapPage(p, func(v int) string { return string(rune('a' + v)) })
	assert.Equal(t, []string{"b", "c"}, out.Items)
	assert.Equal(t, int64(5), out.TotalCount)
	assert.Equal(t, 3, out.TotalPages)
	assert.True(t, out.HasNext)
}

func TestQueryRequestFilters(t *testing.T) {
	q := QueryRequest{}.WithFilter("companyId", "7")
	v, ok := q.Filter("companyId")
	require.True(t, ok)
	assert.Equal(t, "7", v)

	_, ok = q.Filter("productId")
	assert.False(t, ok)
}

func TestActorFrom(t *testing.T) {
	assert.Equal(t, SystemActor, ActorFrom(context.Background()))

	ctx := WithRequestContext(context.Background(), RequestContext{UserID: 4, Username: "alice"})
	assert.Equal(t, "alice", ActorFrom(ctx))
}
