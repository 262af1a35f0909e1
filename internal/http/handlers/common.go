package handlers

import (
	"errors"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"bizadmin/internal/domain"
	"bizadmin/internal/validation"

	"github.com/gin-gonic/gin"
)

// queryKeys are the paging parameters; every other query parameter is an eq filter.
var queryKeys = map[string]bool{
	"page": true, "pageSize": true, "search": true, "sortBy": true, "sortDesc": true,
	"format": true,
}

func asValidation(err error) (domain.ValidationError, bool) {
	var ve domain.ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// bindJSON decodes and validates the body, answering 400 itself on failure.
func bindJSON[T any](c *gin.Context, dst *T) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		RespondDomainError(c, validation.Translate(err))
		return false
	}
	return true
}

// pathID parses a positive :name path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		RespondDomainError(c, domain.Invalid(name, "must be a positive integer"))
		return 0, false
	}
	return id, true
}

// bindQuery builds a QueryRequest from the URL. Filters come out sorted by field
// so the same URL always yields the same query.
func bindQuery(c *gin.Context) (domain.QueryRequest, bool) {
	q, err := parseQuery(c.Request.URL.Query())
	if err != nil {
		RespondDomainError(c, err)
		return domain.QueryRequest{}, false
	}
	return q, true
}

func parseQuery(v url.Values) (domain.QueryRequest, error) {
	var q domain.QueryRequest
	var err error
	if s := v.Get("page"); s != "" {
		if q.Page, err = strconv.Atoi(s); err != nil {
			return q, domain.Invalid("page", "must be an integer")
		}
	}
	if s := v.Get("pageSize"); s != "" {
		if q.PageSize, err = strconv.Atoi(s); err != nil {
			return q, domain.Invalid("pageSize", "must be an integer")
		}
	}
	if s := v.Get("sortDesc"); s != "" {
		if q.SortDesc, err = strconv.ParseBool(s); err != nil {
			return q, domain.Invalid("sortDesc", "must be true or false")
		}
	}
	q.Search = v.Get("search")
	q.SortBy = v.Get("sortBy")

	fields := make([]string, 0, len(v))
	for k := range v {
		if !queryKeys[k] {
			fields = append(fields, k)
		}
	}
	sort.Strings(fields)
	for _, f := range fields {
		val := strings.TrimSpace(v.Get(f))
		if val == "" {
			continue
		}
		q = q.WithFilter(f, val)
	}
	return q.Normalize(), nil
}
