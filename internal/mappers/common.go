// Package mappers converts between domain entities and API DTOs.
// Every function here is pure: no I/O and no validation.
package mappers

import (
	"strconv"
	"strings"
	"time"

	"bizadmin/internal/domain"
	"bizadmin/internal/dto"
)

func auditOf(b domain.BaseEntity) dto.Audit {
	return dto.Audit{
		CreatedBy:  b.CreatedBy,
		CreatedAt:  b.CreatedAt,
		ModifiedBy: b.ModifiedBy,
		ModifiedAt: b.ModifiedAt,
	}
}

func upper(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
func lower(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
func trim(s string) string  { return strings.TrimSpace(s) }

// boolOr resolves an optional flag; absent means def.
func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func intOr(v *int, def int) int {
	if v == nil {
		return def
	}
	return *v
}

func dayName(d int) string {
	if d < 0 || d > 6 {
		return ""
	}
	return time.Weekday(d).String()
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

// parseDate expects input already checked by the date binding rule.
func parseDate(s string) time.Time {
	t, _ := time.Parse("2006-01-02", trim(s))
	return t
}

func parseDatePtr(s string) *time.Time {
	if trim(s) == "" {
		return nil
	}
	t := parseDate(s)
	return &t
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func idPtr(p *int64) string {
	if p == nil {
		return ""
	}
	return itoa(*p)
}
