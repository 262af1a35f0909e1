package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bizadmin/internal/domain"
)

// conflictIf turns a positive existence check into a ConflictError.
func conflictIf(exists bool, err error, resource, format string, args ...any) error {
	if err != nil {
		return err
	}
	if exists {
		return domain.Conflict(resource, fmt.Sprintf(format, args...))
	}
	return nil
}

// mustExist checks a referenced id and reports a missing one against field.
func mustExist(ctx context.Context, exists func(context.Context, int64) (bool, error), field, resource string, id int64) error {
	if id <= 0 {
		return domain.Invalid(field, "is required")
	}
	ok, err := exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.Invalid(field, fmt.Sprintf("%s %d does not exist", resource, id))
	}
	return nil
}

// utcOffset renders the zone's current offset as +07:00.
func utcOffset(loc *time.Location, now time.Time) string {
	_, off := now.In(loc).Zone()
	sign := "+"
	if off < 0 {
		sign = "-"
		off = -off
	}
	return fmt.Sprintf("%s%02d:%02d", sign, off/3600, (off%3600)/60)
}

// dateTokens maps display pattern tokens to Go layout fragments, longest first.
var dateTokens = []struct{ token, layout string }{
	{"yyyy", "2006"}, {"yy", "06"},
	{"MMMM", "January"}, {"MMM", "Jan"}, {"MM", "01"}, {"M", "1"},
	{"dddd", "Monday"}, {"ddd", "Mon"}, {"dd", "02"}, {"d", "2"},
	{"HH", "15"}, {"hh", "03"}, {"h", "3"},
	{"mm", "04"}, {"ss", "05"}, {"tt", "PM"},
}

// formatPattern renders t with a display pattern such as dd/MM/yyyy. Tokens
// are formatted one at a time so literal text is never read as a Go layout.
// ok is false when the pattern holds no date or time token.
func formatPattern(pattern string, t time.Time) (out string, ok bool) {
	var b strings.Builder
	for i := 0; i < len(pattern); {
		matched := false
		for _, tok := range dateTokens {
			if strings.HasPrefix(pattern[i:], tok.token) {
				b.WriteString(t.Format(tok.layout))
				i += len(tok.token)
				matched, ok = true, true
				break
			}
		}
		if !matched {
			b.WriteByte(pattern[i])
			i++
		}
	}
	return b.String(), ok
}
