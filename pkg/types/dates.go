package types

import (
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for every date field.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO date or RFC 3339 timestamp. Date-only values are
// taken as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// NormalizeDate reduces an ISO date or RFC 3339 timestamp to YYYY-MM-DD.
func NormalizeDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// Today returns now's calendar date in YYYY-MM-DD form.
func Today(now time.Time) string {
	return now.Format(DateLayout)
}
