package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for entry and expiry dates.
const DateLayout = "2006-01-02"

// ParseDate parses an ISO 8601 calendar date and normalizes it to UTC
// midnight so same-day entries compare equal on the date component.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q (want YYYY-MM-DD)", ErrValidation, s)
	}

	return t.UTC(), nil
}

// FormatDate renders a date in the ISO 8601 wire format.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}
