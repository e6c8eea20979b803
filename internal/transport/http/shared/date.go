package shared

import (
	"fmt"
	"time"
)

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// ParsePeriod accepts YYYY-MM and returns its year and month.
func ParsePeriod(value string) (int, int, error) {
	parsed, err := time.Parse("2006-01", value)
	if err != nil {
		return 0, 0, fmt.Errorf("period must be YYYY-MM: %w", err)
	}
	return parsed.Year(), int(parsed.Month()), nil
}

// DaysInMonth returns the real calendar length of the month.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
