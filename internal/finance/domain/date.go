package domain

import (
	"regexp"
	"strings"
	"time"

	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
)

const dateOnlyLayout = "2006-01-02"

var (
	dateOnlyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	dateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}(:\d{2}(\.\d{1,9})?)?(Z|[+-]\d{2}:\d{2})$`)
	monthPattern    = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
)

// ParseISODate accepts YYYY-MM-DD (UTC midnight) or an ISO-8601 datetime with
// an explicit zone. Calendar overflow such as 2026-02-30 is rejected.
func ParseISODate(raw any) (time.Time, error) {
	s, ok := raw.(string)
	if !ok {
		return time.Time{}, financeErrors.ErrInvalidDate
	}
	s = strings.TrimSpace(s)

	switch {
	case dateOnlyPattern.MatchString(s):
		t, err := time.ParseInLocation(dateOnlyLayout, s, time.UTC)
		if err != nil || t.Format(dateOnlyLayout) != s {
			return time.Time{}, financeErrors.ErrInvalidDate
		}
		return t, nil
	case dateTimePattern.MatchString(s):
		t, err := time.Parse(dateTimeLayout(s), s)
		if err != nil {
			return time.Time{}, financeErrors.ErrInvalidDate
		}
		return t.UTC(), nil
	default:
		return time.Time{}, financeErrors.ErrInvalidDate
	}
}

func dateTimeLayout(s string) string {
	// seconds present when the clock part has two colons: "T15:04:05"
	clock := s[strings.IndexByte(s, 'T')+1:]
	if len(clock) >= 6 && clock[5] == ':' {
		return time.RFC3339Nano
	}
	return "2006-01-02T15:04Z07:00"
}

// MonthWindow returns the half-open interval [start, end) covering the
// calendar month named by YYYY-MM, or the month containing now when empty.
func MonthWindow(month string, now time.Time) (time.Time, time.Time, error) {
	var start time.Time
	if month == "" {
		now = now.UTC()
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	} else {
		if !monthPattern.MatchString(month) {
			return time.Time{}, time.Time{}, financeErrors.ErrInvalidMonth
		}
		t, err := time.ParseInLocation("2006-01", month, time.UTC)
		if err != nil {
			return time.Time{}, time.Time{}, financeErrors.ErrInvalidMonth
		}
		start = t
	}
	return start, start.AddDate(0, 1, 0), nil
}
