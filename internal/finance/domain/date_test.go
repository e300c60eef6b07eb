package domain

import (
	"testing"
	"time"

	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISODate_Valid(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2026-02-01", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"2026-02-01T10:30:00Z", time.Date(2026, 2, 1, 10, 30, 0, 0, time.UTC)},
		{"2026-02-01T10:30:00.123Z", time.Date(2026, 2, 1, 10, 30, 0, 123000000, time.UTC)},
		{"2026-02-01T10:30+01:00", time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		got, err := ParseISODate(tt.input)
		require.NoError(t, err, tt.input)
		assert.True(t, tt.want.Equal(got), "%s: got %s", tt.input, got)
		assert.Equal(t, time.UTC, got.Location())
	}
}

func TestParseISODate_RoundTripsCalendarDate(t *testing.T) {
	got, err := ParseISODate("2026-02-01")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-01", got.Format("2006-01-02"))
}

func TestParseISODate_Invalid(t *testing.T) {
	for _, input := range []any{"2026-02-30", "2025-02-29", "2026-13-01", "2026-2-1", "01/02/2026", "2026-02-01T10:30:00", "", "tomorrow", 20260201, nil} {
		_, err := ParseISODate(input)
		assert.ErrorIs(t, err, financeErrors.ErrInvalidDate, "%v", input)
	}
}

func TestMonthWindow(t *testing.T) {
	start, end, err := MonthWindow("2026-12", time.Time{})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestMonthWindow_DefaultsToCurrentMonth(t *testing.T) {
	now := time.Date(2026, 3, 17, 23, 30, 0, 0, time.FixedZone("CET", 3600))

	start, end, err := MonthWindow("", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestMonthWindow_Invalid(t *testing.T) {
	for _, month := range []string{"2026-13", "2026-00", "2026-1", "March", "2026-03-01"} {
		_, _, err := MonthWindow(month, time.Now())
		assert.ErrorIs(t, err, financeErrors.ErrInvalidMonth, month)
	}
}
