package domain

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeAmount_KeepsEveryDigit(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{"1200.5", "1200.5"},
		{"250.75", "250.75"},
		{".5", "0.5"},
		{"+3", "3"},
		{" 42 ", "42"},
		{"0.000001", "0.000001"},
		{"12345678901234.123456", "12345678901234.123456"},
		{"99999999999999.999999", "99999999999999.999999"},
		{"1.1000000", "1.1"},
		{json.Number("1.5e-5"), "0.000015"},
		{json.Number("19.99"), "19.99"},
		{json.Number("1e2"), "100"},
		{12, "12"},
		{int64(7), "7"},
		{0.1, "0.1"},
	}

	for _, tt := range tests {
		got, err := NormalizeAmount(tt.input)
		require.NoError(t, err, "%v", tt.input)
		assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "%v: got %s", tt.input, got)
	}
}

func TestNormalizeAmount_NonPositive(t *testing.T) {
	for _, input := range []any{0, -10, "0", "-0.01", json.Number("0"), json.Number("-3")} {
		_, err := NormalizeAmount(input)
		assert.ErrorIs(t, err, financeErrors.ErrNonPositiveAmount, "%v", input)
		assert.Equal(t, financeErrors.KindNonPositiveAmount, financeErrors.KindOf(err))
	}
}

func TestNormalizeAmount_Invalid(t *testing.T) {
	for _, input := range []any{"abc", "1.2.3", "", "   ", "1,5", "1e3", ".", "+", nil, true, []any{1}, math.NaN(), math.Inf(1)} {
		_, err := NormalizeAmount(input)
		assert.Equal(t, financeErrors.KindInvalidAmount, financeErrors.KindOf(err), "%v", input)
	}
}

func TestNormalizeAmount_OutsideStoreBounds(t *testing.T) {
	inputs := []any{
		json.Number("1e10000000"),
		json.Number("1e-10000000"),
		json.Number("1e15"),
		json.Number("1.5e-7"),
		"1.1234567",
		"0.0000001",
		"100000000000000",
		"123456789012345.5",
		"0." + strings.Repeat("0", 70) + "1",
		1e300,
		1e-300,
		int64(math.MaxInt64),
	}
	for _, input := range inputs {
		_, err := NormalizeAmount(input)
		assert.Equal(t, financeErrors.KindInvalidAmount, financeErrors.KindOf(err), "%v", input)
	}
}

func TestParseDecimal_AllowsNegative(t *testing.T) {
	got, err := ParseDecimal(json.Number("-12.5"))
	require.NoError(t, err)
	assert.Equal(t, "-12.5", got.String())
}
