package domain

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"

	financeErrors "github.com/sebuszqo/FinanceLedger/internal/finance/errors"
	"github.com/shopspring/decimal"
)

// Amounts are stored as NUMERIC(20, 6).
const (
	MaxAmountScale         = 6
	MaxAmountIntegerDigits = 14
	maxAmountTextLength    = 64
)

var maxAmountMagnitude = decimal.New(1, MaxAmountIntegerDigits)

// optional sign, digits, at most one point, at least one digit overall
var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)

// NormalizeAmount turns a number or numeric string into an exact, strictly
// positive decimal. Strings keep every digit they were given.
func NormalizeAmount(raw any) (decimal.Decimal, error) {
	amount, err := ParseDecimal(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !amount.IsPositive() {
		return decimal.Decimal{}, financeErrors.ErrNonPositiveAmount
	}
	return amount, nil
}

// ParseDecimal is NormalizeAmount without the sign requirement. Values the
// store cannot hold exactly are rejected.
func ParseDecimal(raw any) (decimal.Decimal, error) {
	d, err := parseDecimalValue(raw)
	if err != nil {
		return decimal.Decimal{}, err
	}
	if !fitsStore(d) {
		return decimal.Decimal{}, financeErrors.ErrInvalidAmount
	}
	return d, nil
}

// fitsStore checks the exponent before any arithmetic, so that values like
// 1e10000000 are never expanded.
func fitsStore(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp > MaxAmountIntegerDigits || exp < -maxAmountTextLength {
		return false
	}
	if !d.Truncate(MaxAmountScale).Equal(d) {
		return false
	}
	return d.Abs().LessThan(maxAmountMagnitude)
}

func parseDecimalValue(raw any) (decimal.Decimal, error) {
	switch v := raw.(type) {
	case json.Number:
		// JSON numbers are always finite; exponent notation is allowed here.
		if len(v) > maxAmountTextLength {
			return decimal.Decimal{}, financeErrors.ErrInvalidAmount
		}
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Decimal{}, financeErrors.ErrInvalidAmount
		}
		return d, nil
	case string:
		return parseDecimalText(v)
	case float64:
		return decimalFromFloat(v)
	case float32:
		return decimalFromFloat(float64(v))
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int32:
		return decimal.NewFromInt32(v), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case decimal.Decimal:
		return v, nil
	default:
		return decimal.Decimal{}, financeErrors.ErrInvalidAmount
	}
}

func decimalFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Decimal{}, financeErrors.ErrInvalidAmount
	}
	return decimal.NewFromFloat(f), nil
}

func parseDecimalText(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxAmountTextLength || !decimalPattern.MatchString(s) {
		return decimal.Decimal{}, financeErrors.ErrInvalidAmount
	}
	s = strings.TrimPrefix(s, "+")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, financeErrors.ErrInvalidAmount
	}
	return d, nil
}
