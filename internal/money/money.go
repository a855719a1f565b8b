package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// Amounts are decimals with at most 8 fractional digits, the finest
// granularity any supported coin settles at.
const MaxScale = 8

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

func ParseAmount(input string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.Exponent() < -MaxScale {
		return decimal.Zero, ErrTooManyDecimals
	}
	return amount, nil
}

// ParsePositive accepts only strictly positive amounts.
func ParsePositive(input string) (decimal.Decimal, error) {
	amount, err := ParseAmount(input)
	if err != nil {
		return decimal.Zero, err
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

func Format(amount decimal.Decimal) string {
	return amount.StringFixedBank(MaxScale)
}
