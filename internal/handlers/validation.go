package handlers

import (
	"errors"

	"github.com/shopspring/decimal"
)

var errInvalidSlippage = errors.New("invalid slippage")

// parseSlippage accepts an empty string as "use the default".
func parseSlippage(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	slippage, err := decimal.NewFromString(raw)
	if err != nil || slippage.LessThan(decimal.Zero) {
		return decimal.Zero, errInvalidSlippage
	}
	return slippage, nil
}
