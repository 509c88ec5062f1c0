package core

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

func init() {
	// amounts are stored as plain JSON numbers, like the browser dashboard wrote them
	decimal.MarshalJSONWithoutQuotes = true
}

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount parses a non-negative decimal amount.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil || d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// NonNegative returns d, or zero when d is negative.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
