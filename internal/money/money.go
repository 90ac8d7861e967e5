package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
)

const (
	// Scale is the number of fractional digits stored for every amount.
	Scale = 2
	// MaxIntegerDigits matches the numeric(14, 2) amount and balance columns.
	MaxIntegerDigits = 12
)

var amountLimit = decimal.New(1, MaxIntegerDigits)

// ParseAmount parses a strictly positive amount with at most two decimal
// places and at most MaxIntegerDigits digits before the point.
func ParseAmount(input string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !amount.IsPositive() || amount.GreaterThanOrEqual(amountLimit) {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.Exponent() < -Scale && !amount.Equal(amount.Truncate(Scale)) {
		return decimal.Zero, ErrTooManyDecimals
	}
	return amount.Truncate(Scale), nil
}

// Format renders a value with exactly two decimals.
func Format(value decimal.Decimal) string {
	return value.StringFixed(Scale)
}

// FormatSigned renders value with an explicit leading sign, e.g. "+5000.00".
func FormatSigned(value decimal.Decimal) string {
	if value.IsNegative() {
		return "-" + Format(value.Abs())
	}
	return "+" + Format(value)
}

var symbols = map[string]string{
	"INR": "₹",
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
}

// Symbol returns the display symbol for an ISO currency code, or the code
// followed by a space when no symbol is known.
func Symbol(currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))
	if symbol, ok := symbols[code]; ok {
		return symbol
	}
	if code == "" {
		return ""
	}
	return code + " "
}

// Display formats an amount with its currency symbol; negative values put the
// sign before the symbol.
func Display(currency string, value decimal.Decimal) string {
	if value.IsNegative() {
		return "-" + Symbol(currency) + Format(value.Abs())
	}
	return Symbol(currency) + Format(value)
}
