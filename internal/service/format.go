package service

import (
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// FormatPrice renders a price with exactly two decimal places, rounding the
// exact binary value half up. 1.005 is stored just below 1.005, so it
// prints "1.00".
func FormatPrice(price float64) string {
	return decimal.NewFromFloatWithExponent(price, -2).StringFixed(2)
}

// CategoryLabel upper-cases the first letter of a category for display.
func CategoryLabel(category string) string {
	r, size := utf8.DecodeRuneInString(category)
	if r == utf8.RuneError {
		return category
	}
	return string(unicode.ToUpper(r)) + category[size:]
}
