// Package money formats monetary amounts for display.
package money

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/wellwise/internal/refdata"
)

// Format renders amount in whole units of currency with digit grouping,
// e.g. "$2,625,000" or "-£1,234". Halves round away from zero.
func Format(tables *refdata.Tables, amount float64, currency string) string {
	return FormatSymbol(amount, tables.Symbol(currency))
}

// FormatSymbol is Format with an explicit currency symbol.
func FormatSymbol(amount float64, symbol string) string {
	whole := Round(amount, 0)
	if whole.IsNegative() {
		return "-" + symbol + humanize.Comma(whole.Neg().IntPart())
	}
	return symbol + humanize.Comma(whole.IntPart())
}

// Grouped renders v as a grouped whole number ("25,000").
func Grouped(v float64) string {
	return humanize.Comma(Round(v, 0).IntPart())
}

// Round rounds v to places decimal places, halves away from zero.
func Round(v float64, places int32) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(places)
}

// Fixed renders v with exactly places decimals ("12.35").
func Fixed(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}
