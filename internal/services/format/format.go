// Package format is the single place numbers become display strings, so
// the dashboard and the calculators render amounts identically.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency renders a USD amount with grouped thousands and two decimals,
// e.g. 1234.5 becomes "$1,234.50".
func Currency(amount decimal.Decimal) string {
	rounded := amount.Round(2)
	intPart, fracPart, _ := strings.Cut(rounded.Abs().StringFixed(2), ".")

	var b strings.Builder
	if rounded.IsNegative() {
		b.WriteByte('-')
	}
	b.WriteByte('$')
	b.WriteString(groupThousands(intPart))
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// BTC renders a bitcoin amount with the currency symbol and full 8-digit
// satoshi precision, e.g. 0.00000001 becomes "₿0.00000001".
func BTC(amount decimal.Decimal) string {
	return "₿" + amount.StringFixed(8)
}

// Percentage renders a signed percent with two decimals. Non-negative
// values carry an explicit plus, so zero reads "+0.00%".
func Percentage(value decimal.Decimal) string {
	rounded := value.Round(2)
	if rounded.IsNegative() {
		return rounded.StringFixed(2) + "%"
	}
	return "+" + rounded.StringFixed(2) + "%"
}
