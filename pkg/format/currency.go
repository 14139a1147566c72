// Package format renders money, weights and dates the way they appear on
// printed invoices. Every function is pure and safe for concurrent use.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

const rupee = "₹"

// FormatCurrency renders an amount in whole rupees with Indian digit grouping.
// Example: 1234567 -> "₹12,34,567"
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	return sign + rupee + groupIndian(amount.Round(0).StringFixed(0))
}

// FormatNumber renders d with a fixed number of decimals and Indian grouping
// of the integer part.
// Example: FormatNumber(123456.789, 2) -> "1,23,456.79"
func FormatNumber(d decimal.Decimal, places int32) string {
	if places < 0 {
		places = 0
	}
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	intPart, decPart, _ := strings.Cut(d.StringFixed(places), ".")
	out := sign + groupIndian(intPart)
	if decPart != "" {
		out += "." + decPart
	}
	return out
}

// FormatWeight renders a carat weight.
// Example: 2.5 -> "2.50 ct"
func FormatWeight(d decimal.Decimal) string {
	return FormatNumber(d, 2) + " ct"
}

// groupIndian inserts separators into a string of digits: the last three
// digits form one group, the rest are grouped in pairs.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head := digits[:len(digits)-3]
	tail := digits[len(digits)-3:]

	var b strings.Builder
	for i, c := range head {
		if i > 0 && (len(head)-i)%2 == 0 {
			b.WriteRune(',')
		}
		b.WriteRune(c)
	}
	b.WriteRune(',')
	b.WriteString(tail)
	return b.String()
}
