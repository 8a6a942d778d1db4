// Package currency formats monetary amounts the way the CRM screens display
// them: currency symbol, comma thousands separator, period decimal separator,
// always two decimals. The format is fixed, not locale-driven.
package currency

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Code is an ISO-like currency code.
type Code string

const (
	USD Code = "USD"
	DOP Code = "DOP"
	EUR Code = "EUR"
	MXN Code = "MXN"
)

// symbols maps codes to display symbols. MXN intentionally shares "$"
// with USD, matching what the screens have always shown.
var symbols = map[Code]string{
	USD: "$",
	DOP: "RD$",
	EUR: "€",
	MXN: "$",
}

// Symbol returns the display symbol for a code, falling back to "$" for
// unknown codes.
func Symbol(code Code) string {
	if s, ok := symbols[code]; ok {
		return s
	}

	return "$"
}

// Format renders an amount with its currency symbol, e.g.
// Format(decimal 1234.5, DOP) == "RD$ 1,234.50".
func Format(amount decimal.Decimal, code Code) string {
	return Symbol(code) + " " + FormatAmount(amount)
}

// FormatAmount renders an amount without a symbol: two decimals, comma
// thousands grouping.
func FormatAmount(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)

	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	intPart, decPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}

	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}

		b.WriteRune(digit)
	}

	b.WriteByte('.')
	b.WriteString(decPart)

	return b.String()
}

// ParseAmount reads a formatted amount back into a decimal, tolerating a
// leading symbol and thousands separators. Round-trips Format output to
// two-decimal precision.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)

	for _, sym := range symbols {
		clean = strings.TrimPrefix(clean, sym)
	}

	clean = strings.TrimSpace(clean)
	clean = strings.ReplaceAll(clean, ",", "")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}

	return d.Round(2), nil
}
