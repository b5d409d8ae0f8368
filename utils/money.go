package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyPrefix is printed before every amount shown to shoppers
const CurrencyPrefix = "R$ "

// FormatAmount formats a decimal amount with exactly two decimals and a dot
// as decimal separator, e.g. 240 -> "240.00". The order message relies on
// this exact shape.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// FormatBRL formats an amount as "R$ 240.00"
func FormatBRL(amount decimal.Decimal) string {
	return CurrencyPrefix + FormatAmount(amount)
}

// ParseAmount parses a free-text money cell as typed into a spreadsheet.
// Accepts "12.5", "12,50", "R$ 1.234,56" and "1,234.56".
// Returns false when the text is not a number.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	if s == "" {
		return decimal.Zero, false
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0:
		// Whichever separator comes last is the decimal one
		if lastComma > lastDot {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(s, ",") > 1 {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case strings.Count(s, ".") > 1:
		// "1.234.567" is a thousands-grouped integer
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
