package services

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RoundMoney rounds amount half away from zero to 2 decimal places.
func RoundMoney(amount float64) float64 {
	return decimal.NewFromFloat(amount).Round(2).InexactFloat64()
}

// FormatMoney formats amount with the currency's symbol. INR uses Indian digit
// grouping (₹1,23,456.78); every other currency uses groups of three.
func FormatMoney(currency Currency, amount float64) string {
	if currency == CurrencyINR {
		return FormatINR(amount)
	}

	symbol := string(currency) + " "
	if opt, ok := LookupCurrency(currency); ok {
		symbol = opt.Symbol
	}

	negative := amount < 0
	if negative {
		amount = -amount
	}

	intPart, decPart := splitFixed2(amount)
	result := symbol + applyThousandsGrouping(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// FormatINR formats a float64 amount into Indian Rupee notation.
// It uses the Indian numbering system where, after the rightmost 3 digits,
// digits are grouped in pairs (e.g., ₹1,23,45,678.90).
// The result always includes exactly 2 decimal places.
func FormatINR(amount float64) string {
	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	intPart, decPart := splitFixed2(amount)

	result := "₹" + applyIndianGrouping(intPart) + "." + decPart
	if negative {
		result = "-" + result
	}
	return result
}

// splitFixed2 renders a non-negative amount with 2 decimals and returns the
// integer and decimal digits.
func splitFixed2(amount float64) (string, string) {
	raw := decimal.NewFromFloat(amount).StringFixed(2)
	parts := strings.SplitN(raw, ".", 2)
	return parts[0], parts[1]
}

// applyIndianGrouping inserts commas into an integer string using the
// Indian numbering system: the rightmost 3 digits form the first group,
// then every 2 digits form subsequent groups.
func applyIndianGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	result := s[n-3:]
	remaining := s[:n-3]

	for len(remaining) > 2 {
		result = remaining[len(remaining)-2:] + "," + result
		remaining = remaining[:len(remaining)-2]
	}
	if len(remaining) > 0 {
		result = remaining + "," + result
	}

	return result
}

// applyThousandsGrouping inserts a comma every 3 digits from the right.
func applyThousandsGrouping(s string) string {
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// formatPercent renders a margin like "10%" or "12.5%".
func formatPercent(p float64) string {
	return decimalString(p, 2) + "%"
}

// decimalString renders v rounded to places without trailing zeros.
func decimalString(v float64, places int32) string {
	return decimal.NewFromFloat(v).Round(places).String()
}
