package services

import (
	"math"
	"strings"
)

// RupeesInWords converts an INR amount to Indian English words, including
// paise when present.
// Example: 913183.50 → "Nine Lakhs Thirteen Thousand One Hundred and Eighty
// Three Rupees and Fifty Paise Only/-"
func RupeesInWords(amount float64) string {
	if amount < 0 {
		return "Negative " + RupeesInWords(-amount)
	}

	totalPaise := int64(math.Round(amount * 100))
	rupees := totalPaise / 100
	paise := totalPaise % 100

	if rupees == 0 && paise == 0 {
		return "Zero Rupees Only/-"
	}

	var b strings.Builder
	if rupees > 0 {
		b.WriteString(convertToIndianWords(rupees))
		b.WriteString(" Rupees")
	}
	if paise > 0 {
		if rupees > 0 {
			b.WriteString(" and ")
		}
		b.WriteString(convertUnder100(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only/-")
	return b.String()
}

func convertToIndianWords(n int64) string {
	if n == 0 {
		return ""
	}

	var parts []string

	// Crores above 99 are spelled recursively ("One Hundred Crores").
	if n >= 10000000 {
		parts = append(parts, convertToIndianWords(n/10000000)+" Crores")
		n %= 10000000
	}
	if n >= 100000 {
		parts = append(parts, convertUnder100(n/100000)+" Lakhs")
		n %= 100000
	}
	if n >= 1000 {
		parts = append(parts, convertUnder100(n/1000)+" Thousand")
		n %= 1000
	}
	if n >= 100 {
		parts = append(parts, ones[n/100]+" Hundred")
		n %= 100
	}

	if n > 0 {
		if len(parts) > 0 {
			parts = append(parts, "and "+convertUnder100(n))
		} else {
			parts = append(parts, convertUnder100(n))
		}
	}

	return strings.Join(parts, " ")
}

func convertUnder100(n int64) string {
	if n < 20 {
		return ones[n]
	}
	result := tens[n/10]
	if n%10 != 0 {
		result += " " + ones[n%10]
	}
	return result
}

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}
