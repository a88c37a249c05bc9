// Package money converts between persisted numeric amounts and
// human-facing currency strings. Persisted amounts stay float64 (the
// database column type); all rounding goes through Round so every
// boundary agrees on the currency's minor units.
package money

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type currencyInfo struct {
	Symbol   string
	Decimals int
}

var currencies = map[string]currencyInfo{
	"USD": {"$", 2},
	"EUR": {"€", 2},
	"GBP": {"£", 2},
	"CHF": {"CHF ", 2},
	"JPY": {"¥", 0},
	"CAD": {"C$", 2},
	"AUD": {"A$", 2},
}

func info(currency string) currencyInfo {
	if ci, ok := currencies[strings.ToUpper(currency)]; ok {
		return ci
	}
	return currencyInfo{strings.ToUpper(currency) + " ", 2}
}

// Round rounds an amount to the currency's minor units.
func Round(amount float64, currency string) float64 {
	factor := math.Pow(10, float64(info(currency).Decimals))
	return math.Round(amount*factor) / factor
}

// Parse converts a display string like "$1,234.56" or "1234.56" into
// a numeric amount. Currency symbols, thousands separators and
// surrounding whitespace are ignored; a leading '-' or parentheses
// mark a negative amount.
func Parse(display string) (float64, error) {
	s := strings.TrimSpace(display)
	if s == "" {
		return 0, fmt.Errorf("money: empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9' || r == '.':
			b.WriteRune(r)
		case r == '-':
			negative = true
		case r == ',' || r == ' ':
			// thousands separator
		case r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z':
			// currency code letters
		default:
			// currency symbols ($, €, £, ¥ ...)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return 0, fmt.Errorf("money: no numeric value in %q", display)
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("money: invalid amount %q", display)
	}
	if negative {
		amount = -amount
	}
	return amount, nil
}

// Format renders an amount as a display string for the given currency
// code, with symbol and thousands grouping.
func Format(amount float64, currency string) string {
	ci := info(currency)
	rounded := Round(amount, currency)

	negative := rounded < 0
	if negative {
		rounded = -rounded
	}

	s := strconv.FormatFloat(rounded, 'f', ci.Decimals, 64)
	intPart := s
	fracPart := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, fracPart = s[:i], s[i:]
	}

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	out := ci.Symbol + b.String() + fracPart
	if negative {
		out = "-" + out
	}
	return out
}
