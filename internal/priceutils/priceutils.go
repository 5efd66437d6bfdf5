// Package priceutils parses locale-formatted numeric tokens from OCR'd
// receipt text into validated monetary values. It tolerates European comma
// decimals, thousands grouping and OCR-garbled currency symbols.
package priceutils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Prices on a supermarket receipt live in (0, 1000). Values at or above the
// upper bound are assumed to be OCR artifacts (lost decimal separator) and
// are corrected once by dividing by 100.
var priceUpperBound = decimal.NewFromInt(1000)

// ParsePrice parses a raw price token into a validated amount.
//
// The second return value is false when the token holds no digits or the
// (possibly corrected) value falls outside (0, 1000). Callers must treat an
// invalid price as "drop this line", not as a fatal error.
func ParsePrice(raw string) (decimal.Decimal, bool) {
	value, ok := parse(raw)
	if !ok || !value.IsPositive() {
		return decimal.Zero, false
	}
	return value.Round(2), true
}

// ParseAmount parses a raw amount token like ParsePrice but also accepts
// zero. Tax breakdown columns are legitimately "0,00" for zero-rated
// classes.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	value, ok := parse(raw)
	if !ok || value.IsNegative() {
		return decimal.Zero, false
	}
	return value.Round(2), true
}

func parse(raw string) (decimal.Decimal, bool) {
	cleaned := stripNonNumeric(raw)
	if !strings.ContainsAny(cleaned, "0123456789") {
		return decimal.Zero, false
	}

	normalized := normalizeSeparators(cleaned)
	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, false
	}

	// OCR frequently swallows the decimal separator ("3,98" -> "398" is
	// fine, but "1398" for "13,98" is not). A single divide-by-100 retry
	// compensates; the corrected value must land back in range.
	if value.GreaterThanOrEqual(priceUpperBound) {
		value = value.Div(decimal.NewFromInt(100))
	}
	if value.GreaterThanOrEqual(priceUpperBound) {
		return decimal.Zero, false
	}
	return value, true
}

// ParseQuantity parses a quantity token such as "2", "0,456" or "1.5".
// Quantities must be strictly positive.
func ParseQuantity(raw string) (decimal.Decimal, bool) {
	cleaned := stripNonNumeric(raw)
	if !strings.ContainsAny(cleaned, "0123456789") {
		return decimal.Zero, false
	}

	value, err := decimal.NewFromString(normalizeSeparators(cleaned))
	if err != nil || !value.IsPositive() {
		return decimal.Zero, false
	}
	return value, true
}

// stripNonNumeric removes everything but digits, separators and the sign.
// Currency symbols, OCR noise (stray pipes, underscores, copyright marks)
// and whitespace all disappear here.
func stripNonNumeric(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeSeparators converts a digit/separator string to dot-decimal form.
// The final trailing group of 1-2 digits after a separator is the decimal
// part; every other separator is thousands grouping and is collapsed.
func normalizeSeparators(s string) string {
	lastSep := strings.LastIndexAny(s, ".,")
	if lastSep == -1 {
		return s
	}

	trailing := s[lastSep+1:]
	decimalTail := len(trailing) >= 1 && len(trailing) <= 2 && isDigits(trailing)

	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		switch {
		case r == '.' || r == ',':
			if i == lastSep && decimalTail {
				b.WriteRune('.')
			}
			// grouping separators are dropped
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
