// Package common provides shared helpers for the vendor receipt parsers:
// line preparation, the item/tax/total line grammars the German receipt
// formats have in common, and CSV export of categorized items.
package common

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"jweber/bonscan/internal/models"
	"jweber/bonscan/internal/priceutils"
)

var (
	// Item line: "<name> <price> <tax class letter>". The tax letter is
	// optional because OCR regularly drops it.
	itemLinePattern = regexp.MustCompile(`^(.+?)\s+(-?\d+[.,]\d{2})\s*([AB12])?\s*$`)

	// Weight line: "0,456 kg x 2,99 EUR/kg" (detail line following the
	// item it refines). "1,99 EUR/kg" unit markers vary per chain.
	weightLinePattern = regexp.MustCompile(`(?i)^\s*(\d+[.,]?\d*)\s*kg\s*[x*]\s*(\d+[.,]\d{2})\s*(?:EUR\s*/\s*kg)?`)

	// Quantity line: "3 x 0,99" or "3 Stk x 0,99".
	quantityLinePattern = regexp.MustCompile(`(?i)^\s*(\d+)\s*(?:stk\.?|stück)?\s*[x*]\s*(\d+[.,]\d{2})\s*$`)

	// Tax breakdown line: "A= 19,0% 10,50 2,00 12,50" (rate marker, then
	// net/tax/gross triple). The leading class letter is optional; some
	// chains print only the rate.
	taxLinePattern = regexp.MustCompile(`(?i)^\s*([AB])?\s*=?\s*(\d{1,2}[.,]\d)\s*%\s+(-?\d+[.,]\d{2})\s+(-?\d+[.,]\d{2})\s+(-?\d+[.,]\d{2})\s*$`)

	// Purchase date: "14.03.2024" or "14.03.24", anywhere in a line.
	datePattern = regexp.MustCompile(`\b(\d{2})\.(\d{2})\.(\d{2,4})\b`)

	// Characters OCR injects that never belong on a receipt line.
	ocrNoisePattern = regexp.MustCompile(`[|_©®™]+`)
)

// SplitLines cleans OCR noise and returns the non-empty trimmed lines.
func SplitLines(ocrText string) []string {
	raw := strings.Split(ocrText, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = ocrNoisePattern.ReplaceAllString(line, " ")
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// ContainsFold reports whether text contains substr, case-insensitively.
func ContainsFold(text, substr string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(substr))
}

// ParseItemLine parses "<name> <price> [taxclass]" into a ReceiptItem.
// Lines whose price fails validation are rejected; the caller drops them and
// continues, per the normalization-skip policy.
func ParseItemLine(line string) (models.ReceiptItem, bool) {
	matches := itemLinePattern.FindStringSubmatch(line)
	if matches == nil {
		return models.ReceiptItem{}, false
	}

	name := strings.TrimSpace(matches[1])
	if name == "" || isNumericName(name) {
		return models.ReceiptItem{}, false
	}

	price, ok := priceutils.ParsePrice(matches[2])
	if !ok {
		return models.ReceiptItem{}, false
	}

	item := models.ReceiptItem{
		Name:       name,
		UnitPrice:  price,
		TotalPrice: price,
		Quantity:   decimal.NewFromInt(1),
		TaxRate:    normalizeTaxClass(matches[3]),
	}
	return item, true
}

// ApplyWeightLine checks whether line is a weight detail ("0,456 kg x 2,99
// EUR/kg") and, if so, applies quantity and per-unit price to item.
func ApplyWeightLine(line string, item *models.ReceiptItem) bool {
	matches := weightLinePattern.FindStringSubmatch(line)
	if matches == nil {
		return false
	}

	quantity, okQty := priceutils.ParseQuantity(matches[1])
	perUnit, okUnit := priceutils.ParsePrice(matches[2])
	if !okQty || !okUnit {
		return false
	}

	item.Quantity = quantity
	item.PricePerUnit = &perUnit
	item.UnitPrice = perUnit
	return true
}

// ApplyQuantityLine checks whether line is a piece-count detail ("3 x 0,99")
// and, if so, applies quantity and unit price to item.
func ApplyQuantityLine(line string, item *models.ReceiptItem) bool {
	matches := quantityLinePattern.FindStringSubmatch(line)
	if matches == nil {
		return false
	}

	quantity, okQty := priceutils.ParseQuantity(matches[1])
	unitPrice, okUnit := priceutils.ParsePrice(matches[2])
	if !okQty || !okUnit {
		return false
	}

	item.Quantity = quantity
	item.UnitPrice = unitPrice
	return true
}

// ParseTaxLine parses a tax breakdown line into its rate-class detail.
func ParseTaxLine(line string) (models.TaxDetail, bool) {
	matches := taxLinePattern.FindStringSubmatch(line)
	if matches == nil {
		return models.TaxDetail{}, false
	}

	// Amounts, not prices: a zero-rated class prints "0,00" in the tax
	// column and must still be kept.
	net, okNet := priceutils.ParseAmount(matches[3])
	tax, okTax := priceutils.ParseAmount(matches[4])
	gross, okGross := priceutils.ParseAmount(matches[5])
	if !okNet || !okTax || !okGross {
		return models.TaxDetail{}, false
	}

	rate := matches[1]
	if rate == "" {
		// No class letter printed; fall back to the decimal rate string.
		rate = strings.ReplaceAll(matches[2], ",", ".")
	}

	return models.TaxDetail{
		Rate:  strings.ToUpper(rate),
		Net:   net,
		Tax:   tax,
		Gross: gross,
	}, true
}

// ExtractTotal looks for a summary total on a line that carries one of the
// given marker keywords, e.g. "SUMME EUR 23,45".
func ExtractTotal(line string, markers []string) (decimal.Decimal, bool) {
	marked := false
	for _, marker := range markers {
		if ContainsFold(line, marker) {
			marked = true
			break
		}
	}
	if !marked {
		return decimal.Zero, false
	}

	// The total is the last price-shaped token on the line.
	priceTokens := regexp.MustCompile(`-?\d+[.,]\d{2}`).FindAllString(line, -1)
	if len(priceTokens) == 0 {
		return decimal.Zero, false
	}
	return priceutils.ParsePrice(priceTokens[len(priceTokens)-1])
}

// ExtractDate finds the first date token in the given lines and returns it
// normalized to DD.MM.YYYY.
func ExtractDate(lines []string) string {
	for _, line := range lines {
		matches := datePattern.FindStringSubmatch(line)
		if matches == nil {
			continue
		}
		year := matches[3]
		if len(year) == 2 {
			year = "20" + year
		}
		return matches[1] + "." + matches[2] + "." + year
	}
	return ""
}

// noiseLinePattern matches payment, footer and header lines that must never
// be read as items even though they can carry price-shaped tokens.
var noiseLinePattern = regexp.MustCompile(`(?i)^\s*(EC[- ]?(Karte|Cash)|Girocard|Kartenzahlung|Bar(geld)?|R(ü|ue)ckgeld|Betrag|Datum|Uhrzeit|Beleg|Bon[- ]?Nr|Kasse|Terminal|TA[- ]?Nr|Trace|Genehmigung|Steuer[- ]?Nr|UST[- ]?ID|MwSt|Vielen Dank|Danke|Öffnungszeiten|www\.|Tel\.?)`)

// IsNoiseLine reports whether a line is payment/footer/header noise that
// should be skipped in item-scanning mode.
func IsNoiseLine(line string) bool {
	return noiseLinePattern.MatchString(line)
}

// normalizeTaxClass maps printed tax markers to the canonical class letters.
// Some chains print "1"/"2" instead of "A"/"B".
func normalizeTaxClass(marker string) string {
	switch strings.ToUpper(strings.TrimSpace(marker)) {
	case "A", "1":
		return models.TaxClassA
	case "B", "2":
		return models.TaxClassB
	default:
		return ""
	}
}

// isNumericName guards against detail lines ("2,96 kg") being read as item
// names.
func isNumericName(name string) bool {
	return !strings.ContainsFunc(name, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 127
	})
}
