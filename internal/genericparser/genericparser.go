// Package genericparser is the fallback for receipts no vendor signature
// matched. It applies the common item grammar to every line before the first
// recognizable summary marker and reports the store as unknown, which signals
// the caller to request manual store-name entry.
package genericparser

import (
	"github.com/shopspring/decimal"

	"jweber/bonscan/internal/common"
	"jweber/bonscan/internal/logging"
	"jweber/bonscan/internal/models"
	"jweber/bonscan/internal/parsererror"
	"jweber/bonscan/internal/reconcile"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

const vendorName = "generic"

// summaryMarkers covers the summary keywords of the known chains plus the
// usual generic variants.
var summaryMarkers = []string{"SUMME", "zu zahlen", "TOTAL", "GESAMT"}

// Detect always matches; the generic parser is the end of the fallback
// chain.
func Detect(string) bool {
	return true
}

// Parse extracts whatever the common grammar can recover from unrecognized
// receipt text. The store name is the StoreUnknown sentinel; callers must
// prompt for manual entry rather than persist it.
func Parse(ocrText string) (*models.ParsedReceipt, error) {
	lines := common.SplitLines(ocrText)

	receipt := &models.ParsedReceipt{
		StoreName:  models.StoreUnknown,
		TaxDetails: make(map[string]models.TaxDetail),
	}

	var declared *decimal.Decimal
	inSummary := false

	for _, line := range lines {
		if !inSummary {
			if total, ok := common.ExtractTotal(line, summaryMarkers); ok {
				declared = &total
				inSummary = true
				continue
			}

			if common.IsNoiseLine(line) {
				continue
			}

			if len(receipt.Items) > 0 {
				last := &receipt.Items[len(receipt.Items)-1]
				if common.ApplyQuantityLine(line, last) {
					continue
				}
				if common.ApplyWeightLine(line, last) {
					continue
				}
			}

			if item, ok := common.ParseItemLine(line); ok {
				receipt.Items = append(receipt.Items, item)
			}
			continue
		}

		if detail, ok := common.ParseTaxLine(line); ok {
			receipt.TaxDetails[detail.Rate] = detail
		}
	}

	// Without a vendor layout there is no reliable summary block; take
	// the first date found anywhere.
	receipt.PurchaseDate = common.ExtractDate(lines)

	if len(receipt.Items) == 0 {
		return nil, &parsererror.ValidationError{
			Vendor: vendorName,
			Reason: "no item lines matched the receipt grammar",
		}
	}

	if err := reconcile.Apply(receipt, declared); err != nil {
		return nil, err
	}

	log.Debug("Parsed receipt",
		logging.Field{Key: "vendor", Value: vendorName},
		logging.Field{Key: "items", Value: len(receipt.Items)},
		logging.Field{Key: "total", Value: receipt.TotalAmount.StringFixed(2)})
	return receipt, nil
}

// Adapter implements the parser.ReceiptParser interface.
type Adapter struct{}

// NewAdapter creates a new generic parser adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Parse implements parser.ReceiptParser.
func (a *Adapter) Parse(ocrText string) (*models.ParsedReceipt, error) {
	return Parse(ocrText)
}
