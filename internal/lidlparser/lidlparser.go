// Package lidlparser parses OCR text from Lidl receipts. Lidl closes the
// item block with a "zu zahlen" line instead of "SUMME", prints piece-count
// details as "3 x 0,99" below the item, and uses numeric tax markers
// ("1" = 19%, "2" = 7%) which are normalized to the A/B rate classes.
package lidlparser

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

const vendorName = "Lidl"

var summaryMarkers = []string{"zu zahlen", "zu bezahlen"}

// Detect reports whether the OCR text carries the Lidl signature.
func Detect(ocrText string) bool {
	return common.ContainsFold(ocrText, "lidl")
}

// Parse converts Lidl receipt OCR text into a structured receipt.
func Parse(ocrText string) (*models.ParsedReceipt, error) {
	lines := common.SplitLines(ocrText)

	receipt := &models.ParsedReceipt{
		StoreName:  vendorName,
		TaxDetails: make(map[string]models.TaxDetail),
	}

	var declared *decimal.Decimal
	inSummary := false
	var summaryLines []string

	for i, line := range lines {
		if !inSummary {
			if total, ok := common.ExtractTotal(line, summaryMarkers); ok {
				declared = &total
				inSummary = true
				continue
			}
			if common.ContainsFold(line, "zu zahlen") {
				inSummary = true
				continue
			}

			// Lidl prints street and city on the two lines below
			// the chain name.
			if i > 0 && i <= 2 && !looksLikeItem(line) {
				if receipt.StoreAddress != "" {
					receipt.StoreAddress += ", "
				}
				receipt.StoreAddress += line
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
			} else {
				log.Debug("Skipping unparseable line",
					logging.Field{Key: "vendor", Value: vendorName},
					logging.Field{Key: "line", Value: line})
			}
			continue
		}

		summaryLines = append(summaryLines, line)
		if detail, ok := common.ParseTaxLine(line); ok {
			receipt.TaxDetails[detail.Rate] = detail
		}
	}

	receipt.PurchaseDate = common.ExtractDate(summaryLines)

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

func looksLikeItem(line string) bool {
	_, ok := common.ParseItemLine(line)
	return ok
}

// Adapter implements the parser.ReceiptParser interface.
type Adapter struct{}

// NewAdapter creates a new Lidl parser adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Parse implements parser.ReceiptParser.
func (a *Adapter) Parse(ocrText string) (*models.ParsedReceipt, error) {
	return Parse(ocrText)
}
