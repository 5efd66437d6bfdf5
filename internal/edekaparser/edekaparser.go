// Package edekaparser parses OCR text from EDEKA receipts. EDEKA prints the
// address block between the store-name line and a "Tel." line, item lines as
// "<name> <price> <taxclass>" with piece-count details ("3 x 0,99") on the
// following line, and a "Summe" line opening the summary block.
package edekaparser

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

const vendorName = "EDEKA"

var summaryMarkers = []string{"Summe"}

// Detect reports whether the OCR text carries the EDEKA signature.
func Detect(ocrText string) bool {
	return common.ContainsFold(ocrText, "edeka")
}

// Parse converts EDEKA receipt OCR text into a structured receipt.
func Parse(ocrText string) (*models.ParsedReceipt, error) {
	lines := common.SplitLines(ocrText)

	receipt := &models.ParsedReceipt{
		StoreName:  vendorName,
		TaxDetails: make(map[string]models.TaxDetail),
	}

	var declared *decimal.Decimal
	inSummary := false
	inAddress := true
	var summaryLines []string

	for i, line := range lines {
		if !inSummary {
			// Everything between the store-name line and the "Tel."
			// line is the address block.
			if inAddress {
				if i == 0 {
					continue
				}
				if common.ContainsFold(line, "tel") {
					inAddress = false
					continue
				}
				if looksLikeItem(line) {
					// No Tel. marker on this receipt; fall
					// through to item scanning.
					inAddress = false
				} else {
					if receipt.StoreAddress != "" {
						receipt.StoreAddress += ", "
					}
					receipt.StoreAddress += line
					continue
				}
			}

			if total, ok := common.ExtractTotal(line, summaryMarkers); ok {
				declared = &total
				inSummary = true
				continue
			}
			if common.ContainsFold(line, "summe") {
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

// NewAdapter creates a new EDEKA parser adapter.
func NewAdapter() *Adapter {
	return &Adapter{}
}

// Parse implements parser.ReceiptParser.
func (a *Adapter) Parse(ocrText string) (*models.ParsedReceipt, error) {
	return Parse(ocrText)
}
