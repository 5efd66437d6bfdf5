// Package reconcile cross-checks a receipt's declared total against the sum
// of its extracted item prices and flags discrepancies beyond tolerance.
package reconcile

import (
	"github.com/shopspring/decimal"

	"jweber/bonscan/internal/models"
	"jweber/bonscan/internal/parsererror"
)

// Tolerance is the absolute difference, in currency units, above which a
// declared total and the item sum are considered discrepant.
var Tolerance = decimal.RequireFromString("0.01")

// Result is the outcome of reconciling one receipt.
type Result struct {
	Total       decimal.Decimal
	Source      models.TotalSource
	Discrepancy bool
}

// Reconcile compares the parser's declared total (nil when no summary total
// could be read) with the sum of item prices.
//
// With a declared total, the result keeps it and flags a discrepancy when
// |declared - sum| > Tolerance. Without one, the item sum becomes the total,
// tagged as calculated. Zero items and no declared total is a hard
// validation failure, not a zero-value receipt.
func Reconcile(declared *decimal.Decimal, items []models.ReceiptItem) (Result, error) {
	sum := decimal.Zero
	for _, item := range items {
		sum = sum.Add(item.TotalPrice)
	}

	if declared == nil {
		if len(items) == 0 {
			return Result{}, &parsererror.ValidationError{
				Vendor: "reconcile",
				Reason: "no items and no parsed total",
			}
		}
		return Result{
			Total:       sum,
			Source:      models.TotalCalculated,
			Discrepancy: false,
		}, nil
	}

	diff := declared.Sub(sum).Abs()
	return Result{
		Total:       *declared,
		Source:      models.TotalExplicit,
		Discrepancy: diff.GreaterThan(Tolerance),
	}, nil
}

// Apply reconciles a receipt in place, updating its total, source tag and
// discrepancy flag. Used both after initial parsing and after AI-extracted
// items have been appended.
func Apply(receipt *models.ParsedReceipt, declared *decimal.Decimal) error {
	result, err := Reconcile(declared, receipt.Items)
	if err != nil {
		return err
	}
	receipt.TotalAmount = result.Total
	receipt.TotalSource = result.Source
	receipt.DiscrepancyDetected = result.Discrepancy
	return nil
}
