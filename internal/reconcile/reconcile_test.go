package reconcile_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jweber/bonscan/internal/models"
	"jweber/bonscan/internal/parsererror"
	"jweber/bonscan/internal/reconcile"
)

func items(prices ...string) []models.ReceiptItem {
	out := make([]models.ReceiptItem, 0, len(prices))
	for _, p := range prices {
		out = append(out, models.ReceiptItem{
			Name:       "Artikel",
			TotalPrice: decimal.RequireFromString(p),
		})
	}
	return out
}

func TestReconcile_DeclaredTotal(t *testing.T) {
	tests := []struct {
		name        string
		declared    string
		prices      []string
		discrepancy bool
	}{
		{"exact match", "5.48", []string{"1.99", "2.50", "0.99"}, false},
		{"within tolerance above", "5.49", []string{"1.99", "2.50", "0.99"}, false},
		{"within tolerance below", "5.47", []string{"1.99", "2.50", "0.99"}, false},
		{"beyond tolerance", "6.00", []string{"1.99", "2.50", "0.99"}, true},
		{"beyond tolerance below", "5.00", []string{"1.99", "2.50", "0.99"}, true},
		{"declared with zero items", "12.50", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			declared := decimal.RequireFromString(tt.declared)
			result, err := reconcile.Reconcile(&declared, items(tt.prices...))
			require.NoError(t, err)

			assert.True(t, result.Total.Equal(declared), "total must keep the declared value")
			assert.Equal(t, models.TotalExplicit, result.Source)
			assert.Equal(t, tt.discrepancy, result.Discrepancy)
		})
	}
}

func TestReconcile_CalculatedFallback(t *testing.T) {
	result, err := reconcile.Reconcile(nil, items("1.99", "2.50", "0.99"))
	require.NoError(t, err)

	assert.Equal(t, "5.48", result.Total.StringFixed(2))
	assert.Equal(t, models.TotalCalculated, result.Source)
	assert.False(t, result.Discrepancy)
}

func TestReconcile_NoItemsNoTotal(t *testing.T) {
	_, err := reconcile.Reconcile(nil, nil)
	require.Error(t, err)

	var validationErr *parsererror.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestApply_UpdatesReceiptInPlace(t *testing.T) {
	receipt := &models.ParsedReceipt{Items: items("1.99", "2.50")}
	declared := decimal.RequireFromString("9.99")

	require.NoError(t, reconcile.Apply(receipt, &declared))

	assert.Equal(t, "9.99", receipt.TotalAmount.StringFixed(2))
	assert.Equal(t, models.TotalExplicit, receipt.TotalSource)
	assert.True(t, receipt.DiscrepancyDetected)
}

func TestApply_RecomputeAfterAppendClearsFlag(t *testing.T) {
	receipt := &models.ParsedReceipt{Items: items("1.99", "2.50")}
	declared := decimal.RequireFromString("9.99")
	require.NoError(t, reconcile.Apply(receipt, &declared))
	require.True(t, receipt.DiscrepancyDetected)

	receipt.Items = append(receipt.Items, items("5.50")...)
	require.NoError(t, reconcile.Apply(receipt, &declared))

	assert.False(t, receipt.DiscrepancyDetected)
	assert.Equal(t, "9.99", receipt.TotalAmount.StringFixed(2))
}
