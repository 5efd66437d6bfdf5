// Package aiextract delegates receipt extraction and keyword classification
// to a chain of external text-completion providers, tried in a fixed priority
// order with per-provider error recording. It is the supplementary extraction
// path used when deterministic parsing under-extracts.
package aiextract

import (
	"context"

	"github.com/shopspring/decimal"

	"jweber/bonscan/internal/models"
)

// Provider is one external text-completion back-end in the fallback chain.
type Provider interface {
	// Name identifies the provider in logs and aggregated errors.
	Name() string

	// Complete sends the system and user prompts to the provider and
	// returns the raw completion text.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ExtractedItem is one line item recovered by a provider, validated to have
// a non-empty name and a price in (0, 1000).
type ExtractedItem struct {
	Name     string
	Category models.Category
	Price    decimal.Decimal
}

// Result is the outcome of a successful chain run. ProviderErrors holds the
// failures of providers tried before the winning one.
type Result struct {
	Provider       string
	Items          []ExtractedItem
	ProviderErrors map[string]error
}

// ToReceiptItems converts the extracted items to receipt items.
func (r *Result) ToReceiptItems() []models.ReceiptItem {
	items := make([]models.ReceiptItem, 0, len(r.Items))
	for _, e := range r.Items {
		items = append(items, models.ReceiptItem{
			Name:       e.Name,
			Category:   e.Category,
			UnitPrice:  e.Price,
			TotalPrice: e.Price,
			Quantity:   decimal.NewFromInt(1),
		})
	}
	return items
}
