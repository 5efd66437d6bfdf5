// Package models defines the structured receipt data shared by the vendor
// parsers, the reconciliation step, the category resolution engine and the
// persistence layer.
package models

import (
	"github.com/shopspring/decimal"
)

// StoreUnknown is the sentinel store name a parser returns when it cannot
// identify the vendor. Callers are expected to prompt for manual entry
// instead of persisting the sentinel.
const StoreUnknown = "Unbekannt"

// TotalSource records how a receipt's total was obtained.
type TotalSource string

const (
	// TotalExplicit means the total was read from a summary line.
	TotalExplicit TotalSource = "explicit"
	// TotalCalculated means no summary total was found and the item sum
	// was used instead.
	TotalCalculated TotalSource = "calculated"
)

// Tax rate classes as printed on German receipts.
const (
	TaxClassA = "A" // 19%
	TaxClassB = "B" // 7%
)

// ReceiptItem is a single purchased line item as extracted from OCR text.
// TotalPrice is always positive; lines that fail price validation are dropped
// during parsing rather than kept as zero-priced items.
type ReceiptItem struct {
	Name         string           `json:"name" csv:"name"`
	Category     Category         `json:"category" csv:"category"`
	UnitPrice    decimal.Decimal  `json:"unitPrice" csv:"unit_price"`
	TotalPrice   decimal.Decimal  `json:"totalPrice" csv:"total_price"`
	Quantity     decimal.Decimal  `json:"quantity,omitempty" csv:"quantity"`
	PricePerUnit *decimal.Decimal `json:"pricePerUnit,omitempty" csv:"-"`
	// TaxRate is a rate class letter ("A", "B") or a decimal percentage
	// string when the vendor prints rates directly.
	TaxRate string `json:"taxRate,omitempty" csv:"tax_rate"`
}

// TaxDetail is the net/tax/gross triple reported for one rate class.
type TaxDetail struct {
	Rate  string          `json:"rate"`
	Net   decimal.Decimal `json:"net"`
	Tax   decimal.Decimal `json:"tax"`
	Gross decimal.Decimal `json:"gross"`
}

// ParsedReceipt is the structured result of one vendor parser invocation.
// It is immutable once returned by a parser; the pipeline may append
// AI-extracted items and must then recompute DiscrepancyDetected.
type ParsedReceipt struct {
	ID                  string               `json:"id,omitempty"`
	StoreName           string               `json:"storeName"`
	StoreAddress        string               `json:"storeAddress,omitempty"`
	PurchaseDate        string               `json:"purchaseDate,omitempty"`
	Items               []ReceiptItem        `json:"items"`
	TotalAmount         decimal.Decimal      `json:"totalAmount"`
	TotalSource         TotalSource          `json:"totalSource,omitempty"`
	TaxDetails          map[string]TaxDetail `json:"taxDetails,omitempty"`
	DiscrepancyDetected bool                 `json:"discrepancyDetected"`
}

// ItemSum returns the sum of all item total prices.
func (r *ParsedReceipt) ItemSum() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range r.Items {
		sum = sum.Add(item.TotalPrice)
	}
	return sum
}

// StoreIdentified reports whether the parser recognized a concrete vendor.
func (r *ParsedReceipt) StoreIdentified() bool {
	return r.StoreName != "" && r.StoreName != StoreUnknown
}
