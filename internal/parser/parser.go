package parser

import (
	"jweber/bonscan/internal/models"
)

// ReceiptParser converts raw OCR text from one store chain into a structured
// receipt. A parser that cannot extract at least one valid item must return a
// *parsererror.ValidationError instead of an empty receipt.
type ReceiptParser interface {
	Parse(ocrText string) (*models.ParsedReceipt, error)
}
