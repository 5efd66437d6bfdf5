// Package pipeline wires the parsing, reconciliation, categorization and AI
// extraction components into the end-to-end scan flow. Persistence stays
// behind the Repository interface: the core hands structured results to the
// surrounding layer and never manages storage transactions itself.
package pipeline

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"jweber/bonscan/internal/aiextract"
	"jweber/bonscan/internal/categorizer"
	"jweber/bonscan/internal/logging"
	"jweber/bonscan/internal/models"
	"jweber/bonscan/internal/parser"
	"jweber/bonscan/internal/parsererror"
	"jweber/bonscan/internal/reconcile"
)

// Repository is the persistence collaborator contract. AddReceipt keeps an
// ID already set on the receipt, so a re-save of the same receipt is an
// update. Implementations must tolerate DeleteReceipt for ids they have
// already deleted and floor category counters at zero.
type Repository interface {
	AddReceipt(receipt *models.ParsedReceipt) (string, error)
	DeleteReceipt(id string) error
	IncrementCategoryCount(category models.Category) error
	DecrementCategoryCount(category models.Category) error
}

// Extractor is the AI fallback chain contract.
type Extractor interface {
	Extract(ctx context.Context, receiptText string) (*aiextract.Result, error)
	Classify(ctx context.Context, description string) ([]models.CategoryMapping, error)
}

// Pipeline runs OCR text through vendor detection, parsing, reconciliation
// and categorization, and drives the optional AI re-extraction path.
type Pipeline struct {
	repo        Repository
	resolver    *categorizer.Resolver
	chain       Extractor
	maxAttempts int

	mu        sync.Mutex
	attempts  map[string]int               // AI extraction attempts per receipt id
	parsed    map[string]int               // item count from the vendor parser per receipt id
	aiCounted map[string][]models.Category // counter bumps from the last AI item batch

	log logging.Logger
}

// New creates a pipeline. chain may be nil when no AI providers are
// configured; Reextract then fails immediately. maxAttempts bounds AI
// re-extraction per receipt; values below 1 fall back to 3.
func New(repo Repository, resolver *categorizer.Resolver, chain Extractor, maxAttempts int, logger logging.Logger) *Pipeline {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if maxAttempts < 1 {
		maxAttempts = 3
	}
	return &Pipeline{
		repo:        repo,
		resolver:    resolver,
		chain:       chain,
		maxAttempts: maxAttempts,
		attempts:    make(map[string]int),
		parsed:      make(map[string]int),
		aiCounted:   make(map[string][]models.Category),
		log:         logger,
	}
}

// Scan processes one receipt's OCR text end to end. An in-progress record is
// created before parsing; when the parser fails validation the record is
// deleted again so no orphaned partial data remains, and the validation
// error is returned for the caller to surface.
func (p *Pipeline) Scan(ctx context.Context, ocrText string) (*models.ParsedReceipt, error) {
	id, err := p.repo.AddReceipt(&models.ParsedReceipt{StoreName: models.StoreUnknown})
	if err != nil {
		return nil, err
	}

	receipt, vendor, err := parser.ParseText(ocrText)
	if err != nil {
		if deleteErr := p.repo.DeleteReceipt(id); deleteErr != nil {
			p.log.WithError(deleteErr).Warn("Failed to delete receipt after parse failure",
				logging.Field{Key: "receipt", Value: id})
		}
		return nil, err
	}
	receipt.ID = id

	p.resolver.ResolveAll(receipt.Items)

	if _, err := p.repo.AddReceipt(receipt); err != nil {
		if deleteErr := p.repo.DeleteReceipt(id); deleteErr != nil {
			p.log.WithError(deleteErr).Warn("Failed to delete receipt after store failure",
				logging.Field{Key: "receipt", Value: id})
		}
		return nil, err
	}
	for _, item := range receipt.Items {
		if err := p.repo.IncrementCategoryCount(item.Category); err != nil {
			p.log.WithError(err).Warn("Failed to update category counter",
				logging.Field{Key: "category", Value: item.Category})
		}
	}

	p.log.Info("Scanned receipt",
		logging.Field{Key: "receipt", Value: receipt.ID},
		logging.Field{Key: "vendor", Value: string(vendor)},
		logging.Field{Key: "items", Value: len(receipt.Items)},
		logging.Field{Key: "discrepancy", Value: receipt.DiscrepancyDetected})

	if !receipt.StoreIdentified() {
		p.log.Warn("Store not identified, manual entry required",
			logging.Field{Key: "receipt", Value: receipt.ID})
	}
	return receipt, nil
}

// Reextract runs the AI fallback chain over the original OCR text after a
// discrepancy and recomputes the discrepancy flag. Each attempt starts over
// from the vendor parser's item set: items appended by an earlier attempt
// are replaced, never accumulated, and the updated receipt is re-saved so
// the stored record always matches the returned one. Attempts are capped
// per receipt; once the budget is spent a RetriesExhaustedError tells the
// caller to give up. A chain failure also consumes an attempt.
func (p *Pipeline) Reextract(ctx context.Context, receipt *models.ParsedReceipt, ocrText string) (*models.ParsedReceipt, error) {
	if p.chain == nil {
		return nil, &parsererror.ExtractionExhaustedError{Errors: map[string]error{}, Order: nil}
	}

	if !p.consumeAttempt(receipt.ID) {
		return nil, &parsererror.RetriesExhaustedError{
			ReceiptID: receipt.ID,
			Attempts:  p.maxAttempts,
		}
	}

	result, err := p.chain.Extract(ctx, ocrText)
	if err != nil {
		return nil, err
	}

	items := result.ToReceiptItems()
	p.categorizeExtracted(items)

	base := p.parsedItemCount(receipt)
	merged := make([]models.ReceiptItem, 0, base+len(items))
	merged = append(merged, receipt.Items[:base]...)
	merged = append(merged, items...)
	receipt.Items = merged

	var declared *decimal.Decimal
	if receipt.TotalSource == models.TotalExplicit {
		total := receipt.TotalAmount
		declared = &total
	}
	if err := reconcile.Apply(receipt, declared); err != nil {
		return nil, err
	}

	if _, err := p.repo.AddReceipt(receipt); err != nil {
		return nil, err
	}
	p.updateCategoryCounts(receipt.ID, items)

	p.log.Info("Applied AI-extracted items",
		logging.Field{Key: "receipt", Value: receipt.ID},
		logging.Field{Key: "provider", Value: result.Provider},
		logging.Field{Key: "items", Value: len(items)},
		logging.Field{Key: "discrepancy", Value: receipt.DiscrepancyDetected})
	return receipt, nil
}

// Learn asks the AI chain to classify a product description and appends the
// proposed mappings to the resolver's table.
func (p *Pipeline) Learn(ctx context.Context, description string) ([]models.CategoryMapping, error) {
	if p.chain == nil {
		return nil, &parsererror.ExtractionExhaustedError{Errors: map[string]error{}, Order: nil}
	}

	mappings, err := p.chain.Classify(ctx, description)
	if err != nil {
		return nil, err
	}
	if err := p.resolver.Learn(mappings); err != nil {
		return nil, err
	}
	return mappings, nil
}

// categorizeExtracted runs AI items through the resolution engine. The
// mapping table wins where it knows the item; the AI's own category is kept
// only when the table resolves to the fallback.
func (p *Pipeline) categorizeExtracted(items []models.ReceiptItem) {
	for i := range items {
		resolved := p.resolver.Resolve(items[i].Name)
		if resolved != models.CategoryOther || items[i].Category == "" {
			items[i].Category = resolved
		}
	}
}

// parsedItemCount returns how many of the receipt's items came from the
// vendor parser, recording the count on the first re-extraction attempt.
func (p *Pipeline) parsedItemCount(receipt *models.ParsedReceipt) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	if n, ok := p.parsed[receipt.ID]; ok {
		return n
	}
	p.parsed[receipt.ID] = len(receipt.Items)
	return len(receipt.Items)
}

// updateCategoryCounts swaps the counter bumps of the previous AI item batch
// for the current one, keeping the counters consistent with the stored items
// across re-extraction attempts.
func (p *Pipeline) updateCategoryCounts(receiptID string, items []models.ReceiptItem) {
	current := make([]models.Category, len(items))
	for i, item := range items {
		current[i] = item.Category
	}

	p.mu.Lock()
	previous := p.aiCounted[receiptID]
	p.aiCounted[receiptID] = current
	p.mu.Unlock()

	for _, category := range previous {
		if err := p.repo.DecrementCategoryCount(category); err != nil {
			p.log.WithError(err).Warn("Failed to update category counter",
				logging.Field{Key: "category", Value: category})
		}
	}
	for _, category := range current {
		if err := p.repo.IncrementCategoryCount(category); err != nil {
			p.log.WithError(err).Warn("Failed to update category counter",
				logging.Field{Key: "category", Value: category})
		}
	}
}

func (p *Pipeline) consumeAttempt(receiptID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.attempts[receiptID] >= p.maxAttempts {
		return false
	}
	p.attempts[receiptID]++
	return true
}
