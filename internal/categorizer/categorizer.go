// Package categorizer maps free-text item names to grocery categories using
// a persisted keyword mapping table with two-tier matching:
// 1. Exact match against an index of normalized keywords
// 2. Substring match scanning the stored mappings
// New mappings can be learned at runtime, either from user action or from AI
// classification suggestions.
package categorizer

import (
	"strings"
	"sync"

	"jweber/bonscan/internal/logging"
	"jweber/bonscan/internal/models"
	"jweber/bonscan/internal/store"
)

// Resolver resolves item names to categories. It is safe for concurrent use:
// Resolve is a pure read, Learn appends one batch under the write lock so
// substring tie-break order stays defined.
type Resolver struct {
	mu       sync.RWMutex
	mappings []models.CategoryMapping  // insertion order, load-bearing
	exact    map[string]models.Category // first-inserted keyword wins
	store    *store.MappingStore
	log      logging.Logger
}

// NewResolver builds a resolver backed by the given mapping store. An empty
// store is seeded with the default keyword table first. A nil store yields a
// purely in-memory resolver (used in tests).
func NewResolver(mappingStore *store.MappingStore, logger logging.Logger) (*Resolver, error) {
	if logger == nil {
		logger = logging.GetLogger()
	}

	r := &Resolver{
		exact: make(map[string]models.Category),
		store: mappingStore,
		log:   logger,
	}

	if mappingStore == nil {
		return r, nil
	}

	if _, err := mappingStore.SeedIfEmpty(DefaultMappings()); err != nil {
		return nil, err
	}

	mappings, err := mappingStore.Load()
	if err != nil {
		return nil, err
	}
	for _, m := range mappings {
		r.addLocked(m)
	}

	r.log.Debug("Category resolver initialized",
		logging.Field{Key: "mappings", Value: len(r.mappings)})
	return r, nil
}

// Resolve returns the category for an item name. It is a total function: it
// never fails and always returns one of the enumerated categories, with
// CategoryOther as the universal fallback.
//
// Matching order:
//  1. A stored keyword equal to the normalized name wins outright.
//  2. Otherwise the longest stored keyword that is a substring of the name
//     wins; equal lengths fall back to insertion order. (The longest-wins
//     rule is a deliberate change from the historical first-inserted-wins
//     behavior, which depended on accidental table order.)
//  3. No match resolves to CategoryOther.
func (r *Resolver) Resolve(itemName string) models.Category {
	name := models.NormalizeKeyword(itemName)
	if name == "" {
		return models.CategoryOther
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if category, ok := r.exact[name]; ok {
		return category
	}

	best := -1
	bestLen := 0
	for i, m := range r.mappings {
		if len(m.Keyword) > bestLen && strings.Contains(name, m.Keyword) {
			best = i
			bestLen = len(m.Keyword)
		}
	}
	if best >= 0 {
		return r.mappings[best].Category
	}

	return models.CategoryOther
}

// ResolveAll assigns a category to every item in place.
func (r *Resolver) ResolveAll(items []models.ReceiptItem) {
	for i := range items {
		items[i].Category = r.Resolve(items[i].Name)
	}
}

// Learn appends a batch of mappings, normalized verbatim, to the table and
// the backing store. Duplicate keywords are allowed; the exact index keeps
// the first-inserted entry. The whole batch is applied under one lock so
// concurrent learns cannot interleave inside a batch.
func (r *Resolver) Learn(batch []models.CategoryMapping) error {
	normalized := make([]models.CategoryMapping, 0, len(batch))
	for _, m := range batch {
		keyword := models.NormalizeKeyword(m.Keyword)
		if keyword == "" {
			continue
		}
		normalized = append(normalized, models.CategoryMapping{
			Keyword:  keyword,
			Category: models.ParseCategory(string(m.Category)),
		})
	}
	if len(normalized) == 0 {
		return nil
	}

	r.mu.Lock()
	for _, m := range normalized {
		r.addLocked(m)
	}
	r.mu.Unlock()

	if r.store != nil {
		if err := r.store.Append(normalized); err != nil {
			return err
		}
	}

	r.log.Debug("Learned category mappings",
		logging.Field{Key: "count", Value: len(normalized)})
	return nil
}

// Mappings returns a copy of the stored mappings in insertion order.
func (r *Resolver) Mappings() []models.CategoryMapping {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.CategoryMapping, len(r.mappings))
	copy(out, r.mappings)
	return out
}

func (r *Resolver) addLocked(m models.CategoryMapping) {
	keyword := models.NormalizeKeyword(m.Keyword)
	if keyword == "" {
		return
	}
	m.Keyword = keyword
	r.mappings = append(r.mappings, m)
	if _, exists := r.exact[keyword]; !exists {
		r.exact[keyword] = m.Category
	}
}
