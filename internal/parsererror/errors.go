// Package parsererror defines the typed errors shared across the receipt
// parsing and extraction pipeline. Callers match them with errors.As to
// distinguish fatal validation failures from recoverable provider failures.
package parsererror

import (
	"fmt"
	"strings"
)

// ValidationError means a vendor parser could not extract a usable receipt
// (no valid items, or no items and no total). It is fatal to the current
// receipt: the caller deletes the in-progress record and surfaces an
// actionable message. It is not retried automatically.
type ValidationError struct {
	Vendor string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s parser: validation failed: %s", e.Vendor, e.Reason)
}

// ParseError wraps a lower-level failure while parsing a specific field.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ProviderError records a single AI provider call failure (network, timeout,
// bad auth, non-2xx status). The fallback chain recovers from it by moving on
// to the next provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ExtractionExhaustedError is raised when every provider in the fallback
// chain failed. It aggregates the per-provider failures so the caller can
// surface one consolidated message instead of one per provider.
type ExtractionExhaustedError struct {
	Errors map[string]error // keyed by provider name
	Order  []string         // provider names in attempt order
}

func (e *ExtractionExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Order))
	for _, name := range e.Order {
		if err, ok := e.Errors[name]; ok {
			parts = append(parts, fmt.Sprintf("%s: %v", name, err))
		}
	}
	return "all extraction providers failed: " + strings.Join(parts, "; ")
}

// RetriesExhaustedError means the per-receipt AI re-extraction budget was
// spent without resolving a discrepancy.
type RetriesExhaustedError struct {
	ReceiptID string
	Attempts  int
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("receipt %s: giving up after %d extraction attempts", e.ReceiptID, e.Attempts)
}
