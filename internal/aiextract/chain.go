package aiextract

import (
	"context"
	"time"

	"jweber/bonscan/internal/logging"
	"jweber/bonscan/internal/models"
	"jweber/bonscan/internal/parsererror"
)

// Chain tries an ordered list of providers until one returns successfully.
// Earlier providers are preferred for cost and quality, so the chain is
// strictly sequential: no racing, no retry of a failed provider within one
// run. Per-provider errors are recorded and only surfaced as an aggregate
// when every provider fails.
type Chain struct {
	providers []Provider
	timeout   time.Duration
	log       logging.Logger
}

// NewChain creates a fallback chain over the given providers, in priority
// order. Each provider call is bounded by timeout.
func NewChain(providers []Provider, timeout time.Duration, logger logging.Logger) *Chain {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Chain{providers: providers, timeout: timeout, log: logger}
}

// Providers returns the provider names in attempt order.
func (c *Chain) Providers() []string {
	names := make([]string, 0, len(c.providers))
	for _, p := range c.providers {
		names = append(names, p.Name())
	}
	return names
}

// Extract runs the receipt text through the provider chain and parses the
// first successful completion into validated items. A provider returning
// unparseable content still counts as a success with zero items; only a
// failed call moves the chain on.
func (c *Chain) Extract(ctx context.Context, receiptText string) (*Result, error) {
	return c.run(ctx, ExtractionPrompt(), receiptText, func(content string, result *Result) {
		result.Items = ParseItems(content)
	})
}

// Classify runs a free-text product description through the provider chain
// and returns proposed (keyword, category) pairs for the learning path.
func (c *Chain) Classify(ctx context.Context, description string) ([]models.CategoryMapping, error) {
	var mappings []models.CategoryMapping
	_, err := c.run(ctx, ClassificationPrompt(), description, func(content string, _ *Result) {
		mappings = ParseMappings(content)
	})
	if err != nil {
		return nil, err
	}
	return mappings, nil
}

// run drives the Pending(provider) -> Success | Pending(next) ->
// ExhaustedFailure state machine shared by Extract and Classify.
func (c *Chain) run(ctx context.Context, systemPrompt, userPrompt string, accept func(string, *Result)) (*Result, error) {
	errs := make(map[string]error, len(c.providers))
	order := make([]string, 0, len(c.providers))

	for _, provider := range c.providers {
		order = append(order, provider.Name())

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		content, err := provider.Complete(callCtx, systemPrompt, userPrompt)
		cancel()

		if err != nil {
			errs[provider.Name()] = err
			c.log.WithError(err).Warn("Extraction provider failed, falling back",
				logging.Field{Key: "provider", Value: provider.Name()})
			continue
		}

		result := &Result{
			Provider:       provider.Name(),
			ProviderErrors: errs,
		}
		accept(content, result)

		c.log.Info("Extraction provider succeeded",
			logging.Field{Key: "provider", Value: provider.Name()},
			logging.Field{Key: "failed_before", Value: len(errs)})
		return result, nil
	}

	return nil, &parsererror.ExtractionExhaustedError{Errors: errs, Order: order}
}
