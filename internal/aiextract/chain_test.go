package aiextract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jweber/bonscan/internal/aiextract"
	"jweber/bonscan/internal/logging"
	"jweber/bonscan/internal/models"
	"jweber/bonscan/internal/parsererror"
)

type fakeProvider struct {
	name    string
	content string
	err     error
	calls   int
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.content, nil
}

const tableAnswer = `| Bananen | Fruits | 1.36 |`

func TestExtract_FirstProviderWins(t *testing.T) {
	first := &fakeProvider{name: "openai", content: tableAnswer}
	second := &fakeProvider{name: "ollama", content: tableAnswer}
	chain := aiextract.NewChain([]aiextract.Provider{first, second}, time.Second, &logging.MockLogger{})

	result, err := chain.Extract(context.Background(), "REWE ...")
	require.NoError(t, err)

	assert.Equal(t, "openai", result.Provider)
	assert.Empty(t, result.ProviderErrors)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "later providers must not be called after a success")
}

func TestExtract_FallsBackAndRecordsErrors(t *testing.T) {
	first := &fakeProvider{name: "openai", err: errors.New("quota exceeded")}
	second := &fakeProvider{name: "ollama", err: errors.New("connection refused")}
	third := &fakeProvider{name: "gemini", content: tableAnswer}
	chain := aiextract.NewChain([]aiextract.Provider{first, second, third}, time.Second, &logging.MockLogger{})

	result, err := chain.Extract(context.Background(), "REWE ...")
	require.NoError(t, err)

	assert.Equal(t, "gemini", result.Provider)
	require.Len(t, result.ProviderErrors, 2)
	assert.EqualError(t, result.ProviderErrors["openai"], "quota exceeded")
	assert.EqualError(t, result.ProviderErrors["ollama"], "connection refused")
	require.Len(t, result.Items, 1)
}

func TestExtract_AllProvidersFailing(t *testing.T) {
	first := &fakeProvider{name: "openai", err: errors.New("quota exceeded")}
	second := &fakeProvider{name: "ollama", err: errors.New("connection refused")}
	chain := aiextract.NewChain([]aiextract.Provider{first, second}, time.Second, &logging.MockLogger{})

	_, err := chain.Extract(context.Background(), "REWE ...")
	require.Error(t, err)

	var exhausted *parsererror.ExtractionExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, []string{"openai", "ollama"}, exhausted.Order)
	assert.Len(t, exhausted.Errors, 2)

	// The aggregate message names every provider for diagnosis.
	assert.Contains(t, err.Error(), "openai")
	assert.Contains(t, err.Error(), "ollama")
}

func TestExtract_UnparseableContentStillSucceeds(t *testing.T) {
	provider := &fakeProvider{name: "openai", content: "I cannot read this receipt."}
	chain := aiextract.NewChain([]aiextract.Provider{provider}, time.Second, &logging.MockLogger{})

	result, err := chain.Extract(context.Background(), "???")
	require.NoError(t, err)
	assert.Empty(t, result.Items)
}

func TestClassify(t *testing.T) {
	provider := &fakeProvider{name: "openai", content: "| apfelmus | Fruits |"}
	chain := aiextract.NewChain([]aiextract.Provider{provider}, time.Second, &logging.MockLogger{})

	mappings, err := chain.Classify(context.Background(), "Apfelmus im Glas")
	require.NoError(t, err)

	require.Len(t, mappings, 1)
	assert.Equal(t, "apfelmus", mappings[0].Keyword)
	assert.Equal(t, models.CategoryFruits, mappings[0].Category)
}

func TestProviders_ReturnsAttemptOrder(t *testing.T) {
	chain := aiextract.NewChain([]aiextract.Provider{
		&fakeProvider{name: "openai"},
		&fakeProvider{name: "gemini"},
	}, time.Second, &logging.MockLogger{})

	assert.Equal(t, []string{"openai", "gemini"}, chain.Providers())
}
