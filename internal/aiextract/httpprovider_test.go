package aiextract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jweber/bonscan/internal/aiextract"
)

func TestHTTPProvider_ChatCompletionShape(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "| Bananen | Fruits | 1.36 |"}},
			},
		})
	}))
	defer server.Close()

	provider := aiextract.NewOpenAIProvider(server.URL, "gpt-4o-mini", "test-key", time.Second)
	assert.Equal(t, "openai", provider.Name())

	content, err := provider.Complete(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)

	assert.Equal(t, "| Bananen | Fruits | 1.36 |", content)
	assert.Equal(t, "/chat/completions", gotPath)
	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])

	messages, ok := gotBody["messages"].([]interface{})
	require.True(t, ok)
	require.Len(t, messages, 2)
}

func TestHTTPProvider_RawResponseShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "| Brot | Bakery | 2.49 |"})
	}))
	defer server.Close()

	provider := aiextract.NewOllamaProvider(server.URL, "llama3", time.Second)
	assert.Equal(t, "ollama", provider.Name())

	content, err := provider.Complete(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, "| Brot | Bakery | 2.49 |", content)
}

func TestHTTPProvider_BareMessageShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"message": map[string]string{"role": "assistant", "content": "| Milch | Dairy | 1.09 |"},
		})
	}))
	defer server.Close()

	provider := aiextract.NewOllamaProvider(server.URL, "llama3", time.Second)

	content, err := provider.Complete(context.Background(), "s", "u")
	require.NoError(t, err)
	assert.Equal(t, "| Milch | Dairy | 1.09 |", content)
}

func TestHTTPProvider_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limit"}`))
	}))
	defer server.Close()

	provider := aiextract.NewOpenAIProvider(server.URL, "gpt-4o-mini", "test-key", time.Second)

	_, err := provider.Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "rate limit")
}

func TestHTTPProvider_EmptyResponseIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	provider := aiextract.NewOpenAIProvider(server.URL, "gpt-4o-mini", "test-key", time.Second)

	_, err := provider.Complete(context.Background(), "s", "u")
	assert.Error(t, err)
}

func TestHTTPProvider_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server watches the connection and cancels
		// the request context when the client disconnects.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	provider := aiextract.NewOpenAIProvider(server.URL, "gpt-4o-mini", "test-key", time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := provider.Complete(ctx, "s", "u")
	assert.Error(t, err)
}
