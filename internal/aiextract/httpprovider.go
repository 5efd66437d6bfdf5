package aiextract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// chatRequest is the wire request shared by the HTTP providers:
// {model, messages:[{role,content}], temperature}.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is a tagged union over the known response shapes: the
// chat-completion shape ({choices:[{message:{content}}]}), a bare message
// ({message:{content}}), and the raw-response shape ({response}). Exactly
// one of them is populated; decode never assumes a shape at compile time.
type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Message  *chatMessage `json:"message"`
	Response string       `json:"response"`
}

func (r *chatResponse) content() (string, bool) {
	switch {
	case len(r.Choices) > 0:
		return r.Choices[0].Message.Content, true
	case r.Message != nil:
		return r.Message.Content, true
	case r.Response != "":
		return r.Response, true
	default:
		return "", false
	}
}

// HTTPProvider is a text-completion provider speaking the POST
// {model, messages, temperature} wire contract. It covers OpenAI-compatible
// endpoints and local Ollama servers; the response decoder accepts both
// answer shapes.
type HTTPProvider struct {
	name     string
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

// NewOpenAIProvider creates a provider for an OpenAI-compatible
// chat-completion endpoint.
func NewOpenAIProvider(baseURL, model, apiKey string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		name:     "openai",
		endpoint: strings.TrimRight(baseURL, "/") + "/chat/completions",
		model:    model,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: timeout},
	}
}

// NewOllamaProvider creates a provider for a local Ollama server.
func NewOllamaProvider(baseURL, model string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		name:     "ollama",
		endpoint: strings.TrimRight(baseURL, "/") + "/api/chat",
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

// Name implements Provider.
func (p *HTTPProvider) Name() string {
	return p.name
}

// Complete implements Provider. Any transport failure, timeout, non-2xx
// status or unusable response shape is returned as an error for the chain to
// record.
func (p *HTTPProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	reqBody := chatRequest{
		Model:       p.model,
		Temperature: 0.1,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling %s API: %w", p.name, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%s API error (status %d): %s", p.name, resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	content, ok := chatResp.content()
	if !ok {
		return "", fmt.Errorf("%s response carried no completion content", p.name)
	}
	return content, nil
}
