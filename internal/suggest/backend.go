// package suggest turns natural-language prompts into track and podcast
// suggestions via an LLM backend, and parses the model output defensively.
package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"

	"github.com/desertthunder/songalchemy/internal/shared"
)

const (
	DefaultOpenAIModel = "gpt-4.1-mini-2025-04-14"
	DefaultGeminiModel = "gemini-2.5-flash-preview-05-20"

	geminiAPIURL = "https://generativelanguage.googleapis.com/v1beta"
)

// Backend generates raw text for a system/user prompt pair.
type Backend interface {
	Name() string
	// Ready reports whether the backend can make requests (an API key is set).
	Ready() error
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAIBackend generates suggestions through the OpenAI chat-completions API.
type OpenAIBackend struct {
	apiKey string
	model  string
	opts   []option.RequestOption
}

// NewOpenAIBackend creates the backend. An empty model selects the default.
// Extra request options are for tests (base URL, HTTP client overrides).
func NewOpenAIBackend(apiKey, model string, opts ...option.RequestOption) *OpenAIBackend {
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIBackend{apiKey: apiKey, model: model, opts: opts}
}

func (b *OpenAIBackend) Name() string { return "openai" }

func (b *OpenAIBackend) Ready() error {
	if b.apiKey == "" {
		return fmt.Errorf("%w: set an OpenAI API key first", shared.ErrMissingAPIKey)
	}

	return nil
}

func (b *OpenAIBackend) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := b.Ready(); err != nil {
		return "", err
	}

	opts := append([]option.RequestOption{option.WithAPIKey(b.apiKey)}, b.opts...)
	client := openai.NewClient(opts...)

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Model:       openai.ChatModel(b.model),
		Temperature: openai.Float(0.7),
	})
	if err != nil {
		return "", fmt.Errorf("%w: openai: %v", shared.ErrBackendRequest, err)
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("%w: openai returned no choices", shared.ErrBackendRequest)
	}

	return completion.Choices[0].Message.Content, nil
}

// GeminiBackend generates suggestions through the Gemini generateContent REST
// endpoint. Gemini has no system role on this surface, so the system prompt is
// prepended to the user prompt.
type GeminiBackend struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGeminiBackend creates the backend. Empty model/baseURL and a nil client
// select production defaults.
func NewGeminiBackend(apiKey, model, baseURL string, client *http.Client) *GeminiBackend {
	if model == "" {
		model = DefaultGeminiModel
	}

	if baseURL == "" {
		baseURL = geminiAPIURL
	}

	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}

	return &GeminiBackend{apiKey: apiKey, model: model, baseURL: baseURL, client: client}
}

func (b *GeminiBackend) Name() string { return "gemini" }

func (b *GeminiBackend) Ready() error {
	if b.apiKey == "" {
		return fmt.Errorf("%w: set a Gemini API key first", shared.ErrMissingAPIKey)
	}

	return nil
}

func (b *GeminiBackend) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := b.Ready(); err != nil {
		return "", err
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": systemPrompt + "\n\nUser request: " + userPrompt}}},
		},
		"generationConfig": map[string]any{"temperature": 0.7},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: encode request: %v", shared.ErrBackendRequest, err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent?key=%s", b.baseURL, b.model, b.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", shared.ErrBackendRequest, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: gemini: %v", shared.ErrBackendRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: gemini: read response: %v", shared.ErrBackendRequest, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: gemini returned %d: %s", shared.ErrBackendRequest, resp.StatusCode, bytes.TrimSpace(body))
	}

	text := gjson.GetBytes(body, "candidates.0.content.parts.0.text")
	if !text.Exists() {
		return "", fmt.Errorf("%w: gemini response missing candidate text", shared.ErrBackendRequest)
	}

	return text.String(), nil
}
