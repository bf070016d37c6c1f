package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mizan/internal/config"
	"mizan/internal/logging"

	"github.com/ollama/ollama/api"
)

// OllamaClient implements Client against a local or remote Ollama server.
type OllamaClient struct {
	client      *api.Client
	model       string
	temperature float32
	maxTokens   int32
}

// authTransport adds an Authorization header to HTTP requests.
type authTransport struct {
	base   http.RoundTripper
	apiKey string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	reqClone := req.Clone(req.Context())
	reqClone.Header.Set("Authorization", "Bearer "+t.apiKey)
	return t.base.RoundTrip(reqClone)
}

// NewOllamaClient creates an Ollama-backed Client.
func NewOllamaClient(cfg config.LLMConfig) (Client, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("model name is required for the ollama provider")
	}

	baseURL := cfg.OllamaBaseURL
	if baseURL == "" {
		baseURL = config.DefaultOllamaBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama_base_url: %w", err)
	}

	if parsed.Scheme == "http" {
		host := parsed.Hostname()
		if host != "localhost" && host != "127.0.0.1" && host != "::1" {
			logging.Warn("Ollama connection uses unencrypted HTTP to remote host", "host", host)
		}
	}

	httpClient := &http.Client{Timeout: 120 * time.Second}
	if cfg.OllamaKey != "" {
		httpClient.Transport = &authTransport{base: http.DefaultTransport, apiKey: cfg.OllamaKey}
	}

	maxTokens := cfg.MaxOutputTokens
	if maxTokens == 0 {
		maxTokens = config.DefaultMaxOutputTokens
	}

	return &OllamaClient{
		client:      api.NewClient(parsed, httpClient),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
	}, nil
}

func (c *OllamaClient) options() map[string]any {
	return map[string]any{
		"temperature": c.temperature,
		"num_predict": c.maxTokens,
	}
}

// Generate returns a single non-streaming chat completion.
func (c *OllamaClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, chatSystemPrompt, prompt)
}

func (c *OllamaClient) generate(ctx context.Context, system, prompt string) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model: c.model,
		Messages: []api.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Stream:  &stream,
		Options: c.options(),
	}

	var out strings.Builder
	err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		out.WriteString(resp.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama chat failed: %w", err)
	}
	return out.String(), nil
}

// GenerateStream streams a conversational reply with history context.
func (c *OllamaClient) GenerateStream(ctx context.Context, history []Turn, message string) (*StreamingResponse, error) {
	messages := make([]api.Message, 0, len(history)+2)
	messages = append(messages, api.Message{Role: "system", Content: chatSystemPrompt})
	for _, turn := range history {
		role := "user"
		if turn.Role == "model" {
			role = "assistant"
		}
		messages = append(messages, api.Message{Role: role, Content: turn.Content})
	}
	messages = append(messages, api.Message{Role: "user", Content: message})

	return c.stream(ctx, messages), nil
}

// SummarizeStream streams a summary of a tool response.
func (c *OllamaClient) SummarizeStream(ctx context.Context, payload, userQuery string) (*StreamingResponse, error) {
	messages := []api.Message{
		{Role: "system", Content: summarizerSystemPrompt},
		{Role: "user", Content: buildSummarizePrompt(payload, userQuery)},
	}
	return c.stream(ctx, messages), nil
}

// DetectAgent classifies free text into an agent identifier.
func (c *OllamaClient) DetectAgent(ctx context.Context, text string) (*AgentDetection, error) {
	out, err := c.generate(ctx, routerSystemPrompt, buildDetectPrompt(text))
	if err != nil {
		return nil, err
	}
	return parseDetection(out), nil
}

// Extract populates a tool's field schema from free text.
func (c *OllamaClient) Extract(ctx context.Context, text, agentID string) (map[string]any, error) {
	out, err := c.generate(ctx, routerSystemPrompt, buildExtractPrompt(text, agentID))
	if err != nil {
		return nil, err
	}
	return extractJSONObject(out)
}

func (c *OllamaClient) stream(ctx context.Context, messages []api.Message) *StreamingResponse {
	chunks := make(chan Chunk, 10)

	go func() {
		defer close(chunks)

		stream := true
		req := &api.ChatRequest{
			Model:    c.model,
			Messages: messages,
			Stream:   &stream,
			Options:  c.options(),
		}

		err := c.client.Chat(ctx, req, func(resp api.ChatResponse) error {
			if resp.Message.Content == "" {
				return nil
			}
			select {
			case chunks <- Chunk{Text: resp.Message.Content}:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
		if err != nil {
			select {
			case chunks <- Chunk{Err: err}:
			default:
			}
		}
	}()

	return &StreamingResponse{Chunks: chunks}
}

// Close releases the client. The Ollama client has no explicit close.
func (c *OllamaClient) Close() error {
	return nil
}
