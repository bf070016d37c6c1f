package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"mizan/internal/config"
	"mizan/internal/logging"

	"google.golang.org/genai"
)

// GeminiClient implements Client on the Google Gemini API.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
	maxTokens   int32
	maxRetries  int
	retryDelay  time.Duration
}

// NewGeminiClient creates a Gemini-backed Client.
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	if cfg.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key required: set GEMINI_API_KEY or llm.gemini_key")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  cfg.GeminiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = config.DefaultModel
	}
	maxRetries := cfg.Retry.MaxRetries
	if maxRetries == 0 {
		maxRetries = config.DefaultMaxRetries
	}
	retryDelay := cfg.Retry.RetryDelay
	if retryDelay == 0 {
		retryDelay = config.DefaultRetryDelay
	}

	return &GeminiClient{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxOutputTokens,
		maxRetries:  maxRetries,
		retryDelay:  retryDelay,
	}, nil
}

func (c *GeminiClient) genConfig(system string, temperature float32) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(temperature),
		MaxOutputTokens: c.maxTokens,
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	return cfg
}

// Generate returns a single non-streaming chat completion.
func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.generate(ctx, chatSystemPrompt, prompt, c.temperature)
}

func (c *GeminiClient) generate(ctx context.Context, system, prompt string, temperature float32) (string, error) {
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	cfg := c.genConfig(system, temperature)

	var lastErr error
	maxDelay := 30 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := backoff(c.retryDelay, attempt-1, maxDelay)
			logging.Info("retrying Gemini request", "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, cfg)
		if err == nil {
			return resp.Text(), nil
		}
		lastErr = err
		if !isRetryableModelError(err) {
			return "", err
		}
		logging.Warn("Gemini request failed, will retry", "attempt", attempt, "error", err)
	}

	return "", fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// GenerateStream streams a conversational reply with history context.
func (c *GeminiClient) GenerateStream(ctx context.Context, history []Turn, message string) (*StreamingResponse, error) {
	contents := historyContents(history, message)
	return c.stream(ctx, contents, c.genConfig(chatSystemPrompt, c.temperature)), nil
}

// historyContents converts provider-neutral history into genai contents, with
// the new user message appended last. Any role other than "model" maps to the
// user role.
func historyContents(history []Turn, message string) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, turn := range history {
		var role genai.Role = genai.RoleUser
		if turn.Role == "model" {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(turn.Content, role))
	}
	return append(contents, genai.NewContentFromText(message, genai.RoleUser))
}

// SummarizeStream streams a summary of a tool response.
func (c *GeminiClient) SummarizeStream(ctx context.Context, payload, userQuery string) (*StreamingResponse, error) {
	prompt := buildSummarizePrompt(payload, userQuery)
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	return c.stream(ctx, contents, c.genConfig(summarizerSystemPrompt, c.temperature)), nil
}

// DetectAgent classifies free text into an agent identifier.
func (c *GeminiClient) DetectAgent(ctx context.Context, text string) (*AgentDetection, error) {
	// Low temperature: routing should be deterministic.
	out, err := c.generate(ctx, routerSystemPrompt, buildDetectPrompt(text), 0.1)
	if err != nil {
		return nil, err
	}
	return parseDetection(out), nil
}

// Extract populates a tool's field schema from free text.
func (c *GeminiClient) Extract(ctx context.Context, text, agentID string) (map[string]any, error) {
	out, err := c.generate(ctx, routerSystemPrompt, buildExtractPrompt(text, agentID), 0.1)
	if err != nil {
		return nil, err
	}
	return extractJSONObject(out)
}

// stream runs a streaming generation, pushing chunks into a channel. On a
// mid-stream failure the error is delivered as the final chunk.
func (c *GeminiClient) stream(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) *StreamingResponse {
	chunks := make(chan Chunk, 10)

	go func() {
		defer close(chunks)

		iter := c.client.Models.GenerateContentStream(ctx, c.model, contents, cfg)
		for resp, err := range iter {
			if err != nil {
				select {
				case chunks <- Chunk{Err: err}:
				case <-ctx.Done():
				}
				return
			}
			if resp == nil {
				return
			}

			text := resp.Text()
			if text == "" {
				continue
			}
			select {
			case chunks <- Chunk{Text: text}:
			case <-ctx.Done():
				select {
				case chunks <- Chunk{Err: ctx.Err()}:
				default:
				}
				return
			}
		}
	}()

	return &StreamingResponse{Chunks: chunks}
}

// Close releases the client. The genai client has no explicit close.
func (c *GeminiClient) Close() error {
	return nil
}

// isRetryableModelError reports whether a model API error should trigger a
// retry: rate limits, server errors, and transient network failures.
func isRetryableModelError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	for _, code := range []string{"429", "500", "502", "503", "504"} {
		if strings.Contains(errStr, code) {
			return true
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	for _, pattern := range []string{"connection refused", "connection reset", "no such host", "timeout", "UNAVAILABLE", "RESOURCE_EXHAUSTED"} {
		if strings.Contains(strings.ToLower(errStr), strings.ToLower(pattern)) {
			return true
		}
	}
	return false
}
