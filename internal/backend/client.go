package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"mizan/internal/config"
	"mizan/internal/logging"
)

// DefaultDocumentName is injected into compliance requests that do not name
// their document.
const DefaultDocumentName = "Uploaded Document"

// APIError represents a backend error with an HTTP status code.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the assistant backend over HTTP with JSON bodies. Each
// endpoint method is stateless; the backend keeps no conversation memory.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates a backend client from configuration.
func NewClient(cfg config.BackendConfig) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBackendURL
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid backend base URL: %w", err)
	}

	timeout := cfg.HTTPTimeout
	if timeout == 0 {
		timeout = config.DefaultHTTPTimeout
	}
	maxRetries := cfg.Retry.MaxRetries
	if maxRetries == 0 {
		maxRetries = config.DefaultMaxRetries
	}
	retryDelay := cfg.Retry.RetryDelay
	if retryDelay == 0 {
		retryDelay = config.DefaultRetryDelay
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		retryDelay: retryDelay,
	}, nil
}

// ChatMessage calls the generic conversational agent.
func (c *Client) ChatMessage(ctx context.Context, payload ChatPayload) (*ChatResponse, error) {
	var out ChatResponse
	if err := c.post(ctx, "/chat/message", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProcessUseCase runs a scenario through the journaling tool.
func (c *Client) ProcessUseCase(ctx context.Context, payload UseCasePayload) (*UseCaseResponse, error) {
	var out UseCaseResponse
	if err := c.post(ctx, "/use-case/process", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeTransaction performs detailed transaction analysis.
func (c *Client) AnalyzeTransaction(ctx context.Context, payload TransactionPayload) (*TransactionResponse, error) {
	var out TransactionResponse
	if err := c.post(ctx, "/transaction/analyze", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeTransactionSimple returns a compact compliance verdict.
func (c *Client) AnalyzeTransactionSimple(ctx context.Context, payload SimpleTransactionPayload) (*SimpleTransactionResponse, error) {
	var out SimpleTransactionResponse
	if err := c.post(ctx, "/transaction/analyze-simple", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExtractStandards extracts standards information from document text.
func (c *Client) ExtractStandards(ctx context.Context, payload ExtractionPayload) (*ExtractionResponse, error) {
	var out ExtractionResponse
	if err := c.post(ctx, "/standards/extract", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// EnhanceStandards runs the standards enhancement workflow.
func (c *Client) EnhanceStandards(ctx context.Context, payload EnhancementPayload) (*EnhancementResponse, error) {
	var out EnhancementResponse
	if err := c.post(ctx, "/standards/enhance", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DesignProduct requests a Shariah-compliant product design.
func (c *Client) DesignProduct(ctx context.Context, payload ProductDesignPayload) (*ProductDesignResponse, error) {
	var out ProductDesignResponse
	if err := c.post(ctx, "/product-design", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyCompliance checks a document against AAOIFI standards. A missing
// document name is defaulted before the request is sent.
func (c *Client) VerifyCompliance(ctx context.Context, payload CompliancePayload) (*ComplianceResponse, error) {
	if payload.DocumentName == "" {
		payload.DocumentName = DefaultDocumentName
	}
	var out ComplianceResponse
	if err := c.post(ctx, "/compliance/verify", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// post sends a JSON POST and decodes the JSON response, retrying transient
// failures with exponential backoff.
func (c *Client) post(ctx context.Context, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request for %s: %w", path, err)
	}

	var lastErr error
	maxDelay := 30 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := calculateBackoff(c.retryDelay, attempt-1, maxDelay)
			logging.Info("retrying backend request", "path", path, "attempt", attempt, "delay", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := c.doPost(ctx, path, body, out)
		if err == nil {
			return nil
		}
		lastErr = err

		if !isRetryable(err) {
			return err
		}
		logging.Warn("backend request failed, will retry", "path", path, "attempt", attempt, "error", err)
	}

	return fmt.Errorf("max retries (%d) exceeded for %s: %w", c.maxRetries, path, lastErr)
}

func (c *Client) doPost(ctx context.Context, path string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(data))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

// isRetryable reports whether an error should trigger a retry. Typed checks
// first, with a string fallback for untyped errors.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"connection refused", "connection reset", "no such host", "timeout", "eof"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
