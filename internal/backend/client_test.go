package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mizan/internal/config"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(config.BackendConfig{
		BaseURL:     srv.URL,
		HTTPTimeout: 5 * time.Second,
		Retry:       config.RetryConfig{MaxRetries: 1, RetryDelay: 10 * time.Millisecond},
	})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, srv
}

func TestProcessUseCase(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/use-case/process" {
			t.Errorf("path = %q", r.URL.Path)
		}
		var payload UseCasePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if payload.Scenario != "A bank leases equipment" {
			t.Errorf("scenario = %q", payload.Scenario)
		}
		json.NewEncoder(w).Encode(UseCaseResponse{
			Scenario:           payload.Scenario,
			AccountingGuidance: "Recognize a right-of-use asset.",
		})
	}))

	resp, err := c.ProcessUseCase(context.Background(), UseCasePayload{Scenario: "A bank leases equipment"})
	if err != nil {
		t.Fatalf("ProcessUseCase: %v", err)
	}
	if resp.AccountingGuidance == "" {
		t.Error("expected guidance in response")
	}
}

func TestVerifyComplianceDefaultsDocumentName(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload CompliancePayload
		json.NewDecoder(r.Body).Decode(&payload)
		if payload.DocumentName != DefaultDocumentName {
			t.Errorf("document_name = %q, want default", payload.DocumentName)
		}
		json.NewEncoder(w).Encode(ComplianceResponse{DocumentName: payload.DocumentName})
	}))

	if _, err := c.VerifyCompliance(context.Background(), CompliancePayload{DocumentContent: "report text"}); err != nil {
		t.Fatalf("VerifyCompliance: %v", err)
	}
}

func TestAPIErrorOnBadStatus(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "field missing", http.StatusUnprocessableEntity)
	}))

	_, err := c.ChatMessage(context.Background(), ChatPayload{Content: "hi"})
	if err == nil {
		t.Fatal("expected error")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type %T, want *APIError", err)
	}
	if apiErr.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
}

func TestRetryOnServerError(t *testing.T) {
	var calls int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			http.Error(w, "flaky", http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(ChatResponse{ID: "1", Content: "ok"})
	}))

	resp, err := c.ChatMessage(context.Background(), ChatPayload{Content: "hi"})
	if err != nil {
		t.Fatalf("ChatMessage: %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 (one retry)", calls)
	}
	if resp.Content != "ok" {
		t.Errorf("content = %q", resp.Content)
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls int
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))

	_, err := c.ChatMessage(context.Background(), ChatPayload{Content: "hi"})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 400)", calls)
	}
}
