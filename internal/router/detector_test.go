package router

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"mizan/internal/chat"
	"mizan/internal/config"
	"mizan/internal/llm"
)

func newTestDetector(detect func(ctx context.Context, text string) (*llm.AgentDetection, error)) *Detector {
	mock := &llm.Mock{DetectAgentFn: detect}
	return NewDetector(mock, config.DetectConfig{Timeout: time.Second})
}

func TestDetectRejectsDefaultJournaling(t *testing.T) {
	d := newTestDetector(func(ctx context.Context, text string) (*llm.AgentDetection, error) {
		return &llm.AgentDetection{AgentID: "journaling", Reason: "default choice, unclear intent"}, nil
	})

	sel := d.Detect(context.Background(), "something vague")
	if sel == nil {
		t.Fatal("expected a selection")
	}
	if sel.AgentID != "analyzer" {
		t.Errorf("AgentID = %q, want analyzer", sel.AgentID)
	}
	if sel.Status != chat.StatusSuggested {
		t.Errorf("Status = %q, want suggested", sel.Status)
	}
}

func TestDetectRejectsJournalingWithoutReason(t *testing.T) {
	for _, reason := range []string{"", "   "} {
		d := newTestDetector(func(ctx context.Context, text string) (*llm.AgentDetection, error) {
			return &llm.AgentDetection{AgentID: "journaling", Reason: reason}, nil
		})

		sel := d.Detect(context.Background(), "something vague")
		if sel == nil {
			t.Fatalf("reason %q: expected a selection", reason)
		}
		if sel.AgentID != "analyzer" {
			t.Errorf("reason %q: AgentID = %q, want analyzer", reason, sel.AgentID)
		}
	}
}

func TestDetectKeepsConfidentJournaling(t *testing.T) {
	d := newTestDetector(func(ctx context.Context, text string) (*llm.AgentDetection, error) {
		return &llm.AgentDetection{AgentID: "journaling", Reason: "explicit journal entry request"}, nil
	})

	sel := d.Detect(context.Background(), "record the ijara lease entries")
	if sel == nil || sel.AgentID != "journaling" {
		t.Fatalf("sel = %+v, want journaling", sel)
	}
}

func TestDetectSwallowsErrors(t *testing.T) {
	d := newTestDetector(func(ctx context.Context, text string) (*llm.AgentDetection, error) {
		return nil, errors.New("model unavailable")
	})
	if sel := d.Detect(context.Background(), "hello"); sel != nil {
		t.Errorf("expected nil on error, got %+v", sel)
	}
}

func TestDetectRejectsUnknownAgent(t *testing.T) {
	d := newTestDetector(func(ctx context.Context, text string) (*llm.AgentDetection, error) {
		return &llm.AgentDetection{AgentID: "fortune-teller", Reason: "why not"}, nil
	})
	if sel := d.Detect(context.Background(), "hello"); sel != nil {
		t.Errorf("expected nil for unknown agent, got %+v", sel)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	sel := &chat.AgentSelection{
		AgentID:        "product-design",
		RequiredInputs: []string{"tenor", "risk appetite"},
	}

	res := ValidateRequiredFields(sel, "I want a 5 year tenor product")
	if res.Valid {
		t.Fatal("expected invalid result")
	}
	if len(res.MissingFields) != 1 || res.MissingFields[0] != "risk appetite" {
		t.Errorf("MissingFields = %v", res.MissingFields)
	}
	if want := "to design your Islamic finance product"; !strings.Contains(res.PromptMessage, want) {
		t.Errorf("PromptMessage missing %q:\n%s", want, res.PromptMessage)
	}
	if !strings.Contains(res.PromptMessage, "\u2022 risk appetite") {
		t.Errorf("PromptMessage missing bullet:\n%s", res.PromptMessage)
	}

	res = ValidateRequiredFields(sel, "tenor is 5 years and my Risk Appetite is low")
	if !res.Valid {
		t.Errorf("expected valid, missing %v", res.MissingFields)
	}
}

func TestCombinedMessage(t *testing.T) {
	messages := []chat.Message{
		chat.NewUserMessage("design a sukuk product"),
		chat.NewMissingInfoMessage("I need more information."),
	}
	got := CombinedMessage(messages, "risk appetite is low")
	want := "risk appetite is low design a sukuk product"
	if got != want {
		t.Errorf("CombinedMessage = %q, want %q", got, want)
	}

	if !IsResponseToPrompt(messages) {
		t.Error("IsResponseToPrompt = false, want true")
	}
}
