package chat

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestWithMessagesDerivesTitleFromFirstUserMessage(t *testing.T) {
	th := NewThread()

	user := NewUserMessage("How do I account for an Ijara lease contract")
	reply := NewAssistantMessage("Under the relevant standard...")

	th = th.WithMessages([]Message{user, reply})

	want := "How do I account for..."
	if th.Title != want {
		t.Errorf("title = %q, want %q", th.Title, want)
	}
}

func TestWithMessagesShortTitleNoEllipsis(t *testing.T) {
	th := NewThread()
	th = th.WithMessages([]Message{
		NewUserMessage("Hello there"),
		NewAssistantMessage("Hi"),
	})

	if th.Title != "Hello there" {
		t.Errorf("title = %q, want %q", th.Title, "Hello there")
	}
}

func TestWithMessagesKeepsDefaultTitleForSingleMessage(t *testing.T) {
	th := NewThread()
	th = th.WithMessages([]Message{NewUserMessage("only one message here")})

	if th.Title != DefaultThreadTitle {
		t.Errorf("title = %q, want default before a reply exists", th.Title)
	}
}

func TestUpdatedAtMonotonic(t *testing.T) {
	th := NewThread()

	var last time.Time
	for i := 0; i < 10; i++ {
		th = th.WithMessages(append(th.Messages, NewUserMessage("m")))
		if th.UpdatedAt.Before(last) {
			t.Fatalf("UpdatedAt went backward: %v < %v", th.UpdatedAt, last)
		}
		last = th.UpdatedAt
	}
}

func TestUsedTools(t *testing.T) {
	th := NewThread()
	if th.UsedTools() {
		t.Fatal("empty thread should not report tool usage")
	}

	th = th.WithMessages([]Message{
		NewUserMessage("analyze this"),
		NewAssistantMessage("done", ToolResult{ID: "r1", ToolName: "Analyzer", Result: "ok"}),
	})
	if !th.UsedTools() {
		t.Fatal("thread with a tool result should report tool usage")
	}
}

func TestNewErrorMessage(t *testing.T) {
	m := NewErrorMessage(errors.New("backend unreachable"))
	if m.Role != RoleAssistant {
		t.Errorf("role = %q, want assistant", m.Role)
	}
	if !strings.Contains(m.Content, "backend unreachable") {
		t.Errorf("content %q should mention the error", m.Content)
	}
	if !strings.HasPrefix(m.Content, "Sorry") {
		t.Errorf("content %q should open with an apology", m.Content)
	}

	m = NewErrorMessage(nil)
	if !strings.Contains(m.Content, "try again later") {
		t.Errorf("nil error should produce a generic message, got %q", m.Content)
	}
}
