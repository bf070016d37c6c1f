package chat

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ToolResult is the raw payload returned by a backend tool, attached to
// exactly one assistant message. Its Result shape varies per tool and is
// opaque here; only the panel classifier interprets it.
type ToolResult struct {
	ID       string
	ToolName string
	Result   any // string or a decoded JSON object
}

// Message is a single entry in a thread's transcript. Messages are immutable
// once appended, except the in-flight streaming message, which is replaced
// (not mutated in place) on each chunk.
type Message struct {
	ID             string
	Role           Role
	Content        string
	Timestamp      time.Time
	ToolResults    []ToolResult
	IsStreaming    bool
	IsSystemPrompt bool
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleUser,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewAssistantMessage creates an assistant message with optional tool results.
func NewAssistantMessage(content string, toolResults ...ToolResult) Message {
	return Message{
		ID:          uuid.NewString(),
		Role:        RoleAssistant,
		Content:     content,
		Timestamp:   time.Now(),
		ToolResults: toolResults,
	}
}

// NewErrorMessage wraps any failure into a user-visible assistant message.
// Raw internals beyond the error text are never exposed.
func NewErrorMessage(err error) Message {
	detail := "Please try again later."
	if err != nil {
		detail = err.Error()
	}
	return Message{
		ID:        uuid.NewString(),
		Role:      RoleAssistant,
		Content:   fmt.Sprintf("Sorry, I encountered an error: %s", detail),
		Timestamp: time.Now(),
	}
}

// NewMissingInfoMessage creates the assistant prompt shown when a tool call
// cannot proceed without more input from the user.
func NewMissingInfoMessage(prompt string) Message {
	if prompt == "" {
		prompt = "Please provide more information."
	}
	return Message{
		ID:             uuid.NewString(),
		Role:           RoleAssistant,
		Content:        prompt,
		Timestamp:      time.Now(),
		IsSystemPrompt: true,
	}
}

// Tool is a static catalog entry for a backend tool.
type Tool struct {
	ID          string
	Name        string
	Description string
	Icon        string
}

// SelectionStatus describes how the thread's agent selection came to be.
type SelectionStatus string

const (
	StatusSuggested SelectionStatus = "suggested"
	// StatusConfirmed is part of the backend enum but has no producer in the
	// client flow; it is kept for wire compatibility.
	StatusConfirmed  SelectionStatus = "confirmed"
	StatusOverridden SelectionStatus = "overridden"
)

// AgentSelection records why an agent was chosen for a thread. A thread has
// at most one current selection, overwritten on each detection or manual
// override.
type AgentSelection struct {
	AgentID        string
	Reason         string
	RequiredInputs []string
	Status         SelectionStatus
}
