package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultThreadTitle is the title of a thread before any user message names it.
const DefaultThreadTitle = "New conversation"

// titleWords is how many words of the first user message become the title.
const titleWords = 5

// Thread is one conversation: an append-ordered message sequence plus the
// agent selection currently in effect.
type Thread struct {
	ID             string
	Title          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Messages       []Message
	AgentID        string
	AgentSelection *AgentSelection
}

// NewThread creates an empty thread.
func NewThread() Thread {
	now := time.Now()
	return Thread{
		ID:        uuid.NewString(),
		Title:     DefaultThreadTitle,
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []Message{},
	}
}

// WithMessages returns a copy of the thread with a replaced message sequence,
// a title derived from the first user message (only once more than one
// message exists), and a bumped UpdatedAt. UpdatedAt never goes backward.
func (t Thread) WithMessages(messages []Message) Thread {
	title := t.Title
	if len(messages) > 1 {
		for _, m := range messages {
			if m.Role == RoleUser {
				title = deriveTitle(m.Content)
				break
			}
		}
	}

	updated := time.Now()
	if updated.Before(t.UpdatedAt) {
		updated = t.UpdatedAt
	}

	t.Messages = messages
	t.Title = title
	t.UpdatedAt = updated
	return t
}

// WithAgentSelection returns a copy with the agent selection replaced.
func (t Thread) WithAgentSelection(sel *AgentSelection) Thread {
	t.AgentSelection = sel
	if sel != nil {
		t.AgentID = sel.AgentID
	} else {
		t.AgentID = ""
	}
	return t
}

// UsedTools reports whether any message in the thread carries tool results.
// Once true it stays true for the lifetime of the thread.
func (t Thread) UsedTools() bool {
	for _, m := range t.Messages {
		if len(m.ToolResults) > 0 {
			return true
		}
	}
	return false
}

// deriveTitle takes the first titleWords whitespace-separated words,
// appending an ellipsis when the content was truncated.
func deriveTitle(content string) string {
	words := strings.Fields(content)
	if len(words) == 0 {
		return DefaultThreadTitle
	}
	if len(words) <= titleWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:titleWords], " ") + "..."
}
