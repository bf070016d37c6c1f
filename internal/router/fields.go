package router

import (
	"fmt"
	"strings"

	"mizan/internal/chat"
)

// ValidationResult reports whether the user has supplied all inputs the
// detector flagged as required before a tool can run.
type ValidationResult struct {
	Valid         bool
	MissingFields []string
	PromptMessage string
}

// ValidateRequiredFields checks each required input against the user's
// message. The check is a plain substring match on the field name; the
// detector is asked to phrase required inputs so that this holds.
func ValidateRequiredFields(sel *chat.AgentSelection, userMessage string) ValidationResult {
	if sel == nil || len(sel.RequiredInputs) == 0 {
		return ValidationResult{Valid: true}
	}

	lower := strings.ToLower(userMessage)
	var missing []string
	for _, field := range sel.RequiredInputs {
		if !strings.Contains(lower, strings.ToLower(field)) {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return ValidationResult{Valid: true}
	}

	return ValidationResult{
		Valid:         false,
		MissingFields: missing,
		PromptMessage: promptMessage(sel.AgentID, missing),
	}
}

func promptMessage(agentID string, missingFields []string) string {
	var context string
	switch agentID {
	case "product-design":
		context = " to design your Islamic finance product"
	case "compliance-verification":
		context = " to verify compliance with AAOIFI standards"
	case "journaling":
		context = " to generate the correct journal entries"
	case "analyzer":
		context = " to analyze these journal entries"
	}

	var list strings.Builder
	for i, field := range missingFields {
		if i > 0 {
			list.WriteByte('\n')
		}
		fmt.Fprintf(&list, "• %s", field)
	}

	return fmt.Sprintf("I need more information%s. Please provide the following details:\n\n%s\n\nOnce you provide this information, I'll be able to assist you more effectively.", context, list.String())
}

// IsResponseToPrompt reports whether the last message in the thread was a
// missing-information prompt, meaning the next user message answers it.
func IsResponseToPrompt(messages []chat.Message) bool {
	if len(messages) == 0 {
		return false
	}
	return messages[len(messages)-1].IsSystemPrompt
}

// CombinedMessage joins the current user message with the user messages that
// preceded the last missing-information prompt, so fields supplied across
// several turns all count toward validation.
func CombinedMessage(messages []chat.Message, current string) string {
	combined := current
	foundPrompt := false
	for i := len(messages) - 1; i >= 0; i-- {
		m := messages[i]
		if m.IsSystemPrompt {
			foundPrompt = true
			continue
		}
		if foundPrompt && m.Role == chat.RoleUser {
			combined += " " + m.Content
		}
	}
	return combined
}
