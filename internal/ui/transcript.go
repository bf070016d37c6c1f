package ui

import (
	"fmt"
	"strings"

	"mizan/internal/chat"
	"mizan/internal/gateway"
	"mizan/internal/panel"
)

// renderTranscript renders the active thread's messages for the viewport.
func (m *Model) renderTranscript(thread chat.Thread) string {
	if len(thread.Messages) == 0 {
		return m.styles.MutedText.Render("Ask about Islamic finance standards, or pick a tool with ctrl+t.")
	}

	var b strings.Builder
	for i, msg := range thread.Messages {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(m.renderMessage(msg))
	}

	if m.showAgentStatus && thread.AgentSelection != nil {
		b.WriteString("\n\n")
		b.WriteString(m.renderAgentStatus(thread.AgentSelection))
	}
	return b.String()
}

func (m *Model) renderMessage(msg chat.Message) string {
	var b strings.Builder
	switch {
	case msg.Role == chat.RoleUser:
		b.WriteString(m.styles.UserLabel.Render("You"))
	case msg.IsSystemPrompt:
		b.WriteString(m.styles.SystemLabel.Render("Assistant (needs input)"))
	default:
		b.WriteString(m.styles.AgentLabel.Render("Assistant"))
	}
	b.WriteString("\n")

	content := msg.Content
	if msg.IsStreaming && content == "" {
		content = m.styles.MutedText.Render("thinking…")
	} else if m.markdownRendering && msg.Role == chat.RoleAssistant && !msg.IsStreaming {
		content = strings.TrimRight(m.renderer.Render(panel.Variant{Kind: panel.KindPlainText, Text: content}), "\n")
	}
	b.WriteString(content)

	for _, tr := range msg.ToolResults {
		b.WriteString("\n")
		b.WriteString(m.styles.MutedText.Render(fmt.Sprintf("[%s result — press ctrl+o to inspect]", tr.ToolName)))
	}
	return b.String()
}

func (m *Model) renderAgentStatus(sel *chat.AgentSelection) string {
	label := gateway.ToolName(sel.AgentID)
	switch sel.Status {
	case chat.StatusOverridden:
		return m.styles.MutedText.Render(fmt.Sprintf("Agent: %s (manually selected)", label))
	default:
		return m.styles.MutedText.Render(fmt.Sprintf("Agent: %s — %s", label, sel.Reason))
	}
}
