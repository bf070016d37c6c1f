package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"mizan/internal/gateway"
)

func (m *Model) handleToolPickerKey(msg tea.KeyMsg) tea.Cmd {
	tools := gateway.Catalog()
	switch msg.String() {
	case "esc", "ctrl+t", "q":
		m.overlay = overlayNone
	case "up", "k":
		if m.toolCursor > 0 {
			m.toolCursor--
		}
	case "down", "j":
		if m.toolCursor < len(tools)-1 {
			m.toolCursor++
		}
	case "enter", " ":
		if m.toolCursor < len(tools) {
			m.orch.ToggleTool(tools[m.toolCursor].ID)
		}
		m.overlay = overlayNone
	case "ctrl+c":
		return tea.Quit
	}
	return nil
}

func (m Model) viewToolPicker() string {
	thread, _ := m.activeThread()
	used := thread.UsedTools()
	selected := m.orch.SelectedTool()

	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Tools"))
	b.WriteString("\n")
	if used {
		b.WriteString(m.styles.MutedText.Render("A tool was already used in this thread; tools are single-use."))
	} else {
		b.WriteString(m.styles.MutedText.Render("enter toggles · esc closes"))
	}
	b.WriteString("\n\n")

	for i, tool := range gateway.Catalog() {
		cursor := "  "
		if i == m.toolCursor {
			cursor = "▸ "
		}
		marker := " "
		if tool.ID == selected {
			marker = "✓"
		}
		line := fmt.Sprintf("%s[%s] %s %s — %s", cursor, marker, tool.Icon, tool.Name, tool.Description)

		style := m.styles.ToolItem
		if used {
			style = m.styles.ToolDisabled
		} else if tool.ID == selected {
			style = m.styles.ToolSelected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}

	return m.styles.Overlay.Width(m.transcriptWidth()).Render(b.String())
}
