package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"mizan/internal/panel"
)

func (m *Model) handleDetailPanelKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc", "ctrl+o", "q":
		m.overlay = overlayNone
	case "r":
		m.panelRaw = !m.panelRaw
	case "ctrl+c":
		return tea.Quit
	}
	return nil
}

// viewDetailPanel renders the newest tool result, classified for structured
// display or raw highlighted JSON when toggled.
func (m Model) viewDetailPanel() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Tool Result"))
	b.WriteString("  ")
	if m.panelRaw {
		b.WriteString(m.styles.MutedText.Render("raw · r formatted · esc close"))
	} else {
		b.WriteString(m.styles.MutedText.Render("formatted · r raw · esc close"))
	}
	b.WriteString("\n\n")

	if m.panelRaw {
		b.WriteString(m.renderer.RenderJSON(m.lastResult))
	} else {
		b.WriteString(m.renderer.Render(panel.Classify(m.lastResult)))
	}

	return m.styles.Overlay.Width(m.transcriptWidth()).Render(b.String())
}
