// Package ui implements the terminal front end: a transcript viewport with a
// thread sidebar, a tool picker, and a detail panel for raw tool results.
package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mizan/internal/chat"
	"mizan/internal/gateway"
	"mizan/internal/logging"
	"mizan/internal/orchestrator"
	"mizan/internal/panel"
)

// overlayMode identifies which overlay, if any, covers the transcript.
type overlayMode int

const (
	overlayNone overlayMode = iota
	overlayToolPicker
	overlayDetailPanel
)

const sidebarWidth = 24

// Options configures the initial UI state from loaded configuration.
type Options struct {
	Theme             string
	MarkdownRendering bool
	ShowAgentStatus   bool
	Version           string
}

// Model is the root bubbletea model.
type Model struct {
	orch     *orchestrator.Orchestrator
	styles   *Styles
	renderer *panel.Renderer

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	threads  []chat.Thread
	activeID string

	overlay    overlayMode
	toolCursor int
	panelRaw   bool
	lastResult any

	width  int
	height int
	ready  bool

	markdownRendering bool
	showAgentStatus   bool
	theme             string
	version           string
	status            string
	sending           bool
}

func NewModel(orch *orchestrator.Orchestrator, opts Options) Model {
	input := textarea.New()
	input.Placeholder = "Ask about Islamic finance standards..."
	input.CharLimit = 0
	input.SetHeight(3)
	input.ShowLineNumbers = false
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	store := orch.Store()
	return Model{
		orch:              orch,
		styles:            NewStyles(opts.Theme),
		renderer:          panel.NewRenderer(80, opts.Theme),
		input:             input,
		spinner:           sp,
		threads:           store.Threads(),
		activeID:          store.ActiveID(),
		markdownRendering: opts.MarkdownRendering,
		showAgentStatus:   opts.ShowAgentStatus,
		theme:             opts.Theme,
		version:           opts.Version,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshTranscript()
		m.ready = true

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)

	case ThreadsChangedMsg:
		m.threads = msg.Threads
		m.activeID = msg.ActiveID
		m.refreshTranscript()
		m.viewport.GotoBottom()

	case ConfigReloadedMsg:
		m.markdownRendering = msg.MarkdownRendering
		m.showAgentStatus = msg.ShowAgentStatus
		if msg.Theme != m.theme {
			m.theme = msg.Theme
			m.styles = NewStyles(msg.Theme)
			m.renderer = panel.NewRenderer(m.transcriptWidth(), msg.Theme)
		}
		m.refreshTranscript()

	case sendDoneMsg:
		m.sending = false
		if msg.err != nil {
			logging.Debug("Send finished with error", "error", msg.err)
		}

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed"
		} else {
			m.status = "copied last reply"
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	if _, isKey := msg.(tea.KeyMsg); !isKey {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.overlay == overlayToolPicker {
		return m.handleToolPickerKey(msg), true
	}
	if m.overlay == overlayDetailPanel {
		return m.handleDetailPanelKey(msg), true
	}

	switch msg.String() {
	case "ctrl+c":
		return tea.Quit, true
	case "enter":
		return m.submit(), true
	case "ctrl+t":
		m.overlay = overlayToolPicker
		m.toolCursor = 0
		return nil, true
	case "ctrl+o":
		if r := m.latestToolResult(); r != nil {
			m.lastResult = r
			m.panelRaw = false
			m.overlay = overlayDetailPanel
		} else {
			m.status = "no tool result to inspect"
		}
		return nil, true
	case "ctrl+n":
		m.orch.Store().NewThread()
		return nil, true
	case "ctrl+w":
		m.orch.Store().Delete(m.activeID)
		return nil, true
	case "alt+down":
		m.selectThread(1)
		return nil, true
	case "alt+up":
		m.selectThread(-1)
		return nil, true
	case "ctrl+y":
		return m.copyLastReply(), true
	case "ctrl+g":
		m.orch.SetAutoDetect(!m.orch.AutoDetect())
		if m.orch.AutoDetect() {
			m.status = "agent auto-detection on"
		} else {
			m.status = "agent auto-detection off"
		}
		return nil, true
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return cmd, true
	}
	return nil, false
}

func (m *Model) submit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" || m.sending {
		return nil
	}
	m.input.Reset()
	m.status = ""
	m.sending = true

	orch := m.orch
	return func() tea.Msg {
		return sendDoneMsg{err: orch.SendMessage(context.Background(), text)}
	}
}

func (m *Model) selectThread(offset int) {
	if len(m.threads) == 0 {
		return
	}
	current := 0
	for i, t := range m.threads {
		if t.ID == m.activeID {
			current = i
			break
		}
	}
	next := (current + offset + len(m.threads)) % len(m.threads)
	m.orch.Store().Select(m.threads[next].ID)
}

func (m *Model) copyLastReply() tea.Cmd {
	thread, ok := m.activeThread()
	if !ok {
		return nil
	}
	for i := len(thread.Messages) - 1; i >= 0; i-- {
		msg := thread.Messages[i]
		if msg.Role == chat.RoleAssistant && !msg.IsStreaming && msg.Content != "" {
			content := msg.Content
			return func() tea.Msg {
				return copiedMsg{err: clipboard.WriteAll(content)}
			}
		}
	}
	return nil
}

// latestToolResult finds the newest tool result in the active thread.
func (m *Model) latestToolResult() any {
	thread, ok := m.activeThread()
	if !ok {
		return nil
	}
	for i := len(thread.Messages) - 1; i >= 0; i-- {
		if trs := thread.Messages[i].ToolResults; len(trs) > 0 {
			return trs[0].Result
		}
	}
	return nil
}

func (m *Model) activeThread() (chat.Thread, bool) {
	for _, t := range m.threads {
		if t.ID == m.activeID {
			return t, true
		}
	}
	return chat.Thread{}, false
}

func (m *Model) transcriptWidth() int {
	w := m.width - sidebarWidth - 4
	if w < 20 {
		w = 20
	}
	return w
}

func (m *Model) layout() {
	contentHeight := m.height - m.input.Height() - 4
	if contentHeight < 3 {
		contentHeight = 3
	}
	if m.viewport.Width == 0 {
		m.viewport = viewport.New(m.transcriptWidth(), contentHeight)
	} else {
		m.viewport.Width = m.transcriptWidth()
		m.viewport.Height = contentHeight
	}
	m.input.SetWidth(m.width - 2)
	m.renderer = panel.NewRenderer(m.transcriptWidth(), m.theme)
}

func (m *Model) refreshTranscript() {
	thread, ok := m.activeThread()
	if !ok {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(m.renderTranscript(thread))
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var body string
	switch m.overlay {
	case overlayToolPicker:
		body = m.viewToolPicker()
	case overlayDetailPanel:
		body = m.viewDetailPanel()
	default:
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.viewSidebar(), m.viewport.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		body,
		m.styles.InputBox.Render(m.input.View()),
		m.viewStatusBar(),
	)
}

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("mizan")
	if m.version != "" {
		title += m.styles.MutedText.Render(" " + m.version)
	}
	return title
}

func (m Model) viewSidebar() string {
	var b strings.Builder
	b.WriteString(m.styles.MutedText.Render("Threads"))
	b.WriteString("\n")
	for _, t := range m.threads {
		title := t.Title
		if len(title) > sidebarWidth-3 {
			title = title[:sidebarWidth-4] + "…"
		}
		if t.ID == m.activeID {
			b.WriteString(m.styles.SidebarFocus.Render("▸ " + title))
		} else {
			b.WriteString(m.styles.SidebarItem.Render("  " + title))
		}
		b.WriteString("\n")
	}
	return m.styles.Sidebar.Width(sidebarWidth).Height(m.viewport.Height).Render(b.String())
}

func (m Model) viewStatusBar() string {
	thread, ok := m.activeThread()
	parts := []string{}

	if ok && m.orch.IsStreaming(thread.ID) {
		parts = append(parts, m.spinner.View()+" streaming")
	} else if ok && m.orch.IsLoading(thread.ID) {
		parts = append(parts, m.spinner.View()+" working")
	}

	if sel := m.orch.SelectedTool(); sel != "" {
		parts = append(parts, fmt.Sprintf("tool: %s", gateway.ToolName(sel)))
	} else if ok && thread.UsedTools() {
		parts = append(parts, "tools used")
	}
	if m.orch.AutoDetect() {
		parts = append(parts, "auto-detect")
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	parts = append(parts, "ctrl+t tools · ctrl+o panel · ctrl+n new · ctrl+c quit")

	return m.styles.StatusBar.Render(strings.Join(parts, "  │  "))
}
