package ui

import "github.com/charmbracelet/lipgloss"

// Colors for the UI theme.
var (
	ColorPrimary = lipgloss.Color("#A78BFA") // Soft Purple
	ColorAccent  = lipgloss.Color("#22D3EE") // Bright Cyan
	ColorSuccess = lipgloss.Color("#059669") // Emerald
	ColorWarning = lipgloss.Color("#D97706") // Amber
	ColorError   = lipgloss.Color("#DC2626") // Red
	ColorMuted   = lipgloss.Color("#9CA3AF") // Neutral Gray
	ColorText    = lipgloss.Color("#F1F5F9") // Soft White
	ColorBorder  = lipgloss.Color("#1E293B") // Subtle Slate
)

// Styles holds the lipgloss styles used across the TUI.
type Styles struct {
	Title        lipgloss.Style
	StatusBar    lipgloss.Style
	UserLabel    lipgloss.Style
	AgentLabel   lipgloss.Style
	SystemLabel  lipgloss.Style
	ErrorText    lipgloss.Style
	MutedText    lipgloss.Style
	Sidebar      lipgloss.Style
	SidebarItem  lipgloss.Style
	SidebarFocus lipgloss.Style
	ToolItem     lipgloss.Style
	ToolSelected lipgloss.Style
	ToolDisabled lipgloss.Style
	Overlay      lipgloss.Style
	InputBox     lipgloss.Style
}

// NewStyles builds the style set. The light theme swaps the text and muted
// tones; everything else is shared.
func NewStyles(theme string) *Styles {
	text := ColorText
	muted := ColorMuted
	if theme == "light" {
		text = lipgloss.Color("#1E293B")
		muted = lipgloss.Color("#64748B")
	}

	return &Styles{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		StatusBar:    lipgloss.NewStyle().Foreground(muted),
		UserLabel:    lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
		AgentLabel:   lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary),
		SystemLabel:  lipgloss.NewStyle().Bold(true).Foreground(ColorWarning),
		ErrorText:    lipgloss.NewStyle().Foreground(ColorError),
		MutedText:    lipgloss.NewStyle().Foreground(muted),
		Sidebar:      lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, true, false, false).BorderForeground(ColorBorder).PaddingRight(1),
		SidebarItem:  lipgloss.NewStyle().Foreground(text),
		SidebarFocus: lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
		ToolItem:     lipgloss.NewStyle().Foreground(text),
		ToolSelected: lipgloss.NewStyle().Bold(true).Foreground(ColorSuccess),
		ToolDisabled: lipgloss.NewStyle().Foreground(muted).Faint(true),
		Overlay:      lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorPrimary).Padding(1, 2),
		InputBox:     lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true, false, false, false).BorderForeground(ColorBorder),
	}
}
