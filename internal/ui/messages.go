package ui

import "mizan/internal/chat"

// ThreadsChangedMsg carries a fresh snapshot of the thread store. The app
// layer sends it into the program whenever the store changes.
type ThreadsChangedMsg struct {
	Threads  []chat.Thread
	ActiveID string
}

// ConfigReloadedMsg signals a hot config reload; the model re-reads theme
// and rendering settings.
type ConfigReloadedMsg struct {
	Theme             string
	MarkdownRendering bool
	ShowAgentStatus   bool
}

// sendDoneMsg reports completion of an async SendMessage call.
type sendDoneMsg struct {
	err error
}

// copiedMsg reports the outcome of a clipboard copy.
type copiedMsg struct {
	err error
}
