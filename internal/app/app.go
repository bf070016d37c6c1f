// Package app wires configuration, clients, orchestrator, watcher, and the
// TUI together, and owns their lifecycle.
package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"mizan/internal/backend"
	"mizan/internal/chat"
	"mizan/internal/config"
	"mizan/internal/gateway"
	"mizan/internal/llm"
	"mizan/internal/logging"
	"mizan/internal/orchestrator"
	"mizan/internal/router"
	"mizan/internal/ui"
	"mizan/internal/watcher"
)

// App holds the assembled components for one client session.
type App struct {
	cfg     *config.Config
	llm     llm.Client
	orch    *orchestrator.Orchestrator
	watcher *watcher.Watcher
}

// New assembles an App from loaded configuration.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if cfg.Logging.Enabled {
		if err := logging.EnableFileLogging(config.ConfigDir(), logging.ParseLevel(cfg.Logging.Level)); err != nil {
			return nil, fmt.Errorf("failed to enable logging: %w", err)
		}
	}

	backendClient, err := backend.NewClient(cfg.Backend)
	if err != nil {
		return nil, err
	}

	llmClient, err := llm.NewFromConfig(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.LLM.Provider, err)
	}

	store := chat.NewStore()
	gw := gateway.New(backendClient, llmClient)
	detector := router.NewDetector(llmClient, cfg.Detect)
	orch := orchestrator.New(store, gw, llmClient, detector, cfg.Detect.Enabled)

	w, err := watcher.New(config.GetConfigPath(), cfg.Watcher)
	if err != nil {
		logging.Warn("Config watcher unavailable", "error", err)
		w = nil
	}

	return &App{cfg: cfg, llm: llmClient, orch: orch, watcher: w}, nil
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run() error {
	defer a.close()

	model := ui.NewModel(a.orch, ui.Options{
		Theme:             a.cfg.UI.Theme,
		MarkdownRendering: a.cfg.UI.MarkdownRendering,
		ShowAgentStatus:   a.cfg.UI.ShowAgentStatus,
		Version:           a.cfg.Version,
	})

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if a.cfg.UI.MouseEnabled() {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	program := tea.NewProgram(model, opts...)

	// Store mutations land on the UI loop as snapshot messages.
	a.orch.Store().SetChangeHandler(func(threads []chat.Thread, activeID string) {
		program.Send(ui.ThreadsChangedMsg{Threads: threads, ActiveID: activeID})
	})

	if a.watcher != nil {
		a.watcher.SetOnReload(func(cfg *config.Config) {
			logging.SetLevel(logging.ParseLevel(cfg.Logging.Level))
			program.Send(ui.ConfigReloadedMsg{
				Theme:             cfg.UI.Theme,
				MarkdownRendering: cfg.UI.MarkdownRendering,
				ShowAgentStatus:   cfg.UI.ShowAgentStatus,
			})
		})
		if err := a.watcher.Start(); err != nil {
			logging.Warn("Config watcher failed to start", "error", err)
		}
	}

	logging.Info("Starting mizan", "provider", a.cfg.LLM.Provider, "model", a.cfg.LLM.Model, "backend", a.cfg.Backend.BaseURL)
	_, err := program.Run()
	return err
}

func (a *App) close() {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.llm != nil {
		if err := a.llm.Close(); err != nil {
			logging.Warn("Error closing model client", "error", err)
		}
	}
	logging.Close()
}
