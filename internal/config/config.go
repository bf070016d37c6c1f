package config

import "time"

// Config represents the main application configuration.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	LLM     LLMConfig     `yaml:"llm"`
	Detect  DetectConfig  `yaml:"detect"`
	UI      UIConfig      `yaml:"ui"`
	Logging LoggingConfig `yaml:"logging"`
	Watcher WatcherConfig `yaml:"watcher"`

	// Runtime version information
	Version string `yaml:"-"`
}

// BackendConfig holds settings for the assistant backend API.
type BackendConfig struct {
	// Base URL of the agent backend (default: http://localhost:8000)
	BaseURL string `yaml:"base_url"`

	// Optional bearer token for deployments behind an auth proxy
	APIKey string `yaml:"api_key,omitempty"`

	HTTPTimeout time.Duration `yaml:"http_timeout"`
	Retry       RetryConfig   `yaml:"retry"`
}

// RetryConfig holds retry settings for network calls.
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"` // Maximum number of retry attempts (default: 3)
	RetryDelay time.Duration `yaml:"retry_delay"` // Initial delay between retries (default: 1s)
}

// LLMConfig holds settings for the generative-model provider.
type LLMConfig struct {
	// Active provider: gemini or ollama (default: gemini)
	Provider string `yaml:"provider"`

	GeminiKey string `yaml:"gemini_key,omitempty"`

	// Ollama server URL (default: http://localhost:11434)
	OllamaBaseURL string `yaml:"ollama_base_url,omitempty"`
	OllamaKey     string `yaml:"ollama_key,omitempty"` // Optional, for remote servers with auth

	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature"`
	MaxOutputTokens int32   `yaml:"max_output_tokens"`

	Retry RetryConfig `yaml:"retry"`
}

// DetectConfig holds agent auto-detection settings.
type DetectConfig struct {
	// Auto-detect the agent on the first message of a thread
	Enabled bool `yaml:"enabled"`

	// Timeout for a single detection call. Detection is best-effort and
	// never blocks the send path past this.
	Timeout time.Duration `yaml:"timeout"`
}

// UIConfig holds UI-related settings.
type UIConfig struct {
	MarkdownRendering bool   `yaml:"markdown_rendering"`
	ShowAgentStatus   bool   `yaml:"show_agent_status"`
	Theme             string `yaml:"theme"`      // dark or light
	MouseMode         string `yaml:"mouse_mode"` // "enabled" (default) or "disabled"
}

// MouseEnabled reports whether mouse support should be turned on. Anything
// other than an explicit "disabled" keeps the default behaviour.
func (u UIConfig) MouseEnabled() bool {
	return u.MouseMode != "disabled"
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"` // debug, info, warn, error
}

// WatcherConfig holds config hot-reload settings.
type WatcherConfig struct {
	Enabled    bool `yaml:"enabled"`
	DebounceMs int  `yaml:"debounce_ms"`
}
