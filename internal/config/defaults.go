package config

import "time"

// Default configuration values.
const (
	DefaultBackendURL  = "http://localhost:8000"
	DefaultHTTPTimeout = 120 * time.Second

	DefaultMaxRetries = 3
	DefaultRetryDelay = 1 * time.Second

	DefaultProvider        = "gemini"
	DefaultModel           = "gemini-2.5-flash"
	DefaultOllamaBaseURL   = "http://localhost:11434"
	DefaultTemperature     = 0.7
	DefaultMaxOutputTokens = 8192

	DefaultDetectTimeout = 15 * time.Second

	DefaultWatcherDebounceMs = 500
)

// DefaultConfig returns a Config populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:     DefaultBackendURL,
			HTTPTimeout: DefaultHTTPTimeout,
			Retry: RetryConfig{
				MaxRetries: DefaultMaxRetries,
				RetryDelay: DefaultRetryDelay,
			},
		},
		LLM: LLMConfig{
			Provider:        DefaultProvider,
			Model:           DefaultModel,
			OllamaBaseURL:   DefaultOllamaBaseURL,
			Temperature:     DefaultTemperature,
			MaxOutputTokens: DefaultMaxOutputTokens,
			Retry: RetryConfig{
				MaxRetries: DefaultMaxRetries,
				RetryDelay: DefaultRetryDelay,
			},
		},
		Detect: DetectConfig{
			Enabled: true,
			Timeout: DefaultDetectTimeout,
		},
		UI: UIConfig{
			MarkdownRendering: true,
			ShowAgentStatus:   true,
			Theme:             "dark",
			MouseMode:         "enabled",
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
		},
		Watcher: WatcherConfig{
			Enabled:    true,
			DebounceMs: DefaultWatcherDebounceMs,
		},
	}
}
