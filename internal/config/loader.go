package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	configPath := getConfigPath()
	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			// Config file is optional, don't fail if it doesn't exist
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	loadFromEnv(cfg)

	return cfg, nil
}

// configPathOverride is set via the --config flag and wins over discovery.
var configPathOverride string

// SetConfigPath overrides config file discovery for this process.
func SetConfigPath(path string) {
	configPathOverride = path
}

// getConfigPath returns the path to the config file.
func getConfigPath() string {
	if configPathOverride != "" {
		return configPathOverride
	}
	if p := os.Getenv("MIZAN_CONFIG"); p != "" {
		return p
	}

	// Check XDG_CONFIG_HOME first
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "mizan", "config.yaml")
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	if runtime.GOOS == "darwin" {
		appSupport := filepath.Join(homeDir, "Library", "Application Support", "mizan", "config.yaml")
		if _, err := os.Stat(appSupport); err == nil {
			return appSupport
		}
		dotConfig := filepath.Join(homeDir, ".config", "mizan", "config.yaml")
		if _, err := os.Stat(dotConfig); err == nil {
			return dotConfig
		}
		return appSupport
	}

	return filepath.Join(homeDir, ".config", "mizan", "config.yaml")
}

// loadFromFile loads configuration from a YAML file.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	// Expand environment variables in the config file
	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

// loadFromEnv loads configuration from environment variables.
func loadFromEnv(cfg *Config) {
	// Priority: MIZAN_API_KEY > GEMINI_API_KEY
	if apiKey := os.Getenv("MIZAN_API_KEY"); apiKey != "" {
		cfg.LLM.GeminiKey = apiKey
	} else if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		cfg.LLM.GeminiKey = apiKey
	}

	if url := os.Getenv("MIZAN_BACKEND_URL"); url != "" {
		cfg.Backend.BaseURL = url
	}

	if model := os.Getenv("MIZAN_MODEL"); model != "" {
		cfg.LLM.Model = model
	}

	if provider := os.Getenv("MIZAN_PROVIDER"); provider != "" {
		cfg.LLM.Provider = provider
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Backend.BaseURL == "" {
		return ConfigError("backend base_url must not be empty")
	}
	if c.LLM.Provider == "gemini" && c.LLM.GeminiKey == "" {
		return ErrMissingAuth
	}
	return nil
}

// ConfigError is an error type for configuration validation.
type ConfigError string

func (e ConfigError) Error() string {
	return string(e)
}

const (
	ErrMissingAuth ConfigError = "missing authentication: set GEMINI_API_KEY or MIZAN_API_KEY, or switch llm.provider to ollama"
)

// GetConfigPath returns the path to the config file (exported for external use).
func GetConfigPath() string {
	return getConfigPath()
}

// ConfigDir returns the directory containing the config file.
func ConfigDir() string {
	p := getConfigPath()
	if p == "" {
		return ""
	}
	return filepath.Dir(p)
}

// Save saves the configuration to the config file.
func (c *Config) Save() error {
	configPath := getConfigPath()
	if configPath == "" {
		return fmt.Errorf("could not determine config path")
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write to a temp file then rename (atomic on POSIX). 0600 because the
	// file may contain API keys.
	tmpPath := configPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if err := os.Rename(tmpPath, configPath); err != nil {
		// If rename fails, try direct write (Windows filesystem)
		if err := os.WriteFile(configPath, data, 0600); err != nil {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}

	return nil
}
