package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mizan/internal/app"
	"mizan/internal/config"
)

var (
	version      = "0.1.0"
	cfgFile      string
	backendURL   string
	model        string
	provider     string
	noAutoDetect bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "mizan",
		Short: "Terminal client for an Islamic finance assistant",
		Long: `Mizan is a terminal chat client for an Islamic finance assistant backend.
It routes questions to specialized agents for journal entries, transaction
analysis, standards enhancement, product design, and AAOIFI compliance
verification, and streams the answers into a conversational transcript.`,
		RunE:          runApp,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/mizan/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&backendURL, "backend-url", "", "backend base URL (default is http://localhost:8000)")
	rootCmd.PersistentFlags().StringVar(&model, "model", "", "model to use for detection and summarization")
	rootCmd.PersistentFlags().StringVar(&provider, "provider", "", "model provider: gemini or ollama")
	rootCmd.PersistentFlags().BoolVar(&noAutoDetect, "no-auto-detect", false, "disable agent auto-detection")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("mizan version %s\n", version)
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "config-path",
		Short: "Print the config file location",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(config.GetConfigPath())
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runApp(cmd *cobra.Command, args []string) error {
	if cfgFile != "" {
		config.SetConfigPath(cfgFile)
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Version = version

	if backendURL != "" {
		cfg.Backend.BaseURL = backendURL
	}
	if model != "" {
		cfg.LLM.Model = model
	}
	if provider != "" {
		cfg.LLM.Provider = provider
	}
	if noAutoDetect {
		cfg.Detect.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := app.New(context.Background(), cfg)
	if err != nil {
		return err
	}
	return a.Run()
}
