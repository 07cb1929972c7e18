package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/choose-paper/review-agent/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "review-agent",
	Short: "LLM-based paper review agent",
	Long:  "Reads a paper from a file, URL, or stdin, asks an OpenAI-compatible model to act as a strict peer reviewer, and returns the plain-text verdict.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
