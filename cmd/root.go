// Package cmd implements the tokentrack CLI commands.
package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/tokentrack/internal/config"
	"github.com/theirongolddev/tokentrack/internal/store"

	"github.com/spf13/cobra"
)

var (
	flagDataDir string
	flagDBPath  string
)

var rootCmd = &cobra.Command{
	Use:   "tokentrack",
	Short: "Claude Code token usage tracker",
	Long:  "Track Claude Code token usage and costs: ingest session transcripts, query aggregates, watch the live dashboard.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Claude data directory (default ~/.claude)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Database path (default under the cache dir)")
}

// loadConfig reads the config document, applying the --data-dir override.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagDataDir != "" {
		cfg.General.ClaudeDir = flagDataDir
	}
	return cfg, nil
}

func dbPath() string {
	if flagDBPath != "" {
		return flagDBPath
	}
	return store.DefaultPath()
}

// openStore opens the aggregate store shared by every command.
func openStore() (*store.Store, error) {
	st, err := store.Open(dbPath())
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return st, nil
}
