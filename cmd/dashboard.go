package cmd

import (
	"fmt"

	"github.com/theirongolddev/tokentrack/internal/config"
	"github.com/theirongolddev/tokentrack/internal/ingest"
	"github.com/theirongolddev/tokentrack/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var flagDashIngest bool

var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"tui"},
	Short:   "Launch the live usage dashboard",
	RunE:    runDashboard,
}

func init() {
	dashboardCmd.Flags().BoolVar(&flagDashIngest, "ingest", false, "Rescan all projects before opening")
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if flagDashIngest {
		if _, err := ingest.Run(config.ClaudeDir(cfg), ingest.Trigger{}, st); err != nil {
			return fmt.Errorf("ingesting: %w", err)
		}
	}

	app := tui.NewApp(st, cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}
