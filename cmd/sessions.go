package cmd

import (
	"fmt"

	"github.com/theirongolddev/tokentrack/internal/cli"
	"github.com/theirongolddev/tokentrack/internal/store"

	"github.com/spf13/cobra"
)

var flagSessionLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions [session-id]",
	Short: "List sessions, or show one session's turns",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSessions,
}

func init() {
	sessionsCmd.Flags().IntVarP(&flagSessionLimit, "limit", "l", 0, "Maximum sessions to list (default from config)")
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(_ *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	if len(args) == 1 {
		return showSessionDetail(st, args[0])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	limit := flagSessionLimit
	if limit <= 0 {
		limit = cfg.General.SessionLimit
	}

	sessions, err := st.Sessions(limit)
	if err != nil {
		return fmt.Errorf("querying sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Println("\n  No sessions recorded yet.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SESSIONS"))
	fmt.Println()

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			cli.FormatTimestamp(s.LastSeen),
			cli.ShortPath(s.ProjectPath, 40),
			s.Model,
			cli.FormatNumber(s.Turns),
			cli.FormatTokens(s.InputTokens),
			cli.FormatTokens(s.OutputTokens),
			cli.FormatCost(s.CostUSD),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Last Active", "Project", "Model", "Turns", "Input", "Output", "Cost"},
		Rows:    rows,
	}))
	return nil
}

func showSessionDetail(st *store.Store, sessionID string) error {
	turns, err := st.SessionTurns(sessionID)
	if err != nil {
		return fmt.Errorf("querying session turns: %w", err)
	}
	if len(turns) == 0 {
		fmt.Printf("\n  No turns found for session %s.\n", sessionID)
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("SESSION " + shortID(sessionID)))
	fmt.Println()

	var totalCost float64
	rows := make([][]string, 0, len(turns))
	for _, t := range turns {
		totalCost += t.CostUSD
		rows = append(rows, []string{
			cli.FormatTimestamp(t.Timestamp),
			t.Model,
			cli.FormatTokens(t.InputTokens),
			cli.FormatTokens(t.OutputTokens),
			cli.FormatTokens(t.CacheReadTokens),
			cli.FormatTokens(t.CacheCreationTokens),
			cli.FormatCost(t.CostUSD),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Timestamp", "Model", "Input", "Output", "Cache-R", "Cache-W", "Cost"},
		Rows:    rows,
	}))
	fmt.Printf("\n  %d turns, total cost %s\n", len(turns), cli.FormatCost(totalCost))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8] + "…"
	}
	return id
}
