package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/theirongolddev/tokentrack/internal/cli"
	"github.com/theirongolddev/tokentrack/internal/config"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Rolling-window usage against the plan's rate limit",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	plan := config.ActivePlan(cfg)

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	window, err := st.RollingWindow(config.WindowHours)
	if err != nil {
		return fmt.Errorf("querying rolling window: %w", err)
	}

	limit := plan.Limit()
	pct := float64(window.OutputTokens) / float64(limit)
	if pct > 1 {
		pct = 1
	}

	const barWidth = 30
	filled := int(pct * barWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	fmt.Println()
	fmt.Printf("  Plan: %s  (%s output tokens / %dh window)\n",
		plan.Name(), cli.FormatTokens(limit), config.WindowHours)
	fmt.Printf("  [%s]  %s / %s (%s)%s\n",
		bar,
		cli.FormatTokens(window.OutputTokens),
		cli.FormatTokens(limit),
		cli.FormatPercent(pct),
		resetHint(window.OldestTurn),
	)
	fmt.Printf("  Window: %s turns, %s sessions, %s total tokens, %s\n",
		cli.FormatNumber(window.Turns),
		cli.FormatNumber(window.Sessions),
		cli.FormatTokens(window.TotalTokens()),
		cli.FormatCost(window.CostUSD),
	)
	return nil
}

// resetHint estimates when the oldest in-window turn falls out of the
// window, freeing up rate-limit headroom.
func resetHint(oldest string) string {
	if oldest == "" {
		return ""
	}
	ts, err := time.Parse(time.RFC3339Nano, oldest)
	if err != nil {
		return ""
	}
	remaining := time.Until(ts.Add(config.WindowHours * time.Hour))
	if remaining <= 0 {
		return ""
	}
	return fmt.Sprintf("  resets in ~%dh%02dm",
		int(remaining.Hours()), int(remaining.Minutes())%60)
}
