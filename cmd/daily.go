package cmd

import (
	"fmt"

	"github.com/theirongolddev/tokentrack/internal/cli"

	"github.com/spf13/cobra"
)

var flagDailyDays int

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Daily usage table",
	RunE:  runDaily,
}

func init() {
	dailyCmd.Flags().IntVarP(&flagDailyDays, "days", "n", 0, "Number of days (default from config)")
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	days := flagDailyDays
	if days <= 0 {
		days = cfg.General.DailyDays
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	daily, err := st.Daily(days)
	if err != nil {
		return fmt.Errorf("querying daily: %w", err)
	}
	if len(daily) == 0 {
		fmt.Println("\n  No data for the selected period.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY USAGE  Last %dd", days)))
	fmt.Println()

	rows := make([][]string, 0, len(daily))
	for _, d := range daily {
		rows = append(rows, []string{
			d.Day,
			cli.FormatNumber(d.Sessions),
			cli.FormatNumber(d.Turns),
			cli.FormatTokens(d.TotalTokens()),
			cli.FormatCost(d.CostUSD),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Date", "Sessions", "Turns", "Tokens", "Cost"},
		Rows:    rows,
	}))
	return nil
}
