package cmd

import (
	"fmt"

	"github.com/theirongolddev/tokentrack/internal/cli"
	"github.com/theirongolddev/tokentrack/internal/model"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "All-time and today's usage summary",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func aggregateRows(a model.Aggregate) [][]string {
	return [][]string{
		{"Sessions", cli.FormatNumber(a.Sessions)},
		{"Turns", cli.FormatNumber(a.Turns)},
		{"Input Tokens", cli.FormatTokens(a.InputTokens)},
		{"Output Tokens", cli.FormatTokens(a.OutputTokens)},
		{"Cache Write", cli.FormatTokens(a.CacheCreationTokens)},
		{"Cache Read", cli.FormatTokens(a.CacheReadTokens)},
		{"Total Tokens", cli.FormatTokens(a.TotalTokens())},
		{"Cost", cli.FormatCost(a.CostUSD)},
	}
}

func runSummary(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	totals, err := st.Totals()
	if err != nil {
		return fmt.Errorf("querying totals: %w", err)
	}
	today, err := st.Today()
	if err != nil {
		return fmt.Errorf("querying today: %w", err)
	}

	if totals.Turns == 0 {
		fmt.Println("\n  No usage recorded yet.")
		fmt.Println("  Run `tokentrack ingest --full` to scan your Claude projects.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("CLAUDE TOKEN USAGE"))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"All-time", "Value"},
		Rows:    aggregateRows(totals),
	}))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Today", "Value"},
		Rows:    aggregateRows(today),
	}))
	return nil
}
