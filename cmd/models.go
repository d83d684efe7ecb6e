package cmd

import (
	"fmt"

	"github.com/theirongolddev/tokentrack/internal/cli"

	"github.com/spf13/cobra"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Usage rollup by model",
	RunE:  runModels,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}

func runModels(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	models, err := st.Models()
	if err != nil {
		return fmt.Errorf("querying models: %w", err)
	}
	if len(models) == 0 {
		fmt.Println("\n  No usage recorded yet.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("MODELS"))
	fmt.Println()

	rows := make([][]string, 0, len(models))
	for _, m := range models {
		rows = append(rows, []string{
			m.Model,
			cli.FormatNumber(m.Turns),
			cli.FormatTokens(m.InputTokens),
			cli.FormatTokens(m.OutputTokens),
			cli.FormatTokens(m.CacheReadTokens),
			cli.FormatCost(m.CostUSD),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Model", "Turns", "Input", "Output", "Cache-R", "Cost"},
		Rows:    rows,
	}))
	return nil
}
