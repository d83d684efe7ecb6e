package cmd

import (
	"fmt"

	"github.com/theirongolddev/tokentrack/internal/cli"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Usage rollup by project",
	RunE:  runProjects,
}

func init() {
	rootCmd.AddCommand(projectsCmd)
}

func runProjects(_ *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	projects, err := st.Projects()
	if err != nil {
		return fmt.Errorf("querying projects: %w", err)
	}
	if len(projects) == 0 {
		fmt.Println("\n  No usage recorded yet.")
		return nil
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("PROJECTS"))
	fmt.Println()

	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			cli.ShortPath(p.ProjectPath, 50),
			cli.FormatNumber(p.Sessions),
			cli.FormatNumber(p.Turns),
			cli.FormatTokens(p.InputTokens),
			cli.FormatTokens(p.OutputTokens),
			cli.FormatCost(p.CostUSD),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Project", "Sessions", "Turns", "Input", "Output", "Cost"},
		Rows:    rows,
	}))
	return nil
}
