package cmd

import (
	"fmt"

	"github.com/theirongolddev/tokentrack/internal/cli"
	"github.com/theirongolddev/tokentrack/internal/config"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the active rate-limit plan",
	RunE:  runPlanShow,
}

var planSetCmd = &cobra.Command{
	Use:   "set <pro|max5|max20>",
	Short: "Set the active plan",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlanSet,
}

var planCycleCmd = &cobra.Command{
	Use:   "cycle",
	Short: "Advance to the next plan",
	RunE:  runPlanCycle,
}

func init() {
	planCmd.AddCommand(planSetCmd)
	planCmd.AddCommand(planCycleCmd)
	rootCmd.AddCommand(planCmd)
}

func runPlanShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	plan := config.ActivePlan(cfg)
	fmt.Printf("  Active plan: %s (%s output tokens / %dh window)\n",
		plan.Name(), cli.FormatTokens(plan.Limit()), config.WindowHours)
	return nil
}

func runPlanSet(_ *cobra.Command, args []string) error {
	plan, err := config.SetPlan(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("  Plan set to %s.\n", plan.Name())
	return nil
}

func runPlanCycle(_ *cobra.Command, _ []string) error {
	plan, err := config.CyclePlan()
	if err != nil {
		return err
	}
	fmt.Printf("  Plan is now %s.\n", plan.Name())
	return nil
}
