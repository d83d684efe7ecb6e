package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/tokentrack/internal/config"
	"github.com/theirongolddev/tokentrack/internal/hooks"
	"github.com/theirongolddev/tokentrack/internal/ingest"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive first-run setup",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	planChoice := string(config.ActivePlan(cfg))
	installHook := true
	scanNow := true

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Claude subscription plan").
				Description("Sets the output-token ceiling for the rate-limit bar.").
				Options(
					huh.NewOption("Pro (44K / 5h)", string(config.PlanPro)),
					huh.NewOption("Max 5x (88K / 5h)", string(config.PlanMax5)),
					huh.NewOption("Max 20x (220K / 5h)", string(config.PlanMax20)),
				).
				Value(&planChoice),
			huh.NewConfirm().
				Title("Install the Stop hook?").
				Description("Ingestion then runs automatically after every session turn.").
				Value(&installHook),
			huh.NewConfirm().
				Title("Scan existing projects now?").
				Value(&scanNow),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.Plan = planChoice
	if err := config.Save(cfg); err != nil {
		return err
	}

	claudeDir := config.ClaudeDir(cfg)
	if installHook {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("resolving executable: %w", err)
		}
		if err := hooks.Install(claudeDir, hooks.Command(exe)); err != nil {
			return fmt.Errorf("installing hook: %w", err)
		}
		fmt.Println("  Stop hook installed.")
	}

	if scanNow {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()

		count, err := ingest.Run(claudeDir, ingest.Trigger{}, st)
		if err != nil {
			return fmt.Errorf("scanning projects: %w", err)
		}
		fmt.Printf("  Ingested %d turns.\n", count)
	}

	fmt.Println("  Setup complete. Run `tokentrack dashboard` to watch usage live.")
	return nil
}
