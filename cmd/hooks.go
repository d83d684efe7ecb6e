package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/tokentrack/internal/config"
	"github.com/theirongolddev/tokentrack/internal/hooks"

	"github.com/spf13/cobra"
)

var hooksCmd = &cobra.Command{
	Use:   "hooks",
	Short: "Manage the Claude Code Stop hook",
}

var hooksInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the ingest Stop hook",
	RunE:  runHooksInstall,
}

var hooksRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove the ingest Stop hook",
	RunE:  runHooksRemove,
}

func init() {
	hooksCmd.AddCommand(hooksInstallCmd)
	hooksCmd.AddCommand(hooksRemoveCmd)
	rootCmd.AddCommand(hooksCmd)
}

func runHooksInstall(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	claudeDir := config.ClaudeDir(cfg)

	installed, err := hooks.Installed(claudeDir)
	if err != nil {
		return err
	}
	if installed {
		fmt.Println("  Hook is already installed. Nothing to do.")
		return nil
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving executable: %w", err)
	}

	if err := hooks.Install(claudeDir, hooks.Command(exe)); err != nil {
		return fmt.Errorf("installing hook: %w", err)
	}
	fmt.Printf("  Hook installed in %s.\n", hooks.SettingsPath(claudeDir))
	fmt.Println("  Usage will now update automatically after each Claude session turn.")
	return nil
}

func runHooksRemove(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	claudeDir := config.ClaudeDir(cfg)

	installed, err := hooks.Installed(claudeDir)
	if err != nil {
		return err
	}
	if !installed {
		fmt.Println("  Hook is not installed. Nothing to remove.")
		return nil
	}

	if err := hooks.Remove(claudeDir); err != nil {
		return fmt.Errorf("removing hook: %w", err)
	}
	fmt.Println("  Hook removed.")
	return nil
}
