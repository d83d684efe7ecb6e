package cmd

import (
	"fmt"
	"os"

	"github.com/theirongolddev/tokentrack/internal/config"
	"github.com/theirongolddev/tokentrack/internal/ingest"

	"github.com/spf13/cobra"
)

var flagIngestFull bool

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Scan transcripts and update the usage store",
	Long: `Scan Claude Code session transcripts and upsert the extracted turns.

Normally invoked by the Stop hook, which pipes a JSON trigger payload
({"session_id": ..., "transcript_path": ...}) to stdin; only the affected
transcript is rescanned. Without a payload (or with --full) every project
is scanned. Re-running is always safe: the store merges, never duplicates.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&flagIngestFull, "full", false, "Scan all projects, ignoring any stdin payload")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var trig ingest.Trigger
	if !flagIngestFull && stdinPiped() {
		trig = ingest.ReadTrigger(os.Stdin)
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	count, err := ingest.Run(config.ClaudeDir(cfg), trig, st)
	if err != nil {
		return fmt.Errorf("ingesting: %w", err)
	}

	// Stderr so the Stop hook doesn't treat this as tool output.
	fmt.Fprintf(os.Stderr, "[tokentrack] ingested %d turns\n", count)
	return nil
}

// stdinPiped reports whether stdin carries piped data rather than a terminal.
func stdinPiped() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice == 0
}
