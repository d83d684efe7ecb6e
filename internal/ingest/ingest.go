// Package ingest decides which transcripts to scan for a given trigger and
// hands the extracted turns to the store.
package ingest

import (
	"encoding/json"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/theirongolddev/tokentrack/internal/model"
	"github.com/theirongolddev/tokentrack/internal/source"
	"github.com/theirongolddev/tokentrack/internal/store"
)

// Trigger is the payload the Claude Code Stop hook pipes to stdin. Both
// fields are optional; absence of both forces a full scan.
type Trigger struct {
	SessionID      string `json:"session_id"`
	TranscriptPath string `json:"transcript_path"`
}

// ReadTrigger decodes a trigger payload from r. Empty or malformed input
// yields a zero Trigger, which falls through to a full scan.
func ReadTrigger(r io.Reader) Trigger {
	data, err := io.ReadAll(r)
	if err != nil {
		return Trigger{}
	}
	var t Trigger
	_ = json.Unmarshal(data, &t)
	return t
}

// Run selects the narrowest correct scan for the trigger, extracts turns,
// and bulk-upserts them. It returns the number of turns processed.
//
// Priority: an existing transcript file is rescanned alone; a bare session
// id is searched for under the projects root; anything else is a full scan.
// Re-running the same trigger is idempotent (the store merges, never
// duplicates).
func Run(claudeDir string, trig Trigger, st *store.Store) (int, error) {
	turns := collect(claudeDir, trig)
	return st.UpsertTurns(turns)
}

func collect(claudeDir string, trig Trigger) []model.Turn {
	if trig.TranscriptPath != "" {
		if info, err := os.Stat(trig.TranscriptPath); err == nil && !info.IsDir() {
			return source.ScanSessionTurns(trig.TranscriptPath)
		}
	}
	if trig.SessionID != "" {
		if path := findSessionFile(claudeDir, trig.SessionID); path != "" {
			return source.ScanSessionTurns(path)
		}
	}
	return source.ScanAllTurns(claudeDir)
}

// findSessionFile searches recursively under the projects root for a
// transcript named <sessionID>.jsonl.
func findSessionFile(claudeDir, sessionID string) string {
	projectsDir := filepath.Join(claudeDir, "projects")
	want := sessionID + ".jsonl"

	var found string
	_ = filepath.WalkDir(projectsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if !d.IsDir() && d.Name() == want {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	return found
}
