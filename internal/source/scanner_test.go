package source

import (
	"os"
	"path/filepath"
	"testing"
)

// writeProjectFile writes a transcript into <claudeDir>/projects/<dir>/<name>.
func writeProjectFile(t *testing.T, claudeDir, dir, name, content string) {
	t.Helper()
	full := filepath.Join(claudeDir, "projects", dir)
	if err := os.MkdirAll(full, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(full, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestScanProjects(t *testing.T) {
	claudeDir := t.TempDir()
	writeProjectFile(t, claudeDir, "-Users-dev-alpha", "sess1.jsonl",
		`{"type":"user","cwd":"/Users/dev/alpha"}`+"\n"+
			`{"type":"assistant","uuid":"u1","sessionId":"sess1","timestamp":"2025-06-01T10:00:00Z","message":{"id":"m1","model":"claude-sonnet-4-5","usage":{"output_tokens":10}}}`+"\n")
	writeProjectFile(t, claudeDir, "-Users-dev-alpha", "sess2.jsonl",
		`{"type":"assistant","uuid":"u2","sessionId":"sess2","timestamp":"2025-06-01T11:00:00Z","message":{"id":"m2","model":"claude-sonnet-4-5","usage":{"output_tokens":20}}}`+"\n")

	// Subdirectory with no transcripts must be skipped.
	if err := os.MkdirAll(filepath.Join(claudeDir, "projects", "empty-project"), 0o755); err != nil {
		t.Fatal(err)
	}

	projects := ScanProjects(claudeDir)
	if len(projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(projects))
	}
	if projects[0].Path != "/Users/dev/alpha" {
		t.Errorf("project path = %q, want cwd from first transcript", projects[0].Path)
	}
	if len(projects[0].Files) != 2 {
		t.Errorf("got %d files, want 2", len(projects[0].Files))
	}
}

func TestScanProjects_FallbackToDirName(t *testing.T) {
	claudeDir := t.TempDir()
	writeProjectFile(t, claudeDir, "-Users-dev-beta", "sess1.jsonl",
		`{"type":"assistant","uuid":"u1","sessionId":"sess1","timestamp":"2025-06-01T10:00:00Z","message":{"id":"m1","model":"claude-sonnet-4-5","usage":{"output_tokens":10}}}`+"\n")

	projects := ScanProjects(claudeDir)
	if len(projects) != 1 {
		t.Fatalf("got %d projects, want 1", len(projects))
	}
	if projects[0].Path != "-Users-dev-beta" {
		t.Errorf("project path = %q, want directory-name fallback", projects[0].Path)
	}
}

func TestScanProjects_MissingRoot(t *testing.T) {
	if projects := ScanProjects(filepath.Join(t.TempDir(), "nope")); projects != nil {
		t.Errorf("got %v, want nil for missing root", projects)
	}
}

func TestScanAllTurns(t *testing.T) {
	claudeDir := t.TempDir()
	writeProjectFile(t, claudeDir, "proj-a", "s1.jsonl",
		`{"type":"user","cwd":"/home/dev/a"}`+"\n"+
			`{"type":"assistant","uuid":"u1","sessionId":"s1","timestamp":"2025-06-01T10:00:00Z","message":{"id":"m1","model":"claude-sonnet-4-5","usage":{"output_tokens":10}}}`+"\n")
	writeProjectFile(t, claudeDir, "proj-b", "s2.jsonl",
		`{"type":"user","cwd":"/home/dev/b"}`+"\n"+
			`{"type":"assistant","uuid":"u2","sessionId":"s2","timestamp":"2025-06-01T11:00:00Z","message":{"id":"m2","model":"claude-sonnet-4-5","usage":{"output_tokens":20}}}`+"\n")

	turns := ScanAllTurns(claudeDir)
	if len(turns) != 2 {
		t.Fatalf("got %d turns, want 2", len(turns))
	}

	paths := map[string]string{}
	for _, turn := range turns {
		paths[turn.SessionID] = turn.ProjectPath
	}
	if paths["s1"] != "/home/dev/a" || paths["s2"] != "/home/dev/b" {
		t.Errorf("project paths = %v, want resolved cwds", paths)
	}
}

func TestScanSessionTurns_DirNameFallback(t *testing.T) {
	claudeDir := t.TempDir()
	writeProjectFile(t, claudeDir, "my-project", "s1.jsonl",
		`{"type":"assistant","uuid":"u1","sessionId":"s1","timestamp":"2025-06-01T10:00:00Z","message":{"id":"m1","model":"claude-sonnet-4-5","usage":{"output_tokens":10}}}`+"\n")

	turns := ScanSessionTurns(filepath.Join(claudeDir, "projects", "my-project", "s1.jsonl"))
	if len(turns) != 1 {
		t.Fatalf("got %d turns, want 1", len(turns))
	}
	if turns[0].ProjectPath != "my-project" {
		t.Errorf("ProjectPath = %q, want directory-name fallback", turns[0].ProjectPath)
	}
}
