package hooks

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

const testCommand = "/usr/local/bin/tokentrack ingest"

func readSettings(t *testing.T, claudeDir string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(SettingsPath(claudeDir))
	if err != nil {
		t.Fatal(err)
	}
	var settings map[string]any
	if err := json.Unmarshal(data, &settings); err != nil {
		t.Fatal(err)
	}
	return settings
}

func TestInstallRemoveRoundTrip(t *testing.T) {
	claudeDir := t.TempDir()

	if err := Install(claudeDir, testCommand); err != nil {
		t.Fatalf("Install: %v", err)
	}
	installed, err := Installed(claudeDir)
	if err != nil {
		t.Fatal(err)
	}
	if !installed {
		t.Fatal("hook not reported as installed")
	}

	stop := stopHooks(readSettings(t, claudeDir))
	if len(stop) != 1 {
		t.Fatalf("got %d Stop entries, want 1", len(stop))
	}

	if err := Remove(claudeDir); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	installed, err = Installed(claudeDir)
	if err != nil {
		t.Fatal(err)
	}
	if installed {
		t.Error("hook still reported as installed after Remove")
	}
}

func TestInstall_Idempotent(t *testing.T) {
	claudeDir := t.TempDir()

	if err := Install(claudeDir, testCommand); err != nil {
		t.Fatal(err)
	}
	if err := Install(claudeDir, testCommand); err != nil {
		t.Fatal(err)
	}

	stop := stopHooks(readSettings(t, claudeDir))
	if len(stop) != 1 {
		t.Errorf("got %d Stop entries after double install, want 1", len(stop))
	}
}

func TestInstall_PreservesOtherSettings(t *testing.T) {
	claudeDir := t.TempDir()
	existing := map[string]any{
		"model": "opus",
		"hooks": map[string]any{
			"Stop": []any{
				map[string]any{
					"matcher": "",
					"hooks": []any{
						map[string]any{"type": "command", "command": "echo done"},
					},
				},
			},
			"PreToolUse": []any{},
		},
	}
	data, _ := json.Marshal(existing)
	if err := os.WriteFile(SettingsPath(claudeDir), data, 0o600); err != nil {
		t.Fatal(err)
	}

	if err := Install(claudeDir, testCommand); err != nil {
		t.Fatal(err)
	}

	settings := readSettings(t, claudeDir)
	if settings["model"] != "opus" {
		t.Errorf("model setting lost: %v", settings["model"])
	}
	hooks, _ := settings["hooks"].(map[string]any)
	if _, ok := hooks["PreToolUse"]; !ok {
		t.Error("PreToolUse hooks lost")
	}
	if stop := stopHooks(settings); len(stop) != 2 {
		t.Errorf("got %d Stop entries, want existing + ours", len(stop))
	}
}

func TestRemove_PreservesForeignHooks(t *testing.T) {
	claudeDir := t.TempDir()

	if err := Install(claudeDir, "echo done"); err != nil {
		t.Fatal(err)
	}
	if err := Install(claudeDir, testCommand); err != nil {
		t.Fatal(err)
	}
	if err := Remove(claudeDir); err != nil {
		t.Fatal(err)
	}

	stop := stopHooks(readSettings(t, claudeDir))
	if len(stop) != 1 {
		t.Fatalf("got %d Stop entries after Remove, want the foreign one", len(stop))
	}
	entry, _ := stop[0].(map[string]any)
	inner, _ := entry["hooks"].([]any)
	hook, _ := inner[0].(map[string]any)
	if hook["command"] != "echo done" {
		t.Errorf("surviving hook = %v, want the foreign echo hook", hook["command"])
	}
}

func TestRemove_AbsentIsNoOp(t *testing.T) {
	claudeDir := t.TempDir()

	if err := Remove(claudeDir); err != nil {
		t.Fatalf("Remove on missing settings: %v", err)
	}
	if _, err := os.Stat(SettingsPath(claudeDir)); !os.IsNotExist(err) {
		t.Error("Remove created a settings file it had no reason to write")
	}
}

func TestInstall_BacksUpExistingFile(t *testing.T) {
	claudeDir := t.TempDir()
	if err := os.WriteFile(SettingsPath(claudeDir), []byte(`{"model":"opus"}`), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := Install(claudeDir, testCommand); err != nil {
		t.Fatal(err)
	}

	backups, err := filepath.Glob(SettingsPath(claudeDir) + ".bak.*")
	if err != nil {
		t.Fatal(err)
	}
	if len(backups) != 1 {
		t.Fatalf("got %d backups, want 1", len(backups))
	}
	data, err := os.ReadFile(backups[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"model":"opus"}` {
		t.Errorf("backup content = %q, want the original file", data)
	}
}

func TestCommand(t *testing.T) {
	if got := Command("/usr/local/bin/tokentrack"); got != testCommand {
		t.Errorf("Command = %q, want %q", got, testCommand)
	}
}

func TestInstalled_MalformedSettings(t *testing.T) {
	claudeDir := t.TempDir()
	if err := os.WriteFile(SettingsPath(claudeDir), []byte("{broken"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Installed(claudeDir); err == nil {
		t.Error("expected an error for malformed settings")
	}
}
