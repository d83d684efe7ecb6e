// Package hooks installs the Claude Code Stop hook that triggers ingestion
// after every session turn. It edits ~/.claude/settings.json in place,
// preserving unrelated settings.
package hooks

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// marker is the substring that identifies our hook entry inside a command.
const marker = "tokentrack ingest"

// SettingsPath returns the Claude Code settings file location.
func SettingsPath(claudeDir string) string {
	return filepath.Join(claudeDir, "settings.json")
}

// Command returns the hook command for the given executable path.
func Command(executable string) string {
	return executable + " ingest"
}

func loadSettings(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	settings := map[string]any{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &settings); err != nil {
			return nil, fmt.Errorf("parsing settings: %w", err)
		}
	}
	return settings, nil
}

// saveSettings backs up an existing file, then writes the new settings.
func saveSettings(path string, settings map[string]any) error {
	if _, err := os.Stat(path); err == nil {
		backup := path + ".bak." + time.Now().Format("20060102_150405")
		if data, err := os.ReadFile(path); err == nil {
			_ = os.WriteFile(backup, data, 0o600)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

// stopHooks digs hooks.Stop out of the settings document, tolerating any
// missing level.
func stopHooks(settings map[string]any) []any {
	hooks, _ := settings["hooks"].(map[string]any)
	stop, _ := hooks["Stop"].([]any)
	return stop
}

func hasHook(stop []any) bool {
	for _, entry := range stop {
		m, _ := entry.(map[string]any)
		inner, _ := m["hooks"].([]any)
		for _, h := range inner {
			hm, _ := h.(map[string]any)
			if cmd, _ := hm["command"].(string); strings.Contains(cmd, marker) {
				return true
			}
		}
	}
	return false
}

// Installed reports whether the ingest hook is present in settings.
func Installed(claudeDir string) (bool, error) {
	settings, err := loadSettings(SettingsPath(claudeDir))
	if err != nil {
		return false, err
	}
	return hasHook(stopHooks(settings)), nil
}

// Install adds the Stop hook running the given command. Installing twice is
// a no-op.
func Install(claudeDir, command string) error {
	path := SettingsPath(claudeDir)
	settings, err := loadSettings(path)
	if err != nil {
		return err
	}

	stop := stopHooks(settings)
	if hasHook(stop) {
		return nil
	}

	stop = append(stop, map[string]any{
		"matcher": "",
		"hooks": []any{
			map[string]any{"type": "command", "command": command},
		},
	})

	hooks, _ := settings["hooks"].(map[string]any)
	if hooks == nil {
		hooks = map[string]any{}
		settings["hooks"] = hooks
	}
	hooks["Stop"] = stop

	return saveSettings(path, settings)
}

// Remove deletes every Stop hook entry that runs the ingest command.
// Removing an absent hook is a no-op.
func Remove(claudeDir string) error {
	path := SettingsPath(claudeDir)
	settings, err := loadSettings(path)
	if err != nil {
		return err
	}

	stop := stopHooks(settings)
	if !hasHook(stop) {
		return nil
	}

	newStop := make([]any, 0, len(stop))
	for _, entry := range stop {
		m, _ := entry.(map[string]any)
		inner, _ := m["hooks"].([]any)
		filtered := make([]any, 0, len(inner))
		for _, h := range inner {
			hm, _ := h.(map[string]any)
			if cmd, _ := hm["command"].(string); !strings.Contains(cmd, marker) {
				filtered = append(filtered, h)
			}
		}
		if len(filtered) > 0 {
			m["hooks"] = filtered
			newStop = append(newStop, m)
		}
	}

	hooks, _ := settings["hooks"].(map[string]any)
	hooks["Stop"] = newStop

	return saveSettings(path, settings)
}
