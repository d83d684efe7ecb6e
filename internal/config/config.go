// Package config holds tokentrack configuration: the TOML config document,
// the pricing table, and the rate-limit plan tiers.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the persisted tokentrack configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Plan    string        `toml:"plan"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	ClaudeDir    string `toml:"claude_dir,omitempty"`
	SessionLimit int    `toml:"session_limit"`
	DailyDays    int    `toml:"daily_days"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			SessionLimit: 200,
			DailyDays:    30,
		},
		Plan: string(PlanPro),
	}
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tokentrack")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tokentrack")
}

// Path returns the full path to the config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.General.SessionLimit <= 0 {
		cfg.General.SessionLimit = 200
	}
	if cfg.General.DailyDays <= 0 {
		cfg.General.DailyDays = 30
	}
	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(Path(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// ActivePlan returns the configured plan, defaulting to Pro when the stored
// value is missing or unknown.
func ActivePlan(cfg Config) Plan {
	if p := Plan(cfg.Plan); p.Valid() {
		return p
	}
	return PlanPro
}

// SetPlan validates and persists a new plan selection. An unknown plan is
// rejected before anything is written.
func SetPlan(s string) (Plan, error) {
	p, err := ParsePlan(s)
	if err != nil {
		return "", err
	}
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	cfg.Plan = string(p)
	if err := Save(cfg); err != nil {
		return "", err
	}
	return p, nil
}

// CyclePlan advances to the next plan in order and returns it.
func CyclePlan() (Plan, error) {
	cfg, err := Load()
	if err != nil {
		return "", err
	}
	next := ActivePlan(cfg).Next()
	cfg.Plan = string(next)
	if err := Save(cfg); err != nil {
		return "", err
	}
	return next, nil
}

// ClaudeDir returns the Claude data directory: the configured override if
// set, otherwise ~/.claude.
func ClaudeDir(cfg Config) string {
	if cfg.General.ClaudeDir != "" {
		return cfg.General.ClaudeDir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".claude")
}
