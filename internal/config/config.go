// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/tokenwatch/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete tokenwatch configuration.
type Config struct {
	// General settings
	Version string `toml:"version" json:"version"`

	// Plan selects the token budget: "pro", "max5", "max20", "custom_max".
	Plan string `toml:"plan" json:"plan"`

	// Timezone for reset scheduling and daily cost, IANA name.
	Timezone string `toml:"timezone" json:"timezone"`

	// ResetHour replaces the default reset schedule with a single
	// daily hour when 0-23. -1 uses the default schedule.
	ResetHour int `toml:"reset_hour" json:"reset_hour"`

	// Monitor configuration
	Monitor MonitorConfig `toml:"monitor" json:"monitor"`

	// History configuration
	History HistoryConfig `toml:"history" json:"history"`
}

// MonitorConfig contains polling and data source configuration.
type MonitorConfig struct {
	// PollIntervalSecs is the seconds between usage fetches.
	PollIntervalSecs int `toml:"poll_interval_secs" json:"poll_interval_secs"`
	// CcusageBinary overrides the ccusage executable name.
	CcusageBinary string `toml:"ccusage_binary" json:"ccusage_binary"`
	// PerProject requests per-project block breakdowns.
	PerProject bool `toml:"per_project" json:"per_project"`
	// Project filters blocks to a single project path.
	Project string `toml:"project" json:"project"`
}

// HistoryConfig contains the metrics snapshot store configuration.
type HistoryConfig struct {
	// Enabled turns snapshot recording on.
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the sqlite database path (empty = default ~/.tokenwatch/history.db).
	Path string `toml:"path" json:"path"`
	// RetentionDays is how long snapshots are kept.
	RetentionDays int `toml:"retention_days" json:"retention_days"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version:   "1",
		Plan:      "pro",
		Timezone:  "Europe/Warsaw",
		ResetHour: -1,
		Monitor: MonitorConfig{
			PollIntervalSecs: 3,
			CcusageBinary:    "ccusage",
		},
		History: HistoryConfig{
			Enabled:       true,
			RetentionDays: 30,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the tokenwatch configuration directory.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".tokenwatch"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// HistoryPath returns the snapshot database path, honoring the
// configured override.
func (c *Config) HistoryPath() (string, error) {
	if c.History.Path != "" {
		return c.History.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.db"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s). Tries TOML first,
// then JSON, and falls back to defaults. Environment overrides are
// applied last.
func Load() (*Config, error) {
	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			return LoadFromPath(tomlPath)
		}
	}
	if jsonPath, err := ConfigPathJSON(); err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			return LoadFromPath(jsonPath)
		}
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. The format is chosen by extension, defaulting to TOML.
// Missing fields keep their defaults.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read JSON config: %w", err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode JSON config from %s: %w", path, err)
		}
	} else {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode TOML config from %s: %w", path, err)
		}
	}

	fillDefaults(cfg)
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults. ResetHour is
// not touched here: it decodes over the default -1, and 0 is a valid
// custom hour.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.Plan == "" {
		cfg.Plan = defaults.Plan
	}
	if cfg.Timezone == "" {
		cfg.Timezone = defaults.Timezone
	}
	if cfg.Monitor.PollIntervalSecs == 0 {
		cfg.Monitor.PollIntervalSecs = defaults.Monitor.PollIntervalSecs
	}
	if cfg.Monitor.CcusageBinary == "" {
		cfg.Monitor.CcusageBinary = defaults.Monitor.CcusageBinary
	}
	if cfg.History.RetentionDays == 0 {
		cfg.History.RetentionDays = defaults.History.RetentionDays
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600
// permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# tokenwatch configuration file")
	fmt.Fprintln(file, "# Generated by tokenwatch - edit with care")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file. The write is atomic
// with fsync so a crash never leaves a torn config behind.
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors. An
// unknown timezone is not rejected here: the engine falls back with a
// warning at evaluation time.
func (c *Config) Validate() error {
	var errs ValidateErrors

	switch c.Plan {
	case "pro", "max5", "max20", "custom_max":
	default:
		errs = append(errs, ValidationError{
			Field:   "plan",
			Message: fmt.Sprintf("unknown plan %q (expected pro, max5, max20 or custom_max)", c.Plan),
		})
	}

	if c.ResetHour < -1 || c.ResetHour > 23 {
		errs = append(errs, ValidationError{
			Field:   "reset_hour",
			Message: fmt.Sprintf("must be -1 (default schedule) or 0-23, got %d", c.ResetHour),
		})
	}

	if c.Monitor.PollIntervalSecs < 1 || c.Monitor.PollIntervalSecs > 3600 {
		errs = append(errs, ValidationError{
			Field:   "monitor.poll_interval_secs",
			Message: fmt.Sprintf("must be 1-3600, got %d", c.Monitor.PollIntervalSecs),
		})
	}

	if c.History.RetentionDays < 1 {
		errs = append(errs, ValidationError{
			Field:   "history.retention_days",
			Message: fmt.Sprintf("must be at least 1, got %d", c.History.RetentionDays),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies TOKENWATCH_* environment variables on top
// of the loaded configuration.
func (c *Config) ApplyEnvOverrides() {
	if plan := os.Getenv("TOKENWATCH_PLAN"); plan != "" {
		c.Plan = plan
	}
	if tz := os.Getenv("TOKENWATCH_TIMEZONE"); tz != "" {
		c.Timezone = tz
	}
	if hour := os.Getenv("TOKENWATCH_RESET_HOUR"); hour != "" {
		if h, err := strconv.Atoi(hour); err == nil {
			c.ResetHour = h
		}
	}
	if interval := os.Getenv("TOKENWATCH_POLL_INTERVAL"); interval != "" {
		if secs, err := strconv.Atoi(interval); err == nil {
			c.Monitor.PollIntervalSecs = secs
		}
	}
	if bin := os.Getenv("TOKENWATCH_CCUSAGE"); bin != "" {
		c.Monitor.CcusageBinary = bin
	}
	if project := os.Getenv("TOKENWATCH_PROJECT"); project != "" {
		c.Monitor.Project = project
	}
	if history := os.Getenv("TOKENWATCH_HISTORY"); history != "" {
		c.History.Enabled = history == "1" || strings.ToLower(history) == "true"
	}
}
