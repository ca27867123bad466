// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/jeranaias/hubrun-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete hubrun configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Hub daemon connection
	Hub HubConfig `toml:"hub" json:"hub"`

	// Progress polling
	Poll PollConfig `toml:"poll" json:"poll"`

	// Download history
	History HistoryConfig `toml:"history" json:"history"`

	// Model catalog lookups
	Catalog CatalogConfig `toml:"catalog" json:"catalog"`

	// UI configuration
	UI UIConfig `toml:"ui" json:"ui"`
}

// HubConfig describes how to reach the hub daemon.
type HubConfig struct {
	// BaseURL is the daemon API base URL.
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
	// Autostart launches the daemon when it is not running.
	Autostart bool `toml:"autostart" json:"autostart"`
}

// PollConfig tunes progress polling.
type PollConfig struct {
	// IntervalMS is the poll interval in milliseconds.
	IntervalMS int `toml:"interval_ms" json:"interval_ms"`
}

// HistoryConfig controls the local download history database.
type HistoryConfig struct {
	// Enabled turns history recording on.
	Enabled bool `toml:"enabled" json:"enabled"`
	// Path is the sqlite database path (empty = ~/.hubrun/history.db).
	Path string `toml:"path" json:"path"`
	// Keep is how many history rows to retain; older rows are pruned.
	Keep int `toml:"keep" json:"keep"`
}

// CatalogConfig points model lookups at a catalog host.
type CatalogConfig struct {
	// BaseURL is the catalog API host (default https://huggingface.co).
	BaseURL string `toml:"base_url" json:"base_url"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
	// ShowBytes displays raw byte counts next to percentages
	ShowBytes bool `toml:"show_bytes" json:"show_bytes"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Hub: HubConfig{
			// Explicit IPv4 instead of localhost to avoid IPv6 resolution
			// issues on Windows.
			BaseURL:     "http://127.0.0.1:8900",
			TimeoutSecs: 30,
			Autostart:   true,
		},

		Poll: PollConfig{
			IntervalMS: 1000,
		},

		History: HistoryConfig{
			Enabled: true,
			Path:    "",
			Keep:    500,
		},

		Catalog: CatalogConfig{
			BaseURL: "https://huggingface.co",
		},

		UI: UIConfig{
			Theme:       "dark",
			CompactMode: false,
			ShowBytes:   false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the hubrun configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".hubrun"), nil
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

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// Config files should be 0600 (owner read/write only).
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	cfg, err = finishLoad(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	cfg.SetDefaults()
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	cfg.SetDefaults()
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finishLoad(cfg)
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

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
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

	fmt.Fprintln(file, "# hubrun configuration file")
	fmt.Fprintln(file, "# Generated by hubrun - edit with care")
	fmt.Fprintln(file, "")

	if err := toml.NewEncoder(file).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// SaveJSON saves the configuration to a JSON file. The write is atomic with
// fsync, and the file is created with 0600 permissions.
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

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Hub.BaseURL != "" {
		u, err := url.Parse(c.Hub.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "hub.base_url",
				Message: fmt.Sprintf("invalid URL %q", c.Hub.BaseURL),
			})
		}
	}

	if c.Hub.TimeoutSecs < 1 || c.Hub.TimeoutSecs > 600 {
		errs = append(errs, ValidationError{
			Field:   "hub.timeout_secs",
			Message: fmt.Sprintf("must be 1-600 seconds, got %d", c.Hub.TimeoutSecs),
		})
	}

	// Sub-100ms polling hammers the daemon for no visible benefit.
	if c.Poll.IntervalMS < 100 || c.Poll.IntervalMS > 60000 {
		errs = append(errs, ValidationError{
			Field:   "poll.interval_ms",
			Message: fmt.Sprintf("must be 100-60000 milliseconds, got %d", c.Poll.IntervalMS),
		})
	}

	if c.History.Keep < 0 {
		errs = append(errs, ValidationError{
			Field:   "history.keep",
			Message: "must be non-negative",
		})
	}

	if c.Catalog.BaseURL != "" {
		u, err := url.Parse(c.Catalog.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "catalog.base_url",
				Message: fmt.Sprintf("invalid URL %q", c.Catalog.BaseURL),
			})
		}
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Hub.BaseURL == "" {
		c.Hub.BaseURL = defaults.Hub.BaseURL
	}
	if c.Hub.TimeoutSecs == 0 {
		c.Hub.TimeoutSecs = defaults.Hub.TimeoutSecs
	}
	if c.Poll.IntervalMS == 0 {
		c.Poll.IntervalMS = defaults.Poll.IntervalMS
	}
	if c.History.Keep == 0 {
		c.History.Keep = defaults.History.Keep
	}
	if c.Catalog.BaseURL == "" {
		c.Catalog.BaseURL = defaults.Catalog.BaseURL
	}
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// HistoryPath resolves the history database path, applying the default
// location when unset.
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

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - HUBRUN_HUB_URL: overrides hub.base_url
//   - HUBRUN_TIMEOUT_SECS: overrides hub.timeout_secs
//   - HUBRUN_NO_AUTOSTART: set to "1" or "true" to disable daemon autostart
//   - HUBRUN_POLL_INTERVAL_MS: overrides poll.interval_ms
//   - HUBRUN_HISTORY_PATH: overrides history.path
//   - HUBRUN_CATALOG_URL: overrides catalog.base_url
//   - HUBRUN_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("HUBRUN_HUB_URL"); v != "" {
		c.Hub.BaseURL = v
	}
	if v := os.Getenv("HUBRUN_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Hub.TimeoutSecs = n
		}
	}
	if isEnvTruthy("HUBRUN_NO_AUTOSTART") {
		c.Hub.Autostart = false
	}
	if v := os.Getenv("HUBRUN_POLL_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Poll.IntervalMS = n
		}
	}
	if v := os.Getenv("HUBRUN_HISTORY_PATH"); v != "" {
		c.History.Path = v
	}
	if v := os.Getenv("HUBRUN_CATALOG_URL"); v != "" {
		c.Catalog.BaseURL = v
	}
	if v := os.Getenv("HUBRUN_THEME"); v != "" {
		c.UI.Theme = v
	}
}

func isEnvTruthy(name string) bool {
	v := strings.ToLower(os.Getenv(name))
	return v == "1" || v == "true" || v == "yes"
}

// =============================================================================
// KEY ACCESS
// =============================================================================

// Get returns a configuration value by dotted key, for `hubrun config get`.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "hub.base_url":
		return c.Hub.BaseURL, nil
	case "hub.timeout_secs":
		return strconv.Itoa(c.Hub.TimeoutSecs), nil
	case "hub.autostart":
		return strconv.FormatBool(c.Hub.Autostart), nil
	case "poll.interval_ms":
		return strconv.Itoa(c.Poll.IntervalMS), nil
	case "history.enabled":
		return strconv.FormatBool(c.History.Enabled), nil
	case "history.path":
		return c.History.Path, nil
	case "history.keep":
		return strconv.Itoa(c.History.Keep), nil
	case "catalog.base_url":
		return c.Catalog.BaseURL, nil
	case "ui.theme":
		return c.UI.Theme, nil
	case "ui.compact_mode":
		return strconv.FormatBool(c.UI.CompactMode), nil
	case "ui.show_bytes":
		return strconv.FormatBool(c.UI.ShowBytes), nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set updates a configuration value by dotted key, for `hubrun config set`.
// The updated config is validated before the change is accepted.
func (c *Config) Set(key, value string) error {
	next := *c

	switch key {
	case "hub.base_url":
		next.Hub.BaseURL = value
	case "hub.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s wants an integer: %w", key, err)
		}
		next.Hub.TimeoutSecs = n
	case "hub.autostart":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s wants a boolean: %w", key, err)
		}
		next.Hub.Autostart = b
	case "poll.interval_ms":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s wants an integer: %w", key, err)
		}
		next.Poll.IntervalMS = n
	case "history.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s wants a boolean: %w", key, err)
		}
		next.History.Enabled = b
	case "history.path":
		next.History.Path = value
	case "history.keep":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s wants an integer: %w", key, err)
		}
		next.History.Keep = n
	case "catalog.base_url":
		next.Catalog.BaseURL = value
	case "ui.theme":
		next.UI.Theme = value
	case "ui.compact_mode":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s wants a boolean: %w", key, err)
		}
		next.UI.CompactMode = b
	case "ui.show_bytes":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s wants a boolean: %w", key, err)
		}
		next.UI.ShowBytes = b
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}

// Keys lists every key Get and Set understand.
func Keys() []string {
	return []string{
		"hub.base_url",
		"hub.timeout_secs",
		"hub.autostart",
		"poll.interval_ms",
		"history.enabled",
		"history.path",
		"history.keep",
		"catalog.base_url",
		"ui.theme",
		"ui.compact_mode",
		"ui.show_bytes",
	}
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

var (
	globalConfig *Config
	globalMu     sync.RWMutex
)

// Global returns the global configuration, loading it on first use.
func Global() *Config {
	globalMu.RLock()
	if globalConfig != nil {
		defer globalMu.RUnlock()
		return globalConfig
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalConfig == nil {
		cfg, err := Load()
		if err != nil || cfg == nil {
			cfg = Default()
		}
		globalConfig = cfg
	}
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
	return nil
}

// SetGlobal replaces the global configuration.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	globalConfig = cfg
	globalMu.Unlock()
}

// ResetGlobalForTesting clears the global configuration.
func ResetGlobalForTesting() {
	globalMu.Lock()
	globalConfig = nil
	globalMu.Unlock()
}
