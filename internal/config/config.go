// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for gemchat.
//
// Supports TOML configuration with sensible defaults, a .env file, environment
// variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.gemchat/config.toml
//   - Built-in defaults
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Credential environment variables. EnvAPIKey is the primary source; the
// bare legacy name still works but triggers a warning at startup.
const (
	EnvAPIKey       = "GEMCHAT_API_KEY"
	EnvAPIKeyLegacy = "API_KEY"
)

// DefaultBaseURL is the Gemini API endpoint.
const DefaultBaseURL = "https://generativelanguage.googleapis.com"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete gemchat configuration.
type Config struct {
	// General settings
	Version string `toml:"version"`

	// API configuration
	API APIConfig `toml:"api"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Speech configuration
	Speech SpeechConfig `toml:"speech"`

	// Storage configuration
	Storage StorageConfig `toml:"storage"`
}

// APIConfig contains Gemini API connection configuration.
type APIConfig struct {
	// Key is the API key. Usually left empty here and supplied via the
	// GEMCHAT_API_KEY environment variable instead.
	Key string `toml:"key"`
	// BaseURL is the API endpoint
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries is the number of retries for transient failures
	MaxRetries int `toml:"max_retries"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// ShowTimestamps displays message timestamps in the chat view
	ShowTimestamps bool `toml:"show_timestamps"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode"`
}

// SpeechConfig contains text-to-speech configuration.
type SpeechConfig struct {
	// Enabled controls whether the speech engine is available at all
	Enabled bool `toml:"enabled"`
	// Command is the external synthesizer invoked for playback.
	// Empty selects a platform default (say on macOS, espeak elsewhere).
	Command string `toml:"command"`
}

// StorageConfig contains persistence configuration.
type StorageConfig struct {
	// DataDir is the directory for local session files (empty = ~/.gemchat)
	DataDir string `toml:"data_dir"`
	// CloudDBPath is the path to the cloud-slot database
	// (empty = <data_dir>/cloud_sessions.db)
	CloudDBPath string `toml:"cloud_db_path"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		API: APIConfig{
			Key:         "",
			BaseURL:     DefaultBaseURL,
			TimeoutSecs: 120,
			MaxRetries:  2,
		},

		UI: UIConfig{
			Theme:          "dark",
			ShowTimestamps: true,
			CompactMode:    false,
		},

		Speech: SpeechConfig{
			Enabled: true,
			Command: "",
		},

		Storage: StorageConfig{
			DataDir:     "",
			CloudDBPath: "",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the gemchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".gemchat"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
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
// SECURITY: Config files should be 0600 (owner read/write only) to protect API keys.
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

// Load loads configuration from the config file, falling back to defaults.
// A .env file in the working directory is read first, then environment
// overrides are applied last.
func Load() (*Config, error) {
	// Best effort; absence of a .env file is the normal case.
	_ = godotenv.Load()

	cfg := Default()
	var loadErr error

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				cfg.ApplyEnvOverrides()
				if err := cfg.Validate(); err != nil {
					return nil, fmt.Errorf("invalid config: %w", err)
				}
				return cfg, nil
			}
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Return defaults (with any load error for informational purposes)
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file.
// SECURITY: Checks and fixes file permissions on load.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all systems
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return fillDefaults(cfg)
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := &Config{}
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) error {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = defaults.API.BaseURL
	}
	if cfg.API.TimeoutSecs <= 0 {
		cfg.API.TimeoutSecs = defaults.API.TimeoutSecs
	}
	if cfg.API.MaxRetries < 0 {
		cfg.API.MaxRetries = defaults.API.MaxRetries
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv(EnvAPIKey); v != "" {
		c.API.Key = v
	} else if v := os.Getenv(EnvAPIKeyLegacy); v != "" && c.API.Key == "" {
		c.API.Key = v
	}
	if v := os.Getenv("GEMCHAT_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("GEMCHAT_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("GEMCHAT_SPEECH_COMMAND"); v != "" {
		c.Speech.Command = v
	}
	if v := os.Getenv("GEMCHAT_DATA_DIR"); v != "" {
		c.Storage.DataDir = v
	}
}

// UsingLegacyKey reports whether the credential came from the legacy
// environment variable rather than GEMCHAT_API_KEY.
func UsingLegacyKey() bool {
	return os.Getenv(EnvAPIKey) == "" && os.Getenv(EnvAPIKeyLegacy) != ""
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
// A missing API key is NOT a validation error: the app starts without it
// and surfaces a persistent warning instead.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.API.BaseURL != "" {
		u, err := url.Parse(c.API.BaseURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, ValidationError{
				Field:   "api.base_url",
				Message: fmt.Sprintf("invalid URL %q", c.API.BaseURL),
			})
		}
	}

	if c.API.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: "timeout cannot be negative",
		})
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if c.UI.Theme != "" && !validThemes[strings.ToLower(c.UI.Theme)] {
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

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// SECURITY: Creates config files with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// Ensure permissions are correct even if the file already existed
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# gemchat configuration file")
	fmt.Fprintln(file, "# Generated by gemchat - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// =============================================================================
// GLOBAL CONFIG
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the process-wide config, loading it on first access.
func Global() *Config {
	globalMu.RLock()
	if globalCfg != nil {
		defer globalMu.RUnlock()
		return globalCfg
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		cfg, err := Load()
		if err != nil || cfg == nil {
			cfg = Default()
		}
		globalCfg = cfg
	}
	return globalCfg
}

// SetGlobal replaces the process-wide config.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}

// ReloadGlobal re-reads the config from disk and installs it globally.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	SetGlobal(cfg)
	return nil
}

// ResetGlobalForTesting clears the global config. Tests only.
func ResetGlobalForTesting() {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = nil
}

// =============================================================================
// DERIVED PATHS
// =============================================================================

// DataDir returns the effective data directory, applying the default.
func (c *Config) DataDir() (string, error) {
	if c.Storage.DataDir != "" {
		return c.Storage.DataDir, nil
	}
	return ConfigDir()
}

// CloudDBPath returns the effective cloud-slot database path.
func (c *Config) CloudDBPath() (string, error) {
	if c.Storage.CloudDBPath != "" {
		return c.Storage.CloudDBPath, nil
	}
	dir, err := c.DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cloud_sessions.db"), nil
}
