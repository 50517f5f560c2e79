// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for gemchat.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display current configuration
//   set <key> <value>   Set a configuration value
//   reset               Reset to default configuration
//   path                Show configuration file path
//
// Examples:
//   gemchat config                          Show current config (default)
//   gemchat config set theme light
//   gemchat config set timeout_secs 60
//   gemchat config set speech_command say
//   gemchat config reset                    Reset to defaults
//   gemchat config path                     Show config file location
//
// Configuration Keys:
//   api_key             Gemini API key (prefer GEMCHAT_API_KEY env var)
//   base_url            API endpoint URL
//   timeout_secs        Per-request timeout in seconds
//   max_retries         Retries for transient failures
//   theme               UI theme (dark/light/auto)
//   show_timestamps     Show message timestamps (true/false)
//   compact_mode        Compact UI layout (true/false)
//   speech_enabled      Enable text-to-speech (true/false)
//   speech_command      External synthesizer command
//   data_dir            Local session storage directory
//   cloud_db_path       Cloud-slot database path
package cli

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/miastudio/gemchat-tui/internal/config"
)

// =============================================================================
// CONFIG STYLES
// =============================================================================

var (
	// Config title style
	configTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("39")). // Cyan
				MarginBottom(1)

	// Config section style
	configSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("255")). // White
				MarginTop(1)

	// Config key style
	configKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")). // Light gray
			Width(20)

	// Config value style
	configValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")) // Green

	// Config value masked (for secrets)
	configMaskedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("242")) // Dim

	// Success style
	configSuccessStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	// Path style
	configPathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)
)

// =============================================================================
// CONFIG WRAPPER FUNCTIONS
// =============================================================================

// Config is an alias to the main config type.
type Config = config.Config

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return config.Default()
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	path, err := config.ConfigPath()
	if err != nil {
		return ""
	}
	return path
}

// LoadConfig loads the configuration from the config file.
// Returns default config if file doesn't exist.
func LoadConfig() (*Config, error) {
	return config.Load()
}

// SaveConfig saves the configuration to the config file.
func SaveConfig(cfg *Config) error {
	return config.Save(cfg)
}

// =============================================================================
// HANDLE CONFIG
// =============================================================================

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow()

	case "set":
		return handleConfigSet(args.ConfigKey, args.ConfigVal)

	case "reset":
		return handleConfigReset()

	case "path":
		return handleConfigPath()

	default:
		return fmt.Errorf("unknown config subcommand: %s", args.Subcommand)
	}
}

// handleConfigShow displays the current configuration.
func handleConfigShow() error {
	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s (using defaults)\n", err)
		cfg = DefaultConfig()
	}

	separator := strings.Repeat("=", 41)
	fmt.Println()
	fmt.Println(configTitleStyle.Render("gemchat Configuration"))
	fmt.Println(SeparatorStyle.Render(separator))
	fmt.Println()

	// API section
	fmt.Println(configSectionStyle.Render("[api]"))
	keyDisplay := maskAPIKey(cfg.API.Key)
	if cfg.API.Key == "" && os.Getenv(config.EnvAPIKey) != "" {
		keyDisplay = "(from " + config.EnvAPIKey + ")"
	} else if cfg.API.Key == "" && os.Getenv(config.EnvAPIKeyLegacy) != "" {
		keyDisplay = "(from legacy " + config.EnvAPIKeyLegacy + ")"
	}
	fmt.Printf("  %s%s\n",
		configKeyStyle.Render("key:"),
		configMaskedStyle.Render(keyDisplay))
	fmt.Printf("  %s%s\n",
		configKeyStyle.Render("base_url:"),
		configValueStyle.Render(cfg.API.BaseURL))
	fmt.Printf("  %s%s\n",
		configKeyStyle.Render("timeout_secs:"),
		configValueStyle.Render(fmt.Sprintf("%d", cfg.API.TimeoutSecs)))
	fmt.Printf("  %s%s\n",
		configKeyStyle.Render("max_retries:"),
		configValueStyle.Render(fmt.Sprintf("%d", cfg.API.MaxRetries)))
	fmt.Println()

	// UI section
	fmt.Println(configSectionStyle.Render("[ui]"))
	fmt.Printf("  %s%s\n",
		configKeyStyle.Render("theme:"),
		configValueStyle.Render(cfg.UI.Theme))
	fmt.Printf("  %s%s\n",
		configKeyStyle.Render("show_timestamps:"),
		configValueStyle.Render(boolString(cfg.UI.ShowTimestamps)))
	fmt.Printf("  %s%s\n",
		configKeyStyle.Render("compact_mode:"),
		configValueStyle.Render(boolString(cfg.UI.CompactMode)))
	fmt.Println()

	// Speech section
	fmt.Println(configSectionStyle.Render("[speech]"))
	fmt.Printf("  %s%s\n",
		configKeyStyle.Render("enabled:"),
		configValueStyle.Render(boolString(cfg.Speech.Enabled)))
	speechCmd := cfg.Speech.Command
	if speechCmd == "" {
		speechCmd = "(platform default)"
	}
	fmt.Printf("  %s%s\n",
		configKeyStyle.Render("command:"),
		configValueStyle.Render(speechCmd))
	fmt.Println()

	// Storage section
	fmt.Println(configSectionStyle.Render("[storage]"))
	dataDir := cfg.Storage.DataDir
	if dataDir == "" {
		dataDir = "(default ~/.gemchat)"
	}
	fmt.Printf("  %s%s\n",
		configKeyStyle.Render("data_dir:"),
		configValueStyle.Render(dataDir))
	dbPath := cfg.Storage.CloudDBPath
	if dbPath == "" {
		dbPath = "(default <data_dir>/cloud_sessions.db)"
	}
	fmt.Printf("  %s%s\n",
		configKeyStyle.Render("cloud_db_path:"),
		configValueStyle.Render(dbPath))
	fmt.Println()

	// Config file path
	fmt.Println(SeparatorStyle.Render(strings.Repeat("-", 41)))
	fmt.Printf("Config file: %s\n", configPathStyle.Render(ConfigPath()))
	fmt.Println()

	return nil
}

// handleConfigSet sets a configuration value.
func handleConfigSet(key, value string) error {
	if key == "" {
		return fmt.Errorf("no config key provided\nUsage: gemchat config set <key> <value>")
	}
	if value == "" {
		return fmt.Errorf("no config value provided\nUsage: gemchat config set %s <value>", key)
	}

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s (using defaults)\n", err)
		cfg = DefaultConfig()
	}

	// Normalize key (support both dot notation and underscore)
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, ".", "_")

	switch key {
	case "api_key", "key":
		cfg.API.Key = value
		fmt.Fprintf(os.Stderr, "%s Storing the key in config is less safe than the %s environment variable\n",
			WarningStyle.Render("[!]"),
			config.EnvAPIKey)

	case "base_url", "api_base_url":
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return fmt.Errorf("invalid base URL: %s (must start with http:// or https://)", value)
		}
		cfg.API.BaseURL = value

	case "timeout_secs", "timeout", "api_timeout_secs":
		timeout, err := ParseIntWithValidation(value, "timeout_secs")
		if err != nil {
			return err
		}
		if timeout > 600 {
			return fmt.Errorf("timeout_secs cannot exceed 600, got %d", timeout)
		}
		cfg.API.TimeoutSecs = timeout

	case "max_retries", "api_max_retries":
		retries, err := strconv.Atoi(value)
		if err != nil || retries < 0 || retries > 10 {
			return fmt.Errorf("invalid max_retries: %s (must be 0-10)", value)
		}
		cfg.API.MaxRetries = retries

	case "theme", "ui_theme":
		validThemes := []string{"dark", "light", "auto"}
		valid := false
		for _, t := range validThemes {
			if strings.EqualFold(value, t) {
				valid = true
				value = strings.ToLower(value)
				break
			}
		}
		if !valid {
			return fmt.Errorf("invalid theme '%s'. Valid themes: %s", value, strings.Join(validThemes, ", "))
		}
		cfg.UI.Theme = value

	case "show_timestamps", "ui_show_timestamps":
		b, err := ParseBoolString(value)
		if err != nil {
			return err
		}
		cfg.UI.ShowTimestamps = b

	case "compact_mode", "ui_compact_mode":
		b, err := ParseBoolString(value)
		if err != nil {
			return err
		}
		cfg.UI.CompactMode = b

	case "speech_enabled":
		b, err := ParseBoolString(value)
		if err != nil {
			return err
		}
		cfg.Speech.Enabled = b

	case "speech_command":
		cfg.Speech.Command = value

	case "data_dir", "storage_data_dir":
		cfg.Storage.DataDir = value

	case "cloud_db_path", "storage_cloud_db_path":
		cfg.Storage.CloudDBPath = value

	default:
		return fmt.Errorf("unknown config key: %s\n\nValid keys:\n"+
			"  api_key            - Gemini API key (prefer env var)\n"+
			"  base_url           - API endpoint URL\n"+
			"  timeout_secs       - Per-request timeout in seconds\n"+
			"  max_retries        - Retries for transient failures\n"+
			"  theme              - UI theme (dark/light/auto)\n"+
			"  show_timestamps    - Show message timestamps (true/false)\n"+
			"  compact_mode       - Compact UI layout (true/false)\n"+
			"  speech_enabled     - Enable text-to-speech (true/false)\n"+
			"  speech_command     - External synthesizer command\n"+
			"  data_dir           - Local session storage directory\n"+
			"  cloud_db_path      - Cloud-slot database path", key)
	}

	// Validate the updated config before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration value: %w", err)
	}

	// Save the updated config
	if err := SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s %s = %s\n",
		configSuccessStyle.Render("[OK]"),
		key,
		maskIfSecret(key, value))

	return nil
}

// handleConfigReset resets configuration to defaults.
func handleConfigReset() error {
	cfg := DefaultConfig()

	if err := SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("%s Configuration reset to defaults\n", configSuccessStyle.Render("[OK]"))
	fmt.Printf("Config file: %s\n", configPathStyle.Render(ConfigPath()))

	return nil
}

// handleConfigPath shows the config file path.
func handleConfigPath() error {
	path := ConfigPath()
	fmt.Println(path)

	// Also show if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "%s (file does not exist - will be created on first use)\n",
			configMaskedStyle.Render("Note"))
	}

	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

// maskAPIKey masks an API key for display using a SHA-256 fingerprint so
// key prefixes are never echoed back.
func maskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) < 8 {
		return "[invalid key]"
	}
	hash := sha256.Sum256([]byte(key))
	return fmt.Sprintf("sha256:%x...", hash[:4])
}

// maskIfSecret masks the value if the key is a secret field.
func maskIfSecret(key, value string) string {
	secretKeys := []string{"key", "secret", "token", "password"}
	keyLower := strings.ToLower(key)
	for _, s := range secretKeys {
		if strings.Contains(keyLower, s) {
			return maskAPIKey(value)
		}
	}
	return value
}

// boolString renders a bool as "true" or "false".
func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
