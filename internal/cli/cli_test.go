// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution.
//
// This test file covers argument parsing for the user-facing commands:
// ask, chat, status, and config.
package cli

import (
	"os"
	"strings"
	"testing"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"show"},
			wantSub: "show",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"set", "--force", "timeout_secs"},
			wantSub: "set",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.HasFlag("force") {
					t.Error("HasFlag(force) should be true")
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"ask", "--image=photo.png"},
			wantSub: "ask",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("image") != "photo.png" {
					t.Errorf("Flag(image) = %q, want %q", p.Flag("image"), "photo.png")
				}
			},
		},
		{
			name:    "multiple positional args",
			args:    []string{"what", "is", "a", "goroutine"},
			wantSub: "what",
			validate: func(t *testing.T, p *ArgParser) {
				if p.PositionalCount() != 4 {
					t.Errorf("PositionalCount() = %d, want 4", p.PositionalCount())
				}
				joined := strings.Join(p.PositionalFrom(0), " ")
				if joined != "what is a goroutine" {
					t.Errorf("PositionalFrom(0) joined = %q, want %q", joined, "what is a goroutine")
				}
			},
		},
		{
			name:    "mixed flags and positional",
			args:    []string{"--model", "gemini-2.5-pro", "Hello", "world"},
			wantSub: "Hello",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("model") != "gemini-2.5-pro" {
					t.Errorf("Flag(model) = %q, want %q", p.Flag("model"), "gemini-2.5-pro")
				}
				if p.Positional(1) != "world" {
					t.Errorf("Positional(1) = %q, want %q", p.Positional(1), "world")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewArgParser(tt.args)
			if parser.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", parser.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, parser)
			}
		})
	}
}

func TestArgParser_FlagIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		flagName   string
		defaultVal int
		want       int
	}{
		{
			name:       "flag present",
			args:       []string{"cmd", "--timeout", "60"},
			flagName:   "timeout",
			defaultVal: 120,
			want:       60,
		},
		{
			name:       "flag missing uses default",
			args:       []string{"cmd"},
			flagName:   "timeout",
			defaultVal: 120,
			want:       120,
		},
		{
			name:       "invalid int uses default",
			args:       []string{"cmd", "--timeout", "abc"},
			flagName:   "timeout",
			defaultVal: 120,
			want:       120,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parser := NewArgParser(tt.args)
			got := parser.FlagIntOrDefault(tt.flagName, tt.defaultVal)
			if got != tt.want {
				t.Errorf("FlagIntOrDefault(%q, %d) = %d, want %d", tt.flagName, tt.defaultVal, got, tt.want)
			}
		})
	}
}

func TestArgParser_HasFlag(t *testing.T) {
	parser := NewArgParser([]string{"cmd", "--verbose", "--image", "a.png"})

	if !parser.HasFlag("verbose") {
		t.Error("HasFlag(verbose) should be true")
	}
	if !parser.HasFlag("image") {
		t.Error("HasFlag(image) should be true")
	}
	if parser.HasFlag("nonexistent") {
		t.Error("HasFlag(nonexistent) should be false")
	}
}

// =============================================================================
// PARSE BOOL STRING TESTS
// =============================================================================

func TestParseBoolString(t *testing.T) {
	trueValues := []string{"true", "TRUE", "True", "yes", "YES", "y", "Y", "1", "on", "ON"}
	falseValues := []string{"false", "FALSE", "False", "no", "NO", "n", "N", "0", "off", "OFF"}

	for _, v := range trueValues {
		t.Run("true_"+v, func(t *testing.T) {
			got, err := ParseBoolString(v)
			if err != nil {
				t.Errorf("ParseBoolString(%q) error = %v", v, err)
			}
			if !got {
				t.Errorf("ParseBoolString(%q) = false, want true", v)
			}
		})
	}

	for _, v := range falseValues {
		t.Run("false_"+v, func(t *testing.T) {
			got, err := ParseBoolString(v)
			if err != nil {
				t.Errorf("ParseBoolString(%q) error = %v", v, err)
			}
			if got {
				t.Errorf("ParseBoolString(%q) = true, want false", v)
			}
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseBoolString("maybe")
		if err == nil {
			t.Error("ParseBoolString(maybe) should error")
		}
	})
}

// =============================================================================
// PARSE INT WITH VALIDATION TESTS
// =============================================================================

func TestParseIntWithValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		field   string
		want    int
		wantErr bool
	}{
		{"valid positive", "42", "count", 42, false},
		{"valid one", "1", "count", 1, false},
		{"zero is invalid", "0", "count", 0, true},
		{"negative is invalid", "-5", "count", 0, true},
		{"empty is invalid", "", "count", 0, true},
		{"non-numeric is invalid", "abc", "count", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseIntWithValidation(tt.input, tt.field)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseIntWithValidation(%q, %q) error = %v, wantErr %v", tt.input, tt.field, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("ParseIntWithValidation(%q, %q) = %d, want %d", tt.input, tt.field, got, tt.want)
			}
		})
	}
}

// =============================================================================
// SECRET MASKING TESTS
// =============================================================================

func TestMaskAPIKey(t *testing.T) {
	if got := maskAPIKey(""); got != "(not set)" {
		t.Errorf("maskAPIKey(empty) = %q", got)
	}
	if got := maskAPIKey("short"); got != "[invalid key]" {
		t.Errorf("maskAPIKey(short) = %q", got)
	}

	masked := maskAPIKey("AIzaSyA-fake-key-for-testing")
	if !strings.HasPrefix(masked, "sha256:") {
		t.Errorf("maskAPIKey should return a fingerprint, got %q", masked)
	}
	if strings.Contains(masked, "AIza") {
		t.Errorf("maskAPIKey leaked key material: %q", masked)
	}
}

func TestMaskIfSecret(t *testing.T) {
	if got := maskIfSecret("theme", "dark"); got != "dark" {
		t.Errorf("maskIfSecret(theme) = %q, want passthrough", got)
	}
	if got := maskIfSecret("api_key", "AIzaSyA-fake-key-for-testing"); strings.Contains(got, "AIza") {
		t.Errorf("maskIfSecret(api_key) leaked value: %q", got)
	}
}

// =============================================================================
// INTEGRATION-STYLE TESTS (testing Parse() with os.Args simulation)
// =============================================================================

// TestParse_Integration tests the actual Parse() function by temporarily
// modifying os.Args. This is an integration test of the full CLI parsing.
func TestParse_Integration(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() { os.Args = originalArgs }()

	tests := []struct {
		name        string
		args        []string
		wantCommand Command
		validate    func(*testing.T, Args)
	}{
		{
			name:        "bare invocation is TUI",
			args:        []string{"gemchat"},
			wantCommand: CmdTUI,
		},
		{
			name:        "ask command",
			args:        []string{"gemchat", "ask", "What", "is", "Go?"},
			wantCommand: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if a.Query != "What is Go?" {
					t.Errorf("Query = %q, want %q", a.Query, "What is Go?")
				}
			},
		},
		{
			name:        "ask with model flag",
			args:        []string{"gemchat", "ask", "--model", "pro", "Hello"},
			wantCommand: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if a.Model != "pro" {
					t.Errorf("Model = %q, want %q", a.Model, "pro")
				}
				if a.Query != "Hello" {
					t.Errorf("Query = %q, want %q", a.Query, "Hello")
				}
			},
		},
		{
			name:        "ask with persona flag",
			args:        []string{"gemchat", "ask", "--persona", "miette", "hi"},
			wantCommand: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if a.Persona != "miette" {
					t.Errorf("Persona = %q, want %q", a.Persona, "miette")
				}
			},
		},
		{
			name:        "ask with image attachment",
			args:        []string{"gemchat", "ask", "--image", "photo.png", "describe", "this"},
			wantCommand: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if a.ImagePath != "photo.png" {
					t.Errorf("ImagePath = %q, want %q", a.ImagePath, "photo.png")
				}
				if a.Query != "describe this" {
					t.Errorf("Query = %q, want %q", a.Query, "describe this")
				}
			},
		},
		{
			name:        "ask with quiet flag",
			args:        []string{"gemchat", "ask", "-q", "Question"},
			wantCommand: CmdAsk,
			validate: func(t *testing.T, a Args) {
				if !a.Quiet {
					t.Error("Quiet should be true")
				}
			},
		},
		{
			name:        "chat command",
			args:        []string{"gemchat", "chat"},
			wantCommand: CmdChat,
		},
		{
			name:        "chat with model equals form",
			args:        []string{"gemchat", "chat", "--model=flash"},
			wantCommand: CmdChat,
			validate: func(t *testing.T, a Args) {
				if a.Model != "flash" {
					t.Errorf("Model = %q, want %q", a.Model, "flash")
				}
			},
		},
		{
			name:        "status command",
			args:        []string{"gemchat", "status"},
			wantCommand: CmdStatus,
		},
		{
			name:        "status short alias",
			args:        []string{"gemchat", "s"},
			wantCommand: CmdStatus,
		},
		{
			name:        "config show",
			args:        []string{"gemchat", "config", "show"},
			wantCommand: CmdConfig,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "show" {
					t.Errorf("Subcommand = %q, want %q", a.Subcommand, "show")
				}
			},
		},
		{
			name:        "config set key value",
			args:        []string{"gemchat", "config", "set", "theme", "light"},
			wantCommand: CmdConfig,
			validate: func(t *testing.T, a Args) {
				if a.Subcommand != "set" {
					t.Errorf("Subcommand = %q, want %q", a.Subcommand, "set")
				}
				if a.ConfigKey != "theme" {
					t.Errorf("ConfigKey = %q, want %q", a.ConfigKey, "theme")
				}
				if a.ConfigVal != "light" {
					t.Errorf("ConfigVal = %q, want %q", a.ConfigVal, "light")
				}
			},
		},
		{
			name:        "help command",
			args:        []string{"gemchat", "help"},
			wantCommand: CmdHelp,
		},
		{
			name:        "version flag",
			args:        []string{"gemchat", "--version"},
			wantCommand: CmdVersion,
		},
		{
			name:        "unknown command falls back to TUI",
			args:        []string{"gemchat", "bogus"},
			wantCommand: CmdTUI,
			validate: func(t *testing.T, a Args) {
				if len(a.Raw) == 0 || a.Raw[0] != "bogus" {
					t.Errorf("Raw = %v, want the unknown token preserved", a.Raw)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			cmd, args := Parse()

			if cmd != tt.wantCommand {
				t.Errorf("Command = %v, want %v", cmd, tt.wantCommand)
			}

			if tt.validate != nil {
				tt.validate(t, args)
			}
		})
	}
}

// =============================================================================
// EDGE CASES
// =============================================================================

func TestArgParser_EmptyArgs(t *testing.T) {
	parser := NewArgParser([]string{})
	if parser.Subcommand() != "" {
		t.Errorf("Subcommand() = %q, want empty", parser.Subcommand())
	}
	if parser.PositionalCount() != 0 {
		t.Errorf("PositionalCount() = %d, want 0", parser.PositionalCount())
	}
}

func TestArgParser_OnlyFlags(t *testing.T) {
	parser := NewArgParser([]string{"--verbose", "--json"})
	if parser.Subcommand() != "" {
		t.Errorf("Subcommand() = %q, want empty", parser.Subcommand())
	}
	if !parser.BoolFlag("verbose") {
		t.Error("BoolFlag(verbose) should be true")
	}
	if !parser.BoolFlag("json") {
		t.Error("BoolFlag(json) should be true")
	}
}

func TestArgParser_FlagOrDefault(t *testing.T) {
	parser := NewArgParser([]string{"cmd", "--present", "value"})

	if parser.FlagOrDefault("present", "default") != "value" {
		t.Error("FlagOrDefault should return actual value when present")
	}
	if parser.FlagOrDefault("missing", "default") != "default" {
		t.Error("FlagOrDefault should return default when missing")
	}
}

// =============================================================================
// MIME DETECTION TESTS
// =============================================================================

func TestDetectMimeType(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"photo.png", "image/png"},
		{"photo.JPG", "image/jpeg"},
		{"clip.webp", "image/webp"},
		{"voice.mp3", "audio/mpeg"},
		{"voice.wav", "audio/wav"},
		{"mystery.bin", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := detectMimeType(tt.path); got != tt.want {
				t.Errorf("detectMimeType(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

// =============================================================================
// BENCHMARKS
// =============================================================================

func BenchmarkArgParser_Simple(b *testing.B) {
	args := []string{"ask", "What is Go?"}
	for i := 0; i < b.N; i++ {
		NewArgParser(args)
	}
}

func BenchmarkArgParser_Complex(b *testing.B) {
	args := []string{"ask", "--model", "gemini-2.5-pro", "--persona", "miette", "--image", "photo.png", "-q", "Complex task with many arguments"}
	for i := 0; i < b.N; i++ {
		NewArgParser(args)
	}
}
