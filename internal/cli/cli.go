// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for gemchat.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	Model   string
	Persona string

	// Command-specific
	Query      string
	ImagePath  string
	AudioPath  string
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `gemchat - Mia's Gem Chat Studio for the terminal

Gemchat is a persona-based chat client for Google's Gemini API.

It provides:
  - Streaming chat with selectable personas (mia, miette, seraphine, resonova)
  - Session save/load, locally and to named cloud slots
  - Spoken replies through an external synthesizer
  - A full-screen TUI plus one-shot and REPL command modes

Usage:
  gemchat                    Start TUI (default)
  gemchat ask "question"     Ask a single question
  gemchat chat               Interactive REPL chat
  gemchat status, s          Show credential and config status
  gemchat config [show|set|path]  Configuration
  gemchat version            Show version
  gemchat help               Show this help

Global Flags:
  -q, --quiet       Minimal output
  -v, --verbose     Debug output
  --model NAME      Override the configured model (flash, pro, ...)
  --persona ID      Override the configured persona

Examples:
  gemchat                              Start the TUI
  gemchat ask "What is a goroutine?"   One-shot question
  gemchat ask --persona miette "hi"    Ask as a specific persona
  gemchat ask --image photo.png "describe this"
  gemchat chat --model pro             REPL with the pro model
  gemchat config set theme light       Set the UI theme
  gemchat config set speech_command say  Set the synthesizer

Environment:
  GEMCHAT_API_KEY   Gemini API key (API_KEY accepted as legacy fallback)
  GEMCHAT_BASE_URL  Override the API endpoint
  GEMCHAT_DATA_DIR  Override the session data directory

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("gemchat version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsedArgs := parseGlobalFlags(args)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		parseAskArgs(&parsedArgs, remaining)
		return CmdChat, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command defaults to the TUI; keep the token so it is
		// not silently eaten.
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		return CmdTUI, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--model":
			if i+1 < len(args) {
				i++
				parsedArgs.Model = args[i]
			}
		case "--persona":
			if i+1 < len(args) {
				i++
				parsedArgs.Persona = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--model="):
				parsedArgs.Model = strings.TrimPrefix(arg, "--model=")
			case strings.HasPrefix(arg, "--persona="):
				parsedArgs.Persona = strings.TrimPrefix(arg, "--persona=")
			default:
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask/chat specific arguments. Everything that is
// not a flag becomes part of the query.
func parseAskArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)

	if v := parser.Flag("model"); v != "" {
		args.Model = v
	}
	if v := parser.Flag("m"); v != "" {
		args.Model = v
	}
	if v := parser.Flag("persona"); v != "" {
		args.Persona = v
	}
	if v := parser.Flag("p"); v != "" {
		args.Persona = v
	}
	args.ImagePath = parser.Flag("image")
	args.AudioPath = parser.Flag("audio")

	args.Query = strings.Join(parser.PositionalFrom(0), " ")
}

// parseConfigArgs parses config command arguments.
func parseConfigArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)

	args.Subcommand = parser.Subcommand()
	args.ConfigKey = parser.Positional(1)
	args.ConfigVal = strings.Join(parser.PositionalFrom(2), " ")
}
