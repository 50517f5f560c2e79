// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line interface parsing and execution for
// gemchat.
//
// This package implements all non-TUI commands for the gemchat application:
// a one-shot ask command, a lightweight REPL alternative to the full TUI,
// plus configuration and status inspection.
//
// # Key Types
//
//   - Command: Enumeration of all available CLI commands
//   - Args: Parsed command-line arguments with global and command-specific flags
//   - ChatCLI: Readline-style input with persistent history for the REPL
//
// # Usage
//
// Parse and execute commands:
//
//	cmd, args := cli.Parse()
//	switch cmd {
//	case cli.CmdAsk:
//	    cli.HandleAsk(args)
//	case cli.CmdChat:
//	    return cli.HandleChat(args)
//	// ... other commands
//	}
//
// # Commands Overview
//
//   - (default): Launch the full-screen TUI
//   - ask: Single question, streamed answer
//   - chat: Interactive REPL chat session
//   - status: Credential, storage, and terminal status
//   - config: View and modify configuration
//   - version: Show version information
//
// Markdown output is rendered with glamour on TTYs and emitted as plain
// text when stdout is piped.
package cli
