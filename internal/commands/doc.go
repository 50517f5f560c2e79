// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the chat TUI.
//
// Input parses into a closed set of Action variants: plain text becomes
// SendMessage, slash input resolves through the Registry into the typed
// action for that command. The orchestrator switches over actions
// exhaustively; nothing executes inside this package.
//
// # Key Types
//
//   - Action: closed set of user intents
//   - Registry: command registry with all built-in commands
//   - Parser: input line -> ParseResult with the resolved Action
//   - Completer: tab completion for commands and arguments
//
// # Built-in Commands
//
//   - /persona, /personas: switch persona or list the catalog
//   - /model, /models: switch model or list the registry
//   - /instructions: override the active persona's instruction
//   - /clear, /save, /load: transcript lifecycle
//   - /cloud save|load|delete|list: named cloud slots
//   - /speak, /autoplay: speech playback
//   - /image, /audio: send with an attachment
//   - /view, /help, /quit
//
// # Usage
//
//	result := parser.Parse(input)
//	if result.Error != nil {
//	    // show result.Error
//	}
//	switch action := result.Action.(type) {
//	case commands.SendMessage:
//	    ...
//	}
package commands
