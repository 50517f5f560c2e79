// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view component for the gemchat TUI.

The chat package implements the interactive conversation surface using the
Bubble Tea framework: a scrolling transcript, an input line with slash
command completion, and real-time streaming of Gemini replies.

# Key Components

## Model (model.go)

The Model struct holds the chat view state:
  - The transcript and its persona-stamped message bubbles
  - Input handling with a character counter
  - Viewport scrolling over rendered messages
  - Streaming state (awaiting flag, target message id, token buffer)
  - Toast notifications

## Update Loop (update.go)

Handles keyboard input, tab completion over the command registry, and the
Stream* lifecycle messages delivered by the orchestrator's network
goroutine.

## View Rendering (view.go)

Renders the transcript viewport, the thinking spinner, the bordered input
box, the completion popup, and the bottom-right toast overlay.

## Streaming (streaming.go)

StreamingBuffer batches incoming tokens and flushes them into the
transcript at a capped frame rate, keeping rendering smooth even for
fast token streams.

# Usage

The chat model is a sub-model of the application's root model. The root
model forwards messages to it and dispatches the SubmitMsg actions it
emits:

	chatModel := chat.New(theme, registry)
	id, cmd := chatModel.BeginStream(text, nil, nil)
	// network goroutine delivers chat.StreamTokenMsg{MessageID: id, ...}
	// via Program.Send; Update applies them to the transcript.
*/
package chat
