// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the message types flowing through the Bubble Tea loop
// during a chat session. Streaming messages are produced by the network
// goroutine via Program.Send; delivery order follows send order, so token
// messages for one reply always arrive in the order the API produced them.
package chat

import (
	"time"

	"github.com/miastudio/gemchat-tui/internal/commands"
)

// =============================================================================
// INPUT MESSAGES
// =============================================================================

// SubmitMsg is emitted when the user submits a line of input. The chat
// model parses the line; the orchestrator dispatches the resolved action.
type SubmitMsg struct {
	Action   commands.Action
	RawInput string
}

// =============================================================================
// STREAMING LIFECYCLE MESSAGES
// =============================================================================

// StreamStartMsg marks the start of a streaming reply. MessageID is the id
// of the assistant placeholder the tokens will be appended to.
type StreamStartMsg struct {
	MessageID string
}

// StreamTokenMsg carries one token chunk of a streaming reply.
type StreamTokenMsg struct {
	MessageID string
	Token     string
}

// StreamCompleteMsg marks the successful end of a streaming reply. Text is
// the full reply, used by the orchestrator for auto-play.
type StreamCompleteMsg struct {
	MessageID string
	Text      string
}

// StreamErrorMsg marks a failed reply. Message is user-presentable.
// Definitive means retrying the same send would fail again.
type StreamErrorMsg struct {
	MessageID  string
	Message    string
	Definitive bool
}

// StreamTickMsg is sent at the render frame rate during streaming so
// buffered tokens reach the viewport in batches instead of per token.
type StreamTickMsg struct {
	Time time.Time
}
