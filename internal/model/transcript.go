// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat transcripts and messages.
package model

import "time"

// MaxMessages is the maximum number of messages kept in a transcript.
// When exceeded, old messages are pruned to prevent unbounded memory growth.
const MaxMessages = 1000

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript holds the ordered messages of the current chat session.
type Transcript struct {
	Messages  []*Message `json:"messages"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewTranscript creates an empty transcript.
func NewTranscript() *Transcript {
	return &Transcript{
		Messages:  make([]*Message, 0),
		UpdatedAt: time.Now(),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// Add appends a message to the transcript.
func (t *Transcript) Add(msg *Message) {
	t.Messages = append(t.Messages, msg)
	t.UpdatedAt = time.Now()
	t.pruneOldMessages()
}

// AddUserMessage creates and appends a user message.
func (t *Transcript) AddUserMessage(text string) *Message {
	msg := NewUserMessage(text)
	t.Add(msg)
	return msg
}

// AddAIMessage creates and appends a streaming AI placeholder.
func (t *Transcript) AddAIMessage() *Message {
	msg := NewAIMessage()
	t.Add(msg)
	return msg
}

// Last returns the most recent message, or nil if empty.
func (t *Transcript) Last() *Message {
	if len(t.Messages) == 0 {
		return nil
	}
	return t.Messages[len(t.Messages)-1]
}

// LastAIMessage returns the most recent AI message, or nil.
func (t *Transcript) LastAIMessage() *Message {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Sender == SenderAI {
			return t.Messages[i]
		}
	}
	return nil
}

// LastAIReply returns the most recent AI chat reply, skipping banners,
// error bubbles, and in-flight streams. Nil when the conversation has none.
func (t *Transcript) LastAIReply() *Message {
	for i := len(t.Messages) - 1; i >= 0; i-- {
		msg := t.Messages[i]
		if msg.Sender == SenderAI && !msg.IsError && !msg.IsBanner() && !msg.IsStreaming {
			return msg
		}
	}
	return nil
}

// ByID returns a message by its ID, or nil.
func (t *Transcript) ByID(id string) *Message {
	for _, msg := range t.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// AppendToken appends a streamed token to the message with the given ID.
// Tokens for unknown or already-finalized messages are dropped.
func (t *Transcript) AppendToken(id, token string) {
	if msg := t.ByID(id); msg != nil && msg.IsStreaming {
		msg.AppendToken(token)
		t.UpdatedAt = time.Now()
	}
}

// Finalize seals the streaming message with the given ID.
func (t *Transcript) Finalize(id string) {
	if msg := t.ByID(id); msg != nil && msg.IsStreaming {
		msg.FinalizeStream()
		t.UpdatedAt = time.Now()
	}
}

// Fail seals the streaming message with the given ID as an error bubble.
func (t *Transcript) Fail(id, errText string) {
	if msg := t.ByID(id); msg != nil {
		msg.FailStream(errText)
		t.UpdatedAt = time.Now()
	}
}

// Remove deletes a message by ID. Returns true if a message was removed.
func (t *Transcript) Remove(id string) bool {
	for i, msg := range t.Messages {
		if msg.ID == id {
			t.Messages = append(t.Messages[:i], t.Messages[i+1:]...)
			t.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// Clear removes all messages.
func (t *Transcript) Clear() {
	t.Messages = make([]*Message, 0)
	t.UpdatedAt = time.Now()
}

// Replace swaps the full message list, used when loading a saved session.
func (t *Transcript) Replace(msgs []*Message) {
	t.Messages = msgs
	if t.Messages == nil {
		t.Messages = make([]*Message, 0)
	}
	t.UpdatedAt = time.Now()
	t.pruneOldMessages()
}

// Len returns the number of messages.
func (t *Transcript) Len() int {
	return len(t.Messages)
}

// IsEmpty returns true if there are no messages.
func (t *Transcript) IsEmpty() bool {
	return len(t.Messages) == 0
}

// =============================================================================
// REPLAY HISTORY
// =============================================================================

// ReplayHistory returns the messages eligible for replay to the model when
// a conversation context is rebuilt. Failed AI replies and banner messages
// (welcome, system notifications) are excluded; relative order is preserved.
func (t *Transcript) ReplayHistory() []*Message {
	out := make([]*Message, 0, len(t.Messages))
	for _, msg := range t.Messages {
		if msg.Sender == SenderAI && msg.IsError {
			continue
		}
		if msg.IsBanner() {
			continue
		}
		if msg.IsStreaming {
			continue
		}
		out = append(out, msg)
	}
	return out
}

// =============================================================================
// HELPERS
// =============================================================================

// Clone creates a deep copy of the transcript. Messages cannot be copied
// by value while streaming, so each one is snapshotted field by field; an
// in-flight message clones as sealed text.
func (t *Transcript) Clone() *Transcript {
	clone := &Transcript{
		UpdatedAt: t.UpdatedAt,
		Messages:  make([]*Message, len(t.Messages)),
	}
	for i, msg := range t.Messages {
		clone.Messages[i] = msg.snapshot()
	}
	return clone
}

// pruneOldMessages drops the oldest messages once the transcript exceeds
// MaxMessages.
func (t *Transcript) pruneOldMessages() {
	if len(t.Messages) <= MaxMessages {
		return
	}
	t.Messages = t.Messages[len(t.Messages)-MaxMessages:]
}
