// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat transcripts and messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// SENDER TYPE
// =============================================================================

// Sender identifies who produced a message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderAI   Sender = "ai"
)

// String returns the string representation of the sender.
func (s Sender) String() string {
	return string(s)
}

// DisplayName returns a human-readable name for the sender.
func (s Sender) DisplayName() string {
	switch s {
	case SenderUser:
		return "You"
	case SenderAI:
		return "AI"
	default:
		return string(s)
	}
}

// =============================================================================
// CATEGORY TYPE
// =============================================================================

// Category classifies an AI-authored message at creation time. Banner
// messages (welcome, notices) are identified by category, never by
// inspecting the message text.
type Category string

const (
	CategoryNormal             Category = "normal"
	CategoryWelcome            Category = "welcome"
	CategorySystemNotification Category = "system_notification"
	CategoryError              Category = "error"
)

// =============================================================================
// ATTACHMENT TYPE
// =============================================================================

// Attachment is an inline media payload carried by a user message.
type Attachment struct {
	Data     []byte `json:"data"`
	MimeType string `json:"mime_type"`
	FileName string `json:"file_name,omitempty"`
}

// IsEmpty reports whether the attachment carries no data.
func (a *Attachment) IsEmpty() bool {
	return a == nil || len(a.Data) == 0
}

// clone copies the attachment including its data buffer.
func (a *Attachment) clone() *Attachment {
	if a == nil {
		return nil
	}
	out := *a
	out.Data = append([]byte(nil), a.Data...)
	return &out
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single entry in a chat transcript.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Text     string   `json:"text"`
	Category Category `json:"category"`
	IsError  bool     `json:"is_error,omitempty"`

	// Attachments (user messages only)
	Image *Attachment `json:"image,omitempty"`
	Audio *Attachment `json:"audio,omitempty"`

	// Persona snapshot at send time (AI messages only). Snapshots keep old
	// messages rendered with the persona that authored them after a switch.
	PersonaName   string `json:"persona_name,omitempty"`
	PersonaGlyph  string `json:"persona_glyph,omitempty"`
	PersonaAvatar string `json:"persona_avatar,omitempty"`
	PersonaStyle  string `json:"persona_style,omitempty"`

	// Streaming state (not persisted)
	// PERFORMANCE: strings.Builder avoids quadratic allocations during streaming
	IsStreaming   bool            `json:"-"`
	streamContent strings.Builder `json:"-"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(sender Sender, text string) *Message {
	return &Message{
		ID:        generateID(),
		Sender:    sender,
		Text:      text,
		Category:  CategoryNormal,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(text string) *Message {
	return NewMessage(SenderUser, text)
}

// NewAIMessage creates an empty AI message in streaming state. Tokens are
// appended as they arrive and the text is sealed by FinalizeStream.
func NewAIMessage() *Message {
	return &Message{
		ID:          generateID(),
		Sender:      SenderAI,
		Category:    CategoryNormal,
		Timestamp:   time.Now(),
		IsStreaming: true,
	}
}

// NewAINotice creates a complete AI-authored message with an explicit
// category (welcome banners, system notifications, error bubbles).
func NewAINotice(text string, category Category) *Message {
	msg := NewMessage(SenderAI, text)
	msg.Category = category
	msg.IsError = category == CategoryError
	return msg
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// WithPersona stamps the message with a persona snapshot and returns it.
func (m *Message) WithPersona(name, glyph, avatar, style string) *Message {
	m.PersonaName = name
	m.PersonaGlyph = glyph
	m.PersonaAvatar = avatar
	m.PersonaStyle = style
	return m
}

// AppendToken appends a token to a streaming message.
func (m *Message) AppendToken(token string) {
	if m.IsStreaming {
		m.streamContent.WriteString(token)
	}
}

// FinalizeStream seals the streamed content into Text.
func (m *Message) FinalizeStream() {
	if !m.IsStreaming {
		return
	}
	m.Text = m.streamContent.String()
	m.streamContent.Reset()
	m.IsStreaming = false
}

// FailStream seals a streaming message as an error bubble.
// User messages never carry IsError; only AI messages fail this way.
func (m *Message) FailStream(errText string) {
	if m.IsStreaming {
		m.streamContent.Reset()
		m.IsStreaming = false
	}
	m.Text = errText
	m.Category = CategoryError
	m.IsError = true
}

// DisplayText returns the text to display (streaming or final).
func (m *Message) DisplayText() string {
	if m.IsStreaming {
		return m.streamContent.String()
	}
	return m.Text
}

// Preview returns a truncated preview of the message text.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	text := m.DisplayText()
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no text and no attachments.
func (m *Message) IsEmpty() bool {
	return len(m.Text) == 0 && m.streamContent.Len() == 0 &&
		m.Image.IsEmpty() && m.Audio.IsEmpty()
}

// HasAttachment reports whether the message carries any media payload.
func (m *Message) HasAttachment() bool {
	return !m.Image.IsEmpty() || !m.Audio.IsEmpty()
}

// snapshot returns an independent copy of the message. The stream builder
// is not copyable, so a streaming message snapshots to its current text
// in sealed state.
func (m *Message) snapshot() *Message {
	return &Message{
		ID:            m.ID,
		Sender:        m.Sender,
		Timestamp:     m.Timestamp,
		Text:          m.DisplayText(),
		Category:      m.Category,
		IsError:       m.IsError,
		Image:         m.Image.clone(),
		Audio:         m.Audio.clone(),
		PersonaName:   m.PersonaName,
		PersonaGlyph:  m.PersonaGlyph,
		PersonaAvatar: m.PersonaAvatar,
		PersonaStyle:  m.PersonaStyle,
	}
}

// IsBanner reports whether the message is an informational banner that
// must not be replayed to the model as conversation history.
func (m *Message) IsBanner() bool {
	return m.Category == CategoryWelcome || m.Category == CategorySystemNotification
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// generateID creates a unique message ID.
func generateID() string {
	return "msg_" + uuid.NewString()
}
