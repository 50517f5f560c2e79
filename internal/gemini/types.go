// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"encoding/base64"

	"github.com/miastudio/gemchat-tui/internal/model"
)

// =============================================================================
// WIRE TYPES
// =============================================================================

// Content is one conversational turn in the Gemini wire format.
type Content struct {
	Role  string `json:"role,omitempty"` // "user" or "model"
	Parts []Part `json:"parts"`
}

// Part is a single piece of a turn: text or inline media.
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inline_data,omitempty"`
}

// Blob carries base64-encoded inline media.
type Blob struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// TextPart creates a text part.
func TextPart(text string) Part {
	return Part{Text: text}
}

// InlinePart creates an inline media part from raw bytes.
func InlinePart(mimeType string, data []byte) Part {
	return Part{InlineData: &Blob{
		MimeType: mimeType,
		Data:     base64.StdEncoding.EncodeToString(data),
	}}
}

// generateContentRequest is the request body for generateContent and
// streamGenerateContent.
type generateContentRequest struct {
	SystemInstruction *Content  `json:"system_instruction,omitempty"`
	Contents          []Content `json:"contents"`
}

// GenerateContentResponse is a response (or stream chunk) from the API.
type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// Candidate is one generated reply candidate.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// Text returns the concatenated text of the first candidate's parts.
func (r *GenerateContentResponse) Text() string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var out string
	for _, p := range r.Candidates[0].Content.Parts {
		out += p.Text
	}
	return out
}

// apiErrorResponse is the error envelope returned by the API.
type apiErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// =============================================================================
// MESSAGE CONVERSION
// =============================================================================

// BuildTurn assembles a user turn from text and optional attachments.
// Part order is fixed: text, image, audio. Returns false when all pieces
// are absent.
func BuildTurn(text string, image, audio *model.Attachment) (Content, bool) {
	parts := make([]Part, 0, 3)
	if text != "" {
		parts = append(parts, TextPart(text))
	}
	if !image.IsEmpty() {
		parts = append(parts, InlinePart(image.MimeType, image.Data))
	}
	if !audio.IsEmpty() {
		parts = append(parts, InlinePart(audio.MimeType, audio.Data))
	}
	if len(parts) == 0 {
		return Content{}, false
	}
	return Content{Role: "user", Parts: parts}, true
}

// ContentFromMessage converts a transcript message into a replay turn.
// Returns false for messages that yield no parts.
func ContentFromMessage(msg *model.Message) (Content, bool) {
	role := "model"
	if msg.Sender == model.SenderUser {
		role = "user"
	}
	c, ok := BuildTurn(msg.Text, msg.Image, msg.Audio)
	if !ok {
		return Content{}, false
	}
	c.Role = role
	return c, true
}

// FormatHistory converts transcript messages to wire-format history,
// dropping failed AI replies and messages with no content. Order is
// preserved.
func FormatHistory(msgs []*model.Message) []Content {
	history := make([]Content, 0, len(msgs))
	for _, msg := range msgs {
		if msg.Sender == model.SenderAI && msg.IsError {
			continue
		}
		if c, ok := ContentFromMessage(msg); ok {
			history = append(history, c)
		}
	}
	return history
}
