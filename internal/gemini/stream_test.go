// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/miastudio/gemchat-tui/internal/model"
)

// =============================================================================
// SSE READER TESTS
// =============================================================================

func TestSSEReader_ReadEvent(t *testing.T) {
	input := "event: message\ndata: hello\n\ndata: world\n\n"
	reader := NewSSEReader(strings.NewReader(input))

	eventType, data, err := reader.ReadEvent()
	if err != nil {
		t.Fatalf("first event: %v", err)
	}
	if eventType != "message" {
		t.Errorf("event type = %q, want %q", eventType, "message")
	}
	if string(data) != "hello" {
		t.Errorf("data = %q, want %q", string(data), "hello")
	}

	_, data, err = reader.ReadEvent()
	if err != nil {
		t.Fatalf("second event: %v", err)
	}
	if string(data) != "world" {
		t.Errorf("data = %q, want %q", string(data), "world")
	}

	_, _, err = reader.ReadEvent()
	if err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestSSEReader_MultilineData(t *testing.T) {
	input := "data: line1\ndata: line2\n\n"
	reader := NewSSEReader(strings.NewReader(input))

	_, data, err := reader.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent: %v", err)
	}
	if string(data) != "line1\nline2" {
		t.Errorf("data = %q, want joined lines", string(data))
	}
}

func TestSSEReader_FlushesDataAtEOF(t *testing.T) {
	// No trailing blank line before the stream ends.
	input := "data: tail\n"
	reader := NewSSEReader(strings.NewReader(input))

	_, data, err := reader.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent: %v", err)
	}
	if string(data) != "tail" {
		t.Errorf("data = %q, want %q", string(data), "tail")
	}
}

func TestSSEReader_IgnoresCommentsAndCR(t *testing.T) {
	input := ": keepalive\r\ndata: payload\r\n\r\n"
	reader := NewSSEReader(strings.NewReader(input))

	_, data, err := reader.ReadEvent()
	if err != nil {
		t.Fatalf("ReadEvent: %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("data = %q, want %q", string(data), "payload")
	}
}

// =============================================================================
// STREAM PROCESSING TESTS
// =============================================================================

func chunkJSON(text string) string {
	return `{"candidates":[{"content":{"role":"model","parts":[{"text":"` + text + `"}]}}]}`
}

func TestProcessStream_ForwardsTokensInOrder(t *testing.T) {
	input := "data: " + chunkJSON("Hello") + "\n\n" +
		"data: " + chunkJSON(", world") + "\n\n"

	var tokens []string
	err := processStream(context.Background(), strings.NewReader(input), func(text string) {
		tokens = append(tokens, text)
	})
	if err != nil {
		t.Fatalf("processStream: %v", err)
	}
	if len(tokens) != 2 || tokens[0] != "Hello" || tokens[1] != ", world" {
		t.Errorf("tokens = %v", tokens)
	}
}

func TestProcessStream_SkipsMalformedAndEmptyChunks(t *testing.T) {
	input := "data: not json\n\n" +
		`data: {"candidates":[]}` + "\n\n" +
		"data: " + chunkJSON("ok") + "\n\n"

	var tokens []string
	err := processStream(context.Background(), strings.NewReader(input), func(text string) {
		tokens = append(tokens, text)
	})
	if err != nil {
		t.Fatalf("processStream: %v", err)
	}
	if len(tokens) != 1 || tokens[0] != "ok" {
		t.Errorf("tokens = %v, want only the valid chunk", tokens)
	}
}

func TestProcessStream_MidStreamErrorEnvelope(t *testing.T) {
	input := "data: " + chunkJSON("partial") + "\n\n" +
		`data: {"error":{"code":400,"message":"API_KEY_INVALID","status":"INVALID_ARGUMENT"}}` + "\n\n"

	var tokens []string
	err := processStream(context.Background(), strings.NewReader(input), func(text string) {
		tokens = append(tokens, text)
	})
	var apiErr *streamAPIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected streamAPIError, got %v", err)
	}
	if apiErr.code != 400 || apiErr.message != "API_KEY_INVALID" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	// Tokens before the error still arrived.
	if len(tokens) != 1 || tokens[0] != "partial" {
		t.Errorf("tokens = %v", tokens)
	}
}

func TestProcessStream_ContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := processStream(ctx, strings.NewReader("data: x\n\n"), func(string) {})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

// =============================================================================
// MESSAGE CONVERSION TESTS
// =============================================================================

func TestBuildTurn_PartOrder(t *testing.T) {
	image := &model.Attachment{Data: []byte{1, 2}, MimeType: "image/png"}
	audio := &model.Attachment{Data: []byte{3, 4}, MimeType: "audio/wav"}

	turn, ok := BuildTurn("hi", image, audio)
	if !ok {
		t.Fatal("BuildTurn returned false")
	}
	if turn.Role != "user" {
		t.Errorf("role = %q", turn.Role)
	}
	if len(turn.Parts) != 3 {
		t.Fatalf("parts = %d, want 3", len(turn.Parts))
	}
	if turn.Parts[0].Text != "hi" {
		t.Errorf("part 0 should be text")
	}
	if turn.Parts[1].InlineData == nil || turn.Parts[1].InlineData.MimeType != "image/png" {
		t.Errorf("part 1 should be the image")
	}
	if turn.Parts[2].InlineData == nil || turn.Parts[2].InlineData.MimeType != "audio/wav" {
		t.Errorf("part 2 should be the audio")
	}
}

func TestBuildTurn_Empty(t *testing.T) {
	if _, ok := BuildTurn("", nil, nil); ok {
		t.Error("empty turn should return false")
	}
}

func TestBuildTurn_AttachmentOnly(t *testing.T) {
	image := &model.Attachment{Data: []byte{1}, MimeType: "image/png"}
	turn, ok := BuildTurn("", image, nil)
	if !ok {
		t.Fatal("attachment-only turn should be valid")
	}
	if len(turn.Parts) != 1 {
		t.Errorf("parts = %d, want 1", len(turn.Parts))
	}
}

func TestFormatHistory_FiltersFailedReplies(t *testing.T) {
	user := model.NewUserMessage("question")
	failed := model.NewAIMessage()
	failed.FailStream("boom")
	reply := model.NewAIMessage()
	reply.AppendToken("answer")
	reply.FinalizeStream()

	history := FormatHistory([]*model.Message{user, failed, reply})
	if len(history) != 2 {
		t.Fatalf("history = %d turns, want 2", len(history))
	}
	if history[0].Role != "user" || history[1].Role != "model" {
		t.Errorf("roles = %q, %q", history[0].Role, history[1].Role)
	}
	if history[1].Parts[0].Text != "answer" {
		t.Errorf("model turn text = %q", history[1].Parts[0].Text)
	}
}
