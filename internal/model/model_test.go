// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat transcripts and messages.
package model

import (
	"testing"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestMessage_Streaming(t *testing.T) {
	msg := NewAIMessage()
	if !msg.IsStreaming {
		t.Fatal("NewAIMessage should start in streaming state")
	}

	msg.AppendToken("Hello")
	msg.AppendToken(", world")
	if got := msg.DisplayText(); got != "Hello, world" {
		t.Errorf("DisplayText during stream = %q, want %q", got, "Hello, world")
	}

	msg.FinalizeStream()
	if msg.IsStreaming {
		t.Error("FinalizeStream should clear streaming state")
	}
	if msg.Text != "Hello, world" {
		t.Errorf("Text after finalize = %q, want %q", msg.Text, "Hello, world")
	}

	// Tokens after finalize are dropped
	msg.AppendToken("ignored")
	if msg.Text != "Hello, world" {
		t.Error("AppendToken after finalize should be a no-op")
	}
}

func TestMessage_FailStream(t *testing.T) {
	msg := NewAIMessage()
	msg.AppendToken("partial reply")
	msg.FailStream("Something went wrong.")

	if msg.IsStreaming {
		t.Error("FailStream should clear streaming state")
	}
	if !msg.IsError {
		t.Error("FailStream should mark the message as an error")
	}
	if msg.Category != CategoryError {
		t.Errorf("Category = %q, want %q", msg.Category, CategoryError)
	}
	if msg.Text != "Something went wrong." {
		t.Errorf("Text = %q, want error text", msg.Text)
	}
}

func TestMessage_Categories(t *testing.T) {
	welcome := NewAINotice("Welcome!", CategoryWelcome)
	if !welcome.IsBanner() {
		t.Error("Welcome message should be a banner")
	}
	if welcome.IsError {
		t.Error("Welcome message should not be an error")
	}

	notice := NewAINotice("Persona switched.", CategorySystemNotification)
	if !notice.IsBanner() {
		t.Error("System notification should be a banner")
	}

	errMsg := NewAINotice("Boom.", CategoryError)
	if errMsg.IsBanner() {
		t.Error("Error message should not be a banner")
	}
	if !errMsg.IsError {
		t.Error("CategoryError notice should set IsError")
	}

	normal := NewUserMessage("hi")
	if normal.Category != CategoryNormal {
		t.Errorf("User message category = %q, want %q", normal.Category, CategoryNormal)
	}
}

func TestMessage_Attachments(t *testing.T) {
	msg := NewUserMessage("")
	if msg.HasAttachment() {
		t.Error("Message without attachments should report none")
	}
	if !msg.IsEmpty() {
		t.Error("Blank message without attachments should be empty")
	}

	msg.Image = &Attachment{Data: []byte{0x89, 0x50}, MimeType: "image/png"}
	if !msg.HasAttachment() {
		t.Error("Message with image should report an attachment")
	}
	if msg.IsEmpty() {
		t.Error("Message with image should not be empty")
	}
}

func TestMessage_PersonaSnapshot(t *testing.T) {
	msg := NewAIMessage().WithPersona("Mia", "🧠", "mia.png", "bg-blue-500")
	if msg.PersonaName != "Mia" || msg.PersonaGlyph != "🧠" {
		t.Errorf("Persona snapshot not stamped: %+v", msg)
	}
}

func TestMessage_Preview(t *testing.T) {
	msg := NewUserMessage("héllo wörld this is a long message")
	if got := msg.Preview(10); RuneCount(got) > 10 {
		t.Errorf("Preview exceeded max length: %q", got)
	}
	short := NewUserMessage("hi")
	if got := short.Preview(10); got != "hi" {
		t.Errorf("Preview of short message = %q, want %q", got, "hi")
	}
}

// RuneCount is a test helper counting runes.
func RuneCount(s string) int {
	return len([]rune(s))
}

// =============================================================================
// TRANSCRIPT TESTS
// =============================================================================

func TestTranscript_AppendByID(t *testing.T) {
	tr := NewTranscript()
	tr.AddUserMessage("question")
	reply := tr.AddAIMessage()

	tr.AppendToken(reply.ID, "ans")
	tr.AppendToken(reply.ID, "wer")
	tr.AppendToken("msg_unknown", "dropped")
	tr.Finalize(reply.ID)

	if reply.Text != "answer" {
		t.Errorf("Finalized text = %q, want %q", reply.Text, "answer")
	}
	if tr.Len() != 2 {
		t.Errorf("Len = %d, want 2", tr.Len())
	}
}

func TestTranscript_ReplayHistory(t *testing.T) {
	tr := NewTranscript()
	tr.Add(NewAINotice("Welcome!", CategoryWelcome))
	tr.AddUserMessage("first")
	ok := tr.AddAIMessage()
	tr.AppendToken(ok.ID, "fine reply")
	tr.Finalize(ok.ID)
	tr.Add(NewAINotice("Persona switched.", CategorySystemNotification))
	tr.AddUserMessage("second")
	failed := tr.AddAIMessage()
	tr.Fail(failed.ID, "network error")

	history := tr.ReplayHistory()
	if len(history) != 3 {
		t.Fatalf("ReplayHistory len = %d, want 3", len(history))
	}
	if history[0].Text != "first" || history[1].Text != "fine reply" || history[2].Text != "second" {
		t.Errorf("ReplayHistory order wrong: %q %q %q",
			history[0].Text, history[1].Text, history[2].Text)
	}
}

func TestTranscript_ReplayHistory_SkipsInFlight(t *testing.T) {
	tr := NewTranscript()
	tr.AddUserMessage("q")
	tr.AddAIMessage() // still streaming

	history := tr.ReplayHistory()
	if len(history) != 1 {
		t.Errorf("In-flight placeholder should be excluded, got %d entries", len(history))
	}
}

func TestTranscript_ClearAndReplace(t *testing.T) {
	tr := NewTranscript()
	tr.AddUserMessage("a")
	tr.AddUserMessage("b")
	tr.Clear()
	if !tr.IsEmpty() {
		t.Error("Clear should empty the transcript")
	}

	tr.Replace([]*Message{NewUserMessage("restored")})
	if tr.Len() != 1 || tr.Last().Text != "restored" {
		t.Error("Replace should install the given messages")
	}

	tr.Replace(nil)
	if tr.Messages == nil {
		t.Error("Replace(nil) should leave a non-nil slice")
	}
}

func TestTranscript_Prune(t *testing.T) {
	tr := NewTranscript()
	for i := 0; i < MaxMessages+10; i++ {
		tr.AddUserMessage("msg")
	}
	if tr.Len() != MaxMessages {
		t.Errorf("Len after prune = %d, want %d", tr.Len(), MaxMessages)
	}
}

func TestTranscript_Clone(t *testing.T) {
	tr := NewTranscript()
	orig := tr.AddUserMessage("original")

	clone := tr.Clone()
	clone.Messages[0].Text = "mutated"

	if orig.Text != "original" {
		t.Error("Clone should deep-copy messages")
	}
}

func TestTranscript_CloneSealsInFlightMessage(t *testing.T) {
	tr := NewTranscript()
	tr.AddUserMessage("hello")
	reply := tr.AddAIMessage()
	reply.AppendToken("partial ")
	reply.AppendToken("reply")

	clone := tr.Clone()

	cloned := clone.Messages[1]
	if cloned.IsStreaming {
		t.Error("cloned message should be sealed")
	}
	if cloned.Text != "partial reply" {
		t.Errorf("cloned text = %q, want streamed content", cloned.Text)
	}

	// The original keeps streaming untouched.
	reply.AppendToken(" continues")
	if !reply.IsStreaming {
		t.Error("original must stay in streaming state")
	}
	if cloned.Text != "partial reply" {
		t.Errorf("clone text changed to %q after original streamed on", cloned.Text)
	}
}

func TestTranscript_CloneCopiesAttachments(t *testing.T) {
	tr := NewTranscript()
	msg := tr.AddUserMessage("with image")
	msg.Image = &Attachment{MimeType: "image/png", Data: []byte{1, 2, 3}}

	clone := tr.Clone()
	clone.Messages[0].Image.Data[0] = 9

	if msg.Image.Data[0] != 1 {
		t.Error("Clone should deep-copy attachment bytes")
	}
}

func TestTranscript_LastAIReply(t *testing.T) {
	tr := NewTranscript()
	if tr.LastAIReply() != nil {
		t.Error("empty transcript has no reply")
	}

	welcome := NewAINotice("welcome", CategoryWelcome)
	tr.Add(welcome)
	if tr.LastAIReply() != nil {
		t.Error("a welcome banner is not a reply")
	}

	tr.AddUserMessage("hi")
	reply := tr.AddAIMessage()
	reply.AppendToken("hello")
	if tr.LastAIReply() != nil {
		t.Error("an in-flight message is not a reply yet")
	}
	reply.FinalizeStream()
	if got := tr.LastAIReply(); got != reply {
		t.Errorf("LastAIReply = %v, want the finalized reply", got)
	}

	failed := NewAINotice("boom", CategoryError)
	tr.Add(failed)
	if got := tr.LastAIReply(); got != reply {
		t.Error("an error bubble must not shadow the last good reply")
	}
}

// =============================================================================
// MODEL REGISTRY TESTS
// =============================================================================

func TestModels_Registry(t *testing.T) {
	for _, id := range []string{"flash", "pro"} {
		if _, ok := Models[id]; !ok {
			t.Errorf("Essential model %q missing from registry", id)
		}
	}
	if _, ok := GetModelInfo(DefaultModelID); !ok {
		t.Error("DefaultModelID must resolve in the registry")
	}
}

func TestModels_HaveRequiredFields(t *testing.T) {
	for id, m := range Models {
		t.Run(id, func(t *testing.T) {
			if m.ID == "" {
				t.Error("Model.ID should not be empty")
			}
			if m.Name == "" {
				t.Error("Model.Name should not be empty")
			}
			if m.MaxTokens <= 0 {
				t.Error("Model.MaxTokens should be positive")
			}
		})
	}
}

func TestResolveModelID(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty falls back", "", DefaultModelID},
		{"short name", "flash", "gemini-2.5-flash-preview-04-17"},
		{"full id", "gemini-2.5-pro-preview-05-06", "gemini-2.5-pro-preview-05-06"},
		{"unknown falls back", "not-a-model-xyzzy", DefaultModelID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolveModelID(tt.input); got != tt.want {
				t.Errorf("ResolveModelID(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
