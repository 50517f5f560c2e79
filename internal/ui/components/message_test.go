// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/miastudio/gemchat-tui/internal/model"
	"github.com/miastudio/gemchat-tui/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme()
}

func TestUserBubbleRendersText(t *testing.T) {
	msg := model.NewUserMessage("hello there")
	bubble := NewMessageBubble(msg, testTheme())
	bubble.SetWidth(80)

	out := bubble.View()
	if !strings.Contains(out, "hello there") {
		t.Errorf("user bubble missing text: %q", out)
	}
	if !strings.Contains(out, "You") {
		t.Errorf("user bubble missing sender label: %q", out)
	}
}

func TestUserBubbleAttachmentChips(t *testing.T) {
	msg := model.NewUserMessage("what is this")
	msg.Image = &model.Attachment{Data: []byte{1}, MimeType: "image/png", FileName: "photo.png"}

	bubble := NewMessageBubble(msg, testTheme())
	bubble.SetWidth(80)

	out := bubble.View()
	if !strings.Contains(out, "[image]") {
		t.Errorf("missing image chip: %q", out)
	}
	if !strings.Contains(out, "photo.png") {
		t.Errorf("missing attachment filename: %q", out)
	}
}

func TestAssistantBubbleShowsPersonaName(t *testing.T) {
	msg := model.NewAIMessage().WithPersona("🌸 Miette", "🌸", "", "bg-pink-500")
	msg.AppendToken("a petal opens")
	msg.FinalizeStream()

	bubble := NewMessageBubble(msg, testTheme())
	bubble.SetWidth(80)

	out := bubble.View()
	if !strings.Contains(out, "Miette") {
		t.Errorf("assistant bubble missing persona name: %q", out)
	}
	if !strings.Contains(out, "a petal opens") {
		t.Errorf("assistant bubble missing reply text: %q", out)
	}
}

func TestBannerRendersCentered(t *testing.T) {
	msg := model.NewAINotice("System Online.", model.CategoryWelcome)

	bubble := NewMessageBubble(msg, testTheme())
	bubble.SetWidth(80)

	out := bubble.View()
	if !strings.Contains(out, "System Online.") {
		t.Errorf("banner missing text: %q", out)
	}
}

func TestErrorBubbleShowsIndicator(t *testing.T) {
	msg := model.NewAIMessage()
	msg.FailStream("Cannot send an empty message.")

	bubble := NewMessageBubble(msg, testTheme())
	bubble.SetWidth(80)

	out := bubble.View()
	if !strings.Contains(out, "[X]") {
		t.Errorf("error bubble missing indicator: %q", out)
	}
	if !strings.Contains(out, "Cannot send an empty message.") {
		t.Errorf("error bubble missing message: %q", out)
	}
}

func TestMessageListRendersAll(t *testing.T) {
	list := NewMessageList(testTheme())
	list.SetWidth(80)
	list.SetMessages([]*model.Message{
		model.NewUserMessage("ping"),
		model.NewAINotice("pong banner", model.CategorySystemNotification),
	})

	out := list.View()
	if !strings.Contains(out, "ping") || !strings.Contains(out, "pong banner") {
		t.Errorf("list missing messages: %q", out)
	}
}

func TestMessageListEmpty(t *testing.T) {
	list := NewMessageList(testTheme())
	if out := list.View(); out != "" {
		t.Errorf("empty list should render empty, got %q", out)
	}
}

func TestWordWrap(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		width int
		lines int
	}{
		{"fits", "short", 20, 1},
		{"wraps", "one two three four five six", 9, 4},
		{"keeps paragraphs", "a\n\nb", 20, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := wordWrap(tt.text, tt.width)
			if got := len(strings.Split(out, "\n")); got != tt.lines {
				t.Errorf("wordWrap(%q, %d) = %d lines, want %d:\n%s", tt.text, tt.width, got, tt.lines, out)
			}
		})
	}
}

func TestFmtHelpers(t *testing.T) {
	if got := fmtNumber(1234567); got != "1,234,567" {
		t.Errorf("fmtNumber = %q", got)
	}
	if got := fmtNumber(999); got != "999" {
		t.Errorf("fmtNumber small = %q", got)
	}
	if got := toStr(-42); got != "-42" {
		t.Errorf("toStr = %q", got)
	}
	if got := fmtPercent(12.34); got != "12.3%" {
		t.Errorf("fmtPercent = %q", got)
	}
}
