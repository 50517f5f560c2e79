// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the gemchat TUI.
package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/miastudio/gemchat-tui/internal/model"
	"github.com/miastudio/gemchat-tui/internal/ui/styles"
	"github.com/miastudio/gemchat-tui/internal/util"
)

// =============================================================================
// MESSAGE BUBBLE
// =============================================================================

// MessageBubble renders a single transcript message as a styled bubble.
// AI replies carry the persona snapshot taken when they were sent, so old
// messages keep their original persona accent after a switch.
type MessageBubble struct {
	msg      *model.Message
	theme    *styles.Theme
	width    int
	isLatest bool
}

// NewMessageBubble creates a bubble for the given message.
func NewMessageBubble(msg *model.Message, theme *styles.Theme) *MessageBubble {
	return &MessageBubble{
		msg:   msg,
		theme: theme,
		width: 80,
	}
}

// SetWidth sets the available render width.
func (b *MessageBubble) SetWidth(width int) {
	b.width = width
}

// SetIsLatest marks this bubble as the newest message (streaming cursor).
func (b *MessageBubble) SetIsLatest(latest bool) {
	b.isLatest = latest
}

// View renders the bubble.
func (b *MessageBubble) View() string {
	if b.msg == nil {
		return ""
	}

	switch {
	case b.msg.IsBanner():
		return b.renderBanner()
	case b.msg.IsError:
		return b.renderErrorBubble()
	case b.msg.Sender == model.SenderUser:
		return b.renderUserBubble()
	default:
		return b.renderAssistantBubble()
	}
}

// renderUserBubble renders a right-aligned user message.
func (b *MessageBubble) renderUserBubble() string {
	maxWidth := b.bubbleWidth()

	text := wordWrap(b.msg.DisplayText(), maxWidth-6)

	if chips := b.attachmentChips(); chips != "" {
		if text != "" {
			text += "\n"
		}
		text += chips
	}

	label := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render("You " + formatTime(b.msg.Timestamp))

	bubble := b.theme.UserBubble.MaxWidth(maxWidth).Render(text)

	block := lipgloss.JoinVertical(lipgloss.Right, label, bubble)
	return lipgloss.PlaceHorizontal(b.width, lipgloss.Right, block)
}

// renderAssistantBubble renders a left-aligned AI reply with the persona's
// accent color and, while streaming, a blinking cursor.
func (b *MessageBubble) renderAssistantBubble() string {
	maxWidth := b.bubbleWidth()

	text := b.msg.DisplayText()
	if b.msg.IsStreaming {
		text += b.renderStreamingCursor()
	} else {
		// STREAMING: code fences only render once the reply is final, so
		// partial fences never flash as half-built blocks.
		text = ParseCodeBlocks(text, maxWidth)
	}
	text = wordWrapPreformatted(text, maxWidth-6)

	name := b.msg.PersonaName
	if name == "" {
		name = model.SenderAI.DisplayName()
	}

	label := lipgloss.NewStyle().
		Foreground(styles.PersonaAccent(b.msg.PersonaStyle)).
		Bold(true).
		Render(name) +
		lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(" "+formatTime(b.msg.Timestamp))

	bubble := b.theme.PersonaBubble(b.msg.PersonaStyle).MaxWidth(maxWidth).Render(text)

	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// renderBanner renders a centered welcome or system notification.
func (b *MessageBubble) renderBanner() string {
	maxWidth := b.bubbleWidth()
	text := wordWrap(b.msg.DisplayText(), maxWidth-6)

	bubble := b.theme.SystemBubble.MaxWidth(maxWidth).Render(text)
	return lipgloss.PlaceHorizontal(b.width, lipgloss.Center, bubble)
}

// renderErrorBubble renders a failed reply with the error accent.
func (b *MessageBubble) renderErrorBubble() string {
	maxWidth := b.bubbleWidth()

	label := b.theme.ErrorTitle.Render(styles.StatusIndicators.Error + " Error")
	text := wordWrap(b.msg.DisplayText(), maxWidth-6)
	bubble := b.theme.ErrorBubble.MaxWidth(maxWidth).Render(text)

	return lipgloss.JoinVertical(lipgloss.Left, label, bubble)
}

// renderStreamingCursor renders the blinking cursor suffix for in-flight replies.
func (b *MessageBubble) renderStreamingCursor() string {
	if !b.isLatest {
		return ""
	}
	// Blink phase derived from wall clock so repeated renders animate.
	phase := (time.Now().UnixMilli() / styles.CursorBlinkRate.Milliseconds()) % int64(len(styles.TypingCursor))
	return styles.TypingCursor[phase]
}

// attachmentChips renders [image]/[audio] chips for user attachments.
func (b *MessageBubble) attachmentChips() string {
	chipStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Background(styles.CyanDeep).
		Padding(0, 1)

	var chips []string
	if b.msg.Image != nil && !b.msg.Image.IsEmpty() {
		chips = append(chips, chipStyle.Render("[image] "+util.TruncateRunes(b.msg.Image.FileName, 24)))
	}
	if b.msg.Audio != nil && !b.msg.Audio.IsEmpty() {
		chips = append(chips, chipStyle.Render("[audio] "+util.TruncateRunes(b.msg.Audio.FileName, 24)))
	}

	return strings.Join(chips, " ")
}

// bubbleWidth caps bubble width to keep lines readable on wide terminals.
func (b *MessageBubble) bubbleWidth() int {
	maxWidth := b.width - 8
	if maxWidth > 100 {
		maxWidth = 100
	}
	if maxWidth < 24 {
		maxWidth = 24
	}
	return maxWidth
}

// =============================================================================
// MESSAGE LIST
// =============================================================================

// MessageList renders a transcript as a vertical stack of bubbles.
type MessageList struct {
	theme    *styles.Theme
	messages []*model.Message
	width    int
}

// NewMessageList creates an empty message list.
func NewMessageList(theme *styles.Theme) *MessageList {
	return &MessageList{
		theme: theme,
		width: 80,
	}
}

// SetMessages replaces the rendered messages.
func (ml *MessageList) SetMessages(messages []*model.Message) {
	ml.messages = messages
}

// SetWidth sets the render width.
func (ml *MessageList) SetWidth(width int) {
	ml.width = width
}

// View renders all messages separated by blank lines.
func (ml *MessageList) View() string {
	if len(ml.messages) == 0 {
		return ""
	}

	parts := make([]string, 0, len(ml.messages))
	for i, msg := range ml.messages {
		bubble := NewMessageBubble(msg, ml.theme)
		bubble.SetWidth(ml.width)
		bubble.SetIsLatest(i == len(ml.messages)-1)
		parts = append(parts, bubble.View())
	}

	return strings.Join(parts, "\n\n")
}

// =============================================================================
// TEXT HELPERS
// =============================================================================

// wordWrap wraps text at word boundaries to the given width.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}

		var line strings.Builder
		for _, word := range words {
			if line.Len() == 0 {
				line.WriteString(word)
			} else if util.StringWidth(line.String())+1+util.StringWidth(word) <= width {
				line.WriteString(" ")
				line.WriteString(word)
			} else {
				out = append(out, line.String())
				line.Reset()
				line.WriteString(word)
			}
		}
		out = append(out, line.String())
	}

	return strings.Join(out, "\n")
}

// wordWrapPreformatted wraps text but leaves ANSI-styled lines (rendered code
// blocks) untouched so highlighting escapes are not split mid-sequence.
func wordWrapPreformatted(text string, width int) string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, "\x1b[") || util.StringWidth(line) <= width {
			out = append(out, line)
			continue
		}
		out = append(out, wordWrap(line, width))
	}
	return strings.Join(out, "\n")
}

// formatTime formats a timestamp for bubble labels.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("15:04")
}
