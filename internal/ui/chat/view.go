// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file renders the chat view: transcript viewport, thinking line,
// input box with character count, completion popup, and toast overlay.
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/miastudio/gemchat-tui/internal/ui/components"
	"github.com/miastudio/gemchat-tui/internal/util"
)

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the chat view.
func (m Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	var sections []string

	if !m.keyConfigured {
		sections = append(sections, components.RenderCredentialWarning(m.theme, m.width))
	}

	if m.transcript.IsEmpty() {
		sections = append(sections, m.renderEmptyTranscript())
	} else {
		sections = append(sections, m.viewport.View())
	}

	sections = append(sections, m.renderStatusLine())
	sections = append(sections, m.renderInput())

	base := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if m.completionState.Visible {
		popup := components.RenderCompletionPopup(m.theme, m.completionState, m.width)
		if popup != "" {
			base = m.overlayAboveInput(base, popup)
		}
	}

	if m.toasts.HasToasts() {
		// Unplaced stack; overlayToasts positions it bottom-right.
		overlay := components.RenderToastStack(m.toasts.GetToasts(), 0, 0)
		base = m.overlayToasts(base, overlay)
	}

	return base
}

// renderEmptyTranscript fills the viewport area with the welcome box.
func (m Model) renderEmptyTranscript() string {
	return lipgloss.Place(
		m.width, m.viewportHeight(),
		lipgloss.Center, lipgloss.Center,
		components.RenderWelcomeBox(m.theme, m.persona, m.modelName, m.width),
	)
}

// renderStatusLine shows the thinking spinner while a reply streams, or a
// one-line hint otherwise.
func (m Model) renderStatusLine() string {
	if m.awaiting {
		return " " + m.spinner.View()
	}
	hint := m.theme.InputPlaceholder.Render("Enter to send, Tab to complete, /help for commands")
	return " " + hint
}

// renderInput draws the bordered input line with a character counter.
func (m Model) renderInput() string {
	counter := m.renderCharCount()
	field := m.input.View()

	// Right-align the counter inside the box.
	fieldWidth := lipgloss.Width(field)
	gap := m.width - 6 - fieldWidth - lipgloss.Width(counter)
	if gap > 0 {
		field += strings.Repeat(" ", gap) + counter
	}

	return m.theme.InputContainer.Width(m.width - 2).Render(field)
}

// renderCharCount colors the count as input approaches the limit.
func (m Model) renderCharCount() string {
	used := util.RuneLen(m.input.Value())
	limit := m.input.CharLimit
	if used == 0 || limit <= 0 {
		return ""
	}

	text := fmtCount(used, limit)
	switch {
	case used >= limit:
		return m.theme.CharCountDanger.Render(text)
	case used >= limit*9/10:
		return m.theme.CharCountWarning.Render(text)
	default:
		return m.theme.CharCount.Render(text)
	}
}

func fmtCount(used, limit int) string {
	return fmtNumber(used) + "/" + fmtNumber(limit)
}

// fmtNumber renders small counters without pulling in fmt.
func fmtNumber(n int) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// =============================================================================
// OVERLAYS
// =============================================================================

// overlayAboveInput anchors the completion popup just above the input box.
func (m Model) overlayAboveInput(base, popup string) string {
	baseLines := strings.Split(base, "\n")
	popupLines := strings.Split(popup, "\n")

	// Input box is 3 lines tall; place the popup directly above it.
	startRow := len(baseLines) - 3 - len(popupLines)
	if startRow < 0 {
		startRow = 0
	}

	for i, line := range popupLines {
		row := startRow + i
		if row >= len(baseLines) {
			break
		}
		baseLines[row] = overlayLine(baseLines[row], line, 2)
	}
	return strings.Join(baseLines, "\n")
}

// overlayToasts layers the toast stack onto the bottom-right corner
// without blocking the rest of the view.
func (m Model) overlayToasts(base, overlay string) string {
	baseLines := strings.Split(base, "\n")
	overlayLines := strings.Split(overlay, "\n")

	startRow := m.height - len(overlayLines) - 4
	if startRow < 0 {
		startRow = 0
	}

	for i, line := range overlayLines {
		if lipgloss.Width(line) == 0 {
			continue
		}
		row := startRow + i
		if row >= len(baseLines) {
			break
		}
		col := m.width - lipgloss.Width(line) - 1
		if col < 0 {
			col = 0
		}
		baseLines[row] = overlayLine(baseLines[row], line, col)
	}
	return strings.Join(baseLines, "\n")
}

// overlayLine splices content into a base line at the given column,
// padding or truncating the base as needed.
func overlayLine(base, content string, col int) string {
	baseWidth := lipgloss.Width(base)
	if baseWidth < col {
		base += strings.Repeat(" ", col-baseWidth)
	} else if baseWidth > col {
		base = util.TruncateWidth(base, col)
	}
	return base + content
}
