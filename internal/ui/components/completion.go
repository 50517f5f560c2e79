// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the gemchat TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/miastudio/gemchat-tui/internal/commands"
	"github.com/miastudio/gemchat-tui/internal/ui/styles"
	"github.com/miastudio/gemchat-tui/internal/util"
)

// =============================================================================
// COMPLETION POPUP
// =============================================================================

// maxVisibleCompletions caps the popup height.
const maxVisibleCompletions = 8

// RenderCompletionPopup renders the tab-completion popup above the input.
// The selected entry is highlighted; long lists scroll around the selection.
func RenderCompletionPopup(theme *styles.Theme, state *commands.CompletionState, width int) string {
	if state == nil || !state.Visible {
		return ""
	}

	items := state.Completions
	if len(items) == 0 {
		return ""
	}

	selected := state.Selected
	if selected < 0 {
		selected = 0
	}

	// Window the list around the selection.
	start := 0
	if selected >= maxVisibleCompletions {
		start = selected - maxVisibleCompletions + 1
	}
	end := start + maxVisibleCompletions
	if end > len(items) {
		end = len(items)
	}

	valueWidth := 18
	descWidth := width - valueWidth - 8
	if descWidth < 10 {
		descWidth = 10
	}

	var rows []string
	for i := start; i < end; i++ {
		item := items[i]

		value := util.TruncateWidth(item.Display, valueWidth)
		value += strings.Repeat(" ", valueWidth-util.StringWidth(value))

		desc := util.TruncateWidth(item.Description, descWidth)

		row := value + " " + desc
		if i == selected {
			rows = append(rows, theme.CompletionSelected.Render(row))
		} else {
			rows = append(rows, theme.CompletionItem.Render(row))
		}
	}

	// Overflow hint
	if len(items) > maxVisibleCompletions {
		hint := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Render(toStr(selected+1) + "/" + toStr(len(items)))
		rows = append(rows, hint)
	}

	return theme.CompletionPopup.Render(strings.Join(rows, "\n"))
}
