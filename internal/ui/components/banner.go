// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the gemchat TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/miastudio/gemchat-tui/internal/persona"
	"github.com/miastudio/gemchat-tui/internal/ui/styles"
)

// =============================================================================
// CREDENTIAL WARNING BANNER
// =============================================================================

// RenderCredentialWarning renders the persistent banner shown while no API
// key is configured. Chat input stays visible but sends are blocked.
func RenderCredentialWarning(theme *styles.Theme, width int) string {
	msg := styles.StatusIndicators.Warning +
		" Gemini API key not configured. Set GEMCHAT_API_KEY to enable chat."

	banner := lipgloss.NewStyle().
		Foreground(styles.SystemBubbleFg).
		Background(styles.SystemBubbleBg).
		Bold(true).
		Padding(0, 2).
		Width(width).
		Align(lipgloss.Center)

	return banner.Render(msg)
}

// =============================================================================
// WELCOME BOX
// =============================================================================

// RenderWelcomeBox renders the splash box shown when the transcript is empty
// (for example right after /clear before the welcome banner lands).
func RenderWelcomeBox(theme *styles.Theme, p persona.Persona, modelName string, width int) string {
	logo := theme.WelcomeLogo.Render(Brand)
	greeting := theme.WelcomeInfo.
		Width(welcomeTextWidth(width)).
		Align(lipgloss.Center).
		Render(persona.WelcomeText(p, modelName))

	lines := []string{
		logo,
		"",
		greeting,
		"",
		theme.WelcomeKey.Render("/help") + theme.WelcomeInfo.Render(" for commands"),
	}

	box := theme.WelcomeBox.Render(strings.Join(lines, "\n"))
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, box)
}

// welcomeTextWidth keeps the greeting wrapped inside the box frame.
func welcomeTextWidth(width int) int {
	w := width - 12
	if w > 56 {
		w = 56
	}
	if w < 20 {
		w = 20
	}
	return w
}
