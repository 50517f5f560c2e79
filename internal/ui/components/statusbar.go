// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the gemchat TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/miastudio/gemchat-tui/internal/ui/styles"
	"github.com/miastudio/gemchat-tui/internal/util"
)

// =============================================================================
// STATUS TYPES
// =============================================================================

// Status represents the connection/credential state shown in the status bar.
type Status int

const (
	StatusReady     Status = iota // Credential configured, idle
	StatusStreaming               // Reply in flight
	StatusSpeaking                // Speech playback active
	StatusBlocked                 // No API key, chat disabled
)

// String returns the status label.
func (s Status) String() string {
	switch s {
	case StatusStreaming:
		return "Streaming"
	case StatusSpeaking:
		return "Speaking"
	case StatusBlocked:
		return "No API key"
	default:
		return "Ready"
	}
}

// Icon returns the ASCII indicator for the status.
func (s Status) Icon() string {
	switch s {
	case StatusStreaming:
		return styles.StatusIndicators.Pending
	case StatusSpeaking:
		return styles.StatusIndicators.Active
	case StatusBlocked:
		return styles.StatusIndicators.Warning
	default:
		return styles.StatusIndicators.Success
	}
}

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusBar renders the bottom bar: status, persona, model, cloud slot,
// autoplay flag, message count, and keyboard shortcuts.
type StatusBar struct {
	theme *styles.Theme
	width int

	status       Status
	personaName  string
	personaStyle string
	modelName    string
	slotID       string
	autoPlay     bool
	messageCount int
}

// NewStatusBar creates a new status bar.
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		theme:  theme,
		status: StatusReady,
	}
}

// SetWidth sets the bar width.
func (s *StatusBar) SetWidth(width int) {
	s.width = width
}

// SetStatus sets the current status.
func (s *StatusBar) SetStatus(status Status) {
	s.status = status
}

// SetPersona sets the active persona name and style tag.
func (s *StatusBar) SetPersona(name, styleTag string) {
	s.personaName = name
	s.personaStyle = styleTag
}

// SetModel sets the active model display name.
func (s *StatusBar) SetModel(modelName string) {
	s.modelName = modelName
}

// SetSlot sets the active cloud slot ID (empty when none).
func (s *StatusBar) SetSlot(slotID string) {
	s.slotID = slotID
}

// SetAutoPlay sets the reply auto-play flag.
func (s *StatusBar) SetAutoPlay(on bool) {
	s.autoPlay = on
}

// SetMessageCount sets the transcript length shown in the bar.
func (s *StatusBar) SetMessageCount(n int) {
	s.messageCount = n
}

// View renders the status bar at the configured width.
func (s *StatusBar) View() string {
	if s.width < 60 {
		return s.viewNarrow()
	}
	return s.viewWide()
}

// viewNarrow renders a minimal bar for small terminals.
func (s *StatusBar) viewNarrow() string {
	statusView := s.getStatusStyle().Render(s.status.Icon() + " " + s.status.String())
	countView := s.theme.ShortcutDesc.Render(toStr(s.messageCount) + " msgs")
	return s.theme.StatusBar.Width(s.width).Render(statusView + "  " + countView)
}

// viewWide renders the full bar with all badges and shortcuts.
func (s *StatusBar) viewWide() string {
	var parts []string

	parts = append(parts, s.getStatusStyle().Render(s.status.Icon()+" "+s.status.String()))

	if s.personaName != "" {
		badge := lipgloss.NewStyle().
			Foreground(styles.PersonaAccent(s.personaStyle)).
			Bold(true).
			Render(util.TruncateWidth(s.personaName, 18))
		parts = append(parts, badge)
	}

	if s.modelName != "" {
		parts = append(parts, s.theme.BadgeModel.Render(util.TruncateWidth(s.modelName, 28)))
	}

	if s.slotID != "" {
		parts = append(parts, s.theme.BadgeSlot.Render("slot:"+s.slotID))
	}

	if s.autoPlay {
		parts = append(parts, s.theme.BadgeAutoplay.Render("autoplay"))
	}

	parts = append(parts, s.theme.ShortcutDesc.Render(fmtNumber(s.messageCount)+" msgs"))

	left := strings.Join(parts, s.theme.ShortcutDesc.Render(" | "))
	right := s.renderShortcuts()

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}

	return s.theme.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

// renderShortcuts renders the keyboard shortcut hints.
func (s *StatusBar) renderShortcuts() string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Tab", "complete"},
		{"/help", "commands"},
		{"Ctrl+C", "quit"},
	}

	parts := make([]string, 0, len(shortcuts))
	for _, sc := range shortcuts {
		parts = append(parts, s.theme.ShortcutKey.Render(sc.key)+" "+s.theme.ShortcutDesc.Render(sc.desc))
	}

	return strings.Join(parts, "  ")
}

// getStatusStyle returns the style for the current status.
func (s *StatusBar) getStatusStyle() lipgloss.Style {
	switch s.status {
	case StatusStreaming:
		return lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
	case StatusSpeaking:
		return lipgloss.NewStyle().Foreground(styles.Emerald).Bold(true)
	case StatusBlocked:
		return lipgloss.NewStyle().Foreground(styles.Amber).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(styles.Emerald)
	}
}
