// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the gemchat TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/miastudio/gemchat-tui/internal/persona"
	"github.com/miastudio/gemchat-tui/internal/ui/styles"
	"github.com/miastudio/gemchat-tui/internal/util"
)

// =============================================================================
// HEADER COMPONENT
// =============================================================================

// Brand is the application title shown in the header.
const Brand = "Mia's Gem Chat Studio"

// Header renders the top bar: brand, active persona, model, and view tabs.
type Header struct {
	theme *styles.Theme
	width int

	persona   persona.Persona
	modelName string
	viewName  string
}

// NewHeader creates a new header component.
func NewHeader(theme *styles.Theme) *Header {
	return &Header{
		theme:    theme,
		persona:  persona.Resolve(persona.DefaultID),
		viewName: "chat",
	}
}

// SetWidth sets the header width.
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetPersona sets the active persona shown in the header.
func (h *Header) SetPersona(p persona.Persona) {
	h.persona = p
}

// SetModel sets the display name of the active model.
func (h *Header) SetModel(modelName string) {
	h.modelName = modelName
}

// SetView sets the active view name (chat, docs, dashboard).
func (h *Header) SetView(viewName string) {
	h.viewName = viewName
}

// View renders the header.
func (h *Header) View() string {
	if h.width < 50 {
		return h.ViewCompact()
	}

	brand := h.theme.HeaderBrand.Render(Brand)

	personaBadge := lipgloss.NewStyle().
		Foreground(styles.PersonaAccent(h.persona.StyleTag)).
		Bold(true).
		Render(h.persona.Name)

	modelBadge := h.theme.BadgeModel.Render(h.modelName)

	tabs := h.renderTabs()

	left := brand + "  " + personaBadge
	right := modelBadge + "  " + tabs

	gap := h.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}

	line := left + strings.Repeat(" ", gap) + right

	return h.theme.Header.Width(h.width - 2).Align(lipgloss.Left).Render(line)
}

// ViewCompact renders a narrow single-line header.
func (h *Header) ViewCompact() string {
	name := util.TruncateWidth(h.persona.Name, 16)
	line := h.theme.HeaderBrand.Render("gemchat") + " " +
		lipgloss.NewStyle().
			Foreground(styles.PersonaAccent(h.persona.StyleTag)).
			Render(name)
	return h.theme.StatusBar.Width(h.width).Render(line)
}

// renderTabs renders the view switcher tabs with the active view highlighted.
func (h *Header) renderTabs() string {
	views := []string{"chat", "docs", "dashboard"}

	activeStyle := lipgloss.NewStyle().
		Foreground(styles.TextInverse).
		Background(styles.Purple).
		Padding(0, 1).
		Bold(true)
	inactiveStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Padding(0, 1)

	parts := make([]string, 0, len(views))
	for _, v := range views {
		if v == h.viewName {
			parts = append(parts, activeStyle.Render(v))
		} else {
			parts = append(parts, inactiveStyle.Render(v))
		}
	}

	return strings.Join(parts, "")
}
