// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the gemchat TUI.
//
// This file renders the Docs and Dashboard informational panels. Both are
// read-only views the user switches to with /view; Esc returns to chat.
package components

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/miastudio/gemchat-tui/internal/commands"
	"github.com/miastudio/gemchat-tui/internal/persona"
	"github.com/miastudio/gemchat-tui/internal/ui/styles"
)

// =============================================================================
// DOCS PANEL
// =============================================================================

// docsCategoryOrder fixes the section order in the docs view.
var docsCategoryOrder = []string{
	"Conversation",
	"Persona",
	"Model",
	"Speech",
	"Navigation",
	"General",
}

// RenderDocsPanel renders the command reference panel.
func RenderDocsPanel(theme *styles.Theme, registry *commands.Registry, width int) string {
	title := theme.PanelTitle.Render("Command Reference")

	byCategory := map[string][]*commands.Command{}
	for _, cmd := range registry.All() {
		if cmd.Hidden {
			continue
		}
		cat := cmd.Category
		if cat == "" {
			cat = "General"
		}
		byCategory[cat] = append(byCategory[cat], cmd)
	}

	var sections []string
	seen := map[string]bool{}
	ordered := append([]string{}, docsCategoryOrder...)
	for cat := range byCategory {
		if !containsString(ordered, cat) {
			ordered = append(ordered, cat)
		}
	}

	for _, cat := range ordered {
		cmds, ok := byCategory[cat]
		if !ok || seen[cat] {
			continue
		}
		seen[cat] = true

		sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })

		var rows []string
		rows = append(rows, theme.PanelSection.Render(cat))
		for _, cmd := range cmds {
			usage := cmd.Usage
			if usage == "" {
				usage = "/" + cmd.Name
			}
			key := theme.PanelKey.Render(usage)
			desc := theme.PanelValue.Render(cmd.Description)
			row := key + " " + desc
			if len(cmd.Aliases) > 0 {
				row += lipgloss.NewStyle().
					Foreground(styles.TextMuted).
					Render("  (aliases: /" + strings.Join(cmd.Aliases, ", /") + ")")
			}
			rows = append(rows, row)
		}
		sections = append(sections, strings.Join(rows, "\n"))
	}

	hint := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		MarginTop(1).
		Render("Esc or /view chat to return")

	body := strings.Join(append([]string{title}, append(sections, hint)...), "\n")
	return theme.PanelBox.Width(panelWidth(width)).Render(body)
}

// =============================================================================
// DASHBOARD PANEL
// =============================================================================

// DashboardData is the session snapshot rendered by the dashboard view.
type DashboardData struct {
	Persona       persona.Persona
	ModelName     string
	ModelID       string
	ModelContext  string
	KeyConfigured bool
	SlotID        string
	SlotList      []string
	AutoPlay      bool
	MessageCount  int
	HistoryLimit  int
	Instruction   string
}

// RenderDashboardPanel renders the session dashboard.
func RenderDashboardPanel(theme *styles.Theme, data DashboardData, width int) string {
	title := theme.PanelTitle.Render("Session Dashboard")

	kv := func(key, value string) string {
		return theme.PanelKey.Render(key) + " " + theme.PanelValue.Render(value)
	}

	var rows []string

	rows = append(rows, theme.PanelSection.Render("Persona"))
	rows = append(rows, kv("Active", data.Persona.Name))
	rows = append(rows, kv("Role", data.Persona.Description))

	rows = append(rows, theme.PanelSection.Render("Model"))
	rows = append(rows, kv("Name", data.ModelName))
	rows = append(rows, kv("ID", data.ModelID))
	if data.ModelContext != "" {
		rows = append(rows, kv("Context", data.ModelContext))
	}
	if data.KeyConfigured {
		rows = append(rows, kv("Credential", styles.RenderSuccess("configured")))
	} else {
		rows = append(rows, kv("Credential", styles.RenderWarning("missing")))
	}

	rows = append(rows, theme.PanelSection.Render("Conversation"))
	rows = append(rows, kv("Messages", fmtNumber(data.MessageCount)))
	if data.HistoryLimit > 0 {
		percent := float64(data.MessageCount) / float64(data.HistoryLimit) * 100
		bar := styles.RenderProgressBar(20, percent)
		rows = append(rows, kv("History", bar+" "+fmtPercent(percent)))
	}
	if data.Instruction != "" {
		preview := data.Instruction
		if len(preview) > 70 {
			preview = preview[:70] + "..."
		}
		rows = append(rows, kv("Instruction", preview))
	}

	rows = append(rows, theme.PanelSection.Render("Storage"))
	if data.SlotID != "" {
		rows = append(rows, kv("Cloud slot", data.SlotID))
	} else {
		rows = append(rows, kv("Cloud slot", "none"))
	}
	if len(data.SlotList) > 0 {
		rows = append(rows, kv("Saved slots", strings.Join(data.SlotList, ", ")))
	}

	rows = append(rows, theme.PanelSection.Render("Speech"))
	if data.AutoPlay {
		rows = append(rows, kv("Auto-play", "on"))
	} else {
		rows = append(rows, kv("Auto-play", "off"))
	}

	hint := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		MarginTop(1).
		Render("Esc or /view chat to return")

	body := title + "\n" + strings.Join(rows, "\n") + "\n" + hint
	return theme.PanelBox.Width(panelWidth(width)).Render(body)
}

// =============================================================================
// HELPERS
// =============================================================================

func panelWidth(width int) int {
	w := width - 4
	if w > 100 {
		w = 100
	}
	if w < 40 {
		w = 40
	}
	return w
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
