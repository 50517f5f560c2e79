// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"

	"github.com/miastudio/gemchat-tui/internal/commands"
	"github.com/miastudio/gemchat-tui/internal/persona"
)

func TestRenderDocsPanelListsCommands(t *testing.T) {
	out := RenderDocsPanel(testTheme(), commands.NewRegistry(), 100)

	for _, want := range []string{"Command Reference", "/persona", "/cloud", "/speak", "Esc"} {
		if !strings.Contains(out, want) {
			t.Errorf("docs panel missing %q", want)
		}
	}
}

func TestRenderDashboardPanel(t *testing.T) {
	data := DashboardData{
		Persona:       persona.Resolve("miette"),
		ModelName:     "Gemini 2.5 Flash Preview",
		ModelID:       "gemini-2.5-flash-preview-04-17",
		ModelContext:  "1.0M tokens",
		KeyConfigured: true,
		SlotID:        "monday",
		SlotList:      []string{"monday", "retro"},
		AutoPlay:      true,
		MessageCount:  14,
		HistoryLimit:  50,
	}

	out := RenderDashboardPanel(testTheme(), data, 100)

	for _, want := range []string{"Session Dashboard", "Miette", "gemini-2.5-flash-preview-04-17", "monday", "retro", "Auto-play"} {
		if !strings.Contains(out, want) {
			t.Errorf("dashboard missing %q", want)
		}
	}
	if !strings.Contains(out, "configured") {
		t.Errorf("dashboard missing credential state")
	}
}

func TestHeaderAndStatusBarRender(t *testing.T) {
	theme := testTheme()

	h := NewHeader(theme)
	h.SetWidth(100)
	h.SetPersona(persona.Resolve("seraphine"))
	h.SetModel("Gemini 2.5 Pro Preview")
	h.SetView("docs")

	out := h.View()
	if !strings.Contains(out, "Seraphine") {
		t.Errorf("header missing persona: %q", out)
	}
	if !strings.Contains(out, Brand) {
		t.Errorf("header missing brand: %q", out)
	}

	sb := NewStatusBar(theme)
	sb.SetWidth(100)
	sb.SetStatus(StatusStreaming)
	sb.SetPersona("🦢 Seraphine", "bg-indigo-500")
	sb.SetModel("Gemini 2.5 Pro Preview")
	sb.SetSlot("retro")
	sb.SetAutoPlay(true)
	sb.SetMessageCount(3)

	bar := sb.View()
	for _, want := range []string{"Streaming", "slot:retro", "autoplay", "3 msgs"} {
		if !strings.Contains(bar, want) {
			t.Errorf("status bar missing %q", want)
		}
	}
}

func TestStatusBarNarrow(t *testing.T) {
	sb := NewStatusBar(testTheme())
	sb.SetWidth(40)
	sb.SetStatus(StatusBlocked)

	out := sb.View()
	if !strings.Contains(out, "No API key") {
		t.Errorf("narrow bar missing blocked status: %q", out)
	}
}

func TestCompletionPopupRendering(t *testing.T) {
	state := commands.NewCompletionState()
	state.Update("/m", []commands.Completion{
		{Value: "/model", Display: "/model", Description: "Switch model"},
		{Value: "/models", Display: "/models", Description: "List models"},
	})

	out := RenderCompletionPopup(testTheme(), state, 80)
	if !strings.Contains(out, "/model") || !strings.Contains(out, "Switch model") {
		t.Errorf("popup missing entries: %q", out)
	}

	state.Clear()
	if out := RenderCompletionPopup(testTheme(), state, 80); out != "" {
		t.Errorf("cleared popup should render empty, got %q", out)
	}
}
