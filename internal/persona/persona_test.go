// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package persona

import (
	"strings"
	"testing"
)

func TestCatalog_FourPersonas(t *testing.T) {
	if len(All) != 4 {
		t.Fatalf("expected 4 built-in personas, got %d", len(All))
	}
	wantIDs := []string{"mia", "miette", "seraphine", "resonova"}
	for i, id := range wantIDs {
		if All[i].ID != id {
			t.Errorf("persona %d = %q, want %q", i, All[i].ID, id)
		}
	}
}

func TestCatalog_FieldsPopulated(t *testing.T) {
	for _, p := range All {
		t.Run(p.ID, func(t *testing.T) {
			if p.Name == "" || p.Glyph == "" || p.StyleTag == "" {
				t.Error("persona display fields must be populated")
			}
			if p.DefaultInstruction == "" {
				t.Error("persona must carry a default instruction")
			}
			if !strings.Contains(p.Name, p.Glyph) {
				t.Errorf("name %q should carry glyph %q", p.Name, p.Glyph)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		wantID string
	}{
		{"known id", "seraphine", "seraphine"},
		{"empty falls back", "", DefaultID},
		{"unknown falls back", "zaphod", DefaultID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Resolve(tt.id); got.ID != tt.wantID {
				t.Errorf("Resolve(%q).ID = %q, want %q", tt.id, got.ID, tt.wantID)
			}
		})
	}
}

func TestIsKnown(t *testing.T) {
	if !IsKnown("miette") {
		t.Error("miette should be known")
	}
	if IsKnown("zaphod") {
		t.Error("zaphod should not be known")
	}
}

func TestEffectiveInstruction(t *testing.T) {
	def := Resolve("mia").DefaultInstruction

	if got := EffectiveInstruction("mia", nil); got != def {
		t.Error("nil overrides should yield the default instruction")
	}
	if got := EffectiveInstruction("mia", map[string]string{"mia": ""}); got != def {
		t.Error("empty override should yield the default instruction")
	}
	if got := EffectiveInstruction("mia", map[string]string{"mia": "be brief"}); got != "be brief" {
		t.Errorf("override not applied, got %q", got)
	}
	// Override for another persona must not leak
	if got := EffectiveInstruction("mia", map[string]string{"miette": "be brief"}); got != def {
		t.Error("override for a different persona should not apply")
	}
}

func TestWelcomeText(t *testing.T) {
	p := Resolve("mia")
	got := WelcomeText(p, "gemini-2.5-flash-preview-04-17")
	if !strings.Contains(got, p.Name) {
		t.Errorf("welcome text should mention the persona name: %q", got)
	}
	if strings.Contains(got, "{personaName}") || strings.Contains(got, "{modelName}") {
		t.Errorf("unreplaced placeholder in %q", got)
	}
}

func TestWelcomeText_DefaultModelName(t *testing.T) {
	// A persona without a template falls back to the generic text, which
	// names the model; empty model renders as "default".
	p := Persona{ID: "ghost", Name: "Ghost"}
	got := WelcomeText(p, "")
	if !strings.Contains(got, "default") {
		t.Errorf("expected default model placeholder in %q", got)
	}
}

func TestChangeText(t *testing.T) {
	for _, p := range All {
		got := ChangeText(p)
		if !strings.Contains(got, p.Name) {
			t.Errorf("change text for %s should mention the persona: %q", p.ID, got)
		}
		if strings.Contains(got, "{newPersonaName}") {
			t.Errorf("unreplaced placeholder in %q", got)
		}
	}
}
