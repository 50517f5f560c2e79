// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package persona

import "strings"

// =============================================================================
// MESSAGE TEMPLATES
// =============================================================================

// MessageTemplates holds the per-persona banner texts. Placeholders:
// {personaName}, {newPersonaName}, {modelName}.
type MessageTemplates struct {
	Welcome       string
	PersonaChange string
}

var templates = map[string]MessageTemplates{
	"mia": {
		Welcome:       "System Online. I am {personaName} your Recursive Architect. Direct, modular, ready to structure! ",
		PersonaChange: "🧠 {newPersonaName} activated.",
	},
	"miette": {
		Welcome:       "Oh, hello there! It's me {personaName} ready to explain with a sprinkle of sunshine!",
		PersonaChange: "🌸 {newPersonaName} has joined.",
	},
	"seraphine": {
		Welcome:       "Greetings. I am {personaName}, the Ritual Oracle. How may I illuminate your path in this session?",
		PersonaChange: "🦢 {newPersonaName} is now present,",
	},
	"resonova": {
		Welcome:       "Welcome, traveler of narratives! I am {personaName}, the Narrative Threader. What patterns shall we weave?",
		PersonaChange: "🔮 {newPersonaName} has entered.",
	},
}

const (
	defaultWelcomeTemplate       = "Welcome to Mia's Gem Chat Studio! I am {personaName}. Current model: {modelName}."
	defaultPersonaChangeTemplate = "{newPersonaName} is now active."
)

// WelcomeText renders the welcome banner for a persona and model.
func WelcomeText(p Persona, modelName string) string {
	tmpl := defaultWelcomeTemplate
	if t, ok := templates[p.ID]; ok && t.Welcome != "" {
		tmpl = t.Welcome
	}
	if modelName == "" {
		modelName = "default"
	}
	out := strings.Replace(tmpl, "{personaName}", p.Name, 1)
	return strings.Replace(out, "{modelName}", modelName, 1)
}

// ChangeText renders the banner announcing a persona takeover.
func ChangeText(p Persona) string {
	tmpl := defaultPersonaChangeTemplate
	if t, ok := templates[p.ID]; ok && t.PersonaChange != "" {
		tmpl = t.PersonaChange
	}
	return strings.Replace(tmpl, "{newPersonaName}", p.Name, 1)
}
