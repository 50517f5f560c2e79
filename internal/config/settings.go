// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"encoding/json"

	"github.com/miastudio/gemchat-tui/internal/model"
	"github.com/miastudio/gemchat-tui/internal/persona"
)

// =============================================================================
// SETTINGS
// =============================================================================

// Settings holds the mutable per-user session settings. They are persisted
// alongside the chat transcript and travel with cloud-saved sessions.
//
// Defaulting happens exactly once, in Normalize, right after load; the rest
// of the app reads the fields directly and never re-checks for zero values.
type Settings struct {
	ActivePersonaID    string            `json:"active_persona_id"`
	SelectedModel      string            `json:"selected_model"`
	CustomInstructions map[string]string `json:"custom_instructions"`
	CurrentCloudSlotID string            `json:"current_cloud_slot_id"`
	AutoPlayReplies    bool              `json:"auto_play_replies"`
}

// DefaultSettings returns normalized default settings.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.Normalize()
	return s
}

// Normalize applies defaults to zero or invalid fields in place.
func (s *Settings) Normalize() {
	if !persona.IsKnown(s.ActivePersonaID) {
		s.ActivePersonaID = persona.DefaultID
	}
	if !model.IsKnownModel(s.SelectedModel) {
		s.SelectedModel = model.DefaultModelID
	} else {
		s.SelectedModel = model.ResolveModelID(s.SelectedModel)
	}
	if s.CustomInstructions == nil {
		s.CustomInstructions = make(map[string]string)
	}
}

// ParseSettings decodes settings from JSON and normalizes them.
// Corrupt input yields default settings rather than an error.
func ParseSettings(data []byte) *Settings {
	s := &Settings{}
	if err := json.Unmarshal(data, s); err != nil {
		return DefaultSettings()
	}
	s.Normalize()
	return s
}

// Encode serializes the settings as JSON.
func (s *Settings) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// Clone returns a deep copy of the settings.
func (s *Settings) Clone() *Settings {
	out := *s
	out.CustomInstructions = make(map[string]string, len(s.CustomInstructions))
	for k, v := range s.CustomInstructions {
		out.CustomInstructions[k] = v
	}
	return &out
}
