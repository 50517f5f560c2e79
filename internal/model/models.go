// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat transcripts and messages.
package model

import (
	"fmt"
	"strings"
)

// DefaultModelID is the model used when settings carry no valid selection.
const DefaultModelID = "gemini-2.5-flash-preview-04-17"

// =============================================================================
// MODEL INFO TYPE
// =============================================================================

// ModelInfo contains metadata about a selectable generation model,
// used by the model picker and status line.
type ModelInfo struct {
	// ID is the model identifier used in API calls
	ID string `json:"id"`

	// Name is the human-readable display name
	Name string `json:"name"`

	// Tier categorizes the model's capability level
	Tier string `json:"tier"`

	// MaxTokens is the maximum context window size
	MaxTokens int `json:"max_tokens"`

	// SupportsMedia reports whether inline image/audio parts are accepted
	SupportsMedia bool `json:"supports_media"`

	// Description is a brief explanation of the model's strengths
	Description string `json:"description"`
}

// =============================================================================
// MODEL REGISTRY
// =============================================================================

// Models is the registry of known models with their metadata.
var Models = map[string]ModelInfo{
	"flash": {
		ID:            "gemini-2.5-flash-preview-04-17",
		Name:          "Gemini 2.5 Flash Preview",
		Tier:          "Fast",
		MaxTokens:     1048576,
		SupportsMedia: true,
		Description:   "Fast multimodal model, the default choice",
	},
	"pro": {
		ID:            "gemini-2.5-pro-preview-05-06",
		Name:          "Gemini 2.5 Pro Preview",
		Tier:          "Powerful",
		MaxTokens:     1048576,
		SupportsMedia: true,
		Description:   "Most capable for complex reasoning",
	},
	"flash-2.0": {
		ID:            "gemini-2.0-flash",
		Name:          "Gemini 2.0 Flash",
		Tier:          "Fast",
		MaxTokens:     1048576,
		SupportsMedia: true,
		Description:   "Previous-generation fast model",
	},
	"flash-lite": {
		ID:            "gemini-2.0-flash-lite",
		Name:          "Gemini 2.0 Flash Lite",
		Tier:          "Fast",
		MaxTokens:     1048576,
		SupportsMedia: false,
		Description:   "Cost-efficient text-only workhorse",
	},
}

// =============================================================================
// MODEL INFO METHODS
// =============================================================================

// ContextString returns a formatted context window string.
func (m ModelInfo) ContextString() string {
	if m.MaxTokens >= 1000000 {
		return fmt.Sprintf("%.1fM tokens", float64(m.MaxTokens)/1000000)
	}
	if m.MaxTokens >= 1000 {
		return fmt.Sprintf("%dK tokens", m.MaxTokens/1000)
	}
	return fmt.Sprintf("%d tokens", m.MaxTokens)
}

// TierIcon returns an icon character for the model tier.
func (m ModelInfo) TierIcon() string {
	switch m.Tier {
	case "Fast":
		return "z"
	case "Powerful":
		return "&"
	default:
		return "?"
	}
}

// =============================================================================
// MODEL LOOKUP FUNCTIONS
// =============================================================================

// GetModelInfo looks up a model by short name or full ID.
// Returns the ModelInfo and true if found.
func GetModelInfo(nameOrID string) (ModelInfo, bool) {
	if info, ok := Models[nameOrID]; ok {
		return info, true
	}
	for _, info := range Models {
		if info.ID == nameOrID {
			return info, true
		}
	}
	lowerName := strings.ToLower(nameOrID)
	for _, info := range Models {
		if strings.Contains(strings.ToLower(info.Name), lowerName) ||
			strings.Contains(strings.ToLower(info.ID), lowerName) {
			return info, true
		}
	}
	return ModelInfo{}, false
}

// IsKnownModel reports whether the given short name or ID resolves.
func IsKnownModel(nameOrID string) bool {
	_, ok := GetModelInfo(nameOrID)
	return ok
}

// ResolveModelID maps a short name or ID to a full model ID, falling back
// to DefaultModelID for unknown or empty input.
func ResolveModelID(nameOrID string) string {
	if nameOrID == "" {
		return DefaultModelID
	}
	if info, ok := GetModelInfo(nameOrID); ok {
		return info.ID
	}
	return DefaultModelID
}

// ModelShortNames returns the short names of all registered models.
func ModelShortNames() []string {
	names := make([]string, 0, len(Models))
	for name := range Models {
		names = append(names, name)
	}
	return names
}
