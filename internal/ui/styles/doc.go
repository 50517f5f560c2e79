// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the gemchat TUI.

This package defines the complete color palette, theme, and animation
system used throughout the application. All colors use Lip Gloss
AdaptiveColor for automatic light/dark terminal detection.

# Color System (colors.go)

## Primary Accent Colors

  - Purple - Primary accent for assistant messages and selections
  - Cyan - Brand color for info, commands, and user highlights
  - Emerald - Success states and configured-credential indicator
  - Amber - Warnings and the missing-credential banner
  - Rose - Errors and critical warnings

## Persona Accents

Each built-in persona carries a style tag that maps to an accent color
used on its reply bubbles:

	PersonaAccent("bg-blue-500")   // Mia
	PersonaAccent("bg-pink-500")   // Miette
	PersonaAccent("bg-indigo-500") // Seraphine
	PersonaAccent("bg-purple-500") // ResoNova

## Message Bubble Colors

	UserBubbleBg      - Background for user messages
	UserBubbleFg      - Text color for user messages
	AssistantBubbleBg - Background for assistant messages
	SystemBubbleBg    - Background for welcome and system banners
	ErrorBubbleBg     - Background for failed replies

# Theme System (theme.go)

The Theme struct provides runtime color adaptation:

	theme := styles.NewTheme()
	if theme.IsDark {
		// Dark terminal detected
	}
	bubble := theme.PersonaBubble("bg-pink-500")

# Animation System (animations.go)

Pre-defined spinner styles plus a progress bar renderer:

	LineSpinner  - Simple line rotation (awaiting reply)
	DotsSpinner  - Classic three-dot animation
	PulseSpinner - Pulsing indicator (speech playback)
	RenderProgressBar(20, 75.0)
*/
package styles
