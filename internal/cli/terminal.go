// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - TTY and width detection for the plain CLI commands.
//
// The ask/chat/status commands print straight to stdout, so color and
// wrapping decisions hinge on whether stdout is a terminal and on the
// NO_COLOR convention (https://no-color.org/).

package cli

import (
	"os"
	"strings"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY AND SIZE DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal. Piped output gets
// plain text instead of markdown and color.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

const (
	defaultTerminalWidth = 80
	minTerminalWidth     = 40
)

// GetTerminalWidth returns the stdout width for wrapping, clamped to a
// sane minimum and defaulting to 80 when detection fails.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTerminalWidth
	}
	if width < minTerminalWidth {
		return minTerminalWidth
	}
	return width
}

// GetTerminalSize returns the stdout dimensions, defaulting to 80x24.
func GetTerminalSize() (width, height int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || h <= 0 {
		return defaultTerminalWidth, 24
	}
	return w, h
}

// WrapText word-wraps text to maxWidth, preserving existing newlines.
// Zero or negative maxWidth wraps to the detected terminal width.
func WrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		maxWidth = GetTerminalWidth()
	}
	if maxWidth > 10 {
		maxWidth -= 2
	}

	var result strings.Builder
	lines := strings.Split(text, "\n")

	for i, line := range lines {
		if i > 0 {
			result.WriteString("\n")
		}

		if len(line) <= maxWidth {
			result.WriteString(line)
			continue
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if len(currentLine)+1+len(word) <= maxWidth {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}
		result.WriteString(currentLine)
	}

	return result.String()
}

// =============================================================================
// COLOR OUTPUT CONTROL
// =============================================================================

var (
	colorsEnabled     bool
	colorsEnabledOnce sync.Once
)

// ColorsEnabled reports whether output should be colored. NO_COLOR wins,
// FORCE_COLOR overrides TTY detection, otherwise stdout decides.
func ColorsEnabled() bool {
	colorsEnabledOnce.Do(func() {
		if os.Getenv("NO_COLOR") != "" {
			colorsEnabled = false
			return
		}
		if os.Getenv("FORCE_COLOR") != "" {
			colorsEnabled = true
			return
		}
		colorsEnabled = IsStdoutTTY()
	})
	return colorsEnabled
}

// GetColorProfile returns the termenv profile for styled output, Ascii
// when colors are off.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// =============================================================================
// CAPABILITY SUMMARY
// =============================================================================

// TerminalCapabilities is the snapshot the status command reports.
type TerminalCapabilities struct {
	IsTTY         bool
	ColorsEnabled bool
	Width         int
	Height        int
}

// GetTerminalCapabilities returns the current terminal snapshot.
func GetTerminalCapabilities() TerminalCapabilities {
	width, height := GetTerminalSize()
	return TerminalCapabilities{
		IsTTY:         IsTTY(),
		ColorsEnabled: ColorsEnabled(),
		Width:         width,
		Height:        height,
	}
}
