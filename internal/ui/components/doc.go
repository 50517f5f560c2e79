// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the gemchat TUI.

This package contains a collection of styled components built on top of the
Bubble Tea and Lip Gloss libraries, consistent with the gemchat design
language.

# Display Components

Header (header.go) - Top bar with brand, active persona, model, and view tabs.
StatusBar (statusbar.go) - Bottom bar with status, persona, slot, and shortcuts.
MessageBubble (message.go) - Styled bubbles for user, AI, banner, and error messages.
CodeBlock (codeblock.go) - Syntax-highlighted code blocks using Chroma.
Panels (panels.go) - Docs and Dashboard informational views.
Banner (banner.go) - Credential warning banner and welcome splash.

# Progress and Feedback

Spinner (spinner.go) - Animated spinner with elapsed timer.
Toast (toast.go) - Non-blocking corner notifications with auto-dismiss.
CompletionPopup (completion.go) - Tab completion popup for slash commands.

# Design Principles

  - ASCII-compatible animations for terminal portability
  - AdaptiveColor throughout for light/dark terminals
  - Persona accent colors follow the catalog style tags
  - Components take a *styles.Theme rather than creating their own
*/
package components
