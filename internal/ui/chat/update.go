// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains the update loop for the chat view: key handling,
// tab completion, and the streaming render pipeline.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/miastudio/gemchat-tui/internal/commands"
	"github.com/miastudio/gemchat-tui/internal/ui/components"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update handles messages for the chat view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamStartMsg:
		// The placeholder already exists (BeginStream); just make sure
		// the render tick is armed in case the start raced a resize.
		if m.awaiting {
			return m, streamTickCmd()
		}
		return m, nil

	case StreamTokenMsg:
		if msg.MessageID == m.streamingID {
			m.streamBuf.Write(msg.Token)
		}
		return m, nil

	case StreamCompleteMsg:
		if msg.MessageID == m.streamingID {
			m.completeStream()
		}
		return m, nil

	case StreamErrorMsg:
		if msg.MessageID == m.streamingID {
			m.failStream(msg.Message)
		}
		return m, nil

	case StreamTickMsg:
		return m.handleStreamTick()

	case components.ToastTickMsg:
		m.toasts.TickToasts()
		if m.toasts.HasToasts() {
			return m, components.ToastTickCmd()
		}
		return m, nil

	case components.ToastDismissMsg:
		m.toasts.RemoveToast(msg.ID)
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.spinner, cmd = m.spinner.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	m.input, cmd = m.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleStreamTick flushes buffered tokens into the transcript and
// re-arms the tick while the stream is active.
func (m Model) handleStreamTick() (Model, tea.Cmd) {
	if content, ok := m.streamBuf.Flush(); ok {
		m.applyToken(content)
	}
	if m.awaiting {
		return m, streamTickCmd()
	}
	// Stream ended between ticks; drain whatever is left.
	if content, ok := m.streamBuf.ForceFlush(); ok {
		m.applyToken(content)
	}
	return m, nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Submit):
		if m.completionState.Visible {
			m.acceptCompletion()
			return m, nil
		}
		return m.submitInput()

	case key.Matches(msg, m.keys.Complete):
		return m.handleTab(false)

	case key.Matches(msg, m.keys.CompletePrev):
		return m.handleTab(true)

	case key.Matches(msg, m.keys.Cancel):
		if m.completionState.Visible {
			m.completionState.Clear()
			return m, nil
		}
		m.input.SetValue("")
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.completionState.Visible {
			m.completionState.Prev()
			return m, nil
		}
		m.viewport.LineUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.completionState.Visible {
			m.completionState.Next()
			return m, nil
		}
		m.viewport.LineDown(1)
		return m, nil

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keys.Home):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keys.End):
		m.viewport.GotoBottom()
		return m, nil
	}

	// Regular typing goes to the input; keep the completion popup in
	// sync with the new value.
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.syncCompletions()
	}
	return m, cmd
}

// =============================================================================
// TAB COMPLETION
// =============================================================================

// handleTab opens the completion popup, or cycles it when already open.
func (m Model) handleTab(reverse bool) (Model, tea.Cmd) {
	if m.completionState.Visible {
		if reverse {
			m.completionState.Prev()
		} else {
			m.completionState.Next()
		}
		return m, nil
	}

	value := m.input.Value()
	if !strings.HasPrefix(strings.TrimSpace(value), "/") {
		return m, nil
	}

	completions := m.completer.Complete(value, m.input.Position())
	m.completionState.Update(value, completions)

	// A single candidate needs no menu.
	if len(completions) == 1 {
		m.acceptCompletion()
	}
	return m, nil
}

// syncCompletions recomputes the popup contents as the user types.
// The popup only tracks slash input; plain text hides it.
func (m *Model) syncCompletions() {
	value := m.input.Value()
	if !strings.HasPrefix(strings.TrimSpace(value), "/") {
		m.completionState.Clear()
		return
	}
	if !m.completionState.Visible && value != m.completionState.OriginalInput {
		// Popup was dismissed; don't reopen until the next Tab unless
		// the user is still on the leading slash word.
		if strings.ContainsRune(strings.TrimSpace(value), ' ') {
			return
		}
	}
	completions := m.completer.Complete(value, m.input.Position())
	m.completionState.Update(value, completions)
}

// acceptCompletion writes the selected candidate into the input line.
func (m *Model) acceptCompletion() {
	value := m.completionState.Accept()
	if value == "" {
		m.completionState.Clear()
		return
	}
	m.input.SetValue(applyCompletion(m.input.Value(), value))
	m.input.CursorEnd()
	m.completionState.Clear()
}

// applyCompletion replaces the token being completed with the accepted
// value. Whole-command completions get a trailing space so argument
// completion can pick up immediately.
func applyCompletion(input, value string) string {
	if strings.HasSuffix(input, " ") {
		return input + value
	}
	idx := strings.LastIndexAny(input, " \t")
	if idx < 0 {
		return value + " "
	}
	return input[:idx+1] + value
}

// =============================================================================
// INPUT SUBMISSION
// =============================================================================

// submitInput parses the input line and hands the resolved action to the
// orchestrator. Sends are blocked while a reply is streaming; other
// commands still go through.
func (m Model) submitInput() (Model, tea.Cmd) {
	raw := strings.TrimSpace(m.input.Value())
	if raw == "" {
		return m, nil
	}

	result := m.parser.Parse(raw)
	if result.Error != nil {
		return m, m.NotifyError(result.Error.Error())
	}

	if _, isSend := result.Action.(commands.SendMessage); isSend && m.awaiting {
		return m, m.NotifyWarning("Still waiting for the current reply.")
	}

	m.input.SetValue("")
	m.completionState.Clear()

	action := result.Action
	return m, tea.Batch(
		func() tea.Msg { return SubmitMsg{Action: action, RawInput: raw} },
		textinput.Blink,
	)
}
