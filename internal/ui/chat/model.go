// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/miastudio/gemchat-tui/internal/commands"
	"github.com/miastudio/gemchat-tui/internal/model"
	"github.com/miastudio/gemchat-tui/internal/persona"
	"github.com/miastudio/gemchat-tui/internal/ui/components"
	"github.com/miastudio/gemchat-tui/internal/ui/styles"
)

// =============================================================================
// MODEL DEFINITION
// =============================================================================

// Model is the chat view: transcript viewport, input line, completion
// popup, thinking spinner, and toast overlay. It owns the transcript and
// the streaming render state; the orchestrator owns the network side and
// feeds Stream* messages in through Update.
type Model struct {
	theme *styles.Theme
	keys  KeyMap

	transcript  *model.Transcript
	viewport    viewport.Model
	input       textinput.Model
	spinner     components.Spinner
	messageList *components.MessageList

	registry        *commands.Registry
	parser          *commands.Parser
	completer       *commands.Completer
	completionState *commands.CompletionState

	toasts    *components.ToastManager
	streamBuf *StreamingBuffer

	// Streaming state. awaiting is true from send until the reply
	// finalizes or fails; streamingID is the assistant placeholder the
	// buffered tokens append to.
	awaiting    bool
	streamingID string

	persona       persona.Persona
	modelName     string
	keyConfigured bool

	width  int
	height int
	ready  bool
}

// New creates the chat model with an empty transcript.
func New(theme *styles.Theme, registry *commands.Registry) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message, or / for commands"
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)

	completer := commands.NewCompleter(registry)

	return Model{
		theme:           theme,
		keys:            DefaultKeyMap(),
		transcript:      model.NewTranscript(),
		viewport:        vp,
		input:           ti,
		spinner:         components.NewThinkingSpinner(),
		messageList:     components.NewMessageList(theme),
		registry:        registry,
		parser:          commands.NewParser(registry),
		completer:       completer,
		completionState: commands.NewCompletionState(),
		toasts:          components.NewToastManager(),
		streamBuf:       NewStreamingBuffer(),
		persona:         persona.Resolve(persona.DefaultID),
		width:           80,
		height:          24,
	}
}

// Init returns the initial command for the chat view.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Transcript returns the live transcript. The orchestrator reads it for
// persistence and replay history.
func (m *Model) Transcript() *model.Transcript {
	return m.transcript
}

// Completer returns the tab completer so the orchestrator can wire in the
// cloud-slot source.
func (m *Model) Completer() *commands.Completer {
	return m.completer
}

// Awaiting reports whether a reply is currently streaming.
func (m *Model) Awaiting() bool {
	return m.awaiting
}

// SetPersona updates the persona snapshot stamped on new replies.
func (m *Model) SetPersona(p persona.Persona) {
	m.persona = p
}

// SetModel updates the model name shown in the welcome box.
func (m *Model) SetModel(name string) {
	m.modelName = name
}

// SetKeyConfigured toggles the persistent credential warning banner.
func (m *Model) SetKeyConfigured(ok bool) {
	m.keyConfigured = ok
}

// SetSize updates the layout for a new terminal size.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.ready = true

	m.viewport.Width = width
	m.viewport.Height = m.viewportHeight()
	m.messageList.SetWidth(width)

	// Prompt is 2 cells; the input box border and padding eat 4 more.
	m.input.Width = width - 8
	if m.input.Width < 20 {
		m.input.Width = 20
	}

	m.refreshViewport()
}

// viewportHeight is the terminal height minus the fixed chrome below the
// transcript: input box (3), spinner/status line (1), and the credential
// banner when it is shown.
func (m *Model) viewportHeight() int {
	h := m.height - 4
	if !m.keyConfigured {
		h--
	}
	if h < 3 {
		h = 3
	}
	return h
}

// =============================================================================
// TRANSCRIPT MUTATION
// =============================================================================

// AppendMessage adds a message to the transcript and scrolls to it.
func (m *Model) AppendMessage(msg *model.Message) {
	m.transcript.Add(msg)
	m.refreshViewport()
	m.viewport.GotoBottom()
}

// ResetTranscript replaces the transcript wholesale, e.g. after /clear or
// loading a saved session.
func (m *Model) ResetTranscript(msgs []*model.Message) {
	m.transcript.Replace(msgs)
	m.streamBuf.Reset()
	m.awaiting = false
	m.streamingID = ""
	m.spinner.Stop()
	m.refreshViewport()
	m.viewport.GotoBottom()
}

// RefreshTranscript re-renders the viewport after the orchestrator
// mutated the transcript directly.
func (m *Model) RefreshTranscript() {
	m.refreshViewport()
	m.viewport.GotoBottom()
}

// refreshViewport rebuilds the viewport content from the transcript.
func (m *Model) refreshViewport() {
	m.messageList.SetMessages(m.transcript.Messages)
	m.viewport.SetContent(m.messageList.View())
}

// =============================================================================
// STREAMING LIFECYCLE
// =============================================================================

// BeginStream records a user turn, creates the assistant placeholder the
// reply will stream into, and starts the spinner and render tick. Returns
// the placeholder's message id for routing Stream* messages.
func (m *Model) BeginStream(text string, image, audio *model.Attachment) (string, tea.Cmd) {
	userMsg := m.transcript.AddUserMessage(text)
	userMsg.Image = image
	userMsg.Audio = audio

	reply := m.transcript.AddAIMessage()
	reply.WithPersona(m.persona.Name, m.persona.Glyph, m.persona.AvatarRef, m.persona.StyleTag)

	m.streamBuf.Reset()
	m.streamingID = reply.ID
	m.awaiting = true

	m.refreshViewport()
	m.viewport.GotoBottom()

	return reply.ID, tea.Batch(m.spinner.Start(), streamTickCmd())
}

// applyToken moves buffered stream content into the transcript message.
func (m *Model) applyToken(content string) {
	if m.streamingID == "" || content == "" {
		return
	}
	m.transcript.AppendToken(m.streamingID, content)
	m.refreshViewport()
	m.viewport.GotoBottom()
}

// completeStream finalizes the streaming reply.
func (m *Model) completeStream() {
	if content, ok := m.streamBuf.ForceFlush(); ok {
		m.applyToken(content)
	}
	if m.streamingID != "" {
		m.transcript.Finalize(m.streamingID)
	}
	m.endStream()
}

// failStream converts the streaming placeholder into an error bubble.
func (m *Model) failStream(message string) {
	m.streamBuf.Reset()
	if m.streamingID != "" {
		m.transcript.Fail(m.streamingID, message)
	}
	m.endStream()
}

func (m *Model) endStream() {
	m.awaiting = false
	m.streamingID = ""
	m.spinner.Stop()
	m.refreshViewport()
	m.viewport.GotoBottom()
}

// =============================================================================
// NOTIFICATIONS
// =============================================================================

// NotifyError shows an error toast and returns the tick command that
// drives its expiry.
func (m *Model) NotifyError(message string) tea.Cmd {
	m.toasts.AddError(message)
	return components.ToastTickCmd()
}

// NotifyWarning shows a warning toast.
func (m *Model) NotifyWarning(message string) tea.Cmd {
	m.toasts.AddWarning(message)
	return components.ToastTickCmd()
}

// NotifyInfo shows an info toast.
func (m *Model) NotifyInfo(message string) tea.Cmd {
	m.toasts.AddInfo(message)
	return components.ToastTickCmd()
}

// NotifySuccess shows a success toast.
func (m *Model) NotifySuccess(message string) tea.Cmd {
	m.toasts.AddSuccess(message)
	return components.ToastTickCmd()
}

// NotifyToast shows a pre-built toast, e.g. the speech subsystem's short
// notices with custom durations.
func (m *Model) NotifyToast(toast components.Toast) tea.Cmd {
	m.toasts.AddToast(toast)
	return components.ToastTickCmd()
}
