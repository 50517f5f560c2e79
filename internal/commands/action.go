// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

// =============================================================================
// ACTIONS
// =============================================================================

// Action is one user intent produced by parsing input. The set of
// variants is closed: the orchestrator switches over them exhaustively
// and free-form behavior cannot leak in through the parser.
type Action interface {
	isAction()
}

// SendMessage submits a chat turn. Attachment paths are optional and
// loaded by the orchestrator.
type SendMessage struct {
	Text      string
	ImagePath string
	AudioPath string
}

// ChangePersona switches the active persona.
type ChangePersona struct {
	PersonaID string
}

// ListPersonas shows the persona catalog.
type ListPersonas struct{}

// ChangeModel switches the active model. Empty ModelID shows the
// current one.
type ChangeModel struct {
	ModelID string
}

// ListModels shows the model registry.
type ListModels struct{}

// SetInstruction overrides a persona's system instruction. Empty
// PersonaID targets the active persona; empty text restores the default.
type SetInstruction struct {
	PersonaID   string
	Instruction string
}

// ClearChat resets the transcript to a fresh welcome message.
type ClearChat struct{}

// SetView switches the visible view.
type SetView struct {
	View string // "chat", "docs", "dashboard"
}

// SaveLocal persists the session to the local slot.
type SaveLocal struct{}

// LoadLocal restores the session from the local slot.
type LoadLocal struct{}

// CloudSave persists the session to a named cloud slot.
type CloudSave struct {
	SlotID string
}

// CloudLoad restores the session from a named cloud slot.
type CloudLoad struct {
	SlotID string
}

// CloudDelete removes a named cloud slot.
type CloudDelete struct {
	SlotID string
}

// CloudList shows the saved cloud slots.
type CloudList struct{}

// SpeakLast plays the last AI reply aloud.
type SpeakLast struct{}

// ToggleAutoPlay flips automatic playback of replies.
type ToggleAutoPlay struct{}

// ShowHelp displays command help.
type ShowHelp struct {
	Topic string
}

// Quit exits the application.
type Quit struct{}

func (SendMessage) isAction()    {}
func (ChangePersona) isAction()  {}
func (ListPersonas) isAction()   {}
func (ChangeModel) isAction()    {}
func (ListModels) isAction()     {}
func (SetInstruction) isAction() {}
func (ClearChat) isAction()      {}
func (SetView) isAction()        {}
func (SaveLocal) isAction()      {}
func (LoadLocal) isAction()      {}
func (CloudSave) isAction()      {}
func (CloudLoad) isAction()      {}
func (CloudDelete) isAction()    {}
func (CloudList) isAction()      {}
func (SpeakLast) isAction()      {}
func (ToggleAutoPlay) isAction() {}
func (ShowHelp) isAction()       {}
func (Quit) isAction()           {}
