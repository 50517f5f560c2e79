// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"sync"

	"github.com/miastudio/gemchat-tui/internal/model"
)

// =============================================================================
// CONVERSATION CONTEXT
// =============================================================================

// Context is one live conversation context: a model, a system instruction,
// and the replay history sent with every request. The API itself is
// stateless, so the context carries the full history.
//
// A Context is owned exclusively by its ContextManager; configuration never
// changes in place. Changing model or instruction discards the context and
// builds a fresh one.
type Context struct {
	ModelID     string
	Instruction string
	History     []Content
}

// ContextManager owns the current conversation context and is the only
// path for creating, rebuilding, or discarding it.
type ContextManager struct {
	mu          sync.Mutex
	client      *Client
	modelID     string
	instruction string
	ctx         *Context
}

// NewContextManager creates a manager with the given initial configuration.
// No context is built until EnsureContext or Rebuild is called.
func NewContextManager(client *Client, modelID, instruction string) *ContextManager {
	return &ContextManager{
		client:      client,
		modelID:     modelID,
		instruction: instruction,
	}
}

// ModelID returns the currently configured model.
func (m *ContextManager) ModelID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.modelID
}

// Instruction returns the currently configured system instruction.
func (m *ContextManager) Instruction() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.instruction
}

// EnsureContext returns the live context, building one with empty history
// on demand. Fails with ErrNotConfigured when no credential is present.
func (m *ContextManager) EnsureContext() (*Context, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.client.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if m.ctx == nil {
		m.ctx = &Context{
			ModelID:     m.modelID,
			Instruction: m.instruction,
			History:     make([]Content, 0),
		}
	}
	return m.ctx, nil
}

// Rebuild discards the current context and constructs a new one with the
// given configuration, replaying history. This is the only path that
// changes the (model, instruction) pair. Failed AI replies are filtered
// out of the replay; relative order is preserved.
func (m *ContextManager) Rebuild(modelID, instruction string, history []*model.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if modelID == "" {
		modelID = m.modelID
	}
	m.modelID = modelID
	m.instruction = instruction
	m.ctx = &Context{
		ModelID:     modelID,
		Instruction: instruction,
		History:     FormatHistory(history),
	}
}

// Reset applies a new instruction while keeping the current model. With
// history it behaves like Rebuild; with an empty history the context is
// discarded entirely and lazily recreated on the next send.
func (m *ContextManager) Reset(instruction string, history []*model.Message) {
	if len(history) > 0 {
		m.Rebuild("", instruction, history)
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.instruction = instruction
	m.ctx = nil
}

// AppendExchange records a completed exchange on the live context so the
// next send replays it. No-op when no context is live.
func (m *ContextManager) AppendExchange(userTurn Content, replyText string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctx == nil {
		return
	}
	m.ctx.History = append(m.ctx.History, userTurn, Content{
		Role:  "model",
		Parts: []Part{TextPart(replyText)},
	})
}

// HistoryLen reports the number of turns in the live context, zero when
// no context is built.
func (m *ContextManager) HistoryLen() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ctx == nil {
		return 0
	}
	return len(m.ctx.History)
}

// HasContext reports whether a live context exists.
func (m *ContextManager) HasContext() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ctx != nil
}
