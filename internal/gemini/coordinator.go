// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"strings"

	"github.com/miastudio/gemchat-tui/internal/model"
)

// =============================================================================
// STREAMING REPLY COORDINATOR
// =============================================================================

// Callbacks receives the lifecycle events of one streaming send.
//
// OnToken fires for each text fragment in arrival order. OnError fires at
// most once with a user-presentable message; definitive means retrying the
// same send would fail again. OnDone always fires exactly once, last, on
// both success and failure, so loading state can be cleared unconditionally.
type Callbacks struct {
	OnToken func(text string)
	OnError func(message string, definitive bool)
	OnDone  func()
}

// Coordinator drives streaming sends against the live conversation context.
type Coordinator struct {
	client *Client
	cm     *ContextManager
}

// NewCoordinator creates a coordinator for the given client and manager.
func NewCoordinator(client *Client, cm *ContextManager) *Coordinator {
	return &Coordinator{client: client, cm: cm}
}

// ContextManager returns the manager the coordinator sends through.
func (s *Coordinator) ContextManager() *ContextManager {
	return s.cm
}

// SendStreaming sends one user turn (text plus optional image and audio
// attachments, in that part order) and streams the reply through cb.
//
// Precondition failures (missing credential, empty turn) report a
// definitive error without any network activity. On success the exchange
// is appended to the context history so the next send replays it.
func (s *Coordinator) SendStreaming(ctx context.Context, text string, image, audio *model.Attachment, cb Callbacks) {
	defer func() {
		if cb.OnDone != nil {
			cb.OnDone()
		}
	}()

	if !s.client.IsConfigured() {
		s.fail(cb, ErrNotConfigured)
		return
	}

	turn, ok := BuildTurn(text, image, audio)
	if !ok {
		s.fail(cb, ErrEmptyMessage)
		return
	}

	chatCtx, err := s.cm.EnsureContext()
	if err != nil {
		s.fail(cb, err)
		return
	}

	// Snapshot under the manager lock so a concurrent rebuild cannot tear
	// the request.
	s.cm.mu.Lock()
	modelID := chatCtx.ModelID
	instruction := chatCtx.Instruction
	contents := make([]Content, 0, len(chatCtx.History)+1)
	contents = append(contents, chatCtx.History...)
	s.cm.mu.Unlock()
	contents = append(contents, turn)

	var reply strings.Builder
	streamErr := s.client.StreamGenerate(ctx, modelID, instruction, contents, func(t string) {
		reply.WriteString(t)
		if cb.OnToken != nil {
			cb.OnToken(t)
		}
	})
	if streamErr != nil {
		s.fail(cb, streamErr)
		return
	}

	s.cm.AppendExchange(turn, reply.String())
}

// fail reports an error through the callbacks, rendering unknown error
// values as non-definitive.
func (s *Coordinator) fail(cb Callbacks, err error) {
	if cb.OnError == nil {
		return
	}
	if ce, ok := err.(*ClientError); ok {
		cb.OnError(ce.Message, ce.Definitive())
		return
	}
	cb.OnError(err.Error(), false)
}
