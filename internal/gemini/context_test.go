// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/miastudio/gemchat-tui/internal/model"
)

// =============================================================================
// CONTEXT MANAGER TESTS
// =============================================================================

func TestContextManager_LazyCreation(t *testing.T) {
	cm := NewContextManager(NewClient("key", ""), "gemini-test", "be helpful")
	if cm.HasContext() {
		t.Error("no context should exist before the first send")
	}

	ctx, err := cm.EnsureContext()
	if err != nil {
		t.Fatalf("EnsureContext: %v", err)
	}
	if ctx.ModelID != "gemini-test" || ctx.Instruction != "be helpful" {
		t.Errorf("context = %+v", ctx)
	}
	if len(ctx.History) != 0 {
		t.Errorf("fresh context should have empty history")
	}

	again, err := cm.EnsureContext()
	if err != nil {
		t.Fatalf("EnsureContext: %v", err)
	}
	if again != ctx {
		t.Error("EnsureContext should return the same live context")
	}
}

func TestContextManager_NotConfigured(t *testing.T) {
	cm := NewContextManager(NewClient("", ""), "m", "")
	if _, err := cm.EnsureContext(); !IsNotConfigured(err) {
		t.Errorf("expected not-configured, got %v", err)
	}
}

func TestContextManager_RebuildChangesPair(t *testing.T) {
	cm := NewContextManager(NewClient("key", ""), "model-a", "old")
	cm.EnsureContext()
	cm.AppendExchange(Content{Role: "user", Parts: []Part{TextPart("q")}}, "a")

	user := model.NewUserMessage("kept question")
	failed := model.NewAIMessage()
	failed.FailStream("boom")
	reply := model.NewAIMessage()
	reply.AppendToken("kept answer")
	reply.FinalizeStream()

	cm.Rebuild("model-b", "new instruction", []*model.Message{user, failed, reply})

	if cm.ModelID() != "model-b" || cm.Instruction() != "new instruction" {
		t.Errorf("pair = (%q, %q)", cm.ModelID(), cm.Instruction())
	}
	// Replay drops the failed reply.
	if cm.HistoryLen() != 2 {
		t.Errorf("history = %d turns, want 2", cm.HistoryLen())
	}
}

func TestContextManager_RebuildKeepsModelWhenEmpty(t *testing.T) {
	cm := NewContextManager(NewClient("key", ""), "model-a", "old")
	cm.Rebuild("", "new", nil)
	if cm.ModelID() != "model-a" {
		t.Errorf("model = %q, want model-a", cm.ModelID())
	}
	if cm.Instruction() != "new" {
		t.Errorf("instruction = %q", cm.Instruction())
	}
}

func TestContextManager_ResetWithHistory(t *testing.T) {
	cm := NewContextManager(NewClient("key", ""), "model-a", "old")
	msgs := []*model.Message{model.NewUserMessage("hello")}

	cm.Reset("fresh instruction", msgs)
	if !cm.HasContext() {
		t.Fatal("reset with history should build a context")
	}
	if cm.HistoryLen() != 1 {
		t.Errorf("history = %d, want 1", cm.HistoryLen())
	}
	if cm.Instruction() != "fresh instruction" {
		t.Errorf("instruction = %q", cm.Instruction())
	}
}

func TestContextManager_ResetWithoutHistoryDiscards(t *testing.T) {
	cm := NewContextManager(NewClient("key", ""), "model-a", "old")
	cm.EnsureContext()
	cm.AppendExchange(Content{Role: "user", Parts: []Part{TextPart("q")}}, "a")

	cm.Reset("fresh", nil)
	if cm.HasContext() {
		t.Error("reset with empty history should discard the context")
	}

	// Next send recreates the context with the new instruction.
	ctx, err := cm.EnsureContext()
	if err != nil {
		t.Fatalf("EnsureContext: %v", err)
	}
	if ctx.Instruction != "fresh" {
		t.Errorf("instruction = %q", ctx.Instruction)
	}
	if len(ctx.History) != 0 {
		t.Errorf("recreated context should start empty")
	}
}

func TestContextManager_AppendExchange(t *testing.T) {
	cm := NewContextManager(NewClient("key", ""), "m", "")

	// No-op before a context exists.
	cm.AppendExchange(Content{Role: "user", Parts: []Part{TextPart("q")}}, "a")
	if cm.HistoryLen() != 0 {
		t.Error("append without a live context should be a no-op")
	}

	ctx, _ := cm.EnsureContext()
	cm.AppendExchange(Content{Role: "user", Parts: []Part{TextPart("q")}}, "a")
	if len(ctx.History) != 2 {
		t.Fatalf("history = %d, want 2", len(ctx.History))
	}
	if ctx.History[1].Role != "model" || ctx.History[1].Parts[0].Text != "a" {
		t.Errorf("model turn = %+v", ctx.History[1])
	}
}

// =============================================================================
// COORDINATOR TESTS
// =============================================================================

type callbackRecorder struct {
	tokens     []string
	errMessage string
	definitive bool
	errCount   int
	doneCount  int
}

func (r *callbackRecorder) callbacks() Callbacks {
	return Callbacks{
		OnToken: func(text string) { r.tokens = append(r.tokens, text) },
		OnError: func(msg string, definitive bool) {
			r.errCount++
			r.errMessage = msg
			r.definitive = definitive
		},
		OnDone: func() { r.doneCount++ },
	}
}

func TestCoordinator_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(sseResponse("Hi", " there")))
	}))
	defer server.Close()

	client := NewClient("key", "").WithBaseURL(server.URL)
	cm := NewContextManager(client, "gemini-test", "be brief")
	coord := NewCoordinator(client, cm)

	rec := &callbackRecorder{}
	coord.SendStreaming(context.Background(), "hello", nil, nil, rec.callbacks())

	if rec.errCount != 0 {
		t.Fatalf("unexpected error: %q", rec.errMessage)
	}
	if strings.Join(rec.tokens, "") != "Hi there" {
		t.Errorf("tokens = %v", rec.tokens)
	}
	if rec.doneCount != 1 {
		t.Errorf("done fired %d times, want 1", rec.doneCount)
	}
	// Exchange was recorded for the next send.
	if cm.HistoryLen() != 2 {
		t.Errorf("history = %d turns, want 2", cm.HistoryLen())
	}
}

func TestCoordinator_EmptyMessage(t *testing.T) {
	client := NewClient("key", "")
	coord := NewCoordinator(client, NewContextManager(client, "m", ""))

	rec := &callbackRecorder{}
	coord.SendStreaming(context.Background(), "", nil, nil, rec.callbacks())

	if rec.errCount != 1 || !rec.definitive {
		t.Fatalf("expected one definitive error, got count=%d definitive=%v", rec.errCount, rec.definitive)
	}
	if rec.errMessage != "Cannot send an empty message." {
		t.Errorf("message = %q", rec.errMessage)
	}
	if rec.doneCount != 1 {
		t.Errorf("done fired %d times, want 1", rec.doneCount)
	}
}

func TestCoordinator_NotConfigured(t *testing.T) {
	client := NewClient("", "")
	coord := NewCoordinator(client, NewContextManager(client, "m", ""))

	rec := &callbackRecorder{}
	coord.SendStreaming(context.Background(), "hello", nil, nil, rec.callbacks())

	if rec.errCount != 1 || !rec.definitive {
		t.Fatalf("expected one definitive error, got count=%d definitive=%v", rec.errCount, rec.definitive)
	}
	if !strings.Contains(rec.errMessage, "GEMCHAT_API_KEY") {
		t.Errorf("message = %q", rec.errMessage)
	}
	if rec.doneCount != 1 {
		t.Errorf("done fired %d times, want 1", rec.doneCount)
	}
}

func TestCoordinator_StreamFailureReportsAndDone(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":401,"message":"API_KEY_INVALID"}}`))
	}))
	defer server.Close()

	client := NewClient("bad", "").WithBaseURL(server.URL)
	cm := NewContextManager(client, "m", "")
	coord := NewCoordinator(client, cm)

	rec := &callbackRecorder{}
	coord.SendStreaming(context.Background(), "hello", nil, nil, rec.callbacks())

	if rec.errCount != 1 || !rec.definitive {
		t.Fatalf("expected one definitive error, got count=%d definitive=%v", rec.errCount, rec.definitive)
	}
	if rec.doneCount != 1 {
		t.Errorf("done fired %d times, want 1", rec.doneCount)
	}
	// The failed exchange is not recorded.
	if cm.HistoryLen() != 0 {
		t.Errorf("history = %d, want 0", cm.HistoryLen())
	}
}

func TestCoordinator_HistoryReplayedOnNextSend(t *testing.T) {
	var mu sync.Mutex
	var lastBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		lastBody = string(body)
		mu.Unlock()
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(sseResponse("ok")))
	}))
	defer server.Close()

	client := NewClient("key", "").WithBaseURL(server.URL)
	cm := NewContextManager(client, "m", "")
	coord := NewCoordinator(client, cm)

	rec := &callbackRecorder{}
	coord.SendStreaming(context.Background(), "first", nil, nil, rec.callbacks())
	coord.SendStreaming(context.Background(), "second", nil, nil, rec.callbacks())

	mu.Lock()
	body := lastBody
	mu.Unlock()
	if !strings.Contains(body, "first") || !strings.Contains(body, "second") {
		t.Errorf("second request should replay the first exchange: %s", body)
	}
	if !strings.Contains(body, `"role":"model"`) {
		t.Errorf("second request should include the model reply: %s", body)
	}
}
