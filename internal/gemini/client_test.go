// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// ERROR CLASSIFICATION TESTS
// =============================================================================

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		apiMessage string
		wantType   ErrorType
		wantSubstr string
	}{
		{
			name:       "401 bad credential",
			statusCode: 401,
			apiMessage: "unauthorized",
			wantType:   ErrTypeBadCredential,
			wantSubstr: "GEMCHAT_API_KEY",
		},
		{
			name:       "API_KEY_INVALID marker",
			statusCode: 400,
			apiMessage: "API_KEY_INVALID: key expired",
			wantType:   ErrTypeBadCredential,
			wantSubstr: "issue with the API Key",
		},
		{
			name:       "permission denied marker",
			statusCode: 400,
			apiMessage: "PERMISSION_DENIED for this key",
			wantType:   ErrTypeBadCredential,
			wantSubstr: "correct permissions",
		},
		{
			name:       "model not found",
			statusCode: 404,
			apiMessage: "model not found",
			wantType:   ErrTypeModelNotFound,
			wantSubstr: "gemini-test",
		},
		{
			name:       "payload too large",
			statusCode: 413,
			apiMessage: "Request payload size exceeds the limit",
			wantType:   ErrTypePayloadTooLarge,
			wantSubstr: "too large",
		},
		{
			name:       "instruction rejected",
			statusCode: 400,
			apiMessage: "invalid system instruction provided",
			wantType:   ErrTypeInstructionRejected,
			wantSubstr: "persona instructions",
		},
		{
			name:       "unclassified",
			statusCode: 500,
			apiMessage: "internal error",
			wantType:   ErrTypeUnclassified,
			wantSubstr: "Please try again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(tt.statusCode, tt.apiMessage, nil, "GEMCHAT_API_KEY", "gemini-test")
			if err.Type != tt.wantType {
				t.Errorf("type = %d, want %d", err.Type, tt.wantType)
			}
			if !strings.Contains(err.Message, tt.wantSubstr) {
				t.Errorf("message %q missing %q", err.Message, tt.wantSubstr)
			}
			wantDefinitive := tt.wantType != ErrTypeUnclassified
			if err.Definitive() != wantDefinitive {
				t.Errorf("definitive = %v, want %v", err.Definitive(), wantDefinitive)
			}
		})
	}
}

func TestIsDefinitive_UnknownErrors(t *testing.T) {
	if IsDefinitive(context.Canceled) {
		t.Error("plain errors should be transient")
	}
	if !IsDefinitive(ErrEmptyMessage) {
		t.Error("empty message should be definitive")
	}
	if !IsNotConfigured(ErrNotConfigured) {
		t.Error("IsNotConfigured should match the sentinel")
	}
}

// =============================================================================
// STREAMING CLIENT TESTS
// =============================================================================

func sseResponse(chunks ...string) string {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString("data: ")
		b.WriteString(chunkJSON(c))
		b.WriteString("\n\n")
	}
	return b.String()
}

func TestStreamGenerate_Success(t *testing.T) {
	var gotPath, gotKey, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(sseResponse("Hello", " there")))
	}))
	defer server.Close()

	client := NewClient("test-key", "").WithBaseURL(server.URL)

	var tokens []string
	err := client.StreamGenerate(context.Background(), "gemini-test", "be brief",
		[]Content{{Role: "user", Parts: []Part{TextPart("hi")}}},
		func(text string) { tokens = append(tokens, text) })
	if err != nil {
		t.Fatalf("StreamGenerate: %v", err)
	}

	if gotPath != "/v1beta/models/gemini-test:streamGenerateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if gotAccept != "text/event-stream" {
		t.Errorf("accept = %q", gotAccept)
	}
	if strings.Join(tokens, "") != "Hello there" {
		t.Errorf("tokens = %v", tokens)
	}
}

func TestStreamGenerate_NotConfigured(t *testing.T) {
	client := NewClient("", "")
	err := client.StreamGenerate(context.Background(), "m", "", nil, func(string) {})
	if !IsNotConfigured(err) {
		t.Errorf("expected not-configured error, got %v", err)
	}
}

func TestStreamGenerate_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":{"code":404,"message":"model not found","status":"NOT_FOUND"}}`))
	}))
	defer server.Close()

	client := NewClient("test-key", "").WithBaseURL(server.URL)
	err := client.StreamGenerate(context.Background(), "bogus-model", "", nil, func(string) {})
	if !IsModelNotFound(err) {
		t.Fatalf("expected model-not-found, got %v", err)
	}
	if !strings.Contains(err.Error(), "bogus-model") {
		t.Errorf("message should name the model: %v", err)
	}
}

func TestStreamGenerate_MidStreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: " + chunkJSON("partial") + "\n\n"))
		w.Write([]byte(`data: {"error":{"code":403,"message":"PERMISSION_DENIED","status":"PERMISSION_DENIED"}}` + "\n\n"))
	}))
	defer server.Close()

	client := NewClient("test-key", "").WithBaseURL(server.URL)

	var tokens []string
	err := client.StreamGenerate(context.Background(), "m", "", nil,
		func(text string) { tokens = append(tokens, text) })
	if !IsDefinitive(err) {
		t.Fatalf("expected definitive credential error, got %v", err)
	}
	if len(tokens) != 1 || tokens[0] != "partial" {
		t.Errorf("tokens before failure = %v", tokens)
	}
}

func TestStreamGenerate_ContextCancel(t *testing.T) {
	started := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte("data: " + chunkJSON("x") + "\n\n"))
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		close(started)
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	client := NewClient("test-key", "").WithBaseURL(server.URL)
	err := client.StreamGenerate(ctx, "m", "", nil, func(string) {})
	if err == nil {
		t.Fatal("expected cancellation error")
	}
	if IsDefinitive(err) {
		t.Errorf("cancellation should be transient, got %v", err)
	}
}

// =============================================================================
// NON-STREAMING CLIENT TESTS
// =============================================================================

func TestGenerate_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(chunkJSON("full reply")))
	}))
	defer server.Close()

	client := NewClient("test-key", "").WithBaseURL(server.URL)
	text, err := client.Generate(context.Background(), "gemini-test", "",
		[]Content{{Role: "user", Parts: []Part{TextPart("hi")}}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "full reply" {
		t.Errorf("text = %q", text)
	}
}

func TestGenerate_RetriesTransientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":{"code":500,"message":"internal"}}`))
			return
		}
		w.Write([]byte(chunkJSON("recovered")))
	}))
	defer server.Close()

	client := NewClient("test-key", "").WithBaseURL(server.URL).WithMaxRetries(1)
	text, err := client.Generate(context.Background(), "m", "", nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if text != "recovered" {
		t.Errorf("text = %q", text)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestGenerate_NoRetryOnDefinitiveError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":401,"message":"API_KEY_INVALID"}}`))
	}))
	defer server.Close()

	client := NewClient("bad-key", "API_KEY").WithBaseURL(server.URL).WithMaxRetries(2)
	_, err := client.Generate(context.Background(), "m", "", nil)
	if !IsDefinitive(err) {
		t.Fatalf("expected definitive error, got %v", err)
	}
	if !strings.Contains(err.Error(), "API_KEY") {
		t.Errorf("message should name the credential variable: %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retry)", calls.Load())
	}
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient("  key  ", "")
	if !client.IsConfigured() {
		t.Error("trimmed key should configure the client")
	}
	if client.KeyName() != "GEMCHAT_API_KEY" {
		t.Errorf("key name = %q", client.KeyName())
	}
	if NewClient("   ", "").IsConfigured() {
		t.Error("whitespace key should not configure the client")
	}
}
