// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"
)

func TestToastConstructors(t *testing.T) {
	tests := []struct {
		name     string
		toast    Toast
		kind     ToastKind
		duration time.Duration
	}{
		{"error", NewErrorToast("boom"), ToastError, ErrorToastDuration},
		{"warning", NewWarningToast("careful"), ToastWarning, WarningToastDuration},
		{"info", NewInfoToast("fyi"), ToastInfo, DefaultToastDuration},
		{"success", NewSuccessToast("saved"), ToastSuccess, DefaultToastDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.toast.Kind != tt.kind {
				t.Errorf("kind = %v, want %v", tt.toast.Kind, tt.kind)
			}
			if tt.toast.Duration != tt.duration {
				t.Errorf("duration = %v, want %v", tt.toast.Duration, tt.duration)
			}
			if tt.toast.ID == 0 {
				t.Error("toast should get a non-zero ID")
			}
			if !tt.toast.Dismissible {
				t.Error("toast should be dismissible")
			}
		})
	}
}

func TestNewToastWithDuration(t *testing.T) {
	toast := NewToastWithDuration("spoken", ToastInfo, 2500*time.Millisecond)
	if toast.Duration != 2500*time.Millisecond {
		t.Errorf("duration = %v, want 2.5s", toast.Duration)
	}

	// Non-positive duration falls back to the default.
	toast = NewToastWithDuration("spoken", ToastInfo, 0)
	if toast.Duration != DefaultToastDuration {
		t.Errorf("duration = %v, want default", toast.Duration)
	}
}

func TestToastExpiry(t *testing.T) {
	toast := NewInfoToast("short lived")
	toast.CreatedAt = time.Now().Add(-DefaultToastDuration - time.Second)

	if !toast.IsExpired() {
		t.Error("backdated toast should be expired")
	}
	if toast.TimeRemaining() != 0 {
		t.Errorf("expired toast remaining = %v, want 0", toast.TimeRemaining())
	}
}

func TestToastManagerAddAndTick(t *testing.T) {
	m := NewToastManager()

	if m.HasToasts() {
		t.Error("new manager should have no toasts")
	}

	id := m.AddError("first")
	m.AddInfo("second")

	toasts := m.GetToasts()
	if len(toasts) != 2 {
		t.Fatalf("len = %d, want 2", len(toasts))
	}
	// Newest first
	if toasts[0].Message != "second" {
		t.Errorf("newest toast = %q, want %q", toasts[0].Message, "second")
	}

	m.RemoveToast(id)
	if len(m.GetToasts()) != 1 {
		t.Error("toast not removed by ID")
	}
}

func TestToastManagerTrimsToMax(t *testing.T) {
	m := NewToastManager()
	for i := 0; i < 8; i++ {
		m.AddInfo("toast " + toStr(i))
	}

	if got := len(m.GetToasts()); got != 5 {
		t.Errorf("manager kept %d toasts, want max 5", got)
	}
	// Newest survives the trim.
	if got := m.GetToasts()[0].Message; got != "toast 7" {
		t.Errorf("newest = %q, want %q", got, "toast 7")
	}
}

func TestTickToastsDropsExpired(t *testing.T) {
	m := NewToastManager()
	m.AddInfo("fresh")

	stale := NewInfoToast("stale")
	stale.CreatedAt = time.Now().Add(-time.Minute)
	m.AddToast(stale)

	remaining := m.TickToasts()
	if len(remaining) != 1 {
		t.Fatalf("remaining = %d, want 1", len(remaining))
	}
	if remaining[0].Message != "fresh" {
		t.Errorf("surviving toast = %q, want %q", remaining[0].Message, "fresh")
	}
}

func TestRenderToastIncludesMessage(t *testing.T) {
	toast := NewErrorToast("save failed")
	out := RenderToast(toast, 80)

	if !strings.Contains(out, "save failed") {
		t.Errorf("rendered toast missing message: %q", out)
	}
	if !strings.Contains(out, "[X]") {
		t.Errorf("error toast missing error indicator: %q", out)
	}
}

func TestRenderToastStackEmpty(t *testing.T) {
	if out := RenderToastStack(nil, 80, 24); out != "" {
		t.Errorf("empty stack should render empty, got %q", out)
	}
}

func TestWrapToastText(t *testing.T) {
	out := wrapToastText("one two three four five", 9)
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 9 {
			t.Errorf("line %q exceeds width 9", line)
		}
	}
}
