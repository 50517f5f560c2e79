// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"testing"
	"time"
)

// =============================================================================
// STREAMING BUFFER TESTS
// =============================================================================

func TestNewStreamingBuffer(t *testing.T) {
	sb := NewStreamingBuffer()

	if sb == nil {
		t.Fatal("NewStreamingBuffer returned nil")
	}

	batchSize, maxFPS, minFlushMs := sb.GetConfig()
	if batchSize != 15 {
		t.Errorf("Expected default batch size 15, got %d", batchSize)
	}
	if maxFPS != 30 {
		t.Errorf("Expected default maxFPS 30, got %d", maxFPS)
	}
	expectedMinFlushMs := time.Duration(1000/30) * time.Millisecond
	if minFlushMs != expectedMinFlushMs {
		t.Errorf("Expected minFlushMs %v, got %v", expectedMinFlushMs, minFlushMs)
	}
}

func TestStreamingBufferConfigClamping(t *testing.T) {
	sb := NewStreamingBufferWithConfig(-1, 120)

	batchSize, maxFPS, _ := sb.GetConfig()
	if batchSize != 15 {
		t.Errorf("Expected clamped batch size 15, got %d", batchSize)
	}
	if maxFPS != 30 {
		t.Errorf("Expected clamped maxFPS 30, got %d", maxFPS)
	}
}

func TestStreamingBufferWrite(t *testing.T) {
	sb := NewStreamingBuffer()

	sb.Write("Hello")
	sb.Write(" ")
	sb.Write("World")

	if pending := sb.Pending(); pending != 3 {
		t.Errorf("Expected 3 pending tokens, got %d", pending)
	}
}

func TestStreamingBufferFlushBySize(t *testing.T) {
	sb := NewStreamingBufferWithConfig(3, 30) // Batch size 3

	sb.Write("A")
	sb.Write("B")

	// Should not flush before reaching batch size
	content, hasContent := sb.Flush()
	if hasContent {
		t.Error("Should not flush before reaching batch size")
	}

	sb.Write("C")

	content, hasContent = sb.Flush()
	if !hasContent {
		t.Error("Should flush after reaching batch size")
	}
	if content != "ABC" {
		t.Errorf("Expected flushed content 'ABC', got '%s'", content)
	}

	if pending := sb.Pending(); pending != 0 {
		t.Errorf("Expected 0 pending tokens after flush, got %d", pending)
	}
}

func TestStreamingBufferFlushByTime(t *testing.T) {
	sb := NewStreamingBufferWithConfig(100, 30) // Large batch size, 30fps

	sb.Write("A")

	content, hasContent := sb.Flush()
	if hasContent {
		t.Error("Should not flush immediately")
	}

	// Wait for the flush interval (33ms for 30fps)
	time.Sleep(35 * time.Millisecond)

	content, hasContent = sb.Flush()
	if !hasContent {
		t.Error("Should flush after time threshold")
	}
	if content != "A" {
		t.Errorf("Expected flushed content 'A', got '%s'", content)
	}
}

func TestStreamingBufferForceFlush(t *testing.T) {
	sb := NewStreamingBuffer()

	sb.Write("Test")

	content, hasContent := sb.ForceFlush()
	if !hasContent {
		t.Error("ForceFlush should return content")
	}
	if content != "Test" {
		t.Errorf("Expected 'Test', got '%s'", content)
	}

	if pending := sb.Pending(); pending != 0 {
		t.Errorf("Expected 0 pending after force flush, got %d", pending)
	}
}

func TestStreamingBufferReset(t *testing.T) {
	sb := NewStreamingBuffer()

	sb.Write("A")
	sb.Write("B")
	sb.Write("C")

	sb.Reset()

	if pending := sb.Pending(); pending != 0 {
		t.Errorf("Expected 0 pending after reset, got %d", pending)
	}

	if _, hasContent := sb.Flush(); hasContent {
		t.Error("Should have no content after reset")
	}
}

func TestStreamingBufferConcurrency(t *testing.T) {
	sb := NewStreamingBuffer()

	// Writes from the streaming goroutine, flushes from the main loop.
	done := make(chan bool)
	go func() {
		for i := 0; i < 100; i++ {
			sb.Write("x")
			time.Sleep(time.Millisecond)
		}
		done <- true
	}()

	flushCount := 0
	go func() {
		for i := 0; i < 100; i++ {
			if _, hasContent := sb.Flush(); hasContent {
				flushCount++
			}
			time.Sleep(time.Millisecond)
		}
		done <- true
	}()

	<-done
	<-done

	t.Logf("Completed with %d flushes", flushCount)
}

func TestStreamingBufferUnicode(t *testing.T) {
	sb := NewStreamingBuffer()

	sb.Write("Hello")
	sb.Write(" ")
	sb.Write("世界")
	sb.Write("!")

	content, hasContent := sb.ForceFlush()
	if !hasContent {
		t.Error("Should have content")
	}

	expected := "Hello 世界!"
	if content != expected {
		t.Errorf("Expected '%s', got '%s'", expected, content)
	}
}

func TestStreamingBufferBatchAccumulation(t *testing.T) {
	sb := NewStreamingBufferWithConfig(10, 30)

	tokens := []string{"The", " quick", " brown", " fox", " jumps", " over", " the", " lazy", " dog", "."}
	for _, token := range tokens {
		sb.Write(token)
	}

	if !sb.ShouldFlush() {
		t.Error("Should be ready to flush after reaching batch size")
	}

	content, hasContent := sb.ForceFlush()
	if !hasContent {
		t.Error("Should have content")
	}

	expected := "The quick brown fox jumps over the lazy dog."
	if content != expected {
		t.Errorf("Expected '%s', got '%s'", expected, content)
	}
}
