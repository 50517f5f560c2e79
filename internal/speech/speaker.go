// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// =============================================================================
// NOTIFICATION BOUNDARY
// =============================================================================

// NotifyLevel is the severity of a user-facing speech notification.
type NotifyLevel int

const (
	NotifyInfo NotifyLevel = iota
	NotifyWarning
	NotifyError
)

// NotifyFunc delivers a user-facing notification. duration of zero means
// the receiver's default.
type NotifyFunc func(message string, level NotifyLevel, duration time.Duration)

// =============================================================================
// SPEAKER
// =============================================================================

// Speaker is the playback entry point: it sanitizes Markdown out of the
// text, hands it to the engine, and routes engine failures through the
// notification filter.
type Speaker struct {
	engine Engine
	notify NotifyFunc
}

// NewSpeaker creates a speaker. A nil engine disables playback; a nil
// notify drops notifications.
func NewSpeaker(engine Engine, notify NotifyFunc) *Speaker {
	if engine == nil {
		engine = NopEngine{}
	}
	if notify == nil {
		notify = func(string, NotifyLevel, time.Duration) {}
	}
	return &Speaker{engine: engine, notify: notify}
}

// Speak plays text aloud. contextLabel names the trigger in logs and
// notifications ("Auto-play", "Manual play"). initialAutoplay marks the
// non-interactive playback on startup, whose permission failures stay
// silent.
func (s *Speaker) Speak(text, contextLabel string, initialAutoplay bool) {
	if strings.TrimSpace(text) == "" {
		log.Printf("%s TTS: original text is empty, nothing to speak", contextLabel)
		return
	}

	sanitized := SanitizeMarkdown(text)
	if strings.TrimSpace(sanitized) == "" {
		log.Printf("%s TTS: sanitized text is empty, though original was not", contextLabel)
		s.notify(fmt.Sprintf("%s: Content was empty after Markdown removal.", contextLabel),
			NotifyInfo, 2500*time.Millisecond)
		return
	}

	s.engine.Speak(sanitized, func(kind ErrorKind) {
		log.Printf("%s TTS speech error: %s", contextLabel, kind)
		if !Notifiable(kind, initialAutoplay) {
			return
		}
		if kind == ErrKindNotAllowed {
			s.notify(fmt.Sprintf("%s TTS Error: Speech synthesis not allowed. Please check system permissions.", contextLabel),
				NotifyError, 0)
			return
		}
		s.notify(fmt.Sprintf("%s TTS Error: %s. Speech may not be available.", contextLabel, kind),
			NotifyError, 0)
	})
}

// Stop cancels any playback in progress.
func (s *Speaker) Stop() {
	s.engine.Stop()
}
