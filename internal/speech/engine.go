// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"errors"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// =============================================================================
// ERROR KINDS
// =============================================================================

// ErrorKind classifies speech engine failures. Only a curated subset is
// worth interrupting the user for; the rest is logged and ignored.
type ErrorKind string

const (
	ErrKindNotAllowed           ErrorKind = "not-allowed"
	ErrKindServiceNotAllowed    ErrorKind = "service-not-allowed"
	ErrKindLanguageUnavailable  ErrorKind = "language-unavailable"
	ErrKindVoiceUnavailable     ErrorKind = "voice-unavailable"
	ErrKindSynthesisUnavailable ErrorKind = "synthesis-unavailable"
	ErrKindSynthesisFailed      ErrorKind = "synthesis-failed"
	ErrKindNetwork              ErrorKind = "network"
	ErrKindAudioHardware        ErrorKind = "audio-hardware"
	ErrKindInterrupted          ErrorKind = "interrupted"
	ErrKindCanceled             ErrorKind = "canceled"
	ErrKindAudioBusy            ErrorKind = "audio-busy"
	ErrKindTextTooLong          ErrorKind = "text-too-long"
	ErrKindInvalidArgument      ErrorKind = "invalid-argument"
)

// criticalKinds are always notification-worthy.
var criticalKinds = map[ErrorKind]bool{
	ErrKindServiceNotAllowed:    true,
	ErrKindLanguageUnavailable:  true,
	ErrKindVoiceUnavailable:     true,
	ErrKindSynthesisUnavailable: true,
	ErrKindSynthesisFailed:      true,
	ErrKindNetwork:              true,
	ErrKindAudioHardware:        true,
}

// Notifiable reports whether an engine failure should surface as a user
// notification. A permission failure during the initial non-interactive
// autoplay is expected and stays silent; the same failure on a
// user-triggered speak is surfaced.
func Notifiable(kind ErrorKind, initialAutoplay bool) bool {
	if kind == ErrKindNotAllowed {
		return !initialAutoplay
	}
	return criticalKinds[kind]
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine synthesizes speech. Speak is fire-and-forget: it returns
// immediately and reports failures through onError.
type Engine interface {
	// Speak starts speaking text. A new call cancels any speech still in
	// progress. onError may be nil.
	Speak(text string, onError func(ErrorKind))

	// Stop cancels any speech in progress.
	Stop()
}

// CommandEngine shells out to an external synthesizer command (say,
// espeak, festival --tts) with the text as the final argument.
type CommandEngine struct {
	command string
	args    []string

	mu     sync.Mutex
	cancel context.CancelFunc
}

// DefaultCommand returns the platform-default synthesizer command: say on
// macOS, espeak elsewhere.
func DefaultCommand() string {
	if runtime.GOOS == "darwin" {
		return "say"
	}
	return "espeak"
}

// CommandAvailable reports whether the first word of a synthesizer command
// line resolves on PATH.
func CommandAvailable(commandLine string) bool {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return false
	}
	_, err := exec.LookPath(fields[0])
	return err == nil
}

// NewCommandEngine creates an engine around a synthesizer command line.
// The command string may carry leading arguments ("espeak -s 150").
func NewCommandEngine(commandLine string) *CommandEngine {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return &CommandEngine{}
	}
	return &CommandEngine{command: fields[0], args: fields[1:]}
}

// Speak starts the synthesizer in the background. The newest call wins:
// any speech still in progress is cancelled first.
func (e *CommandEngine) Speak(text string, onError func(ErrorKind)) {
	if e.command == "" {
		if onError != nil {
			onError(ErrKindSynthesisUnavailable)
		}
		return
	}

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.mu.Unlock()

	go func() {
		defer cancel()

		args := append(append([]string{}, e.args...), text)
		cmd := exec.CommandContext(ctx, e.command, args...)
		err := cmd.Run()
		if err == nil || onError == nil {
			return
		}
		onError(classifyExecError(ctx, err))
	}()
}

// Stop cancels any speech in progress.
func (e *CommandEngine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// classifyExecError maps a command failure to an ErrorKind.
func classifyExecError(ctx context.Context, err error) ErrorKind {
	if ctx.Err() != nil {
		return ErrKindCanceled
	}
	if errors.Is(err, exec.ErrNotFound) {
		return ErrKindSynthesisUnavailable
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ErrKindSynthesisFailed
	}
	return ErrKindSynthesisFailed
}

// NopEngine is used when speech is disabled. Speak drops the text.
type NopEngine struct{}

func (NopEngine) Speak(string, func(ErrorKind)) {}
func (NopEngine) Stop()                         {}
