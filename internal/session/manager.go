// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks conversation session lifetime for the TUI.
package session

import (
	"strconv"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager tracks idle time and unsaved-changes state for the running
// conversation. The orchestrator drives it from a once-a-second tick and
// reacts to the messages HandleTick emits.
type Manager struct {
	mu sync.Mutex

	lastActivity time.Time
	isDirty      bool

	// Idle handling
	timeout       time.Duration
	warningBefore time.Duration
	warningShown  bool

	// Auto-save pacing
	autoSaveEnabled  bool
	autoSaveInterval time.Duration
	lastAutoSave     time.Time
}

// Config holds the idle and auto-save thresholds.
type Config struct {
	// Timeout is how long the conversation may idle before it is
	// flushed to local storage.
	Timeout time.Duration

	// WarningBefore is how far ahead of the timeout to warn.
	WarningBefore time.Duration

	// AutoSaveEnabled turns periodic dirty-state saves on.
	AutoSaveEnabled bool

	// AutoSaveInterval is the minimum gap between auto-saves.
	AutoSaveInterval time.Duration
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:          15 * time.Minute,
		WarningBefore:    2 * time.Minute,
		AutoSaveEnabled:  true,
		AutoSaveInterval: 30 * time.Second,
	}
}

// NewManager creates a session manager with the given thresholds.
func NewManager(cfg Config) *Manager {
	now := time.Now()
	return &Manager{
		lastActivity:     now,
		timeout:          cfg.Timeout,
		warningBefore:    cfg.WarningBefore,
		autoSaveEnabled:  cfg.AutoSaveEnabled,
		autoSaveInterval: cfg.AutoSaveInterval,
		lastAutoSave:     now,
	}
}

// =============================================================================
// ACTIVITY AND DIRTY STATE
// =============================================================================

// RecordActivity resets the idle clock. Called on user input.
func (m *Manager) RecordActivity() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastActivity = time.Now()
	m.warningShown = false
}

// MarkDirty flags unsaved transcript changes.
func (m *Manager) MarkDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = true
}

// MarkClean records that the transcript was just persisted.
func (m *Manager) MarkClean() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.isDirty = false
	m.lastAutoSave = time.Now()
}

// IsDirty reports whether the transcript has unsaved changes.
func (m *Manager) IsDirty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.isDirty
}

// IdleTime returns how long since the last recorded activity.
func (m *Manager) IdleTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.lastActivity)
}

// RemainingTime returns the time left until the idle timeout fires.
func (m *Manager) RemainingTime() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	remaining := m.timeout - time.Since(m.lastActivity)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsExpired reports whether the conversation has idled past the timeout.
func (m *Manager) IsExpired() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Since(m.lastActivity) >= m.timeout
}

// ShouldShowWarning reports whether the idle warning is due. The warning
// fires once per idle period; RecordActivity rearms it.
func (m *Manager) ShouldShowWarning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.warningShown {
		return false
	}
	idle := time.Since(m.lastActivity)
	return idle >= m.timeout-m.warningBefore && idle < m.timeout
}

// ShouldAutoSave reports whether a dirty transcript is due for a save.
func (m *Manager) ShouldAutoSave() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.autoSaveEnabled || !m.isDirty {
		return false
	}
	return time.Since(m.lastAutoSave) >= m.autoSaveInterval
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent once a second to drive session checks.
type TickMsg struct {
	Time time.Time
}

// TimeoutWarningMsg indicates the idle timeout is approaching.
type TimeoutWarningMsg struct {
	Remaining time.Duration
}

// TimeoutMsg indicates the conversation has idled past the timeout.
type TimeoutMsg struct{}

// AutoSaveMsg indicates a dirty transcript is due for a save.
type AutoSaveMsg struct{}

// TickCmd returns the command that emits the next TickMsg.
func TickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick evaluates idle and auto-save state, returning the due
// messages plus the next tick.
func (m *Manager) HandleTick() tea.Cmd {
	m.mu.Lock()

	idle := time.Since(m.lastActivity)
	expired := idle >= m.timeout

	warn := !m.warningShown && !expired && idle >= m.timeout-m.warningBefore
	var remaining time.Duration
	if warn {
		remaining = m.timeout - idle
		m.warningShown = true
	}

	save := m.autoSaveEnabled && m.isDirty &&
		time.Since(m.lastAutoSave) >= m.autoSaveInterval

	m.mu.Unlock()

	var cmds []tea.Cmd
	if warn {
		cmds = append(cmds, func() tea.Msg {
			return TimeoutWarningMsg{Remaining: remaining}
		})
	}
	if expired {
		cmds = append(cmds, func() tea.Msg {
			return TimeoutMsg{}
		})
	}
	if save {
		cmds = append(cmds, func() tea.Msg {
			return AutoSaveMsg{}
		})
	}
	cmds = append(cmds, TickCmd())

	return tea.Batch(cmds...)
}

// =============================================================================
// FORMATTING
// =============================================================================

// FormatDuration renders a duration the way the status line shows it.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		secs := int(d.Seconds())
		return strconv.Itoa(secs) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return strconv.Itoa(mins) + "m"
	}
	return strconv.Itoa(mins) + "m " + strconv.Itoa(secs) + "s"
}
