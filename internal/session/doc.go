// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks conversation session lifetime for the TUI.
//
// The manager watches idle time and dirty state and tells the app when to
// warn the user, auto-save the transcript, or treat the session as idle.
// It never persists anything itself; the orchestrator reacts to the
// messages and drives the storage gateway.
//
// # Key Types
//
//   - Manager: idle and auto-save tracking with a per-second tick
//   - TickMsg: the periodic Bubble Tea tick
//   - TimeoutWarningMsg: emitted shortly before the idle threshold
//   - TimeoutMsg: emitted when the session has gone fully idle
//   - AutoSaveMsg: emitted when a dirty transcript should be saved
//
// # Usage
//
// Create a manager and arm the tick from Init:
//
//	mgr := session.NewManager(session.DefaultConfig())
//	cmd := session.TickCmd()
//
// Feed ticks back through HandleTick and record activity on every key:
//
//	case session.TickMsg:
//	    return m, mgr.HandleTick()
//
// Mark the transcript dirty after mutations so auto-save picks it up:
//
//	mgr.MarkDirty()
package session
