// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides session persistence for gemchat.
//
// Sessions are saved wholesale as JSON payloads through a small key-value
// boundary with two backends: a file-per-key store for the single local
// slot, and a SQLite-backed store for named "cloud" slots.
//
// # Key Types
//
//   - KV: the key-value boundary both backends implement
//   - FileKV: atomic-write file backend for the local slot
//   - SQLiteKV: SQLite backend for cloud slots, rate-paced
//   - Gateway: the session-level API the application talks to
//
// # Usage
//
// Create a gateway over both backends:
//
//	local := storage.NewFileKV(dataDir)
//	cloud, err := storage.NewSQLiteKV(dbPath)
//	gw := storage.NewGateway(local, cloud)
//
// Save and restore the local session:
//
//	err = gw.SaveLocal(messages)
//	msgs, ok := gw.LoadLocal()
//
// Cloud slots are addressed by caller-chosen IDs:
//
//	err = gw.SaveCloud(ctx, "monday", messages, settings)
//	data, ok, err := gw.LoadCloud(ctx, "monday")
package storage
