// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides shared helpers for the gemchat application.
//
// String helpers are UTF-8 safe (rune- and display-width aware via
// go-runewidth). AtomicWriteFile gives crash-safe persistence writes
// (temp file + fsync + rename).
package util
