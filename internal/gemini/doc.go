// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini implements the Google Gemini API client used for chat
// generation.
//
// The package has three layers. Client speaks the generative language HTTP
// API, both streaming (server-sent events) and single-shot, and maps API
// failures onto a small error taxonomy with user-presentable messages.
// ContextManager owns the live conversation context: the (model,
// instruction) pair plus the replayed history, rebuilt whenever either
// changes. Coordinator ties the two together for one streaming send,
// delivering tokens, a terminal error, and a completion signal through
// callbacks.
//
// The API itself is stateless, so the manager replays the accumulated
// history with every request and appends each successful exchange.
package gemini
