// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat transcripts and messages.
//
// # Key Types
//
//   - Transcript: Ordered messages of the current chat session
//   - Message: Single message with sender, text, category, timestamp, and
//     optional image/audio attachments
//   - Category: Classifies AI messages (normal, welcome, notification, error)
//   - ModelInfo: Metadata about a selectable generation model
//
// # Usage
//
//	tr := model.NewTranscript()
//	tr.AddUserMessage("Hello!")
//	reply := tr.AddAIMessage()
//	tr.AppendToken(reply.ID, "Hi ")
//	tr.Finalize(reply.ID)
package model
