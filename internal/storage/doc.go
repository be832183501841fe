// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides explicit transcript export for chat-buddy.
//
// # Key Types
//
//   - Transcript: point-in-time snapshot of a conversation
//   - Exporter: writes transcripts as Markdown or JSON files
//
// # Usage
//
// Export the current conversation:
//
//	tr := storage.FromConversation(conv)
//	exp, _ := storage.NewExporter()
//	path, err := exp.Write(tr, storage.FormatMarkdown)
//
// # Storage Location
//
// Export files are written to ~/.chatbuddy/exports/. Conversations are
// never persisted automatically.
package storage
