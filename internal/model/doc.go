// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// # Key Types
//
//   - Conversation: ordered, append-only chat history, never empty
//   - Message: immutable message with ID, role, content, and timestamp
//
// # Usage
//
// Create a new conversation (it starts with the assistant greeting):
//
//	conv := model.NewConversation()
//	conv.AddUserMessage("Hello!")
//	wire := conv.ToChatMessages()
package model
