// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// # Architecture
//
// The view is a standard Bubble Tea model wrapped around a conversation
// controller. All completion work happens off the UI goroutine: submitting
// input returns a tea.Cmd whose result arrives back as a CompletionMsg or
// CompletionErrMsg. While a request is in flight the view is in
// StateWaiting, the input line is replaced by a spinner hint and further
// submissions are not dispatched.
//
// # Key Files
//
//   - model.go: Bubble Tea model, state transitions, key handling
//   - view.go: rendering (header, message bubbles, input area, status bar)
//   - commands.go: slash commands (/clear, /export, /help, /quit)
//   - messages.go: message types and async commands
//   - keys.go: keyboard bindings
package chat
