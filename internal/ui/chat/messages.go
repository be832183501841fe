// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the Bubble Tea messages exchanged between the view and
// the asynchronous completion commands.
package chat

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/model"
)

// =============================================================================
// COMPLETION MESSAGES
// =============================================================================

// CompletionMsg is delivered when a completion request finishes successfully.
type CompletionMsg struct {
	Reply *model.Message
}

// CompletionErrMsg is delivered when a completion request fails or is
// rejected before dispatch.
type CompletionErrMsg struct {
	Err error
}

// =============================================================================
// COMMAND MESSAGES
// =============================================================================

// ExportDoneMsg is delivered when a transcript export finishes.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// submitCmd dispatches raw input to the controller off the UI goroutine.
// The controller applies the input guard, appends to the conversation and
// performs the HTTP request; the command reports the outcome as a message.
func (m Model) submitCmd(raw string) tea.Cmd {
	ctrl := m.controller
	ctx := m.requestCtx
	return func() tea.Msg {
		reply, err := ctrl.Submit(ctx, raw)
		if err != nil {
			return CompletionErrMsg{Err: err}
		}
		return CompletionMsg{Reply: reply}
	}
}
