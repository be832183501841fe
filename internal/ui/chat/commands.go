// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file implements the slash commands available at the input prompt.
package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/storage"
)

// handleCommand dispatches a slash command typed at the prompt.
func (m Model) handleCommand(input string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(input)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "/clear", "/new":
		m.controller.Reset()
		m.notice = ""
		m.updateViewport()
		return m, nil

	case "/export":
		format := storage.FormatMarkdown
		if len(args) > 0 && args[0] == "json" {
			format = storage.FormatJSON
		}
		return m, m.exportCmd(format)

	case "/help":
		m.showHelp = true
		return m, nil

	case "/quit", "/exit":
		return m, tea.Quit

	default:
		m.notice = "Unknown command: " + cmd + " (try /help)"
		m.noticeIsInfo = false
		return m, nil
	}
}

// exportCmd writes the current conversation to the export directory.
// Snapshots under lock so an in-flight reply cannot race the export.
func (m Model) exportCmd(format storage.Format) tea.Cmd {
	tr := storage.FromConversation(m.controller.Snapshot())
	return func() tea.Msg {
		exp, err := storage.NewExporter()
		if err != nil {
			return ExportDoneMsg{Err: err}
		}
		path, err := exp.Write(tr, format)
		return ExportDoneMsg{Path: path, Err: err}
	}
}
