// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains all rendering logic for the chat interface:
//   - Main view rendering (renderChat)
//   - Message rendering with markdown for assistant replies
//   - UI chrome (header, input area, status bar, help overlay)
package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/model"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/util"
)

// =============================================================================
// MAIN RENDER
// =============================================================================

// renderChat renders the complete chat view.
// Layout: header + messages (viewport) + input area + status bar.
// The viewport height is pre-calculated in handleResize with conservative
// constants; this function measures actual heights and clamps on mismatch.
func (m Model) renderChat() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelpOverlay()
	}

	header := m.renderHeader()
	input := m.renderInput()
	status := m.renderStatusBar()

	availableHeight := m.height - lipgloss.Height(header) - lipgloss.Height(input) - lipgloss.Height(status)
	if availableHeight < 1 {
		availableHeight = 1
	}

	messages := m.viewport.View()
	if lipgloss.Height(messages) != availableHeight {
		messages = lipgloss.NewStyle().
			Height(availableHeight).
			MaxHeight(availableHeight).
			Width(m.width).
			Render(messages)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		messages,
		input,
		status,
	)
}

// =============================================================================
// HEADER
// =============================================================================

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("chat buddy")
	subtitle := ""
	if t := m.controller.Title(); t != "" && t != "New Conversation" {
		maxCols := m.width - 20
		if maxCols < 20 {
			maxCols = 20
		}
		subtitle = "  " + m.theme.HeaderSubtitle.Render(util.TruncateWidth(t, maxCols))
	}
	return m.theme.Header.Width(m.width).Render(title + subtitle)
}

// =============================================================================
// MESSAGES
// =============================================================================

// renderMessages renders the full conversation for the viewport.
// Reads a locked copy of the history; the live conversation is mutated
// by the submit goroutine while a request is in flight.
func (m Model) renderMessages() string {
	var sb strings.Builder

	for _, msg := range m.controller.Messages() {
		sb.WriteString(m.renderMessage(msg))
		sb.WriteString("\n")
	}

	if m.state == StateWaiting {
		thinking := "Buddy is thinking..."
		if elapsed := time.Since(m.waitingSince); elapsed >= 3*time.Second {
			thinking = fmt.Sprintf("Buddy is thinking... (%ds)", int(elapsed.Seconds()))
		}
		sb.WriteString("\n")
		sb.WriteString(m.spinner.View())
		sb.WriteString(" ")
		sb.WriteString(m.theme.ThinkingText.Render(thinking))
		sb.WriteString("\n")
	}

	return sb.String()
}

// renderMessage renders a single message as a labeled bubble.
func (m Model) renderMessage(msg *model.Message) string {
	label := m.theme.RoleLabel.Render(msg.Role.DisplayName()) +
		" " + m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))

	bubbleWidth := m.width - 8
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	switch msg.Role {
	case model.RoleUser:
		body := m.theme.UserBubble.MaxWidth(bubbleWidth).Render(msg.Content)
		return label + "\n" + body + "\n"
	default:
		body := msg.Content
		if m.renderer != nil {
			if rendered, err := m.renderer.Render(msg.Content); err == nil {
				body = strings.TrimRight(rendered, "\n")
			}
		}
		body = m.theme.AssistantBubble.MaxWidth(bubbleWidth).Render(body)
		return label + "\n" + body + "\n"
	}
}

// =============================================================================
// INPUT AREA
// =============================================================================

func (m Model) renderInput() string {
	var statusLine string
	switch {
	case m.notice != "" && m.noticeIsInfo:
		statusLine = m.theme.NoticeInfo.Render(m.notice)
	case m.notice != "":
		statusLine = m.theme.Notice.Render(m.notice)
	default:
		statusLine = m.renderCharCount()
	}

	inputLine := m.input.View()
	if m.state == StateWaiting {
		inputLine = m.theme.ThinkingText.Render("Waiting for reply... (Esc to cancel)")
	}

	return m.theme.InputContainer.Width(m.width - 2).Render(
		inputLine + "\n" + statusLine,
	)
}

// renderCharCount shows remaining input length, amber near the limit and
// rose past it.
func (m Model) renderCharCount() string {
	maxLen := m.controller.MaxInputLen()
	used := util.RuneLen(m.input.Value())
	text := fmt.Sprintf("%d/%d", used, maxLen)

	switch {
	case used > maxLen:
		return m.theme.CharCountDanger.Render(text)
	case used > maxLen*8/10:
		return m.theme.CharCountWarning.Render(text)
	default:
		return m.theme.CharCount.Render(text)
	}
}

// =============================================================================
// STATUS BAR
// =============================================================================

func (m Model) renderStatusBar() string {
	var parts []string
	for _, b := range m.keyMap.ShortHelp() {
		parts = append(parts,
			m.theme.ShortcutKey.Render(b.Help().Key)+" "+m.theme.ShortcutDesc.Render(b.Help().Desc))
	}
	return m.theme.StatusBar.Width(m.width).Render(strings.Join(parts, "  "))
}

// =============================================================================
// HELP OVERLAY
// =============================================================================

func (m Model) renderHelpOverlay() string {
	var sb strings.Builder
	sb.WriteString(m.theme.HeaderTitle.Render("Keyboard shortcuts"))
	sb.WriteString("\n\n")

	for _, group := range m.keyMap.FullHelp() {
		for _, b := range group {
			sb.WriteString(fmt.Sprintf("  %-14s %s\n",
				m.theme.ShortcutKey.Render(b.Help().Key),
				m.theme.ShortcutDesc.Render(b.Help().Desc)))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Slash commands: /clear  /export [json]  /help  /quit\n")
	sb.WriteString("\nPress Esc to close this help.")

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, sb.String())
}
