// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat command handler for the chatbuddy CLI.
//
// Handles "chatbuddy chat", a line-based REPL for terminals where the full
// TUI is unwanted (ssh sessions, plain pipes, scripts driving a pty).
//
// Interactive Commands (during chat):
//   /help, /h           Show available commands
//   /clear, /c          Clear conversation history
//   /export [json]      Export the transcript
//   /quit, /q           Exit chat
//   Ctrl+C              Abort current input line
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/peterh/liner"

	chatctl "github.com/Aiaugie/deepseek-chat-buddy-85/internal/chat"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/config"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/storage"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/ui/styles"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(styles.Cyan).
			Bold(true)

	welcomeStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)

	replInfoStyle = lipgloss.NewStyle().
			Foreground(styles.TextSecondary)

	buddyLabelStyle = lipgloss.NewStyle().
			Foreground(styles.Purple).
			Bold(true)
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	cli := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
	cli.LoadHistory()
	return cli
}

// LoadHistory loads input history from file.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// SaveHistory persists input history with secure permissions.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and closes the liner.
func (c *ChatCLI) Close() {
	c.SaveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChatCommand runs the interactive line-based chat session.
func HandleChatCommand(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	ctrl, err := BuildController(args)
	if err != nil {
		return err
	}

	repl := NewChatCLI()
	defer repl.Close()

	if !args.Quiet {
		printChatWelcome(ctrl)
	}

	for {
		input, err := repl.ReadInput(promptStyle.Render("you> "))
		if err != nil {
			if err == liner.ErrPromptAborted {
				// Ctrl+C on an input line just clears it
				continue
			}
			if err == io.EOF {
				fmt.Println()
				return nil
			}
			return WrapError(err, "failed to read input")
		}

		trimmed := strings.TrimSpace(input)
		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "/") {
			if quit := handleReplCommand(ctrl, trimmed); quit {
				return nil
			}
			continue
		}

		reply, err := ctrl.Submit(context.Background(), input)
		if err != nil {
			fmt.Println(ErrorStyle.Render(noticeFor(err)))
			continue
		}

		fmt.Println()
		fmt.Println(buddyLabelStyle.Render("buddy>"))
		displayResponse(reply.Content)
		fmt.Println()
	}
}

// printChatWelcome shows the session banner with the greeting.
func printChatWelcome(ctrl *chatctl.Controller) {
	cfg := config.Global()
	fmt.Println()
	fmt.Println(welcomeStyle.Render("chat buddy"))
	fmt.Println(replInfoStyle.Render("Model: " + cfg.Chat.Model))
	fmt.Println(replInfoStyle.Render("Type /help for commands, /quit to exit."))
	fmt.Println()
	if last := ctrl.Conversation().GetLastMessage(); last != nil {
		fmt.Println(buddyLabelStyle.Render("buddy>"), last.Content)
	}
	fmt.Println()
}

// handleReplCommand dispatches a slash command. Returns true to exit.
func handleReplCommand(ctrl *chatctl.Controller, input string) bool {
	fields := strings.Fields(input)

	switch fields[0] {
	case "/quit", "/q", "/exit":
		return true

	case "/clear", "/c":
		ctrl.Reset()
		fmt.Println(replInfoStyle.Render("Conversation cleared."))
		if last := ctrl.Conversation().GetLastMessage(); last != nil {
			fmt.Println(buddyLabelStyle.Render("buddy>"), last.Content)
		}

	case "/export":
		format := storage.FormatMarkdown
		if len(fields) > 1 && fields[1] == "json" {
			format = storage.FormatJSON
		}
		exp, err := storage.NewExporter()
		if err != nil {
			fmt.Println(ErrorStyle.Render("Export failed: " + err.Error()))
			return false
		}
		path, err := exp.Write(storage.FromConversation(ctrl.Conversation()), format)
		if err != nil {
			fmt.Println(ErrorStyle.Render("Export failed: " + err.Error()))
			return false
		}
		fmt.Println(SuccessStyle.Render("Saved transcript to " + path))

	case "/help", "/h":
		fmt.Println(replInfoStyle.Render(strings.TrimSpace(`
/clear          Reset the conversation
/export [json]  Save the transcript (Markdown by default)
/quit           Exit chat`)))

	default:
		fmt.Println(WarningStyle.Render("Unknown command: " + fields[0] + " (try /help)"))
	}

	return false
}
