// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/openrouter"
)

func TestParseArgs_Commands(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"no args defaults to tui", nil, CmdTUI},
		{"explicit tui", []string{"tui"}, CmdTUI},
		{"ask", []string{"ask", "hello"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"auth", []string{"auth", "status"}, CmdAuth},
		{"key alias", []string{"key", "login"}, CmdAuth},
		{"config", []string{"config", "show"}, CmdConfig},
		{"models", []string{"models"}, CmdModels},
		{"status", []string{"status"}, CmdStatus},
		{"status alias", []string{"s"}, CmdStatus},
		{"version", []string{"version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, _ := ParseArgs(tc.argv)
			assert.Equal(t, tc.want, cmd)
		})
	}
}

func TestParseArgs_UnknownCommandBecomesQuestion(t *testing.T) {
	cmd, args := ParseArgs([]string{"what", "is", "a", "monad"})
	assert.Equal(t, CmdAsk, cmd)
	assert.Equal(t, "what is a monad", args.Query)
}

func TestParseArgs_GlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"--quiet", "--json", "--model", "deepseek/deepseek-chat", "status"})
	assert.Equal(t, CmdStatus, cmd)
	assert.True(t, args.Quiet)
	assert.True(t, args.JSON)
	assert.Equal(t, "deepseek/deepseek-chat", args.Model)
}

func TestParseArgs_ModelEqualsForm(t *testing.T) {
	_, args := ParseArgs([]string{"--model=foo/bar", "ask", "hi"})
	assert.Equal(t, "foo/bar", args.Model)
}

func TestParseArgs_AskQuery(t *testing.T) {
	_, args := ParseArgs([]string{"ask", "what", "is", "go"})
	assert.Equal(t, "what is go", args.Query)
}

func TestParseArgs_AskModelFlag(t *testing.T) {
	_, args := ParseArgs([]string{"ask", "-m", "other/model", "question"})
	assert.Equal(t, "other/model", args.Model)
	assert.Equal(t, "question", args.Query)
}

func TestParseArgs_ConfigSet(t *testing.T) {
	cmd, args := ParseArgs([]string{"config", "set", "chat.model", "deepseek/deepseek-chat"})
	assert.Equal(t, CmdConfig, cmd)
	assert.Equal(t, "set", args.Subcommand)
	assert.Equal(t, "chat.model", args.ConfigKey)
	assert.Equal(t, "deepseek/deepseek-chat", args.ConfigVal)
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", NewValidationError("key", "", "missing"), ExitUsageError},
		{"auth failed", openrouter.ErrAuthFailed, ExitAuthError},
		{"not configured", openrouter.ErrNotConfigured, ExitAuthError},
		{"unavailable", openrouter.ErrUnavailable, ExitNetworkError},
		{"rate limited", openrouter.ErrRateLimited, ExitNetworkError},
		{"config", NewCommandError("config", "set", "bad configuration", nil), ExitConfigError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetExitCode(tc.err))
		})
	}
}

func TestWrapText(t *testing.T) {
	out := WrapText("aaa bbb ccc ddd", 9)
	assert.Contains(t, out, "\n")

	// Existing newlines preserved
	out = WrapText("one\ntwo", 80)
	assert.Equal(t, "one\ntwo", out)
}

func TestHandleAskCommand_MissingQuery(t *testing.T) {
	err := HandleAskCommand(Args{})
	assert.Error(t, err)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}
