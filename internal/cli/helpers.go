// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared construction helpers for chatbuddy CLI commands.
package cli

import (
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/chat"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/config"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/guard"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/keystore"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/openrouter"
)

// BuildClient assembles the completion client from config and the resolved
// credential. A missing credential yields an unconfigured client; commands
// that need one surface that through the controller or VerifyKey.
func BuildClient(args Args) (*openrouter.Client, error) {
	cfg := config.Global()

	store, err := keystore.NewStore()
	if err != nil {
		return nil, WrapError(err, "failed to open credential store")
	}
	key, err := store.Resolve()
	if err != nil {
		key = ""
	}

	client := openrouter.NewClient(key).
		WithBaseURL(cfg.Chat.BaseURL).
		WithTimeout(cfg.Chat.Timeout()).
		WithTemperature(cfg.Chat.Temperature).
		WithMaxTokens(cfg.Chat.MaxTokens)

	if args.Model != "" {
		client.SetModel(args.Model)
	} else {
		client.SetModel(cfg.Chat.Model)
	}

	return client, nil
}

// noticeFor maps controller and client errors to the user-facing notice.
func noticeFor(err error) string {
	return chat.NoticeFor(err)
}

// BuildController assembles the conversation controller with the configured
// guard limits.
func BuildController(args Args) (*chat.Controller, error) {
	client, err := BuildClient(args)
	if err != nil {
		return nil, err
	}

	cfg := config.Global()
	g := guard.New(cfg.Guard.MaxInputLen, cfg.Guard.MinInterval())

	return chat.NewController(client, g), nil
}
