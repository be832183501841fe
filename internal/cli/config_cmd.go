// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Configuration command handlers for the chatbuddy CLI.
//
// Subcommands:
//   show         Show current configuration
//   get KEY      Get a value by dot notation (chat.model, guard.max_input_len)
//   set KEY VAL  Set a value and save
//   path         Show config file location
//   keys         List all configuration keys
package cli

import (
	"fmt"

	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/config"
)

// HandleConfig dispatches config subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args)
	case "get":
		return handleConfigGet(args)
	case "set":
		return handleConfigSet(args)
	case "path":
		return handleConfigPath(args)
	case "keys", "list":
		return handleConfigKeys(args)
	default:
		return NewValidationError("subcommand", args.Subcommand,
			"expected show, get, set, path or keys")
	}
}

func handleConfigShow(args Args) error {
	cfg := config.Global()

	fmt.Println(TitleStyle.Render("Configuration"))

	fmt.Printf("%s %s\n", RenderLabel("Model:"), ValueStyle.Render(cfg.Chat.Model))
	fmt.Printf("%s %s\n", RenderLabel("Base URL:"), ValueStyle.Render(cfg.Chat.BaseURL))
	fmt.Printf("%s %s\n", RenderLabel("Temperature:"), ValueStyle.Render(fmt.Sprintf("%.2f", cfg.Chat.Temperature)))
	fmt.Printf("%s %s\n", RenderLabel("Max tokens:"), ValueStyle.Render(fmt.Sprintf("%d", cfg.Chat.MaxTokens)))
	fmt.Printf("%s %s\n", RenderLabel("Timeout:"), ValueStyle.Render(cfg.Chat.Timeout().String()))
	fmt.Println(RenderSeparator(40))
	fmt.Printf("%s %s\n", RenderLabel("Max input:"), ValueStyle.Render(fmt.Sprintf("%d runes", cfg.Guard.MaxInputLen)))
	fmt.Printf("%s %s\n", RenderLabel("Min interval:"), ValueStyle.Render(cfg.Guard.MinInterval().String()))
	fmt.Println()
	fmt.Printf("%s %s\n", RenderLabel("Theme:"), ValueStyle.Render(cfg.UI.Theme))

	path, err := config.ConfigPath()
	if err == nil {
		fmt.Println()
		fmt.Println(DimStyle.Render("File: " + path))
	}
	return nil
}

func handleConfigGet(args Args) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "chatbuddy config get chat.model")
	}

	cfg := config.Global()
	value, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return NewCommandError("config", "get", "unknown key "+args.ConfigKey, err)
	}

	fmt.Printf("%v\n", value)
	return nil
}

func handleConfigSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key and value", "chatbuddy config set chat.model deepseek/deepseek-chat")
	}

	cfg := config.Global()
	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return NewCommandError("config", "set", "failed to set "+args.ConfigKey, err)
	}

	if err := cfg.Validate(); err != nil {
		return NewCommandError("config", "set", "resulting configuration is invalid", err)
	}

	if err := config.Save(cfg); err != nil {
		return WrapError(err, "failed to save configuration")
	}

	fmt.Println(SuccessStyle.Render("Set " + args.ConfigKey + " = " + args.ConfigVal))
	return nil
}

func handleConfigPath(args Args) error {
	path, err := config.ConfigPath()
	if err != nil {
		return WrapError(err, "failed to resolve config path")
	}
	fmt.Println(path)
	return nil
}

func handleConfigKeys(args Args) error {
	fmt.Println(TitleStyle.Render("Configuration Keys"))
	for _, key := range config.GetAllKeys() {
		fmt.Println("  " + ValueStyle.Render(key))
	}
	return nil
}
