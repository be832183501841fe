// chatbuddy - a terminal chat client for DeepSeek via OpenRouter.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/cli"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/config"
	uichat "github.com/Aiaugie/deepseek-chat-buddy-85/internal/ui/chat"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	loadConfig(args)

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdAuth:
		exitOnError(cli.HandleAuth(args))
	case cli.CmdConfig:
		exitOnError(cli.HandleConfig(args))
	case cli.CmdModels:
		exitOnError(cli.HandleModels(args))
	case cli.CmdStatus:
		exitOnError(cli.HandleStatus(args))
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		cli.HandleHelp()
		os.Exit(cli.ExitUsageError)
	}
}

// loadConfig loads the config file into the global slot. A broken config
// file falls back to defaults with a warning rather than refusing to start.
func loadConfig(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		if !args.Quiet {
			fmt.Fprintf(os.Stderr, "Warning: %v; using defaults\n", err)
		}
		cfg = config.Default()
	}
	cfg.ApplyEnvOverrides()
	config.SetGlobal(cfg)
}

func runTUI(args cli.Args) {
	ctrl, err := cli.BuildController(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}

	theme := styles.NewTheme()
	model := uichat.New(theme, ctrl)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
