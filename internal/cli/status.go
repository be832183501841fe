// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Status command handler for the chatbuddy CLI.
//
// Shows a quick health summary: version, configured model, credential
// state and endpoint reachability.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/config"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/keystore"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/openrouter"
)

// StatusData is the machine-readable status summary.
type StatusData struct {
	Version       string `json:"version"`
	Model         string `json:"model"`
	BaseURL       string `json:"base_url"`
	KeyConfigured bool   `json:"key_configured"`
	KeySource     string `json:"key_source,omitempty"`
	Endpoint      string `json:"endpoint"` // "ok", "auth_failed", "unreachable", "skipped"
}

// HandleStatus shows the client status.
func HandleStatus(args Args) error {
	cfg := config.Global()

	data := StatusData{
		Version:  Version,
		Model:    cfg.Chat.Model,
		BaseURL:  cfg.Chat.BaseURL,
		Endpoint: "skipped",
	}

	store, err := keystore.NewStore()
	if err != nil {
		return WrapError(err, "failed to open credential store")
	}

	key, keyErr := store.Resolve()
	if keyErr == nil {
		data.KeyConfigured = true
		if keystore.FromEnv() != "" {
			data.KeySource = "environment"
		} else {
			data.KeySource = "file"
		}
	}

	if data.KeyConfigured {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client := openrouter.NewClient(key).WithBaseURL(cfg.Chat.BaseURL)
		switch err := client.VerifyKey(ctx); {
		case err == nil:
			data.Endpoint = "ok"
		case errors.Is(err, openrouter.ErrAuthFailed):
			data.Endpoint = "auth_failed"
		default:
			data.Endpoint = "unreachable"
		}
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	}

	fmt.Println(TitleStyle.Render("chatbuddy status"))
	fmt.Printf("%s %s\n", RenderLabel("Version:"), ValueStyle.Render(data.Version))
	fmt.Printf("%s %s\n", RenderLabel("Model:"), ValueStyle.Render(data.Model))
	fmt.Printf("%s %s\n", RenderLabel("Endpoint:"), ValueStyle.Render(data.BaseURL))

	if data.KeyConfigured {
		fmt.Printf("%s %s\n", RenderLabel("API key:"), RenderStatus("ok")+" "+DimStyle.Render("("+data.KeySource+")"))
	} else {
		fmt.Printf("%s %s\n", RenderLabel("API key:"), RenderStatus("fail")+" "+DimStyle.Render("run 'chatbuddy auth login'"))
	}

	switch data.Endpoint {
	case "ok":
		fmt.Printf("%s %s\n", RenderLabel("Connectivity:"), RenderStatus("ok"))
	case "auth_failed":
		fmt.Printf("%s %s\n", RenderLabel("Connectivity:"), RenderStatus("fail")+" "+DimStyle.Render("key rejected"))
	case "unreachable":
		fmt.Printf("%s %s\n", RenderLabel("Connectivity:"), RenderStatus("warn")+" "+DimStyle.Render("endpoint unreachable"))
	default:
		fmt.Printf("%s %s\n", RenderLabel("Connectivity:"), DimStyle.Render("not checked"))
	}

	return nil
}
