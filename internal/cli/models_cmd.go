// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// models_cmd.go - Model listing command for the chatbuddy CLI.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/config"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/util"
)

// HandleModels lists models available at the endpoint.
func HandleModels(args Args) error {
	client, err := BuildClient(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	models, err := client.ListModels(ctx)
	if err != nil {
		noticeToStderr(err, args.Quiet)
		return err
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(models)
	}

	configured := config.Global().Chat.Model

	fmt.Println(TitleStyle.Render("Available Models"))
	for _, m := range models {
		name := m.ID
		if m.Name != "" && m.Name != m.ID {
			// Column-aware so CJK model names line up
			name = fmt.Sprintf("%s (%s)", m.ID, util.TruncateWidth(m.Name, 40))
		}
		marker := "  "
		if m.ID == configured {
			marker = SuccessStyle.Render("* ")
		}
		fmt.Println(marker + ValueStyle.Render(name))
	}

	fmt.Println()
	fmt.Println(DimStyle.Render(fmt.Sprintf("%d models. * marks the configured model (%s).",
		len(models), configured)))
	if !strings.Contains(configured, "/") {
		fmt.Println(WarningStyle.Render("Configured model has no provider prefix; expected e.g. deepseek/deepseek-chat"))
	}
	return nil
}
