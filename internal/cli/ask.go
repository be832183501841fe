// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command handler for the chatbuddy CLI.
//
// Handles "chatbuddy ask" which sends one question through the full
// sanitize/validate/submit pipeline and prints the reply.
//
// Examples:
//   chatbuddy ask "What is the capital of France?"
//   chatbuddy ask --model deepseek/deepseek-chat "Explain goroutines"
//   chatbuddy ask --json "List three sorting algorithms"
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer is the glamour renderer for markdown output.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display.
// Returns the original content if rendering fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// displayResponse prints a response, with markdown rendering only when
// stdout is a TTY so piped output stays clean.
func displayResponse(response string) {
	if IsStdoutTTY() {
		fmt.Print(renderMarkdown(response))
	} else {
		fmt.Println(response)
	}
}

// =============================================================================
// ASK COMMAND
// =============================================================================

// HandleAskCommand runs a single question through the controller.
func HandleAskCommand(args Args) error {
	if args.Query == "" {
		return ErrMissingArgument("question", `chatbuddy ask "What is a goroutine?"`)
	}

	ctrl, err := BuildController(args)
	if err != nil {
		return err
	}

	reply, err := ctrl.Submit(context.Background(), args.Query)
	if err != nil {
		// The notice is friendlier than the raw error chain.
		noticeToStderr(err, args.Quiet)
		return err
	}

	if args.JSON {
		out := map[string]string{
			"question": args.Query,
			"answer":   reply.Content,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	displayResponse(reply.Content)
	return nil
}

// noticeToStderr prints the human-readable notice for an error. Returns
// true when a notice was printed.
func noticeToStderr(err error, quiet bool) bool {
	if quiet || err == nil {
		return false
	}
	notice := noticeFor(err)
	if notice == "" {
		return false
	}
	fmt.Fprintln(os.Stderr, ErrorStyle.Render(notice))
	return true
}
