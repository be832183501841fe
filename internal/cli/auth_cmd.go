// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - API key management for the chatbuddy CLI.
//
// Subcommands:
//   status     Show whether a key is configured (fingerprint only)
//   login      Store an API key, read with a hidden prompt
//   logout     Remove the stored key
//   validate   Check the key against the live endpoint
//
// The key itself is never printed or logged. Status output shows a
// SHA-256 fingerprint prefix so two keys can be told apart safely.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/keystore"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/openrouter"
)

// verifyTimeout bounds the live key check.
const verifyTimeout = 15 * time.Second

// HandleAuth dispatches auth subcommands.
func HandleAuth(args Args) error {
	switch args.Subcommand {
	case "", "status":
		return handleAuthStatus(args)
	case "login", "set":
		return handleAuthLogin(args)
	case "logout", "clear":
		return handleAuthLogout(args)
	case "validate", "verify":
		return handleAuthValidate(args)
	default:
		return NewValidationError("subcommand", args.Subcommand,
			"expected status, login, logout or validate")
	}
}

func handleAuthStatus(args Args) error {
	store, err := keystore.NewStore()
	if err != nil {
		return WrapError(err, "failed to open credential store")
	}

	fmt.Println(TitleStyle.Render("Credential Status"))

	if env := keystore.FromEnv(); env != "" {
		client := openrouter.NewClient(env)
		fmt.Printf("%s %s\n", RenderLabel("Source:"), ValueStyle.Render("environment ("+keystore.EnvKey+")"))
		fmt.Printf("%s %s\n", RenderLabel("Fingerprint:"), ValueStyle.Render(client.KeyFingerprint()))
		if !keystore.ValidateFormat(env) {
			fmt.Println(WarningStyle.Render("Warning: key does not look like an OpenRouter key (sk-or-v1-...)"))
		}
		return nil
	}

	key, err := store.Load()
	if err != nil {
		if errors.Is(err, keystore.ErrNoCredential) {
			fmt.Println(DimStyle.Render("No API key configured."))
			fmt.Println(InfoStyle.Render("Run 'chatbuddy auth login' or set " + keystore.EnvKey + "."))
			return nil
		}
		return err
	}

	client := openrouter.NewClient(key)
	fmt.Printf("%s %s\n", RenderLabel("Source:"), ValueStyle.Render("stored file"))
	fmt.Printf("%s %s\n", RenderLabel("Path:"), ValueStyle.Render(store.Path()))
	fmt.Printf("%s %s\n", RenderLabel("Fingerprint:"), ValueStyle.Render(client.KeyFingerprint()))
	return nil
}

func handleAuthLogin(args Args) error {
	if err := RequiresTTY("enter an API key"); err != nil {
		return err
	}

	store, err := keystore.NewStore()
	if err != nil {
		return WrapError(err, "failed to open credential store")
	}

	fmt.Println(TitleStyle.Render("API Key Login"))
	fmt.Println(DimStyle.Render("Get a key at https://openrouter.ai/keys"))
	fmt.Print("Enter API key (input hidden): ")

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return WrapError(err, "failed to read key")
	}

	key := strings.TrimSpace(string(raw))
	if key == "" {
		return NewValidationError("api key", "", "empty input")
	}
	if !keystore.ValidateFormat(key) {
		return NewValidationError("api key", "",
			"OpenRouter keys start with sk-or-v1-")
	}

	// Live check before storing, so a typo is caught immediately.
	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()
	client := openrouter.NewClient(key)
	if err := client.VerifyKey(ctx); err != nil {
		if errors.Is(err, openrouter.ErrAuthFailed) {
			return NewCommandError("auth", "login", "the endpoint rejected this key", err)
		}
		// Network trouble is not a bad key; store it but say so.
		fmt.Println(WarningStyle.Render("Could not reach the endpoint to verify; storing anyway."))
	}

	if err := store.Save(key); err != nil {
		return WrapError(err, "failed to store key")
	}

	fmt.Println(SuccessStyle.Render("Key stored."))
	fmt.Printf("%s %s\n", RenderLabel("Fingerprint:"), ValueStyle.Render(client.KeyFingerprint()))
	return nil
}

func handleAuthLogout(args Args) error {
	store, err := keystore.NewStore()
	if err != nil {
		return WrapError(err, "failed to open credential store")
	}
	if err := store.Clear(); err != nil {
		return WrapError(err, "failed to remove stored key")
	}
	fmt.Println(SuccessStyle.Render("Stored key removed."))
	if keystore.FromEnv() != "" {
		fmt.Println(WarningStyle.Render("Note: " + keystore.EnvKey + " is still set in the environment."))
	}
	return nil
}

func handleAuthValidate(args Args) error {
	store, err := keystore.NewStore()
	if err != nil {
		return WrapError(err, "failed to open credential store")
	}
	key, err := store.Resolve()
	if err != nil {
		return NewCommandError("auth", "validate", "no API key configured", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
	defer cancel()

	client := openrouter.NewClient(key)
	if err := client.VerifyKey(ctx); err != nil {
		if errors.Is(err, openrouter.ErrAuthFailed) {
			fmt.Println(RenderStatus("fail"), "The endpoint rejected this key.")
			return err
		}
		fmt.Println(RenderStatus("warn"), "Could not reach the endpoint:", err.Error())
		return err
	}

	fmt.Println(RenderStatus("ok"), "Key accepted by the endpoint.")
	fmt.Printf("%s %s\n", RenderLabel("Fingerprint:"), ValueStyle.Render(client.KeyFingerprint()))
	return nil
}
