// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the chat-buddy TUI.
//
// # Key Types
//
//   - Theme: all Lip Gloss styles used by the chat view, built once at startup
//   - AdaptiveColor variables: palette that adjusts to light/dark terminals
//
// # Usage
//
//	theme := styles.NewTheme()
//	header := theme.Header.Render("chat buddy")
//
// Status helpers (RenderSuccess, RenderError, RenderWarning, RenderInfo)
// pair a color with an ASCII shape indicator so state is readable without
// color perception.
package styles
