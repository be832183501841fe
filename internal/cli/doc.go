// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the command-line interface for chatbuddy.
//
// # Commands
//
//   - tui (default): full-screen Bubble Tea interface
//   - ask: one-shot question through the full input pipeline
//   - chat: line-based REPL with history
//   - auth: API key management (status/login/logout/validate)
//   - config: configuration management (show/get/set/path/keys)
//   - models: list models at the endpoint
//   - status: health summary
//
// # Conventions
//
// Handlers return errors; the dispatcher in main maps them to exit codes
// via GetExitCode. Colored output is TTY-aware and respects NO_COLOR.
package cli
