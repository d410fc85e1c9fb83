// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small text utilities shared across mingle-tui:
// rune-aware truncation, display-width padding, and sanitization of
// server-supplied text before it reaches the terminal.
package util
