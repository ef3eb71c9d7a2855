// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements command-line parsing and the non-TUI command
// handlers for tokenwatch: status, setup, config, history and version.
// The live monitor itself lives in internal/ui/monitor and is launched
// from main.
package cli
