// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the reusable view components of the
// tokenwatch monitor: the token usage gauge, the reset countdown bar,
// the metrics panel, and the burn-rate sparkline strip. Components are
// pure renderers; they take values and return strings, leaving all
// state to the bubbletea model.
package components
