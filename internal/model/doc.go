// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model defines the usage block data model shared by the
// aggregation engine, the block provider, and the UI.
//
// A UsageBlock is one accounting interval for metered usage (tokens and
// cost) as reported by the upstream metering tool. Blocks may be
// completed (ActualEnd set), active (still accruing, effective end is
// the evaluation time), or synthetic gaps that mark absence of usage.
//
// # Key Types
//
//   - UsageBlock: One accounting interval with token and cost totals
//   - TokenCounts: Per-type token breakdown for an active session
//   - BlocksPayload: Top-level JSON document from the metering tool
//
// # Usage
//
// Resolve a block's end and its overlap with a trailing window:
//
//	end := block.EffectiveEnd(now)
//	s, e, ok := block.Overlap(now, now.Add(-time.Hour), now)
package model
