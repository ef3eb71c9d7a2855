// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// =============================================================================
// USAGE BLOCK
// =============================================================================

// SyntheticModelMarker is the sentinel the metering tool inserts for
// internally generated entries. It is filtered out when picking a
// display model.
const SyntheticModelMarker = "<synthetic>"

// SessionWindow is the nominal length of one accounting block.
const SessionWindow = 5 * time.Hour

// TokenCounts breaks total tokens down by token type.
type TokenCounts struct {
	InputTokens              int `json:"inputTokens"`
	OutputTokens             int `json:"outputTokens"`
	CacheCreationInputTokens int `json:"cacheCreationInputTokens"`
	CacheReadInputTokens     int `json:"cacheReadInputTokens"`
}

// Total returns the sum across all token types.
func (tc TokenCounts) Total() int {
	return tc.InputTokens + tc.OutputTokens + tc.CacheCreationInputTokens + tc.CacheReadInputTokens
}

// UsageBlock is one accounting interval for the metered resource.
//
// Start is required; a block with a zero Start is malformed and must be
// skipped by all aggregation (never aborts a pass). ActualEnd is only
// present for completed blocks. An active block has no stored end - its
// effective end is the evaluation time.
type UsageBlock struct {
	ID          string      `json:"id,omitempty"`
	Start       time.Time   `json:"startTime"`
	End         time.Time   `json:"endTime,omitempty"`
	ActualEnd   *time.Time  `json:"actualEndTime,omitempty"`
	IsActive    bool        `json:"isActive"`
	IsGap       bool        `json:"isGap"`
	TotalTokens int         `json:"totalTokens"`
	CostUSD     float64     `json:"costUSD"`
	Models      []string    `json:"models,omitempty"`
	TokenCounts TokenCounts `json:"tokenCounts,omitempty"`
	ProjectPath string      `json:"projectPath,omitempty"`
}

// BlocksPayload is the top-level JSON document produced by the metering
// tool's blocks command.
type BlocksPayload struct {
	Blocks []UsageBlock `json:"blocks"`
}

// =============================================================================
// INTERVAL ARITHMETIC
// =============================================================================

// Malformed reports whether the block is missing its required start
// timestamp. Malformed blocks are skipped, not fatal.
func (b UsageBlock) Malformed() bool {
	return b.Start.IsZero()
}

// EffectiveEnd resolves the block's end for evaluation at now: active
// blocks are still accruing so their end is now; completed blocks use
// ActualEnd when present, falling back to now.
func (b UsageBlock) EffectiveEnd(now time.Time) time.Time {
	if b.IsActive {
		return now
	}
	if b.ActualEnd != nil {
		return *b.ActualEnd
	}
	return now
}

// LifetimeDuration returns the elapsed lifetime of the block at now.
// Degenerate blocks (effective end before start) report zero.
func (b UsageBlock) LifetimeDuration(now time.Time) time.Duration {
	d := b.EffectiveEnd(now).Sub(b.Start)
	if d < 0 {
		return 0
	}
	return d
}

// Overlap returns the sub-interval of the block that falls inside
// [winStart, winEnd), or ok=false when the overlap is empty. Gap and
// malformed blocks never overlap anything. A block that ended before
// the window short-circuits without further computation.
func (b UsageBlock) Overlap(now, winStart, winEnd time.Time) (start, end time.Time, ok bool) {
	if b.IsGap || b.Malformed() {
		return time.Time{}, time.Time{}, false
	}

	effEnd := b.EffectiveEnd(now)
	if effEnd.Before(winStart) {
		return time.Time{}, time.Time{}, false
	}

	start = b.Start
	if winStart.After(start) {
		start = winStart
	}
	end = effEnd
	if winEnd.Before(end) {
		end = winEnd
	}

	if !end.After(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// =============================================================================
// DISPLAY HELPERS
// =============================================================================

// DisplayModel returns the first non-synthetic model identifier in the
// block, shortened for display, or "unknown" when none exists.
func (b UsageBlock) DisplayModel() string {
	for _, m := range b.Models {
		if strings.Contains(m, SyntheticModelMarker) {
			continue
		}
		return ShortenModelName(m)
	}
	return "unknown"
}

// ShortenModelName maps a full model identifier to a compact label.
func ShortenModelName(name string) string {
	switch {
	case strings.Contains(name, "opus-4"):
		return "Opus 4"
	case strings.Contains(name, "sonnet"):
		return "Sonnet"
	case strings.Contains(name, "haiku"):
		return "Haiku"
	}
	if idx := strings.Index(name, "-"); idx >= 0 && idx+1 < len(name) {
		rest := name[idx+1:]
		if end := strings.Index(rest, "-"); end > 0 {
			return rest[:end]
		}
		return rest
	}
	return name
}

// ActiveBlock returns the first active, non-gap block in blocks, or
// ok=false when no session is currently running.
func ActiveBlock(blocks []UsageBlock) (UsageBlock, bool) {
	for _, b := range blocks {
		if b.IsActive && !b.IsGap && !b.Malformed() {
			return b, true
		}
	}
	return UsageBlock{}, false
}
