// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"sort"
	"time"

	"github.com/jeranaias/tokenwatch/internal/model"
)

// =============================================================================
// BURN RATES
// =============================================================================

// burnWindow is the trailing window burn rates are measured over.
const burnWindow = time.Hour

// TokenBurnRate returns the consumption velocity in tokens per minute
// over the trailing hour ending at now. Window contributions are
// normalized by the covered time, the union of block overlaps with the
// window, so a session only 30 minutes old reports its true velocity
// rather than one diluted over the full hour. Returns 0 when nothing
// overlaps the window.
func TokenBurnRate(blocks []model.UsageBlock, now time.Time) float64 {
	winStart := now.Add(-burnWindow)
	tokens := windowTotal(blocks, now, winStart, now, func(b model.UsageBlock) float64 {
		return float64(b.TotalTokens)
	})
	covered := coveredMinutes(blocks, now, winStart, now)
	if covered <= 0 {
		return 0
	}
	return tokens / covered
}

// CostBurnRate returns spend velocity in dollars per hour over the
// trailing hour. The window total is the rate; no normalization, the
// window is one hour. Blocks whose start is in the future are
// clock-skewed records and are excluded entirely.
func CostBurnRate(blocks []model.UsageBlock, now time.Time) float64 {
	winStart := now.Add(-burnWindow)
	var total float64
	for _, b := range blocks {
		if b.Start.After(now) {
			continue
		}
		start, end, ok := b.Overlap(now, winStart, now)
		if !ok {
			continue
		}
		lifetime := b.LifetimeDuration(now)
		if lifetime <= 0 {
			continue
		}
		total += b.CostUSD * (end.Sub(start).Seconds() / lifetime.Seconds())
	}
	return total
}

// coveredMinutes measures the union of block overlaps with the window
// in minutes. Concurrent blocks do not double-count the same wall time.
func coveredMinutes(blocks []model.UsageBlock, now, winStart, winEnd time.Time) float64 {
	type interval struct{ start, end time.Time }
	var spans []interval
	for _, b := range blocks {
		start, end, ok := b.Overlap(now, winStart, winEnd)
		if !ok {
			continue
		}
		spans = append(spans, interval{start, end})
	}
	if len(spans) == 0 {
		return 0
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start.Before(spans[j].start) })

	var total time.Duration
	cur := spans[0]
	for _, s := range spans[1:] {
		if !s.start.After(cur.end) {
			if s.end.After(cur.end) {
				cur.end = s.end
			}
			continue
		}
		total += cur.end.Sub(cur.start)
		cur = s
	}
	total += cur.end.Sub(cur.start)
	return total.Minutes()
}
