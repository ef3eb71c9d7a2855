// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"time"

	"github.com/jeranaias/tokenwatch/internal/model"
)

// =============================================================================
// DAILY COST
// =============================================================================

// DailyCost sums the full cost of every non-gap block that touches
// now's civil day in loc. A block is counted once when either its start
// or its effective end falls on that day; cost is never split across
// midnight.
func DailyCost(blocks []model.UsageBlock, now time.Time, loc *time.Location) float64 {
	y, m, d := now.In(loc).Date()
	var total float64
	for _, b := range blocks {
		if b.IsGap || b.Malformed() {
			continue
		}
		sy, sm, sd := b.Start.In(loc).Date()
		ey, em, ed := b.EffectiveEnd(now).In(loc).Date()
		if (sy == y && sm == m && sd == d) || (ey == y && em == m && ed == d) {
			total += b.CostUSD
		}
	}
	return total
}
