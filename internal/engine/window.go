// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"time"

	"github.com/jeranaias/tokenwatch/internal/model"
)

// =============================================================================
// WINDOW AGGREGATION
// =============================================================================

// quantityFunc extracts the quantity to aggregate from a block. Token
// and cost aggregation share the same interpolation through it.
type quantityFunc func(model.UsageBlock) float64

// windowTotal sums each block's contribution to [winStart, winEnd),
// interpolating linearly: a block contributes its total quantity scaled
// by the fraction of its lifetime inside the window. Blocks with a
// non-positive lifetime contribute nothing.
func windowTotal(blocks []model.UsageBlock, now, winStart, winEnd time.Time, qty quantityFunc) float64 {
	var total float64
	for _, b := range blocks {
		start, end, ok := b.Overlap(now, winStart, winEnd)
		if !ok {
			continue
		}
		lifetime := b.LifetimeDuration(now)
		if lifetime <= 0 {
			continue
		}
		fraction := end.Sub(start).Seconds() / lifetime.Seconds()
		total += qty(b) * fraction
	}
	return total
}
