// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import "github.com/jeranaias/tokenwatch/internal/model"

// =============================================================================
// BUDGET RESOLVER
// =============================================================================

// Plan selects the token ceiling for a session.
type Plan string

const (
	PlanPro       Plan = "pro"
	PlanMax5      Plan = "max5"
	PlanMax20     Plan = "max20"
	PlanCustomMax Plan = "custom_max"
)

// Fixed ceilings per plan. PlanCustomMax derives its ceiling from
// observed history instead.
const (
	CeilingPro   = 7000
	CeilingMax5  = 35000
	CeilingMax20 = 140000
)

// ValidPlan reports whether p names a known plan.
func ValidPlan(p Plan) bool {
	switch p {
	case PlanPro, PlanMax5, PlanMax20, PlanCustomMax:
		return true
	}
	return false
}

// Budget is the resolved token ceiling for the current session.
// Upgraded is set when a pro plan was re-resolved against observed
// history because usage exceeded the fixed pro ceiling. The ceiling
// never decreases within a session: callers pass the previous Budget
// back in so the ratchet holds across evaluations.
type Budget struct {
	Ceiling  int
	Upgraded bool
}

// ResolveCeiling returns the fixed ceiling for p, or the historical
// maximum of completed block totals for PlanCustomMax. With no
// completed non-gap blocks the custom ceiling falls back to the pro
// value.
func ResolveCeiling(p Plan, blocks []model.UsageBlock) int {
	switch p {
	case PlanPro:
		return CeilingPro
	case PlanMax5:
		return CeilingMax5
	case PlanMax20:
		return CeilingMax20
	}

	max := 0
	for _, b := range blocks {
		if b.IsGap || b.IsActive || b.Malformed() {
			continue
		}
		if b.TotalTokens > max {
			max = b.TotalTokens
		}
	}
	if max == 0 {
		return CeilingPro
	}
	return max
}

// ResolveBudget applies the auto-upgrade ratchet on top of
// ResolveCeiling. When plan is pro and used exceeds the pro ceiling,
// the budget is re-resolved in custom-max mode and marked Upgraded.
// prev carries the ratchet state from the previous evaluation; a zero
// Budget is a valid initial value.
func ResolveBudget(p Plan, blocks []model.UsageBlock, used int, prev Budget) Budget {
	b := Budget{Ceiling: ResolveCeiling(p, blocks), Upgraded: prev.Upgraded}

	if p == PlanPro && (used > CeilingPro || prev.Upgraded) {
		b.Ceiling = ResolveCeiling(PlanCustomMax, blocks)
		b.Upgraded = true
	}

	if b.Ceiling < prev.Ceiling {
		b.Ceiling = prev.Ceiling
	}
	return b
}
