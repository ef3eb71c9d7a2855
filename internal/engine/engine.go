// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"time"

	"github.com/jeranaias/tokenwatch/internal/model"
)

// =============================================================================
// EVALUATION
// =============================================================================

// EvaluationContext carries everything one evaluation pass needs. The
// engine reads it and the block slice; it owns no clock and no config.
type EvaluationContext struct {
	Now      time.Time
	Timezone string
	Plan     Plan

	// CustomResetHour replaces the default reset schedule when >= 0.
	CustomResetHour int

	// PrevBudget carries the auto-upgrade ratchet between evaluations.
	PrevBudget Budget
}

// Metrics is the result of one evaluation pass over a block set.
type Metrics struct {
	// Velocity over the trailing hour.
	TokenBurnRate float64 `json:"token_burn_rate"`
	CostBurnRate  float64 `json:"cost_burn_rate"`

	// Cost accumulated on today's civil day in the target timezone.
	DailyCost float64 `json:"daily_cost"`

	// Resolved budget and usage against it.
	TokensUsed   int  `json:"tokens_used"`
	TokenCeiling int  `json:"token_ceiling"`
	Upgraded     bool `json:"upgraded"`

	// Scheduling and prediction.
	NextReset              time.Time `json:"next_reset"`
	PredictedDepletion     time.Time `json:"predicted_depletion"`
	WillExhaustBeforeReset bool      `json:"will_exhaust_before_reset"`

	// Active session details; zero values when no session is running.
	SessionActive    bool      `json:"session_active"`
	SessionStart     time.Time `json:"session_start,omitempty"`
	SessionCostUSD   float64   `json:"session_cost_usd"`
	SessionElapsed   float64   `json:"session_elapsed_min"`
	SessionRemaining float64   `json:"session_remaining_min"`
	Model            string    `json:"model,omitempty"`

	// Non-fatal conditions observed during evaluation, such as a
	// timezone fallback.
	Warnings []string `json:"warnings,omitempty"`
}

// UsagePercent returns used tokens as a percentage of the ceiling,
// clamped to [0, 100].
func (m Metrics) UsagePercent() float64 {
	if m.TokenCeiling <= 0 {
		return 0
	}
	p := float64(m.TokensUsed) / float64(m.TokenCeiling) * 100
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// TokensRemaining returns the unconsumed budget, never negative.
func (m Metrics) TokensRemaining() int {
	r := m.TokenCeiling - m.TokensUsed
	if r < 0 {
		return 0
	}
	return r
}

// Evaluate runs one full aggregation pass: burn rates, daily cost,
// budget resolution with the upgrade ratchet, the next reset, and the
// depletion prediction. Blocks are read-only; malformed entries are
// skipped by the per-block helpers.
func Evaluate(blocks []model.UsageBlock, ctx EvaluationContext) Metrics {
	now := ctx.Now
	loc, warn := LoadLocation(ctx.Timezone)

	m := Metrics{
		TokenBurnRate: TokenBurnRate(blocks, now),
		CostBurnRate:  CostBurnRate(blocks, now),
		DailyCost:     DailyCost(blocks, now, loc),
		NextReset:     NextReset(now, loc, ctx.CustomResetHour),
	}
	if warn != "" {
		m.Warnings = append(m.Warnings, warn)
	}

	if active, ok := model.ActiveBlock(blocks); ok {
		m.SessionActive = true
		m.SessionStart = active.Start
		m.TokensUsed = active.TotalTokens
		m.SessionCostUSD = active.CostUSD
		m.Model = active.DisplayModel()
		m.SessionElapsed = now.Sub(active.Start).Minutes()
		if m.SessionElapsed < 0 {
			m.SessionElapsed = 0
		}
		m.SessionRemaining = model.SessionWindow.Minutes() - m.SessionElapsed
		if m.SessionRemaining < 0 {
			m.SessionRemaining = 0
		}
	}

	budget := ResolveBudget(ctx.Plan, blocks, m.TokensUsed, ctx.PrevBudget)
	m.TokenCeiling = budget.Ceiling
	m.Upgraded = budget.Upgraded

	m.PredictedDepletion = PredictDepletion(now, m.TokensRemaining(), m.TokenBurnRate, m.NextReset)
	m.WillExhaustBeforeReset = m.PredictedDepletion.Before(m.NextReset)

	return m
}

// =============================================================================
// VELOCITY CLASSIFICATION
// =============================================================================

// Velocity labels a token burn rate for display.
type Velocity int

const (
	VelocitySlow Velocity = iota
	VelocityNormal
	VelocityFast
	VelocityVeryFast
)

// ClassifyVelocity buckets a burn rate in tokens per minute.
func ClassifyVelocity(ratePerMin float64) Velocity {
	switch {
	case ratePerMin < 50:
		return VelocitySlow
	case ratePerMin < 150:
		return VelocityNormal
	case ratePerMin < 300:
		return VelocityFast
	default:
		return VelocityVeryFast
	}
}

// String returns the display label for v.
func (v Velocity) String() string {
	switch v {
	case VelocitySlow:
		return "slow"
	case VelocityNormal:
		return "normal"
	case VelocityFast:
		return "fast"
	default:
		return "very fast"
	}
}
