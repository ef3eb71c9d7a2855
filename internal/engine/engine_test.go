// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"reflect"
	"testing"
	"time"

	"github.com/jeranaias/tokenwatch/internal/model"
)

func TestEvaluateWorkedScenario(t *testing.T) {
	// One active block, 3000 tokens over its first 30 minutes. The
	// burn rate must come out at 100 tokens/min and a 7000 ceiling
	// depletes 40 minutes from now.
	now := mustUTC(t, "2025-06-01T10:00:00Z")
	blocks := []model.UsageBlock{
		{
			Start:       now.Add(-30 * time.Minute),
			IsActive:    true,
			TotalTokens: 3000,
			CostUSD:     0.90,
			Models:      []string{"<synthetic>", "claude-opus-4-20250514"},
		},
	}

	m := Evaluate(blocks, EvaluationContext{
		Now:             now,
		Timezone:        "UTC",
		Plan:            PlanPro,
		CustomResetHour: -1,
	})

	if !approxEqual(m.TokenBurnRate, 100) {
		t.Errorf("TokenBurnRate: got %v, want 100", m.TokenBurnRate)
	}
	if m.TokensUsed != 3000 {
		t.Errorf("TokensUsed: got %d, want 3000", m.TokensUsed)
	}
	if m.TokenCeiling != 7000 {
		t.Errorf("TokenCeiling: got %d, want 7000", m.TokenCeiling)
	}
	if m.Upgraded {
		t.Error("Upgraded: got true, want false")
	}

	wantDepletion := now.Add(40 * time.Minute)
	if !m.PredictedDepletion.Equal(wantDepletion) {
		t.Errorf("PredictedDepletion: got %v, want %v", m.PredictedDepletion, wantDepletion)
	}

	wantReset := mustUTC(t, "2025-06-01T14:00:00Z")
	if !m.NextReset.Equal(wantReset) {
		t.Errorf("NextReset: got %v, want %v", m.NextReset, wantReset)
	}
	if !m.WillExhaustBeforeReset {
		t.Error("WillExhaustBeforeReset: got false, want true")
	}

	if m.Model != "Opus 4" {
		t.Errorf("Model: got %q, want %q", m.Model, "Opus 4")
	}
	if !approxEqual(m.SessionElapsed, 30) {
		t.Errorf("SessionElapsed: got %v, want 30", m.SessionElapsed)
	}
	if !approxEqual(m.SessionRemaining, 270) {
		t.Errorf("SessionRemaining: got %v, want 270", m.SessionRemaining)
	}
	if len(m.Warnings) != 0 {
		t.Errorf("Warnings: got %v, want none", m.Warnings)
	}
}

func TestEvaluateIdleFallsBackToReset(t *testing.T) {
	now := mustUTC(t, "2025-06-01T10:00:00Z")

	m := Evaluate(nil, EvaluationContext{
		Now:             now,
		Timezone:        "UTC",
		Plan:            PlanPro,
		CustomResetHour: -1,
	})

	if m.TokenBurnRate != 0 {
		t.Errorf("TokenBurnRate: got %v, want 0", m.TokenBurnRate)
	}
	if m.SessionActive {
		t.Error("SessionActive: got true, want false")
	}
	if !m.PredictedDepletion.Equal(m.NextReset) {
		t.Errorf("PredictedDepletion: got %v, want next reset %v", m.PredictedDepletion, m.NextReset)
	}
	if m.WillExhaustBeforeReset {
		t.Error("WillExhaustBeforeReset: got true, want false")
	}
}

func TestEvaluateUnknownTimezoneWarns(t *testing.T) {
	now := mustUTC(t, "2025-06-01T10:00:00Z")

	m := Evaluate(nil, EvaluationContext{
		Now:             now,
		Timezone:        "Not/AZone",
		Plan:            PlanPro,
		CustomResetHour: -1,
	})

	if len(m.Warnings) != 1 {
		t.Fatalf("Warnings: got %v, want one entry", m.Warnings)
	}
	if m.NextReset.IsZero() {
		t.Error("NextReset is zero after timezone fallback")
	}
}

func TestEvaluateNeverMutatesInput(t *testing.T) {
	now := mustUTC(t, "2025-06-01T10:00:00Z")
	blocks := []model.UsageBlock{
		{Start: now.Add(-10 * time.Minute), IsActive: true, TotalTokens: 500},
	}
	orig := blocks[0]

	Evaluate(blocks, EvaluationContext{Now: now, Timezone: "UTC", Plan: PlanPro, CustomResetHour: -1})

	if !reflect.DeepEqual(blocks[0], orig) {
		t.Error("Evaluate mutated its input block")
	}
}

func TestMetricsUsagePercent(t *testing.T) {
	tests := []struct {
		name string
		m    Metrics
		want float64
	}{
		{"half", Metrics{TokensUsed: 3500, TokenCeiling: 7000}, 50},
		{"over ceiling clamps", Metrics{TokensUsed: 9000, TokenCeiling: 7000}, 100},
		{"zero ceiling", Metrics{TokensUsed: 100}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.UsagePercent(); !approxEqual(got, tt.want) {
				t.Errorf("UsagePercent: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyVelocity(t *testing.T) {
	tests := []struct {
		rate float64
		want Velocity
	}{
		{0, VelocitySlow},
		{49.9, VelocitySlow},
		{50, VelocityNormal},
		{149, VelocityNormal},
		{150, VelocityFast},
		{299, VelocityFast},
		{300, VelocityVeryFast},
		{1000, VelocityVeryFast},
	}
	for _, tt := range tests {
		if got := ClassifyVelocity(tt.rate); got != tt.want {
			t.Errorf("ClassifyVelocity(%v): got %v, want %v", tt.rate, got, tt.want)
		}
	}
}

func TestPredictDepletion(t *testing.T) {
	now := mustUTC(t, "2025-06-01T10:00:00Z")
	reset := mustUTC(t, "2025-06-01T14:00:00Z")

	tests := []struct {
		name      string
		remaining int
		rate      float64
		want      time.Time
	}{
		{"normal burn", 4000, 100, now.Add(40 * time.Minute)},
		{"zero rate falls back to reset", 4000, 0, reset},
		{"nothing remaining falls back to reset", 0, 100, reset},
		{"negative remaining falls back to reset", -5, 100, reset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PredictDepletion(now, tt.remaining, tt.rate, reset)
			if !got.Equal(tt.want) {
				t.Errorf("PredictDepletion: got %v, want %v", got, tt.want)
			}
		})
	}
}
