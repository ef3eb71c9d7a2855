// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/tokenwatch/internal/engine"
	"github.com/jeranaias/tokenwatch/internal/ui/styles"
)

func testTheme() *styles.Theme {
	return styles.NewTheme()
}

func TestUsageGaugeRender(t *testing.T) {
	g := NewUsageGauge(testTheme(), 10)
	out := g.Render(3500, 7000, 50)

	if !strings.Contains(out, "50.0%") {
		t.Errorf("gauge missing percentage: %q", out)
	}
	if !strings.Contains(out, "3500") {
		t.Errorf("gauge missing used count: %q", out)
	}
	if !strings.Contains(out, "#####") {
		t.Errorf("gauge missing filled bar: %q", out)
	}
}

func TestUsageGaugeTokenFormatting(t *testing.T) {
	if got := formatTokens(35000); got != "35.0k" {
		t.Errorf("formatTokens(35000): got %q, want 35.0k", got)
	}
	if got := formatTokens(7000); got != "7000" {
		t.Errorf("formatTokens(7000): got %q, want 7000", got)
	}
}

func TestResetCountdownRender(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	reset := now.Add(2*time.Hour + 30*time.Minute)

	c := NewResetCountdown(testTheme(), 10)
	out := c.Render(now, reset, 5*time.Hour)

	if !strings.Contains(out, "2h 30m until reset") {
		t.Errorf("countdown missing remaining time: %q", out)
	}

	// A reset already in the past renders as exhausted, not negative.
	out = c.Render(now, now.Add(-time.Minute), 5*time.Hour)
	if !strings.Contains(out, "0m until reset") {
		t.Errorf("past reset: %q", out)
	}
}

func TestMetricsPanelRender(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	m := engine.Metrics{
		TokenBurnRate:          100,
		CostBurnRate:           1.8,
		DailyCost:              4.2,
		TokensUsed:             3000,
		TokenCeiling:           7000,
		SessionActive:          true,
		SessionElapsed:         30,
		SessionRemaining:       270,
		Model:                  "Opus 4",
		NextReset:              now.Add(4 * time.Hour),
		PredictedDepletion:     now.Add(40 * time.Minute),
		WillExhaustBeforeReset: true,
	}

	p := NewMetricsPanel(testTheme(), 60)
	out := p.Render(m, now)

	for _, want := range []string{
		"100.0 tok/min",
		"normal",
		"$1.80/hr",
		"$4.20",
		"Opus 4",
		"before reset",
		"14:00",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("panel missing %q:\n%s", want, out)
		}
	}
}

func TestMetricsPanelWarnings(t *testing.T) {
	m := engine.Metrics{
		NextReset: time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC),
		Warnings:  []string{"unknown timezone \"Nope\", using Europe/Warsaw"},
	}

	p := NewMetricsPanel(testTheme(), 60)
	out := p.Render(m, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))

	if !strings.Contains(out, "unknown timezone") {
		t.Errorf("panel missing warning:\n%s", out)
	}
	if !strings.Contains(out, "none active") {
		t.Errorf("panel missing idle session row:\n%s", out)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 20); got != "short" {
		t.Errorf("truncate(short): got %q", got)
	}
	got := truncate("averyverylongprojectname", 10)
	if len(got) != 10 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncate long: got %q", got)
	}
}

func TestSparklineStripRender(t *testing.T) {
	s := NewSparklineStrip(testTheme(), 5)

	if out := s.Render(nil); out != "" {
		t.Errorf("empty series: got %q", out)
	}

	out := s.Render([]float64{1, 2, 3, 4, 5, 6, 7, 8})
	if !strings.Contains(out, "trend") {
		t.Errorf("strip missing caption: %q", out)
	}
	// Tail-clipped to width: the peak (last value) must survive.
	if !strings.Contains(out, "#") {
		t.Errorf("strip missing peak: %q", out)
	}
}
