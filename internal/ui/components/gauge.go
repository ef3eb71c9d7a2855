// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/jeranaias/tokenwatch/internal/ui/styles"
)

// =============================================================================
// USAGE GAUGE
// =============================================================================

// UsageGauge renders the token consumption bar with percentage and
// absolute counts, colored by severity.
type UsageGauge struct {
	Theme *styles.Theme
	Width int
}

// NewUsageGauge creates a gauge sized for the given bar width.
func NewUsageGauge(theme *styles.Theme, width int) UsageGauge {
	return UsageGauge{Theme: theme, Width: width}
}

// Render draws the gauge for used tokens against the ceiling.
func (g UsageGauge) Render(used, ceiling int, percent float64) string {
	bar := styles.RenderProgressBar(g.Width, percent)
	style := g.Theme.GaugeStyle(percent)
	label := g.Theme.GaugeLabel.Render(
		fmt.Sprintf(" %5.1f%% (%s / %s)", percent, formatTokens(used), formatTokens(ceiling)))
	return style.Render("["+bar+"]") + label
}

// =============================================================================
// RESET COUNTDOWN
// =============================================================================

// ResetCountdown renders time remaining until the next quota reset as
// an emptying bar over the reset interval.
type ResetCountdown struct {
	Theme *styles.Theme
	Width int
}

// NewResetCountdown creates a countdown bar sized for the given width.
func NewResetCountdown(theme *styles.Theme, width int) ResetCountdown {
	return ResetCountdown{Theme: theme, Width: width}
}

// Render draws the countdown from now to reset, measured against the
// full interval length. A reset in the past renders as exhausted.
func (c ResetCountdown) Render(now, reset time.Time, interval time.Duration) string {
	remaining := reset.Sub(now)
	if remaining < 0 {
		remaining = 0
	}
	if interval <= 0 {
		interval = time.Hour
	}

	percent := remaining.Minutes() / interval.Minutes() * 100
	bar := styles.RenderProgressBar(c.Width, percent)
	label := c.Theme.GaugeLabel.Render(" " + formatDuration(remaining) + " until reset")
	return c.Theme.GaugeOK.Render("["+bar+"]") + label
}

// =============================================================================
// FORMAT HELPERS
// =============================================================================

// formatTokens renders a token count compactly: 1234 -> "1,234" style
// grouping is skipped in favor of k-suffixes above 10k.
func formatTokens(n int) string {
	if n >= 10000 {
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	}
	return fmt.Sprintf("%d", n)
}

// formatDuration renders a duration as "2h 13m" or "45m".
func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
