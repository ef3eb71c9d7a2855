// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/tokenwatch/internal/engine"
	"github.com/jeranaias/tokenwatch/internal/ui/styles"
)

// =============================================================================
// METRICS PANEL
// =============================================================================

// MetricsPanel renders the evaluated metrics as labeled rows inside a
// bordered panel.
type MetricsPanel struct {
	Theme *styles.Theme
	Width int

	// Project is the optional active project name shown in the title.
	Project string
}

// NewMetricsPanel creates a panel sized to the given width.
func NewMetricsPanel(theme *styles.Theme, width int) MetricsPanel {
	return MetricsPanel{Theme: theme, Width: width}
}

// Render draws the panel for one metrics evaluation.
func (p MetricsPanel) Render(m engine.Metrics, now time.Time) string {
	var rows []string

	velocity := engine.ClassifyVelocity(m.TokenBurnRate)
	rows = append(rows, p.row("Burn rate",
		fmt.Sprintf("%.1f tok/min (%s)", m.TokenBurnRate, velocity)))
	rows = append(rows, p.row("Cost rate",
		fmt.Sprintf("$%.2f/hr", m.CostBurnRate)))
	rows = append(rows, p.row("Cost today",
		fmt.Sprintf("$%.2f", m.DailyCost)))

	if m.SessionActive {
		rows = append(rows, p.row("Session",
			fmt.Sprintf("%s elapsed, %s left", minutes(m.SessionElapsed), minutes(m.SessionRemaining))))
		if m.Model != "" {
			rows = append(rows, p.row("Model", m.Model))
		}
	} else {
		rows = append(rows, p.row("Session", "none active"))
	}

	rows = append(rows, p.row("Next reset",
		m.NextReset.Format("15:04")+" ("+formatDuration(m.NextReset.Sub(now))+")"))

	if m.SessionActive {
		depletion := p.Theme.MetricValue.Render(m.PredictedDepletion.Format("15:04"))
		if m.WillExhaustBeforeReset {
			depletion = p.Theme.ErrorStyle.Render(
				styles.StatusIndicators.Warning + " " + m.PredictedDepletion.Format("15:04") + " (before reset)")
		}
		rows = append(rows, p.rowStyled("Depletion", depletion))
	}

	for _, w := range m.Warnings {
		rows = append(rows, p.Theme.WarningStyle.Render(styles.StatusIndicators.Warning+" "+w))
	}

	title := "usage"
	if p.Project != "" {
		title = "usage - " + truncate(p.Project, 24)
	}
	header := p.Theme.PanelTitle.Render(title)

	return p.Theme.Panel.Width(p.Width).Render(header + "\n" + strings.Join(rows, "\n"))
}

func (p MetricsPanel) row(label, value string) string {
	return p.rowStyled(label, p.Theme.MetricValue.Render(value))
}

func (p MetricsPanel) rowStyled(label, styledValue string) string {
	return p.Theme.MetricLabel.Render(padLabel(label, 12)) + styledValue
}

// padLabel pads a label to a fixed display width, wide-rune aware.
func padLabel(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-w)
}

// truncate shortens s to at most width display columns with an ASCII
// ellipsis.
func truncate(s string, width int) string {
	if runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width-3, "") + "..."
}

func minutes(m float64) string {
	return formatDuration(time.Duration(m * float64(time.Minute)))
}

// =============================================================================
// SPARKLINE STRIP
// =============================================================================

// SparklineStrip renders the trailing burn-rate history as a one-line
// sparkline with a caption.
type SparklineStrip struct {
	Theme *styles.Theme
	Width int
}

// NewSparklineStrip creates a strip sized to the given width.
func NewSparklineStrip(theme *styles.Theme, width int) SparklineStrip {
	return SparklineStrip{Theme: theme, Width: width}
}

// Render draws the sparkline for a burn-rate series, newest last. The
// series is tail-clipped to the strip width. An empty series renders
// an empty string so the monitor can skip the row entirely.
func (s SparklineStrip) Render(rates []float64) string {
	if len(rates) == 0 {
		return ""
	}
	if len(rates) > s.Width {
		rates = rates[len(rates)-s.Width:]
	}
	spark := styles.RenderSparkline(rates)
	return s.Theme.MetricLabel.Render("trend ") + s.Theme.InfoStyle.Render(spark)
}
