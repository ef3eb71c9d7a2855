// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/tokenwatch/internal/model"
	"github.com/jeranaias/tokenwatch/internal/ui/components"
	"github.com/jeranaias/tokenwatch/internal/ui/styles"
)

// View renders the monitor.
func (m Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}

	switch m.state {
	case StateLoading:
		return m.theme.Container.Render(
			m.spinner.View() + " fetching usage data" + "\n\n" +
				m.theme.ShortcutDesc.Render("q to quit"))

	case StateError:
		body := styles.RenderError("usage fetch failed") + "\n" +
			m.theme.MetricLabel.Render(m.lastErr.Error()) + "\n\n" +
			m.theme.ShortcutDesc.Render("retrying on next poll; r to retry now, q to quit")
		return m.theme.Container.Render(body)
	}

	barWidth := width - 40
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 60 {
		barWidth = 60
	}

	now := m.lastFetch
	var sections []string

	// Header
	title := "tokenwatch"
	if m.project != "" {
		title += " - " + m.project
	}
	sections = append(sections, m.theme.Header.Width(width-2).Render(title))

	// Gauges
	gauge := components.NewUsageGauge(m.theme, barWidth)
	sections = append(sections, "",
		m.theme.MetricLabel.Render("tokens")+"\n"+
			gauge.Render(m.metrics.TokensUsed, m.metrics.TokenCeiling, m.metrics.UsagePercent()))

	countdown := components.NewResetCountdown(m.theme, barWidth)
	sections = append(sections, "",
		m.theme.MetricLabel.Render("reset")+"\n"+
			countdown.Render(now, m.metrics.NextReset, model.SessionWindow))

	// Metrics panel
	panel := components.NewMetricsPanel(m.theme, width-4)
	panel.Project = m.project
	sections = append(sections, "", panel.Render(m.metrics, now))

	// Burn-rate trend
	if len(m.trend) > 1 {
		strip := components.NewSparklineStrip(m.theme, barWidth)
		sections = append(sections, "", strip.Render(m.trend))
	}

	// Status bar
	sections = append(sections, "", m.statusBar(now))

	return m.theme.Container.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) statusBar(now time.Time) string {
	parts := []string{
		m.theme.ShortcutKey.Render("q") + m.theme.ShortcutDesc.Render(" quit"),
		m.theme.ShortcutKey.Render("r") + m.theme.ShortcutDesc.Render(" refresh"),
		m.theme.ShortcutDesc.Render(fmt.Sprintf("plan %s", m.cfg.Plan)),
	}
	if !now.IsZero() {
		parts = append(parts, m.theme.ShortcutDesc.Render("updated "+now.Format("15:04:05")))
	}
	return m.theme.StatusBar.Render(strings.Join(parts, "  "))
}
