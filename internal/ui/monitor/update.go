// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package monitor

import (
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tokenwatch/internal/engine"
	"github.com/jeranaias/tokenwatch/internal/model"
)

// Update handles all monitor messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Close()
			return m, tea.Quit
		case "r":
			// Manual refresh.
			return m, m.fetchCmd()
		}
		return m, nil

	case spinner.TickMsg:
		if m.state != StateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		return m, m.fetchCmd()

	case usageMsg:
		return m.handleUsage(msg)

	case fetchFailedMsg:
		m.state = StateError
		m.lastErr = msg.err
		return m, m.tickCmd()

	case trendMsg:
		if msg.rates != nil {
			m.trend = msg.rates
		}
		return m, nil

	case configChangedMsg:
		m.cfg = msg.cfg
		// The next evaluation picks up the new plan, timezone and
		// reset hour; the budget ratchet carries over deliberately.
		return m, m.rearmConfigWatch()

	case configWatchErrMsg:
		// Hot reload is best effort; keep the monitor running.
		return m, m.rearmConfigWatch()
	}

	return m, nil
}

// handleUsage evaluates a fresh block set and schedules follow-ups.
func (m Model) handleUsage(msg usageMsg) (tea.Model, tea.Cmd) {
	now := msg.fetchedAt
	metrics := engine.Evaluate(msg.blocks, engine.EvaluationContext{
		Now:             now,
		Timezone:        m.cfg.Timezone,
		Plan:            engine.Plan(m.cfg.Plan),
		CustomResetHour: m.cfg.ResetHour,
		PrevBudget:      m.prevBudget,
	})

	m.state = StateReady
	m.lastErr = nil
	m.metrics = metrics
	m.lastFetch = now
	m.prevBudget = engine.Budget{Ceiling: metrics.TokenCeiling, Upgraded: metrics.Upgraded}
	m.project = activeProject(msg.blocks)

	cmds := []tea.Cmd{m.tickCmd()}
	if cmd := m.recordAndLoadTrend(metrics, now); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) rearmConfigWatch() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	return m.waitConfigChange()
}

// activeProject returns the active block's project path, when the
// provider was asked for per-project data.
func activeProject(blocks []model.UsageBlock) string {
	if active, ok := model.ActiveBlock(blocks); ok {
		return active.ProjectPath
	}
	return ""
}

// LastUpdated returns the time of the last successful fetch.
func (m Model) LastUpdated() time.Time { return m.lastFetch }

// Metrics returns the most recent evaluation result.
func (m Model) Metrics() engine.Metrics { return m.metrics }
