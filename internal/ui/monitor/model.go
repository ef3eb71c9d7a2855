// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package monitor provides the live usage monitor view for the TUI.
package monitor

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/tokenwatch/internal/config"
	"github.com/jeranaias/tokenwatch/internal/engine"
	"github.com/jeranaias/tokenwatch/internal/history"
	"github.com/jeranaias/tokenwatch/internal/model"
	"github.com/jeranaias/tokenwatch/internal/provider"
	"github.com/jeranaias/tokenwatch/internal/ui/styles"
)

// =============================================================================
// MONITOR STATE
// =============================================================================

// State represents the current state of the monitor view.
type State int

const (
	StateLoading State = iota // First fetch in flight
	StateReady                // Showing live metrics
	StateError                // Last fetch failed
)

// =============================================================================
// MESSAGES
// =============================================================================

// tickMsg fires when the poll interval elapses.
type tickMsg time.Time

// usageMsg carries a fresh block set from the provider.
type usageMsg struct {
	blocks    []model.UsageBlock
	fetchedAt time.Time
}

// fetchFailedMsg carries a provider failure.
type fetchFailedMsg struct {
	err error
}

// trendMsg carries the trailing burn-rate series from the history store.
type trendMsg struct {
	rates []float64
}

// configChangedMsg carries a reloaded configuration after the config
// file changed on disk.
type configChangedMsg struct {
	cfg *config.Config
}

// configWatchErrMsg reports a watcher problem; the monitor keeps
// running without hot reload.
type configWatchErrMsg struct {
	err error
}

// =============================================================================
// MONITOR MODEL
// =============================================================================

// Model is the Bubble Tea model for the live monitor.
type Model struct {
	// State
	state   State
	lastErr error

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Configuration
	cfg        *config.Config
	configPath string

	// Data sources
	provider *provider.Provider
	store    *history.Store // nil when history is disabled
	watcher  *fsnotify.Watcher

	// Evaluation state
	metrics    engine.Metrics
	prevBudget engine.Budget
	lastFetch  time.Time
	trend      []float64
	project    string

	// UI components
	spinner spinner.Model
}

// New creates the monitor model. The history store and config watcher
// are optional; the monitor degrades gracefully without either.
func New(cfg *config.Config, store *history.Store) Model {
	theme := styles.NewTheme()

	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: styles.LineSpinner.Frames,
		FPS:    styles.LineSpinner.Duration(),
	}
	sp.Style = theme.Spinner

	prov := provider.New(provider.Options{
		Binary:     cfg.Monitor.CcusageBinary,
		PerProject: cfg.Monitor.PerProject,
		Project:    cfg.Monitor.Project,
	})

	m := Model{
		state:    StateLoading,
		theme:    theme,
		cfg:      cfg,
		provider: prov,
		store:    store,
		spinner:  sp,
	}

	if path, err := config.ConfigPathTOML(); err == nil {
		m.configPath = path
		if watcher, err := fsnotify.NewWatcher(); err == nil {
			if err := watcher.Add(filepath.Dir(path)); err == nil {
				m.watcher = watcher
			} else {
				watcher.Close()
			}
		}
	}

	return m
}

// Init starts the spinner, the first fetch, and the config watch.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.fetchCmd()}
	if m.watcher != nil {
		cmds = append(cmds, m.waitConfigChange())
	}
	return tea.Batch(cmds...)
}

// Close releases the watcher and history store.
func (m *Model) Close() {
	if m.watcher != nil {
		m.watcher.Close()
		m.watcher = nil
	}
	if m.store != nil {
		m.store.Close()
		m.store = nil
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

// fetchCmd fetches blocks from the provider off the update loop.
func (m Model) fetchCmd() tea.Cmd {
	prov := m.provider
	return func() tea.Msg {
		blocks, err := prov.FetchBlocks(context.Background())
		if err != nil {
			return fetchFailedMsg{err: err}
		}
		return usageMsg{blocks: blocks, fetchedAt: time.Now()}
	}
}

// tickCmd schedules the next poll.
func (m Model) tickCmd() tea.Cmd {
	interval := time.Duration(m.cfg.Monitor.PollIntervalSecs) * time.Second
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// recordAndLoadTrend appends a snapshot and reads back the trailing
// hour of burn rates for the sparkline.
func (m Model) recordAndLoadTrend(metrics engine.Metrics, takenAt time.Time) tea.Cmd {
	store := m.store
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		// Append errors are not fatal to the monitor; the trend just
		// goes stale.
		store.Append(ctx, history.FromMetrics(metrics, takenAt))

		snaps, err := store.Since(ctx, takenAt.Add(-time.Hour))
		if err != nil {
			return trendMsg{}
		}
		rates := make([]float64, 0, len(snaps))
		for _, s := range snaps {
			rates = append(rates, s.TokenBurnRate)
		}
		return trendMsg{rates: rates}
	}
}

// waitConfigChange blocks on the next fsnotify event for the config
// file and reloads the configuration.
func (m Model) waitConfigChange() tea.Cmd {
	watcher := m.watcher
	path := m.configPath
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if event.Name != path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := config.Load()
				if err != nil {
					return configWatchErrMsg{err: err}
				}
				return configChangedMsg{cfg: cfg}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				return configWatchErrMsg{err: err}
			}
		}
	}
}
