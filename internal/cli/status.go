// status.go - One-shot metrics output for scripts and quick checks.
//
// Command: status
// Aliases: s
//
// Examples:
//   tokenwatch status             Human-readable metrics
//   tokenwatch status --json      Machine-readable metrics
//   tokenwatch status --plan max5 Override the configured plan
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/jeranaias/tokenwatch/internal/config"
	"github.com/jeranaias/tokenwatch/internal/engine"
	"github.com/jeranaias/tokenwatch/internal/model"
	"github.com/jeranaias/tokenwatch/internal/provider"
	"github.com/jeranaias/tokenwatch/internal/ui/styles"
)

// LoadConfig loads the configuration and applies CLI flag overrides.
func LoadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if args.Plan != "" {
		cfg.Plan = args.Plan
	}
	if args.Timezone != "" {
		cfg.Timezone = args.Timezone
	}
	if args.ResetHour != -2 {
		cfg.ResetHour = args.ResetHour
	}
	if args.PerProject {
		cfg.Monitor.PerProject = true
	}
	if args.Project != "" {
		cfg.Monitor.Project = args.Project
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HandleStatus runs one fetch-evaluate pass and prints the result.
func HandleStatus(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}

	prov := provider.New(provider.Options{
		Binary:     cfg.Monitor.CcusageBinary,
		PerProject: cfg.Monitor.PerProject,
		Project:    cfg.Monitor.Project,
	})

	blocks, err := prov.FetchBlocks(context.Background())
	if err != nil {
		if args.JSON {
			NewJSONErrorResponse("status", err).Print()
		}
		return err
	}

	now := time.Now()
	metrics := engine.Evaluate(blocks, engine.EvaluationContext{
		Now:             now,
		Timezone:        cfg.Timezone,
		Plan:            engine.Plan(cfg.Plan),
		CustomResetHour: cfg.ResetHour,
	})

	project := ""
	if active, ok := model.ActiveBlock(blocks); ok {
		project = active.ProjectPath
	}
	if project == "" && metrics.SessionActive {
		// Blocks carry no project path unless --per-project was given;
		// fall back to today's session entry.
		if entry, ok, sessErr := prov.FetchTodaySession(context.Background(), now); sessErr == nil && ok {
			project = provider.ProjectName(entry.SessionID)
		}
	}

	if args.JSON {
		data := StatusData{
			Plan:     cfg.Plan,
			Timezone: cfg.Timezone,
			Blocks:   len(blocks),
			Project:  project,
			Metrics:  toJSONMetrics(metrics),
		}
		return NewJSONResponse("status", data).Print()
	}

	printStatusText(cfg, metrics, project)
	return nil
}

func toJSONMetrics(m engine.Metrics) Metrics {
	return Metrics{
		TokenBurnRate:          m.TokenBurnRate,
		CostBurnRate:           m.CostBurnRate,
		DailyCost:              m.DailyCost,
		TokensUsed:             m.TokensUsed,
		TokenCeiling:           m.TokenCeiling,
		UsagePercent:           m.UsagePercent(),
		Upgraded:               m.Upgraded,
		NextReset:              m.NextReset,
		PredictedDepletion:     m.PredictedDepletion,
		WillExhaustBeforeReset: m.WillExhaustBeforeReset,
		SessionActive:          m.SessionActive,
		Model:                  m.Model,
		Warnings:               m.Warnings,
	}
}

// printStatusText renders the human-readable status block.
func printStatusText(cfg *config.Config, m engine.Metrics, project string) {
	width := 40
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 50 {
		width = w - 30
		if width > 60 {
			width = 60
		}
	}

	for _, warn := range m.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", warn)
	}

	fmt.Printf("Plan:        %s", cfg.Plan)
	if m.Upgraded {
		fmt.Printf(" (auto-upgraded to custom_max)")
	}
	fmt.Println()

	bar := styles.RenderProgressBar(width, m.UsagePercent())
	fmt.Printf("Tokens:      [%s] %.1f%% (%d / %d)\n", bar, m.UsagePercent(), m.TokensUsed, m.TokenCeiling)

	velocity := engine.ClassifyVelocity(m.TokenBurnRate)
	fmt.Printf("Burn rate:   %.1f tok/min (%s)\n", m.TokenBurnRate, velocity)
	fmt.Printf("Cost rate:   $%.2f/hr\n", m.CostBurnRate)
	fmt.Printf("Cost today:  $%.2f\n", m.DailyCost)

	if m.SessionActive {
		fmt.Printf("Session:     active, %.0fm elapsed, %.0fm left", m.SessionElapsed, m.SessionRemaining)
		if m.Model != "" {
			fmt.Printf(" (%s)", m.Model)
		}
		fmt.Println()
		if project != "" {
			fmt.Printf("Project:     %s\n", project)
		}
	} else {
		fmt.Println("Session:     none active")
	}

	fmt.Printf("Next reset:  %s\n", m.NextReset.Format("2006-01-02 15:04 MST"))
	if m.SessionActive {
		fmt.Printf("Depletion:   %s", m.PredictedDepletion.Format("15:04"))
		if m.WillExhaustBeforeReset {
			fmt.Printf("  %s tokens run out before the reset", styles.StatusIndicators.Warning)
		}
		fmt.Println()
	}
}
