// setup.go - First-run wizard for tokenwatch.
//
// Command: setup
// Aliases: init, wizard
//
// The setup wizard walks through:
//   1. Plan selection (pro, max5, max20, custom_max)
//   2. Timezone for reset scheduling and daily cost
//   3. Optional custom reset hour
//   4. Poll interval and history recording
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/tokenwatch/internal/config"
	"github.com/jeranaias/tokenwatch/internal/ui/styles"
)

// HandleSetup runs the interactive configuration wizard.
func HandleSetup(args Args) error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	cfg, err := config.Load()
	if err != nil {
		// Start the wizard from defaults when the existing file is
		// unreadable.
		cfg = config.Default()
	}

	fmt.Println("tokenwatch setup")
	fmt.Println()

	// Plan
	fmt.Println("Plans: pro (7k tokens), max5 (35k), max20 (140k),")
	fmt.Println("       custom_max (learned from your usage history)")
	plan, err := promptChoice(line, "Plan", cfg.Plan, []string{"pro", "max5", "max20", "custom_max"})
	if err != nil {
		return err
	}
	cfg.Plan = plan

	// Timezone
	for {
		tz, err := promptDefault(line, "Timezone (IANA name)", cfg.Timezone)
		if err != nil {
			return err
		}
		if _, tzErr := time.LoadLocation(tz); tzErr != nil {
			fmt.Println(styles.RenderWarning(fmt.Sprintf("unknown timezone %q, try again", tz)))
			continue
		}
		cfg.Timezone = tz
		break
	}

	// Reset hour
	current := "default"
	if cfg.ResetHour >= 0 {
		current = strconv.Itoa(cfg.ResetHour)
	}
	for {
		answer, err := promptDefault(line, "Reset hour (0-23, or 'default' for 4/9/14/18/23)", current)
		if err != nil {
			return err
		}
		if answer == "default" || answer == "" {
			cfg.ResetHour = -1
			break
		}
		h, convErr := strconv.Atoi(answer)
		if convErr != nil || h < 0 || h > 23 {
			fmt.Println(styles.RenderWarning("enter an hour between 0 and 23, or 'default'"))
			continue
		}
		cfg.ResetHour = h
		break
	}

	// Poll interval
	for {
		answer, err := promptDefault(line, "Poll interval seconds", strconv.Itoa(cfg.Monitor.PollIntervalSecs))
		if err != nil {
			return err
		}
		secs, convErr := strconv.Atoi(answer)
		if convErr != nil || secs < 1 || secs > 3600 {
			fmt.Println(styles.RenderWarning("enter a value between 1 and 3600"))
			continue
		}
		cfg.Monitor.PollIntervalSecs = secs
		break
	}

	// History
	answer, err := promptDefault(line, "Record snapshot history? (y/n)", boolAnswer(cfg.History.Enabled))
	if err != nil {
		return err
	}
	cfg.History.Enabled = strings.HasPrefix(strings.ToLower(answer), "y")

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	path, _ := config.ConfigPathTOML()
	fmt.Println()
	fmt.Println(styles.RenderSuccess("configuration saved to " + path))
	fmt.Println("Run `tokenwatch` to start the monitor.")
	return nil
}

// promptDefault reads a line, returning def on empty input.
func promptDefault(line *liner.State, label, def string) (string, error) {
	answer, err := line.Prompt(fmt.Sprintf("%s [%s]: ", label, def))
	if err != nil {
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", errors.New("setup aborted")
		}
		return "", err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// promptChoice reads a line restricted to the given options.
func promptChoice(line *liner.State, label, def string, options []string) (string, error) {
	for {
		answer, err := promptDefault(line, label, def)
		if err != nil {
			return "", err
		}
		answer = strings.ToLower(answer)
		for _, opt := range options {
			if answer == opt {
				return answer, nil
			}
		}
		fmt.Println(styles.RenderWarning("choose one of: " + strings.Join(options, ", ")))
	}
}

func boolAnswer(b bool) string {
	if b {
		return "y"
	}
	return "n"
}
