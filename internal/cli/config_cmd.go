// config_cmd.go - Configuration show/set/path commands.
//
// Command: config
//
// Examples:
//   tokenwatch config show
//   tokenwatch config set plan max5
//   tokenwatch config set timezone Europe/Warsaw
//   tokenwatch config set reset_hour 9
//   tokenwatch config path
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"fmt"
	"strconv"

	"github.com/jeranaias/tokenwatch/internal/config"
)

// HandleConfig dispatches the config subcommands.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "show", "":
		return configShow(args)
	case "set":
		return configSet(args)
	case "path":
		path, err := config.ConfigPathTOML()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	default:
		return fmt.Errorf("unknown config subcommand %q (expected show, set or path)", args.Subcommand)
	}
}

func configShow(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	path, _ := config.ConfigPathTOML()

	if args.JSON {
		data := ConfigData{
			Plan:          cfg.Plan,
			Timezone:      cfg.Timezone,
			ResetHour:     cfg.ResetHour,
			PollInterval:  cfg.Monitor.PollIntervalSecs,
			CcusageBinary: cfg.Monitor.CcusageBinary,
			PerProject:    cfg.Monitor.PerProject,
			Project:       cfg.Monitor.Project,
			HistoryOn:     cfg.History.Enabled,
			RetentionDays: cfg.History.RetentionDays,
			Path:          path,
		}
		return NewJSONResponse("config", data).Print()
	}

	fmt.Printf("Plan:           %s\n", cfg.Plan)
	fmt.Printf("Timezone:       %s\n", cfg.Timezone)
	if cfg.ResetHour >= 0 {
		fmt.Printf("Reset hour:     %d:00\n", cfg.ResetHour)
	} else {
		fmt.Printf("Reset hours:    4:00, 9:00, 14:00, 18:00, 23:00 (default)\n")
	}
	fmt.Printf("Poll interval:  %ds\n", cfg.Monitor.PollIntervalSecs)
	fmt.Printf("ccusage binary: %s\n", cfg.Monitor.CcusageBinary)
	if cfg.Monitor.Project != "" {
		fmt.Printf("Project:        %s\n", cfg.Monitor.Project)
	}
	fmt.Printf("History:        enabled=%v retention=%dd\n", cfg.History.Enabled, cfg.History.RetentionDays)
	fmt.Printf("Config file:    %s\n", path)
	return nil
}

func configSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return fmt.Errorf("usage: tokenwatch config set <key> <value>")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	switch args.ConfigKey {
	case "plan":
		cfg.Plan = args.ConfigVal
	case "timezone":
		cfg.Timezone = args.ConfigVal
	case "reset_hour":
		h, err := strconv.Atoi(args.ConfigVal)
		if err != nil {
			return fmt.Errorf("reset_hour must be a number, got %q", args.ConfigVal)
		}
		cfg.ResetHour = h
	case "poll_interval_secs":
		secs, err := strconv.Atoi(args.ConfigVal)
		if err != nil {
			return fmt.Errorf("poll_interval_secs must be a number, got %q", args.ConfigVal)
		}
		cfg.Monitor.PollIntervalSecs = secs
	case "ccusage_binary":
		cfg.Monitor.CcusageBinary = args.ConfigVal
	case "project":
		cfg.Monitor.Project = args.ConfigVal
	case "history":
		cfg.History.Enabled = args.ConfigVal == "true" || args.ConfigVal == "1"
	default:
		return fmt.Errorf("unknown config key %q", args.ConfigKey)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	fmt.Printf("Set %s = %s\n", args.ConfigKey, args.ConfigVal)
	return nil
}
