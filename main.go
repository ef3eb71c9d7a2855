// tokenwatch - A terminal monitor for Claude token usage.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/tokenwatch/internal/cli"
	"github.com/jeranaias/tokenwatch/internal/history"
	"github.com/jeranaias/tokenwatch/internal/ui/monitor"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdMonitor:
		runMonitor(args)
	case cli.CmdStatus:
		if err := cli.HandleStatus(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdSetup:
		if err := cli.HandleSetup(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdConfig:
		if err := cli.HandleConfig(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdHistory:
		if err := cli.HandleHistory(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case cli.CmdVersion:
		if args.JSON {
			cli.NewJSONResponse("version", cli.VersionData{
				Version:   Version,
				GitCommit: GitCommit,
				BuildDate: BuildDate,
			}).Print()
			return
		}
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
}

// runMonitor starts the live TUI monitor.
func runMonitor(args cli.Args) {
	cfg, err := cli.LoadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var store *history.Store
	if cfg.History.Enabled {
		path, err := cfg.HistoryPath()
		if err == nil {
			store, err = history.Open(path)
		}
		if err != nil {
			// History is best effort; the monitor works without it.
			fmt.Fprintf(os.Stderr, "Warning: history disabled: %v\n", err)
			store = nil
		}
	}

	m := monitor.New(cfg, store)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
