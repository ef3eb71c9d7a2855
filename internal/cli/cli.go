// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command handlers for tokenwatch.
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdMonitor Command = iota // Live TUI monitor (default)
	CmdStatus                 // One-shot metrics dump
	CmdSetup                  // Interactive first-run wizard
	CmdConfig                 // Show or set configuration
	CmdHistory                // List recorded snapshots
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	JSON       bool   // Output in JSON format
	Plan       string // Override configured plan
	Timezone   string // Override configured timezone
	ResetHour  int    // Override reset hour; -2 means "not set"
	PerProject bool   // Request per-project block data
	Project    string // Filter to a single project path

	// Command-specific
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `tokenwatch %s - Claude token usage monitor

Tokenwatch watches your Claude session usage in real time: burn rate,
daily spend, budget ceiling, depletion prediction and the next quota
reset. Usage data comes from the ccusage CLI.

Usage:
  tokenwatch                 Start the live monitor (default)
  tokenwatch status          One-shot metrics (add --json for machines)
  tokenwatch setup           Interactive configuration wizard
  tokenwatch config [show|set|path]  Configuration
  tokenwatch history [N]     Show the N most recent snapshots (default 20)
  tokenwatch version         Show version information
  tokenwatch help            Show this help

Global flags:
  --json                 JSON output (status, config, history)
  --plan <name>          Override plan: pro, max5, max20, custom_max
  --timezone <tz>        Override timezone (IANA name)
  --reset-hour <0-23>    Override the reset schedule with a single hour
  --per-project          Request per-project usage breakdown
  --project <path>       Only count usage for one project

Configuration:
  tokenwatch config set plan max5
  tokenwatch config set timezone Europe/Warsaw
  tokenwatch config set reset_hour 9

Environment:
  TOKENWATCH_PLAN, TOKENWATCH_TIMEZONE, TOKENWATCH_RESET_HOUR,
  TOKENWATCH_POLL_INTERVAL, TOKENWATCH_CCUSAGE, TOKENWATCH_PROJECT,
  TOKENWATCH_HISTORY
`

// PrintUsage prints the top-level usage text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("tokenwatch version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsedArgs := parseGlobalFlags(args)

	// If no remaining args, default to the live monitor
	if len(remaining) == 0 {
		return CmdMonitor, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "monitor", "watch":
		return CmdMonitor, parsedArgs

	case "status", "s":
		return CmdStatus, parsedArgs

	case "setup", "init", "wizard":
		return CmdSetup, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "history", "hist":
		return CmdHistory, parsedArgs

	case "version", "-V", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		PrintUsage()
		os.Exit(1)
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags, returning the remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	parsedArgs := Args{ResetHour: -2}

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "--json":
			parsedArgs.JSON = true
		case "--per-project":
			parsedArgs.PerProject = true
		case "--plan":
			if i+1 < len(args) {
				i++
				parsedArgs.Plan = args[i]
			}
		case "--timezone":
			if i+1 < len(args) {
				i++
				parsedArgs.Timezone = args[i]
			}
		case "--reset-hour":
			if i+1 < len(args) {
				i++
				if h, err := strconv.Atoi(args[i]); err == nil {
					parsedArgs.ResetHour = h
				}
			}
		case "--project":
			if i+1 < len(args) {
				i++
				parsedArgs.Project = args[i]
			}
		default:
			switch {
			case strings.HasPrefix(arg, "--plan="):
				parsedArgs.Plan = strings.TrimPrefix(arg, "--plan=")
			case strings.HasPrefix(arg, "--timezone="):
				parsedArgs.Timezone = strings.TrimPrefix(arg, "--timezone=")
			case strings.HasPrefix(arg, "--reset-hour="):
				if h, err := strconv.Atoi(strings.TrimPrefix(arg, "--reset-hour=")); err == nil {
					parsedArgs.ResetHour = h
				}
			case strings.HasPrefix(arg, "--project="):
				parsedArgs.Project = strings.TrimPrefix(arg, "--project=")
			default:
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseConfigArgs parses config subcommand arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) == 0 {
		args.Subcommand = "show"
		return
	}
	args.Subcommand = remaining[0]
	if len(remaining) > 1 {
		args.ConfigKey = remaining[1]
	}
	if len(remaining) > 2 {
		args.ConfigVal = strings.Join(remaining[2:], " ")
	}
}
