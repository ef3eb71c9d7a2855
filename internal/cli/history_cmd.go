// history_cmd.go - Snapshot history listing.
//
// Command: history
// Aliases: hist
//
// Examples:
//   tokenwatch history            Show the 20 most recent snapshots
//   tokenwatch history 50         Show the 50 most recent snapshots
//   tokenwatch history --json     Machine-readable snapshot list
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jeranaias/tokenwatch/internal/config"
	"github.com/jeranaias/tokenwatch/internal/history"
)

// defaultHistoryLimit is how many snapshots the history command lists
// when no count is given.
const defaultHistoryLimit = 20

// HandleHistory lists recent metrics snapshots and prunes expired rows.
func HandleHistory(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	limit := defaultHistoryLimit
	if len(args.Raw) > 0 {
		if n, convErr := strconv.Atoi(args.Raw[0]); convErr == nil && n > 0 {
			limit = n
		}
	}

	path, err := cfg.HistoryPath()
	if err != nil {
		return err
	}
	store, err := history.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()
	retention := time.Duration(cfg.History.RetentionDays) * 24 * time.Hour
	if _, err := store.Prune(ctx, retention, time.Now()); err != nil {
		return err
	}

	snaps, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}

	if args.JSON {
		return NewJSONResponse("history", snaps).Print()
	}

	if len(snaps) == 0 {
		fmt.Println("No snapshots recorded yet. Run the monitor to collect history.")
		return nil
	}

	fmt.Printf("%-20s %12s %10s %10s %14s\n", "TAKEN", "TOK/MIN", "$/HR", "$/DAY", "USED/CEILING")
	for _, s := range snaps {
		fmt.Printf("%-20s %12.1f %10.2f %10.2f %7d/%d\n",
			s.TakenAt.Local().Format("2006-01-02 15:04"),
			s.TokenBurnRate, s.CostBurnRate, s.DailyCost,
			s.TokensUsed, s.TokenCeiling)
	}
	return nil
}
