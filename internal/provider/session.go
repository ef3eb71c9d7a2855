// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// =============================================================================
// SESSION INFO
// =============================================================================

// maxProjectNameLen caps the decoded project name for display.
const maxProjectNameLen = 20

// SessionEntry is one row of `ccusage session --json`.
type SessionEntry struct {
	SessionID    string  `json:"sessionId"`
	LastActivity string  `json:"lastActivity"`
	TotalCost    float64 `json:"totalCost"`
}

type sessionPayload struct {
	Sessions []SessionEntry `json:"sessions"`
}

// FetchTodaySession runs `ccusage session --json` and returns today's
// most expensive session, or ok=false when none is from today. Dates
// are compared in UTC, matching the tool's lastActivity format.
func (p *Provider) FetchTodaySession(ctx context.Context, now time.Time) (SessionEntry, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	stdout, stderr, err := p.runner(ctx, p.opts.Binary, "session", "--json")
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return SessionEntry{}, false, &FetchError{Op: "session", Err: ErrToolNotFound}
		}
		return SessionEntry{}, false, &FetchError{Op: "session", Stderr: string(bytes.TrimSpace(stderr)), Err: err}
	}

	var payload sessionPayload
	if err := json.Unmarshal(stdout, &payload); err != nil {
		return SessionEntry{}, false, &FetchError{Op: "session", Err: fmt.Errorf("decode output: %w", err)}
	}

	today := now.UTC().Format("2006-01-02")
	var best SessionEntry
	found := false
	for _, s := range payload.Sessions {
		if s.LastActivity != today {
			continue
		}
		if !found || s.TotalCost > best.TotalCost {
			best = s
			found = true
		}
	}
	return best, found, nil
}

// ProjectName decodes a ccusage session id into a short project name.
// Session ids encode the project path with dashes for separators, e.g.
// "-home-user-projects-myapp"; the last path segment is the name.
func ProjectName(sessionID string) string {
	trimmed := strings.TrimPrefix(sessionID, "-")
	if trimmed == "" {
		return "unknown"
	}
	parts := strings.Split(trimmed, "-")
	name := parts[len(parts)-1]
	if name == "" {
		return "unknown"
	}
	if len(name) > maxProjectNameLen {
		return name[:maxProjectNameLen-3] + "..."
	}
	return name
}
