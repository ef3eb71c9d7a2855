// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package provider fetches usage blocks from the ccusage CLI.
//
// The provider shells out to `ccusage blocks --json` (and `ccusage
// session --json` for per-project info), decodes the payload into
// model.UsageBlock values, and wraps every failure mode in a typed
// FetchError so callers can distinguish a missing binary from bad
// output. The provider never retries; that policy belongs to the
// caller's poll loop.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/jeranaias/tokenwatch/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrToolNotFound means the ccusage binary is not on PATH.
	ErrToolNotFound = errors.New("ccusage not found in PATH")

	// ErrNoBlocks means the tool ran but returned an empty block set.
	ErrNoBlocks = errors.New("no usage blocks returned")
)

// FetchError wraps a failed fetch with the command that failed and any
// stderr the tool produced.
type FetchError struct {
	Op     string // "blocks" or "session"
	Stderr string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("fetch %s: %v: %s", e.Op, e.Err, e.Stderr)
	}
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// =============================================================================
// PROVIDER
// =============================================================================

// fetchTimeout bounds a single ccusage invocation.
const fetchTimeout = 30 * time.Second

// Options control how blocks are fetched.
type Options struct {
	// Binary overrides the ccusage executable name, for tests and
	// unusual installs. Empty means "ccusage".
	Binary string

	// PerProject adds --per-project so blocks carry project paths.
	PerProject bool

	// Project filters blocks to a single project path.
	Project string
}

// Provider runs the ccusage CLI and decodes its output.
type Provider struct {
	opts Options

	// runner is swapped out in tests.
	runner func(ctx context.Context, name string, args ...string) ([]byte, []byte, error)
}

// New returns a Provider with the given options.
func New(opts Options) *Provider {
	if opts.Binary == "" {
		opts.Binary = "ccusage"
	}
	return &Provider{opts: opts, runner: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// FetchBlocks runs `ccusage blocks --json` and returns the decoded
// block list. All failures come back as a *FetchError.
func (p *Provider) FetchBlocks(ctx context.Context) ([]model.UsageBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	args := []string{"blocks", "--json"}
	if p.opts.PerProject {
		args = append(args, "--per-project")
	}
	if p.opts.Project != "" {
		args = append(args, "--project", p.opts.Project)
	}

	stdout, stderr, err := p.runner(ctx, p.opts.Binary, args...)
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, &FetchError{Op: "blocks", Err: ErrToolNotFound}
		}
		return nil, &FetchError{Op: "blocks", Stderr: string(bytes.TrimSpace(stderr)), Err: err}
	}

	var payload model.BlocksPayload
	if err := json.Unmarshal(stdout, &payload); err != nil {
		return nil, &FetchError{Op: "blocks", Err: fmt.Errorf("decode output: %w", err)}
	}
	if len(payload.Blocks) == 0 {
		return nil, &FetchError{Op: "blocks", Err: ErrNoBlocks}
	}
	return payload.Blocks, nil
}
