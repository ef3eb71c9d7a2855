// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package provider

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func fakeRunner(stdout string, err error) func(context.Context, string, ...string) ([]byte, []byte, error) {
	return func(_ context.Context, _ string, _ ...string) ([]byte, []byte, error) {
		return []byte(stdout), nil, err
	}
}

func TestFetchBlocks(t *testing.T) {
	payload := `{"blocks":[{"startTime":"2025-06-01T10:00:00Z","isActive":true,"totalTokens":500,"costUSD":0.1}]}`

	p := New(Options{})
	p.runner = fakeRunner(payload, nil)

	blocks, err := p.FetchBlocks(context.Background())
	if err != nil {
		t.Fatalf("FetchBlocks: %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("blocks: got %d, want 1", len(blocks))
	}
	if blocks[0].TotalTokens != 500 {
		t.Errorf("TotalTokens: got %d, want 500", blocks[0].TotalTokens)
	}
}

func TestFetchBlocksErrors(t *testing.T) {
	tests := []struct {
		name    string
		stdout  string
		runErr  error
		wantIs  error
		wantSub string
	}{
		{
			name:   "binary missing",
			runErr: exec.ErrNotFound,
			wantIs: ErrToolNotFound,
		},
		{
			name:    "invalid json",
			stdout:  "not json",
			wantSub: "decode output",
		},
		{
			name:   "empty block set",
			stdout: `{"blocks":[]}`,
			wantIs: ErrNoBlocks,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(Options{})
			p.runner = fakeRunner(tt.stdout, tt.runErr)

			_, err := p.FetchBlocks(context.Background())
			if err == nil {
				t.Fatal("FetchBlocks: got nil error")
			}

			var fe *FetchError
			if !errors.As(err, &fe) {
				t.Fatalf("error type: got %T, want *FetchError", err)
			}
			if fe.Op != "blocks" {
				t.Errorf("Op: got %q, want blocks", fe.Op)
			}
			if tt.wantIs != nil && !errors.Is(err, tt.wantIs) {
				t.Errorf("errors.Is(%v): got false", tt.wantIs)
			}
			if tt.wantSub != "" && !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q missing %q", err.Error(), tt.wantSub)
			}
		})
	}
}

func TestFetchBlocksForwardsFlags(t *testing.T) {
	var gotArgs []string
	p := New(Options{PerProject: true, Project: "/home/u/app"})
	p.runner = func(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
		gotArgs = args
		return []byte(`{"blocks":[{"startTime":"2025-06-01T10:00:00Z"}]}`), nil, nil
	}

	if _, err := p.FetchBlocks(context.Background()); err != nil {
		t.Fatalf("FetchBlocks: %v", err)
	}

	want := "blocks --json --per-project --project /home/u/app"
	if got := strings.Join(gotArgs, " "); got != want {
		t.Errorf("args: got %q, want %q", got, want)
	}
}

func TestFetchTodaySession(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	payload := `{"sessions":[
		{"sessionId":"-home-u-projects-old","lastActivity":"2025-05-30","totalCost":9.0},
		{"sessionId":"-home-u-projects-cheap","lastActivity":"2025-06-01","totalCost":0.5},
		{"sessionId":"-home-u-projects-spendy","lastActivity":"2025-06-01","totalCost":3.2}
	]}`

	p := New(Options{})
	p.runner = fakeRunner(payload, nil)

	entry, ok, err := p.FetchTodaySession(context.Background(), now)
	if err != nil {
		t.Fatalf("FetchTodaySession: %v", err)
	}
	if !ok {
		t.Fatal("FetchTodaySession: got ok=false")
	}
	if entry.SessionID != "-home-u-projects-spendy" {
		t.Errorf("SessionID: got %q, want the most expensive today", entry.SessionID)
	}
}

func TestProjectName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"-home-user-projects-myapp", "myapp"},
		{"-root-averyveryverylongprojectname", "averyveryverylong..."},
		{"", "unknown"},
		{"-", "unknown"},
	}
	for _, tt := range tests {
		if got := ProjectName(tt.in); got != tt.want {
			t.Errorf("ProjectName(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}
