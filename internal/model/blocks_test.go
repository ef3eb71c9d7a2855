// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
	"time"
)

func ts(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("parse %q: %v", value, err)
	}
	return parsed
}

func TestEffectiveEnd(t *testing.T) {
	now := ts(t, "2025-06-01T12:00:00Z")
	ended := ts(t, "2025-06-01T09:00:00Z")

	tests := []struct {
		name  string
		block UsageBlock
		want  time.Time
	}{
		{
			name:  "active block ends now",
			block: UsageBlock{Start: ts(t, "2025-06-01T08:00:00Z"), IsActive: true, ActualEnd: &ended},
			want:  now,
		},
		{
			name:  "completed block uses actual end",
			block: UsageBlock{Start: ts(t, "2025-06-01T08:00:00Z"), ActualEnd: &ended},
			want:  ended,
		},
		{
			name:  "no end recorded falls back to now",
			block: UsageBlock{Start: ts(t, "2025-06-01T08:00:00Z")},
			want:  now,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.block.EffectiveEnd(now); !got.Equal(tt.want) {
				t.Errorf("EffectiveEnd: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverlap(t *testing.T) {
	now := ts(t, "2025-06-01T12:00:00Z")
	winStart := ts(t, "2025-06-01T11:00:00Z")

	tests := []struct {
		name      string
		block     UsageBlock
		wantOK    bool
		wantStart string
		wantEnd   string
	}{
		{
			name:      "active block clipped to window",
			block:     UsageBlock{Start: ts(t, "2025-06-01T10:30:00Z"), IsActive: true},
			wantOK:    true,
			wantStart: "2025-06-01T11:00:00Z",
			wantEnd:   "2025-06-01T12:00:00Z",
		},
		{
			name:   "block entirely before window",
			block:  UsageBlock{Start: ts(t, "2025-06-01T08:00:00Z"), ActualEnd: timePtr(ts(t, "2025-06-01T09:00:00Z"))},
			wantOK: false,
		},
		{
			name:   "gap block never overlaps",
			block:  UsageBlock{Start: ts(t, "2025-06-01T11:30:00Z"), IsGap: true, IsActive: true},
			wantOK: false,
		},
		{
			name:   "malformed block never overlaps",
			block:  UsageBlock{IsActive: true},
			wantOK: false,
		},
		{
			name:   "degenerate interval is empty",
			block:  UsageBlock{Start: ts(t, "2025-06-01T11:45:00Z"), ActualEnd: timePtr(ts(t, "2025-06-01T11:15:00Z"))},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end, ok := tt.block.Overlap(now, winStart, now)
			if ok != tt.wantOK {
				t.Fatalf("Overlap ok: got %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !start.Equal(ts(t, tt.wantStart)) {
				t.Errorf("Overlap start: got %v, want %v", start, tt.wantStart)
			}
			if !end.Equal(ts(t, tt.wantEnd)) {
				t.Errorf("Overlap end: got %v, want %v", end, tt.wantEnd)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestShortenModelName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"claude-opus-4-20250514", "Opus 4"},
		{"claude-sonnet-4-20250514", "Sonnet"},
		{"claude-3-5-haiku-20241022", "Haiku"},
		{"gpt-4o-mini", "4o"},
		{"mistral-large", "large"},
		{"plainname", "plainname"},
	}
	for _, tt := range tests {
		if got := ShortenModelName(tt.in); got != tt.want {
			t.Errorf("ShortenModelName(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDisplayModel(t *testing.T) {
	b := UsageBlock{Models: []string{"<synthetic>", "claude-sonnet-4-20250514"}}
	if got := b.DisplayModel(); got != "Sonnet" {
		t.Errorf("DisplayModel: got %q, want Sonnet", got)
	}

	b = UsageBlock{Models: []string{"<synthetic>"}}
	if got := b.DisplayModel(); got != "unknown" {
		t.Errorf("DisplayModel: got %q, want unknown", got)
	}
}

func TestActiveBlock(t *testing.T) {
	start := ts(t, "2025-06-01T10:00:00Z")
	blocks := []UsageBlock{
		{Start: start, IsGap: true, IsActive: true},
		{IsActive: true}, // malformed
		{Start: start, IsActive: true, TotalTokens: 42},
	}
	active, ok := ActiveBlock(blocks)
	if !ok {
		t.Fatal("ActiveBlock: got ok=false")
	}
	if active.TotalTokens != 42 {
		t.Errorf("ActiveBlock: got tokens %d, want 42", active.TotalTokens)
	}

	if _, ok := ActiveBlock(nil); ok {
		t.Error("ActiveBlock(nil): got ok=true")
	}
}

func TestBlocksPayloadDecode(t *testing.T) {
	raw := `{
		"blocks": [
			{
				"startTime": "2025-06-01T10:00:00.000Z",
				"actualEndTime": "2025-06-01T11:00:00.000Z",
				"isActive": false,
				"isGap": false,
				"totalTokens": 1234,
				"costUSD": 0.42,
				"models": ["claude-opus-4-20250514"],
				"tokenCounts": {"inputTokens": 1000, "outputTokens": 234}
			}
		]
	}`

	var payload BlocksPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(payload.Blocks) != 1 {
		t.Fatalf("blocks: got %d, want 1", len(payload.Blocks))
	}

	b := payload.Blocks[0]
	if b.TotalTokens != 1234 {
		t.Errorf("TotalTokens: got %d, want 1234", b.TotalTokens)
	}
	if b.ActualEnd == nil {
		t.Fatal("ActualEnd: got nil")
	}
	if b.TokenCounts.Total() != 1234 {
		t.Errorf("TokenCounts.Total: got %d, want 1234", b.TokenCounts.Total())
	}
}
