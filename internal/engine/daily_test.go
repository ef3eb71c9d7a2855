// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package engine

import (
	"testing"
	"time"

	"github.com/jeranaias/tokenwatch/internal/model"
)

func TestDailyCost(t *testing.T) {
	now := mustUTC(t, "2025-06-01T12:00:00Z")

	tests := []struct {
		name   string
		blocks []model.UsageBlock
		loc    *time.Location
		want   float64
	}{
		{
			name: "block starting today counts in full",
			blocks: []model.UsageBlock{
				{
					Start:     mustUTC(t, "2025-06-01T01:00:00Z"),
					ActualEnd: ptr(mustUTC(t, "2025-06-01T03:00:00Z")),
					CostUSD:   2.50,
				},
			},
			loc:  time.UTC,
			want: 2.50,
		},
		{
			name: "block straddling midnight counted once, not split",
			blocks: []model.UsageBlock{
				{
					Start:     mustUTC(t, "2025-05-31T23:00:00Z"),
					ActualEnd: ptr(mustUTC(t, "2025-06-01T01:00:00Z")),
					CostUSD:   4.00,
				},
			},
			loc:  time.UTC,
			want: 4.00,
		},
		{
			name: "yesterday's block excluded",
			blocks: []model.UsageBlock{
				{
					Start:     mustUTC(t, "2025-05-31T10:00:00Z"),
					ActualEnd: ptr(mustUTC(t, "2025-05-31T12:00:00Z")),
					CostUSD:   9.00,
				},
			},
			loc:  time.UTC,
			want: 0,
		},
		{
			name: "active block counts via effective end",
			blocks: []model.UsageBlock{
				{
					Start:    mustUTC(t, "2025-05-31T22:00:00Z"),
					IsActive: true,
					CostUSD:  1.25,
				},
			},
			loc:  time.UTC,
			want: 1.25,
		},
		{
			name: "gap blocks excluded",
			blocks: []model.UsageBlock{
				{
					Start:   mustUTC(t, "2025-06-01T02:00:00Z"),
					IsGap:   true,
					CostUSD: 3.00,
				},
			},
			loc:  time.UTC,
			want: 0,
		},
		{
			name: "membership follows the target timezone",
			blocks: []model.UsageBlock{
				// 23:30 UTC on May 31 is already June 1 in Warsaw.
				{
					Start:     mustUTC(t, "2025-05-31T23:30:00Z"),
					ActualEnd: ptr(mustUTC(t, "2025-05-31T23:45:00Z")),
					CostUSD:   5.00,
				},
			},
			loc:  mustLoadLocation(t, "Europe/Warsaw"),
			want: 5.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DailyCost(tt.blocks, now, tt.loc)
			if !approxEqual(got, tt.want) {
				t.Errorf("DailyCost: got %v, want %v", got, tt.want)
			}
		})
	}
}

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return loc
}
