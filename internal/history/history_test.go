// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jeranaias/tokenwatch/internal/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err, "Open")
	t.Cleanup(func() { store.Close() })
	return store
}

func testSnapshot(takenAt time.Time, rate float64) Snapshot {
	return FromMetrics(engine.Metrics{
		TokenBurnRate: rate,
		CostBurnRate:  rate / 100,
		DailyCost:     1.5,
		TokensUsed:    3000,
		TokenCeiling:  7000,
	}, takenAt)
}

func TestAppendAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	recorded, err := store.Append(ctx, testSnapshot(base, 100))
	require.NoError(t, err, "Append")
	require.True(t, recorded, "first snapshot should be recorded")

	got, err := store.Recent(ctx, 10)
	require.NoError(t, err, "Recent")
	require.Len(t, got, 1)

	snap := got[0]
	require.Equal(t, float64(100), snap.TokenBurnRate)
	require.True(t, snap.TakenAt.Equal(base), "TakenAt round trip")
	require.NotEmpty(t, snap.ID)
}

func TestAppendRateLimited(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	recorded, err := store.Append(ctx, testSnapshot(now, 100))
	require.NoError(t, err)
	require.True(t, recorded)

	// An immediate second append is dropped by the limiter.
	recorded, err = store.Append(ctx, testSnapshot(now.Add(time.Second), 110))
	require.NoError(t, err)
	require.False(t, recorded, "second Append within a minute should be dropped")

	rows, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestSinceOrdering(t *testing.T) {
	store := openTestStore(t)
	// Bypass the limiter for multi-row fixtures.
	store.limiter.SetBurst(10)

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := store.Append(ctx, testSnapshot(base.Add(time.Duration(i)*time.Minute), float64(100+i)))
		require.NoError(t, err, "Append %d", i)
	}

	got, err := store.Since(ctx, base.Add(time.Minute))
	require.NoError(t, err, "Since")
	require.Len(t, got, 2)
	require.True(t, got[0].TakenAt.Before(got[1].TakenAt), "rows should be in ascending order")
}

func TestPrune(t *testing.T) {
	store := openTestStore(t)
	store.limiter.SetBurst(10)

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	old := testSnapshot(now.Add(-48*time.Hour), 50)
	fresh := testSnapshot(now.Add(-time.Hour), 120)
	for _, snap := range []Snapshot{old, fresh} {
		_, err := store.Append(ctx, snap)
		require.NoError(t, err, "Append")
	}

	removed, err := store.Prune(ctx, 24*time.Hour, now)
	require.NoError(t, err, "Prune")
	require.Equal(t, int64(1), removed)

	rows, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, float64(120), rows[0].TokenBurnRate)
}

func TestClosedStore(t *testing.T) {
	store := openTestStore(t)
	require.NoError(t, store.Close())

	_, err := store.Append(context.Background(), testSnapshot(time.Now(), 1))
	require.ErrorIs(t, err, ErrClosed, "Append after close")

	_, err = store.Recent(context.Background(), 1)
	require.ErrorIs(t, err, ErrClosed, "Recent after close")
}
