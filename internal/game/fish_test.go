package game

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Parth-Manav/Nightmare-fishing-bot/internal/store"
)

func TestFishFirstCatch(t *testing.T) {
	svc, _ := newTestService(t, nil, nil, 10)

	res, err := svc.Fish(context.Background(), "g1", "u1", "Maya", day(0))
	require.NoError(t, err)

	assert.Equal(t, 1, res.Streak)
	assert.Equal(t, 1, res.LongestStreak)
	assert.Equal(t, 1, res.TotalCatches)
	assert.Equal(t, 1, res.DailyCount)
}

func TestFishConsecutiveDaysExtendStreak(t *testing.T) {
	svc, _ := newTestService(t, nil, nil, 10)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := svc.Fish(ctx, "g1", "u1", "Maya", day(i))
		require.NoError(t, err)
		assert.Equal(t, i+1, res.Streak, "day %d", i)
		assert.Equal(t, i+1, res.LongestStreak, "day %d", i)
	}
}

func TestFishGapResetsStreak(t *testing.T) {
	svc, _ := newTestService(t, nil, nil, 10)
	ctx := context.Background()

	// Day 1, day 2, skip day 3, day 4.
	_, err := svc.Fish(ctx, "g1", "u1", "Maya", day(0))
	require.NoError(t, err)
	res, err := svc.Fish(ctx, "g1", "u1", "Maya", day(1))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Streak)

	res, err = svc.Fish(ctx, "g1", "u1", "Maya", day(3))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Streak, "gap > 1 day must reset the streak")
	assert.Equal(t, 2, res.LongestStreak, "longest streak survives the break")
	assert.Equal(t, 3, res.TotalCatches)
}

func TestFishAtMostOncePerDay(t *testing.T) {
	svc, st := newTestService(t, nil, nil, 10)
	ctx := context.Background()

	_, err := svc.Fish(ctx, "g1", "u1", "Maya", day(0))
	require.NoError(t, err)

	_, err = svc.Fish(ctx, "g1", "u1", "Maya", day(0))
	assert.ErrorIs(t, err, ErrAlreadyFished)

	st.Read(func(snap *store.Snapshot) {
		g := snap.Guilds["g1"]
		assert.Equal(t, 1, g.Today.Count)
		assert.Equal(t, 1, g.Users["u1"].TotalCatches)
		assert.Len(t, g.Today.Participants, 1)
	})
}

func TestFishConcurrentSameUserSingleWinner(t *testing.T) {
	svc, st := newTestService(t, nil, nil, 10)
	ctx := context.Background()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Fish(ctx, "g1", "u1", "Maya", day(0))
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assert.ErrorIs(t, err, ErrAlreadyFished)
		}
	}
	assert.Equal(t, 1, successes)

	st.Read(func(snap *store.Snapshot) {
		g := snap.Guilds["g1"]
		assert.Equal(t, 1, g.Today.Count)
		assert.Equal(t, 1, g.Users["u1"].Streak)
		assert.Equal(t, 1, g.Users["u1"].TotalCatches)
	})
}

func TestFishRejectedWhileRotationHoldsGuard(t *testing.T) {
	svc, _ := newTestService(t, nil, nil, 10)
	ctx := context.Background()

	release, ok := svc.guard.TryAcquire("g1")
	require.True(t, ok)

	_, err := svc.Fish(ctx, "g1", "u1", "Maya", day(0))
	assert.ErrorIs(t, err, ErrRotationInProgress)

	// Another guild is unaffected.
	_, err = svc.Fish(ctx, "g2", "u1", "Maya", day(0))
	assert.NoError(t, err)

	release()
	_, err = svc.Fish(ctx, "g1", "u1", "Maya", day(0))
	assert.NoError(t, err)
}

func TestFishRollsTallyForwardAfterMissedRotation(t *testing.T) {
	svc, st := newTestService(t, nil, nil, 10)
	ctx := context.Background()

	_, err := svc.Fish(ctx, "g1", "u1", "Maya", day(0))
	require.NoError(t, err)
	_, err = svc.Fish(ctx, "g1", "u2", "Remy", day(0))
	require.NoError(t, err)

	// No rotation ran overnight; the first fish of the new day replaces
	// the stale tally.
	res, err := svc.Fish(ctx, "g1", "u1", "Maya", day(1))
	require.NoError(t, err)
	assert.Equal(t, 1, res.DailyCount)

	st.Read(func(snap *store.Snapshot) {
		g := snap.Guilds["g1"]
		assert.Equal(t, DateOf(day(1)), g.Today.Date)
		assert.Len(t, g.Today.Participants, 1)
		assert.Contains(t, g.Today.Participants, "u1")
	})
}

func TestFishUpdatesUsername(t *testing.T) {
	svc, st := newTestService(t, nil, nil, 10)
	ctx := context.Background()

	_, err := svc.Fish(ctx, "g1", "u1", "OldNick", day(0))
	require.NoError(t, err)
	_, err = svc.Fish(ctx, "g1", "u1", "NewNick", day(1))
	require.NoError(t, err)

	st.Read(func(snap *store.Snapshot) {
		assert.Equal(t, "NewNick", snap.Guilds["g1"].Users["u1"].Username)
	})
}

func TestFishPersistsAcrossRestart(t *testing.T) {
	tmp := t.TempDir()
	dataPath := filepath.Join(tmp, "fishing_data.json")
	backupDir := filepath.Join(tmp, "backups")
	st := store.New(dataPath, backupDir)
	svc := NewService(st, &fakeNotifier{}, &fakeDirectory{}, 10)
	ctx := context.Background()

	_, err := svc.Fish(ctx, "g1", "u1", "Maya", day(0))
	require.NoError(t, err)

	// Reload from the file the fish action saved.
	restored := store.New(dataPath, backupDir)
	require.NoError(t, restored.Load())
	restored.Read(func(snap *store.Snapshot) {
		require.Contains(t, snap.Guilds, "g1")
		assert.Equal(t, 1, snap.Guilds["g1"].Users["u1"].Streak)
		assert.Equal(t, 1, snap.Guilds["g1"].Today.Count)
	})
}
