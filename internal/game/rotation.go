package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Parth-Manav/Nightmare-fishing-bot/internal/store"
)

// RunRotationAll rotates every known guild independently. One guild's
// failure does not stop the others.
func (s *Service) RunRotationAll(ctx context.Context, now time.Time) {
	var guildIDs []string
	s.store.Read(func(snap *store.Snapshot) {
		for id := range snap.Guilds {
			guildIDs = append(guildIDs, id)
		}
	})

	for _, guildID := range guildIDs {
		if err := s.RunRotation(ctx, guildID, now); err != nil {
			slog.Error("Rotation failed", "guild", guildID, "error", err)
		}
	}
}

// RunRotation executes the ordered Summary -> Backup -> Reset sequence for
// one guild, exactly once. A concurrent invocation for the same guild
// observes ErrRotationInProgress and performs no mutation. If the summary
// or the backup fails, Reset does not run: a destructive reset without a
// durable checkpoint would lose the day's data.
func (s *Service) RunRotation(ctx context.Context, guildID string, now time.Time) error {
	release, ok := s.guard.TryAcquire(guildID)
	if !ok {
		slog.Warn("Rotation already in progress, skipping duplicate trigger", "guild", guildID)
		return ErrRotationInProgress
	}
	defer release()

	slog.Info("Starting daily rotation", "guild", guildID, "date", DateOf(now))

	if _, err := s.Summarize(ctx, guildID, now); err != nil {
		return fmt.Errorf("summary step failed: %w", err)
	}

	// Durable checkpoint of the day about to end, before anything
	// destructive.
	if err := s.store.Save(ctx); err != nil {
		return fmt.Errorf("backup step failed: %w", err)
	}
	if err := s.store.Backup(ctx); err != nil {
		return fmt.Errorf("backup step failed: %w", err)
	}

	err := s.store.Mutate(func(snap *store.Snapshot) error {
		g := snap.Guild(guildID)
		closed := ""
		if g.Today != nil {
			closed = g.Today.Date
		}
		g.Today = store.NewDailyTally(nextGameDate(closed, now))
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset step failed: %w", err)
	}

	if err := s.store.Save(ctx); err != nil {
		slog.Error("Failed to persist reset state, retrying on next save", "guild", guildID, "error", err)
	}

	slog.Info("Daily rotation complete", "guild", guildID)
	return nil
}
