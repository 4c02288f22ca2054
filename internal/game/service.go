package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/Parth-Manav/Nightmare-fishing-bot/internal/store"
)

// Member is one entry from the external member directory.
type Member struct {
	ID          string
	DisplayName string
	RoleIDs     []string
}

// MemberDirectory is the external, paged member source. Implementations
// return at most limit members with IDs after afterID; a page shorter than
// limit ends the sequence.
type MemberDirectory interface {
	GuildMembers(ctx context.Context, guildID, afterID string, limit int) ([]Member, error)
}

// Notifier is the outbound sink for rendered summaries. Failures are
// reported back to the pipeline, which treats them as non-fatal but
// aborts destructive steps.
type Notifier interface {
	PostSummary(ctx context.Context, channelID string, sum *Summary) error
}

// Service implements the fishing game on top of the persistent store. All
// state transitions go through the store's access discipline; the guard
// additionally serializes whole rotations per guild.
type Service struct {
	store    *store.Store
	guard    *Guard
	notifier Notifier
	dir      MemberDirectory
	pageSize int
}

// NewService wires the game logic to its store and external collaborators.
// pageSize is the member directory's maximum page size.
func NewService(st *store.Store, notifier Notifier, dir MemberDirectory, pageSize int) *Service {
	return &Service{
		store:    st,
		guard:    NewGuard(),
		notifier: notifier,
		dir:      dir,
		pageSize: pageSize,
	}
}

// FishResult is what a successful catch reports back to the user.
type FishResult struct {
	Streak        int
	LongestStreak int
	TotalCatches  int
	DailyCount    int
}

// Fish performs the once-per-day catch for (guild, user) at time now.
// Returns ErrAlreadyFished if the user already fished today and
// ErrRotationInProgress while a rotation holds the guild's guard. The
// display name is refreshed on every catch.
func (s *Service) Fish(ctx context.Context, guildID, userID, username string, now time.Time) (FishResult, error) {
	today := DateOf(now)
	yesterday := DateOf(now.AddDate(0, 0, -1))

	var res FishResult
	err := s.store.Mutate(func(snap *store.Snapshot) error {
		// Checked under the store's write lock so a catch either lands
		// before the rotation reads the tally or is rejected outright;
		// it can never slip between the summary read and the reset.
		if s.guard.InProgress(guildID) {
			return ErrRotationInProgress
		}

		g := snap.Guild(guildID)

		// Roll the tally forward if the scheduled rotation never fired
		// for the previous date. A tally dated ahead of the calendar
		// (opened by a rotation earlier in the day) stays as is.
		if g.Today == nil || g.Today.Date < today {
			g.Today = store.NewDailyTally(today)
		}
		if _, ok := g.Today.Participants[userID]; ok {
			return ErrAlreadyFished
		}

		rec, ok := g.Users[userID]
		if !ok {
			rec = &store.UserRecord{
				Username:       username,
				Streak:         1,
				LongestStreak:  1,
				TotalCatches:   1,
				LastFishedDate: today,
			}
			g.Users[userID] = rec
		} else {
			switch rec.LastFishedDate {
			case today:
				return ErrAlreadyFished
			case yesterday:
				rec.Streak++
			default:
				rec.Streak = 1
			}
			if rec.Streak > rec.LongestStreak {
				rec.LongestStreak = rec.Streak
			}
			rec.Username = username
			rec.TotalCatches++
			rec.LastFishedDate = today
		}

		g.Today.Participants[userID] = now.UTC().Format(time.RFC3339)
		g.Today.Count++

		res = FishResult{
			Streak:        rec.Streak,
			LongestStreak: rec.LongestStreak,
			TotalCatches:  rec.TotalCatches,
			DailyCount:    g.Today.Count,
		}
		return nil
	})
	if err != nil {
		return FishResult{}, err
	}

	// A failed save never loses the in-memory update; the next save
	// trigger retries with the same state.
	if err := s.store.Save(ctx); err != nil {
		slog.Error("Failed to save after fish", "guild", guildID, "user", userID, "error", err)
	}
	return res, nil
}
