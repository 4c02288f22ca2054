package game

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	"github.com/Parth-Manav/Nightmare-fishing-bot/internal/store"
)

// Angler is one leaderboard entry.
type Angler struct {
	UserID       string
	Username     string
	Streak       int
	TotalCatches int
}

// InactiveMember is a tracked-role member who has not fished for at least
// the guild's reminder threshold.
type InactiveMember struct {
	UserID      string
	DisplayName string
}

// Summary is the rendered-payload input for the notification sink: the
// day's totals, the participant ordering, the best-angler board and the
// reminder list.
type Summary struct {
	GuildID          string
	Date             string
	DailyCount       int
	Participants     []string
	BestAnglers      []Angler
	BestAnglerStreak int
	Inactive         []InactiveMember
	ReminderMode     store.ReminderMode
}

// Summarize computes today's summary for the guild and, if a summary
// channel is configured, posts it through the notifier. It is read-only:
// no store mutation, no backup, no reset.
func (s *Service) Summarize(ctx context.Context, guildID string, now time.Time) (*Summary, error) {
	date := DateOf(now)

	var (
		cfg          store.GuildConfig
		dailyCount   int
		participants []string
		anglers      []Angler
		lastFished   map[string]string
	)
	s.store.Read(func(snap *store.Snapshot) {
		g, ok := snap.Guilds[guildID]
		if !ok {
			cfg = store.GuildConfig{GuildID: guildID}
			return
		}
		cfg = g.Config
		if g.Today != nil {
			// The day being reported is the tally's own date, not the
			// trigger time's: a midnight rotation summarizes the day
			// that just ended.
			date = g.Today.Date
			dailyCount = g.Today.Count
			for userID := range g.Today.Participants {
				participants = append(participants, userID)
			}
		}
		lastFished = make(map[string]string, len(g.Users))
		for userID, rec := range g.Users {
			lastFished[userID] = rec.LastFishedDate
			if cfg.BestAnglerStreak > 0 && rec.Streak >= cfg.BestAnglerStreak {
				anglers = append(anglers, Angler{
					UserID:       userID,
					Username:     rec.Username,
					Streak:       rec.Streak,
					TotalCatches: rec.TotalCatches,
				})
			}
		}
	})

	// Every participant contributed exactly one catch, so the ranking
	// falls through to the deterministic tie-break: lower user ID first.
	slices.SortFunc(participants, compareID)

	// Streak desc, then lifetime catches desc, then lower ID.
	sort.Slice(anglers, func(i, j int) bool {
		if anglers[i].Streak != anglers[j].Streak {
			return anglers[i].Streak > anglers[j].Streak
		}
		if anglers[i].TotalCatches != anglers[j].TotalCatches {
			return anglers[i].TotalCatches > anglers[j].TotalCatches
		}
		return compareID(anglers[i].UserID, anglers[j].UserID) < 0
	})

	sum := &Summary{
		GuildID:          guildID,
		Date:             date,
		DailyCount:       dailyCount,
		Participants:     participants,
		BestAnglers:      anglers,
		BestAnglerStreak: cfg.BestAnglerStreak,
		ReminderMode:     cfg.ReminderMode,
	}

	if cfg.TrackedRoleID != "" {
		inactive, err := s.collectInactive(ctx, guildID, cfg, date, participants, lastFished)
		if err != nil {
			return nil, fmt.Errorf("failed to scan members for summary: %w", err)
		}
		sum.Inactive = inactive
	}

	if cfg.SummaryChannelID == "" {
		slog.Debug("No summary channel configured, skipping post", "guild", guildID)
		return sum, nil
	}
	if err := s.notifier.PostSummary(ctx, cfg.SummaryChannelID, sum); err != nil {
		return nil, fmt.Errorf("failed to post summary: %w", err)
	}
	return sum, nil
}

// collectInactive pages through the member directory and keeps every
// tracked-role member who did not fish on the reported date and whose gap
// since their last catch meets the reminder threshold. Members with no
// record at all count as inactive.
func (s *Service) collectInactive(ctx context.Context, guildID string, cfg store.GuildConfig, date string, participants []string, lastFished map[string]string) ([]InactiveMember, error) {
	fishedToday := make(map[string]bool, len(participants))
	for _, id := range participants {
		fishedToday[id] = true
	}

	var inactive []InactiveMember
	pager := NewPager(s.dir, guildID, s.pageSize)
	err := pager.Each(ctx, func(m Member) error {
		if !slices.Contains(m.RoleIDs, cfg.TrackedRoleID) || fishedToday[m.ID] {
			return nil
		}
		gap := cfg.ReminderThresholdDays
		if last, ok := lastFished[m.ID]; ok {
			gap = DaysBetween(last, date)
		}
		if gap >= cfg.ReminderThresholdDays {
			inactive = append(inactive, InactiveMember{UserID: m.ID, DisplayName: m.DisplayName})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(inactive, func(a, b InactiveMember) int {
		return compareID(a.UserID, b.UserID)
	})
	return inactive, nil
}

// InactiveToday lists every tracked-role member who has not fished today,
// regardless of the reminder threshold. Used by the ad-hoc admin query.
func (s *Service) InactiveToday(ctx context.Context, guildID string, now time.Time) ([]InactiveMember, error) {
	today := DateOf(now)

	var cfg store.GuildConfig
	fishedToday := make(map[string]bool)
	s.store.Read(func(snap *store.Snapshot) {
		g, ok := snap.Guilds[guildID]
		if !ok {
			return
		}
		cfg = g.Config
		// Keyed off the user records rather than the tally so the answer
		// holds even right after a rotation replaced the tally.
		for userID, rec := range g.Users {
			if rec.LastFishedDate == today {
				fishedToday[userID] = true
			}
		}
	})
	if cfg.TrackedRoleID == "" {
		return nil, ErrNoTrackedRole
	}

	var inactive []InactiveMember
	pager := NewPager(s.dir, guildID, s.pageSize)
	err := pager.Each(ctx, func(m Member) error {
		if slices.Contains(m.RoleIDs, cfg.TrackedRoleID) && !fishedToday[m.ID] {
			inactive = append(inactive, InactiveMember{UserID: m.ID, DisplayName: m.DisplayName})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortFunc(inactive, func(a, b InactiveMember) int {
		return compareID(a.UserID, b.UserID)
	})
	return inactive, nil
}

// compareID orders Discord snowflake IDs numerically: shorter strings are
// smaller, equal lengths compare lexicographically.
func compareID(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
