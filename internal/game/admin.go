package game

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Parth-Manav/Nightmare-fishing-bot/internal/store"
)

// Admin operations mutate a guild's config through the store and persist
// immediately. The config is created with defaults on first touch.

func (s *Service) updateConfig(ctx context.Context, guildID string, fn func(*store.GuildConfig)) error {
	err := s.store.Mutate(func(snap *store.Snapshot) error {
		fn(&snap.Guild(guildID).Config)
		return nil
	})
	if err != nil {
		return err
	}
	if err := s.store.Save(ctx); err != nil {
		slog.Error("Failed to save config change", "guild", guildID, "error", err)
	}
	return nil
}

// SetTrackedRole sets the role whose members are tracked for reminders.
func (s *Service) SetTrackedRole(ctx context.Context, guildID, roleID string) error {
	return s.updateConfig(ctx, guildID, func(cfg *store.GuildConfig) {
		cfg.TrackedRoleID = roleID
	})
}

// SetSummaryChannel sets where daily summaries are posted.
func (s *Service) SetSummaryChannel(ctx context.Context, guildID, channelID string) error {
	return s.updateConfig(ctx, guildID, func(cfg *store.GuildConfig) {
		cfg.SummaryChannelID = channelID
	})
}

// SetReminderMode switches between pinging inactive members and listing
// their display names.
func (s *Service) SetReminderMode(ctx context.Context, guildID string, mode store.ReminderMode) error {
	if mode != store.ReminderPing && mode != store.ReminderNickname {
		return fmt.Errorf("unknown reminder mode: %q", mode)
	}
	return s.updateConfig(ctx, guildID, func(cfg *store.GuildConfig) {
		cfg.ReminderMode = mode
	})
}

// SetReminderThreshold sets how many days of inactivity put a member on
// the reminder list.
func (s *Service) SetReminderThreshold(ctx context.Context, guildID string, days int) error {
	if days < 1 {
		return fmt.Errorf("reminder threshold must be at least 1 day, got %d", days)
	}
	return s.updateConfig(ctx, guildID, func(cfg *store.GuildConfig) {
		cfg.ReminderThresholdDays = days
	})
}

// SetBestAnglerStreak sets the minimum streak for the best-anglers board.
func (s *Service) SetBestAnglerStreak(ctx context.Context, guildID string, streak int) error {
	if streak < 1 {
		return fmt.Errorf("best angler streak must be at least 1, got %d", streak)
	}
	return s.updateConfig(ctx, guildID, func(cfg *store.GuildConfig) {
		cfg.BestAnglerStreak = streak
	})
}

// SetButtonMessage records where the current fish button lives so it can
// be cleaned up when a new one is posted.
func (s *Service) SetButtonMessage(ctx context.Context, guildID, channelID, messageID string) error {
	return s.updateConfig(ctx, guildID, func(cfg *store.GuildConfig) {
		cfg.ButtonChannelID = channelID
		cfg.ButtonMessageID = messageID
	})
}

// ButtonMessage returns the current fish button's channel and message IDs.
func (s *Service) ButtonMessage(guildID string) (channelID, messageID string) {
	s.store.Read(func(snap *store.Snapshot) {
		if g, ok := snap.Guilds[guildID]; ok {
			channelID = g.Config.ButtonChannelID
			messageID = g.Config.ButtonMessageID
		}
	})
	return channelID, messageID
}

// Config returns a copy of the guild's config, reporting whether the
// guild has been configured before.
func (s *Service) Config(guildID string) (store.GuildConfig, bool) {
	var (
		cfg store.GuildConfig
		ok  bool
	)
	s.store.Read(func(snap *store.Snapshot) {
		var g *store.GuildState
		if g, ok = snap.Guilds[guildID]; ok {
			cfg = g.Config
		}
	})
	return cfg, ok
}
