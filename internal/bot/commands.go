package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Parth-Manav/Nightmare-fishing-bot/internal/game"
	"github.com/Parth-Manav/Nightmare-fishing-bot/internal/store"
)

var adminOnly int64 = discordgo.PermissionAdministrator

const (
	alreadyFishedReply = "❌ You've already fished today! Come back tomorrow."
	rotationBusyReply  = "🔄 The daily reset is running right now. Try again shortly!"
)

// Slash command definitions
func (b *Bot) getCommandDefinitions() []*discordgo.ApplicationCommand {
	minOne := float64(1)
	return []*discordgo.ApplicationCommand{
		{
			Name:        "fish",
			Description: "Cast your line and catch a fish!",
		},
		{
			Name:        "summary",
			Description: "Post the daily summary to the configured channel",
		},
		{
			Name:                     "fishsetup",
			Description:              "Set up the fishing pond (creates the fish button)",
			DefaultMemberPermissions: &adminOnly,
		},
		{
			Name:                     "fishsummary",
			Description:              "List tracked-role members who have not fished today",
			DefaultMemberPermissions: &adminOnly,
		},
		{
			Name:                     "setrole",
			Description:              "Set the role to track for fishing statistics",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "role",
					Description: "The role to track",
					Required:    true,
				},
			},
		},
		{
			Name:                     "setsummarychannel",
			Description:              "Post daily summaries in this channel",
			DefaultMemberPermissions: &adminOnly,
		},
		{
			Name:                     "settogglereminder",
			Description:              "Enable or disable pinging members in the daily reminder",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionBoolean,
					Name:        "enabled",
					Description: "true to ping members, false to list nicknames instead",
					Required:    true,
				},
			},
		},
		{
			Name:                     "setreminderthreshold",
			Description:              "Days of inactivity before a member is reminded",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "days",
					Description: "Number of days (e.g., 1 for daily, 3 for every 3 days)",
					Required:    true,
					MinValue:    &minOne,
				},
			},
		},
		{
			Name:                     "setbestanglerstreak",
			Description:              "Set the minimum streak for the Best Anglers list",
			DefaultMemberPermissions: &adminOnly,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "streak",
					Description: "The minimum streak required (e.g., 5)",
					Required:    true,
					MinValue:    &minOne,
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	slog.Info("Registering slash commands")

	commandDefinitions := b.getCommandDefinitions()
	registeredCommands := make([]*discordgo.ApplicationCommand, 0, len(commandDefinitions))

	for _, cmd := range commandDefinitions {
		registered, err := b.session.ApplicationCommandCreate(
			b.session.State.User.ID,
			"", // Empty string = global command
			cmd,
		)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		registeredCommands = append(registeredCommands, registered)
		slog.Debug("Registered command", "name", cmd.Name)
	}

	b.commands = registeredCommands
	slog.Info("Slash commands registered", "count", len(registeredCommands))
	return nil
}

// handleFish handles the /fish command
func (b *Bot) handleFish(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		respondEphemeral(s, i, "❌ This command can only be used in a server.")
		return
	}

	username := memberDisplayName(i.Member)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := b.service.Fish(ctx, i.GuildID, i.Member.User.ID, username, time.Now())
	if err != nil {
		b.respondFishError(s, i, err)
		return
	}

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{catchEmbed(username, i.Member.User, res)},
		},
	})
}

func (b *Bot) respondFishError(s *discordgo.Session, i *discordgo.InteractionCreate, err error) {
	switch {
	case errors.Is(err, game.ErrAlreadyFished):
		respondEphemeral(s, i, alreadyFishedReply)
	case errors.Is(err, game.ErrRotationInProgress):
		respondEphemeral(s, i, rotationBusyReply)
	default:
		slog.Error("Fish action failed", "guild", i.GuildID, "error", err)
		respondEphemeral(s, i, "❌ Something went wrong. Please try again.")
	}
}

func catchEmbed(username string, user *discordgo.User, res game.FishResult) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "🎣 Catch of the Day!",
		Description: fmt.Sprintf("**%s** cast their line and caught a fish! 🐟", username),
		Color:       catchColor,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: user.AvatarURL("")},
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Stardust Pond"},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🔥 Streak", Value: fmt.Sprintf("%d Days", res.Streak), Inline: true},
			{Name: "✨ Total Catches", Value: fmt.Sprintf("%d", res.TotalCatches), Inline: true},
			{Name: "🌍 Total Catches Today", Value: fmt.Sprintf("%d", res.DailyCount), Inline: true},
		},
	}
}

// handleSummary handles the /summary command
func (b *Bot) handleSummary(s *discordgo.Session, i *discordgo.InteractionCreate) {
	deferEphemeral(s, i)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := b.service.Summarize(ctx, i.GuildID, time.Now()); err != nil {
		slog.Error("Summary failed", "guild", i.GuildID, "error", err)
		editResponse(s, i, "❌ Failed to post the summary. Please try again.")
		return
	}
	editResponse(s, i, "✅ Summary posted (check the configured channel if set)")
}

// handleFishSetup handles the /fishsetup command
func (b *Bot) handleFishSetup(s *discordgo.Session, i *discordgo.InteractionCreate) {
	msg, err := s.ChannelMessageSendComplex(i.ChannelID, fishButtonMessage())
	if err != nil {
		slog.Error("Failed to post fish button", "guild", i.GuildID, "error", err)
		respondEphemeral(s, i, "❌ Could not post the fish button in this channel.")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.service.SetButtonMessage(ctx, i.GuildID, i.ChannelID, msg.ID); err != nil {
		slog.Error("Failed to save button location", "guild", i.GuildID, "error", err)
	}

	respondEphemeral(s, i, "✅ The pond is open! Members can now fish with the button below.")
}

// handleFishSummary handles the /fishsummary command
func (b *Bot) handleFishSummary(s *discordgo.Session, i *discordgo.InteractionCreate) {
	deferEphemeral(s, i)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	inactive, err := b.service.InactiveToday(ctx, i.GuildID, time.Now())
	if err != nil {
		if errors.Is(err, game.ErrNoTrackedRole) {
			editResponse(s, i, "❌ No role is being tracked. Use `/setrole` to set one.")
			return
		}
		slog.Error("Failed to list non-fishers", "guild", i.GuildID, "error", err)
		editResponse(s, i, "❌ Failed to fetch the member list. Please try again.")
		return
	}

	if len(inactive) == 0 {
		editResponse(s, i, "🎉 All members of the tracked role have fished today!")
		return
	}

	mentions := make([]string, len(inactive))
	for idx, m := range inactive {
		mentions[idx] = fmt.Sprintf("<@%s>", m.UserID)
	}
	editResponse(s, i, truncateList("**Members who have not fished today:**\n", mentions, "\n"))
}

// handleSetRole handles the /setrole command
func (b *Bot) handleSetRole(s *discordgo.Session, i *discordgo.InteractionCreate) {
	role := i.ApplicationCommandData().Options[0].RoleValue(s, i.GuildID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.service.SetTrackedRole(ctx, i.GuildID, role.ID); err != nil {
		slog.Error("Failed to set tracked role", "guild", i.GuildID, "error", err)
		respondEphemeral(s, i, "❌ Failed to save the tracked role. Please try again.")
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("✅ Now tracking the **%s** role for fishing statistics!", role.Name))
}

// handleSetSummaryChannel handles the /setsummarychannel command
func (b *Bot) handleSetSummaryChannel(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.service.SetSummaryChannel(ctx, i.GuildID, i.ChannelID); err != nil {
		slog.Error("Failed to set summary channel", "guild", i.GuildID, "error", err)
		respondEphemeral(s, i, "❌ Failed to save the summary channel. Please try again.")
		return
	}

	respondEphemeral(s, i, "✅ Daily summaries will be posted in this channel!")
}

// handleToggleReminder handles the /settogglereminder command
func (b *Bot) handleToggleReminder(s *discordgo.Session, i *discordgo.InteractionCreate) {
	enabled := i.ApplicationCommandData().Options[0].BoolValue()
	mode := store.ReminderNickname
	if enabled {
		mode = store.ReminderPing
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.service.SetReminderMode(ctx, i.GuildID, mode); err != nil {
		slog.Error("Failed to set reminder mode", "guild", i.GuildID, "error", err)
		respondEphemeral(s, i, "❌ Failed to save the reminder setting. Please try again.")
		return
	}

	state := "DISABLED"
	if enabled {
		state = "ENABLED"
	}
	respondEphemeral(s, i, fmt.Sprintf("✅ Daily reminder pings have been %s.", state))
}

// handleSetReminderThreshold handles the /setreminderthreshold command
func (b *Bot) handleSetReminderThreshold(s *discordgo.Session, i *discordgo.InteractionCreate) {
	days := int(i.ApplicationCommandData().Options[0].IntValue())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.service.SetReminderThreshold(ctx, i.GuildID, days); err != nil {
		slog.Error("Failed to set reminder threshold", "guild", i.GuildID, "error", err)
		respondEphemeral(s, i, "❌ Failed to save the threshold. Please try again.")
		return
	}

	respondEphemeral(s, i, fmt.Sprintf(
		"✅ Inactivity threshold set to **%d days**. Members will be reminded if they haven't fished for %d days or more.",
		days, days))
}

// handleSetBestAnglerStreak handles the /setbestanglerstreak command
func (b *Bot) handleSetBestAnglerStreak(s *discordgo.Session, i *discordgo.InteractionCreate) {
	streak := int(i.ApplicationCommandData().Options[0].IntValue())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.service.SetBestAnglerStreak(ctx, i.GuildID, streak); err != nil {
		slog.Error("Failed to set best angler streak", "guild", i.GuildID, "error", err)
		respondEphemeral(s, i, "❌ Failed to save the setting. Please try again.")
		return
	}

	respondEphemeral(s, i, fmt.Sprintf("✅ Best Angler minimum streak set to **%d** days.", streak))
}

// Helper functions

func memberDisplayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User != nil {
		return m.User.Username
	}
	return ""
}

func respondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func deferEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})
}

func editResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
}
