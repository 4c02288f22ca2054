package bot

import (
	"context"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
)

const fishButtonID = "fish_button"

// fishButtonMessage builds the pond message with the fish button.
func fishButtonMessage() *discordgo.MessageSend {
	return &discordgo.MessageSend{
		Content: "🎣 Welcome to Stardust Pond — click to fish!",
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						CustomID: fishButtonID,
						Label:    "🎣 Fish!",
						Style:    discordgo.PrimaryButton,
					},
				},
			},
		},
	}
}

// handleComponent processes fish button presses. A press runs the same
// fish action as the slash command, then reposts a fresh button at the
// bottom of the channel and deletes the old one.
func (b *Bot) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.MessageComponentData().CustomID != fishButtonID {
		return
	}
	if i.Member == nil {
		respondEphemeral(s, i, "❌ This button can only be used in a server.")
		return
	}

	username := memberDisplayName(i.Member)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	oldChannelID, oldMessageID := b.service.ButtonMessage(i.GuildID)

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

	// Keep the button as the most recent message in the channel.
	newMsg, err := s.ChannelMessageSendComplex(i.ChannelID, fishButtonMessage())
	if err != nil {
		slog.Error("Failed to repost fish button", "guild", i.GuildID, "error", err)
		return
	}
	if err := b.service.SetButtonMessage(ctx, i.GuildID, i.ChannelID, newMsg.ID); err != nil {
		slog.Error("Failed to save button location", "guild", i.GuildID, "error", err)
	}

	if oldChannelID != "" && oldMessageID != "" {
		// Best effort; the old message may already be gone.
		if err := s.ChannelMessageDelete(oldChannelID, oldMessageID); err != nil {
			slog.Debug("Could not delete old button message", "guild", i.GuildID, "error", err)
		}
	}
}
