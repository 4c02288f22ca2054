package bot

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"

	"github.com/Parth-Manav/Nightmare-fishing-bot/internal/game"
	"github.com/Parth-Manav/Nightmare-fishing-bot/internal/store"
)

const (
	summaryColor = 0xFFD700
	catchColor   = 0x0099FF

	// Reminder content is clamped under Discord's 2000-char message limit.
	pingSoftLimit = 1850
	pingHardLimit = 1800
)

// discordNotifier renders summaries into Discord embeds and sends them to
// the configured channel.
type discordNotifier struct {
	session *discordgo.Session
}

func (n *discordNotifier) PostSummary(ctx context.Context, channelID string, sum *game.Summary) error {
	embed := &discordgo.MessageEmbed{
		Title:       "🐠 Daily Guild Aquarium Contributions",
		Description: "Here is how the pond is doing today!",
		Color:       summaryColor,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Stardust Pond Daily Summary"},
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "🎣 Total Catches Today",
				Value:  fmt.Sprintf("**%d**", sum.DailyCount),
				Inline: true,
			},
			{
				Name:   "😴 Members Missed",
				Value:  fmt.Sprintf("**%d**", len(sum.Inactive)),
				Inline: true,
			},
		},
	}

	if len(sum.BestAnglers) > 0 {
		var sb strings.Builder
		for i, angler := range sum.BestAnglers {
			if i >= 10 {
				break
			}
			fmt.Fprintf(&sb, "🏆 **%s**: %d 🐟 (%d day streak)\n",
				angler.Username, angler.TotalCatches, angler.Streak)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("🔥 Best Anglers (%d+ Day Streak)", sum.BestAnglerStreak),
			Value: sb.String(),
		})
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Message",
		Value: "We miss you ❤️ \nPlease remember to fish daily 🙏🏻 Many lovely cats, cosmic dolphins and diamond rewards await us all 💎✨",
	})

	msg := &discordgo.MessageSend{
		Embed:   embed,
		Content: reminderContent(sum),
	}
	_, err := n.session.ChannelMessageSendComplex(channelID, msg, discordgo.WithContext(ctx))
	return err
}

// reminderContent renders the inactive-member list: mentions in ping mode,
// display names otherwise, truncated to fit in one message.
func reminderContent(sum *game.Summary) string {
	if len(sum.Inactive) == 0 {
		return ""
	}

	if sum.ReminderMode == store.ReminderNickname {
		names := make([]string, len(sum.Inactive))
		for i, m := range sum.Inactive {
			names[i] = m.DisplayName
		}
		return truncateList("**Wake up! You haven't fished in a while!** 🎣\n", names, ", ")
	}

	mentions := make([]string, len(sum.Inactive))
	for i, m := range sum.Inactive {
		mentions[i] = fmt.Sprintf("<@%s>", m.UserID)
	}
	return truncateList("**Wake up! You haven't fished in a while!** 🎣\n", mentions, " ")
}

// truncateList joins items after the header, clamping the result and
// appending an "...and N others" tail when it would exceed the limit.
func truncateList(header string, items []string, sep string) string {
	joined := strings.Join(items, sep)
	if len(joined) <= pingSoftLimit {
		return header + joined
	}

	cut := pingHardLimit
	if idx := strings.LastIndex(joined[:cut], sep); idx > 0 {
		cut = idx
	} else {
		// No separator in range: back off to a rune boundary so the cut
		// never splits a multi-byte name.
		for cut > 0 && !utf8.RuneStart(joined[cut]) {
			cut--
		}
	}
	kept := strings.Count(joined[:cut], sep) + 1
	return fmt.Sprintf("%s%s ...and %d others", header, joined[:cut], len(items)-kept)
}

// discordDirectory adapts discordgo's guild member listing to the game's
// paged member directory.
type discordDirectory struct {
	session *discordgo.Session
}

func (d *discordDirectory) GuildMembers(ctx context.Context, guildID, afterID string, limit int) ([]game.Member, error) {
	members, err := d.session.GuildMembers(guildID, afterID, limit, discordgo.WithContext(ctx))
	if err != nil {
		return nil, err
	}

	out := make([]game.Member, 0, len(members))
	for _, m := range members {
		if m.User == nil {
			continue
		}
		out = append(out, game.Member{
			ID:          m.User.ID,
			DisplayName: displayName(m),
			RoleIDs:     m.Roles,
		})
	}
	return out, nil
}

func displayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	return m.User.Username
}
