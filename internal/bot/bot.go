package bot

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Parth-Manav/Nightmare-fishing-bot/internal/config"
	"github.com/Parth-Manav/Nightmare-fishing-bot/internal/game"
	"github.com/Parth-Manav/Nightmare-fishing-bot/internal/sched"
	"github.com/Parth-Manav/Nightmare-fishing-bot/internal/store"
)

// Bot represents the Discord bot instance
type Bot struct {
	config    *config.Config
	session   *discordgo.Session
	store     *store.Store
	service   *game.Service
	scheduler *sched.Scheduler
	commands  []*discordgo.ApplicationCommand
}

// New creates a new Bot instance
func New(cfg *config.Config) (*Bot, error) {
	// Create Discord session
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	// Member listing needs the privileged members intent
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMembers

	// Initialize the persistent store; a corrupt file starts fresh
	// rather than keeping the bot down.
	st := store.New(cfg.DataPath, cfg.BackupDir)
	if err := st.Load(); err != nil {
		slog.Warn("Could not restore previous state, starting empty", "error", err)
	}

	service := game.NewService(
		st,
		&discordNotifier{session: session},
		&discordDirectory{session: session},
		cfg.MemberPageSize,
	)

	b := &Bot{
		config:  cfg,
		session: session,
		store:   st,
		service: service,
	}

	// Register command handlers
	b.registerHandlers()

	return b, nil
}

// Start opens the Discord connection, registers slash commands and starts
// the daily rotation schedule
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	slog.Info("Connected to Discord", "user", b.session.State.User.Username)

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	scheduler, err := sched.New(b.config.ResetSchedule, func() {
		rotCtx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		b.service.RunRotationAll(rotCtx, time.Now())
	})
	if err != nil {
		return fmt.Errorf("invalid rotation schedule %q: %w", b.config.ResetSchedule, err)
	}
	b.scheduler = scheduler
	b.scheduler.Start()

	return nil
}

// Stop gracefully shuts down the bot
func (b *Bot) Stop() error {
	if b.scheduler != nil {
		b.scheduler.Stop()
	}

	// Final checkpoint before exit.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := b.store.Save(ctx); err != nil {
		slog.Error("Failed to save state on shutdown", "error", err)
	}

	if b.session != nil {
		return b.session.Close()
	}
	return nil
}

// registerHandlers sets up Discord event handlers
func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Bot is ready", "guilds", len(r.Guilds))
	})
}

// handleInteraction processes slash command and button interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionMessageComponent:
		b.handleComponent(s, i)
	case discordgo.InteractionApplicationCommand:
		data := i.ApplicationCommandData()
		slog.Debug("Received command", "command", data.Name, "guild", i.GuildID)

		switch data.Name {
		case "fish":
			b.handleFish(s, i)
		case "summary":
			b.handleSummary(s, i)
		case "fishsetup":
			b.handleFishSetup(s, i)
		case "fishsummary":
			b.handleFishSummary(s, i)
		case "setrole":
			b.handleSetRole(s, i)
		case "setsummarychannel":
			b.handleSetSummaryChannel(s, i)
		case "settogglereminder":
			b.handleToggleReminder(s, i)
		case "setreminderthreshold":
			b.handleSetReminderThreshold(s, i)
		case "setbestanglerstreak":
			b.handleSetBestAnglerStreak(s, i)
		default:
			slog.Warn("Unknown command", "command", data.Name)
		}
	}
}
