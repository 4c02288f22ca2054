package store

// ReminderMode controls how inactive members are addressed in the daily
// summary: mentioned directly, or listed by display name.
type ReminderMode string

const (
	ReminderPing     ReminderMode = "ping"
	ReminderNickname ReminderMode = "nickname"
)

const (
	defaultReminderThreshold = 1
	defaultBestAnglerStreak  = 5
)

// GuildConfig stores per-server configuration. It is created lazily the
// first time an admin command touches the guild.
type GuildConfig struct {
	GuildID          string `json:"guildId"`
	TrackedRoleID    string `json:"trackedRoleId,omitempty"`
	SummaryChannelID string `json:"summaryChannelId,omitempty"`
	ButtonMessageID  string `json:"buttonMessageId,omitempty"`
	ButtonChannelID  string `json:"buttonChannelId,omitempty"`

	ReminderMode          ReminderMode `json:"reminderMode"`
	ReminderThresholdDays int          `json:"reminderThreshold"`
	BestAnglerStreak      int          `json:"bestAnglerStreak"`
}

// UserRecord holds the lifetime fishing stats for one (guild, user) pair.
// Dates are UTC calendar dates formatted as YYYY-MM-DD.
type UserRecord struct {
	Username       string `json:"username"`
	Streak         int    `json:"streak"`
	LongestStreak  int    `json:"longestStreak"`
	TotalCatches   int    `json:"totalCatches"`
	LastFishedDate string `json:"lastFishedDate"`
}

// DailyTally is the current day's aggregate for one guild. Participants
// maps user ID to the RFC3339 timestamp of their catch; a user appears at
// most once per date.
type DailyTally struct {
	Date         string            `json:"date"`
	Count        int               `json:"dailyCount"`
	Participants map[string]string `json:"participants"`
}

// NewDailyTally returns an empty tally for the given date.
func NewDailyTally(date string) *DailyTally {
	return &DailyTally{
		Date:         date,
		Participants: make(map[string]string),
	}
}

// GuildState bundles everything the store keeps for one guild. Only the
// current day's tally is retained; the rotation pipeline summarizes and
// discards the previous one.
type GuildState struct {
	Config GuildConfig            `json:"config"`
	Users  map[string]*UserRecord `json:"users"`
	Today  *DailyTally            `json:"today"`
}

// Snapshot is the full serialized state: every guild's config, user
// records and current tally.
type Snapshot struct {
	Version int                    `json:"version"`
	Guilds  map[string]*GuildState `json:"guilds"`
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Version: 1,
		Guilds:  make(map[string]*GuildState),
	}
}

// Guild returns the state for guildID, creating it with defaults if the
// guild has never been seen before.
func (s *Snapshot) Guild(guildID string) *GuildState {
	g, ok := s.Guilds[guildID]
	if !ok {
		g = &GuildState{
			Config: GuildConfig{
				GuildID:               guildID,
				ReminderMode:          ReminderPing,
				ReminderThresholdDays: defaultReminderThreshold,
				BestAnglerStreak:      defaultBestAnglerStreak,
			},
			Users: make(map[string]*UserRecord),
		}
		s.Guilds[guildID] = g
	}
	return g
}
