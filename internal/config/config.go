package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the bot
type Config struct {
	// Discord
	DiscordToken string

	// Persistence
	DataPath  string
	BackupDir string

	// Daily rotation schedule (cron expression, evaluated in UTC)
	ResetSchedule string

	// Member directory paging
	MemberPageSize int

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DiscordToken:  os.Getenv("DISCORD_BOT_TOKEN"),
		DataPath:      getEnvOrDefault("DATA_PATH", "./data/fishing_data.json"),
		BackupDir:     getEnvOrDefault("BACKUP_DIR", "./data/backups"),
		ResetSchedule: getEnvOrDefault("RESET_SCHEDULE", "30 14 * * *"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "info"),
	}

	pageSizeStr := getEnvOrDefault("MEMBER_PAGE_SIZE", "1000")
	pageSize, err := strconv.Atoi(pageSizeStr)
	if err != nil || pageSize < 1 {
		return nil, fmt.Errorf("invalid MEMBER_PAGE_SIZE: %q", pageSizeStr)
	}
	cfg.MemberPageSize = pageSize

	// Validate required fields
	if cfg.DiscordToken == "" {
		return nil, fmt.Errorf("DISCORD_BOT_TOKEN is required")
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
