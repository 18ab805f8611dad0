// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration. The broadcast time and
// time zone are fixed at process start and immutable afterwards.
type Config struct {
	BotToken string
	DBPath   string
	Port     string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	AITimeout     time.Duration

	CheckInHour   int
	CheckInMinute int
	Location      *time.Location
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		BotToken:      getEnv("BOT_TOKEN", ""),
		DBPath:        getEnv("DB_PATH", "./data/mood.db"),
		Port:          getEnv("PORT", "8080"),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		AITimeout:     time.Duration(getEnvInt("AI_TIMEOUT_SECONDS", 30)) * time.Second,
	}

	hour, minute, err := parseClock(getEnv("CHECKIN_TIME", "09:00"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHECKIN_TIME: %w", err)
	}
	cfg.CheckInHour, cfg.CheckInMinute = hour, minute

	tz := getEnv("TIMEZONE", "Europe/Kyiv")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN cannot be empty")
	}
	if c.OpenAIAPIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.AITimeout <= 0 {
		return fmt.Errorf("AI_TIMEOUT_SECONDS must be > 0")
	}
	return nil
}

// parseClock parses a wall-clock HH:MM string.
func parseClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("time %q out of range", s)
	}
	return hour, minute, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}
