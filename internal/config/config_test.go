package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("OPENAI_API_KEY", "key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CheckInHour != 9 || cfg.CheckInMinute != 0 {
		t.Errorf("Expected default 09:00, got %02d:%02d", cfg.CheckInHour, cfg.CheckInMinute)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("Expected default model, got %q", cfg.OpenAIModel)
	}
	if cfg.AITimeout != 30*time.Second {
		t.Errorf("Expected 30s AI timeout, got %v", cfg.AITimeout)
	}
	if cfg.Location == nil || cfg.Location.String() != "Europe/Kyiv" {
		t.Errorf("Expected Europe/Kyiv, got %v", cfg.Location)
	}
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("BOT_TOKEN", "")
	t.Setenv("OPENAI_API_KEY", "key")

	if _, err := Load(); err == nil {
		t.Fatal("Expected error for missing BOT_TOKEN")
	}
}

func TestLoad_CustomCheckInTime(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("OPENAI_API_KEY", "key")
	t.Setenv("CHECKIN_TIME", "21:30")
	t.Setenv("TIMEZONE", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.CheckInHour != 21 || cfg.CheckInMinute != 30 {
		t.Errorf("Expected 21:30, got %02d:%02d", cfg.CheckInHour, cfg.CheckInMinute)
	}
	if cfg.Location != time.UTC {
		t.Errorf("Expected UTC, got %v", cfg.Location)
	}
}

func TestParseClock_Invalid(t *testing.T) {
	for _, s := range []string{"", "9", "25:00", "09:75", "ab:cd"} {
		if _, _, err := parseClock(s); err == nil {
			t.Errorf("Expected error for %q", s)
		}
	}
}
