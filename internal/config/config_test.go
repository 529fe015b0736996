package config

import (
	"strings"
	"testing"
	"time"
)

func valid() Config {
	return Config{
		BotToken:    "token",
		ChatID:      -100,
		StoreDriver: "sqlite",
		Horizon:     24 * time.Hour,
		DefaultTZ:   "UTC",
	}
}

func TestValidate_OK(t *testing.T) {
	if err := valid().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c := valid()
	c.HTTPOnly = true
	c.BotToken, c.ChatID = "", 0
	if err := c.Validate(); err != nil {
		t.Fatalf("http-only needs no bot settings: %v", err)
	}
}

func TestValidate_CollectsAllProblems(t *testing.T) {
	c := valid()
	c.BotToken = ""
	c.StoreDriver = "postgres"
	c.SessionLimit = -1
	c.Horizon = 0
	c.DefaultTZ = "Mars/Olympus"

	err := c.Validate()
	if err == nil {
		t.Fatalf("want error")
	}
	for _, want := range []string{"BOT_TOKEN", "STORE_DRIVER", "SESSION_LIMIT", "HORIZON", "DEFAULT_TZ"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("error should mention %s: %v", want, err)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("CHAT_ID", "-100123")
	t.Setenv("DEFAULT_TZ", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreDriver != "sqlite" || cfg.Horizon != 24*time.Hour || cfg.TickSpec != "0 * * * *" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.ChatID != -100123 || cfg.EnableSchedules {
		t.Fatalf("unexpected values %+v", cfg)
	}
}
