package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("GUILD_ID", "42")
	t.Setenv("PORT", "")
	t.Setenv("ALLOW_ORIGINS", "")
	t.Setenv("DISCORD_REQUEST_TIMEOUT", "")

	cfg := Load()
	if cfg.Port != "3000" {
		t.Fatalf("expected default port 3000, got %q", cfg.Port)
	}
	if cfg.GuildID != "42" || cfg.DiscordToken != "token" {
		t.Fatalf("unexpected discord settings %+v", cfg)
	}
	if len(cfg.AllowOrigins) != 1 || cfg.AllowOrigins[0] != "*" {
		t.Fatalf("expected wildcard origins, got %v", cfg.AllowOrigins)
	}
	if cfg.DiscordRequestTimeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %v", cfg.DiscordRequestTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("GUILD_ID", "42")
	t.Setenv("PORT", "8081")
	t.Setenv("ALLOW_ORIGINS", "https://syria.example, https://admin.example ,")
	t.Setenv("DISCORD_REQUEST_TIMEOUT", "3s")
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")

	cfg := Load()
	if cfg.Port != "8081" {
		t.Fatalf("expected port 8081, got %q", cfg.Port)
	}
	if len(cfg.AllowOrigins) != 2 || cfg.AllowOrigins[1] != "https://admin.example" {
		t.Fatalf("unexpected origins %v", cfg.AllowOrigins)
	}
	if cfg.DiscordRequestTimeout != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %v", cfg.DiscordRequestTimeout)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Fatalf("expected invalid shutdown timeout to fall back to 10s, got %v", cfg.ShutdownTimeout)
	}
}

func TestLoadToleratesMissingDiscordSettings(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("GUILD_ID", "")
	t.Setenv("PORT", "")

	cfg := Load()
	if cfg.DiscordToken != "" || cfg.GuildID != "" {
		t.Fatalf("expected empty discord settings, got %+v", cfg)
	}
	if cfg.Port != "3000" {
		t.Fatalf("expected default port 3000, got %q", cfg.Port)
	}
}

func TestLoadRoleTable(t *testing.T) {
	table, err := LoadRoleTable("")
	if err != nil {
		t.Fatalf("LoadRoleTable default returned error: %v", err)
	}
	if _, ok := table.Lookup("general-ping"); !ok {
		t.Fatal("expected default table to contain general-ping")
	}

	path := filepath.Join(t.TempDir(), "roles.yaml")
	if err := os.WriteFile(path, []byte("mods: \"5\"\n"), 0o600); err != nil {
		t.Fatalf("write role file: %v", err)
	}
	table, err = LoadRoleTable(path)
	if err != nil {
		t.Fatalf("LoadRoleTable file returned error: %v", err)
	}
	if table.Len() != 1 {
		t.Fatalf("expected file table to replace defaults, got %d roles", table.Len())
	}

	if _, err := LoadRoleTable(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing role file")
	}
}
