package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/syria-community/role-bridge/internal/domain"
)

type Config struct {
	Port                  string
	DiscordToken          string
	GuildID               string
	RoleMapFile           string
	DiscordRequestTimeout time.Duration
	AllowOrigins          []string
	APIJWTSecret          string
	DatabaseURL           string
	LogstashTCPAddr       string
	ShutdownTimeout       time.Duration
}

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// The HTTP API starts even without Discord settings; requests then fail
	// the readiness or guild checks.
	discordToken := getenv("DISCORD_TOKEN", "")
	if discordToken == "" {
		log.Println("Warning: DISCORD_TOKEN is not set, the bot will not log in")
	}
	guildID := getenv("GUILD_ID", "")
	if guildID == "" {
		log.Println("Warning: GUILD_ID is not set, role assignments will fail")
	}

	return Config{
		Port:                  getenv("PORT", "3000"),
		DiscordToken:          discordToken,
		GuildID:               guildID,
		RoleMapFile:           getenv("ROLE_MAP_FILE", ""),
		DiscordRequestTimeout: duration("DISCORD_REQUEST_TIMEOUT", 10*time.Second),
		AllowOrigins:          splitAndTrim(getenv("ALLOW_ORIGINS", "*")),
		APIJWTSecret:          getenv("API_JWT_SECRET", ""),
		DatabaseURL:           getenv("DATABASE_URL", ""),
		LogstashTCPAddr:       getenv("LOGSTASH_TCP_ADDR", ""),
		ShutdownTimeout:       duration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
}

// LoadRoleTable returns the embedded role table, or the table stored at path
// when one is given.
func LoadRoleTable(path string) (*domain.RoleTable, error) {
	if strings.TrimSpace(path) == "" {
		return domain.DefaultRoleTable()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read role map %s: %w", path, err)
	}
	return domain.ParseRoleTable(data)
}

func splitAndTrim(input string) []string {
	parts := strings.Split(input, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func duration(k string, d time.Duration) time.Duration {
	raw := getenv(k, "")
	if raw == "" {
		return d
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		log.Printf("Warning: invalid %s %q, using %s", k, raw, d)
		return d
	}
	return v
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
