package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
)

// OAuthConfig holds the login provider credentials. A provider without a key
// is not offered.
type OAuthConfig struct {
	DiscordKey         string
	DiscordSecret      string
	DiscordCallbackURL string
	GoogleKey          string
	GoogleSecret       string
	GoogleCallbackURL  string
}

type Config struct {
	ServerPort      int
	StoreDriver     string
	DatabasePath    string
	BoltPath        string
	StoreTimeout    time.Duration
	SessionLifetime time.Duration
	AllowedOrigins  []string
	LogLevel        slog.Level
	OAuth           OAuthConfig
}

// Load reads the configuration from the environment. A .env file is loaded
// first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := strconv.Atoi(getenv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	driver := strings.ToLower(getenv("STORE_DRIVER", DriverSQLite))
	if driver != DriverSQLite && driver != DriverBolt {
		return nil, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverSQLite, DriverBolt, driver)
	}

	storeTimeout, err := time.ParseDuration(getenv("STORE_TIMEOUT", "5s"))
	if err != nil || storeTimeout <= 0 {
		return nil, fmt.Errorf("invalid STORE_TIMEOUT %q", os.Getenv("STORE_TIMEOUT"))
	}

	sessionLifetime, err := time.ParseDuration(getenv("SESSION_LIFETIME", "24h"))
	if err != nil || sessionLifetime <= 0 {
		return nil, fmt.Errorf("invalid SESSION_LIFETIME %q", os.Getenv("SESSION_LIFETIME"))
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getenv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	var origins []string
	for _, origin := range strings.Split(getenv("ALLOWED_ORIGINS", "http://localhost:3000"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}

	return &Config{
		ServerPort:      port,
		StoreDriver:     driver,
		DatabasePath:    getenv("DATABASE_PATH", "brackets.db"),
		BoltPath:        getenv("BOLT_PATH", "data/brackets.bolt"),
		StoreTimeout:    storeTimeout,
		SessionLifetime: sessionLifetime,
		AllowedOrigins:  origins,
		LogLevel:        level,
		OAuth: OAuthConfig{
			DiscordKey:         os.Getenv("DISCORD_KEY"),
			DiscordSecret:      os.Getenv("DISCORD_SECRET"),
			DiscordCallbackURL: os.Getenv("DISCORD_CALLBACK_URL"),
			GoogleKey:          os.Getenv("GOOGLE_KEY"),
			GoogleSecret:       os.Getenv("GOOGLE_SECRET"),
			GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
		},
	}, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
