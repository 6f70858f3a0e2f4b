package config

import (
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AdsURL      string
	CrmURL      string
	DBPath      string
	Port        string
	HTTPTimeout time.Duration
	CacheTTL    time.Duration
	RefreshCron string
	LogLevel    slog.Level
}

// FromEnv loads configuration from the environment, reading a local .env
// file first when present.
func FromEnv() Config {
	_ = godotenv.Load()

	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	ttl := 5 * time.Minute
	if v := os.Getenv("CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			ttl = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	return Config{
		AdsURL:      os.Getenv("ADS_API_URL"),
		CrmURL:      os.Getenv("CRM_API_URL"),
		DBPath:      envOr("DB_PATH", "data/dashboard.db"),
		Port:        envOr("PORT", "8080"),
		HTTPTimeout: to,
		CacheTTL:    ttl,
		RefreshCron: envOr("REFRESH_CRON", "@every 5m"),
		LogLevel:    lvl,
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
