package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultUsersSourceURL     = "https://raw.githubusercontent.com/JONAH-6/api/refs/heads/main/users.json"
	DefaultDashboardSourceURL = "https://raw.githubusercontent.com/JONAH-6/api-link/refs/heads/main/user.json"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port               string
	UsersSourceURL     string
	DashboardSourceURL string
	SourceTimeout      time.Duration
	SourceCacheTTL     time.Duration
	LoginDelay         time.Duration
	DatabaseURL        string
	JWTSecret          string
	JWTIssuer          string
	JWTTTL             time.Duration
	CORSOrigins        []string
	LogLevel           slog.Level
}

// Load reads configuration from the environment and performs minimal validation.
func Load() (Config, error) {
	cfg := Config{
		Port:               fallback(os.Getenv("PORT"), "8080"),
		UsersSourceURL:     fallback(os.Getenv("USERS_SOURCE_URL"), DefaultUsersSourceURL),
		DashboardSourceURL: fallback(os.Getenv("DASHBOARD_SOURCE_URL"), DefaultDashboardSourceURL),
		SourceTimeout:      seconds(os.Getenv("SOURCE_TIMEOUT_SECONDS"), 10*time.Second),
		SourceCacheTTL:     seconds(os.Getenv("SOURCE_CACHE_TTL_SECONDS"), time.Minute),
		DatabaseURL:        strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:          strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTIssuer:          fallback(os.Getenv("JWT_ISSUER"), "lendsqr-admin"),
		CORSOrigins:        parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
	}

	delay := fallback(os.Getenv("LOGIN_DELAY_MS"), "1500")
	if ms, err := strconv.Atoi(delay); err == nil && ms >= 0 {
		cfg.LoginDelay = time.Duration(ms) * time.Millisecond
	} else {
		cfg.LoginDelay = 1500 * time.Millisecond
	}

	minutes := fallback(os.Getenv("JWT_TTL_MINUTES"), "60")
	if ttlMinutes, err := strconv.Atoi(minutes); err == nil && ttlMinutes > 0 {
		cfg.JWTTTL = time.Duration(ttlMinutes) * time.Minute
	} else {
		cfg.JWTTTL = 60 * time.Minute
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(fallback(os.Getenv("LOG_LEVEL"), "info"))); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func seconds(value string, def time.Duration) time.Duration {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 {
		return def
	}
	return time.Duration(n) * time.Second
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
