// Package config reads the service configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string

	JWTSecret []byte
	TokenTTL  time.Duration

	DataDir         string
	CollationLocale string
	ShareBaseURL    string

	LogLevel string
	LogDev   bool

	CORSAllowedOrigin string
	MaxBodyBytes      int64
	RateLimitRPS      int
}

// Load reads .env (when present) and then the process environment.
// Variables already set in the environment win over .env.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, errors.New("config: .env: " + err.Error())
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Config{
		Port:              getenv("PORT", "3010"),
		DatabaseURL:       getenv("DATABASE_URL", ""),
		RedisURL:          getenv("REDIS_URL", ""),
		JWTSecret:         []byte(getenv("JWT_SECRET", "")),
		TokenTTL:          time.Duration(getenvInt("TOKEN_TTL_MINUTES", 24*60)) * time.Minute,
		DataDir:           getenv("DATA_DIR", "./data"),
		CollationLocale:   getenv("COLLATION_LOCALE", "ja"),
		ShareBaseURL:      getenv("SHARE_BASE_URL", "http://localhost:3010/share"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		LogDev:            getenvBool("LOG_DEV", false),
		CORSAllowedOrigin: getenv("CORS_ALLOWED_ORIGIN", "*"),
		MaxBodyBytes:      int64(getenvInt("MAX_BODY_BYTES", 1<<20)),
		RateLimitRPS:      getenvInt("RATE_LIMIT_RPS", 20),
	}

	if len(cfg.JWTSecret) == 0 {
		return Config{}, errors.New("config: JWT_SECRET is empty, cannot start without JWT validation")
	}
	return cfg, nil
}

// SessionsDir holds one snapshot file per session.
func (c Config) SessionsDir() string {
	return filepath.Join(c.DataDir, "sessions")
}

func getenv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	raw := getenv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func getenvBool(key string, def bool) bool {
	raw := getenv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}
