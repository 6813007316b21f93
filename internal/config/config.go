// Package config loads runtime settings from the environment and an optional .env file.
package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	Driver  string // "pgx" or "sqlite"
	DSN     string
	Timeout time.Duration

	JWTSecret     []byte
	SessionTTL    time.Duration
	CookieSecure  bool
	EncryptionKey []byte
	BlindIndexKey []byte

	// DayLocation decides where calendar days start and end.
	DayLocation *time.Location

	AllowedOrigins []string

	LogLevel  string
	LogFormat string
	LogFile   string
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:      getenv("PORT", "8080"),
		Driver:    getenv("DATABASE_DRIVER", "pgx"),
		DSN:       os.Getenv("DATABASE_URL"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogFormat: getenv("LOG_FORMAT", "json"),
		LogFile:   os.Getenv("LOG_FILE"),
	}

	if cfg.Driver != "pgx" && cfg.Driver != "sqlite" {
		return Config{}, fmt.Errorf("DATABASE_DRIVER: unsupported driver %q", cfg.Driver)
	}
	if cfg.DSN == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	cfg.JWTSecret = []byte(secret)

	var err error
	if cfg.EncryptionKey, err = hexKey("ENCRYPTION_KEY"); err != nil {
		return Config{}, err
	}
	if cfg.BlindIndexKey, err = hexKey("BLIND_INDEX_KEY"); err != nil {
		return Config{}, err
	}

	if cfg.Timeout, err = duration("REQUEST_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = duration("SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}

	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		if cfg.CookieSecure, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("COOKIE_SECURE: %w", err)
		}
	}

	if cfg.DayLocation, err = time.LoadLocation(getenv("DAY_BOUNDARY_TZ", "UTC")); err != nil {
		return Config{}, fmt.Errorf("DAY_BOUNDARY_TZ: %w", err)
	}

	for _, o := range strings.Split(getenv("CORS_ALLOWED_ORIGINS", "*"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return Config{}, fmt.Errorf("LOG_FORMAT: expected json or console, got %q", cfg.LogFormat)
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive", key)
	}
	return d, nil
}

// hexKey decodes a required 32-byte key given as 64 hex characters.
func hexKey(key string) ([]byte, error) {
	v := os.Getenv(key)
	if v == "" {
		return nil, fmt.Errorf("%s is required", key)
	}
	b, err := hex.DecodeString(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	if len(b) != 32 {
		return nil, fmt.Errorf("%s: must decode to 32 bytes, got %d", key, len(b))
	}
	return b, nil
}
