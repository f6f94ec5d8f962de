package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

const devJWTSecret = "dev-secret-change-in-production"

// Config holds process-wide settings read once at startup.
type Config struct {
	Port     string
	Env      string
	LogLevel slog.Level

	Store       string
	DatabaseDSN string

	JWTSecret string
	JWTExpiry time.Duration

	OpenAIKey     string
	OpenAIModel   string
	OpenAIBaseURL string

	AuthRateLimitRPS   float64
	AuthRateLimitBurst int
}

func Load() (Config, error) {
	cfg := Config{
		Port:               getEnv("PORT", "8080"),
		Env:                getEnv("ENV", "development"),
		LogLevel:           parseLevel(getEnv("LOG_LEVEL", "info")),
		Store:              getEnv("STORE", "mysql"),
		DatabaseDSN:        getEnv("DATABASE_DSN", ""),
		JWTSecret:          getEnv("JWT_SECRET", devJWTSecret),
		JWTExpiry:          getDuration("JWT_EXPIRY", time.Hour),
		OpenAIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		AuthRateLimitRPS:   getFloat("AUTH_RATE_LIMIT_RPS", 5),
		AuthRateLimitBurst: getInt("AUTH_RATE_LIMIT_BURST", 10),
	}

	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = dsnFromParts()
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings that are unsafe outside development.
func (c Config) Validate() error {
	if c.Store != "mysql" && c.Store != "memory" {
		return errors.New("STORE must be mysql or memory")
	}
	if c.JWTExpiry <= 0 {
		return errors.New("JWT_EXPIRY must be positive")
	}
	if c.Env != "production" {
		return nil
	}
	if c.JWTSecret == devJWTSecret {
		return errors.New("JWT_SECRET must be set in production environment")
	}
	if c.OpenAIKey == "" {
		return errors.New("OPENAI_API_KEY must be set in production environment")
	}
	return nil
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// dsnFromParts builds a MySQL DSN from the discrete DB_* variables.
func dsnFromParts() string {
	mc := mysql.NewConfig()
	mc.User = getEnv("DB_USER", "root")
	mc.Passwd = getEnv("DB_PASSWORD", "password")
	mc.Net = "tcp"
	mc.Addr = getEnv("DB_HOST", "127.0.0.1") + ":" + getEnv("DB_PORT", "3306")
	mc.DBName = getEnv("DB_NAME", "promptgate")
	mc.ParseTime = true
	return mc.FormatDSN()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
