package config

import (
	"flag"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"planner/internal/util"
)

// Storage backends understood by the server.
const (
	StorageMemory = "memory"
	StorageSQLite = "sqlite"
)

// DefaultJWTSecret is the development signing key used when none is configured.
const DefaultJWTSecret = "your-secret-key"

// Config holds the runtime settings of the planner server.
type Config struct {
	Addr        string
	Storage     string
	StaticDir   string
	JWTSecret   string
	TokenTTL    time.Duration
	CORSOrigins []string
	Environment string
	LogLevel    slog.Level
}

// Load parses command line arguments. Every flag defaults to its
// PLANNER_* environment variable.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("planner", flag.ContinueOnError)

	addr := fs.String("addr", util.EnvOrDefault("PLANNER_ADDR", ":5001"), "HTTP listen address")
	storage := fs.String("storage", util.EnvOrDefault("PLANNER_STORAGE", StorageMemory), "Storage backend: memory or sqlite")
	static := fs.String("static", util.EnvOrDefault("PLANNER_STATIC_DIR", ""), "Directory with built frontend")
	secret := fs.String("jwt-secret", util.EnvOrDefault("PLANNER_JWT_SECRET", DefaultJWTSecret), "HMAC key for signing tokens")
	ttl := fs.String("token-ttl", util.EnvOrDefault("PLANNER_TOKEN_TTL", "0"), "Token lifetime, 0 disables expiry")
	origins := fs.String("cors-origins", util.EnvOrDefault("PLANNER_CORS_ORIGINS", "*"), "Comma separated allowed CORS origins")
	env := fs.String("env", util.EnvOrDefault("PLANNER_ENV", "development"), "Deployment environment")
	level := fs.String("log-level", util.EnvOrDefault("PLANNER_LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Addr:        *addr,
		Storage:     strings.ToLower(*storage),
		StaticDir:   *static,
		JWTSecret:   *secret,
		CORSOrigins: util.SplitList(*origins),
		Environment: strings.ToLower(*env),
	}

	switch cfg.Storage {
	case StorageMemory, StorageSQLite:
	default:
		return Config{}, fmt.Errorf("unknown storage backend %q", *storage)
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must not be empty")
	}

	d, err := time.ParseDuration(*ttl)
	if err != nil {
		return Config{}, fmt.Errorf("parse token ttl: %w", err)
	}
	if d < 0 {
		return Config{}, fmt.Errorf("token ttl must not be negative")
	}
	cfg.TokenTTL = d

	if err := cfg.LogLevel.UnmarshalText([]byte(*level)); err != nil {
		return Config{}, fmt.Errorf("parse log level: %w", err)
	}

	return cfg, nil
}

// UsesDefaultSecret reports whether tokens are signed with the built-in development key.
func (c Config) UsesDefaultSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}
