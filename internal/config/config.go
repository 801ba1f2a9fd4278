package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	DBMaxConns        int
	JWTSecret         string
	TokenTTL          time.Duration
	PasswordCost      int
	ShutdownTimeout   time.Duration
	LogLevel          string
	KafkaBrokers      []string
	KafkaTopic        string
	RedisAddress      string
	IdempotencyTTL    time.Duration
	OtelEndpoint      string
	EventWorkers      int
	EventBuffer       int
	StrictTransitions bool
	StatusRetries     int
}

const (
	defaultRunAddress      = ":8080"
	defaultJWTSecret       = "change-me-in-production"
	defaultShutdownTimeout = 10 * time.Second
	defaultTokenTTL        = 24 * time.Hour
	defaultLogLevel        = "info"
	defaultKafkaTopic      = "marketplace.notifications"
	defaultIdempotencyTTL  = 24 * time.Hour
	defaultEventWorkers    = 4
	defaultEventBuffer     = 256
	defaultStatusRetries   = 3
	defaultEnvFile         = ".env"
)

// Load reads an optional .env file, then parses configuration from flags and environment variables.
func Load() (*Config, error) {
	envFile := defaultEnvFile
	if v, ok := os.LookupEnv("ENV_FILE"); ok && v != "" {
		envFile = v
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		DBMaxConns:        getInt(lookup, "DB_MAX_CONNS", 0),
		JWTSecret:         getString(lookup, "JWT_SECRET", defaultJWTSecret),
		TokenTTL:          getDuration(lookup, "TOKEN_TTL", defaultTokenTTL),
		PasswordCost:      getInt(lookup, "PASSWORD_COST", 0),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		LogLevel:          getString(lookup, "LOG_LEVEL", defaultLogLevel),
		KafkaTopic:        getString(lookup, "KAFKA_TOPIC", defaultKafkaTopic),
		RedisAddress:      getString(lookup, "REDIS_ADDRESS", ""),
		IdempotencyTTL:    getDuration(lookup, "IDEMPOTENCY_TTL", defaultIdempotencyTTL),
		OtelEndpoint:      getString(lookup, "OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		EventWorkers:      getInt(lookup, "EVENT_WORKERS", defaultEventWorkers),
		EventBuffer:       getInt(lookup, "EVENT_BUFFER", defaultEventBuffer),
		StrictTransitions: getBool(lookup, "ORDER_STRICT_TRANSITIONS", false),
		StatusRetries:     getInt(lookup, "ORDER_STATUS_RETRIES", defaultStatusRetries),
	}

	fs := flag.NewFlagSet("marketplace", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		brokersStr         = getString(lookup, "KAFKA_BROKERS", "")
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.IntVar(&cfg.DBMaxConns, "db-max-conns", cfg.DBMaxConns, "Upper bound of pooled database connections, 0 keeps the pgx default")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", cfg.JWTSecret, "Secret for signing auth tokens")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "Lifetime of issued auth tokens")
	fs.IntVar(&cfg.PasswordCost, "password-cost", cfg.PasswordCost, "bcrypt cost for stored passwords, 0 selects the default")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	fs.StringVar(&brokersStr, "kafka-brokers", brokersStr, "Comma separated Kafka brokers for order events")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", cfg.KafkaTopic, "Kafka topic for order events")
	fs.StringVar(&cfg.RedisAddress, "redis", cfg.RedisAddress, "Redis address for idempotency keys")
	fs.StringVar(&cfg.OtelEndpoint, "otel-endpoint", cfg.OtelEndpoint, "OTLP/HTTP trace collector endpoint")
	fs.IntVar(&cfg.EventWorkers, "event-workers", cfg.EventWorkers, "Number of event publishing workers")
	fs.IntVar(&cfg.EventBuffer, "event-buffer", cfg.EventBuffer, "Capacity of the pending events queue")
	fs.BoolVar(&cfg.StrictTransitions, "strict-transitions", cfg.StrictTransitions, "Allow only single-step status progression")
	fs.IntVar(&cfg.StatusRetries, "status-retries", cfg.StatusRetries, "Retries when a status update races another writer")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	cfg.KafkaBrokers = splitList(brokersStr)

	if secretFile, ok := lookup("JWT_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read jwt secret file: %w", err)
		}
		cfg.JWTSecret = strings.TrimSpace(string(content))
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.TokenTTL <= 0 {
		cfg.TokenTTL = defaultTokenTTL
	}

	if cfg.PasswordCost < 0 {
		cfg.PasswordCost = 0
	}

	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = defaultIdempotencyTTL
	}

	if cfg.EventWorkers <= 0 {
		cfg.EventWorkers = defaultEventWorkers
	}

	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}

	if cfg.DBMaxConns < 0 {
		cfg.DBMaxConns = 0
	}

	if cfg.StatusRetries < 0 {
		cfg.StatusRetries = defaultStatusRetries
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getBool(lookup envLookup, key string, def bool) bool {
	if v, ok := lookup(key); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
