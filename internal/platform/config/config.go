package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full process configuration.
type Config struct {
	Server    Server
	Database  Database
	Redis     RedisConfig
	Kafka     Kafka
	Outbox    Outbox
	RateLimit RateLimit
	Log       Log
	// GridAreas are the 3-digit grid-area codes seeded at startup.
	GridAreas []string
	// Environment is "development", "staging" or "production".
	Environment string
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	JWTSigningKey   string
	ShutdownTimeout time.Duration
	// WriterRoles restricts state-changing routes. Empty allows every actor.
	WriterRoles []string
}

// Database selects the Postgres store. An empty URL means in-memory stores.
type Database struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	TxTimeout    time.Duration
}

// RedisConfig configures the optional GSRN index cache.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IndexTTL     time.Duration
}

// Kafka configures the outbox publisher. No brokers means events are only logged.
type Kafka struct {
	Brokers           []string
	Topic             string
	Partitions        int32
	ReplicationFactor int16
}

// Outbox configures the relay worker.
type Outbox struct {
	PollInterval time.Duration
	BatchSize    int
}

// RateLimit caps requests per market actor. Requests <= 0 disables it.
type RateLimit struct {
	Requests int
	Window   time.Duration
}

// Log selects slog level and handler.
type Log struct {
	Level  string
	Format string
}

const devSigningKey = "dev-secret-key-change-in-production"

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr:            stringEnv("DATAHUB_ADDR", ":8080"),
			JWTSigningKey:   stringEnv("JWT_SIGNING_KEY", devSigningKey),
			ShutdownTimeout: durationEnv("SHUTDOWN_TIMEOUT", 15*time.Second),
			WriterRoles:     listEnv("WRITER_ROLES"),
		},
		Database: Database{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: intEnv("DATABASE_MAX_OPEN_CONNS", 20),
			MaxIdleConns: intEnv("DATABASE_MAX_IDLE_CONNS", 5),
			TxTimeout:    durationEnv("DATABASE_TX_TIMEOUT", 5*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
			IndexTTL:     durationEnv("REDIS_INDEX_TTL", 24*time.Hour),
		},
		Kafka: Kafka{
			Brokers:           listEnv("KAFKA_BROKERS"),
			Topic:             stringEnv("KAFKA_TOPIC", "metering-point-events"),
			Partitions:        int32(intEnv("KAFKA_PARTITIONS", 6)),
			ReplicationFactor: int16(intEnv("KAFKA_REPLICATION_FACTOR", 1)),
		},
		Outbox: Outbox{
			PollInterval: durationEnv("OUTBOX_POLL_INTERVAL", time.Second),
			BatchSize:    intEnv("OUTBOX_BATCH_SIZE", 100),
		},
		RateLimit: RateLimit{
			Requests: intEnv("RATE_LIMIT_REQUESTS", 0),
			Window:   durationEnv("RATE_LIMIT_WINDOW", time.Minute),
		},
		Log: Log{
			Level:  stringEnv("LOG_LEVEL", "info"),
			Format: stringEnv("LOG_FORMAT", "json"),
		},
		GridAreas:   listEnv("GRID_AREAS"),
		Environment: stringEnv("ENVIRONMENT", "development"),
	}
}

// IsProduction reports whether the process runs in production.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// UsesDevSigningKey reports whether JWT_SIGNING_KEY was left at its default.
func (c Config) UsesDevSigningKey() bool {
	return c.Server.JWTSigningKey == devSigningKey
}

func stringEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

func listEnv(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
