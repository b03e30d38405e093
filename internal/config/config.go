package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr             string
	DBPath           string
	LogLevel         string
	LogFormat        string
	DatasetSource    string
	QCMDatasetSource string
	FetchTimeout     time.Duration
	RenderDelay      time.Duration
	RedisURL         string
	SessionTTL       time.Duration
	SweepInterval    time.Duration
	VisitorMaxIdle   time.Duration
	WorkerCount      int
	QueueSize        int
	RequestTimeout   time.Duration
	SecureCookies    bool
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "file:wildcards.db"),
		LogLevel:         envOr("LOG_LEVEL", "INFO"),
		LogFormat:        envOr("LOG_FORMAT", "pretty"),
		DatasetSource:    envOr("DATASET_SOURCE", "data/data.json"),
		QCMDatasetSource: envOr("QCM_DATASET_SOURCE", "data/dataQCM.json"),
		FetchTimeout:     envDurationOr("FETCH_TIMEOUT", 8*time.Second),
		RenderDelay:      envDurationOr("RENDER_DELAY", 0),
		RedisURL:         envOr("REDIS_URL", ""),
		SessionTTL:       envDurationOr("SESSION_TTL", 24*time.Hour),
		SweepInterval:    envDurationOr("SWEEP_INTERVAL", 10*time.Minute),
		VisitorMaxIdle:   envDurationOr("VISITOR_MAX_IDLE", 2*time.Hour),
		WorkerCount:      envIntOr("WORKER_COUNT", 2),
		QueueSize:        envIntOr("QUEUE_SIZE", 16),
		RequestTimeout:   envDurationOr("REQUEST_TIMEOUT", 30*time.Second),
		SecureCookies:    envBoolOr("COOKIE_SECURE", false),
	}
}

// Validate checks the loaded values for combinations the server cannot run with.
func (c Config) Validate() error {
	var problems []string
	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	if c.DatasetSource == "" {
		problems = append(problems, "DATASET_SOURCE cannot be empty")
	}
	if c.QCMDatasetSource == "" {
		problems = append(problems, "QCM_DATASET_SOURCE cannot be empty")
	}
	if c.FetchTimeout <= 0 {
		problems = append(problems, "FETCH_TIMEOUT must be positive")
	}
	if c.RenderDelay < 0 {
		problems = append(problems, "RENDER_DELAY cannot be negative")
	}
	if c.SessionTTL <= 0 {
		problems = append(problems, "SESSION_TTL must be positive")
	}
	if c.SweepInterval <= 0 {
		problems = append(problems, "SWEEP_INTERVAL must be positive")
	}
	if c.WorkerCount < 1 {
		problems = append(problems, "WORKER_COUNT must be at least 1")
	}
	if c.RequestTimeout < 0 {
		problems = append(problems, "REQUEST_TIMEOUT cannot be negative")
	}
	if c.VisitorMaxIdle <= 0 {
		problems = append(problems, "VISITOR_MAX_IDLE must be positive")
	}
	if c.QueueSize < 1 {
		problems = append(problems, "QUEUE_SIZE must be at least 1")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be DEBUG, INFO, WARN or ERROR, got %q", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "pretty", "json":
	default:
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be pretty or json, got %q", c.LogFormat))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
