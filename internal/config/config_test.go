package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wildcards/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:             ":8080",
		DBPath:           "test.db",
		LogLevel:         "INFO",
		LogFormat:        "pretty",
		DatasetSource:    "data/data.json",
		QCMDatasetSource: "data/dataQCM.json",
		FetchTimeout:     8 * time.Second,
		RenderDelay:      0,
		SessionTTL:       time.Hour,
		SweepInterval:    time.Minute,
		VisitorMaxIdle:   time.Hour,
		WorkerCount:      2,
		QueueSize:        16,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDatasetSources(t *testing.T) {
	cfg := validConfig()
	cfg.DatasetSource = ""
	cfg.QCMDatasetSource = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATASET_SOURCE cannot be empty")
	assert.Contains(t, err.Error(), "QCM_DATASET_SOURCE cannot be empty")
}

func TestValidate_Durations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "zero fetch timeout",
			mutate:  func(c *config.Config) { c.FetchTimeout = 0 },
			wantErr: "FETCH_TIMEOUT",
		},
		{
			name:    "negative render delay",
			mutate:  func(c *config.Config) { c.RenderDelay = -time.Millisecond },
			wantErr: "RENDER_DELAY",
		},
		{
			name:    "zero session ttl",
			mutate:  func(c *config.Config) { c.SessionTTL = 0 },
			wantErr: "SESSION_TTL",
		},
		{
			name:    "zero visitor max idle",
			mutate:  func(c *config.Config) { c.VisitorMaxIdle = 0 },
			wantErr: "VISITOR_MAX_IDLE",
		},
		{
			name:    "negative request timeout",
			mutate:  func(c *config.Config) { c.RequestTimeout = -time.Second },
			wantErr: "REQUEST_TIMEOUT",
		},
		{
			name:    "zero sweep interval",
			mutate:  func(c *config.Config) { c.SweepInterval = 0 },
			wantErr: "SWEEP_INTERVAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_LogSettings(t *testing.T) {
	for _, level := range []string{"debug", "INFO", "Warn", "WARNING", "error"} {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = level
			assert.NoError(t, cfg.Validate())
		})
	}

	cfg := validConfig()
	cfg.LogLevel = "LOUD"
	cfg.LogFormat = "xml"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
	assert.Contains(t, err.Error(), "LOG_FORMAT")
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{LogLevel: "INFO", LogFormat: "json"}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "WORKER_COUNT")
	assert.Contains(t, errStr, "QUEUE_SIZE")
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("FETCH_TIMEOUT", "")
	t.Setenv("REDIS_URL", "")

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 8*time.Second, cfg.FetchTimeout)
	assert.Empty(t, cfg.RedisURL)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("RENDER_DELAY", "250ms")
	t.Setenv("WORKER_COUNT", "4")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 250*time.Millisecond, cfg.RenderDelay)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.True(t, cfg.SecureCookies)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "many")
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("COOKIE_SECURE", "sometimes")

	cfg := config.Load()

	assert.Equal(t, 2, cfg.WorkerCount)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.SecureCookies)
}
