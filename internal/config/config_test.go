package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("MESSAGING_ENABLED", "false")

	cfg, err := New()
	require.NoError(t, err)

	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, cfg.Database.WriterDSN, cfg.Database.ReaderDSN)
	require.Equal(t, "noop", cfg.Cache.Driver)
	require.Equal(t, "noop", cfg.Messaging.Driver)
	require.Equal(t, "/metrics", cfg.Observability.PrometheusPath)
	require.Equal(t, 30*time.Second, cfg.Auction.SweepInterval)
	require.Equal(t, 1.0, cfg.Observability.TraceSampleRatio)
}

func TestNew_NormalizesValues(t *testing.T) {
	t.Setenv("DB_DRIVER", " SQLite3 ")
	t.Setenv("OBS_LOG_LEVEL", " DEBUG ")
	t.Setenv("OBS_PROMETHEUS_PATH", "prom")
	t.Setenv("WORKER_CONCURRENCY", "0")
	t.Setenv("AUCTION_SWEEP_INTERVAL", "-1s")

	cfg, err := New()
	require.NoError(t, err)

	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "debug", cfg.Observability.LogLevel)
	require.Equal(t, "/prom", cfg.Observability.PrometheusPath)
	require.Equal(t, 1, cfg.Messaging.Workers.Concurrency)
	require.Equal(t, 30*time.Second, cfg.Auction.SweepInterval)
}

func TestNew_RejectsInvalidSettings(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "bad_http_port", env: map[string]string{"HTTP_PORT": "-1"}},
		{name: "unknown_cache_driver", env: map[string]string{"CACHE_ENABLED": "true", "CACHE_DRIVER": "memcached"}},
		{name: "unknown_messaging_driver", env: map[string]string{"MESSAGING_ENABLED": "true", "MESSAGING_DRIVER": "nats"}},
		{name: "empty_dsn", env: map[string]string{"DB_WRITER_DSN": ""}},
		{name: "sample_ratio_above_one", env: map[string]string{"OBS_TRACE_SAMPLE_RATIO": "1.5"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := New()
			require.Error(t, err)
		})
	}
}

func TestGetEnvAsStringSlice(t *testing.T) {
	t.Setenv("TEST_BROKERS", " a:1, ,b:2 ")
	require.Equal(t, []string{"a:1", "b:2"}, getEnvAsStringSlice("TEST_BROKERS", nil))

	t.Setenv("TEST_BROKERS", " , ")
	require.Equal(t, []string{"x"}, getEnvAsStringSlice("TEST_BROKERS", []string{"x"}))
}
