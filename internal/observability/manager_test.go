package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/Additional-Code/gridlock/internal/config"
	"github.com/Additional-Code/gridlock/internal/metrics"
	"github.com/Additional-Code/gridlock/internal/observability"
)

func obsConfig(enableMetrics bool) config.Config {
	return config.Config{Observability: config.Observability{
		ServiceName:      "gridlock-test",
		Environment:      "test",
		TraceSampleRatio: 1,
		EnableMetrics:    enableMetrics,
		MetricsExporter:  "prometheus",
		PrometheusPath:   "/metrics",
	}}
}

func TestManager_ServesDomainCounters(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	mgr, err := observability.NewManager(lc, obsConfig(true), zap.NewNop())
	require.NoError(t, err)
	lc.RequireStart()
	defer lc.RequireStop()

	require.True(t, mgr.MetricsEnabled())
	require.False(t, mgr.TracingEnabled())
	require.NotNil(t, mgr.MetricsHandler())

	rec := metrics.New(mgr.Registerer())
	rec.BidsPlaced.Inc()
	rec.BidsRejected.WithLabelValues(metrics.ReasonTooLow).Inc()

	srv := httptest.NewServer(mgr.MetricsHandler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "gridlock_bids_placed_total 1")
	require.Contains(t, string(body), `gridlock_bids_rejected_total{reason="too_low"} 1`)
	require.Contains(t, string(body), "go_goroutines")
}

func TestManager_RegistererWithoutMetrics(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	mgr, err := observability.NewManager(lc, obsConfig(false), zap.NewNop())
	require.NoError(t, err)

	require.False(t, mgr.MetricsEnabled())
	require.Nil(t, mgr.MetricsHandler())

	rec := metrics.New(mgr.Registerer())
	rec.UsersRegistered.Inc()

	families, err := mgr.Gatherer().Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	require.Contains(t, names, "gridlock_users_registered_total")
}

func TestManager_SeparateRegistries(t *testing.T) {
	first, err := observability.NewManager(fxtest.NewLifecycle(t), obsConfig(false), zap.NewNop())
	require.NoError(t, err)
	second, err := observability.NewManager(fxtest.NewLifecycle(t), obsConfig(false), zap.NewNop())
	require.NoError(t, err)

	require.NotPanics(t, func() {
		metrics.New(first.Registerer())
		metrics.New(second.Registerer())
	})
}
