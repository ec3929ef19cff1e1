package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findFamily(t *testing.T, reg *prometheus.Registry, name string) int {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return len(f.GetMetric())
		}
	}
	t.Fatalf("%s metric not found", name)
	return 0
}

func TestNewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	require.NotNil(t, m)
	assert.NotNil(t, m.HTTPRequestsTotal)
	assert.NotNil(t, m.HTTPRequestDuration)
	assert.NotNil(t, m.ParticipationRequestsTotal)
	assert.NotNil(t, m.ModerationsTotal)
	assert.NotNil(t, m.EventLockDuration)
	assert.NotNil(t, m.StatsCallsTotal)
	assert.NotNil(t, m.HitsDroppedTotal)
	assert.NotNil(t, m.EventTransitionsTotal)
}

func TestHTTPRequestsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.HTTPRequestsTotal.WithLabelValues("GET", "/events", "200").Inc()
	m.HTTPRequestsTotal.WithLabelValues("POST", "/users/:userId/requests", "201").Inc()
	m.HTTPRequestsTotal.WithLabelValues("POST", "/users/:userId/requests", "409").Inc()

	assert.Equal(t, 3, findFamily(t, reg, "http_requests_total"))
}

func TestModerationsTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.ModerationsTotal.WithLabelValues("CONFIRMED", "success").Inc()
	m.ModerationsTotal.WithLabelValues("CONFIRMED", "capacity_exceeded").Inc()
	m.ModerationsTotal.WithLabelValues("CONFIRMED", "capacity_exceeded").Inc()
	m.ModerationsTotal.WithLabelValues("REJECTED", "success").Inc()

	assert.Equal(t, 3, findFamily(t, reg, "request_moderations_total"))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.ModerationsTotal.WithLabelValues("CONFIRMED", "capacity_exceeded")))
}

func TestEventLockDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.EventLockDuration.WithLabelValues("acquire", "success").Observe(0.015)
	m.EventLockDuration.WithLabelValues("acquire", "failed").Observe(0.005)
	m.EventLockDuration.WithLabelValues("release", "success").Observe(0.002)

	assert.Equal(t, 3, findFamily(t, reg, "event_lock_duration_seconds"))
}

func TestHitsDroppedTotal(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)

	m.HitsDroppedTotal.Inc()
	m.HitsDroppedTotal.Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(m.HitsDroppedTotal))
}

func TestGet_FallsBackToPrivateRegistry(t *testing.T) {
	oldMetrics := defaultMetrics
	defer func() { defaultMetrics = oldMetrics }()

	defaultMetrics = nil
	got := Get()
	require.NotNil(t, got)
	assert.Same(t, got, Get())
}

func TestInit_CreatesDefaultMetrics(t *testing.T) {
	oldMetrics := defaultMetrics
	defer func() { defaultMetrics = oldMetrics }()

	// Initはデフォルトレジストリに登録するため、テストでは直接セット
	reg := prometheus.NewRegistry()
	m := NewWithRegistry(reg)
	defaultMetrics = m

	assert.Equal(t, m, Get())
}
