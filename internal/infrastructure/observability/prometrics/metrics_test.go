package prometrics

import (
	"testing"

	"github.com/Zhima-Mochi/minipay/internal/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounterAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg, "minipay", "")

	c := r.Counter("events_total", "Events.", "kind")
	c.Add(1, observability.L("kind", "a"))
	c.Bind(observability.L("kind", "a")).Add(2)

	// same name returns the already registered vector
	again := r.Counter("events_total", "Events.", "kind")
	again.Add(1, observability.L("kind", "b"))

	h := r.Histogram("latency_seconds", "Latency.", prometheus.DefBuckets, "op")
	h.Observe(0.2, observability.L("op", "x"))
	h.Bind(observability.L("op", "x")).Observe(0.3)

	count, err := testutil.GatherAndCount(reg, "minipay_events_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	cv, ok := r.(*registry).counters.Load("events_total")
	require.True(t, ok)
	assert.Equal(t, 3.0, testutil.ToFloat64(cv.(*prometheus.CounterVec).WithLabelValues("a")))
}

func TestInstruments(t *testing.T) {
	reg := prometheus.NewRegistry()
	counters, histograms := Instruments(NewWithRegisterer(reg, "", ""))

	require.Contains(t, counters, observability.MUsecaseRequests)
	require.Contains(t, counters, observability.MNotifications)
	require.Contains(t, histograms, observability.MExternalRequestDuration)

	counters[observability.MExternalRequests].Add(1,
		observability.L("target", "initiate_payment"),
		observability.L("outcome", "success"),
	)
	count, err := testutil.GatherAndCount(reg, string(observability.MExternalRequests))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
