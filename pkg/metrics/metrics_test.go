package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Recorders(t *testing.T) {
	m := NewWithRegisterer("teetime", prometheus.NewRegistry())

	m.ObserveOperation("book", "ok")
	m.ObserveOperation("book", "ok")
	m.ObserveOperation("book", "slot_no_longer_available")
	m.ObserveCompensation("release", true)
	m.ObserveCompensation("release", false)
	m.IncCorruptState()
	m.ObserveReconciliation("released")
	m.AddSlotsGenerated(96)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.BookingOperations.WithLabelValues("teetime", "book", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BookingOperations.WithLabelValues("teetime", "book", "slot_no_longer_available")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Compensations.WithLabelValues("teetime", "release", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CorruptState.WithLabelValues("teetime")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ReconciliationResults.WithLabelValues("teetime", "released")))
	assert.Equal(t, 96.0, testutil.ToFloat64(m.SlotsGenerated.WithLabelValues("teetime")))
	assert.Equal(t, "teetime", m.ServiceName())
}
