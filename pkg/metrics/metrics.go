package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every Prometheus collector the service exports.
type Metrics struct {
	serviceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	BookingOperations     *prometheus.CounterVec
	Compensations         *prometheus.CounterVec
	CorruptState          *prometheus.CounterVec
	ReconciliationResults *prometheus.CounterVec
	SlotsGenerated        *prometheus.CounterVec
}

// New registers collectors in the default Prometheus registry (served by promhttp.Handler).
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer registers collectors in reg. Tests pass a fresh prometheus.NewRegistry().
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),

		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query latency",
			Buckets: []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"service", "operation"}),

		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),

		DBInUseConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		DBIdleConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		BookingOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_operations_total",
			Help: "Booking engine operations by outcome",
		}, []string{"service", "operation", "outcome"}),

		Compensations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_compensations_total",
			Help: "Compensating steps executed after a failed multi-step write",
		}, []string{"service", "step", "result"}),

		CorruptState: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "corrupt_state_total",
			Help: "Capacity invariant violations detected by the ledger",
		}, []string{"service"}),

		ReconciliationResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "reconciliation_tasks_total",
			Help: "Processed reconciliation tasks by result",
		}, []string{"service", "result"}),

		SlotsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "slots_generated_total",
			Help: "Slots inserted by regeneration",
		}, []string{"service"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUseConnections,
		m.DBIdleConnections,
		m.DBWaitCount,
		m.BookingOperations,
		m.Compensations,
		m.CorruptState,
		m.ReconciliationResults,
		m.SlotsGenerated,
	)

	return m
}

// ServiceName returns the value used for the "service" label.
func (m *Metrics) ServiceName() string {
	return m.serviceName
}

// ObserveOperation counts a booking/cancel/edit/regenerate outcome.
func (m *Metrics) ObserveOperation(operation, outcome string) {
	m.BookingOperations.WithLabelValues(m.serviceName, operation, outcome).Inc()
}

// ObserveCompensation counts one compensating step.
func (m *Metrics) ObserveCompensation(step string, ok bool) {
	result := "ok"
	if !ok {
		result = "failed"
	}
	m.Compensations.WithLabelValues(m.serviceName, step, result).Inc()
}

// IncCorruptState counts an invariant violation.
func (m *Metrics) IncCorruptState() {
	m.CorruptState.WithLabelValues(m.serviceName).Inc()
}

// ObserveReconciliation counts a processed reconciliation task.
func (m *Metrics) ObserveReconciliation(result string) {
	m.ReconciliationResults.WithLabelValues(m.serviceName, result).Inc()
}

// AddSlotsGenerated counts inserted slots.
func (m *Metrics) AddSlotsGenerated(n int) {
	m.SlotsGenerated.WithLabelValues(m.serviceName).Add(float64(n))
}
