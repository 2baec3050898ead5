package metrics

import "github.com/prometheus/client_golang/prometheus"

// FulfillmentMetrics exposes counters/histograms for webhook turns and
// knowledge lookups.
type FulfillmentMetrics struct {
	turnsTotal     *prometheus.CounterVec
	turnLatency    *prometheus.HistogramVec
	lookupsTotal   *prometheus.CounterVec
	closedSessions prometheus.Counter
}

func NewFulfillmentMetrics(reg prometheus.Registerer) *FulfillmentMetrics {
	m := &FulfillmentMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "evect",
			Subsystem: "fulfillment",
			Name:      "turns_total",
			Help:      "Total dispatched webhook turns",
		}, []string{"intent", "outcome"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "evect",
			Subsystem: "fulfillment",
			Name:      "turn_latency_seconds",
			Help:      "Latency of intent handler execution",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
		lookupsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "evect",
			Subsystem: "knowledge",
			Name:      "lookups_total",
			Help:      "Total outbreak knowledge lookups",
		}, []string{"backend", "op", "status"}),
		closedSessions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "evect",
			Subsystem: "fulfillment",
			Name:      "closed_conversations_total",
			Help:      "Turns that ended the conversation",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.turnLatency, m.lookupsTotal, m.closedSessions)
	return m
}

func (m *FulfillmentMetrics) ObserveTurn(intent, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(intent, outcome).Inc()
	m.turnLatency.WithLabelValues(intent).Observe(seconds)
}

func (m *FulfillmentMetrics) ObserveClosed() {
	if m == nil {
		return
	}
	m.closedSessions.Inc()
}

func (m *FulfillmentMetrics) ObserveLookup(backend, op string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.lookupsTotal.WithLabelValues(backend, op, status).Inc()
}
