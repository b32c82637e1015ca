package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the quota and fetch collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	Authorized prometheus.Counter
	Rejected   prometheus.Counter
	Resets     prometheus.Counter
	Used       prometheus.Gauge
	Fetches    *prometheus.CounterVec
	LatencyMs  *prometheus.HistogramVec
}

// New builds unregistered collectors under namespace.
func New(namespace string) *Metrics {
	return &Metrics{
		Authorized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_authorized_total",
			Help:      "Total number of requests authorized against the quota",
		}),
		Rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_rejected_total",
			Help:      "Total number of authorizations rejected at the ceiling",
		}),
		Resets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quota_resets_total",
			Help:      "Total number of quota window resets",
		}),
		Used: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "quota_used",
			Help:      "Requests charged in the current window",
		}),
		Fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Total number of resource fetches by outcome",
		}, []string{"kind", "outcome"}),
		LatencyMs: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_latency_ms",
			Help:      "Latency of resource fetches in milliseconds",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"kind"}),
	}
}

// Register adds every collector to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.Authorized, m.Rejected, m.Resets, m.Used, m.Fetches, m.LatencyMs,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) Authorize(used int64) {
	if m == nil {
		return
	}
	m.Authorized.Inc()
	m.Used.Set(float64(used))
}

func (m *Metrics) Reject() {
	if m == nil {
		return
	}
	m.Rejected.Inc()
}

func (m *Metrics) Reset() {
	if m == nil {
		return
	}
	m.Resets.Inc()
	m.Used.Set(0)
}

// Fetch records one fetch outcome and its latency.
func (m *Metrics) Fetch(kind, outcome string, latencyMs float64) {
	if m == nil {
		return
	}
	m.Fetches.WithLabelValues(kind, outcome).Inc()
	m.LatencyMs.WithLabelValues(kind).Observe(latencyMs)
}
