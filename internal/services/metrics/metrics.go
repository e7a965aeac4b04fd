package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "weather_cli"

// Metrics holds the lookup metrics and the registry they live in.
type Metrics struct {
	Registry *prometheus.Registry

	LookupsTotal   *prometheus.CounterVec
	LookupDuration prometheus.Histogram
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		Registry: reg,
		LookupsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lookups_total",
				Help:      "Weather lookups by result kind",
			},
			[]string{"result"},
		),
		LookupDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "lookup_duration_seconds",
				Help:      "Histogram of weather lookup latencies",
				Buckets:   prometheus.DefBuckets,
			},
		),
	}

	reg.MustRegister(
		m.LookupsTotal,
		m.LookupDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveLookup counts one lookup; result is "none" on success or an error kind.
func (m *Metrics) ObserveLookup(result string, duration time.Duration) {
	m.LookupsTotal.WithLabelValues(result).Inc()
	m.LookupDuration.Observe(duration.Seconds())
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
