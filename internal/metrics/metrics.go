// Package metrics records helper session counters with Prometheus.
//
// The helper is a short-lived process, so metrics are not scraped. When a
// textfile path is configured they are written once on clean shutdown in
// the node exporter textfile collector format.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Lookup results.
const (
	ResultFound   = "found"
	ResultMissing = "missing"
	ResultFailed  = "failed"
)

// Metrics holds the helper's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	Commands     prometheus.Counter
	Lookups      *prometheus.CounterVec
	LoginSeconds prometheus.Gauge

	started time.Time
}

// New creates collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		started:  time.Now(),

		Commands: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ceiba_helper_commands_total",
			Help: "Total number of command lines accepted",
		}),
		Lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ceiba_helper_cookie_lookups_total",
				Help: "Cookie lookups by cookie source and result",
			},
			[]string{"source", "result"},
		),
		LoginSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ceiba_helper_login_seconds",
			Help: "Seconds from startup until login success was detected",
		}),
	}

	m.registry.MustRegister(m.Commands, m.Lookups, m.LoginSeconds)
	return m
}

// CommandAccepted counts one command line.
func (m *Metrics) CommandAccepted() {
	m.Commands.Inc()
}

// LookupDone counts one answered lookup.
func (m *Metrics) LookupDone(source, result string) {
	m.Lookups.WithLabelValues(source, result).Inc()
}

// LoggedIn records the time taken to reach the post-login page.
func (m *Metrics) LoggedIn() {
	m.LoginSeconds.Set(time.Since(m.started).Seconds())
}

// WriteTextfile writes all metrics to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
