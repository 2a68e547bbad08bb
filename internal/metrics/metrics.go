// Package metrics holds the Prometheus instruments of a conversion run.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vk/hepmctools/internal/hepmc"
)

// Metrics is a set of run counters on a private registry, so several runs in
// one process (and tests) never collide.
type Metrics struct {
	Registry *prometheus.Registry

	EventsRead       prometheus.Counter
	EventsKept       prometheus.Counter
	ParticlesEmitted prometheus.Counter
	ParticlesDropped prometheus.Counter
	EventParticles   prometheus.Histogram
}

// New registers the run instruments on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		Registry: reg,
		EventsRead: f.NewCounter(prometheus.CounterOpts{
			Name: "hepmc_events_read_total",
			Help: "Complete events decoded from the input",
		}),
		EventsKept: f.NewCounter(prometheus.CounterOpts{
			Name: "hepmc_events_kept_total",
			Help: "Events written to the output",
		}),
		ParticlesEmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "hepmc_particles_emitted_total",
			Help: "Particle rows handed to the output",
		}),
		ParticlesDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "hepmc_particles_dropped_total",
			Help: "Particle records discarded by the per-event capacity",
		}),
		EventParticles: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "hepmc_event_particles",
			Help:    "Retained particles per event",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
}

// ObserveRead records a decoded event.
func (m *Metrics) ObserveRead(ev *hepmc.Event) {
	m.EventsRead.Inc()
	m.EventParticles.Observe(float64(len(ev.Particles)))
	if ev.DroppedParticles > 0 {
		m.ParticlesDropped.Add(float64(ev.DroppedParticles))
	}
}

// ObserveKept records an event written to the output with its row count.
func (m *Metrics) ObserveKept(rows int) {
	m.EventsKept.Inc()
	m.ParticlesEmitted.Add(float64(rows))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// WriteTextfile writes the current values to path for the node exporter's
// textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.Registry); err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}
	return nil
}
