// Package metrics instruments the chat panel with prometheus counters. The
// exporter is optional and bound to localhost; sessions record through the
// Recorder interface so tests can run without a registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder receives panel events. A nil-safe Nop implementation exists for
// tests and for runs with metrics disabled.
type Recorder interface {
	ChatTurnStarted(backend string)
	ChatTurnCompleted(backend string)
	ChatTurnFailed(backend string)
	ChunkDelivered(backend string)
	PersonasResolved(source string, count int)
}

// Prometheus implements Recorder on a dedicated registry.
type Prometheus struct {
	registry *prometheus.Registry

	turnsStarted   *prometheus.CounterVec
	turnsCompleted *prometheus.CounterVec
	turnsFailed    *prometheus.CounterVec
	chunks         *prometheus.CounterVec
	personaLoads   *prometheus.CounterVec
}

// NewPrometheus creates a recorder with its own registry.
func NewPrometheus() *Prometheus {
	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	p := &Prometheus{
		registry: registry,
		turnsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sidenote_chat_turns_started_total",
			Help: "Chat turns submitted to a backend.",
		}, []string{"backend"}),
		turnsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sidenote_chat_turns_completed_total",
			Help: "Chat turns that produced a final response.",
		}, []string{"backend"}),
		turnsFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sidenote_chat_turns_failed_total",
			Help: "Chat turns terminated by an error event.",
		}, []string{"backend"}),
		chunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sidenote_response_chunks_total",
			Help: "Incremental response chunks relayed to the UI.",
		}, []string{"backend"}),
		personaLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sidenote_personas_resolved_total",
			Help: "Personas resolved, labeled by winning source.",
		}, []string{"source"}),
	}

	registry.MustRegister(p.turnsStarted, p.turnsCompleted, p.turnsFailed, p.chunks, p.personaLoads)
	return p
}

// ChatTurnStarted implements Recorder.
func (p *Prometheus) ChatTurnStarted(backend string) {
	p.turnsStarted.WithLabelValues(backend).Inc()
}

// ChatTurnCompleted implements Recorder.
func (p *Prometheus) ChatTurnCompleted(backend string) {
	p.turnsCompleted.WithLabelValues(backend).Inc()
}

// ChatTurnFailed implements Recorder.
func (p *Prometheus) ChatTurnFailed(backend string) {
	p.turnsFailed.WithLabelValues(backend).Inc()
}

// ChunkDelivered implements Recorder.
func (p *Prometheus) ChunkDelivered(backend string) {
	p.chunks.WithLabelValues(backend).Inc()
}

// PersonasResolved implements Recorder.
func (p *Prometheus) PersonasResolved(source string, count int) {
	p.personaLoads.WithLabelValues(source).Add(float64(count))
}

// Handler returns the scrape endpoint for this recorder's registry.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Serve exposes the scrape endpoint on addr. It blocks; callers run it in a
// goroutine.
func (p *Prometheus) Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", p.Handler())
	return http.ListenAndServe(addr, mux)
}

// Nop discards all events.
type Nop struct{}

func (Nop) ChatTurnStarted(string)       {}
func (Nop) ChatTurnCompleted(string)     {}
func (Nop) ChatTurnFailed(string)        {}
func (Nop) ChunkDelivered(string)        {}
func (Nop) PersonasResolved(string, int) {}
