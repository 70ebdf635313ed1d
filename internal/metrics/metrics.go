// Package metrics holds the Prometheus collectors shared by the CLI and the
// record API. A nil *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nutragenie"

// Metrics is a private registry plus the counters the app updates.
type Metrics struct {
	registry *prometheus.Registry

	snapshotWrites *prometheus.CounterVec
	remoteSyncs    *prometheus.CounterVec
	wizardEvents   *prometheus.CounterVec
	requests       *prometheus.CounterVec
	records        prometheus.Gauge
}

// New creates the collectors on a fresh registry, with the Go and process
// collectors included.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		snapshotWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_writes_total",
			Help:      "Snapshot key writes by key and result.",
		}, []string{"key", "result"}),
		remoteSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_syncs_total",
			Help:      "Best-effort remote record syncs by result.",
		}, []string{"result"}),
		wizardEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wizard_events_total",
			Help:      "Wizard state changes by section and kind.",
		}, []string{"section", "kind"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Record API requests by route and status code.",
		}, []string{"route", "code"}),
		records: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stored_records",
			Help:      "User records held by the record API.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.snapshotWrites,
		m.remoteSyncs,
		m.wizardEvents,
		m.requests,
		m.records,
	)
	return m
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// SnapshotWrite counts one key write. It has the snapshot.Observer signature.
func (m *Metrics) SnapshotWrite(key string, err error) {
	if m == nil {
		return
	}
	m.snapshotWrites.WithLabelValues(key, result(err)).Inc()
}

// RemoteSync counts one remote attempt.
func (m *Metrics) RemoteSync(err error) {
	if m == nil {
		return
	}
	m.remoteSyncs.WithLabelValues(result(err)).Inc()
}

// WizardEvent counts one wizard event.
func (m *Metrics) WizardEvent(section, kind string) {
	if m == nil {
		return
	}
	m.wizardEvents.WithLabelValues(section, kind).Inc()
}

// Request counts one HTTP response.
func (m *Metrics) Request(route string, code int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// SetRecords reports the number of stored records.
func (m *Metrics) SetRecords(n int) {
	if m == nil {
		return
	}
	m.records.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
