package prometheus

import (
	"net/http"

	"github.com/adminkit/authcore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Source is what the collector reads. *authcore.Engine satisfies it.
type Source interface {
	MetricsSnapshot() authcore.MetricsSnapshot
	AuditDropped() uint64
}

// Collector renders engine counters in Prometheus exposition format.
type Collector struct {
	source  Source
	descs   map[authcore.MetricID]*prometheus.Desc
	dropped *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector creates a collector reading from the given source.
func NewCollector(source Source) *Collector {
	descs := make(map[authcore.MetricID]*prometheus.Desc)
	for _, id := range authcore.MetricIDs() {
		descs[id] = prometheus.NewDesc(
			"authcore_"+id.String()+"_total",
			"authcore engine counter "+id.String(),
			nil, nil,
		)
	}
	return &Collector{
		source: source,
		descs:  descs,
		dropped: prometheus.NewDesc(
			"authcore_audit_dropped_total",
			"audit events dropped on a full dispatcher buffer",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range c.descs {
		ch <- desc
	}
	ch <- c.dropped
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	if c == nil || c.source == nil {
		return
	}
	snapshot := c.source.MetricsSnapshot()
	for id, desc := range c.descs {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(snapshot.Counters[id]))
	}
	ch <- prometheus.MustNewConstMetric(c.dropped, prometheus.CounterValue, float64(c.source.AuditDropped()))
}

// Handler returns an http.Handler serving this collector from a private
// registry.
func (c *Collector) Handler() http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(c)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
