// Package prometheus exposes the engine's counters as a
// prometheus.Collector.
//
// Counter names are authcore_<metric>_total, plus
// authcore_audit_dropped_total for the dispatcher's drop counter. The
// collector never registers itself in the global registry; callers mount
// [Collector.Handler] or register into their own registry.
package prometheus
