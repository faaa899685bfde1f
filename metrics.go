package authcore

import "sync/atomic"

// MetricID enumerates the engine's counters.
type MetricID int

const (
	// MetricCaptchaIssued counts rendered captcha images.
	MetricCaptchaIssued MetricID = iota
	// MetricLoginSuccess counts completed logins.
	MetricLoginSuccess
	// MetricLoginFailure counts captcha and credential rejections.
	MetricLoginFailure
	// MetricLoginLockedOut counts logins rejected by the attempt limiter.
	MetricLoginLockedOut
	// MetricLogout counts logout calls.
	MetricLogout
	// MetricRefreshSuccess counts rotated token pairs.
	MetricRefreshSuccess
	// MetricRefreshFailure counts rejected refresh calls.
	MetricRefreshFailure
	// MetricAuthorizeAllowed counts authorization checks that passed.
	MetricAuthorizeAllowed
	// MetricAuthorizeDenied counts authorization checks that failed.
	MetricAuthorizeDenied
	// MetricPermCacheHit counts authorization decisions served from cache.
	MetricPermCacheHit
	// MetricPermCacheMiss counts authorization recomputes.
	MetricPermCacheMiss
	// MetricPermCacheWriteSkipped counts best-effort cache writes that
	// failed and were ignored.
	MetricPermCacheWriteSkipped

	metricCount
)

var metricNames = [metricCount]string{
	MetricCaptchaIssued:         "captcha_issued",
	MetricLoginSuccess:          "login_success",
	MetricLoginFailure:          "login_failure",
	MetricLoginLockedOut:        "login_locked_out",
	MetricLogout:                "logout",
	MetricRefreshSuccess:        "refresh_success",
	MetricRefreshFailure:        "refresh_failure",
	MetricAuthorizeAllowed:      "authorize_allowed",
	MetricAuthorizeDenied:       "authorize_denied",
	MetricPermCacheHit:          "perm_cache_hit",
	MetricPermCacheMiss:         "perm_cache_miss",
	MetricPermCacheWriteSkipped: "perm_cache_write_skipped",
}

// String returns the stable snake_case metric name.
func (id MetricID) String() string {
	if id < 0 || id >= metricCount {
		return "unknown"
	}
	return metricNames[id]
}

// MetricIDs lists every counter, in registration order. Exporters iterate
// this rather than guessing the enum range.
func MetricIDs() []MetricID {
	ids := make([]MetricID, metricCount)
	for i := range ids {
		ids[i] = MetricID(i)
	}
	return ids
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// Metrics is a fixed table of atomic counters. Inc is wait-free.
type Metrics struct {
	counters [metricCount]atomic.Uint64
}

func newMetrics() *Metrics {
	return &Metrics{}
}

// Inc adds one to the counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || id < 0 || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// Snapshot copies every counter.
func (m *Metrics) Snapshot() MetricsSnapshot {
	snapshot := MetricsSnapshot{Counters: make(map[MetricID]uint64, metricCount)}
	if m == nil {
		return snapshot
	}
	for i := range m.counters {
		snapshot.Counters[MetricID(i)] = m.counters[i].Load()
	}
	return snapshot
}
