package authcore

import (
	"time"

	"github.com/adminkit/authcore/captcha"
	"github.com/adminkit/authcore/internal/limiters"
	"github.com/adminkit/authcore/internal/stores"
	"github.com/adminkit/authcore/jwt"
	"github.com/adminkit/authcore/password"
	"github.com/adminkit/authcore/session"
)

// Engine orchestrates login, logout, refresh, captcha, and permission
// resolution. Construct through [Builder.Build]; all methods are safe for
// concurrent use afterwards.
type Engine struct {
	config      Config
	credentials CredentialStore
	tokens      *jwt.Manager
	sessions    *session.Store
	captcha     *captcha.Engine
	attempts    *limiters.AttemptLimiter
	permCache   *stores.PermissionCache
	hasher      *password.Hasher
	audit       *auditDispatcher
	metrics     *Metrics
}

// Close flushes the audit dispatcher. The Redis client is owned by the
// caller and is not closed here.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// MetricsSnapshot copies the current counter table. Always safe to call;
// with metrics disabled every counter reads zero.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events were dropped on a full buffer.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) auditEmit(eventType string, userID int64, userName, fingerprint string, success bool, cause error) {
	if e == nil || e.audit == nil {
		return
	}
	event := AuditEvent{
		Timestamp:   time.Now(),
		EventType:   eventType,
		UserID:      userID,
		UserName:    userName,
		Fingerprint: fingerprint,
		Success:     success,
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	e.audit.Emit(event)
}

func (e *Engine) ready() bool {
	return e != nil && e.credentials != nil && e.tokens != nil && e.sessions != nil
}
