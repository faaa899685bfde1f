package authcore

import (
	"errors"

	"github.com/adminkit/authcore/captcha"
	"github.com/adminkit/authcore/internal/limiters"
	"github.com/adminkit/authcore/internal/stores"
	"github.com/adminkit/authcore/jwt"
	"github.com/adminkit/authcore/password"
	"github.com/adminkit/authcore/session"
	"github.com/redis/go-redis/v9"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens until the engine serves its first call.
type Builder struct {
	config      Config
	redis       redis.UniversalClient
	credentials CredentialStore
	auditSink   AuditSink
	built       bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis sets the ephemeral state store client. The builder accepts any
// go-redis universal client; the caller keeps ownership.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithCredentialStore sets the external credential collaborator.
func (b *Builder) WithCredentialStore(store CredentialStore) *Builder {
	b.credentials = store
	return b
}

// WithAuditSink sets the audit event consumer.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration and wires the engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	if b.redis == nil {
		return nil, errors.New("redis client is required")
	}
	if b.credentials == nil {
		return nil, errors.New("credential store is required")
	}
	if err := b.config.validate(); err != nil {
		return nil, err
	}

	tokens, err := jwt.NewManager(jwt.Config{
		AccessTTL:     b.config.JWT.AccessTTL,
		RefreshTTL:    b.config.JWT.RefreshTTL,
		SigningMethod: b.config.JWT.SigningMethod,
		PrivateKey:    b.config.JWT.PrivateKey,
		PublicKey:     b.config.JWT.PublicKey,
		Issuer:        b.config.JWT.Issuer,
		Leeway:        b.config.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(password.DefaultConfig())
	if err != nil {
		return nil, err
	}

	prefix := b.config.Session.RedisPrefix
	engine := &Engine{
		config:      b.config,
		credentials: b.credentials,
		tokens:      tokens,
		sessions:    session.NewStore(b.redis, prefix),
		captcha: captcha.NewEngine(b.redis, captcha.Config{
			TTL:        b.config.Captcha.TTL,
			Length:     b.config.Captcha.Length,
			Width:      b.config.Captcha.Width,
			Height:     b.config.Captcha.Height,
			NoiseCount: b.config.Captcha.NoiseCount,
			Prefix:     prefix,
		}),
		attempts: limiters.NewAttemptLimiter(b.redis, limiters.AttemptConfig{
			Window: b.config.Login.AttemptWindow,
			Prefix: prefix,
		}),
		// Cached permissions live exactly as long as the access tokens
		// they were resolved for.
		permCache: stores.NewPermissionCache(b.redis, prefix, b.config.JWT.AccessTTL),
		hasher:    hasher,
		audit:     newAuditDispatcher(b.config.Audit, b.auditSink),
	}
	if b.config.Metrics.Enabled {
		engine.metrics = newMetrics()
	}

	b.built = true
	return engine, nil
}
