package authcore

import (
	"errors"
	"time"

	"github.com/adminkit/authcore/jwt"
)

// Config holds all engine tuning. Zero values are filled from
// [DefaultConfig] fields where sensible; key material must always be
// supplied by the caller.
type Config struct {
	JWT     JWTConfig
	Login   LoginConfig
	Captcha CaptchaConfig
	Session SessionConfig
	Admin   AdminConfig
	Audit   AuditConfig
	Metrics MetricsConfig
}

// JWTConfig selects token lifetimes and the signing key pair.
type JWTConfig struct {
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	SigningMethod jwt.SigningMethod
	PrivateKey    []byte
	PublicKey     []byte
	Issuer        string
	Leeway        time.Duration
}

// LoginConfig tunes the failed-attempt lockout.
type LoginConfig struct {
	MaxAttempts   int
	AttemptWindow time.Duration
}

// CaptchaConfig tunes code generation and storage.
type CaptchaConfig struct {
	TTL        time.Duration
	Length     int
	Width      int
	Height     int
	NoiseCount int
}

// SessionConfig scopes every Redis key the engine writes.
type SessionConfig struct {
	RedisPrefix string
}

// AdminConfig names the default admin and the wildcard code that bypasses
// row-level permission resolution for that account.
type AdminConfig struct {
	Username           string
	WildcardPermission string
}

// AuditConfig tunes the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
}

// MetricsConfig enables the in-process counter table.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns the baseline configuration. Key material, the admin
// account, and the credential store still have to be provided.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL:     15 * time.Minute,
			RefreshTTL:    7 * 24 * time.Hour,
			SigningMethod: jwt.MethodEd25519,
			Issuer:        "authcore",
		},
		Login: LoginConfig{
			MaxAttempts:   5,
			AttemptWindow: 15 * time.Minute,
		},
		Captcha: CaptchaConfig{
			TTL:        2 * time.Minute,
			Length:     4,
			Width:      140,
			Height:     48,
			NoiseCount: 2,
		},
		Session: SessionConfig{
			RedisPrefix: "ac",
		},
		Admin: AdminConfig{
			Username:           "admin",
			WildcardPermission: "*:*:*",
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func (c Config) validate() error {
	if c.Login.MaxAttempts < 1 {
		return errors.New("login max attempts must be at least 1")
	}
	if c.Login.AttemptWindow <= 0 {
		return errors.New("login attempt window must be positive")
	}
	if c.Captcha.TTL <= 0 || c.Captcha.Length < 3 {
		return errors.New("captcha TTL must be positive and length at least 3")
	}
	if c.Captcha.Width <= 0 || c.Captcha.Height <= 0 {
		return errors.New("captcha dimensions must be positive")
	}
	if c.Session.RedisPrefix == "" {
		return errors.New("redis prefix must not be empty")
	}
	if c.Admin.Username == "" || c.Admin.WildcardPermission == "" {
		return errors.New("admin username and wildcard permission must be set")
	}
	if c.Audit.Enabled && c.Audit.BufferSize < 1 {
		return errors.New("audit buffer size must be at least 1")
	}
	// JWT TTLs and key material are validated by jwt.NewManager.
	return nil
}
