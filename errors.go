package authcore

import "errors"

var (
	// ErrEngineNotReady is returned when an Engine method is called before
	// Build wired its dependencies.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrTooManyAttempts rejects login before captcha or credentials are
	// looked at. The wrapped message carries the remaining lockout window.
	ErrTooManyAttempts = errors.New("too many login attempts")
	// ErrInvalidCaptcha rejects a wrong, expired, or missing captcha code.
	ErrInvalidCaptcha = errors.New("invalid captcha")
	// ErrInvalidCredentials covers unknown user, disabled user, and wrong
	// password uniformly. The cause is never disclosed.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrReauthRequired means the caller must log in again: the access
	// token is blacklisted or the refresh token failed verification. The
	// two causes are not distinguished.
	ErrReauthRequired = errors.New("reauthentication required")
	// ErrSessionSuperseded means another login or refresh replaced the
	// authoritative session since this token was issued.
	ErrSessionSuperseded = errors.New("session superseded by a newer login")
	// ErrUserUnavailable means the user vanished or was disabled between
	// token issuance and use.
	ErrUserUnavailable = errors.New("user unavailable")
	// ErrInvalidSignature normalizes token signing and verification
	// library failures; raw library errors never propagate.
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrStoreUnavailable wraps Redis or credential-store transport
	// failures.
	ErrStoreUnavailable = errors.New("state store unavailable")
)
