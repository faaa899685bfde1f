package authcore

import (
	"context"
	"fmt"
	"time"
)

// Login authenticates a user and establishes the authoritative session.
//
// The checks run cheapest-first and fail-fast: attempt counter, captcha,
// then credentials. Once the counter is at the limit nothing else is
// evaluated — the captcha code is not consumed and the credential store is
// not queried. A captcha or credential failure increments the counter; a
// success deliberately does not reset it (longstanding upstream behavior,
// kept — see the login tests).
//
// Success overwrites any existing session for the user, which silently
// invalidates a concurrent session elsewhere.
func (e *Engine) Login(ctx context.Context, userName, pass, captchaCode, clientIP, userAgent string) (TokenPair, error) {
	if !e.ready() {
		return TokenPair{}, ErrEngineNotReady
	}

	fingerprint := Fingerprint(clientIP, userAgent)

	count, err := e.attempts.Get(ctx, fingerprint)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if count >= e.config.Login.MaxAttempts {
		remaining, ttlErr := e.attempts.Remaining(ctx, fingerprint)
		if ttlErr != nil {
			remaining = e.config.Login.AttemptWindow
		}
		e.metricInc(MetricLoginLockedOut)
		e.auditEmit(EventLoginLockedOut, 0, userName, fingerprint, false, ErrTooManyAttempts)
		return TokenPair{}, fmt.Errorf("%w: locked for %s", ErrTooManyAttempts, remaining.Round(time.Second))
	}

	ok, err := e.captcha.Validate(ctx, fingerprint, captchaCode)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !ok {
		e.recordFailure(ctx, fingerprint, userName, ErrInvalidCaptcha)
		return TokenPair{}, ErrInvalidCaptcha
	}

	creds, err := e.credentials.FindCredentials(ctx, userName)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	// Unknown, disabled, and wrong-password all collapse into the same
	// error so the response never leaks which one it was.
	if creds == nil || creds.Disabled {
		e.recordFailure(ctx, fingerprint, userName, ErrInvalidCredentials)
		return TokenPair{}, ErrInvalidCredentials
	}
	match, err := e.hasher.Verify(pass, creds.PasswordHash)
	if err != nil || !match {
		e.recordFailure(ctx, fingerprint, userName, ErrInvalidCredentials)
		return TokenPair{}, ErrInvalidCredentials
	}

	pair, err := e.tokens.IssuePair(creds.ID, creds.UserName)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if err := e.sessions.Save(ctx, creds.ID, pair.AccessToken, e.config.JWT.RefreshTTL); err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricLoginSuccess)
	e.auditEmit(EventLoginSuccess, creds.ID, creds.UserName, fingerprint, true, nil)
	return TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

func (e *Engine) recordFailure(ctx context.Context, fingerprint, userName string, cause error) {
	// Counter write is best-effort: failing the login is already the
	// outcome, and the store error would mask the real cause.
	_ = e.attempts.Increment(ctx, fingerprint)
	e.metricInc(MetricLoginFailure)
	e.auditEmit(EventLoginFailure, 0, userName, fingerprint, false, cause)
}
