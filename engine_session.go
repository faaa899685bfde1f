package authcore

import (
	"context"
	"fmt"
)

// Logout revokes the access token and clears the user's session. Idempotent:
// logging out an already-absent session only refreshes the blacklist entry.
func (e *Engine) Logout(ctx context.Context, accessToken string, userID int64) error {
	if !e.ready() {
		return ErrEngineNotReady
	}

	if err := e.sessions.Logout(ctx, userID, accessToken, e.tokens.AccessTTL()); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricLogout)
	e.auditEmit(EventLogout, userID, "", "", true, nil)
	return nil
}

// Refresh rotates the token pair for a live session.
//
// The presented access token must not be blacklisted and must still be the
// authoritative session value; the refresh token must verify. The user is
// re-checked against the credential store (presence and disabled flag only,
// no password). The superseded access token is not blacklisted here: the
// sso overwrite already makes it useless for further refreshes, and only
// logout promises blacklisting.
//
// The read-compare-write across the sso key is not transactional. Two
// concurrent refreshes can both pass the comparison; the later write wins
// and the loser's pair fails on its next use with ErrSessionSuperseded.
func (e *Engine) Refresh(ctx context.Context, accessToken, refreshToken string) (TokenPair, error) {
	if !e.ready() {
		return TokenPair{}, ErrEngineNotReady
	}

	blacklisted, err := e.sessions.IsBlacklisted(ctx, accessToken)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if blacklisted {
		e.refreshRejected(0, ErrReauthRequired)
		return TokenPair{}, ErrReauthRequired
	}

	claims, err := e.tokens.Verify(refreshToken)
	if err != nil {
		// Expired, malformed, and forged all collapse into the same error.
		e.refreshRejected(0, ErrReauthRequired)
		return TokenPair{}, fmt.Errorf("%w: refresh token rejected", ErrReauthRequired)
	}

	current, err := e.sessions.Current(ctx, claims.UserID)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if current != accessToken {
		e.refreshRejected(claims.UserID, ErrSessionSuperseded)
		return TokenPair{}, ErrSessionSuperseded
	}

	creds, err := e.credentials.FindCredentials(ctx, claims.UserName)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if creds == nil || creds.Disabled || creds.ID != claims.UserID {
		e.refreshRejected(claims.UserID, ErrUserUnavailable)
		return TokenPair{}, ErrUserUnavailable
	}

	pair, err := e.tokens.IssuePair(creds.ID, creds.UserName)
	if err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if err := e.sessions.Save(ctx, creds.ID, pair.AccessToken, e.tokens.RefreshTTL()); err != nil {
		return TokenPair{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricRefreshSuccess)
	e.auditEmit(EventRefreshSuccess, creds.ID, creds.UserName, "", true, nil)
	return TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}

// VerifyAccess checks an access token for ordinary authenticated calls:
// signature and expiry, then equality with the authoritative session value.
// The blacklist is deliberately not consulted here — logout already deletes
// the sso key, so a logged-out token fails the comparison anyway.
func (e *Engine) VerifyAccess(ctx context.Context, accessToken string) (Identity, error) {
	if !e.ready() {
		return Identity{}, ErrEngineNotReady
	}

	claims, err := e.tokens.Verify(accessToken)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	current, err := e.sessions.Current(ctx, claims.UserID)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if current != accessToken {
		return Identity{}, ErrSessionSuperseded
	}

	return Identity{UserID: claims.UserID, UserName: claims.UserName}, nil
}

func (e *Engine) refreshRejected(userID int64, cause error) {
	e.metricInc(MetricRefreshFailure)
	e.auditEmit(EventRefreshFailure, userID, "", "", false, cause)
}
