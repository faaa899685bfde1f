// Package jwt signs and verifies the engine's access and refresh tokens.
//
// Both token classes carry the same identity claims and are signed with the
// same asymmetric key; only the expiry differs. Verification fails closed:
// any structural, cryptographic, or expiry anomaly surfaces as
// [ErrInvalidToken] and the embedded claims are never trusted.
package jwt
