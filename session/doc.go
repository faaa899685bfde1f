// Package session records the single authoritative access token per user
// and the blacklist of explicitly revoked tokens, both in Redis.
//
// The sso key enforces the single-active-session invariant: login and
// refresh overwrite it, logout deletes it, and any token that no longer
// matches the stored value has been superseded. Logout runs as one Lua
// script so the blacklist write and the sso delete cannot be torn apart by
// a concurrent login.
package session
