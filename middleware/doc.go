// Package middleware exposes net/http adapters over the engine's
// authentication and authorization primitives.
//
// [Guard] reads the Authorization bearer token, validates it against the
// live session, and injects the resolved identity into the request context.
// [RequirePermissions] wraps protected actions with an Engine.Authorize
// check against the identity Guard injected.
//
// This package translates HTTP semantics into engine calls and nothing
// else: no token parsing, no Redis access, no authorization decisions of
// its own.
package middleware
