// Package authcore is the authentication and session-control core of an
// RBAC admin backend: captcha-gated login, fingerprint-scoped attempt
// throttling, asymmetric JWT issuance under a single-active-session
// invariant, logout revocation via a token blacklist, and resolution of a
// user's effective permission codes and navigation menu tree from
// role/permission rows.
//
// The package is a library, not a service. The surrounding CRUD layer owns
// the relational store and hands the engine a [CredentialStore]; the engine
// owns every Redis key it writes (sso, blacklist, captcha, attempt counter,
// permission cache) and every key carries a TTL, so an interrupted operation
// never leaves a permanent orphan.
//
// # Architecture boundaries
//
// authcore is the public surface: [Engine], [Builder], [Config], sentinel
// errors, and value types. Redis coordination lives in session, captcha, and
// internal packages and is never exported. Engine methods are safe for
// concurrent use after [Builder.Build].
//
// # Consistency model
//
// Correctness under concurrent requests relies on Redis single-key
// atomicity. Multi-step sequences are not transactional: two concurrent
// refreshes for one user can both pass the session comparison, after which
// the second write wins and the loser's pair dies on its next use. That is
// a documented property, not a defect; see the refresh tests.
package authcore
