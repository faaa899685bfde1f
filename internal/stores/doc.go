// Package stores holds the Redis-backed caches used by the engine.
package stores
