// Package limiters holds the Redis-counter throttles used by the engine.
package limiters
