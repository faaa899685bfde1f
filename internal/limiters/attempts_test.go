package limiters

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newLimiterTest(t *testing.T, window time.Duration) (*AttemptLimiter, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis start: %v", err)
	}
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	limiter := NewAttemptLimiter(rdb, AttemptConfig{Window: window, Prefix: "ac"})
	return limiter, mr, func() {
		rdb.Close()
		mr.Close()
	}
}

func TestIncrementIsMonotonic(t *testing.T) {
	limiter, _, done := newLimiterTest(t, time.Minute)
	defer done()
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		if err := limiter.Increment(ctx, "fp-1"); err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
		count, err := limiter.Get(ctx, "fp-1")
		if err != nil {
			t.Fatalf("get after increment %d: %v", i, err)
		}
		if count != i {
			t.Fatalf("expected count %d, got %d", i, count)
		}
	}
}

func TestGetAbsentCounter(t *testing.T) {
	limiter, _, done := newLimiterTest(t, time.Minute)
	defer done()

	count, err := limiter.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 for absent counter, got %d", count)
	}
}

func TestWindowSlidesOnEveryIncrement(t *testing.T) {
	limiter, mr, done := newLimiterTest(t, 10*time.Second)
	defer done()
	ctx := context.Background()

	if err := limiter.Increment(ctx, "fp-1"); err != nil {
		t.Fatalf("first increment: %v", err)
	}
	mr.FastForward(8 * time.Second)
	if err := limiter.Increment(ctx, "fp-1"); err != nil {
		t.Fatalf("second increment: %v", err)
	}
	// Without the re-armed TTL the first increment's window would have
	// lapsed here.
	mr.FastForward(8 * time.Second)

	count, err := limiter.Get(ctx, "fp-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected sliding window to keep count at 2, got %d", count)
	}

	mr.FastForward(3 * time.Second)
	count, err = limiter.Get(ctx, "fp-1")
	if err != nil {
		t.Fatalf("get after expiry: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected counter to lapse after the window, got %d", count)
	}
}

func TestResetClearsCounter(t *testing.T) {
	limiter, _, done := newLimiterTest(t, time.Minute)
	defer done()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := limiter.Increment(ctx, "fp-1"); err != nil {
			t.Fatalf("increment: %v", err)
		}
	}
	if err := limiter.Reset(ctx, "fp-1"); err != nil {
		t.Fatalf("reset: %v", err)
	}

	count, err := limiter.Get(ctx, "fp-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 after reset, got %d", count)
	}
}

func TestRemainingTracksTTL(t *testing.T) {
	limiter, _, done := newLimiterTest(t, time.Minute)
	defer done()
	ctx := context.Background()

	remaining, err := limiter.Remaining(ctx, "fp-1")
	if err != nil {
		t.Fatalf("remaining absent: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected 0 remaining for absent counter, got %v", remaining)
	}

	if err := limiter.Increment(ctx, "fp-1"); err != nil {
		t.Fatalf("increment: %v", err)
	}
	remaining, err = limiter.Remaining(ctx, "fp-1")
	if err != nil {
		t.Fatalf("remaining: %v", err)
	}
	if remaining <= 0 || remaining > time.Minute {
		t.Fatalf("expected remaining within (0, 1m], got %v", remaining)
	}
}
