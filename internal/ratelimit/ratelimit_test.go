package ratelimit

import (
	"context"
	"errors"
	"testing"
	"time"
)

// drain calls Allow n times and reports how many passed.
func drain(rl *KeyedRateLimiter, key string, n int) int {
	passed := 0
	for range n {
		if rl.Allow(key) {
			passed++
		}
	}
	return passed
}

func TestAllow_BurstThenLimited(t *testing.T) {
	tests := []struct {
		name  string
		burst int
		calls int
		want  int
	}{
		{"within burst", 3, 3, 3},
		{"past burst", 2, 5, 2},
		{"single token", 1, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// One token per minute so nothing refills mid-test.
			rl := PerInterval(1, time.Minute, tt.burst)
			defer rl.Stop()

			if got := drain(rl, "203.0.113.7", tt.calls); got != tt.want {
				t.Errorf("passed %d of %d, want %d", got, tt.calls, tt.want)
			}
		})
	}
}

func TestAllow_KeysHaveSeparateBuckets(t *testing.T) {
	rl := PerInterval(1, time.Minute, 1)
	defer rl.Stop()

	if !rl.Allow("usr_alice") {
		t.Fatal("first vote for alice should pass")
	}
	if rl.Allow("usr_alice") {
		t.Error("second vote for alice should be limited")
	}
	if !rl.Allow("usr_bob") {
		t.Error("bob must not share alice's bucket")
	}
	if got := rl.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestPerInterval_Refills(t *testing.T) {
	// 600 per minute is one token every 100ms.
	rl := PerInterval(600, time.Minute, 1)
	defer rl.Stop()

	if !rl.Allow("ip") {
		t.Fatal("first request should pass")
	}
	if rl.Allow("ip") {
		t.Fatal("bucket should be empty")
	}
	time.Sleep(150 * time.Millisecond)
	if !rl.Allow("ip") {
		t.Error("bucket should refill after one interval slice")
	}
}

func TestWait_HonorsContext(t *testing.T) {
	rl := New(0.1, 1)
	defer rl.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx, "www.youtube.com"); err != nil {
		t.Fatalf("first Wait() = %v, want nil", err)
	}

	// The next token is ten seconds away, far beyond the deadline.
	err := rl.Wait(ctx, "www.youtube.com")
	if err == nil {
		t.Fatal("Wait() should give up before the deadline")
	}
	if errors.Is(err, context.Canceled) {
		t.Errorf("Wait() = %v, want a deadline error", err)
	}
}

func TestEvictIdle_DropsStaleKeys(t *testing.T) {
	rl := New(1, 1)
	defer rl.Stop()

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return clock }

	rl.Allow("stale")
	clock = clock.Add(defaultIdleTTL / 2)
	rl.Allow("fresh")
	clock = clock.Add(defaultIdleTTL/2 + time.Second)

	rl.evictIdle()

	if got := rl.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	if !rl.Allow("stale") {
		t.Error("an evicted key starts over with a full bucket")
	}
}

func TestStop_Idempotent(t *testing.T) {
	rl := New(1, 1)
	rl.Stop()
	rl.Stop()
}
