package web

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiter_Allow(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(ctx, 3, time.Minute)
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !rl.allow("198.51.100.1") {
			t.Fatalf("request %d denied, want allowed", i)
		}
	}
	if rl.allow("198.51.100.1") {
		t.Error("4th request allowed, want denied")
	}
	if !rl.allow("198.51.100.2") {
		t.Error("other client denied, want allowed")
	}

	now = now.Add(61 * time.Second)
	if !rl.allow("198.51.100.1") {
		t.Error("request after window denied, want allowed")
	}
}

func TestRateLimiter_Prune(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := newRateLimiter(ctx, 10, time.Minute)
	rl.now = func() time.Time { return now }

	rl.allow("stale")
	now = now.Add(90 * time.Second)
	rl.allow("fresh")
	now = now.Add(45 * time.Second)

	rl.prune()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["stale"]; ok {
		t.Error("stale visitor kept after prune")
	}
	if _, ok := rl.visitors["fresh"]; !ok {
		t.Error("fresh visitor pruned")
	}
}
