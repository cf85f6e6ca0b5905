package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/sales-assist-go/internal/config"
)

func TestRedisStoreQuota(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	store, err := NewRedisStore(&config.RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedisStore error: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		allowed, err := store.Allow(ctx, "caller", 3, time.Minute)
		if err != nil {
			t.Fatalf("Allow error: %v", err)
		}
		if !allowed {
			t.Fatalf("request %d should be within quota", i+1)
		}
	}

	allowed, err := store.Allow(ctx, "caller", 3, time.Minute)
	if err != nil {
		t.Fatalf("Allow error: %v", err)
	}
	if allowed {
		t.Fatal("request 4 should exceed the quota")
	}

	// Rejections record nothing: the sorted set still holds 3 members.
	if card, _ := mr.ZMembers("ratelimit:caller"); len(card) != 3 {
		t.Fatalf("expected 3 recorded events, got %d", len(card))
	}

	allowed, err = store.Allow(ctx, "other", 3, time.Minute)
	if err != nil {
		t.Fatalf("Allow error: %v", err)
	}
	if !allowed {
		t.Fatal("distinct callers must not share a window")
	}
}

// Check and record happen in one script, so a simultaneous burst cannot all
// observe the window as not-full and slip past the quota together.
func TestRedisStoreConcurrentBurst(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	store, err := NewRedisStore(&config.RedisConfig{Addr: mr.Addr()})
	if err != nil {
		t.Fatalf("NewRedisStore error: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	var admitted int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, err := store.Allow(ctx, "caller", 1, time.Minute)
			if err != nil {
				t.Errorf("Allow error: %v", err)
				return
			}
			if allowed {
				atomic.AddInt64(&admitted, 1)
			}
		}()
	}
	wg.Wait()

	if admitted != 1 {
		t.Fatalf("admitted %d concurrent requests with a quota of 1", admitted)
	}
}
