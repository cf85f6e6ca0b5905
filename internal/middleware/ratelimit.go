package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// anonymousKey is the shared bucket for requests without any credential.
// Known limitation: all anonymous callers contend for one quota.
const anonymousKey = "anonymous"

// Store records request timestamps per caller key inside a sliding window.
// Implementations must only record an event when it is allowed
// (check-then-record): a rejected request leaves no trace in the window.
type Store interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// KeyFunc derives an opaque rate-limit key from a request.
type KeyFunc func(r *http.Request) string

// BearerKey derives the key from the tail of the bearer token. The token is
// treated purely as an opaque cache key; no identity validation happens here.
func BearerKey(r *http.Request) string {
	token := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer"))
	if token == "" {
		return anonymousKey
	}
	if len(token) > 10 {
		token = token[len(token)-10:]
	}
	return token
}

// RateLimiter enforces a per-caller sliding-window quota for one pipeline.
type RateLimiter struct {
	enabled bool
	store   Store
	limit   int
	window  time.Duration
	keyFn   KeyFunc
	logger  *logrus.Logger
}

// NewRateLimiter creates a limiter over an injected store so tests and
// multi-process deployments can choose their own backing counter.
func NewRateLimiter(store Store, limit int, window time.Duration, keyFn KeyFunc, logger *logrus.Logger) *RateLimiter {
	if store == nil || limit <= 0 {
		return &RateLimiter{enabled: false}
	}
	if keyFn == nil {
		keyFn = BearerKey
	}
	return &RateLimiter{
		enabled: true,
		store:   store,
		limit:   limit,
		window:  window,
		keyFn:   keyFn,
		logger:  logger,
	}
}

// Allow checks whether the request's caller is within quota.
func (rl *RateLimiter) Allow(ctx context.Context, r *http.Request) bool {
	if !rl.enabled {
		return true
	}

	key := rl.keyFn(r)
	allowed, err := rl.store.Allow(ctx, key, rl.limit, rl.window)
	if err != nil {
		// The limiter guards spend, not correctness: fail open on store
		// errors rather than taking the pipeline down with the counter.
		rl.logger.WithError(err).Warn("Rate limit store unavailable, allowing request")
		return true
	}

	if !allowed {
		rl.logger.WithField("caller_key", key).Warn("Rate limit exceeded")
	}
	return allowed
}

// MemoryStore keeps per-key timestamp windows in process memory.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string][]time.Time
	now     func() time.Time
	done    chan struct{}
}

// NewMemoryStore creates a memory store and starts its janitor.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		windows: make(map[string][]time.Time),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go s.cleanup(time.Hour)
	return s
}

// Allow implements Store.
func (s *MemoryStore) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := s.now()
	cutoff := now.Add(-window)

	s.mu.Lock()
	defer s.mu.Unlock()

	stamps := s.windows[key]
	// Lazily evict entries older than the window.
	live := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			live = append(live, ts)
		}
	}

	if len(live) >= limit {
		s.windows[key] = live
		return false, nil
	}

	s.windows[key] = append(live, now)
	return true, nil
}

// Close stops the janitor goroutine.
func (s *MemoryStore) Close() {
	close(s.done)
}

// cleanup drops keys whose whole window has aged out, so the map does not
// grow without bound across distinct callers.
func (s *MemoryStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			cutoff := s.now().Add(-interval)
			s.mu.Lock()
			for key, stamps := range s.windows {
				if len(stamps) == 0 || !stamps[len(stamps)-1].After(cutoff) {
					delete(s.windows, key)
				}
			}
			s.mu.Unlock()
		}
	}
}
