package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sales-assist-go/internal/config"
)

// allowScript trims the window, checks the quota and records the new event
// in one atomic step. Splitting check and record across round-trips would
// let a concurrent burst observe the window as not-full and all get in.
// Scores are milliseconds so they stay exact in redis' double scores.
var allowScript = redis.NewScript(`
redis.call('ZREMRANGEBYSCORE', KEYS[1], '0', ARGV[1])
if redis.call('ZCARD', KEYS[1]) >= tonumber(ARGV[2]) then
	return 0
end
redis.call('ZADD', KEYS[1], ARGV[3], ARGV[4])
redis.call('PEXPIRE', KEYS[1], ARGV[5])
return 1
`)

// RedisStore implements Store on a redis sorted set per caller key, so a
// multi-process deployment shares one counter.
type RedisStore struct {
	client *redis.Client
	seq    uint64
}

// NewRedisStore connects to redis and verifies the connection.
func NewRedisStore(cfg *config.RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisStore{client: client}, nil
}

// Allow implements Store. The member set holds one entry per accepted
// request scored by its millisecond timestamp; entries older than the
// window are trimmed before counting, and rejections record nothing.
func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()

	// The sequence number keeps concurrent same-timestamp members distinct.
	member := strconv.FormatInt(now.UnixNano(), 10) + "-" + strconv.FormatUint(atomic.AddUint64(&s.seq, 1), 10)

	admitted, err := allowScript.Run(ctx, s.client, []string{"ratelimit:" + key},
		now.Add(-window).UnixMilli(),
		limit,
		now.UnixMilli(),
		member,
		window.Milliseconds(),
	).Int()
	if err != nil {
		return false, err
	}

	return admitted == 1, nil
}

// Close releases the redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
