package cache

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
)

// keyPrefix namespaces specdeck entries inside a shared Redis database.
const keyPrefix = "specdeck:content:"

// Redis stores content in Redis with a per-key TTL.
// Errors are logged and treated as misses; the cache never fails a request.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

// NewRedis connects to the Redis server at rawURL (redis://[:pass@]host:port/db)
// and verifies it with PING.
func NewRedis(ctx context.Context, rawURL string, ttl time.Duration, log *slog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("cache.NewRedis: parse url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("cache.NewRedis: ping: %w", err)
	}
	return &Redis{rdb: rdb, ttl: ttl, log: log}, nil
}

// Get retrieves a value; any Redis error is reported as a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	b, err := r.rdb.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.log.WarnContext(ctx, "redis get failed", "key", key, "error", err)
		}
		return nil, false
	}
	return b, true
}

// Set stores a value with the configured TTL.
func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	if err := r.rdb.Set(ctx, keyPrefix+key, value, r.ttl).Err(); err != nil {
		r.log.WarnContext(ctx, "redis set failed", "key", key, "error", err)
	}
}

// Delete removes a value.
func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.rdb.Del(ctx, keyPrefix+key).Err(); err != nil {
		r.log.WarnContext(ctx, "redis del failed", "key", key, "error", err)
	}
}

// Flush removes every specdeck entry using SCAN so other keys in the same
// database are left alone.
func (r *Redis) Flush(ctx context.Context) {
	iter := r.rdb.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			r.log.WarnContext(ctx, "redis del failed", "key", iter.Val(), "error", err)
		}
	}
	if err := iter.Err(); err != nil {
		r.log.WarnContext(ctx, "redis scan failed", "error", err)
	}
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.rdb.Close()
}
