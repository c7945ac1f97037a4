// Package cache provides an optional redis-backed cache for session
// results. When redis is not configured the no-op implementation keeps the
// rest of the system oblivious.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/remotescout/remotescout/internal/job"
)

const (
	keyPrefix  = "remotescout:results:"
	defaultTTL = 30 * time.Minute
)

// ResultCache stores and retrieves the scored results of a whole session.
type ResultCache interface {
	Get(ctx context.Context, key string) (*job.List, bool)
	Set(ctx context.Context, key string, results *job.List)
	Clear(ctx context.Context) error
}

// Key derives the cache key from the session inputs. Identical profile and
// filters hit the same entry.
func Key(profileJSON, filtersJSON []byte) string {
	sum := sha256.Sum256(append(profileJSON, filtersJSON...))
	return fmt.Sprintf("%x", sum[:16])
}

// Redis is the redis-backed implementation.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedis parses redisURL, verifies connectivity and returns the cache.
func NewRedis(ctx context.Context, redisURL string, ttl time.Duration, logger *zap.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Redis{client: client, ttl: ttl, logger: logger}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (*job.List, bool) {
	data, err := r.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("result cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var results job.List
	if err := json.Unmarshal(data, &results); err != nil {
		r.logger.Warn("result cache entry undecodable; dropping", zap.Error(err))
		return nil, false
	}

	return &results, true
}

func (r *Redis) Set(ctx context.Context, key string, results *job.List) {
	data, err := json.Marshal(results)
	if err != nil {
		r.logger.Warn("result cache encode failed", zap.Error(err))
		return
	}

	if err := r.client.Set(ctx, keyPrefix+key, data, r.ttl).Err(); err != nil {
		r.logger.Warn("result cache write failed", zap.Error(err))
	}
}

// Clear drops every cached result entry.
func (r *Redis) Clear(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Noop is the disabled cache.
type Noop struct{}

func (Noop) Get(context.Context, string) (*job.List, bool) { return nil, false }
func (Noop) Set(context.Context, string, *job.List)        {}
func (Noop) Clear(context.Context) error                   { return nil }
