package synth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mgpai22/subdub/internal/logging"
)

// Cache stores synthesized audio by SSML key.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, pcm []byte) error
}

// RedisCache keeps PCM in Redis under "subdub:tts:<sha256(ssml)>".
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewRedisCache(ctx context.Context, opts RedisOptions) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisCache{client: client, ttl: opts.TTL}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, pcm []byte) error {
	if err := c.client.Set(ctx, key, pcm, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// CacheKey hashes the full SSML, so voice, rate and text all participate.
func CacheKey(ssml string) string {
	sum := sha256.Sum256([]byte(ssml))
	return "subdub:tts:" + hex.EncodeToString(sum[:])
}

// Cached serves repeated SSML from cache. Cache failures are logged and
// bypassed; they never fail a synthesis.
type Cached struct {
	next   Synthesizer
	cache  Cache
	logger *logging.Logger
}

func NewCached(next Synthesizer, cache Cache, logger *logging.Logger) *Cached {
	return &Cached{next: next, cache: cache, logger: logging.OrNop(logger)}
}

func (c *Cached) Synthesize(ctx context.Context, ssml string) ([]byte, error) {
	key := CacheKey(ssml)

	pcm, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warnw("Synthesis cache read failed", "error", err)
	} else if ok {
		c.logger.Debugw("Synthesis cache hit", "key", key)
		return pcm, nil
	}

	pcm, err = c.next.Synthesize(ctx, ssml)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, pcm); err != nil {
		c.logger.Warnw("Synthesis cache write failed", "error", err)
	}
	return pcm, nil
}
