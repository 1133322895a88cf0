package redis

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/closetloop/marketplace-backend/internal/platform/logger"
)

// CacheStore is the Redis-backed TTL cache used for reset markers and other
// derived state. Keys expire server-side; Fetch never returns stale entries.
type CacheStore interface {
	Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error
	Fetch(ctx context.Context, key string) ([]byte, bool, error)
	Close() error
}

type cacheStore struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
}

func NewCacheStore(log *logger.Logger) (CacheStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	prefix := strings.TrimSpace(os.Getenv("REDIS_KEY_PREFIX"))
	if prefix == "" {
		prefix = "feedcache"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &cacheStore{
		log:    log.With("service", "RedisCacheStore"),
		rdb:    rdb,
		prefix: prefix,
	}, nil
}

func (c *cacheStore) Put(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, c.prefix+":"+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *cacheStore) Fetch(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, c.prefix+":"+key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	return val, true, nil
}

func (c *cacheStore) Close() error {
	return c.rdb.Close()
}
