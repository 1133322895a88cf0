package app

import (
	"fmt"
	"os"
	"strings"

	"gorm.io/gorm"

	"github.com/closetloop/marketplace-backend/internal/clients/redis"
	feedrepos "github.com/closetloop/marketplace-backend/internal/data/repos/feed"
	"github.com/closetloop/marketplace-backend/internal/platform/logger"
	"github.com/closetloop/marketplace-backend/internal/services"
)

type Clients struct {
	RedisCache redis.CacheStore
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	// Redis is optional; without it the cache store falls back to the DB.
	var cache redis.CacheStore
	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		c, err := redis.NewCacheStore(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis cache store: %w", err)
		}
		cache = c
	}

	return Clients{RedisCache: cache}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.RedisCache != nil {
		_ = c.RedisCache.Close()
	}
}

// cacheStoreProvider picks the configured TTL cache implementation.
func cacheStoreProvider(clients Clients, db *gorm.DB, log *logger.Logger) services.CacheStore {
	if clients.RedisCache != nil {
		log.Info("Using redis cache store")
		return clients.RedisCache
	}
	log.Info("Using db cache store")
	return feedrepos.NewCacheEntryRepo(db, log)
}
