// Package cache provides the redis-backed catalog list cache. Invalidation
// bumps a namespace version key instead of scanning for stale entries, so
// old pages simply expire.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"library-lending-go/internal/config"
	bookdomain "library-lending-go/internal/domain/book"
	"library-lending-go/pkg/logger"

	"github.com/redis/go-redis/v9"
)

const connectTimeout = 2 * time.Second

// NewClient connects to redis; returns nil when disabled or unreachable so
// callers can fall back to the noop cache.
func NewClient(cfg config.RedisConfig, log logger.Logger) *redis.Client {
	if !cfg.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("cache: redis unreachable, caching disabled", "addr", cfg.Addr, "err", err)
		_ = client.Close()
		return nil
	}

	log.Info("cache: redis connected", "addr", cfg.Addr)
	return client
}

type BookListCache struct {
	client *redis.Client
	prefix string
	log    logger.Logger

	// versions holds, per list key, the namespace version observed at GetList
	// time. The paired SetList writes under that version: if an invalidation
	// lands between the repository read and the write, the entry goes to the
	// stale version's keyspace and is never served.
	mu       sync.Mutex
	versions map[string]int64
}

func NewBookListCache(client *redis.Client, log logger.Logger) *BookListCache {
	return &BookListCache{
		client:   client,
		prefix:   "books:list",
		log:      log,
		versions: make(map[string]int64),
	}
}

type cachedList struct {
	Items []bookdomain.BookWithStatus `json:"items"`
	Total int64                       `json:"total"`
}

func (c *BookListCache) GetList(ctx context.Context, key string) ([]bookdomain.BookWithStatus, int64, bool) {
	version := c.currentVersion(ctx)
	c.mu.Lock()
	c.versions[key] = version
	c.mu.Unlock()

	payload, err := c.client.Get(ctx, c.fullKey(version, key)).Bytes()
	if err != nil {
		return nil, 0, false
	}

	var entry cachedList
	if err := json.Unmarshal(payload, &entry); err != nil {
		return nil, 0, false
	}
	return entry.Items, entry.Total, true
}

func (c *BookListCache) SetList(ctx context.Context, key string, books []bookdomain.BookWithStatus, total int64, ttl time.Duration) {
	payload, err := json.Marshal(cachedList{Items: books, Total: total})
	if err != nil {
		return
	}

	c.mu.Lock()
	version, captured := c.versions[key]
	delete(c.versions, key)
	c.mu.Unlock()
	if !captured {
		version = c.currentVersion(ctx)
	}

	if err := c.client.Set(ctx, c.fullKey(version, key), payload, ttl).Err(); err != nil {
		c.log.Warn("cache: set failed", "key", key, "err", err)
	}
}

// Invalidate bumps the namespace version; every existing entry becomes
// unreachable and ages out via its TTL.
func (c *BookListCache) Invalidate(ctx context.Context) {
	if err := c.client.Incr(ctx, c.prefix+":ver").Err(); err != nil {
		c.log.Warn("cache: invalidate failed", "err", err)
	}
}

func (c *BookListCache) currentVersion(ctx context.Context) int64 {
	version, err := c.client.Get(ctx, c.prefix+":ver").Int64()
	if err != nil {
		return 0
	}
	return version
}

func (c *BookListCache) fullKey(version int64, key string) string {
	return fmt.Sprintf("%s:v%d:%s", c.prefix, version, key)
}
