// Package listcache keeps listing total counts in Redis so paging through a
// large listing does not recount the collection on every page.
//
// Entries are keyed by a generation number. Any write to the underlying
// collection calls Invalidate, which bumps the generation and orphans every
// older entry until its TTL expires.
package listcache

import (
	"context"
	"crypto/sha1"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dalemusser/exhibithub/internal/app/system/paging"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultTTL bounds how long a count can be served.
const DefaultTTL = 30 * time.Second

// DefaultPrefix namespaces the exhibition listing keys shared by the server
// and exhibitctl.
const DefaultPrefix = "exhibithub:list"

// Connect builds a client for addr and pings it. It returns nil when addr is
// empty or the server is unreachable; callers degrade to an uncached listing.
func Connect(ctx context.Context, addr, password string, db int, log *zap.Logger) *redis.Client {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		log.Warn("redis unreachable; listing counts will not be cached",
			zap.String("addr", addr), zap.Error(err))
		_ = client.Close()
		return nil
	}
	log.Info("redis connected", zap.String("addr", addr), zap.Int("db", db))
	return client
}

// Cache stores counts under one key prefix. A nil *Cache is valid and caches
// nothing.
type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	log    *zap.Logger
}

// New returns a Cache backed by rdb, or nil when rdb is nil.
func New(rdb *redis.Client, prefix string, ttl time.Duration, log *zap.Logger) *Cache {
	if rdb == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{rdb: rdb, prefix: prefix, ttl: ttl, log: log}
}

func (c *Cache) genKey() string { return c.prefix + ":gen" }

func (c *Cache) generation(ctx context.Context) (int64, error) {
	v, err := c.rdb.Get(ctx, c.genKey()).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(v, 10, 64)
}

func (c *Cache) countKey(gen int64, key string) string {
	sum := sha1.Sum([]byte(key))
	return fmt.Sprintf("%s:count:%d:%x", c.prefix, gen, sum[:])
}

// Count returns the cached count for key.
func (c *Cache) Count(ctx context.Context, key string) (int64, bool) {
	if c == nil {
		return 0, false
	}
	gen, err := c.generation(ctx)
	if err != nil {
		c.log.Debug("listcache: read generation", zap.Error(err))
		return 0, false
	}
	return c.countAt(ctx, gen, key)
}

func (c *Cache) countAt(ctx context.Context, gen int64, key string) (int64, bool) {
	n, err := c.rdb.Get(ctx, c.countKey(gen, key)).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Debug("listcache: read count", zap.Error(err))
		}
		return 0, false
	}
	return n, true
}

// SetCount stores n for key under the current generation. A count computed
// before a concurrent Invalidate must go through Query instead, which pins
// the generation read before counting.
func (c *Cache) SetCount(ctx context.Context, key string, n int64) {
	if c == nil {
		return
	}
	gen, err := c.generation(ctx)
	if err != nil {
		c.log.Debug("listcache: read generation", zap.Error(err))
		return
	}
	c.setAt(ctx, gen, key, n)
}

func (c *Cache) setAt(ctx context.Context, gen int64, key string, n int64) {
	if err := c.rdb.Set(ctx, c.countKey(gen, key), n, c.ttl).Err(); err != nil {
		c.log.Debug("listcache: write count", zap.Error(err))
	}
}

// Invalidate discards every cached count.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.rdb.Incr(ctx, c.genKey()).Err(); err != nil {
		c.log.Warn("listcache: bump generation", zap.Error(err))
	}
}

// Query serves Count from the cache and passes Fetch through.
type Query[T any] struct {
	Inner paging.Query[T]
	Cache *Cache
	Key   string
}

// Count implements paging.Query. The generation is read once before the
// inner count, so an Invalidate that lands while counting orphans the
// stored value instead of serving it.
func (q Query[T]) Count(ctx context.Context) (int64, error) {
	if q.Cache == nil {
		return q.Inner.Count(ctx)
	}
	gen, err := q.Cache.generation(ctx)
	if err != nil {
		q.Cache.log.Debug("listcache: read generation", zap.Error(err))
		return q.Inner.Count(ctx)
	}
	if n, ok := q.Cache.countAt(ctx, gen, q.Key); ok {
		return n, nil
	}
	n, err := q.Inner.Count(ctx)
	if err != nil {
		return 0, err
	}
	q.Cache.setAt(ctx, gen, q.Key, n)
	return n, nil
}

// Fetch implements paging.Query.
func (q Query[T]) Fetch(ctx context.Context, skip, limit int64) ([]T, error) {
	return q.Inner.Fetch(ctx, skip, limit)
}
