package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/storefront-backend/internal/platform/logger"
)

// Cache stores JSON report results under a generation counter. A caller
// reads the generation once, then uses it for the lookup and for the write
// that fills a miss, so a result computed before an Invalidate is never
// visible after it.
type Cache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, key string, dst any) (bool, error)
	Set(ctx context.Context, gen int64, key string, value any, ttl time.Duration) error
	Invalidate(ctx context.Context) error
	Client() goredis.UniversalClient
	Close() error
}

type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

type cache struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
}

// NewCache connects to Redis. An empty Addr returns a cache that never hits.
func NewCache(log *logger.Logger, cfg Config) (Cache, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		log.Info("analytics cache disabled (no REDIS_ADDR)")
		return NopCache(), nil
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        strings.TrimSpace(cfg.Addr),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewCacheFromClient(log, rdb, cfg.Prefix), nil
}

func NewCacheFromClient(log *logger.Logger, rdb goredis.UniversalClient, prefix string) Cache {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "storefront:analytics"
	}
	return &cache{log: log.With("client", "RedisCache"), rdb: rdb, prefix: prefix}
}

func (c *cache) genKey() string { return c.prefix + ":gen" }

func (c *cache) Generation(ctx context.Context) (int64, error) {
	raw, err := c.rdb.Get(ctx, c.genKey()).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(raw, 10, 64)
}

func (c *cache) scopedKey(gen int64, key string) string {
	return fmt.Sprintf("%s:%d:%s", c.prefix, gen, key)
}

func (c *cache) Get(ctx context.Context, gen int64, key string, dst any) (bool, error) {
	k := c.scopedKey(gen, key)
	raw, err := c.rdb.Get(ctx, k).Bytes()
	if errors.Is(err, goredis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("dropping undecodable cache entry", "key", k, "error", err)
		_ = c.rdb.Del(ctx, k).Err()
		return false, nil
	}
	return true, nil
}

// Set writes under gen even when the generation has moved on since; such an
// entry is unreachable and expires with ttl.
func (c *cache) Set(ctx context.Context, gen int64, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.scopedKey(gen, key), raw, ttl).Err()
}

func (c *cache) Invalidate(ctx context.Context) error {
	return c.rdb.Incr(ctx, c.genKey()).Err()
}

func (c *cache) Client() goredis.UniversalClient { return c.rdb }

func (c *cache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

type nopCache struct{}

// NopCache never stores anything.
func NopCache() Cache { return nopCache{} }

func (nopCache) Generation(context.Context) (int64, error)                    { return 0, nil }
func (nopCache) Get(context.Context, int64, string, any) (bool, error)        { return false, nil }
func (nopCache) Set(context.Context, int64, string, any, time.Duration) error { return nil }
func (nopCache) Invalidate(context.Context) error                             { return nil }
func (nopCache) Client() goredis.UniversalClient                              { return nil }
func (nopCache) Close() error                                                 { return nil }
