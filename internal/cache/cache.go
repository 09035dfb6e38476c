package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eshop-dev/eshop-api/internal/logging"
)

// Cache is the explicit read-through contract the services call at mutation
// and read points. Keys are namespaced "<entity>::<id>" for single entities
// and "<entity>s::<page>:<size>[:<filter>]" for listing queries.
type Cache interface {
	// GetOrCompute unmarshals the cached value into dest on a hit. On a miss
	// it runs compute, stores the result under key with the given TTL and
	// fills dest with it.
	GetOrCompute(ctx context.Context, key string, ttl time.Duration, dest any, compute func() (any, error)) error
	Put(ctx context.Context, key string, value any, ttl time.Duration) error
	Evict(ctx context.Context, keys ...string) error
	// EvictPrefix removes every entry whose key starts with prefix. Listing
	// caches are evicted wholesale because they are keyed by arbitrary
	// page/filter combinations.
	EvictPrefix(ctx context.Context, prefix string) error
}

// Key builds a namespaced cache key, e.g. Key("cart", 42) -> "cart::42".
func Key(namespace string, parts ...any) string {
	key := namespace + ":"
	for _, p := range parts {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}

type redisCache struct {
	rdb *redis.Client
}

// NewRedis wraps a connected go-redis client.
func NewRedis(rdb *redis.Client) Cache {
	return &redisCache{rdb: rdb}
}

func (c *redisCache) GetOrCompute(ctx context.Context, key string, ttl time.Duration, dest any, compute func() (any, error)) error {
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		return json.Unmarshal(raw, dest)
	}
	if !errors.Is(err, redis.Nil) {
		logging.FromContext(ctx).Warn("cache_get_error", "key", key, "error", err)
	}

	v, err := compute()
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		logging.FromContext(ctx).Warn("cache_set_error", "key", key, "error", err)
	}
	return json.Unmarshal(data, dest)
}

func (c *redisCache) Put(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, data, ttl).Err()
}

func (c *redisCache) Evict(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

func (c *redisCache) EvictPrefix(ctx context.Context, prefix string) error {
	iter := c.rdb.Scan(ctx, 0, prefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	return c.Evict(ctx, keys...)
}
