package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sebasr/sensores-dashboard/internal/store"
)

// redisKeyspace namespaces dashboard cache entries inside a shared Redis.
const redisKeyspace = "sensores:cache:"

// RedisCache is a QueryCache backed by Redis, for deployments running more
// than one dashboard instance against the same store. Expiry is enforced
// server-side through the key TTL. Redis failures degrade to cache misses;
// the query still runs against the gateway.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache creates a Redis-backed cache. A non-positive ttl selects
// DefaultTTL.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Get implements QueryCache.Get.
func (c *RedisCache) Get(key string) ([]store.Record, bool) {
	raw, err := c.client.Get(context.Background(), redisKeyspace+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).Warn("cache: redis get failed, treating as miss")
		}
		return nil, false
	}

	var records []store.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		logrus.WithError(err).Warn("cache: corrupt redis entry, treating as miss")
		return nil, false
	}
	return records, true
}

// Put implements QueryCache.Put.
func (c *RedisCache) Put(key string, records []store.Record) {
	raw, err := json.Marshal(records)
	if err != nil {
		logrus.WithError(err).Warn("cache: could not encode records for redis")
		return
	}
	if err := c.client.Set(context.Background(), redisKeyspace+key, raw, c.ttl).Err(); err != nil {
		logrus.WithError(err).Warn("cache: redis set failed")
	}
}

// InvalidateCollection implements QueryCache.InvalidateCollection.
func (c *RedisCache) InvalidateCollection(collection string) {
	c.deleteByPattern(redisKeyspace + collectionPrefix(collection) + "*")
}

// Clear implements QueryCache.Clear.
func (c *RedisCache) Clear() {
	c.deleteByPattern(redisKeyspace + "*")
}

func (c *RedisCache) deleteByPattern(pattern string) {
	ctx := context.Background()
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logrus.WithError(err).Warn("cache: redis del failed")
		}
	}
	if err := iter.Err(); err != nil {
		logrus.WithError(err).Warn("cache: redis scan failed")
	}
}
