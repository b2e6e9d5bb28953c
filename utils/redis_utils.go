package utils

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisClient is a thin wrapper used to cache rendered payloads (partner API
// responses, feed XML) with a short TTL. All methods degrade to cache-miss on
// any redis error so that a missing redis never takes the site down.
type RedisClient struct {
	inner *redis.Client
}

func GetRedisClient() *RedisClient {
	return &RedisClient{
		inner: redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
			Password: os.Getenv("REDIS_PASSWD"),
			DB:       0, // use default DB
		})}
}

// GetCachedPayload returns the cached payload for key, or ok=false on miss or
// on any redis error.
func (r *RedisClient) GetCachedPayload(ctx context.Context, key string) (payload string, ok bool) {
	res, err := r.inner.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return res, true
}

// SetCachedPayload stores payload under key for ttl. Errors are swallowed,
// caching is best effort.
func (r *RedisClient) SetCachedPayload(ctx context.Context, key string, payload string, ttl time.Duration) {
	r.inner.Set(ctx, key, payload, ttl)
}
