// Package cache is a thin JSON layer over a shared Redis client.
//
// Every helper is a no-op when Redis is down; callers fall through to the
// database and the API keeps serving.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shashiranjanraj/sweetshop/config"
)

// RDB is nil until Connect succeeds. The queue's Redis driver shares it.
var RDB *redis.Client

var ctx = context.Background()

// Connect dials Redis at REDIS_ADDR and pings it. On failure RDB stays nil
// and the helpers below silently pass through.
func Connect() error {
	client := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr(),
		Password: config.RedisPassword(),
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: redis ping %s: %w", config.RedisAddr(), err)
	}
	RDB = client
	return nil
}

// Get unmarshals the value at key into dest and reports whether it was a hit.
// Misses, marshalling problems and a missing client all read as a miss.
func Get(key string, dest interface{}) bool {
	if RDB == nil {
		return false
	}
	raw, err := RDB.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores value as JSON under key with the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	if RDB == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache: marshal %s: %w", key, err)
	}
	return RDB.Set(ctx, key, data, ttl).Err()
}

// Forget drops key. Used by the catalog repository to invalidate its list
// cache after any mutation.
func Forget(key string) error {
	if RDB == nil {
		return nil
	}
	return RDB.Del(ctx, key).Err()
}
