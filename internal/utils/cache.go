package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON cache payloads
	"time"          // Cache TTLs

	"github.com/redis/go-redis/v9" // Redis client
)

// GetCache looks up a JSON cache entry (a quoted price, the leaderboard) and
// unmarshals it into dest. The bool reports whether the key existed.
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Read the cached JSON
	if err == redis.Nil {
		return false, nil // Cache miss
	} else if err != nil {
		return false, err // Redis unavailable
	}
	return true, json.Unmarshal([]byte(val), dest) // Decode into dest
}

// SetCache stores value as JSON under key for the given TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Encode the cached value
	if err != nil {
		return err
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Write with expiry
}

// DeleteCache drops a cache entry before its TTL, used by write paths to
// invalidate the leaderboard after a trade or user deletion
func DeleteCache(ctx context.Context, rdb *redis.Client, key string) error {
	return rdb.Del(ctx, key).Err() // Remove the key
}
