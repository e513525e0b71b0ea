package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lewybagz/photoBomb/internal/database/redis"

	redis_v9 "github.com/redis/go-redis/v9"
)

// CacheRepository is the local persistent cache shared by the gallery,
// favorites, albums, and session stores. Each store owns a disjoint key
// namespace. Entries never expire; callers own invalidation.
type CacheRepository struct {
	client *redis_v9.Client
}

func NewCacheRepository() *CacheRepository {
	return &CacheRepository{
		client: redis.Redis_Client,
	}
}

// GetJSON reads a cached value into model. The boolean reports a cache hit;
// a missing key is (false, nil), not an error.
func (c *CacheRepository) GetJSON(ctx context.Context, key string, model any) (bool, error) {
	encoded, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis_v9.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("error getting struct from cache: %s", err)
	}

	if err := json.Unmarshal(encoded, model); err != nil {
		return false, fmt.Errorf("error decoding cached struct: %s", err)
	}
	return true, nil
}

// SetJSON stores a value under key with no expiry
func (c *CacheRepository) SetJSON(ctx context.Context, key string, model any) error {
	val, err := json.Marshal(model)
	if err != nil {
		return fmt.Errorf("error saving struct to cache: %s", err)
	}
	if err := c.client.Set(ctx, key, val, 0).Err(); err != nil {
		return fmt.Errorf("error saving struct to cache: %s", err)
	}
	return nil
}

// Delete removes a key
func (c *CacheRepository) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("error deleting key %s: %w", key, err)
	}
	return nil
}
