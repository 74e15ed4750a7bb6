package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Hazher89/driftpro-admin-complete/internal/config"
)

// CacheService provides caching functionality using Redis
type CacheService struct {
	client *redis.Client
	config *config.Config
}

// NewCacheService creates a new cache service
func NewCacheService(client *redis.Client, config *config.Config) *CacheService {
	return &CacheService{
		client: client,
		config: config,
	}
}

// Enabled reports whether caching is turned on
func (cs *CacheService) Enabled() bool {
	return cs.config.Cache.Enabled
}

// Get retrieves a value from cache
func (cs *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	val, err := cs.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return ErrCacheMiss
		}
		return fmt.Errorf("failed to get cache key %s: %w", key, err)
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return fmt.Errorf("failed to unmarshal cached value for key %s: %w", key, err)
	}

	return nil
}

// Set stores a value in cache with expiration
func (cs *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value for key %s: %w", key, err)
	}

	if err := cs.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}

	return nil
}

// Delete removes a key from cache
func (cs *CacheService) Delete(ctx context.Context, key string) error {
	if err := cs.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	return nil
}

// DeletePattern removes all keys matching a pattern
func (cs *CacheService) DeletePattern(ctx context.Context, pattern string) error {
	keys, err := cs.client.Keys(ctx, pattern).Result()
	if err != nil {
		return fmt.Errorf("failed to get keys for pattern %s: %w", pattern, err)
	}

	if len(keys) > 0 {
		if err := cs.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete keys for pattern %s: %w", pattern, err)
		}
	}

	return nil
}

// Cache key builders for the tenant-scoped data types
func (cs *CacheService) BuildCompanyKey(companyID string) string {
	return fmt.Sprintf("company:%s", companyID)
}

func (cs *CacheService) BuildUserKey(userID string) string {
	return fmt.Sprintf("user:%s", userID)
}

func (cs *CacheService) BuildDashboardKey(companyID string) string {
	return fmt.Sprintf("dashboard:company:%s", companyID)
}

func (cs *CacheService) BuildCompanyPattern(companyID string) string {
	return fmt.Sprintf("*company:%s*", companyID)
}

// Per-type TTLs from configuration
func (cs *CacheService) CompanyTTL() time.Duration {
	return time.Duration(cs.config.Cache.CompanyTTL) * time.Second
}

func (cs *CacheService) UserTTL() time.Duration {
	return time.Duration(cs.config.Cache.UserTTL) * time.Second
}

func (cs *CacheService) DashboardTTL() time.Duration {
	return time.Duration(cs.config.Cache.DashboardTTL) * time.Second
}
