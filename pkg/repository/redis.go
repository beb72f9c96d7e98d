package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/gourmet/pkg/config"
	"github.com/example/gourmet/pkg/models"
	"github.com/go-redis/redis/v8"
)

const (
	menuCacheKey       = "menu:all"
	idempotencyPending = "pending"
)

type RedisRepository struct {
	client *redis.Client
	config *config.RedisConfig
}

func NewRedisRepository(cfg *config.RedisConfig) *RedisRepository {
	return &RedisRepository{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			PoolSize: cfg.PoolSize,
		}),
		config: cfg,
	}
}

func (r *RedisRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisRepository) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return r.client.Set(ctx, key, value, expiration).Err()
}

func (r *RedisRepository) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return val, err
}

func (r *RedisRepository) Del(ctx context.Context, keys ...string) error {
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisRepository) SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, expiration).Err()
}

// GetJSON decodes the value at key into dest, or returns ErrCacheMiss.
func (r *RedisRepository) GetJSON(ctx context.Context, key string, dest interface{}) error {
	data, err := r.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (r *RedisRepository) Close() error {
	return r.client.Close()
}

func ttlOr(ttl, fallback time.Duration) time.Duration {
	if ttl > 0 {
		return ttl
	}
	return fallback
}

// Cache for user data. The password hash is never written to Redis.
func (r *RedisRepository) CacheUser(ctx context.Context, user *models.User) error {
	key := fmt.Sprintf("user:%s", user.ID)
	return r.SetJSON(ctx, key, user, ttlOr(r.config.UserTTL, 30*time.Minute))
}

func (r *RedisRepository) GetUserCache(ctx context.Context, userID string) (*models.User, error) {
	key := fmt.Sprintf("user:%s", userID)
	var user models.User
	err := r.GetJSON(ctx, key, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *RedisRepository) InvalidateUser(ctx context.Context, userID string) error {
	return r.Del(ctx, fmt.Sprintf("user:%s", userID))
}

func (r *RedisRepository) CacheMenu(ctx context.Context, items []models.MenuItem) error {
	return r.SetJSON(ctx, menuCacheKey, items, ttlOr(r.config.MenuTTL, 10*time.Minute))
}

func (r *RedisRepository) GetMenuCache(ctx context.Context) ([]models.MenuItem, error) {
	var items []models.MenuItem
	if err := r.GetJSON(ctx, menuCacheKey, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *RedisRepository) InvalidateMenu(ctx context.Context) error {
	return r.Del(ctx, menuCacheKey)
}

func idempotencyKey(key string) string {
	return fmt.Sprintf("idempotency:%s", key)
}

// ClaimIdempotencyKey marks key as in flight. It reports false when another
// request already holds or completed it.
func (r *RedisRepository) ClaimIdempotencyKey(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return r.client.SetNX(ctx, idempotencyKey(key), idempotencyPending, ttl).Result()
}

// IdempotentResult returns the order id stored for key, or "" while the
// first request is still running.
func (r *RedisRepository) IdempotentResult(ctx context.Context, key string) (string, error) {
	val, err := r.Get(ctx, idempotencyKey(key))
	if err != nil {
		return "", err
	}
	if val == idempotencyPending {
		return "", nil
	}
	return val, nil
}

func (r *RedisRepository) CompleteIdempotencyKey(ctx context.Context, key, orderID string, ttl time.Duration) error {
	return r.client.Set(ctx, idempotencyKey(key), orderID, ttl).Err()
}

func (r *RedisRepository) ReleaseIdempotencyKey(ctx context.Context, key string) error {
	return r.Del(ctx, idempotencyKey(key))
}
