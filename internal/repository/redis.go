package repository

import (
	"context"
	"fmt"
	"time"

	"siruang/internal/config"

	"github.com/redis/go-redis/v9"
)

// RedisTokenStore keeps revoked JWT IDs until the token would have expired
// anyway, so the set cannot grow without bound.
type RedisTokenStore struct {
	client *redis.Client
}

// NewRedisClient creates a redis client from configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func NewRedisTokenStore(client *redis.Client) *RedisTokenStore {
	return &RedisTokenStore{client: client}
}

func revokedKey(jti string) string {
	return fmt.Sprintf("revoked_token:%s", jti)
}

func (r *RedisTokenStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	if err := r.client.Set(ctx, revokedKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to revoke token in redis: %w", err)
	}
	return nil
}

func (r *RedisTokenStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if r.client == nil {
		return false, fmt.Errorf("redis client is nil")
	}
	_, err := r.client.Get(ctx, revokedKey(jti)).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check token in redis: %w", err)
	}
	return true, nil
}
