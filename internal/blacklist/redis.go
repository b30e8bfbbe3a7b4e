package blacklist

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "revoked:"

// Redis keeps revocations in redis with a TTL equal to the remaining life of
// the token, so entries expire exactly when the token would and revocations
// survive process restarts.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	if err := r.client.Set(ctx, keyPrefix+token, "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist revoke: %w", err)
	}
	return nil
}

func (r *Redis) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := r.client.Exists(ctx, keyPrefix+token).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist check: %w", err)
	}
	return n > 0, nil
}
