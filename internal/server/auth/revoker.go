package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revoker remembers token ids that must no longer be accepted.
type Revoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NopRevoker never revokes anything; logout then only discards the token
// client side.
type NopRevoker struct{}

func (NopRevoker) Revoke(context.Context, string, time.Duration) error { return nil }
func (NopRevoker) IsRevoked(context.Context, string) (bool, error)     { return false, nil }

// redisCmdable is the part of redis.Cmdable the revoker needs.
type redisCmdable interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

// RedisRevoker stores revoked ids as expiring keys so the list never
// outgrows the set of still-valid tokens.
type RedisRevoker struct {
	client redisCmdable
	prefix string
}

func NewRedisRevoker(client redisCmdable) *RedisRevoker {
	return &RedisRevoker{client: client, prefix: "revoked:"}
}

// NewRedisRevokerFromAddr dials addr lazily; connection errors surface on first use.
func NewRedisRevokerFromAddr(addr, password string, db int) (*RedisRevoker, *redis.Client) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	return NewRedisRevoker(client), client
}

func (r *RedisRevoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if err := r.client.Set(ctx, r.prefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *RedisRevoker) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.client.Exists(ctx, r.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}
