package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/devHanif-git/productivityHelper/internal/domain"
)

// RedisGuard implements domain.OnceGuard on a Redis SetNX key. Daily
// scheduler jobs use it so a restart does not repeat an already fired job.
type RedisGuard struct {
	client *redis.Client
}

var _ domain.OnceGuard = (*RedisGuard)(nil)

// NewRedisGuard creates the guard.
func NewRedisGuard(client *redis.Client) *RedisGuard {
	return &RedisGuard{client: client}
}

// Once runs fn if the key was not set yet. A failing fn releases the key so
// the next attempt may run again.
func (g *RedisGuard) Once(key string, ttl time.Duration, fn func() error) error {
	ctx := context.Background()
	ok, err := g.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	if err := fn(); err != nil {
		_ = g.client.Del(ctx, key).Err()
		return err
	}
	return nil
}
