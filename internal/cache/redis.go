package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/emberapp/ember/internal/config"
)

// unreadTTL bounds staleness of cached unread counters; the DB remains the
// source of truth on a miss.
const unreadTTL = time.Hour

type RedisCache struct {
	Client *redis.Client
}

// NewRedisCache initializes Redis client from config.
// Only Addr is mandatory, Password/DB are optional.
func NewRedisCache(cfg *config.Config) *RedisCache {
	opts := &redis.Options{
		Addr: cfg.Redis.Addr,
	}
	if cfg.Redis.Password != "" {
		opts.Password = cfg.Redis.Password
	}
	if cfg.Redis.DB != 0 {
		opts.DB = cfg.Redis.DB
	}
	return &RedisCache{Client: redis.NewClient(opts)}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *RedisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return c.Client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	return c.Client.Get(ctx, key).Result()
}

func (c *RedisCache) Del(ctx context.Context, key string) error {
	return c.Client.Del(ctx, key).Err()
}

func (c *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	return c.Client.Incr(ctx, key).Result()
}

// KeyForUnreadCount generates the Redis key for a user's unread message
// count within one match.
func (c *RedisCache) KeyForUnreadCount(matchID, userID uint64) string {
	return fmt.Sprintf("chat:unread:%d:%d", matchID, userID)
}

// BumpUnreadCount increments the counter after a message is appended.
// Only bumps keys that already exist so a cold cache stays cold until the
// next DB-backed read seeds it.
func (c *RedisCache) BumpUnreadCount(ctx context.Context, matchID, userID uint64) error {
	key := c.KeyForUnreadCount(matchID, userID)
	n, err := c.Client.Exists(ctx, key).Result()
	if err != nil || n == 0 {
		return err
	}
	if err := c.Client.Incr(ctx, key).Err(); err != nil {
		return err
	}
	return c.Client.Expire(ctx, key, unreadTTL).Err()
}

// SetUnreadCount stores a fresh counter value with TTL.
func (c *RedisCache) SetUnreadCount(ctx context.Context, matchID, userID uint64, count int64) error {
	return c.Client.Set(ctx, c.KeyForUnreadCount(matchID, userID), count, unreadTTL).Err()
}

// GetUnreadCount returns the cached counter, with found=false on a miss.
func (c *RedisCache) GetUnreadCount(ctx context.Context, matchID, userID uint64) (int64, bool, error) {
	key := c.KeyForUnreadCount(matchID, userID)
	val, err := c.Client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil // cache miss
	} else if err != nil {
		return 0, false, err
	}
	// refresh TTL on access
	_ = c.Client.Expire(ctx, key, unreadTTL).Err()
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, nil // treat garbage as a miss
	}
	return n, true, nil
}

// ResetUnreadCount zeroes the counter after a mark-read sweep.
func (c *RedisCache) ResetUnreadCount(ctx context.Context, matchID, userID uint64) error {
	return c.Client.Set(ctx, c.KeyForUnreadCount(matchID, userID), 0, unreadTTL).Err()
}
