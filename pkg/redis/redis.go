package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"vvf-listone/config"
)

// Client Redis client wrapper.
// Backs the storage adapter (storage.driver=redis) and the export rate limiter.
type Client struct {
	rdb    *goredis.Client
	logger *zap.Logger
}

// NewClient connects to Redis and checks the connection with PING
func NewClient(cfg *config.RedisConfig, logger *zap.Logger) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis connect: %w", err)
	}

	logger.Info("redis connected", zap.String("addr", cfg.Addr))

	return &Client{rdb: rdb, logger: logger}, nil
}

// ── key-value store ──

// Get returns the value of key; found is false when the key does not exist
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

// Set stores value under key without expiry
func (c *Client) Set(ctx context.Context, key, value string) error {
	return c.rdb.Set(ctx, key, value, 0).Err()
}

// Delete removes keys; missing keys are ignored
func (c *Client) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// ── rate limiting ──

const rateLimitPrefix = "rate_limit:"

// CheckRateLimit sliding-window limiter on a sorted set.
// Returns true when the request identified by key is within limit for window.
//
// Trim, add and count run in one MULTI block, so concurrent callers each see
// a distinct count. A rejected request takes its entry back out.
func (c *Client) CheckRateLimit(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	zkey := rateLimitPrefix + key
	cutoff := strconv.FormatInt(now.Add(-window).UnixNano(), 10)
	member := uuid.NewString()

	pipe := c.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, zkey, "0", cutoff)
	pipe.ZAdd(ctx, zkey, goredis.Z{Score: float64(now.UnixNano()), Member: member})
	card := pipe.ZCard(ctx, zkey)
	pipe.Expire(ctx, zkey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	if card.Val() <= int64(limit) {
		return true, nil
	}

	if err := c.rdb.ZRem(ctx, zkey, member).Err(); err != nil {
		c.logger.Warn("rate limit entry not released", zap.String("key", zkey), zap.Error(err))
	}
	return false, nil
}

// Close closes the connection
func (c *Client) Close() error {
	return c.rdb.Close()
}
