package redisdb

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okvitka/mindhaven-backend/internal/platform/envutil"
	"github.com/okvitka/mindhaven-backend/internal/platform/logger"
)

// Client wraps the Redis connection used for the recommendation cache.
// The cache is optional: NewFromEnv returns (nil, nil) when REDIS_ADDR is
// unset and callers degrade to direct graph reads.
type Client struct {
	RDB *redis.Client
	log *logger.Logger
}

func NewFromEnv(log *logger.Logger) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("redisdb: logger required")
	}

	addr := envutil.Str("REDIS_ADDR", "")
	if addr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: envutil.Str("REDIS_PASSWORD", ""),
		DB:       envutil.Int("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redisdb: ping: %w", err)
	}

	return &Client{RDB: rdb, log: log.With("client", "RedisDB")}, nil
}

func (c *Client) Close() error {
	if c == nil || c.RDB == nil {
		return nil
	}
	return c.RDB.Close()
}
