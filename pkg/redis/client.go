package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Payphone-Digital/chirpy/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrDisabled is returned by every operation of the disabled client.
var ErrDisabled = errors.New("redis is disabled")

// Client is the subset of Redis the service layer relies on.
type Client interface {
	IsEnabled() bool
	Ping(ctx context.Context) error
	Close() error
	SAdd(ctx context.Context, key, member string, ttl time.Duration) error
	SIsMember(ctx context.Context, key, member string) (bool, error)
}

type client struct {
	rdb    *redis.Client
	logger *zap.Logger
}

// NewClient connects to Redis when enabled in cfg, and otherwise returns a
// client whose operations all fail with ErrDisabled.
func NewClient(cfg *config.Config, logger *zap.Logger) (Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if !cfg.Redis.Enabled {
		logger.Info("Redis disabled, refresh tokens are validated against the database only")
		return disabled{}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddress(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
		PoolTimeout:  cfg.Redis.PoolTimeout,
	})

	c := &client{rdb: rdb, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.Ping(ctx); err != nil {
		logger.Error("Failed to connect to Redis",
			zap.String("address", cfg.RedisAddress()),
			zap.Error(err),
		)
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Successfully connected to Redis",
		zap.String("address", cfg.RedisAddress()),
		zap.Int("database", cfg.Redis.Database),
	)

	return c, nil
}

func (c *client) IsEnabled() bool { return true }

func (c *client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func (c *client) Close() error {
	return c.rdb.Close()
}

// SAdd adds member to the set at key and refreshes the key's TTL.
func (c *client) SAdd(ctx context.Context, key, member string, ttl time.Duration) error {
	pipe := c.rdb.TxPipeline()
	pipe.SAdd(ctx, key, member)
	if ttl > 0 {
		pipe.Expire(ctx, key, ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("Failed to add set member",
			zap.String("key", key),
			zap.Duration("ttl", ttl),
			zap.Error(err),
		)
		return fmt.Errorf("failed to add set member: %w", err)
	}

	c.logger.Debug("Set member added", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (c *client) SIsMember(ctx context.Context, key, member string) (bool, error) {
	ok, err := c.rdb.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check set member: %w", err)
	}
	return ok, nil
}

type disabled struct{}

// NewDisabledClient returns a Client that reports itself disabled.
func NewDisabledClient() Client { return disabled{} }

func (disabled) IsEnabled() bool { return false }
func (disabled) Ping(context.Context) error { return ErrDisabled }
func (disabled) Close() error { return nil }

func (disabled) SAdd(context.Context, string, string, time.Duration) error {
	return ErrDisabled
}

func (disabled) SIsMember(context.Context, string, string) (bool, error) {
	return false, ErrDisabled
}
