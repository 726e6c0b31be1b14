package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ErrCacheMiss is returned by the getters when the key does not exist
var ErrCacheMiss = errors.New("key not found")

// Options configures the connection. Namespace prefixes every key so
// several bots can share one redis database.
type Options struct {
	Addr      string
	Password  string
	DB        int
	Namespace string
}

// Cache holds the shared catalog and the per chat conversation data
type Cache struct {
	client    *redis.Client
	namespace string
	logger    *zap.Logger
}

func New(opts Options, logger *zap.Logger) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("successfully connected to Redis",
		zap.String("addr", opts.Addr),
		zap.String("namespace", opts.Namespace),
	)

	return &Cache{
		client:    client,
		namespace: opts.Namespace,
		logger:    logger,
	}, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) key(k string) string {
	return namespaced(c.namespace, k)
}

func namespaced(namespace, k string) string {
	if namespace == "" {
		return k
	}
	return namespace + ":" + k
}

// setJSON stores value as JSON with TTL
func (c *Cache) setJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		c.logger.Error("failed to set cache",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("set cache: %w", err)
	}

	return nil
}

// getJSON decodes the value of key into dest. A positive ttl renews the
// expiry on read, so data in active use does not run out.
func (c *Cache) getJSON(ctx context.Context, key string, dest interface{}, ttl time.Duration) error {
	var cmd *redis.StringCmd
	if ttl > 0 {
		cmd = c.client.GetEx(ctx, c.key(key), ttl)
	} else {
		cmd = c.client.Get(ctx, c.key(key))
	}

	data, err := cmd.Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		c.logger.Error("failed to get cache",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("get cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

func (c *Cache) del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}

	if err := c.client.Del(ctx, full...).Err(); err != nil {
		c.logger.Error("failed to delete cache",
			zap.Strings("keys", keys),
			zap.Error(err),
		)
		return fmt.Errorf("delete cache: %w", err)
	}

	return nil
}

func (c *Cache) setString(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.key(key), value, ttl).Err(); err != nil {
		c.logger.Error("failed to set string",
			zap.String("key", key),
			zap.Error(err),
		)
		return fmt.Errorf("set string: %w", err)
	}

	return nil
}

func (c *Cache) getString(ctx context.Context, key string) (string, error) {
	value, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	if err != nil {
		c.logger.Error("failed to get string",
			zap.String("key", key),
			zap.Error(err),
		)
		return "", fmt.Errorf("get string: %w", err)
	}

	return value, nil
}

// countInWindow increments a fixed window counter. The window starts with
// the first hit; later hits don't extend it.
func (c *Cache) countInWindow(ctx context.Context, key string, window time.Duration) (int64, error) {
	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, c.key(key))
	pipe.ExpireNX(ctx, c.key(key), window)

	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Error("failed to count request",
			zap.String("key", key),
			zap.Error(err),
		)
		return 0, fmt.Errorf("count in window: %w", err)
	}

	return incr.Val(), nil
}
