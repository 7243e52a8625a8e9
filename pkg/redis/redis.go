package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/royxue/cocomo-waitlist/pkg/circuitbreaker"
)

type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisCache satisfies the config.Cache interface. All commands run through
// a circuit breaker so a flapping Redis cannot slow every request down.
type RedisCache struct {
	client  *redis.Client
	breaker circuitbreaker.CircuitBreaker
}

func NewRedisCache(cfg *Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return &RedisCache{
		client:  client,
		breaker: circuitbreaker.NewCircuitBreaker(nil),
	}, nil
}

// Get returns ("", nil) when the key is not found.
func (c *RedisCache) Get(ctx context.Context, key string) (string, error) {
	var value string

	err := c.breaker.Call(func() error {
		v, err := c.client.Get(ctx, key).Result()
		if err == redis.Nil {
			return nil
		}
		if err != nil {
			return err
		}
		value = v
		return nil
	})

	return value, err
}

// Set uses ttl=0 for no expiry.
func (c *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	return c.breaker.Call(func() error {
		return c.client.Set(ctx, key, value, ttl).Err()
	})
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.breaker.Call(func() error {
		return c.client.Del(ctx, key).Err()
	})
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.breaker.Call(func() error {
		return c.client.Ping(ctx).Err()
	})
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetClient exposes the underlying client for callers that need raw Redis
// access, such as the distributed rate limiter.
func (c *RedisCache) GetClient() *redis.Client {
	return c.client
}
