package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces robodesk keys inside a shared Redis database.
const DefaultRedisPrefix = "robodesk:"

// RedisKV is a key-value backend for session and activity state kept in Redis.
type RedisKV struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
}

// NewRedisKV wraps client. An empty prefix selects DefaultRedisPrefix.
func NewRedisKV(client redis.UniversalClient, prefix string) *RedisKV {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisKV{client: client, prefix: prefix, timeout: 5 * time.Second}
}

// DialRedis connects to addr and verifies the connection.
func DialRedis(ctx context.Context, addr, prefix string) (*RedisKV, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return NewRedisKV(client, prefix), nil
}

// Close closes the underlying client.
func (r *RedisKV) Close() error {
	return r.client.Close()
}

// Ping checks the Redis connection is alive.
func (r *RedisKV) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisKV) key(k string) string { return r.prefix + k }

func (r *RedisKV) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

// Get returns the value stored under key and whether it exists.
func (r *RedisKV) Get(key string) (string, bool, error) {
	ctx, cancel := r.ctx()
	defer cancel()

	value, err := r.client.Get(ctx, r.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key with no expiry.
func (r *RedisKV) Set(key, value string) error {
	return r.SetAll(map[string]string{key: value})
}

// SetAll stores every pair inside one MULTI/EXEC block.
func (r *RedisKV) SetAll(pairs map[string]string) error {
	ctx, cancel := r.ctx()
	defer cancel()

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range pairs {
			pipe.Set(ctx, r.key(k), v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Delete removes key. Missing keys are not an error.
func (r *RedisKV) Delete(key string) error {
	return r.DeleteAll(key)
}

// DeleteAll removes every key inside one MULTI/EXEC block.
func (r *RedisKV) DeleteAll(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := r.ctx()
	defer cancel()

	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = r.key(k)
	}
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, full...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete: %w", err)
	}
	return nil
}
