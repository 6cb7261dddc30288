package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Backend stores exclusion titles per session key.
type Backend interface {
	Load(ctx context.Context, key string) ([]string, error)
	Add(ctx context.Context, key string, titles ...string) error
}

// MemoryBackend keeps exclusions for the life of the process.
type MemoryBackend struct {
	mu   sync.Mutex
	data map[string][]string
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{data: make(map[string][]string)}
}

func (b *MemoryBackend) Load(_ context.Context, key string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.data[key]...), nil
}

func (b *MemoryBackend) Add(_ context.Context, key string, titles ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = append(b.data[key], titles...)
	return nil
}

// RedisBackend stores each session's exclusions in a Redis list that
// expires after ttl without writes, which bounds the session.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBackend connects to addr and verifies the connection.
func NewRedisBackend(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisBackend, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return &RedisBackend{client: client, ttl: ttl}, nil
}

func (b *RedisBackend) Load(ctx context.Context, key string) ([]string, error) {
	titles, err := b.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", key, err)
	}
	return titles, nil
}

func (b *RedisBackend) Add(ctx context.Context, key string, titles ...string) error {
	if len(titles) == 0 {
		return nil
	}
	vals := make([]any, len(titles))
	for i, t := range titles {
		vals[i] = t
	}
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, vals...)
		if b.ttl > 0 {
			pipe.Expire(ctx, key, b.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rpush %s: %w", key, err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
