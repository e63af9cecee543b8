package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eykd/crnodes/internal/nodes"
)

// KeyPrefix namespaces snapshot keys.
const KeyPrefix = "crn:state:"

// DefaultKey is the snapshot name used when none is configured.
const DefaultKey = "default"

// RedisBackend stores the snapshot under a single Redis key without expiry.
type RedisBackend struct {
	client *redis.Client
	name   string
	now    func() time.Time
}

// NewRedisBackend connects to redisURL and stores the snapshot called name.
func NewRedisBackend(ctx context.Context, redisURL, name string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisBackendWithClient(client, name), nil
}

// NewRedisBackendWithClient wraps an existing client.
func NewRedisBackendWithClient(client *redis.Client, name string) *RedisBackend {
	if name == "" {
		name = DefaultKey
	}
	return &RedisBackend{
		client: client,
		name:   name,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Key is the Redis key holding the snapshot.
func (b *RedisBackend) Key() string {
	return KeyPrefix + b.name
}

// Load fetches the snapshot. A missing key yields ErrNotFound.
func (b *RedisBackend) Load(ctx context.Context) (nodes.State, error) {
	data, err := b.client.Get(ctx, b.Key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nodes.State{}, ErrNotFound
	}
	if err != nil {
		return nodes.State{}, fmt.Errorf("load snapshot: %w", err)
	}
	return Decode(data)
}

// Save stores the snapshot.
func (b *RedisBackend) Save(ctx context.Context, s nodes.State) error {
	data, err := Encode(s, b.now())
	if err != nil {
		return err
	}
	if err := b.client.Set(ctx, b.Key(), data, 0).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}
