package store

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"

    "github.com/redis/go-redis/v9"

    "github.com/debran19996/glint-server/internal/price"
)

// RedisStore persists snapshots in Redis as JSON values. Entries carry no
// TTL; staleness is decided by the refresh orchestrator, not the backend.
type RedisStore struct {
    rdb *redis.Client
}

// NewRedisStore connects and pings so that a misconfigured backend fails at
// startup instead of on the first request.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
    rdb := redis.NewClient(&redis.Options{
        Addr:     addr,
        Password: password,
        DB:       db,
    })
    if err := rdb.Ping(ctx).Err(); err != nil {
        return nil, fmt.Errorf("redis ping: %w", err)
    }
    return &RedisStore{rdb: rdb}, nil
}

func (r *RedisStore) Get(ctx context.Context, key string) (*price.Snapshot, error) {
    b, err := r.rdb.Get(ctx, key).Bytes()
    if errors.Is(err, redis.Nil) {
        return nil, ErrNotFound
    }
    if err != nil {
        return nil, fmt.Errorf("redis get %q: %w", key, err)
    }
    var snap price.Snapshot
    if err := json.Unmarshal(b, &snap); err != nil {
        return nil, fmt.Errorf("redis get %q: decode: %w", key, err)
    }
    return &snap, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, snap *price.Snapshot) error {
    b, err := json.Marshal(snap)
    if err != nil {
        return fmt.Errorf("redis set %q: encode: %w", key, err)
    }
    if err := r.rdb.Set(ctx, key, b, 0).Err(); err != nil {
        return fmt.Errorf("redis set %q: %w", key, err)
    }
    return nil
}

func (r *RedisStore) Close() error { return r.rdb.Close() }
