package facts

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
)

const redisKeyPrefix = "drant:facts:"

var _ Backend = (*RedisBackend)(nil)

// RedisBackend stores one JSON snapshot per session. The key TTL bounds how
// long an idle session survives; the lifespan counter is decremented per turn.
type RedisBackend struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisBackend(client *redis.Client, ttl time.Duration) *RedisBackend {
	return &RedisBackend{
		client: client,
		ttl:    ttl,
	}
}

func (b *RedisBackend) Load(ctx context.Context, sessionID string) (Snapshot, error) {
	key := redisKeyPrefix + sessionID

	data, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Snapshot{}, nil
	}
	if err != nil {
		return Snapshot{}, oops.In("facts").With("session", sessionID).Wrapf(err, "redis get")
	}

	var snap Snapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, oops.In("facts").With("session", sessionID).Wrapf(err, "failed to decode snapshot")
	}

	if snap.expired() {
		return Snapshot{}, b.client.Del(ctx, key).Err()
	}

	result := snap
	snap.Lifespan--

	if err = b.write(ctx, key, snap); err != nil {
		return Snapshot{}, oops.In("facts").With("session", sessionID).Wrapf(err, "failed to age snapshot")
	}

	return result, nil
}

func (b *RedisBackend) Save(ctx context.Context, sessionID string, snap Snapshot) error {
	key := redisKeyPrefix + sessionID

	if snap.expired() {
		if err := b.client.Del(ctx, key).Err(); err != nil {
			return oops.In("facts").With("session", sessionID).Wrapf(err, "redis del")
		}
		return nil
	}

	if err := b.write(ctx, key, snap); err != nil {
		return oops.In("facts").With("session", sessionID).Wrapf(err, "redis set")
	}

	return nil
}

func (b *RedisBackend) write(ctx context.Context, key string, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	return b.client.Set(ctx, key, data, b.ttl).Err()
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
