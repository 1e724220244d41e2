// Package db wraps the gateway's Redis usage: a short-TTL cache of fetched
// chain accounts and a pub/sub channel per account for fanning change
// notifications out to gateway subscribers.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore wraps a redis client and context for operations.
type RedisStore struct {
	Client *redis.Client
	Ctx    context.Context
}

// InitRedis initializes a Redis client and returns a RedisStore.
func InitRedis(addr string) (*RedisStore, error) {
	rs := &RedisStore{
		Client: redis.NewClient(&redis.Options{Addr: addr}),
		Ctx:    context.Background(),
	}

	if err := redisotel.InstrumentTracing(rs.Client); err != nil {
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}

	if err := rs.Client.Ping(rs.Ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	zap.L().Info("Connected to Redis", zap.String("addr", addr))
	return rs, nil
}

// accountKey is the cache key for one chain account, by base58 address.
func accountKey(address string) string { return "account:" + address }

// accountChannel is the pub/sub channel for one account's change feed.
func accountChannel(address string) string { return "account-updates:" + address }

// CacheAccount stores raw account data under the address with a TTL. Chain
// state changes out from under the gateway, so the TTL is short; the cache
// only absorbs request bursts.
func (r *RedisStore) CacheAccount(address string, data []byte, ttl time.Duration) error {
	return r.Client.Set(r.Ctx, accountKey(address), data, ttl).Err()
}

// GetCachedAccount returns the cached data for address, reporting whether
// the cache held it.
func (r *RedisStore) GetCachedAccount(address string) ([]byte, bool, error) {
	data, err := r.Client.Get(r.Ctx, accountKey(address)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// InvalidateAccount drops the cached entry for address.
func (r *RedisStore) InvalidateAccount(address string) error {
	return r.Client.Del(r.Ctx, accountKey(address)).Err()
}

// PublishAccountUpdate fans an account change notification out to every
// gateway subscriber of that address.
func (r *RedisStore) PublishAccountUpdate(address string, payload []byte) error {
	return r.Client.Publish(r.Ctx, accountChannel(address), payload).Err()
}

// SubscribeAccountUpdates opens a pub/sub subscription to one account's
// change feed. The caller owns the returned PubSub and must Close it.
func (r *RedisStore) SubscribeAccountUpdates(ctx context.Context, address string) *redis.PubSub {
	return r.Client.Subscribe(ctx, accountChannel(address))
}

// Close releases the underlying client.
func (r *RedisStore) Close() error {
	return r.Client.Close()
}
