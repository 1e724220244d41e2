package db

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisStore) {
	t.Helper()
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(s.Close)
	store := &RedisStore{
		Client: redis.NewClient(&redis.Options{Addr: s.Addr()}),
		Ctx:    context.Background(),
	}
	t.Cleanup(func() { _ = store.Close() })
	return s, store
}

func TestCacheAccountRoundTrip(t *testing.T) {
	_, store := setupTestRedis(t)

	addr := "9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM"
	payload := []byte(`{"lamports":1000}`)
	if err := store.CacheAccount(addr, payload, time.Minute); err != nil {
		t.Fatalf("CacheAccount: %v", err)
	}

	data, ok, err := store.GetCachedAccount(addr)
	if err != nil {
		t.Fatalf("GetCachedAccount: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if string(data) != string(payload) {
		t.Fatalf("cached data mismatch: got %q", data)
	}
}

func TestGetCachedAccountMiss(t *testing.T) {
	_, store := setupTestRedis(t)

	data, ok, err := store.GetCachedAccount("missing")
	if err != nil {
		t.Fatalf("GetCachedAccount: %v", err)
	}
	if ok || data != nil {
		t.Fatalf("expected miss, got ok=%v data=%q", ok, data)
	}
}

func TestCacheAccountTTLExpires(t *testing.T) {
	mr, store := setupTestRedis(t)

	addr := "expiring"
	if err := store.CacheAccount(addr, []byte("x"), 30*time.Second); err != nil {
		t.Fatalf("CacheAccount: %v", err)
	}
	mr.FastForward(31 * time.Second)

	_, ok, err := store.GetCachedAccount(addr)
	if err != nil {
		t.Fatalf("GetCachedAccount: %v", err)
	}
	if ok {
		t.Fatal("expected entry to expire")
	}
}

func TestInvalidateAccount(t *testing.T) {
	_, store := setupTestRedis(t)

	addr := "stale"
	if err := store.CacheAccount(addr, []byte("x"), time.Minute); err != nil {
		t.Fatalf("CacheAccount: %v", err)
	}
	if err := store.InvalidateAccount(addr); err != nil {
		t.Fatalf("InvalidateAccount: %v", err)
	}
	_, ok, err := store.GetCachedAccount(addr)
	if err != nil {
		t.Fatalf("GetCachedAccount: %v", err)
	}
	if ok {
		t.Fatal("expected entry to be gone after invalidation")
	}
}

func TestPublishSubscribeAccountUpdates(t *testing.T) {
	_, store := setupTestRedis(t)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	addr := "watched"
	sub := store.SubscribeAccountUpdates(ctx, addr)
	defer sub.Close()
	// Wait for the subscription to be established before publishing.
	if _, err := sub.Receive(ctx); err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := store.PublishAccountUpdate(addr, []byte(`{"lamports":2000}`)); err != nil {
		t.Fatalf("PublishAccountUpdate: %v", err)
	}

	select {
	case msg := <-sub.Channel():
		if msg.Payload != `{"lamports":2000}` {
			t.Fatalf("unexpected payload %q", msg.Payload)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for pub/sub message")
	}
}
