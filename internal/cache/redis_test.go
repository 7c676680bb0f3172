package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestCache(t *testing.T) *RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	return NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
}

func TestRedisCacheRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "services:all", []byte(`{"services":[]}`), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	val, ok, err := c.Get(ctx, "services:all")
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v, %v", val, ok, err)
	}
	if string(val) != `{"services":[]}` {
		t.Fatalf("unexpected value: %s", val)
	}

	_, ok, err = c.Get(ctx, "missing")
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
}

func TestRedisCacheDeletePrefix(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"availability:2024-06-10:a", "availability:2024-06-10:b", "availability:2024-06-11:a"} {
		if err := c.Set(ctx, key, []byte("x"), time.Minute); err != nil {
			t.Fatalf("Set error: %v", err)
		}
	}

	if err := c.DeletePrefix(ctx, "availability:2024-06-10:"); err != nil {
		t.Fatalf("DeletePrefix error: %v", err)
	}

	if _, ok, _ := c.Get(ctx, "availability:2024-06-10:a"); ok {
		t.Fatalf("expected key deleted")
	}
	if _, ok, _ := c.Get(ctx, "availability:2024-06-11:a"); !ok {
		t.Fatalf("expected other date untouched")
	}
}
