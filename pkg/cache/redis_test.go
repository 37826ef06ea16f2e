package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// redisCache connects to EXTRACTGYM_REDIS_URL or skips the test.
func redisCache(t *testing.T) *RedisCache {
	t.Helper()
	url := os.Getenv("EXTRACTGYM_REDIS_URL")
	if url == "" {
		t.Skip("EXTRACTGYM_REDIS_URL not set")
	}
	c, err := NewRedisCache(context.Background(), url, "extractgym-test:"+uuid.NewString()+":")
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	t.Cleanup(func() {
		_, _ = c.Clear(context.Background())
		c.Close()
	})
	return c
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	c := redisCache(t)

	if _, hit, err := c.Get(ctx, "missing"); err != nil || hit {
		t.Errorf("Get(missing) = hit %v, err %v; want miss", hit, err)
	}

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || !hit || string(data) != "v" {
		t.Errorf("Get(k) = %q, %v, %v; want v, true, nil", data, hit, err)
	}

	if err := c.Set(ctx, "k2", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	n, err := c.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	if n != 2 {
		t.Errorf("Clear() = %d, want 2", n)
	}
}

func TestNewRedisCacheBadURL(t *testing.T) {
	if _, err := NewRedisCache(context.Background(), "http://nope", ""); err == nil {
		t.Error("NewRedisCache(http://) should fail")
	}
}
