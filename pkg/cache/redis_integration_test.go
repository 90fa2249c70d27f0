//go:build integration

package cache

import (
	"context"
	"os"
	"testing"
)

// Run with: GTWW_REDIS_ADDR=localhost:6379 go test -tags integration ./pkg/cache
func TestRedisCache(t *testing.T) {
	addr := os.Getenv("GTWW_REDIS_ADDR")
	if addr == "" {
		t.Skip("GTWW_REDIS_ADDR not set")
	}
	c, err := NewRedisCache(context.Background(), RedisConfig{Addr: addr, Prefix: "gtww-test:"})
	if err != nil {
		t.Fatalf("NewRedisCache error: %v", err)
	}
	defer c.Close()
	if _, err := c.Clear(context.Background()); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	exerciseCache(t, c)
}
