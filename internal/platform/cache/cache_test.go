package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type payload struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, "clara:"), mr
}

func TestRedisCache_SetGet(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "k1", payload{Name: "a", Score: 42}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("clara:k1") {
		t.Error("expected prefixed key in redis")
	}

	var got payload
	if err := c.Get(ctx, "k1", &got); err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "a" || got.Score != 42 {
		t.Errorf("unexpected value: %+v", got)
	}
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := newTestCache(t)
	var got payload
	err := c.Get(context.Background(), "absent", &got)
	if !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss, got %v", err)
	}
}

func TestRedisCache_Expiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	if err := c.Set(ctx, "k", payload{Name: "x"}, time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Second)
	var got payload
	if err := c.Get(ctx, "k", &got); !errors.Is(err, ErrMiss) {
		t.Errorf("expected expired key to miss, got %v", err)
	}
}

func TestKey_Deterministic(t *testing.T) {
	a := Key("nlp", "the same transcript")
	b := Key("nlp", "the same transcript")
	if a != b {
		t.Error("expected identical keys for identical content")
	}
	if a == Key("nlp", "another transcript") {
		t.Error("expected different keys for different content")
	}
	if len(a) != len("nlp:")+64 {
		t.Errorf("unexpected key length %d", len(a))
	}
}
