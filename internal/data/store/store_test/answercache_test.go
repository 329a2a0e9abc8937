package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/akolanti/DocIntel/internal/config"
	"github.com/akolanti/DocIntel/internal/data/redisStore"
	"github.com/akolanti/DocIntel/internal/data/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestAnswerCache(t *testing.T) (*miniredis.Miniredis, *store.RedisVersionStore, *store.RedisAnswerCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	internalStore := redisStore.NewTestStore(client)
	versions := store.TestVersionStore(internalStore)
	cache := store.TestAnswerCache(internalStore, versions)
	return mr, versions, cache
}

func TestDeriveKey(t *testing.T) {
	tests := []struct {
		name     string
		v1, v2   int64
		q1, q2   string
		wantSame bool
	}{
		{"identical inputs", 1, 1, "capital of France?", "capital of France?", true},
		{"different versions", 1, 2, "capital of France?", "capital of France?", false},
		{"different questions", 1, 1, "capital of France?", "capital of Spain?", false},
		{"whitespace is significant", 1, 1, "capital of France?", "capital of France? ", false},
		{"casing is significant", 1, 1, "capital of France?", "Capital of France?", false},
		{"version and separator don't blur", 12, 1, "x", "2:x", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k1 := store.DeriveKey(tt.v1, tt.q1)
			k2 := store.DeriveKey(tt.v2, tt.q2)
			if (k1 == k2) != tt.wantSame {
				t.Errorf("DeriveKey(%d,%q)=%s vs DeriveKey(%d,%q)=%s, wantSame=%v",
					tt.v1, tt.q1, k1, tt.v2, tt.q2, k2, tt.wantSame)
			}
			if len(k1) != 64 {
				t.Errorf("Key length got %d, want 64 hex chars", len(k1))
			}
		})
	}
}

func TestAnswerCache_Roundtrip(t *testing.T) {
	_, _, cache := newTestAnswerCache(t)
	ctx := context.Background()

	const question = "capital of France?"

	if _, found := cache.Get(ctx, question); found {
		t.Fatal("Expected a miss on an empty cache")
	}

	if err := cache.Put(ctx, question, "Paris"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	answer, found := cache.Get(ctx, question)
	if !found {
		t.Fatal("Expected a hit after Put under the same version")
	}
	if answer != "Paris" {
		t.Errorf("Answer got %q, want %q", answer, "Paris")
	}
}

func TestAnswerCache_BumpInvalidates(t *testing.T) {
	mr, versions, cache := newTestAnswerCache(t)
	ctx := context.Background()

	const question = "capital of France?"

	if err := cache.Put(ctx, question, "Paris"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	oldVersion, _ := versions.GetVersion(ctx)

	if err := versions.BumpVersion(ctx); err != nil {
		t.Fatalf("BumpVersion failed: %v", err)
	}

	if _, found := cache.Get(ctx, question); found {
		t.Error("Expected a miss after the corpus version bump")
	}

	// the old entry is orphaned, not deleted - redis still holds it
	if !mr.Exists(store.DeriveKey(oldVersion, question)) {
		t.Error("Old entry should still physically exist under the old key")
	}
}

func TestAnswerCache_EntriesExpire(t *testing.T) {
	mr, _, cache := newTestAnswerCache(t)
	ctx := context.Background()

	const question = "capital of France?"

	if err := cache.Put(ctx, question, "Paris"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	mr.FastForward(config.AnswerCacheTTL + time.Second)

	if _, found := cache.Get(ctx, question); found {
		t.Error("Expected a miss after the TTL elapsed")
	}
}

func TestAnswerCache_ReadErrorIsAMiss(t *testing.T) {
	mr, _, cache := newTestAnswerCache(t)
	ctx := context.Background()

	const question = "capital of France?"

	if err := cache.Put(ctx, question, "Paris"); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	mr.SetError("store unreachable")
	if _, found := cache.Get(ctx, question); found {
		t.Error("A failing store read must behave like a miss")
	}
}
