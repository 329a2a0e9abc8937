package store_test

import (
	"context"
	"testing"

	"github.com/akolanti/DocIntel/internal/config"
	"github.com/akolanti/DocIntel/internal/data/redisStore"
	"github.com/akolanti/DocIntel/internal/data/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestVersionStore(t *testing.T) (*miniredis.Miniredis, *store.RedisVersionStore) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr, store.TestVersionStore(redisStore.NewTestStore(client))
}

func TestVersionStore_InitializesToOne(t *testing.T) {
	mr, versions := newTestVersionStore(t)
	ctx := context.Background()

	v, err := versions.GetVersion(ctx)
	if err != nil {
		t.Fatalf("GetVersion failed: %v", err)
	}
	if v != 1 {
		t.Errorf("First read got %d, want 1", v)
	}

	// the initial value must be persisted, not just returned
	stored, err := mr.Get(config.CorpusVersionKey)
	if err != nil {
		t.Fatalf("version key was not persisted: %v", err)
	}
	if stored != "1" {
		t.Errorf("Persisted value got %q, want %q", stored, "1")
	}
}

func TestVersionStore_Idempotence(t *testing.T) {
	_, versions := newTestVersionStore(t)
	ctx := context.Background()

	first, err := versions.GetVersion(ctx)
	if err != nil {
		t.Fatalf("GetVersion failed: %v", err)
	}

	for i := 0; i < 5; i++ {
		v, err := versions.GetVersion(ctx)
		if err != nil {
			t.Fatalf("GetVersion failed on read %d: %v", i, err)
		}
		if v != first {
			t.Errorf("Read %d got %d, want %d", i, v, first)
		}
	}
}

func TestVersionStore_Monotonicity(t *testing.T) {
	_, versions := newTestVersionStore(t)
	ctx := context.Background()

	initial, err := versions.GetVersion(ctx)
	if err != nil {
		t.Fatalf("GetVersion failed: %v", err)
	}

	const bumps = 7
	for i := 0; i < bumps; i++ {
		if err := versions.BumpVersion(ctx); err != nil {
			t.Fatalf("BumpVersion %d failed: %v", i, err)
		}
	}

	v, err := versions.GetVersion(ctx)
	if err != nil {
		t.Fatalf("GetVersion failed: %v", err)
	}
	if v != initial+bumps {
		t.Errorf("After %d bumps got %d, want %d", bumps, v, initial+bumps)
	}
}

func TestVersionStore_BumpFailureSurfaces(t *testing.T) {
	mr, versions := newTestVersionStore(t)
	ctx := context.Background()

	mr.SetError("store unreachable")
	if err := versions.BumpVersion(ctx); err == nil {
		t.Error("Expected an error when the store is unreachable")
	}
}
