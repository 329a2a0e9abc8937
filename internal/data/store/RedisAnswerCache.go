package store

import (
	"context"

	"github.com/akolanti/DocIntel/internal/config"
	"github.com/akolanti/DocIntel/internal/data/redisStore"
	"github.com/akolanti/DocIntel/internal/domain/ragModel"
	"github.com/akolanti/DocIntel/internal/metrics"
	"github.com/akolanti/DocIntel/pkg/logger_i"
)

type RedisAnswerCache struct {
	store    *redisStore.Store
	versions ragModel.VersionStore
	logger   *logger_i.Logger
}

func GetRedisAnswerCache(ctx context.Context, versions ragModel.VersionStore) *RedisAnswerCache {
	s := redisStore.GetRedisStore(ctx, config.RedisAnswerCacheDB)
	if s == nil {
		return nil
	}
	return &RedisAnswerCache{
		store:    s,
		versions: versions,
		logger:   logger_i.NewLogger("AnswerCache"),
	}
}

// Get looks up the answer under the key derived from the current corpus
// version. Any store error is a miss - the caller recomputes and nothing is
// ever served against stale content.
func (c *RedisAnswerCache) Get(ctx context.Context, question string) (string, bool) {
	log := c.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	version, err := c.versions.GetVersion(ctx)
	if err != nil {
		log.Error("Skipping cache lookup, version unavailable", "error", err)
		metrics.IncrementCacheMisses()
		return "", false
	}

	val, err := c.store.Get(ctx, DeriveKey(version, question))
	if c.store.IsNil(err) {
		metrics.IncrementCacheMisses()
		return "", false
	}
	if err != nil {
		log.Error("Cache read failed, treating as miss", "error", err)
		metrics.IncrementCacheMisses()
		return "", false
	}

	log.Debug("Answer cache hit", "version", version)
	metrics.IncrementCacheHits()
	return val, true
}

// Put stores the answer under the version current at write time, with a
// fixed TTL. Callers log the returned error and move on - the cache is an
// optimization, never a correctness requirement.
func (c *RedisAnswerCache) Put(ctx context.Context, question string, answer string) error {
	version, err := c.versions.GetVersion(ctx)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, DeriveKey(version, question), answer, config.AnswerCacheTTL)
}

func TestAnswerCache(store *redisStore.Store, versions ragModel.VersionStore) *RedisAnswerCache {
	return &RedisAnswerCache{
		store:    store,
		versions: versions,
		logger:   logger_i.NewLogger("test answer cache"),
	}
}
