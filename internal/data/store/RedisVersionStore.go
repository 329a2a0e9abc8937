package store

import (
	"context"
	"strconv"

	"github.com/akolanti/DocIntel/internal/config"
	"github.com/akolanti/DocIntel/internal/data/redisStore"
	"github.com/akolanti/DocIntel/internal/metrics"
	"github.com/akolanti/DocIntel/pkg/logger_i"
)

type RedisVersionStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisVersionStore(ctx context.Context) *RedisVersionStore {
	s := redisStore.GetRedisStore(ctx, config.RedisAnswerCacheDB)
	if s == nil {
		return nil
	}
	return &RedisVersionStore{
		store:  s,
		logger: logger_i.NewLogger("VersionStore"),
	}
}

// GetVersion returns the current corpus version, initializing the counter to
// 1 on the first read. Two concurrent first reads can both see 1 - SetNX
// keeps the stored value single-writer, and a stale read only costs the
// caller one cache miss.
func (s *RedisVersionStore) GetVersion(ctx context.Context) (int64, error) {
	val, err := s.store.Get(ctx, config.CorpusVersionKey)
	if s.store.IsNil(err) {
		if _, err := s.store.SetNX(ctx, config.CorpusVersionKey, 1); err != nil {
			s.logger.Error("Error initializing corpus version", "error", err)
			return 0, err
		}
		s.logger.Info("Initialized corpus version", "version", 1)
		metrics.SetCorpusVersion(1)
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

// BumpVersion atomically increments the counter by exactly 1. A failure here
// must be treated as an incomplete ingestion by the caller.
func (s *RedisVersionStore) BumpVersion(ctx context.Context) error {
	v, err := s.store.Incr(ctx, config.CorpusVersionKey)
	if err != nil {
		s.logger.Error("Error bumping corpus version", "error", err)
		return err
	}
	s.logger.Info("Bumped corpus version", "version", v)
	metrics.SetCorpusVersion(v)
	return nil
}

func TestVersionStore(store *redisStore.Store) *RedisVersionStore {
	return &RedisVersionStore{
		store:  store,
		logger: logger_i.NewLogger("test version store"),
	}
}
