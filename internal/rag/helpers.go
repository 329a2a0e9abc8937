package rag

import (
	"context"
	"time"

	"github.com/akolanti/DocIntel/internal/domain/ragModel"
	"github.com/akolanti/DocIntel/internal/metrics"
	"github.com/akolanti/DocIntel/pkg/logger_i"
)

func logStep(step ragModel.Step, log *logger_i.Logger) {
	log.Debug("Answer", "Current Step", step)
}

func (s *service) executeCacheCheckStep(ctx context.Context, log *logger_i.Logger, question string) (string, bool) {
	logStep(ragModel.CacheCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("cache_lookup", time.Since(start)) }()

	return s.cache.Get(ctx, question)
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, question string) ([]float32, error) {
	logStep(ragModel.EmbeddingAPI, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("embedding", time.Since(start)) }()

	return s.embedder.GetEmbedding(ctx, question)
}

func (s *service) executeVectorSearchStep(ctx context.Context, log *logger_i.Logger, queryVector []float32) ([]string, error) {
	logStep(ragModel.VectorDBCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("vector_search", time.Since(start)) }()

	matches, sources, err := s.vectorDB.Search(ctx, queryVector)
	if err == nil {
		log.Debug("Retrieved context", "matches", len(matches), "sources", sources)
	}
	return matches, err
}

func (s *service) executeLLMStep(ctx context.Context, log *logger_i.Logger, question string, matches []string) (string, error) {
	logStep(ragModel.LLMCall, log)

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	return s.llmProvider.Generate(ctx, question, matches)
}
