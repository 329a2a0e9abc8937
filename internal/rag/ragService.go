package rag

import (
	"context"
	"fmt"
	"time"

	"github.com/akolanti/DocIntel/internal/adapter/utils"
	"github.com/akolanti/DocIntel/internal/config"
	"github.com/akolanti/DocIntel/internal/domain/ragModel"
	"github.com/akolanti/DocIntel/internal/metrics"
	"github.com/akolanti/DocIntel/internal/rag/embedding"
	"github.com/akolanti/DocIntel/internal/rag/ingest"
	"github.com/akolanti/DocIntel/internal/rag/llm"
	"github.com/akolanti/DocIntel/internal/rag/vectorDB"
	"github.com/akolanti/DocIntel/pkg/logger_i"
)

// Service is the only thing the handlers call - they don't need to know the
// llm, the embedder or the vector store behind it.
type Service interface {
	// Answer returns the answer and whether it came from the versioned cache
	Answer(ctx context.Context, question string) (string, bool, error)
	// IngestDocument indexes a file and bumps the corpus version on success
	IngestDocument(ctx context.Context, docName string, docPath string) error
}

type service struct {
	vectorDB    vectorDB.DataProcessor
	llmProvider llm.Provider
	embedder    embedding.Embedder
	cache       ragModel.AnswerCache
	versions    ragModel.VersionStore
	logger      *logger_i.Logger
}

// NewService constructor - every dependency is injected so tests can swap in
// fakes without touching the handlers.
func NewService(vector vectorDB.DataProcessor, llm llm.Provider, em embedding.Embedder, cache ragModel.AnswerCache, versions ragModel.VersionStore) Service {
	return &service{
		vectorDB:    vector,
		llmProvider: llm,
		embedder:    em,
		cache:       cache,
		versions:    versions,
		logger:      logger_i.NewLogger("RAG Service"),
	}
}

func (s *service) Answer(ctx context.Context, question string) (string, bool, error) {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	start := time.Now()
	defer func() { metrics.CaptureRequestMetrics("chat", time.Since(start)) }()

	processContext, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	logStep(ragModel.QueryInit, log)

	// Cache Check - a hit skips retrieval and generation entirely
	cachedAnswer, found := s.executeCacheCheckStep(processContext, log, question)
	if found {
		return cachedAnswer, true, nil
	}

	// Embedding
	queryVector, err := s.executeEmbeddingStep(processContext, log, question)
	if err != nil {
		return "", false, fmt.Errorf("embedding question: %w", err)
	}

	// Vector DB Search
	matches, err := s.executeVectorSearchStep(processContext, log, queryVector)
	if err != nil {
		return "", false, fmt.Errorf("searching vector store: %w", err)
	}

	// LLM Generation
	answer, err := s.executeLLMStep(processContext, log, question, matches)
	if err != nil {
		return "", false, fmt.Errorf("generating answer: %w", err)
	}

	// Best-effort cache write before returning - a failure is logged and the
	// caller still gets the fresh answer.
	if err := s.cache.Put(processContext, question, answer); err != nil {
		log.Error("Failed to save answer to cache", "error", err)
	}

	logStep(ragModel.Complete, log)
	return answer, false, nil
}

func (s *service) IngestDocument(ctx context.Context, docName string, docPath string) error {
	log := s.logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()

	err := ingest.ProcessDocumentIngestion(ctx, utils.GetNewUUID(), docName, docPath, s.embedder, s.vectorDB)
	if err != nil {
		return err
	}

	// The bump is what invalidates previously cached answers. If it cannot be
	// recorded the ingestion is incomplete - stale answers would be served
	// forever otherwise.
	if err := s.versions.BumpVersion(ctx); err != nil {
		return fmt.Errorf("recording corpus invalidation: %w", err)
	}

	metrics.IncrementDocumentsIngested()
	log.Info("Document indexed", "document", docName, "step", ragModel.Invalidated)
	return nil
}
