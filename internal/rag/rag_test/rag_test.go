package rag_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/DocIntel/internal/domain/commonModels"
	"github.com/akolanti/DocIntel/internal/rag"
	"github.com/akolanti/DocIntel/internal/rag/ingest"
)

func newTestService(vdb *MockVectorDB, llm *MockLLM, em *MockEmbedder, cache *FakeAnswerCache, versions *FakeVersionStore) rag.Service {
	if vdb == nil {
		vdb = &MockVectorDB{}
	}
	if llm == nil {
		llm = &MockLLM{}
	}
	if em == nil {
		em = &MockEmbedder{}
	}
	if cache == nil {
		cache = NewFakeAnswerCache()
	}
	if versions == nil {
		versions = &FakeVersionStore{}
	}
	return rag.NewService(vdb, llm, em, cache, versions)
}

func TestAnswer_CacheHitSkipsPipeline(t *testing.T) {
	embedCalled := false
	em := &MockEmbedder{OnGetEmbedding: func(ctx context.Context, q string) ([]float32, error) {
		embedCalled = true
		return []float32{0.1}, nil
	}}
	cache := NewFakeAnswerCache()
	cache.Entries["what is go?"] = "a programming language"

	svc := newTestService(nil, nil, em, cache, nil)

	answer, fromCache, err := svc.Answer(context.Background(), "what is go?")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !fromCache {
		t.Error("Expected a cache hit")
	}
	if answer != "a programming language" {
		t.Errorf("Got answer %q", answer)
	}
	if embedCalled {
		t.Error("Embedder was called on a cache hit")
	}
}

func TestAnswer_MissRunsFullPipelineAndCaches(t *testing.T) {
	var searchedWith []float32
	var promptedWith []string

	em := &MockEmbedder{OnGetEmbedding: func(ctx context.Context, q string) ([]float32, error) {
		return []float32{0.5, 0.5}, nil
	}}
	vdb := &MockVectorDB{OnSearch: func(ctx context.Context, v []float32) ([]string, []string, error) {
		searchedWith = v
		return []string{"chunk a", "chunk b"}, []string{"doc.pdf (page 2)"}, nil
	}}
	llm := &MockLLM{OnGenerate: func(ctx context.Context, q string, matches []string) (string, error) {
		promptedWith = matches
		return "fresh answer", nil
	}}
	cache := NewFakeAnswerCache()

	svc := newTestService(vdb, llm, em, cache, nil)

	answer, fromCache, err := svc.Answer(context.Background(), "question")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if fromCache {
		t.Error("First call should not be a cache hit")
	}
	if answer != "fresh answer" {
		t.Errorf("Got answer %q", answer)
	}
	if len(searchedWith) != 2 {
		t.Error("Search did not receive the question embedding")
	}
	if len(promptedWith) != 2 || promptedWith[0] != "chunk a" {
		t.Errorf("LLM did not receive the retrieved chunks: %v", promptedWith)
	}
	if cache.PutCalls != 1 {
		t.Errorf("Expected 1 cache write, got %d", cache.PutCalls)
	}

	// Second identical question is served from the cache
	answer, fromCache, err = svc.Answer(context.Background(), "question")
	if err != nil {
		t.Fatalf("Unexpected error on second call: %v", err)
	}
	if !fromCache || answer != "fresh answer" {
		t.Errorf("Expected cached answer on repeat, got %q fromCache=%v", answer, fromCache)
	}
}

func TestAnswer_DependencyFailures(t *testing.T) {
	tests := []struct {
		name    string
		em      *MockEmbedder
		vdb     *MockVectorDB
		llm     *MockLLM
		wantMsg string
	}{
		{
			name: "embedding failure",
			em: &MockEmbedder{OnGetEmbedding: func(ctx context.Context, q string) ([]float32, error) {
				return nil, errors.New("quota exceeded")
			}},
			wantMsg: "embedding question",
		},
		{
			name: "search failure",
			vdb: &MockVectorDB{OnSearch: func(ctx context.Context, v []float32) ([]string, []string, error) {
				return nil, nil, errors.New("connection refused")
			}},
			wantMsg: "searching vector store",
		},
		{
			name: "generation failure",
			llm: &MockLLM{OnGenerate: func(ctx context.Context, q string, m []string) (string, error) {
				return "", errors.New("model overloaded")
			}},
			wantMsg: "generating answer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewFakeAnswerCache()
			svc := newTestService(tt.vdb, tt.llm, tt.em, cache, nil)

			_, _, err := svc.Answer(context.Background(), "question")
			if err == nil {
				t.Fatal("Expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Error %q does not mention %q", err, tt.wantMsg)
			}
			if cache.PutCalls != 0 {
				t.Error("Nothing should be cached after a pipeline failure")
			}
		})
	}
}

func TestAnswer_CacheWriteFailureIsNotFatal(t *testing.T) {
	cache := NewFakeAnswerCache()
	cache.PutErr = errors.New("redis is down")

	svc := newTestService(nil, nil, nil, cache, nil)

	answer, fromCache, err := svc.Answer(context.Background(), "question")
	if err != nil {
		t.Fatalf("Cache write failure leaked to the caller: %v", err)
	}
	if fromCache {
		t.Error("Expected a miss")
	}
	if answer != "generated answer" {
		t.Errorf("Got answer %q", answer)
	}
	if cache.PutCalls != 1 {
		t.Errorf("Expected the write to be attempted once, got %d", cache.PutCalls)
	}
}

func writeTestDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "handbook.txt")
	if err := os.WriteFile(path, []byte("employee handbook contents"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIngestDocument_BumpsVersionOnce(t *testing.T) {
	versions := &FakeVersionStore{}
	svc := newTestService(nil, nil, nil, nil, versions)

	if err := svc.IngestDocument(context.Background(), "handbook.txt", writeTestDoc(t)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if versions.BumpCalls != 1 {
		t.Errorf("Expected exactly 1 version bump, got %d", versions.BumpCalls)
	}
}

func TestIngestDocument_NoBumpOnFailure(t *testing.T) {
	t.Run("malformed document", func(t *testing.T) {
		versions := &FakeVersionStore{}
		svc := newTestService(nil, nil, nil, nil, versions)

		err := svc.IngestDocument(context.Background(), "image.png", "image.png")
		if !errors.Is(err, ingest.ErrMalformedDocument) {
			t.Errorf("Expected ErrMalformedDocument, got %v", err)
		}
		if versions.BumpCalls != 0 {
			t.Errorf("Version bumped on a failed ingestion: %d", versions.BumpCalls)
		}
	})

	t.Run("upsert failure", func(t *testing.T) {
		versions := &FakeVersionStore{}
		vdb := &MockVectorDB{OnUpsertBatch: func(ctx context.Context, coll string, chunks []commonModels.DocChunk, vectors [][]float32) error {
			return errors.New("qdrant unavailable")
		}}
		svc := newTestService(vdb, nil, nil, nil, versions)

		if err := svc.IngestDocument(context.Background(), "handbook.txt", writeTestDoc(t)); err == nil {
			t.Error("Expected upsert failure to propagate")
		}
		if versions.BumpCalls != 0 {
			t.Errorf("Version bumped on a failed ingestion: %d", versions.BumpCalls)
		}
	})
}

func TestIngestDocument_BumpFailureSurfaces(t *testing.T) {
	versions := &FakeVersionStore{BumpErr: errors.New("redis is down")}
	svc := newTestService(nil, nil, nil, nil, versions)

	err := svc.IngestDocument(context.Background(), "handbook.txt", writeTestDoc(t))
	if err == nil {
		t.Fatal("Expected bump failure to surface")
	}
	if !strings.Contains(err.Error(), "recording corpus invalidation") {
		t.Errorf("Error %q does not mention the invalidation failure", err)
	}
}
