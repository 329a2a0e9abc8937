package rag_test

import (
	"context"

	"github.com/akolanti/DocIntel/internal/domain/commonModels"
)

// MockVectorDB lets each test override only the calls it cares about.
type MockVectorDB struct {
	OnSearch           func(ctx context.Context, queryVector []float32) ([]string, []string, error)
	OnCreateCollection func(ctx context.Context, collectionName string) error
	OnUpsertBatch      func(ctx context.Context, collectionName string, chunks []commonModels.DocChunk, vectors [][]float32) error
}

func (m *MockVectorDB) Search(ctx context.Context, queryVector []float32) ([]string, []string, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, queryVector)
	}
	return []string{"default context"}, []string{"doc.pdf (page 1)"}, nil
}

func (m *MockVectorDB) CreateCollection(ctx context.Context, collectionName string) error {
	if m.OnCreateCollection != nil {
		return m.OnCreateCollection(ctx, collectionName)
	}
	return nil
}

func (m *MockVectorDB) UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.DocChunk, vectors [][]float32) error {
	if m.OnUpsertBatch != nil {
		return m.OnUpsertBatch(ctx, collectionName, chunks, vectors)
	}
	return nil
}

type MockEmbedder struct {
	OnGetEmbedding   func(ctx context.Context, query string) ([]float32, error)
	OnBatchEmbedding func(ctx context.Context, chunks []string) ([][]float32, error)
}

func (m *MockEmbedder) GetEmbedding(ctx context.Context, query string) ([]float32, error) {
	if m.OnGetEmbedding != nil {
		return m.OnGetEmbedding(ctx, query)
	}
	return []float32{0.1, 0.2}, nil
}

func (m *MockEmbedder) BatchEmbedding(ctx context.Context, chunks []string) ([][]float32, error) {
	if m.OnBatchEmbedding != nil {
		return m.OnBatchEmbedding(ctx, chunks)
	}
	vectors := make([][]float32, len(chunks))
	for i := range vectors {
		vectors[i] = []float32{0.1, 0.2}
	}
	return vectors, nil
}

type MockLLM struct {
	OnGenerate func(ctx context.Context, query string, matches []string) (string, error)
}

func (m *MockLLM) Generate(ctx context.Context, query string, matches []string) (string, error) {
	if m.OnGenerate != nil {
		return m.OnGenerate(ctx, query, matches)
	}
	return "generated answer", nil
}

// FakeAnswerCache is a map-backed cache that counts calls - close enough to
// the redis-backed one for service-level behavior tests.
type FakeAnswerCache struct {
	Entries  map[string]string
	PutErr   error
	PutCalls int
	GetCalls int
}

func NewFakeAnswerCache() *FakeAnswerCache {
	return &FakeAnswerCache{Entries: map[string]string{}}
}

func (f *FakeAnswerCache) Get(ctx context.Context, question string) (string, bool) {
	f.GetCalls++
	answer, ok := f.Entries[question]
	return answer, ok
}

func (f *FakeAnswerCache) Put(ctx context.Context, question string, answer string) error {
	f.PutCalls++
	if f.PutErr != nil {
		return f.PutErr
	}
	f.Entries[question] = answer
	return nil
}

type FakeVersionStore struct {
	Version   int64
	BumpErr   error
	BumpCalls int
}

func (f *FakeVersionStore) GetVersion(ctx context.Context) (int64, error) {
	if f.Version == 0 {
		f.Version = 1
	}
	return f.Version, nil
}

func (f *FakeVersionStore) BumpVersion(ctx context.Context) error {
	f.BumpCalls++
	if f.BumpErr != nil {
		return f.BumpErr
	}
	f.Version++
	return nil
}
