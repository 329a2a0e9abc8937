package vectorDB

import (
	"context"

	"github.com/akolanti/DocIntel/internal/domain/commonModels"
)

type DataProcessor interface {
	// Search returns the top-k chunk texts and their source descriptors
	Search(ctx context.Context, queryVector []float32) ([]string, []string, error)

	// CreateCollection is idempotent - ingest calls it before every upsert
	CreateCollection(ctx context.Context, collectionName string) error
	UpsertBatch(ctx context.Context, collectionName string, chunks []commonModels.DocChunk, vectors [][]float32) error
}
