package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/DocIntel/internal/config"
	"github.com/akolanti/DocIntel/internal/domain/commonModels"
	"github.com/akolanti/DocIntel/internal/domain/ragModel"
	"github.com/akolanti/DocIntel/internal/rag/embedding"
	"github.com/akolanti/DocIntel/internal/rag/vectorDB"
	"github.com/akolanti/DocIntel/pkg/logger_i"
)

// ErrMalformedDocument marks inputs the loader could not parse. Handlers map
// it to a client error instead of a server failure.
var ErrMalformedDocument = errors.New("malformed document")

type rawPage struct {
	Number  int    `json:"number"`
	Content string `json:"content"`
}

var logger = logger_i.NewLogger("Document Ingestion")

// ProcessDocumentIngestion runs load -> split -> embed -> upsert. The caller
// owns the file on disk and the corpus version bump; returning an error here
// means nothing new was indexed and the version must stay put.
func ProcessDocumentIngestion(ctx context.Context, docId string, docName string, docPath string, e embedding.Embedder, vectorDatabase vectorDB.DataProcessor) error {
	log := logger.With("traceId", ctx.Value(config.TRACE_ID_KEY))

	log.Debug("Processing document", "filename", docName, "path", docPath)

	err := vectorDatabase.CreateCollection(ctx, config.DocumentCollectionName)
	if err != nil {
		log.Error("Error creating collection", "error", err)
		return fmt.Errorf("creating collection: %w", err)
	}

	log.Debug("Ingestion step", "step", ragModel.Loading)
	docType := getDocType(docPath)
	if docType == commonModels.ERR {
		log.Error("Unsupported document type", "path", docPath)
		return fmt.Errorf("%w: unsupported document type", ErrMalformedDocument)
	}

	doc := commonModels.Document{
		Id:                  docId,
		Name:                docName,
		LastIngestTimestamp: time.Now(),
		ContentType:         docType,
	}

	rawPages, err := extractText(docPath, doc.ContentType)
	if err != nil {
		log.Error("Error extracting document content", "error", err)
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}

	log.Debug("Ingestion step", "step", ragModel.Splitting, "raw pages", len(rawPages))
	chunks := PrepareChunks(rawPages, doc)

	log.Debug("Ingestion step", "step", ragModel.EmbeddingStoring, "chunks", len(chunks))
	if err := BatchIngest(ctx, chunks, vectorDatabase, e); err != nil {
		log.Error("Error embedding and storing document", "error", err)
		return err
	}

	return nil
}
