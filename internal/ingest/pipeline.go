// Package ingest orchestrates the indexing pipeline: extract text,
// chunk it, embed the chunks and persist them in the vector store.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/docquery/pdfrag/internal/storage"
)

// Extractor turns raw document bytes into plain text.
type Extractor interface {
	Text(data []byte) (string, error)
}

// Chunker splits text into embeddable spans.
type Chunker interface {
	Split(text string) []string
}

// Embedder embeds a batch of texts into fixed-length vectors.
type Embedder interface {
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimension() int
}

// Store is the slice of the vector store gateway ingestion needs.
type Store interface {
	EnsureCollection(ctx context.Context, name string, dimension int) error
	UpsertChunks(ctx context.Context, collection string, chunks []*storage.Chunk) error
}

// Result reports what one ingestion produced. Chunks of zero with a
// nil error means the document contained no extractable text; nothing
// was indexed and no collection was created.
type Result struct {
	DocumentID string
	Filename   string
	Chunks     int
	Duration   time.Duration
}

// Pipeline runs one document through extract -> chunk -> embed ->
// upsert. All dependencies are injected; the pipeline itself holds no
// state beyond them and is safe to reuse across documents.
type Pipeline struct {
	extractor Extractor
	chunker   Chunker
	embedder  Embedder
	store     Store
	prefix    string
	logger    *slog.Logger
}

// NewPipeline creates an ingestion pipeline writing to collections
// carrying the given prefix.
func NewPipeline(
	extractor Extractor,
	chunker Chunker,
	embedder Embedder,
	store Store,
	prefix string,
	logger *slog.Logger,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		store:     store,
		prefix:    prefix,
		logger:    logger,
	}
}

// Ingest indexes one document. The document id is the derived
// collection name, so re-ingesting the same filename overwrites the
// same points instead of duplicating them. Synchronous: callers decide
// whether to run it in the background.
func (p *Pipeline) Ingest(ctx context.Context, filename string, data []byte) (*Result, error) {
	start := time.Now()

	text, err := p.extractor.Text(data)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	chunks := p.chunker.Split(text)
	if len(chunks) == 0 {
		p.logger.Warn("no text extracted, nothing to index", "filename", filename)
		return &Result{Filename: filename, Duration: time.Since(start)}, nil
	}
	p.logger.Debug("chunked document", "filename", filename, "chunks", len(chunks))

	vectors, err := p.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}

	docID := storage.CollectionName(p.prefix, filename)
	if err := p.store.EnsureCollection(ctx, docID, p.embedder.Dimension()); err != nil {
		return nil, err
	}

	points := make([]*storage.Chunk, len(chunks))
	for i, chunk := range chunks {
		points[i] = &storage.Chunk{
			DocumentID:  docID,
			Filename:    filename,
			ChunkIndex:  i,
			TotalChunks: len(chunks),
			Text:        chunk,
			Embedding:   vectors[i],
		}
	}

	if err := p.store.UpsertChunks(ctx, docID, points); err != nil {
		return nil, err
	}

	result := &Result{
		DocumentID: docID,
		Filename:   filename,
		Chunks:     len(chunks),
		Duration:   time.Since(start),
	}
	p.logger.Info("indexed document",
		"filename", filename,
		"document_id", docID,
		"chunks", result.Chunks,
		"duration", result.Duration,
	)
	return result, nil
}
