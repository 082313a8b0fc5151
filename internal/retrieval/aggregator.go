// Package retrieval executes queries across every document collection
// and merges the hits into one balanced, ranked result list.
package retrieval

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/docquery/pdfrag/internal/storage"
)

// Store is the slice of the vector store gateway the aggregator needs.
type Store interface {
	ListCollections(ctx context.Context, prefix string) ([]string, error)
	Search(ctx context.Context, collection string, vector []float32, limit int) ([]storage.SearchResult, error)
}

// Embedder embeds a single query string.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Aggregator fans a query out across all document collections and
// merges the hits. Per-collection failures are logged and skipped so a
// single broken collection cannot take down the whole query.
type Aggregator struct {
	store    Store
	embedder Embedder
	prefix   string
	logger   *slog.Logger
}

// NewAggregator creates an aggregator over collections carrying the
// given prefix.
func NewAggregator(store Store, embedder Embedder, prefix string, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		store:    store,
		embedder: embedder,
		prefix:   prefix,
		logger:   logger,
	}
}

// Search embeds the query once, searches every collection concurrently
// and returns up to limit results, score-descending and balanced
// across documents. No collections means nothing is indexed yet: the
// result is empty, not an error.
func (a *Aggregator) Search(ctx context.Context, query string, limit int) ([]storage.SearchResult, error) {
	vector, err := a.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	collections, err := a.store.ListCollections(ctx, a.prefix)
	if err != nil {
		return nil, err
	}
	if len(collections) == 0 {
		return []storage.SearchResult{}, nil
	}

	var (
		mu     sync.Mutex
		merged []storage.SearchResult
		wg     sync.WaitGroup
	)

	for _, collection := range collections {
		wg.Add(1)
		go func(collection string) {
			defer wg.Done()
			hits, err := a.store.Search(ctx, collection, vector, limit)
			if err != nil {
				// Partial-failure tolerance: results from the
				// remaining collections still count.
				a.logger.Warn("collection search failed",
					"collection", collection, "error", err)
				return
			}
			mu.Lock()
			merged = append(merged, hits...)
			mu.Unlock()
		}(collection)
	}
	wg.Wait()

	sortByScore(merged)
	return balance(merged, limit), nil
}
