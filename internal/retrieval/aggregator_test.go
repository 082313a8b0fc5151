package retrieval

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docquery/pdfrag/internal/storage"
)

type fakeStore struct {
	mu          sync.Mutex
	collections []string
	listErr     error
	hits        map[string][]storage.SearchResult
	searchErr   map[string]error
	searched    []string
}

func (s *fakeStore) ListCollections(ctx context.Context, prefix string) ([]string, error) {
	return s.collections, s.listErr
}

func (s *fakeStore) Search(ctx context.Context, collection string, vector []float32, limit int) ([]storage.SearchResult, error) {
	s.mu.Lock()
	s.searched = append(s.searched, collection)
	s.mu.Unlock()
	if err := s.searchErr[collection]; err != nil {
		return nil, err
	}
	return s.hits[collection], nil
}

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (e *fakeEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	e.calls++
	return e.vector, e.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAggregatorEmptyStore(t *testing.T) {
	store := &fakeStore{}
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	agg := NewAggregator(store, embedder, "pdf_documents", discardLogger())

	results, err := agg.Search(context.Background(), "anything", 10)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestAggregatorEmbedsQueryOnce(t *testing.T) {
	store := &fakeStore{
		collections: []string{"pdf_documents_a", "pdf_documents_b", "pdf_documents_c"},
		hits:        map[string][]storage.SearchResult{},
	}
	embedder := &fakeEmbedder{vector: []float32{0.5}}
	agg := NewAggregator(store, embedder, "pdf_documents", discardLogger())

	_, err := agg.Search(context.Background(), "query", 5)
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.calls)
	assert.Len(t, store.searched, 3)
}

func TestAggregatorMergesAndRanks(t *testing.T) {
	store := &fakeStore{
		collections: []string{"pdf_documents_a", "pdf_documents_b"},
		hits: map[string][]storage.SearchResult{
			"pdf_documents_a": {
				hit("a.pdf", 0, 0.7),
				hit("a.pdf", 1, 0.3),
			},
			"pdf_documents_b": {
				hit("b.pdf", 0, 0.9),
			},
		},
	}
	agg := NewAggregator(store, &fakeEmbedder{vector: []float32{1}}, "pdf_documents", discardLogger())

	results, err := agg.Search(context.Background(), "query", 10)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "b.pdf", results[0].Filename)
	assert.Equal(t, float32(0.9), results[0].Score)
	assert.Equal(t, float32(0.7), results[1].Score)
	assert.Equal(t, float32(0.3), results[2].Score)
}

func TestAggregatorBalancesAcrossDocuments(t *testing.T) {
	store := &fakeStore{
		collections: []string{"pdf_documents_cats", "pdf_documents_dogs"},
		hits: map[string][]storage.SearchResult{
			"pdf_documents_cats": {
				hit("cats.pdf", 0, 0.95),
				hit("cats.pdf", 1, 0.92),
				hit("cats.pdf", 2, 0.90),
				hit("cats.pdf", 3, 0.88),
			},
			"pdf_documents_dogs": {
				hit("dogs.pdf", 0, 0.50),
			},
		},
	}
	agg := NewAggregator(store, &fakeEmbedder{vector: []float32{1}}, "pdf_documents", discardLogger())

	results, err := agg.Search(context.Background(), "pets", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)

	counts := filenames(results)
	assert.Equal(t, 1, counts["cats.pdf"])
	assert.Equal(t, 1, counts["dogs.pdf"])
}

func TestAggregatorToleratesCollectionFailure(t *testing.T) {
	store := &fakeStore{
		collections: []string{"pdf_documents_good", "pdf_documents_bad"},
		hits: map[string][]storage.SearchResult{
			"pdf_documents_good": {hit("good.pdf", 0, 0.8)},
		},
		searchErr: map[string]error{
			"pdf_documents_bad": errors.New("collection corrupted"),
		},
	}
	agg := NewAggregator(store, &fakeEmbedder{vector: []float32{1}}, "pdf_documents", discardLogger())

	results, err := agg.Search(context.Background(), "query", 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "good.pdf", results[0].Filename)
}

func TestAggregatorEmbedFailure(t *testing.T) {
	store := &fakeStore{collections: []string{"pdf_documents_a"}}
	embedder := &fakeEmbedder{err: errors.New("backend down")}
	agg := NewAggregator(store, embedder, "pdf_documents", discardLogger())

	_, err := agg.Search(context.Background(), "query", 10)
	require.Error(t, err)
	assert.Empty(t, store.searched)
}

func TestAggregatorListFailure(t *testing.T) {
	store := &fakeStore{listErr: errors.New("store unreachable")}
	agg := NewAggregator(store, &fakeEmbedder{vector: []float32{1}}, "pdf_documents", discardLogger())

	_, err := agg.Search(context.Background(), "query", 10)
	require.Error(t, err)
}

func TestBuildContext(t *testing.T) {
	results := []storage.SearchResult{
		{Filename: "report.pdf", ChunkIndex: 0, Text: "first chunk"},
		{Filename: "notes.pdf", ChunkIndex: 2, Text: "third chunk"},
	}

	got := BuildContext(results)
	want := "Document: report.pdf\nChunk 1:\nfirst chunk\n" +
		"\n" +
		"Document: notes.pdf\nChunk 3:\nthird chunk\n"
	assert.Equal(t, want, got)
}

func TestBuildContextEmpty(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
}
