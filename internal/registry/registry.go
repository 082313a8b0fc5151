// Package registry derives the set of known documents from the vector
// store's collection listing. There is no separate catalog: the store
// is the single source of truth, so the registry can never drift.
package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/docquery/pdfrag/internal/storage"
)

// Store is the slice of the vector store gateway the registry needs.
type Store interface {
	ListCollections(ctx context.Context, prefix string) ([]string, error)
	CountPoints(ctx context.Context, collection string) (uint64, error)
	DeleteCollection(ctx context.Context, name string) error
}

// Document describes one indexed document. Filename is reconstructed
// from the collection name and is best-effort: underscores in the
// original filename are indistinguishable from spaces. Chunks is the
// current point count, which trails TotalChunks while ingestion is
// still running.
type Document struct {
	ID       string `json:"document_id"`
	Filename string `json:"filename"`
	Chunks   uint64 `json:"chunks_processed"`
}

// Registry lists and deletes documents via their collections.
type Registry struct {
	store  Store
	prefix string
}

// New creates a registry over collections carrying the given prefix.
func New(store Store, prefix string) *Registry {
	return &Registry{store: store, prefix: prefix}
}

// List enumerates all indexed documents.
func (r *Registry) List(ctx context.Context) ([]Document, error) {
	collections, err := r.store.ListCollections(ctx, r.prefix)
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(collections))
	for _, collection := range collections {
		count, err := r.store.CountPoints(ctx, collection)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{
			ID:       collection,
			Filename: storage.DisplayName(r.prefix, collection),
			Chunks:   count,
		})
	}
	return docs, nil
}

// Delete removes a document and all its chunks. Deleting an unknown
// document is not an error. Ids outside this system's namespace are
// rejected so a stray request cannot touch unrelated collections.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if !strings.HasPrefix(id, r.prefix) {
		return fmt.Errorf("document id %q is outside collection namespace %q", id, r.prefix)
	}
	return r.store.DeleteCollection(ctx, id)
}
