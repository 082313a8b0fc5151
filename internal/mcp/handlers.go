package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docquery/pdfrag/internal/registry"
	"github.com/docquery/pdfrag/internal/storage"
)

// Searcher executes a balanced multi-collection query.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]storage.SearchResult, error)
}

// Registry lists and deletes indexed documents.
type Registry interface {
	List(ctx context.Context) ([]registry.Document, error)
	Delete(ctx context.Context, id string) error
}

// makeSearchHandler creates the search_documents tool handler. The
// aggregator already balances results across documents, so the handler
// only applies defaults and shapes the output.
func makeSearchHandler(searcher Searcher) func(
	context.Context, *mcp.CallToolRequest, SearchDocumentsInput,
) (*mcp.CallToolResult, SearchDocumentsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input SearchDocumentsInput) (
		*mcp.CallToolResult, SearchDocumentsOutput, error,
	) {
		maxResults := input.MaxResults
		if maxResults <= 0 {
			maxResults = 10
		}

		results, err := searcher.Search(ctx, input.Query, maxResults)
		if err != nil {
			return nil, SearchDocumentsOutput{}, fmt.Errorf("search failed: %w", err)
		}

		if len(results) == 0 {
			return nil, SearchDocumentsOutput{
				Results: []storage.SearchResult{},
				Message: "No matching chunks found. Upload documents first or try broader search terms.",
			}, nil
		}

		return nil, SearchDocumentsOutput{Results: results}, nil
	}
}

// makeListHandler creates the list_documents tool handler.
func makeListHandler(reg Registry) func(
	context.Context, *mcp.CallToolRequest, ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input ListDocumentsInput) (
		*mcp.CallToolResult, ListDocumentsOutput, error,
	) {
		docs, err := reg.List(ctx)
		if err != nil {
			return nil, ListDocumentsOutput{}, fmt.Errorf("failed to list documents: %w", err)
		}
		if docs == nil {
			docs = []registry.Document{}
		}
		return nil, ListDocumentsOutput{Documents: docs, Count: len(docs)}, nil
	}
}

// makeDeleteHandler creates the delete_document tool handler.
func makeDeleteHandler(reg Registry) func(
	context.Context, *mcp.CallToolRequest, DeleteDocumentInput,
) (*mcp.CallToolResult, DeleteDocumentOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input DeleteDocumentInput) (
		*mcp.CallToolResult, DeleteDocumentOutput, error,
	) {
		if err := reg.Delete(ctx, input.DocumentID); err != nil {
			return nil, DeleteDocumentOutput{}, fmt.Errorf("failed to delete document: %w", err)
		}
		return nil, DeleteDocumentOutput{DocumentID: input.DocumentID, Deleted: true}, nil
	}
}

// makeStatusHandler creates the get_index_status tool handler. Totals
// are derived from the registry, which itself derives everything from
// the store's collection listing.
func makeStatusHandler(reg Registry) func(
	context.Context, *mcp.CallToolRequest, StatusInput,
) (*mcp.CallToolResult, StatusOutput, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, input StatusInput) (
		*mcp.CallToolResult, StatusOutput, error,
	) {
		docs, err := reg.List(ctx)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("failed to list documents: %w", err)
		}

		out := StatusOutput{
			TotalDocuments: len(docs),
			Filenames:      make([]string, 0, len(docs)),
		}
		for _, doc := range docs {
			out.TotalChunks += doc.Chunks
			out.Filenames = append(out.Filenames, doc.Filename)
		}
		return nil, out, nil
	}
}
