// Package mcp exposes the retrieval pipeline as Model Context Protocol
// tools so agent clients can query the indexed PDF corpus.
package mcp

import (
	"github.com/docquery/pdfrag/internal/registry"
	"github.com/docquery/pdfrag/internal/storage"
)

// SearchDocumentsInput defines the input for the search_documents tool.
type SearchDocumentsInput struct {
	// Query is the semantic search query.
	Query string `json:"query" jsonschema:"required,description=The semantic search query over the indexed PDF documents"`
	// MaxResults is the maximum number of chunks to return.
	MaxResults int `json:"max_results,omitempty" jsonschema:"minimum=1,maximum=50,default=10,description=Maximum number of chunks to return"`
}

// SearchDocumentsOutput contains the balanced search results.
type SearchDocumentsOutput struct {
	// Results is the ranked, document-balanced chunk list.
	Results []storage.SearchResult `json:"results"`
	// Message provides informational context (e.g. nothing indexed yet).
	Message string `json:"message,omitempty"`
}

// ListDocumentsInput defines the input for list_documents. The tool
// takes no parameters.
type ListDocumentsInput struct{}

// ListDocumentsOutput contains all indexed documents.
type ListDocumentsOutput struct {
	Documents []registry.Document `json:"documents"`
	Count     int                 `json:"count"`
}

// DeleteDocumentInput defines the input for delete_document.
type DeleteDocumentInput struct {
	// DocumentID is the id returned by upload or list_documents.
	DocumentID string `json:"document_id" jsonschema:"required,description=The document id to delete"`
}

// DeleteDocumentOutput confirms the deletion.
type DeleteDocumentOutput struct {
	DocumentID string `json:"document_id"`
	Deleted    bool   `json:"deleted"`
}

// StatusInput defines the input for get_index_status. No parameters.
type StatusInput struct{}

// StatusOutput summarizes the index.
type StatusOutput struct {
	TotalDocuments int      `json:"total_documents"`
	TotalChunks    uint64   `json:"total_chunks"`
	Filenames      []string `json:"filenames"`
}
