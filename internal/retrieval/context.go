package retrieval

import (
	"fmt"
	"strings"

	"github.com/docquery/pdfrag/internal/storage"
)

// BuildContext renders retrieved chunks as grounding context for the
// language model. Chunk numbers are 1-based for the reader's benefit.
func BuildContext(results []storage.SearchResult) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, fmt.Sprintf("Document: %s\nChunk %d:\n%s\n",
			r.Filename, r.ChunkIndex+1, r.Text))
	}
	return strings.Join(parts, "\n")
}
