package storage

// Chunk is the unit of persistence: one embedded text span of a
// document. ChunkIndex is zero-based and contiguous within a document.
type Chunk struct {
	DocumentID  string
	Filename    string
	ChunkIndex  int
	TotalChunks int
	Text        string
	Embedding   []float32
}

// SearchResult is one similarity hit. Higher scores are more relevant.
// Results are ephemeral, produced per query and never persisted.
type SearchResult struct {
	Score       float32 `json:"score"`
	DocumentID  string  `json:"document_id"`
	Filename    string  `json:"filename"`
	ChunkIndex  int     `json:"chunk_index"`
	TotalChunks int     `json:"total_chunks"`
	Text        string  `json:"text"`
}
