package domain

// RetrievedChunk is a single match returned by the vector index. Similarity
// uses the provider's metric; ordering among chunks follows the provider
// rank, most similar first.
type RetrievedChunk struct {
	Similarity float64
	Text       string
	SourceID   string
	ChunkIndex *int
}

// RetrievalResult holds the ranked matches for one query. May be empty;
// never longer than the requested top-k.
type RetrievalResult struct {
	Chunks []RetrievedChunk
}
