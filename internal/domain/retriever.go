package domain

import "context"

// VectorSearcher defines the interface for nearest-neighbor search over the
// pre-indexed knowledge base.
type VectorSearcher interface {
	Search(ctx context.Context, vector []float32, topK int) (*RetrievalResult, error)
}
