package domain

import "context"

// QueryEmbedder defines the interface for turning query text into a vector.
type QueryEmbedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Version() string
}
