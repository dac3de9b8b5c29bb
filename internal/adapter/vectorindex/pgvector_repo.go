package vectorindex

import (
	"context"
	"fmt"

	"appliance-assistant/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// PgvectorRepository serves nearest-neighbor search from a Postgres table
// with a pgvector embedding column. Alternative to the hosted index for
// self-contained deployments.
type PgvectorRepository struct {
	pool *pgxpool.Pool
}

// NewPgvectorRepository creates a repository over the given pool. The pool
// must have pgvector types registered (see infra.NewPostgresDB).
func NewPgvectorRepository(pool *pgxpool.Pool) *PgvectorRepository {
	return &PgvectorRepository{pool: pool}
}

// Search returns the topK chunks by cosine similarity, most similar first.
func (r *PgvectorRepository) Search(ctx context.Context, vector []float32, topK int) (*domain.RetrievalResult, error) {
	query := `
		SELECT content, source, chunk_index, 1 - (embedding <=> $1) AS similarity
		FROM repair_chunks
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.RetrievedChunk
	for rows.Next() {
		var (
			content    string
			source     string
			chunkIndex *int32
			similarity float64
		)
		if err := rows.Scan(&content, &source, &chunkIndex, &similarity); err != nil {
			return nil, fmt.Errorf("failed to scan chunk row: %w", err)
		}
		chunk := domain.RetrievedChunk{
			Similarity: similarity,
			Text:       content,
			SourceID:   source,
		}
		if chunkIndex != nil {
			idx := int(*chunkIndex)
			chunk.ChunkIndex = &idx
		}
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chunk rows: %w", err)
	}

	return &domain.RetrievalResult{Chunks: chunks}, nil
}

// Ping reports whether the backing database is reachable.
func (r *PgvectorRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

var _ domain.VectorSearcher = (*PgvectorRepository)(nil)
