package vectorindex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"appliance-assistant/internal/domain"
)

// PineconeClient queries a Pinecone-compatible vector index over its REST
// API. The index holds the pre-embedded appliance-repair knowledge base.
type PineconeClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewPineconeClient constructs a client for the given index endpoint.
// A nil http client gets a default with a 15 second timeout.
func NewPineconeClient(baseURL, apiKey string, client *http.Client) *PineconeClient {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &PineconeClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  client,
	}
}

type pineconeQueryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

type pineconeMatch struct {
	ID       string  `json:"id"`
	Score    float64 `json:"score"`
	Metadata struct {
		Text       string   `json:"text"`
		Source     string   `json:"source"`
		ChunkIndex *float64 `json:"chunk_index"`
	} `json:"metadata"`
}

type pineconeQueryResponse struct {
	Matches []pineconeMatch `json:"matches"`
}

// Search runs nearest-neighbor search and maps the provider matches onto
// domain chunks, preserving provider rank order.
func (c *PineconeClient) Search(ctx context.Context, vector []float32, topK int) (*domain.RetrievalResult, error) {
	reqBody := pineconeQueryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
	}
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query request: %w", err)
	}

	url := fmt.Sprintf("%s/query", c.BaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Api-Key", c.APIKey)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vector index request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("vector index returned %d: %s", resp.StatusCode, string(body))
	}

	var queryResp pineconeQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&queryResp); err != nil {
		return nil, fmt.Errorf("failed to decode query response: %w", err)
	}

	chunks := make([]domain.RetrievedChunk, 0, len(queryResp.Matches))
	for _, match := range queryResp.Matches {
		chunk := domain.RetrievedChunk{
			Similarity: match.Score,
			Text:       match.Metadata.Text,
			SourceID:   match.Metadata.Source,
		}
		if match.Metadata.ChunkIndex != nil {
			idx := int(*match.Metadata.ChunkIndex)
			chunk.ChunkIndex = &idx
		}
		chunks = append(chunks, chunk)
	}

	return &domain.RetrievalResult{Chunks: chunks}, nil
}

var _ domain.VectorSearcher = (*PineconeClient)(nil)
