package usecase_test

import (
	"testing"

	"appliance-assistant/internal/domain"
	"appliance-assistant/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func chunksWithScores(scores ...float64) domain.RetrievalResult {
	chunks := make([]domain.RetrievedChunk, len(scores))
	for i, s := range scores {
		chunks[i] = domain.RetrievedChunk{Similarity: s, Text: "text"}
	}
	return domain.RetrievalResult{Chunks: chunks}
}

func TestRelevanceGate_EmptyRetrieval(t *testing.T) {
	gate := usecase.NewRelevanceGate(25.0)

	confidence, pass := gate.Evaluate(domain.RetrievalResult{})

	assert.Equal(t, 0.0, confidence)
	assert.False(t, pass)
}

func TestRelevanceGate_ConfidenceIsExact(t *testing.T) {
	gate := usecase.NewRelevanceGate(25.0)

	confidence := gate.Confidence(chunksWithScores(0.5, 0.6, 0.4))

	assert.InDelta(t, 50.0, confidence, 0.01)
}

func TestRelevanceGate_SingleChunkMean(t *testing.T) {
	gate := usecase.NewRelevanceGate(25.0)

	confidence, pass := gate.Evaluate(chunksWithScores(0.3))

	assert.InDelta(t, 30.0, confidence, 0.01)
	assert.True(t, pass)
}

func TestRelevanceGate_BelowThreshold(t *testing.T) {
	gate := usecase.NewRelevanceGate(25.0)

	confidence, pass := gate.Evaluate(chunksWithScores(0.1, 0.12, 0.08))

	assert.InDelta(t, 10.0, confidence, 0.01)
	assert.False(t, pass)
}

func TestRelevanceGate_AtThresholdPasses(t *testing.T) {
	gate := usecase.NewRelevanceGate(25.0)

	confidence, pass := gate.Evaluate(chunksWithScores(0.25))

	assert.InDelta(t, 25.0, confidence, 0.01)
	assert.True(t, pass)
}

func TestRelevanceGate_DefaultThreshold(t *testing.T) {
	gate := usecase.NewRelevanceGate(0)

	assert.Equal(t, usecase.DefaultRelevanceThreshold, gate.Threshold())
}

func TestRelevanceGate_UnboundedMetric(t *testing.T) {
	gate := usecase.NewRelevanceGate(25.0)

	confidence, pass := gate.Evaluate(chunksWithScores(1.2, 1.4))

	assert.InDelta(t, 130.0, confidence, 0.01)
	assert.True(t, pass)
}
