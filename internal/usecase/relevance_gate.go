package usecase

import "appliance-assistant/internal/domain"

// DefaultRelevanceThreshold is the minimum confidence, on the 0-100 scale,
// required before generation runs.
const DefaultRelevanceThreshold = 25.0

// RelevanceGate scores retrieved evidence and decides whether it is strong
// enough to ground a generated answer.
type RelevanceGate struct {
	threshold float64
}

// NewRelevanceGate creates a gate with the given threshold. A non-positive
// threshold falls back to the default.
func NewRelevanceGate(threshold float64) RelevanceGate {
	if threshold <= 0 {
		threshold = DefaultRelevanceThreshold
	}
	return RelevanceGate{threshold: threshold}
}

// Threshold returns the configured pass threshold.
func (g RelevanceGate) Threshold() float64 {
	return g.threshold
}

// Confidence is 100 times the mean similarity of the retrieved chunks.
// An empty retrieval scores 0. The similarity metric is not clamped, so
// confidence may exceed 100 when the index reports scores above 1.
func (g RelevanceGate) Confidence(result domain.RetrievalResult) float64 {
	if len(result.Chunks) == 0 {
		return 0.0
	}
	var sum float64
	for _, chunk := range result.Chunks {
		sum += chunk.Similarity
	}
	return 100.0 * sum / float64(len(result.Chunks))
}

// Evaluate returns the confidence and whether it reaches the threshold.
// An empty retrieval never passes.
func (g RelevanceGate) Evaluate(result domain.RetrievalResult) (float64, bool) {
	confidence := g.Confidence(result)
	if len(result.Chunks) == 0 {
		return confidence, false
	}
	return confidence, confidence >= g.threshold
}
