package usecase

import (
	"strings"

	"appliance-assistant/internal/domain"
)

// AssembleContext flattens retrieved chunks into one prompt context block.
// Chunks keep their retrieval rank order; surrounding whitespace is trimmed
// and blank chunks are dropped so the prompt carries no empty sections.
func AssembleContext(result domain.RetrievalResult) string {
	parts := make([]string, 0, len(result.Chunks))
	for _, chunk := range result.Chunks {
		text := strings.TrimSpace(chunk.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n\n")
}
