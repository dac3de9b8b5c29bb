package domain

import "context"

// Message is one chat message sent to the generation provider.
type Message struct {
	Role    string
	Content string
}

// AnswerGenerator defines the capability to turn a composed prompt into a
// prose answer. Implementations may fail; the caller decides how to degrade.
type AnswerGenerator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
	Version() string
}
