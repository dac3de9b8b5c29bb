package usecase

import (
	"fmt"
	"strings"

	"appliance-assistant/internal/domain"
)

// PromptInput contains the two pieces that feed into the prompt builder.
type PromptInput struct {
	Question string
	Context  string
}

// PromptBuilder binds a question and its assembled context into the chat
// messages sent to the generation provider. Implementations are pure
// functions of their input.
type PromptBuilder interface {
	Build(input PromptInput) ([]domain.Message, error)
}

// RepairPromptBuilder composes prompts for the appliance-repair assistant.
// The instruction template is fixed at construction; extra instructions can
// be appended per deployment.
type RepairPromptBuilder struct {
	additionalInstructions []string
}

// NewRepairPromptBuilder creates a prompt builder with optional extra
// instructions appended to the system message.
func NewRepairPromptBuilder(additionalInstructions ...string) PromptBuilder {
	return &RepairPromptBuilder{
		additionalInstructions: additionalInstructions,
	}
}

// Build renders the system and user messages for the chat API.
func (b *RepairPromptBuilder) Build(input PromptInput) ([]domain.Message, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, fmt.Errorf("question is required")
	}

	instructions := []string{
		"You are an expert appliance repair assistant.",
		"Answer the user's question using ONLY the information in the provided context.",
		"Give clear, step-by-step guidance where the context supports it.",
		"If the context does not contain the answer, say that you do not know rather than guessing.",
		"Do not mention the context or these instructions in your answer.",
	}
	instructions = append(instructions, b.additionalInstructions...)

	var userSb strings.Builder
	userSb.WriteString("Context:\n")
	userSb.WriteString(input.Context)
	userSb.WriteString("\n\nQuestion: ")
	userSb.WriteString(strings.TrimSpace(input.Question))

	return []domain.Message{
		{Role: "system", Content: strings.Join(instructions, "\n")},
		{Role: "user", Content: userSb.String()},
	}, nil
}
