package usecase_test

import (
	"testing"

	"appliance-assistant/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairPromptBuilder_Build(t *testing.T) {
	builder := usecase.NewRepairPromptBuilder()

	messages, err := builder.Build(usecase.PromptInput{
		Question: "Why won't my washing machine drain?",
		Context:  "Check the drain hose for kinks.\n\nClean the pump filter.",
	})
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, "system", messages[0].Role)
	assert.Contains(t, messages[0].Content, "appliance repair assistant")
	assert.Contains(t, messages[0].Content, "ONLY the information in the provided context")

	assert.Equal(t, "user", messages[1].Role)
	assert.Contains(t, messages[1].Content, "Check the drain hose for kinks.")
	assert.Contains(t, messages[1].Content, "Question: Why won't my washing machine drain?")
}

func TestRepairPromptBuilder_AdditionalInstructions(t *testing.T) {
	builder := usecase.NewRepairPromptBuilder("Answer in English.")

	messages, err := builder.Build(usecase.PromptInput{
		Question: "question",
		Context:  "context",
	})
	require.NoError(t, err)

	assert.Contains(t, messages[0].Content, "Answer in English.")
}

func TestRepairPromptBuilder_EmptyQuestion(t *testing.T) {
	builder := usecase.NewRepairPromptBuilder()

	_, err := builder.Build(usecase.PromptInput{Question: "   ", Context: "context"})

	assert.Error(t, err)
}

func TestRepairPromptBuilder_Deterministic(t *testing.T) {
	builder := usecase.NewRepairPromptBuilder()
	input := usecase.PromptInput{Question: "q", Context: "c"}

	first, err := builder.Build(input)
	assert.NoError(t, err)
	second, err := builder.Build(input)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}
