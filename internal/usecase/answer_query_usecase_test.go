package usecase_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"appliance-assistant/internal/domain"
	"appliance-assistant/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockEmbedder struct {
	mock.Mock
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float32), args.Error(1)
}

func (m *mockEmbedder) Version() string { return "mock" }

type mockSearcher struct {
	mock.Mock
}

func (m *mockSearcher) Search(ctx context.Context, vector []float32, topK int) (*domain.RetrievalResult, error) {
	args := m.Called(ctx, vector, topK)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RetrievalResult), args.Error(1)
}

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Generate(ctx context.Context, messages []domain.Message) (string, error) {
	args := m.Called(ctx, messages)
	return args.String(0), args.Error(1)
}

func (m *mockGenerator) Version() string { return "mock" }

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func newTestUsecase(embedder *mockEmbedder, searcher *mockSearcher, generator domain.AnswerGenerator) usecase.AnswerQueryUsecase {
	return usecase.NewAnswerQueryUsecase(
		embedder,
		searcher,
		usecase.NewRepairPromptBuilder(),
		generator,
		usecase.NewRelevanceGate(25.0),
		nil,
		3,
		usecase.Timeouts{},
		testLogger(),
	)
}

func retrievalWithScores(scores ...float64) *domain.RetrievalResult {
	chunks := make([]domain.RetrievedChunk, len(scores))
	for i, s := range scores {
		chunks[i] = domain.RetrievedChunk{
			Similarity: s,
			Text:       "Some repair guidance.",
			SourceID:   "manual.pdf",
		}
	}
	return &domain.RetrievalResult{Chunks: chunks}
}

func TestAnswerQuery_Success(t *testing.T) {
	embedder := new(mockEmbedder)
	searcher := new(mockSearcher)
	generator := new(mockGenerator)
	uc := newTestUsecase(embedder, searcher, generator)

	embedder.On("Embed", mock.Anything, "How to fix a washing machine?").Return([]float32{0.1, 0.2}, nil)
	searcher.On("Search", mock.Anything, []float32{0.1, 0.2}, 3).Return(retrievalWithScores(0.6, 0.55, 0.5), nil)
	generator.On("Generate", mock.Anything, mock.Anything).Return("Check the drain hose first.", nil)

	output, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{Query: "How to fix a washing machine?"})
	require.NoError(t, err)

	require.NotNil(t, output.Answer)
	assert.Equal(t, "Check the drain hose first.", *output.Answer)
	assert.Greater(t, output.Confidence, 25.0)
	assert.False(t, output.FellBack)
	generator.AssertNumberOfCalls(t, "Generate", 1)
}

func TestAnswerQuery_LowConfidenceFallback(t *testing.T) {
	embedder := new(mockEmbedder)
	searcher := new(mockSearcher)
	generator := new(mockGenerator)
	uc := newTestUsecase(embedder, searcher, generator)

	embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	searcher.On("Search", mock.Anything, mock.Anything, 3).Return(retrievalWithScores(0.1, 0.12, 0.08), nil)

	output, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{Query: "Unrelated question"})
	require.NoError(t, err)

	require.NotNil(t, output.Answer)
	assert.Equal(t, usecase.FallbackAnswer, *output.Answer)
	assert.Less(t, output.Confidence, 25.0)
	assert.True(t, output.FellBack)
	generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestAnswerQuery_EmptyRetrievalFallsBack(t *testing.T) {
	embedder := new(mockEmbedder)
	searcher := new(mockSearcher)
	generator := new(mockGenerator)
	uc := newTestUsecase(embedder, searcher, generator)

	embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	searcher.On("Search", mock.Anything, mock.Anything, 3).Return(&domain.RetrievalResult{}, nil)

	output, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{Query: "question"})
	require.NoError(t, err)

	assert.Equal(t, 0.0, output.Confidence)
	assert.True(t, output.FellBack)
	require.NotNil(t, output.Answer)
	assert.Equal(t, usecase.FallbackAnswer, *output.Answer)
	generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestAnswerQuery_GenerationFailureDegrades(t *testing.T) {
	embedder := new(mockEmbedder)
	searcher := new(mockSearcher)
	generator := new(mockGenerator)
	uc := newTestUsecase(embedder, searcher, generator)

	embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	searcher.On("Search", mock.Anything, mock.Anything, 3).Return(retrievalWithScores(0.6, 0.55, 0.5), nil)
	generator.On("Generate", mock.Anything, mock.Anything).Return("", errors.New("provider timeout"))

	output, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{Query: "question"})
	require.NoError(t, err)

	assert.Nil(t, output.Answer)
	assert.InDelta(t, 55.0, output.Confidence, 0.01)
	assert.False(t, output.FellBack)
	assert.Len(t, output.Chunks, 3)
}

func TestAnswerQuery_EmptyGeneratedTextDegrades(t *testing.T) {
	embedder := new(mockEmbedder)
	searcher := new(mockSearcher)
	generator := new(mockGenerator)
	uc := newTestUsecase(embedder, searcher, generator)

	embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	searcher.On("Search", mock.Anything, mock.Anything, 3).Return(retrievalWithScores(0.8), nil)
	generator.On("Generate", mock.Anything, mock.Anything).Return("   ", nil)

	output, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{Query: "question"})
	require.NoError(t, err)

	assert.Nil(t, output.Answer)
	assert.InDelta(t, 80.0, output.Confidence, 0.01)
}

func TestAnswerQuery_RetrievalFailureIsFatal(t *testing.T) {
	embedder := new(mockEmbedder)
	searcher := new(mockSearcher)
	generator := new(mockGenerator)
	uc := newTestUsecase(embedder, searcher, generator)

	embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	searcher.On("Search", mock.Anything, mock.Anything, 3).Return(nil, errors.New("index unreachable"))

	output, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{Query: "question"})

	require.Error(t, err)
	assert.Nil(t, output)
	assert.Contains(t, err.Error(), "retrieval failed")
	generator.AssertNotCalled(t, "Generate", mock.Anything, mock.Anything)
}

func TestAnswerQuery_EmbeddingFailureIsFatal(t *testing.T) {
	embedder := new(mockEmbedder)
	searcher := new(mockSearcher)
	generator := new(mockGenerator)
	uc := newTestUsecase(embedder, searcher, generator)

	embedder.On("Embed", mock.Anything, mock.Anything).Return(nil, errors.New("embedder down"))

	_, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{Query: "question"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to embed query")
	searcher.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything)
}

func TestAnswerQuery_BlankQueryRejected(t *testing.T) {
	embedder := new(mockEmbedder)
	searcher := new(mockSearcher)
	uc := newTestUsecase(embedder, searcher, nil)

	_, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{Query: "  "})

	require.Error(t, err)
	embedder.AssertNotCalled(t, "Embed", mock.Anything, mock.Anything)
}

func TestAnswerQuery_TopKOverride(t *testing.T) {
	embedder := new(mockEmbedder)
	searcher := new(mockSearcher)
	uc := newTestUsecase(embedder, searcher, nil)

	embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	searcher.On("Search", mock.Anything, mock.Anything, 5).Return(retrievalWithScores(0.9), nil)

	_, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{Query: "question", TopK: 5})
	require.NoError(t, err)

	searcher.AssertCalled(t, "Search", mock.Anything, mock.Anything, 5)
}

func TestAnswerQuery_NilGeneratorSkipsGeneration(t *testing.T) {
	embedder := new(mockEmbedder)
	searcher := new(mockSearcher)
	uc := newTestUsecase(embedder, searcher, nil)

	embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	searcher.On("Search", mock.Anything, mock.Anything, 3).Return(retrievalWithScores(0.9), nil)

	output, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{Query: "question"})
	require.NoError(t, err)

	assert.Nil(t, output.Answer)
	assert.False(t, output.FellBack)
	assert.InDelta(t, 90.0, output.Confidence, 0.01)
}

func TestAnswerQuery_TruncatesBeyondTopK(t *testing.T) {
	embedder := new(mockEmbedder)
	searcher := new(mockSearcher)
	uc := newTestUsecase(embedder, searcher, nil)

	embedder.On("Embed", mock.Anything, mock.Anything).Return([]float32{0.1}, nil)
	searcher.On("Search", mock.Anything, mock.Anything, 2).Return(retrievalWithScores(0.9, 0.8, 0.7, 0.6), nil)

	output, err := uc.Execute(context.Background(), usecase.AnswerQueryInput{Query: "question", TopK: 2})
	require.NoError(t, err)

	assert.Len(t, output.Chunks, 2)
	assert.InDelta(t, 85.0, output.Confidence, 0.01)
}
