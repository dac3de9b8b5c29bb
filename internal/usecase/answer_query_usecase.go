package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"appliance-assistant/internal/domain"

	"github.com/google/uuid"
)

// FallbackAnswer is returned verbatim when retrieved evidence is judged
// insufficient to invoke generation.
const FallbackAnswer = "I could not find enough information about this issue in the dataset."

// AnswerQueryInput encapsulates the parameters that drive one query.
type AnswerQueryInput struct {
	Query string
	TopK  int
}

// AnswerQueryOutput is the normalized result of one query. Answer is nil
// when generation failed (or is disabled) after the gate passed; it is the
// canned fallback string when the gate withheld generation.
type AnswerQueryOutput struct {
	Answer     *string
	Confidence float64
	Chunks     []domain.RetrievedChunk
	FellBack   bool
}

// AnswerQueryUsecase defines the contract for the query pipeline.
type AnswerQueryUsecase interface {
	Execute(ctx context.Context, input AnswerQueryInput) (*AnswerQueryOutput, error)
}

// Timeouts carries the per-stage deadlines for outbound calls. A zero value
// means no deadline beyond the caller's context.
type Timeouts struct {
	Embed    time.Duration
	Retrieve time.Duration
	Generate time.Duration
}

type answerQueryUsecase struct {
	embedder      domain.QueryEmbedder
	searcher      domain.VectorSearcher
	promptBuilder PromptBuilder
	generator     domain.AnswerGenerator
	gate          RelevanceGate
	observer      domain.PipelineObserver
	defaultTopK   int
	timeouts      Timeouts
	log           *slog.Logger
}

// NewAnswerQueryUsecase wires the pipeline together. The generator may be
// nil, in which case every gated query completes without a synthesized
// answer (retrieval-only profile).
func NewAnswerQueryUsecase(
	embedder domain.QueryEmbedder,
	searcher domain.VectorSearcher,
	promptBuilder PromptBuilder,
	generator domain.AnswerGenerator,
	gate RelevanceGate,
	observer domain.PipelineObserver,
	defaultTopK int,
	timeouts Timeouts,
	log *slog.Logger,
) AnswerQueryUsecase {
	if defaultTopK < 1 {
		defaultTopK = 3
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &answerQueryUsecase{
		embedder:      embedder,
		searcher:      searcher,
		promptBuilder: promptBuilder,
		generator:     generator,
		gate:          gate,
		observer:      observer,
		defaultTopK:   defaultTopK,
		timeouts:      timeouts,
		log:           log,
	}
}

// Execute runs one request through embed, retrieve, score and, when the
// gate passes, generate. Embedding and retrieval failures abort the
// request; a generation failure degrades it instead, because the retrieval
// work already succeeded and has standalone value.
func (u *answerQueryUsecase) Execute(ctx context.Context, input AnswerQueryInput) (*AnswerQueryOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}

	topK := input.TopK
	if topK < 1 {
		topK = u.defaultTopK
	}
	requestID := uuid.NewString()
	log := u.log.With(slog.String("request_id", requestID))

	vector, err := u.embed(ctx, input.Query)
	if err != nil {
		u.observer.ObserveError(ctx, "embed", err)
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	result, err := u.search(ctx, vector, topK)
	if err != nil {
		u.observer.ObserveError(ctx, "retrieve", err)
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	confidence, pass := u.gate.Evaluate(*result)
	u.observer.ObserveRetrieval(ctx, input.Query, confidence, len(result.Chunks))

	if !pass {
		log.Info("relevance_gate_withheld_generation",
			slog.Float64("confidence", confidence),
			slog.Float64("threshold", u.gate.Threshold()),
			slog.Int("chunk_count", len(result.Chunks)),
		)
		fallback := FallbackAnswer
		return &AnswerQueryOutput{
			Answer:     &fallback,
			Confidence: confidence,
			Chunks:     result.Chunks,
			FellBack:   true,
		}, nil
	}

	if u.generator == nil {
		return &AnswerQueryOutput{
			Answer:     nil,
			Confidence: confidence,
			Chunks:     result.Chunks,
		}, nil
	}

	contextBlock := AssembleContext(*result)

	answer, err := u.generate(ctx, input.Query, contextBlock)
	if err != nil {
		log.Warn("generation_failed_degrading_response",
			slog.String("error", err.Error()),
			slog.Float64("confidence", confidence),
		)
		u.observer.ObserveError(ctx, "generate", err)
		u.observer.ObserveGeneration(ctx, input.Query, false)
		return &AnswerQueryOutput{
			Answer:     nil,
			Confidence: confidence,
			Chunks:     result.Chunks,
		}, nil
	}

	u.observer.ObserveGeneration(ctx, input.Query, true)
	return &AnswerQueryOutput{
		Answer:     &answer,
		Confidence: confidence,
		Chunks:     result.Chunks,
	}, nil
}

func (u *answerQueryUsecase) embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := withTimeout(ctx, u.timeouts.Embed)
	defer cancel()
	return u.embedder.Embed(ctx, text)
}

func (u *answerQueryUsecase) search(ctx context.Context, vector []float32, topK int) (*domain.RetrievalResult, error) {
	ctx, cancel := withTimeout(ctx, u.timeouts.Retrieve)
	defer cancel()
	result, err := u.searcher.Search(ctx, vector, topK)
	if err != nil {
		return nil, err
	}
	if result == nil {
		result = &domain.RetrievalResult{}
	}
	if len(result.Chunks) > topK {
		result.Chunks = result.Chunks[:topK]
	}
	return result, nil
}

func (u *answerQueryUsecase) generate(ctx context.Context, question, contextBlock string) (string, error) {
	messages, err := u.promptBuilder.Build(PromptInput{
		Question: question,
		Context:  contextBlock,
	})
	if err != nil {
		return "", fmt.Errorf("failed to build prompt: %w", err)
	}

	ctx, cancel := withTimeout(ctx, u.timeouts.Generate)
	defer cancel()

	text, err := u.generator.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("generator returned empty answer")
	}
	return text, nil
}

type nopObserver struct{}

func (nopObserver) ObserveRetrieval(context.Context, string, float64, int) {}
func (nopObserver) ObserveGeneration(context.Context, string, bool)        {}
func (nopObserver) ObserveError(context.Context, string, error)            {}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, d)
}
