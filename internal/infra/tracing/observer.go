package tracing

import (
	"context"

	"appliance-assistant/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "appliance-assistant/pipeline"

// Observer emits trace spans at the pipeline checkpoints. Every method is
// fire-and-forget: span creation cannot fail in a way that reaches the
// caller, so tracing can never alter a response.
type Observer struct {
	tracer trace.Tracer
}

// New creates an observer bound to the global tracer provider.
func New() *Observer {
	return &Observer{tracer: otel.Tracer(tracerName)}
}

func (o *Observer) ObserveRetrieval(ctx context.Context, query string, confidence float64, resultCount int) {
	_, span := o.tracer.Start(ctx, "pipeline.retrieval")
	span.SetAttributes(
		attribute.String("query.text", query),
		attribute.Float64("retrieval.confidence", confidence),
		attribute.Int("retrieval.result_count", resultCount),
	)
	span.End()
}

func (o *Observer) ObserveGeneration(ctx context.Context, query string, generated bool) {
	_, span := o.tracer.Start(ctx, "pipeline.generation")
	span.SetAttributes(
		attribute.String("query.text", query),
		attribute.Bool("generation.succeeded", generated),
	)
	span.End()
}

func (o *Observer) ObserveError(ctx context.Context, stage string, err error) {
	_, span := o.tracer.Start(ctx, "pipeline.error")
	span.SetAttributes(attribute.String("pipeline.stage", stage))
	span.RecordError(err)
	span.SetStatus(codes.Error, stage)
	span.End()
}

var _ domain.PipelineObserver = (*Observer)(nil)

// NopObserver ignores every checkpoint. Used when tracing is disabled.
type NopObserver struct{}

// NewNop creates an observer that does nothing.
func NewNop() NopObserver {
	return NopObserver{}
}

func (NopObserver) ObserveRetrieval(context.Context, string, float64, int) {}
func (NopObserver) ObserveGeneration(context.Context, string, bool)        {}
func (NopObserver) ObserveError(context.Context, string, error)            {}

var _ domain.PipelineObserver = NopObserver{}
