package domain

import "context"

// PipelineObserver receives best-effort notifications at fixed pipeline
// checkpoints. Implementations must never influence the response: every
// method is void and the orchestrator does not wait on them beyond the
// call itself.
type PipelineObserver interface {
	ObserveRetrieval(ctx context.Context, query string, confidence float64, resultCount int)
	ObserveGeneration(ctx context.Context, query string, generated bool)
	ObserveError(ctx context.Context, stage string, err error)
}
