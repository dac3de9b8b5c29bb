package di

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"appliance-assistant/internal/adapter/embedding"
	"appliance-assistant/internal/adapter/generation"
	"appliance-assistant/internal/adapter/httpapi"
	"appliance-assistant/internal/adapter/vectorindex"
	"appliance-assistant/internal/domain"
	"appliance-assistant/internal/infra"
	"appliance-assistant/internal/infra/config"
	"appliance-assistant/internal/infra/httpclient"
	"appliance-assistant/internal/infra/tracing"
	"appliance-assistant/internal/usecase"
)

// ApplicationComponents holds all wired dependencies for the application.
type ApplicationComponents struct {
	AnswerUsecase usecase.AnswerQueryUsecase
	Handler       *httpapi.Handler

	// Pool is non-nil only for the pgvector retrieval profile.
	Pool *pgxpool.Pool
}

// NewApplicationComponents wires all dependencies from config. The external
// provider clients built here are long-lived handles shared by every
// request; nothing per-request is cached in them.
func NewApplicationComponents(ctx context.Context, cfg *config.Config, log *slog.Logger, tracingEnabled bool) (*ApplicationComponents, error) {
	embedderHTTP := httpclient.NewPooledClient(time.Duration(cfg.Embedder.Timeout) * time.Second)
	embedder := embedding.NewOllamaEmbedder(cfg.Embedder.URL, cfg.Embedder.Model, embedderHTTP)

	var (
		searcher   domain.VectorSearcher
		pool       *pgxpool.Pool
		readyCheck httpapi.ReadyChecker
	)
	switch cfg.Vector.Provider {
	case config.VectorProviderPinecone:
		indexHTTP := httpclient.NewPooledClient(time.Duration(cfg.Vector.Timeout) * time.Second)
		searcher = vectorindex.NewPineconeClient(cfg.Vector.IndexURL, cfg.Vector.APIKey, indexHTTP)
	case config.VectorProviderPgvector:
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name)
		var err error
		pool, err = infra.NewPostgresDB(ctx, dsn)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to vector db: %w", err)
		}
		repo := vectorindex.NewPgvectorRepository(pool)
		searcher = repo
		readyCheck = repo.Ping
	default:
		return nil, fmt.Errorf("unknown vector provider: %s", cfg.Vector.Provider)
	}

	var generator domain.AnswerGenerator
	if cfg.Generation.Enabled {
		generator = generation.NewOpenAIGenerator(
			cfg.Generation.APIKey,
			cfg.Generation.BaseURL,
			cfg.Generation.Model,
			cfg.Generation.Temperature,
		)
		log.Info("generation_enabled",
			slog.String("model", cfg.Generation.Model),
			slog.Float64("temperature", cfg.Generation.Temperature))
	} else {
		log.Info("generation_disabled")
	}

	var observer domain.PipelineObserver
	if tracingEnabled {
		observer = tracing.New()
	} else {
		observer = tracing.NewNop()
	}

	answerUsecase := usecase.NewAnswerQueryUsecase(
		embedder,
		searcher,
		usecase.NewRepairPromptBuilder(),
		generator,
		usecase.NewRelevanceGate(cfg.Retrieval.Threshold),
		observer,
		cfg.Retrieval.TopK,
		usecase.Timeouts{
			Embed:    time.Duration(cfg.Embedder.Timeout) * time.Second,
			Retrieve: time.Duration(cfg.Vector.Timeout) * time.Second,
			Generate: time.Duration(cfg.Generation.Timeout) * time.Second,
		},
		log,
	)

	handler := httpapi.NewHandler(answerUsecase, cfg.Retrieval.MaxTopK, cfg.Retrieval.ExposeResults, readyCheck)

	return &ApplicationComponents{
		AnswerUsecase: answerUsecase,
		Handler:       handler,
		Pool:          pool,
	}, nil
}
