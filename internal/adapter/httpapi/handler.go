package httpapi

import (
	"context"
	"net/http"
	"strings"

	"appliance-assistant/internal/domain"
	"appliance-assistant/internal/usecase"

	"github.com/labstack/echo/v4"
)

// QueryRequest is the inbound body for POST /query.
type QueryRequest struct {
	Query string `json:"query"`
	TopK  *int   `json:"top_k,omitempty"`
}

// SearchResult mirrors one retrieved chunk in the response payload.
type SearchResult struct {
	Score      float64 `json:"score"`
	Text       string  `json:"text"`
	Source     string  `json:"source"`
	ChunkIndex *int    `json:"chunk_index,omitempty"`
}

// QueryResponse is the outbound body for POST /query. Answer is null when
// generation failed after the gate passed. Results, Query and TotalResults
// appear only when the expose-results profile is on.
type QueryResponse struct {
	Answer       *string        `json:"answer"`
	TotalScore   float64        `json:"total_score"`
	Results      []SearchResult `json:"results,omitempty"`
	Query        string         `json:"query,omitempty"`
	TotalResults *int           `json:"total_results,omitempty"`
}

// ReadyChecker reports whether downstream dependencies are reachable.
type ReadyChecker func(ctx context.Context) error

// Handler exposes the query pipeline over HTTP.
type Handler struct {
	answerUsecase usecase.AnswerQueryUsecase
	maxTopK       int
	exposeResults bool
	readyCheck    ReadyChecker
}

// NewHandler creates the HTTP handler. readyCheck may be nil when the
// deployment has no pingable dependency.
func NewHandler(answerUsecase usecase.AnswerQueryUsecase, maxTopK int, exposeResults bool, readyCheck ReadyChecker) *Handler {
	if maxTopK < 1 {
		maxTopK = 10
	}
	return &Handler{
		answerUsecase: answerUsecase,
		maxTopK:       maxTopK,
		exposeResults: exposeResults,
		readyCheck:    readyCheck,
	}
}

// Register attaches all routes to the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/query", h.SubmitQuery)
	e.GET("/", h.Root)
	e.GET("/health", h.Health)
	e.GET("/readyz", h.Ready)
}

// SubmitQuery runs one question through the retrieval pipeline.
// (POST /query)
func (h *Handler) SubmitQuery(ctx echo.Context) error {
	var req QueryRequest
	if err := ctx.Bind(&req); err != nil {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}
	if strings.TrimSpace(req.Query) == "" {
		return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "query is required"})
	}

	topK := 0
	if req.TopK != nil {
		if *req.TopK < 1 {
			return ctx.JSON(http.StatusBadRequest, map[string]string{"error": "top_k must be at least 1"})
		}
		topK = *req.TopK
		if topK > h.maxTopK {
			topK = h.maxTopK
		}
	}

	output, err := h.answerUsecase.Execute(ctx.Request().Context(), usecase.AnswerQueryInput{
		Query: req.Query,
		TopK:  topK,
	})
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	resp := QueryResponse{
		Answer:     output.Answer,
		TotalScore: output.Confidence,
	}
	if h.exposeResults {
		resp.Results = toSearchResults(output.Chunks)
		resp.Query = req.Query
		total := len(resp.Results)
		resp.TotalResults = &total
	}

	return ctx.JSON(http.StatusOK, resp)
}

// Root serves basic API information.
// (GET /)
func (h *Handler) Root(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{
		"message": "ApplianceCare AI Assistant API",
		"status":  "running",
	})
}

// Health reports process liveness.
// (GET /health)
func (h *Handler) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

// Ready reports downstream reachability when a checker is configured.
// (GET /readyz)
func (h *Handler) Ready(ctx echo.Context) error {
	if h.readyCheck != nil {
		if err := h.readyCheck(ctx.Request().Context()); err != nil {
			return ctx.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
		}
	}
	return ctx.JSON(http.StatusOK, map[string]string{"status": "ready"})
}

func toSearchResults(chunks []domain.RetrievedChunk) []SearchResult {
	results := make([]SearchResult, 0, len(chunks))
	for _, chunk := range chunks {
		results = append(results, SearchResult{
			Score:      chunk.Similarity,
			Text:       chunk.Text,
			Source:     chunk.SourceID,
			ChunkIndex: chunk.ChunkIndex,
		})
	}
	return results
}
