package rec_http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"book-recommender/internal/domain"
	"book-recommender/internal/infra/logger"
	"book-recommender/internal/usecase"
)

// RecommendationRequest is the inbound JSON body.
// Section and category are not validated beyond JSON binding; unexpected
// values flow through to the prompt as-is.
type RecommendationRequest struct {
	Section  string `json:"section"`
	Category string `json:"category"`
}

// RecommendationResponse is the 200 payload.
type RecommendationResponse struct {
	Recommendations []domain.BookRecommendation `json:"recommendations"`
}

type Handler struct {
	recommendUC usecase.RecommendBooksUsecase
	contextLog  *logger.ContextLogger
}

func NewHandler(recommendUC usecase.RecommendBooksUsecase, contextLog *logger.ContextLogger) *Handler {
	return &Handler{
		recommendUC: recommendUC,
		contextLog:  contextLog,
	}
}

// Recommendations serves a recommendation list for a (section, category) pair.
// (POST /v1/recommendations)
//
// Every failure on this path, binding included, answers 500 with
// {"error": message}; there is no partial-success shape.
func (h *Handler) Recommendations(c echo.Context) error {
	ctx := logger.WithRequestID(c.Request().Context(), uuid.New().String())

	var req RecommendationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "invalid request body"})
	}

	ctx = logger.WithSection(ctx, req.Section)
	ctx = logger.WithCategory(ctx, req.Category)
	log := h.contextLog.WithContext(ctx)

	output, err := h.recommendUC.Execute(ctx, usecase.RecommendBooksInput{
		Section:  domain.Section(req.Section),
		Category: req.Category,
	})
	if err != nil {
		log.Error("recommendation_request_failed", "error", err.Error())
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	log.Info("recommendation_request_completed",
		"count", len(output.Recommendations),
		"from_cache", output.FromCache)

	return c.JSON(http.StatusOK, RecommendationResponse{
		Recommendations: output.Recommendations,
	})
}
