package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recipecost/backend/internal/domain"
)

// Version is the API version reported by the health check
const Version = "1.0.0"

// SummaryUsecase is the recipe summary behaviour the handlers depend on
type SummaryUsecase interface {
	RecipeNames(ctx context.Context) ([]string, error)
	RecipeSummary(ctx context.Context, recipeName string) (*domain.RecipeReport, error)
	SummarizeCatalog(ctx context.Context) (*domain.BatchResult, error)
	SummarizeRecipes(ctx context.Context, request *domain.SummaryRequest) (*domain.BatchResult, error)
	LowestCost(ctx context.Context, ingredientName string) (*domain.LowestCostProduct, error)
	InvalidateRecipe(ctx context.Context, recipeName string) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	summaries SummaryUsecase
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler. A nil usecase makes every API
// endpoint answer 501.
func NewHandler(summaries SummaryUsecase, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{summaries: summaries, logger: logger}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "recipecost",
		"version": Version,
	})
}

// ListRecipes returns the names of the catalog's recipes
func (h *Handler) ListRecipes(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	names, err := h.summaries.RecipeNames(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": names})
}

// RecipeSummary returns the cheapest cost and nutrient summary of a catalog recipe
func (h *Handler) RecipeSummary(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	report, err := h.summaries.RecipeSummary(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// InvalidateRecipeSummary drops the cached summary of a catalog recipe
func (h *Handler) InvalidateRecipeSummary(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	if err := h.summaries.InvalidateRecipe(c.Request.Context(), c.Param("name")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// SummarizeCatalog summarizes every catalog recipe in one run
func (h *Handler) SummarizeCatalog(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	result, err := h.summaries.SummarizeCatalog(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SummarizeRecipes summarizes the recipes in the request body in one run
func (h *Handler) SummarizeRecipes(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	var request domain.SummaryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}

	result, err := h.summaries.SummarizeRecipes(c.Request.Context(), &request)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// LowestCost returns the cheapest supplier offer for an ingredient
func (h *Handler) LowestCost(c *gin.Context) {
	if !h.configured(c) {
		return
	}

	product, err := h.summaries.LowestCost(c.Request.Context(), c.Param("name"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) configured(c *gin.Context) bool {
	if h.summaries == nil {
		c.JSON(http.StatusNotImplemented, gin.H{
			"error": "recipe summaries are not configured",
		})
		return false
	}
	return true
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusForError(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrInvalidUnit):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrSupplierNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupportedConversion),
		errors.Is(err, domain.ErrIncompatibleNutrientUnits),
		errors.Is(err, domain.ErrInvalidNutrientFact),
		errors.Is(err, domain.ErrInvalidSupplierProduct):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrCatalogAPIFailure):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrCacheUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
