package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/recipecost/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))
	{
		recipes := v1.Group("/recipes")
		{
			recipes.GET("", handler.ListRecipes)
			recipes.POST("/summary", handler.SummarizeRecipes)
			recipes.GET("/:name/summary", handler.RecipeSummary)
			recipes.DELETE("/:name/summary", handler.InvalidateRecipeSummary)
		}

		v1.GET("/summaries", handler.SummarizeCatalog)

		ingredients := v1.Group("/ingredients")
		{
			ingredients.GET("/:name/lowest-cost", handler.LowestCost)
		}
	}

	return router
}
