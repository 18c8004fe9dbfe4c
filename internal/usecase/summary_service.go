package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/recipecost/backend/internal/domain"
)

const (
	sourceComputed = "Computed"
	sourceCache    = "Cache"
)

// SummaryServiceConfig holds configuration for the summary service
type SummaryServiceConfig struct {
	CacheTTL time.Duration
}

// SummaryService serves recipe summaries for the catalog's recipes with
// caching, and computes ad-hoc summaries for submitted recipes.
type SummaryService struct {
	recipes  domain.RecipeRepository
	service  *RecipeService
	cache    domain.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// cachedReport is the cache representation of a computed summary
type cachedReport struct {
	RecipeName string                `json:"recipeName"`
	RunID      string                `json:"runId"`
	CachedAt   time.Time             `json:"cachedAt"`
	Summary    *domain.RecipeSummary `json:"summary"`
}

// NewSummaryService creates a new summary service with dependencies
func NewSummaryService(
	recipes domain.RecipeRepository,
	service *RecipeService,
	cache domain.CacheRepository,
	config SummaryServiceConfig,
	logger *zap.Logger,
) *SummaryService {
	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SummaryService{
		recipes:  recipes,
		service:  service,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// RecipeNames lists the catalog's recipes in catalog order
func (s *SummaryService) RecipeNames(ctx context.Context) ([]string, error) {
	recipes, err := s.recipes.Recipes(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(recipes))
	for i, recipe := range recipes {
		names[i] = recipe.RecipeName
	}
	return names, nil
}

// RecipeSummary returns the summary of a catalog recipe.
// Flow: load recipe -> check cache -> summarize in a fresh batch -> cache -> return
func (s *SummaryService) RecipeSummary(ctx context.Context, recipeName string) (*domain.RecipeReport, error) {
	if strings.TrimSpace(recipeName) == "" {
		return nil, domain.ErrInvalidRequest
	}

	recipe, err := s.recipes.RecipeByName(ctx, recipeName)
	if err != nil {
		return nil, err
	}

	cacheKey := generateCacheKey(recipe.RecipeName)

	var cached cachedReport
	if err := s.cache.Get(ctx, cacheKey, &cached); err == nil && cached.Summary != nil {
		cachedAt := cached.CachedAt
		return &domain.RecipeReport{
			RecipeName: recipe.RecipeName,
			RunID:      cached.RunID,
			Source:     sourceCache,
			CachedAt:   &cachedAt,
			Summary:    cached.Summary,
		}, nil
	}

	batch := s.service.NewBatch()
	summary, err := batch.Summarize(ctx, *recipe)
	if err != nil {
		return nil, err
	}

	entry := cachedReport{
		RecipeName: recipe.RecipeName,
		RunID:      batch.ID(),
		CachedAt:   time.Now().UTC(),
		Summary:    summary,
	}
	if err := s.cache.Set(ctx, cacheKey, entry, s.cacheTTL); err != nil {
		// A failed cache write only costs a recomputation next time
		s.logger.Warn("failed to cache recipe summary",
			zap.String("recipe", recipe.RecipeName),
			zap.Error(err))
	}

	return &domain.RecipeReport{
		RecipeName: recipe.RecipeName,
		RunID:      batch.ID(),
		Source:     sourceComputed,
		Summary:    summary,
	}, nil
}

// SummarizeCatalog summarizes every catalog recipe in a single batch run
func (s *SummaryService) SummarizeCatalog(ctx context.Context) (*domain.BatchResult, error) {
	recipes, err := s.recipes.Recipes(ctx)
	if err != nil {
		return nil, err
	}
	return s.service.SummarizeAll(ctx, recipes)
}

// SummarizeRecipes summarizes submitted recipes in a single batch run.
// Results are not cached since the recipes are not part of the catalog.
func (s *SummaryService) SummarizeRecipes(ctx context.Context, request *domain.SummaryRequest) (*domain.BatchResult, error) {
	if request == nil || len(request.Recipes) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	for _, recipe := range request.Recipes {
		if err := recipe.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
	}
	return s.service.SummarizeAll(ctx, request.Recipes)
}

// LowestCost returns the cheapest offer for an ingredient
func (s *SummaryService) LowestCost(ctx context.Context, ingredientName string) (*domain.LowestCostProduct, error) {
	return s.service.LowestCost(ctx, ingredientName)
}

// InvalidateRecipe drops the cached summary of a catalog recipe
func (s *SummaryService) InvalidateRecipe(ctx context.Context, recipeName string) error {
	if strings.TrimSpace(recipeName) == "" {
		return domain.ErrInvalidRequest
	}
	recipe, err := s.recipes.RecipeByName(ctx, recipeName)
	if err != nil {
		return err
	}
	return s.cache.Delete(ctx, generateCacheKey(recipe.RecipeName))
}

// generateCacheKey creates the cache key for a catalog recipe from its stored
// name. Stored names are unique ignoring case.
// Format: "summary:{lowercased_recipe_name}"
func generateCacheKey(recipeName string) string {
	return fmt.Sprintf("summary:%s", strings.ToLower(recipeName))
}
