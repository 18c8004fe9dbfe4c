package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/recipecost/backend/internal/domain"
)

// RecipeService computes cheapest costs and nutrient profiles of recipes
type RecipeService struct {
	table      domain.UnitTable
	converter  *UnitConverter
	selector   *LowestCostSelector
	normalizer *NutrientNormalizer
	logger     *zap.Logger
}

// NewRecipeService wires the converter, selector and normalizer over a catalog
func NewRecipeService(
	catalog domain.CatalogRepository,
	table domain.UnitTable,
	rules []BridgeRule,
	logger *zap.Logger,
) *RecipeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	converter := NewUnitConverter(table, rules)

	return &RecipeService{
		table:      table,
		converter:  converter,
		selector:   NewLowestCostSelector(catalog, converter),
		normalizer: NewNutrientNormalizer(converter),
		logger:     logger,
	}
}

// Converter returns the unit converter used by the service
func (s *RecipeService) Converter() *UnitConverter {
	return s.converter
}

// LowestCost looks up the cheapest offer for one ingredient, uncached
func (s *RecipeService) LowestCost(ctx context.Context, ingredientName string) (*domain.LowestCostProduct, error) {
	return s.selector.FindLowestCost(ctx, ingredientName)
}

// NewBatch starts a batch run with an empty pricing map
func (s *RecipeService) NewBatch() *Batch {
	return &Batch{
		id:      uuid.NewString(),
		service: s,
		pricing: make(map[string]*domain.LowestCostProduct),
	}
}

// SummarizeAll summarizes every recipe in one batch run. The first error
// aborts the run and no summaries are returned.
func (s *RecipeService) SummarizeAll(ctx context.Context, recipes []domain.Recipe) (*domain.BatchResult, error) {
	batch := s.NewBatch()
	result := &domain.BatchResult{
		RunID:     batch.ID(),
		Summaries: make(map[string]*domain.RecipeSummary, len(recipes)),
	}

	for _, recipe := range recipes {
		summary, err := batch.Summarize(ctx, recipe)
		if err != nil {
			s.logger.Error("batch run aborted",
				zap.String("run_id", batch.ID()),
				zap.String("recipe", recipe.RecipeName),
				zap.Error(err))
			return nil, err
		}
		result.Summaries[recipe.RecipeName] = summary
	}

	s.logger.Info("batch run finished",
		zap.String("run_id", batch.ID()),
		zap.Int("recipes", len(recipes)),
		zap.Int("priced_ingredients", batch.PricedIngredients()))

	return result, nil
}

// Batch is one run over a set of recipes. The cheapest offer of an ingredient
// is looked up once per batch and reused by every later recipe, so the
// catalog must not change during the run. A Batch is not safe for concurrent
// use.
type Batch struct {
	id      string
	service *RecipeService
	pricing map[string]*domain.LowestCostProduct
}

// ID returns the run identifier
func (b *Batch) ID() string {
	return b.id
}

// PricedIngredients returns how many ingredients have been priced so far
func (b *Batch) PricedIngredients() int {
	return len(b.pricing)
}

// lowestCost returns the cached offer for an ingredient or asks the selector
func (b *Batch) lowestCost(ctx context.Context, ingredientName string) (*domain.LowestCostProduct, error) {
	if product, ok := b.pricing[ingredientName]; ok {
		return product, nil
	}

	product, err := b.service.selector.FindLowestCost(ctx, ingredientName)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, fmt.Errorf("%w %q: %w", domain.ErrSupplierNotFound, ingredientName, err)
		}
		return nil, err
	}

	b.service.logger.Debug("priced ingredient",
		zap.String("run_id", b.id),
		zap.String("ingredient", ingredientName),
		zap.String("product", product.ProductName),
		zap.String("supplier", product.SupplierProduct.SupplierName),
		zap.Float64("base_price", product.BasePrice))

	b.pricing[ingredientName] = product
	return product, nil
}

// Summarize computes the cheapest cost of a recipe and its nutrients per
// reference quantity. Any failure aborts the recipe without a partial result.
func (b *Batch) Summarize(ctx context.Context, recipe domain.Recipe) (*domain.RecipeSummary, error) {
	reference := b.service.table.ReferenceNutrientBase()
	converter := b.service.converter
	normalizer := b.service.normalizer

	totalCost := decimal.Zero
	totalQuantity := domain.UnitOfMeasure{Amount: 0, Name: reference.Name, Type: reference.Type}
	nutrients := make(map[string]domain.UnitOfMeasure)

	for i, item := range recipe.LineItems {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := fmt.Sprintf("recipe %q line %d", recipe.RecipeName, i+1)

		product, err := b.lowestCost(ctx, item.Ingredient.IngredientName)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", line, err)
		}

		cost, err := converter.ConvertRealCostByBasePrice(item.UnitOfMeasure, product.BasePrice)
		if err != nil {
			return nil, fmt.Errorf("%s cost: %w", line, err)
		}
		totalCost = totalCost.Add(decimal.NewFromFloat(cost))

		contained, err := normalizer.RealNutrientsInConsumedAmount(item.UnitOfMeasure, product.NutrientFacts)
		if err != nil {
			return nil, fmt.Errorf("%s nutrients: %w", line, err)
		}
		if err := normalizer.Accumulate(nutrients, contained); err != nil {
			return nil, fmt.Errorf("%s nutrients: %w", line, err)
		}

		totalQuantity, err = converter.Sum(totalQuantity, item.UnitOfMeasure)
		if err != nil {
			return nil, fmt.Errorf("%s quantity: %w", line, err)
		}
	}

	facts, err := normalizer.TotalNutrientFacts(nutrients, totalQuantity, reference)
	if err != nil {
		return nil, fmt.Errorf("recipe %q: %w", recipe.RecipeName, err)
	}

	return &domain.RecipeSummary{
		CheapestCost:            totalCost.InexactFloat64(),
		NutrientsAtCheapestCost: facts,
	}, nil
}

// SortedKeys returns the keys of m in ascending order
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
