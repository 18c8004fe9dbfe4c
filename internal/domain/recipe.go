package domain

import (
	"fmt"
	"time"
)

// Ingredient names what a recipe line consumes
type Ingredient struct {
	IngredientName string `json:"ingredientName" yaml:"ingredientName"`
}

// LineItem is one ingredient entry of a recipe with the quantity consumed
type LineItem struct {
	Ingredient    Ingredient    `json:"ingredient" yaml:"ingredient"`
	UnitOfMeasure UnitOfMeasure `json:"unitOfMeasure" yaml:"unitOfMeasure"`
}

// Recipe is a named list of line items
type Recipe struct {
	RecipeName string     `json:"recipeName" yaml:"recipeName"`
	LineItems  []LineItem `json:"lineItems" yaml:"lineItems"`
}

// Validate checks the recipe name and every line item quantity
func (r Recipe) Validate() error {
	if r.RecipeName == "" {
		return fmt.Errorf("%w: recipe without a name", ErrInvalidRequest)
	}
	for i, item := range r.LineItems {
		if item.Ingredient.IngredientName == "" {
			return fmt.Errorf("%w: recipe %q line %d has no ingredient", ErrInvalidRequest, r.RecipeName, i+1)
		}
		if err := item.UnitOfMeasure.Validate(); err != nil {
			return fmt.Errorf("recipe %q line %d: %w", r.RecipeName, i+1, err)
		}
	}
	return nil
}

// RecipeSummary is the cheapest cost of a recipe and its nutrients at that cost
type RecipeSummary struct {
	CheapestCost            float64       `json:"cheapestCost"`
	NutrientsAtCheapestCost NutrientFacts `json:"nutrientsAtCheapestCost"`
}

// BatchResult holds the summaries computed by one batch run
type BatchResult struct {
	RunID     string                    `json:"runId"`
	Summaries map[string]*RecipeSummary `json:"summaries"`
}

// RecipeReport is a summary as served to clients
type RecipeReport struct {
	RecipeName string         `json:"recipeName"`
	RunID      string         `json:"runId"`
	Source     string         `json:"source"` // "Computed" or "Cache"
	CachedAt   *time.Time     `json:"cachedAt,omitempty"` // set only when Source is "Cache"
	Summary    *RecipeSummary `json:"summary"`
}

// SummaryRequest represents an ad-hoc summary request for recipes not in the catalog
type SummaryRequest struct {
	Recipes []Recipe `json:"recipes" binding:"required"`
}
