// Package catalog provides the catalog and recipe repositories backed by
// dataset files and SQLite.
package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/recipecost/backend/internal/domain"
)

// MemoryCatalog serves products and recipes from a loaded dataset.
// It is read-only after construction and safe for concurrent use.
type MemoryCatalog struct {
	products []domain.Product
	recipes  []domain.Recipe
	matcher  *Matcher
}

// NewMemoryCatalog creates a catalog over a dataset
func NewMemoryCatalog(dataset *Dataset, matcher *Matcher) *MemoryCatalog {
	if matcher == nil {
		matcher = NewMatcher(MatcherConfig{})
	}
	return &MemoryCatalog{
		products: dataset.Products,
		recipes:  dataset.Recipes,
		matcher:  matcher,
	}
}

// ProductsForIngredient returns the products matching an ingredient name
func (c *MemoryCatalog) ProductsForIngredient(ctx context.Context, ingredientName string) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	products := c.matcher.Select(ingredientName, c.products)
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrProductNotFound, ingredientName)
	}
	return products, nil
}

// Recipes returns every recipe in dataset order
func (c *MemoryCatalog) Recipes(ctx context.Context) ([]domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.Recipe, len(c.recipes))
	copy(out, c.recipes)
	return out, nil
}

// RecipeByName finds a recipe by case-insensitive name
func (c *MemoryCatalog) RecipeByName(ctx context.Context, name string) (*domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for i := range c.recipes {
		if strings.EqualFold(c.recipes[i].RecipeName, strings.TrimSpace(name)) {
			recipe := c.recipes[i]
			return &recipe, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", domain.ErrRecipeNotFound, name)
}
