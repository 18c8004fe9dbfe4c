package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/recipecost/backend/internal/domain"
)

// LowestCostSelector finds the cheapest supplier offer for an ingredient.
// It holds no state between calls; callers cache results per batch.
type LowestCostSelector struct {
	catalog   domain.CatalogRepository
	converter *UnitConverter
}

// NewLowestCostSelector creates a selector over a catalog
func NewLowestCostSelector(catalog domain.CatalogRepository, converter *UnitConverter) *LowestCostSelector {
	return &LowestCostSelector{
		catalog:   catalog,
		converter: converter,
	}
}

// FindLowestCost returns the offer with the minimum cost per base unit across
// every supplier of every product matching ingredientName. Ties keep the
// first offer seen in catalog order.
func (s *LowestCostSelector) FindLowestCost(ctx context.Context, ingredientName string) (*domain.LowestCostProduct, error) {
	if strings.TrimSpace(ingredientName) == "" {
		return nil, domain.ErrInvalidRequest
	}

	products, err := s.catalog.ProductsForIngredient(ctx, ingredientName)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: %q", domain.ErrProductNotFound, ingredientName)
		}
		return nil, fmt.Errorf("catalog lookup for %q: %w", ingredientName, err)
	}

	var lowest *domain.LowestCostProduct
	for _, product := range products {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		for _, offer := range product.SupplierProducts {
			cost, err := s.converter.CostPerBaseUnit(offer)
			if err != nil {
				return nil, fmt.Errorf("pricing %q from %q: %w", product.ProductName, offer.SupplierName, err)
			}

			if lowest == nil || cost < lowest.BasePrice {
				lowest = &domain.LowestCostProduct{
					ProductName:     product.ProductName,
					NutrientFacts:   product.NutrientFacts,
					SupplierProduct: offer,
					BasePrice:       cost,
				}
			}
		}
	}

	if lowest == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrProductNotFound, ingredientName)
	}

	return lowest, nil
}
