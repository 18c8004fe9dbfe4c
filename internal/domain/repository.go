package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations.
// Values are serialized on Set and decoded into dest on Get.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogRepository looks up the products (with their supplier offers) that
// can be bought for an ingredient. Products are returned in catalog order.
type CatalogRepository interface {
	ProductsForIngredient(ctx context.Context, ingredientName string) ([]Product, error)
}

// RecipeRepository provides the recipes a batch run is computed for
type RecipeRepository interface {
	Recipes(ctx context.Context) ([]Recipe, error)
	RecipeByName(ctx context.Context, name string) (*Recipe, error)
}

// UnitTable is the static definition of units: the base unit per dimension,
// direct conversion factors, and the reference quantity nutrient facts are
// expressed against.
type UnitTable interface {
	BaseUnitOfMeasure(uomType UoMType) (UnitOfMeasure, error)
	ConversionFactor(from, to UoMName) (float64, error)
	ReferenceNutrientBase() UnitOfMeasure
}
