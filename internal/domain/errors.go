package domain

import "errors"

var (
	// ErrUnsupportedConversion is returned when no factor or bridge rule exists between two units
	ErrUnsupportedConversion = errors.New("unsupported unit conversion")

	// ErrSupplierNotFound is returned when no supplier offer exists for a recipe ingredient
	ErrSupplierNotFound = errors.New("could not find supplier for ingredient")

	// ErrProductNotFound is returned when the catalog has no product matching an ingredient
	ErrProductNotFound = errors.New("product not found in catalog")

	// ErrRecipeNotFound is returned when a recipe name is unknown
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrInvalidUnit is returned when a unit of measure violates its invariants
	ErrInvalidUnit = errors.New("invalid unit of measure")

	// ErrInvalidNutrientFact is returned when a nutrient fact cannot be scaled
	ErrInvalidNutrientFact = errors.New("invalid nutrient fact")

	// ErrInvalidSupplierProduct is returned when a supplier offer cannot be priced
	ErrInvalidSupplierProduct = errors.New("invalid supplier product")

	// ErrIncompatibleNutrientUnits is returned when the same nutrient is reported in different dimensions
	ErrIncompatibleNutrientUnits = errors.New("incompatible nutrient units")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCacheUnavailable is returned when cache service is unavailable
	ErrCacheUnavailable = errors.New("cache service unavailable")

	// ErrCatalogAPIFailure is returned when a remote catalog request fails
	ErrCatalogAPIFailure = errors.New("catalog API request failed")
)
