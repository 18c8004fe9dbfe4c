package usecase

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/recipecost/backend/internal/domain"
	"github.com/recipecost/backend/internal/infrastructure/units"
)

// mockCatalog serves products keyed by lowercase ingredient name and counts lookups
type mockCatalog struct {
	products map[string][]domain.Product
	err      error
	calls    map[string]int
}

func newMockCatalog(products map[string][]domain.Product) *mockCatalog {
	return &mockCatalog{products: products, calls: make(map[string]int)}
}

func (m *mockCatalog) ProductsForIngredient(ctx context.Context, ingredientName string) ([]domain.Product, error) {
	m.calls[ingredientName]++
	if m.err != nil {
		return nil, m.err
	}
	products, ok := m.products[strings.ToLower(ingredientName)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrProductNotFound, ingredientName)
	}
	return products, nil
}

// mockRecipes serves a fixed recipe list
type mockRecipes struct {
	recipes []domain.Recipe
	err     error
}

func (m *mockRecipes) Recipes(ctx context.Context) ([]domain.Recipe, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.recipes, nil
}

func (m *mockRecipes) RecipeByName(ctx context.Context, name string) (*domain.Recipe, error) {
	for _, recipe := range m.recipes {
		if strings.EqualFold(recipe.RecipeName, name) {
			r := recipe
			return &r, nil
		}
	}
	return nil, domain.ErrRecipeNotFound
}

// mockCache stores msgpack-encoded values in a map
type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	setErr  error
	getHits int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	if !ok {
		return domain.ErrCacheMiss
	}
	m.getHits++
	return msgpack.Unmarshal(data, dest)
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	data, err := msgpack.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = data
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *mockCache) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func grams(amount float64) domain.UnitOfMeasure {
	return domain.UnitOfMeasure{Amount: amount, Name: domain.UoMGrams, Type: domain.UoMTypeMass}
}

func uom(amount float64, name domain.UoMName, uomType domain.UoMType) domain.UnitOfMeasure {
	return domain.UnitOfMeasure{Amount: amount, Name: name, Type: uomType}
}

func per100g(name string, amount float64) domain.NutrientFact {
	return domain.NutrientFact{NutrientName: name, QuantityAmount: grams(amount), QuantityPer: grams(100)}
}

func offer(supplier string, price float64, size domain.UnitOfMeasure) domain.SupplierProduct {
	return domain.SupplierProduct{
		SupplierName:        supplier,
		SupplierProductName: supplier + " pack",
		SupplierPrice:       price,
		SupplierProductUoM:  size,
	}
}

func lineItem(ingredient string, quantity domain.UnitOfMeasure) domain.LineItem {
	return domain.LineItem{Ingredient: domain.Ingredient{IngredientName: ingredient}, UnitOfMeasure: quantity}
}

func newTestConverter() *UnitConverter {
	return NewUnitConverter(units.NewStandardTable(), DefaultBridgeRules())
}

// bakeryCatalog holds flour (cheapest at $2/kg) and sugar ($1/kg)
func bakeryCatalog() *mockCatalog {
	return newMockCatalog(map[string][]domain.Product{
		"flour": {{
			ProductName:   "Flour",
			NutrientFacts: []domain.NutrientFact{per100g("Protein", 10), per100g("Carbohydrates", 75)},
			SupplierProducts: []domain.SupplierProduct{
				offer("Bulk Mill", 2, grams(1000)),
				offer("Corner Store", 0.005, grams(1)),
			},
		}},
		"sugar": {{
			ProductName:      "Sugar",
			NutrientFacts:    []domain.NutrientFact{per100g("Carbohydrates", 100)},
			SupplierProducts: []domain.SupplierProduct{offer("Sweet Co", 1, uom(1, domain.UoMKilograms, domain.UoMTypeMass))},
		}},
	})
}

func sweetBread() domain.Recipe {
	return domain.Recipe{
		RecipeName: "Sweet Bread",
		LineItems: []domain.LineItem{
			lineItem("Flour", uom(2, domain.UoMCups, domain.UoMTypeVolume)),
			lineItem("Sugar", grams(50)),
		},
	}
}
