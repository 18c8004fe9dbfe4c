package catalogapi

import (
	"fmt"
	"strings"

	"github.com/recipecost/backend/internal/domain"
)

// productsResponse is the body of GET /v1/ingredients/{name}/products
type productsResponse struct {
	Ingredient string       `json:"ingredient"`
	Products   []productDTO `json:"products"`
}

type productDTO struct {
	Name      string        `json:"name"`
	Nutrients []nutrientDTO `json:"nutrients"`
	Offers    []offerDTO    `json:"offers"`
}

// nutrientDTO states Amount Unit of a nutrient per Per PerUnit of product
type nutrientDTO struct {
	Name    string  `json:"name"`
	Amount  float64 `json:"amount"`
	Unit    string  `json:"unit"`
	Per     float64 `json:"per"`
	PerUnit string  `json:"perUnit"`
}

type offerDTO struct {
	Supplier    string  `json:"supplier"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Size        float64 `json:"size"`
	Unit        string  `json:"unit"`
}

// unitAliases maps the unit spellings the API uses to unit names
var unitAliases = map[string]domain.UoMName{
	"g": domain.UoMGrams, "gram": domain.UoMGrams, "grams": domain.UoMGrams,
	"mg": domain.UoMMilligrams, "milligram": domain.UoMMilligrams, "milligrams": domain.UoMMilligrams,
	"kg": domain.UoMKilograms, "kilogram": domain.UoMKilograms, "kilograms": domain.UoMKilograms,
	"oz": domain.UoMOunces, "ounce": domain.UoMOunces, "ounces": domain.UoMOunces,
	"lb": domain.UoMPounds, "lbs": domain.UoMPounds, "pound": domain.UoMPounds, "pounds": domain.UoMPounds,
	"ml": domain.UoMMillilitres, "millilitre": domain.UoMMillilitres, "millilitres": domain.UoMMillilitres,
	"milliliter": domain.UoMMillilitres, "milliliters": domain.UoMMillilitres,
	"l": domain.UoMLitres, "litre": domain.UoMLitres, "litres": domain.UoMLitres,
	"liter": domain.UoMLitres, "liters": domain.UoMLitres,
	"tsp": domain.UoMTeaspoons, "teaspoon": domain.UoMTeaspoons, "teaspoons": domain.UoMTeaspoons,
	"tbsp": domain.UoMTablespoons, "tablespoon": domain.UoMTablespoons, "tablespoons": domain.UoMTablespoons,
	"cup": domain.UoMCups, "cups": domain.UoMCups,
	"ea": domain.UoMWhole, "each": domain.UoMWhole, "whole": domain.UoMWhole, "unit": domain.UoMWhole,
	"doz": domain.UoMDozen, "dozen": domain.UoMDozen,
}

// ParseUnit turns an amount and unit spelling into a unit of measure
func ParseUnit(amount float64, unit string) (domain.UnitOfMeasure, error) {
	name, ok := unitAliases[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return domain.UnitOfMeasure{}, fmt.Errorf("%w: unknown unit %q", domain.ErrInvalidUnit, unit)
	}
	uomType, _ := name.Type()

	uom := domain.UnitOfMeasure{Amount: amount, Name: name, Type: uomType}
	if err := uom.Validate(); err != nil {
		return domain.UnitOfMeasure{}, err
	}
	return uom, nil
}

// MapProducts converts API products to domain products, preserving order
func MapProducts(resp *productsResponse) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(resp.Products))
	for _, dto := range resp.Products {
		product, err := mapProduct(dto)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, nil
}

func mapProduct(dto productDTO) (domain.Product, error) {
	product := domain.Product{ProductName: dto.Name}

	for _, n := range dto.Nutrients {
		amount, err := ParseUnit(n.Amount, n.Unit)
		if err != nil {
			return domain.Product{}, fmt.Errorf("product %q nutrient %q: %w", dto.Name, n.Name, err)
		}
		per, err := ParseUnit(n.Per, n.PerUnit)
		if err != nil {
			return domain.Product{}, fmt.Errorf("product %q nutrient %q: %w", dto.Name, n.Name, err)
		}
		product.NutrientFacts = append(product.NutrientFacts, domain.NutrientFact{
			NutrientName:   n.Name,
			QuantityAmount: amount,
			QuantityPer:    per,
		})
	}

	for _, o := range dto.Offers {
		size, err := ParseUnit(o.Size, o.Unit)
		if err != nil {
			return domain.Product{}, fmt.Errorf("product %q offer %q: %w", dto.Name, o.Supplier, err)
		}
		product.SupplierProducts = append(product.SupplierProducts, domain.SupplierProduct{
			SupplierName:        o.Supplier,
			SupplierProductName: o.ProductName,
			SupplierPrice:       o.Price,
			SupplierProductUoM:  size,
		})
	}

	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}
	return product, nil
}
