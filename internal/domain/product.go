package domain

import "fmt"

// SupplierProduct is one supplier's offer for a product: a package size at a price
type SupplierProduct struct {
	SupplierName        string        `json:"supplierName" yaml:"supplierName"`
	SupplierProductName string        `json:"supplierProductName" yaml:"supplierProductName"`
	SupplierPrice       float64       `json:"supplierPrice" yaml:"supplierPrice"`
	SupplierProductUoM  UnitOfMeasure `json:"supplierProductUoM" yaml:"supplierProductUoM"`
}

// Validate checks the price and package size of the offer
func (s SupplierProduct) Validate() error {
	if s.SupplierPrice < 0 {
		return fmt.Errorf("%w: %s price %v is negative", ErrInvalidSupplierProduct, s.SupplierName, s.SupplierPrice)
	}
	if err := s.SupplierProductUoM.Validate(); err != nil {
		return fmt.Errorf("%w: %s package: %v", ErrInvalidSupplierProduct, s.SupplierName, err)
	}
	if s.SupplierProductUoM.Amount == 0 {
		return fmt.Errorf("%w: %s sells an empty package", ErrInvalidSupplierProduct, s.SupplierName)
	}
	return nil
}

// Product is a sellable good matching an ingredient
type Product struct {
	ProductName      string            `json:"productName" yaml:"productName"`
	NutrientFacts    []NutrientFact    `json:"nutrientFacts" yaml:"nutrientFacts"`
	SupplierProducts []SupplierProduct `json:"supplierProducts" yaml:"supplierProducts"`
}

// Validate checks every nutrient fact and supplier offer of the product
func (p Product) Validate() error {
	if p.ProductName == "" {
		return fmt.Errorf("%w: product without a name", ErrInvalidRequest)
	}
	for _, fact := range p.NutrientFacts {
		if err := fact.Validate(); err != nil {
			return fmt.Errorf("product %q: %w", p.ProductName, err)
		}
	}
	for _, offer := range p.SupplierProducts {
		if err := offer.Validate(); err != nil {
			return fmt.Errorf("product %q: %w", p.ProductName, err)
		}
	}
	return nil
}

// LowestCostProduct is the cheapest supplier offer found for an ingredient.
// BasePrice is the cost of one base unit of the offer's dimension.
type LowestCostProduct struct {
	ProductName     string          `json:"productName"`
	NutrientFacts   []NutrientFact  `json:"nutrientFacts"`
	SupplierProduct SupplierProduct `json:"supplierProduct"`
	BasePrice       float64         `json:"basePrice"`
}
