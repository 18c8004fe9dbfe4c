// Package units holds the static unit definitions used by the converter.
package units

import (
	"fmt"

	"github.com/recipecost/backend/internal/domain"
)

// Amount of the dimension's base unit in one unit.
// Mass base: grams. Volume base: millilitres. Count base: whole.
var toBase = map[domain.UoMName]float64{
	domain.UoMGrams:      1,
	domain.UoMMilligrams: 0.001,
	domain.UoMKilograms:  1000,
	domain.UoMOunces:     28.349523125,
	domain.UoMPounds:     453.59237,

	domain.UoMMillilitres: 1,
	domain.UoMLitres:      1000,
	domain.UoMTeaspoons:   4.92892159375,
	domain.UoMTablespoons: 14.78676478125,
	domain.UoMCups:        236.5882365,

	domain.UoMWhole: 1,
	domain.UoMDozen: 12,
}

var baseUnits = map[domain.UoMType]domain.UoMName{
	domain.UoMTypeMass:   domain.UoMGrams,
	domain.UoMTypeVolume: domain.UoMMillilitres,
	domain.UoMTypeCount:  domain.UoMWhole,
}

// DefaultReference is the quantity nutrient facts are expressed against
var DefaultReference = domain.UnitOfMeasure{Amount: 100, Name: domain.UoMGrams, Type: domain.UoMTypeMass}

// Table implements domain.UnitTable over the standard unit set
type Table struct {
	reference domain.UnitOfMeasure
}

// NewTable creates a unit table with the given nutrient reference quantity
func NewTable(reference domain.UnitOfMeasure) (*Table, error) {
	if err := reference.Validate(); err != nil {
		return nil, fmt.Errorf("nutrient reference: %w", err)
	}
	if reference.Amount <= 0 {
		return nil, fmt.Errorf("%w: nutrient reference amount must be positive", domain.ErrInvalidUnit)
	}
	return &Table{reference: reference}, nil
}

// NewStandardTable creates a unit table referencing nutrients per 100 grams
func NewStandardTable() *Table {
	return &Table{reference: DefaultReference}
}

// BaseUnitOfMeasure returns one base unit of the dimension
func (t *Table) BaseUnitOfMeasure(uomType domain.UoMType) (domain.UnitOfMeasure, error) {
	name, ok := baseUnits[uomType]
	if !ok {
		return domain.UnitOfMeasure{}, fmt.Errorf("%w: no base unit for type %q", domain.ErrUnsupportedConversion, uomType)
	}
	return domain.UnitOfMeasure{Amount: 1, Name: name, Type: uomType}, nil
}

// ConversionFactor returns f such that amount(from) * f = amount(to).
// Only units of the same dimension have a factor.
func (t *Table) ConversionFactor(from, to domain.UoMName) (float64, error) {
	fromType, okFrom := from.Type()
	toType, okTo := to.Type()
	if !okFrom || !okTo || fromType != toType {
		return 0, fmt.Errorf("%w: %s to %s", domain.ErrUnsupportedConversion, from, to)
	}
	if from == to {
		return 1, nil
	}
	return toBase[from] / toBase[to], nil
}

// ReferenceNutrientBase returns the fixed nutrient fact denominator
func (t *Table) ReferenceNutrientBase() domain.UnitOfMeasure {
	return t.reference
}
