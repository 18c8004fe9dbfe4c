package domain

import (
	"fmt"
	"math"
)

// UoMType is the physical dimension a unit of measure belongs to
type UoMType string

const (
	UoMTypeMass   UoMType = "mass"
	UoMTypeVolume UoMType = "volume"
	UoMTypeCount  UoMType = "count"
)

// UoMName names a concrete unit of measure
type UoMName string

const (
	// Mass
	UoMGrams      UoMName = "grams"
	UoMMilligrams UoMName = "milligrams"
	UoMKilograms  UoMName = "kilograms"
	UoMOunces     UoMName = "ounces"
	UoMPounds     UoMName = "pounds"

	// Volume
	UoMMillilitres UoMName = "millilitres"
	UoMLitres      UoMName = "litres"
	UoMTeaspoons   UoMName = "teaspoons"
	UoMTablespoons UoMName = "tablespoons"
	UoMCups        UoMName = "cups"

	// Count
	UoMWhole UoMName = "whole"
	UoMDozen UoMName = "dozen"
)

// unitsByType lists the valid unit names of every dimension
var unitsByType = map[UoMType][]UoMName{
	UoMTypeMass:   {UoMGrams, UoMMilligrams, UoMKilograms, UoMOunces, UoMPounds},
	UoMTypeVolume: {UoMMillilitres, UoMLitres, UoMTeaspoons, UoMTablespoons, UoMCups},
	UoMTypeCount:  {UoMWhole, UoMDozen},
}

// Valid reports whether t is a known dimension
func (t UoMType) Valid() bool {
	_, ok := unitsByType[t]
	return ok
}

// Units returns the unit names that belong to t
func (t UoMType) Units() []UoMName {
	names := unitsByType[t]
	out := make([]UoMName, len(names))
	copy(out, names)
	return out
}

// Type returns the dimension a unit name belongs to
func (n UoMName) Type() (UoMType, bool) {
	for t, names := range unitsByType {
		for _, name := range names {
			if name == n {
				return t, true
			}
		}
	}
	return "", false
}

// UnitOfMeasure is an amount of a physical quantity
type UnitOfMeasure struct {
	Amount float64 `json:"uomAmount" yaml:"uomAmount"`
	Name   UoMName `json:"uomName" yaml:"uomName"`
	Type   UoMType `json:"uomType" yaml:"uomType"`
}

// Validate checks that the amount is a non-negative number and that the
// unit name belongs to the unit type.
func (u UnitOfMeasure) Validate() error {
	if math.IsNaN(u.Amount) || math.IsInf(u.Amount, 0) || u.Amount < 0 {
		return fmt.Errorf("%w: amount %v must be a non-negative number", ErrInvalidUnit, u.Amount)
	}
	if !u.Type.Valid() {
		return fmt.Errorf("%w: unknown unit type %q", ErrInvalidUnit, u.Type)
	}
	if t, ok := u.Name.Type(); !ok || t != u.Type {
		return fmt.Errorf("%w: unit %q is not a %s unit", ErrInvalidUnit, u.Name, u.Type)
	}
	return nil
}

// SameUnit reports whether both values are expressed in the same unit
func (u UnitOfMeasure) SameUnit(other UnitOfMeasure) bool {
	return u.Name == other.Name && u.Type == other.Type
}

func (u UnitOfMeasure) String() string {
	return fmt.Sprintf("%g %s", u.Amount, u.Name)
}
