package usecase

import (
	"fmt"

	"github.com/recipecost/backend/internal/domain"
)

// NutrientNormalizer scales declared nutrient facts to consumed amounts and
// re-bases recipe totals onto the reference quantity.
type NutrientNormalizer struct {
	converter *UnitConverter
}

// NewNutrientNormalizer creates a normalizer using the given converter
func NewNutrientNormalizer(converter *UnitConverter) *NutrientNormalizer {
	return &NutrientNormalizer{converter: converter}
}

// RealNutrientsInConsumedAmount returns, per nutrient, the quantity contained
// in the consumed amount of product:
//
//	real = declaredAmount / declaredPerAmount * consumed (in the per unit)
//
// The result is expressed in the per-quantity's unit whenever the declared
// amount shares its dimension, otherwise in the declared amount's own unit.
func (n *NutrientNormalizer) RealNutrientsInConsumedAmount(
	consumed domain.UnitOfMeasure,
	facts []domain.NutrientFact,
) (map[string]domain.UnitOfMeasure, error) {
	contained := make(map[string]domain.UnitOfMeasure, len(facts))

	for _, fact := range facts {
		if err := fact.Validate(); err != nil {
			return nil, err
		}
		per := fact.QuantityPer

		convertedConsumed, err := n.converter.ConvertMulti(consumed, per.Name, per.Type)
		if err != nil {
			return nil, fmt.Errorf("nutrient %q: %w", fact.NutrientName, err)
		}

		declared := fact.QuantityAmount
		if declared.Type == per.Type {
			declared, err = n.converter.Convert(declared, per.Name, per.Type)
			if err != nil {
				return nil, fmt.Errorf("nutrient %q: %w", fact.NutrientName, err)
			}
		}

		contained[fact.NutrientName] = domain.UnitOfMeasure{
			Amount: declared.Amount / per.Amount * convertedConsumed.Amount,
			Name:   declared.Name,
			Type:   declared.Type,
		}
	}

	return contained, nil
}

// Accumulate merge-adds nutrients into acc. An amount joining an existing
// entry is first converted into that entry's unit; amounts of a different
// dimension are rejected rather than summed.
func (n *NutrientNormalizer) Accumulate(acc, nutrients map[string]domain.UnitOfMeasure) error {
	for _, name := range SortedKeys(nutrients) {
		amount := nutrients[name]

		existing, ok := acc[name]
		if !ok {
			acc[name] = amount
			continue
		}
		if existing.Type != amount.Type {
			return fmt.Errorf("%w: %q reported as %s and %s",
				domain.ErrIncompatibleNutrientUnits, name, existing.Type, amount.Type)
		}

		converted, err := n.converter.Convert(amount, existing.Name, existing.Type)
		if err != nil {
			return fmt.Errorf("nutrient %q: %w", name, err)
		}
		existing.Amount += converted.Amount
		acc[name] = existing
	}
	return nil
}

// TotalNutrientFacts expresses summed nutrients per reference quantity of the
// recipe: summed / totalQuantity * reference.Amount. Every returned fact has
// QuantityPer equal to reference. A zero total yields zero amounts.
func (n *NutrientNormalizer) TotalNutrientFacts(
	summed map[string]domain.UnitOfMeasure,
	totalQuantity domain.UnitOfMeasure,
	reference domain.UnitOfMeasure,
) (domain.NutrientFacts, error) {
	convertedTotal, err := n.converter.ConvertMulti(totalQuantity, reference.Name, reference.Type)
	if err != nil {
		return nil, fmt.Errorf("recipe total: %w", err)
	}

	facts := make([]domain.NutrientFact, 0, len(summed))
	for _, name := range SortedKeys(summed) {
		amount := summed[name]

		value := 0.0
		if convertedTotal.Amount > 0 {
			value = amount.Amount / convertedTotal.Amount * reference.Amount
		}

		facts = append(facts, domain.NutrientFact{
			NutrientName: name,
			QuantityAmount: domain.UnitOfMeasure{
				Amount: value,
				Name:   amount.Name,
				Type:   amount.Type,
			},
			QuantityPer: reference,
		})
	}

	return domain.NewNutrientFacts(facts), nil
}
