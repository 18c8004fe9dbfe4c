package usecase

import (
	"fmt"

	"github.com/recipecost/backend/internal/domain"
)

// BridgeRule converts From into To across dimensions by first converting to
// Via (same dimension as From) and then applying Density units of To per one
// Via unit.
type BridgeRule struct {
	From    domain.UoMName
	To      domain.UoMName
	Via     domain.UoMName
	Density float64
}

type bridgeKey struct {
	from domain.UoMName
	to   domain.UoMName
}

// DefaultBridgeRules returns the only cross-dimension path supported:
// cups -> millilitres -> grams at 1 g/ml.
func DefaultBridgeRules() []BridgeRule {
	return []BridgeRule{
		{From: domain.UoMCups, To: domain.UoMGrams, Via: domain.UoMMillilitres, Density: 1},
	}
}

// UnitConverter converts quantities using a unit table plus explicit bridge rules
type UnitConverter struct {
	table   domain.UnitTable
	bridges map[bridgeKey]BridgeRule
}

// NewUnitConverter creates a converter over the given table and bridge rules
func NewUnitConverter(table domain.UnitTable, rules []BridgeRule) *UnitConverter {
	bridges := make(map[bridgeKey]BridgeRule, len(rules))
	for _, rule := range rules {
		bridges[bridgeKey{from: rule.From, to: rule.To}] = rule
	}
	return &UnitConverter{
		table:   table,
		bridges: bridges,
	}
}

// Convert converts q into toName within the same dimension.
// Converting to the unit q already has returns q unchanged.
func (c *UnitConverter) Convert(q domain.UnitOfMeasure, toName domain.UoMName, toType domain.UoMType) (domain.UnitOfMeasure, error) {
	if err := q.Validate(); err != nil {
		return domain.UnitOfMeasure{}, err
	}
	if q.Name == toName && q.Type == toType {
		return q, nil
	}
	if q.Type != toType {
		return domain.UnitOfMeasure{}, fmt.Errorf("%w: %s (%s) to %s (%s)",
			domain.ErrUnsupportedConversion, q.Name, q.Type, toName, toType)
	}
	if t, ok := toName.Type(); !ok || t != toType {
		return domain.UnitOfMeasure{}, fmt.Errorf("%w: %q is not a %s unit",
			domain.ErrUnsupportedConversion, toName, toType)
	}

	factor, err := c.table.ConversionFactor(q.Name, toName)
	if err != nil {
		return domain.UnitOfMeasure{}, err
	}

	return domain.UnitOfMeasure{
		Amount: q.Amount * factor,
		Name:   toName,
		Type:   toType,
	}, nil
}

// ConvertMulti is Convert plus the bridge rules. A rule for (q.Name, toName)
// converts q to the rule's intermediate unit, applies the density and then
// finishes with Convert. Pairs without a rule behave exactly like Convert.
func (c *UnitConverter) ConvertMulti(q domain.UnitOfMeasure, toName domain.UoMName, toType domain.UoMType) (domain.UnitOfMeasure, error) {
	rule, ok := c.bridges[bridgeKey{from: q.Name, to: toName}]
	if !ok {
		return c.Convert(q, toName, toType)
	}

	viaType, ok := rule.Via.Type()
	if !ok {
		return domain.UnitOfMeasure{}, fmt.Errorf("%w: bridge %s -> %s uses unknown unit %q",
			domain.ErrUnsupportedConversion, rule.From, rule.To, rule.Via)
	}
	landType, ok := rule.To.Type()
	if !ok {
		return domain.UnitOfMeasure{}, fmt.Errorf("%w: bridge target %q is unknown",
			domain.ErrUnsupportedConversion, rule.To)
	}

	via, err := c.Convert(q, rule.Via, viaType)
	if err != nil {
		return domain.UnitOfMeasure{}, err
	}

	bridged := domain.UnitOfMeasure{
		Amount: via.Amount * rule.Density,
		Name:   rule.To,
		Type:   landType,
	}
	return c.Convert(bridged, toName, toType)
}

// ConvertRealCostByBasePrice prices a consumed quantity: the quantity is
// converted to its dimension's base unit and multiplied by basePrice.
func (c *UnitConverter) ConvertRealCostByBasePrice(quantity domain.UnitOfMeasure, basePrice float64) (float64, error) {
	base, err := c.table.BaseUnitOfMeasure(quantity.Type)
	if err != nil {
		return 0, err
	}

	converted, err := c.Convert(quantity, base.Name, base.Type)
	if err != nil {
		return 0, err
	}

	return basePrice * converted.Amount, nil
}

// CostPerBaseUnit normalizes an offer's price by its package size in base units
func (c *UnitConverter) CostPerBaseUnit(offer domain.SupplierProduct) (float64, error) {
	if err := offer.Validate(); err != nil {
		return 0, err
	}

	pkg := offer.SupplierProductUoM
	base, err := c.table.BaseUnitOfMeasure(pkg.Type)
	if err != nil {
		return 0, err
	}

	converted, err := c.Convert(pkg, base.Name, base.Type)
	if err != nil {
		return 0, err
	}
	if converted.Amount <= 0 {
		return 0, fmt.Errorf("%w: %s package has no size", domain.ErrInvalidSupplierProduct, offer.SupplierName)
	}

	return offer.SupplierPrice / converted.Amount * base.Amount, nil
}

// Sum adds b to a, expressed in a's unit
func (c *UnitConverter) Sum(a, b domain.UnitOfMeasure) (domain.UnitOfMeasure, error) {
	converted, err := c.ConvertMulti(b, a.Name, a.Type)
	if err != nil {
		return domain.UnitOfMeasure{}, err
	}

	return domain.UnitOfMeasure{
		Amount: a.Amount + converted.Amount,
		Name:   a.Name,
		Type:   a.Type,
	}, nil
}
