package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// NutrientFact states QuantityAmount of a nutrient per QuantityPer of product
type NutrientFact struct {
	NutrientName   string        `json:"nutrientName" yaml:"nutrientName"`
	QuantityAmount UnitOfMeasure `json:"quantityAmount" yaml:"quantityAmount"`
	QuantityPer    UnitOfMeasure `json:"quantityPer" yaml:"quantityPer"`
}

// Validate checks both quantities and that the per-quantity is positive
func (f NutrientFact) Validate() error {
	if f.NutrientName == "" {
		return fmt.Errorf("%w: missing nutrient name", ErrInvalidNutrientFact)
	}
	if err := f.QuantityAmount.Validate(); err != nil {
		return fmt.Errorf("%w: %s amount: %v", ErrInvalidNutrientFact, f.NutrientName, err)
	}
	if err := f.QuantityPer.Validate(); err != nil {
		return fmt.Errorf("%w: %s per: %v", ErrInvalidNutrientFact, f.NutrientName, err)
	}
	if f.QuantityPer.Amount <= 0 {
		return fmt.Errorf("%w: %s is declared per zero product", ErrInvalidNutrientFact, f.NutrientName)
	}
	return nil
}

// NutrientFacts is a set of nutrient facts kept sorted by nutrient name.
// It encodes to a JSON object whose keys appear in ascending order.
type NutrientFacts []NutrientFact

// NewNutrientFacts sorts facts by nutrient name
func NewNutrientFacts(facts []NutrientFact) NutrientFacts {
	out := make(NutrientFacts, len(facts))
	copy(out, facts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NutrientName < out[j].NutrientName
	})
	return out
}

// Names returns the nutrient names in order
func (n NutrientFacts) Names() []string {
	names := make([]string, len(n))
	for i, fact := range n {
		names[i] = fact.NutrientName
	}
	return names
}

// Get returns the fact for a nutrient name
func (n NutrientFacts) Get(name string) (NutrientFact, bool) {
	i := sort.Search(len(n), func(i int) bool { return n[i].NutrientName >= name })
	if i < len(n) && n[i].NutrientName == name {
		return n[i], true
	}
	return NutrientFact{}, false
}

// MarshalJSON writes the facts as an object keyed by nutrient name
func (n NutrientFacts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fact := range n {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(fact.NutrientName)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(fact)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keyed by nutrient name
func (n *NutrientFacts) UnmarshalJSON(data []byte) error {
	var byName map[string]NutrientFact
	if err := json.Unmarshal(data, &byName); err != nil {
		return err
	}
	facts := make([]NutrientFact, 0, len(byName))
	for name, fact := range byName {
		fact.NutrientName = name
		facts = append(facts, fact)
	}
	*n = NewNutrientFacts(facts)
	return nil
}
