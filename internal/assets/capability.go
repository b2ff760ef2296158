package assets

import "fmt"

// Buildable is attached to anything the player can construct and tear down.
type Buildable struct {
	BuildCost       int `yaml:"build_cost"`
	DestructionCost int `yaml:"destruction_cost"`
}

// Purchaseable is attached to anything with a shop price.
type Purchaseable struct {
	BaseValue int `yaml:"base_value"`
}

// StructureType is a placeable world object. It carries whichever
// capabilities apply; a nil capability means the object lacks it.
type StructureType struct {
	ID    string
	Name  string
	Build *Buildable
	Price *Purchaseable
}

// Validate checks that costs and values are non-negative.
func (s StructureType) Validate() error {
	if s.Build != nil {
		if s.Build.BuildCost < 0 {
			return &ConfigurationError{Asset: s.ID, Field: "build", Reason: fmt.Sprintf("negative build cost %d", s.Build.BuildCost)}
		}
		if s.Build.DestructionCost < 0 {
			return &ConfigurationError{Asset: s.ID, Field: "build", Reason: fmt.Sprintf("negative destruction cost %d", s.Build.DestructionCost)}
		}
	}
	if s.Price != nil && s.Price.BaseValue < 0 {
		return &ConfigurationError{Asset: s.ID, Field: "purchase", Reason: fmt.Sprintf("negative base value %d", s.Price.BaseValue)}
	}
	return nil
}

// IsBuildable reports whether the structure has build costs.
func (s StructureType) IsBuildable() bool {
	return s.Build != nil
}

// IsPurchaseable reports whether the structure has a price.
func (s StructureType) IsPurchaseable() bool {
	return s.Price != nil
}

// RefundValue is what removing the structure returns: its base value minus
// the destruction cost, never below zero. Structures without a price refund
// nothing.
func (s StructureType) RefundValue() int {
	if s.Price == nil {
		return 0
	}
	v := s.Price.BaseValue
	if s.Build != nil {
		v -= s.Build.DestructionCost
	}
	if v < 0 {
		return 0
	}
	return v
}

// clone copies the capability structs so the catalog's copy stays private.
func (s StructureType) clone() StructureType {
	if s.Build != nil {
		b := *s.Build
		s.Build = &b
	}
	if s.Price != nil {
		p := *s.Price
		s.Price = &p
	}
	return s
}
