package elements

import (
	"fmt"
	"slices"
)

// FeatureRoles is the column partition produced once per training fit.
// It is immutable after classification; every downstream stage receives
// it read-only.
type FeatureRoles struct {
	Nominal      []string `json:"nominal"`
	Ordinal      []string `json:"ordinal"`
	Continuous   []string `json:"continuous"`
	MissingProne []string `json:"missingProne"`
}

func (obj *FeatureRoles) IsValid() error {
	seen := make(map[string]bool)
	for _, group := range [][]string{obj.Nominal, obj.Ordinal, obj.Continuous, obj.MissingProne} {
		for _, name := range group {
			if name == "" {
				return fmt.Errorf("%w| empty column name", ErrFeatureRolesInvalid)
			}
			if seen[name] {
				return fmt.Errorf("%w| column %s assigned to multiple roles", ErrFeatureRolesInvalid, name)
			}
			seen[name] = true
		}
	}
	return nil
}

// Claimed reports whether the column belongs to any of the four groups.
// Unclaimed columns pass through the assembly stage unchanged.
func (obj *FeatureRoles) Claimed(name string) bool {
	return slices.Contains(obj.Nominal, name) ||
		slices.Contains(obj.Ordinal, name) ||
		slices.Contains(obj.Continuous, name) ||
		slices.Contains(obj.MissingProne, name)
}
