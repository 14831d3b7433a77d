package model

import (
	"math"

	"github.com/rotisserie/eris"
)

// Measurement bounds enforced at the input boundary, not by the store.
const (
	MaxHeightM = 50.0

	// StandardClassStep is the width of a standard diameter class in cm.
	StandardClassStep = 5

	// MaxStandardClass is the largest diameter served by the standard
	// class enumeration; larger trees go through the custom-diameter path.
	MaxStandardClass = 60
)

// DiameterBounds constrains custom (non-standard) diameter entries.
// The defaults mirror the legacy capture form; they are configuration,
// not a domain invariant.
type DiameterBounds struct {
	Min int // exclusive
	Max int // inclusive
}

// DefaultDiameterBounds matches the legacy custom-diameter form.
func DefaultDiameterBounds() DiameterBounds {
	return DiameterBounds{Min: MaxStandardClass, Max: 200}
}

// RoundToClass snaps a measured diameter to the nearest standard class.
func RoundToClass(diameterCm float64) int {
	class := int(math.Round(diameterCm/StandardClassStep)) * StandardClassStep
	if class < StandardClassStep {
		class = StandardClassStep
	}
	return class
}

// ValidateHeight checks a measured or default height in meters.
func ValidateHeight(h float64) error {
	if h <= 0 || h > MaxHeightM {
		return eris.Errorf("height %.2f m out of range (0, %.0f]", h, MaxHeightM)
	}
	return nil
}

// ValidateFormFactor checks a species form factor.
func ValidateFormFactor(f float64) error {
	if f <= 0 || f > 1 {
		return eris.Errorf("form factor %.3f out of range (0, 1]", f)
	}
	return nil
}

// ValidateDiameter checks a diameter class. Standard classes pass as-is;
// anything beyond the standard enumeration must fall inside the custom
// bounds.
func ValidateDiameter(class int, bounds DiameterBounds) error {
	if class <= 0 {
		return eris.Errorf("diameter class %d must be positive", class)
	}
	if class <= MaxStandardClass {
		return nil
	}
	if class <= bounds.Min || class > bounds.Max {
		return eris.Errorf("custom diameter %d cm out of range (%d, %d]", class, bounds.Min, bounds.Max)
	}
	return nil
}

// ValidateSpecies checks a full species definition.
func ValidateSpecies(def SpeciesDefinition) error {
	if def.Name == "" {
		return eris.New("species name is required")
	}
	if err := ValidateFormFactor(def.FormFactor); err != nil {
		return err
	}
	if def.DefaultHeight != 0 {
		if err := ValidateHeight(def.DefaultHeight); err != nil {
			return eris.Wrap(err, "default height")
		}
	}
	return nil
}
