package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundToClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want int
	}{
		{12.4, 10},
		{12.5, 15},
		{28.0, 30},
		{27.4, 25},
		{1.0, 5}, // never below the smallest class
		{60.0, 60},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundToClass(tt.in), "RoundToClass(%v)", tt.in)
	}
}

func TestValidateDiameter(t *testing.T) {
	t.Parallel()
	bounds := DefaultDiameterBounds()

	tests := []struct {
		name    string
		class   int
		wantErr bool
	}{
		{name: "standard class", class: 25, wantErr: false},
		{name: "largest standard", class: 60, wantErr: false},
		{name: "custom in range", class: 85, wantErr: false},
		{name: "custom at cap", class: 200, wantErr: false},
		{name: "custom beyond cap", class: 201, wantErr: true},
		{name: "zero", class: 0, wantErr: true},
		{name: "negative", class: -10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDiameter(tt.class, bounds)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateHeightAndFormFactor(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateHeight(12.5))
	assert.NoError(t, ValidateHeight(50))
	assert.Error(t, ValidateHeight(0))
	assert.Error(t, ValidateHeight(50.1))
	assert.Error(t, ValidateHeight(-3))

	assert.NoError(t, ValidateFormFactor(0.45))
	assert.NoError(t, ValidateFormFactor(1))
	assert.Error(t, ValidateFormFactor(0))
	assert.Error(t, ValidateFormFactor(1.01))
}

func TestValidateSpecies(t *testing.T) {
	t.Parallel()

	ok := SpeciesDefinition{ID: "abete", Name: "Abete", FormFactor: 0.5, DefaultHeight: 18}
	assert.NoError(t, ValidateSpecies(ok))

	assert.Error(t, ValidateSpecies(SpeciesDefinition{Name: "", FormFactor: 0.5}))
	assert.Error(t, ValidateSpecies(SpeciesDefinition{Name: "X", FormFactor: 1.2}))
	assert.Error(t, ValidateSpecies(SpeciesDefinition{Name: "X", FormFactor: 0.5, DefaultHeight: 80}))
}
