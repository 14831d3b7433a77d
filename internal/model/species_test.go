package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeciesID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Cipresso Comune", want: "cipresso-comune"},
		{name: "apostrophe dropped", in: "Pino d'Aleppo", want: "pino-daleppo"},
		{name: "curly apostrophe", in: "Pino d’Aleppo", want: "pino-daleppo"},
		{name: "diacritics stripped", in: "Abete Però", want: "abete-pero"},
		{name: "punctuation collapses", in: "Quercia  (rossa)", want: "quercia-rossa"},
		{name: "trailing junk trimmed", in: "Larice...", want: "larice"},
		{name: "digits kept", in: "Clone X1", want: "clone-x1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SpeciesID(tt.in))
		})
	}
}

func TestDefaultCatalog(t *testing.T) {
	t.Parallel()
	catalog := DefaultCatalog()

	require.Len(t, catalog, 5)
	for id, def := range catalog {
		assert.Equal(t, SpeciesID(def.Name), id)
		assert.NoError(t, ValidateSpecies(def))
	}

	pine, ok := catalog.Resolve("pino-domestico")
	require.True(t, ok)
	assert.InDelta(t, 0.45, pine.FormFactor, 1e-9)

	_, ok = catalog.Resolve("sequoia")
	assert.False(t, ok)
}

func TestCatalogClone(t *testing.T) {
	t.Parallel()
	catalog := DefaultCatalog()
	clone := catalog.Clone()

	clone["altro"] = SpeciesDefinition{ID: "altro", Name: "Altro", FormFactor: 0.9}
	assert.InDelta(t, 0.45, catalog["altro"].FormFactor, 1e-9)
}
