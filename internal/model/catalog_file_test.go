package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeedFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "species.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalogFile(t *testing.T) {
	t.Parallel()

	path := writeSeedFile(t, `
species:
  - name: Pino Domestico
    icon: "🌲"
    form_factor: 0.45
    default_height: 14
  - name: Cipresso Comune
    form_factor: 0.48
`)

	catalog, err := LoadCatalogFile(path)
	require.NoError(t, err)
	require.Len(t, catalog, 2)

	pine, ok := catalog.Resolve("pino-domestico")
	require.True(t, ok)
	assert.InDelta(t, 14, pine.DefaultHeight, 1e-9)
	assert.Equal(t, "🌲", pine.Icon)

	cypress, ok := catalog.Resolve("cipresso-comune")
	require.True(t, ok)
	assert.Zero(t, cypress.DefaultHeight)
}

func TestLoadCatalogFile_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "empty list", content: "species: []"},
		{name: "bad form factor", content: "species:\n  - name: X\n    form_factor: 1.5"},
		{name: "duplicate id", content: "species:\n  - name: Pino\n    form_factor: 0.4\n  - name: pino\n    form_factor: 0.5"},
		{name: "not yaml", content: "{{{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalogFile(writeSeedFile(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadCatalogFile_Missing(t *testing.T) {
	t.Parallel()
	_, err := LoadCatalogFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
