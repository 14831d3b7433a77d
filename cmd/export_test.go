package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silvatech/forestctl/internal/model"
	"github.com/silvatech/forestctl/internal/snapshot"
	"github.com/silvatech/forestctl/internal/store"
)

func newExportTestStore(t *testing.T) (*store.SQLiteStore, string) {
	t.Helper()

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() })

	id, err := st.CreateProject(context.Background(), &model.Project{Name: "Bosco Export"})
	require.NoError(t, err)
	_, err = st.AddSampleTree(context.Background(), id, &model.SampleTree{
		Area: model.Area1, Species: "pino-domestico", DiameterClass: 25, Height: 14,
	})
	require.NoError(t, err)

	return st, id
}

func TestExportFileName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "bosco-nord.json", exportFileName("Bosco Nord", "json"))
	assert.Equal(t, "pino-daleppo.csv", exportFileName("Pino d'Aleppo", "csv"))
	assert.Equal(t, "project.xlsx", exportFileName("***", "xlsx"))
}

func TestValidExportFormat(t *testing.T) {
	t.Parallel()

	for _, format := range []string{"json", "csv", "xlsx", "shp"} {
		assert.True(t, validExportFormat(format), format)
	}
	assert.False(t, validExportFormat("pdf"))
}

func TestExportOneJSON(t *testing.T) {
	t.Parallel()
	st, id := newExportTestStore(t)
	dir := t.TempDir()

	path, err := exportOne(context.Background(), st, id, "Bosco Export", "json", dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "bosco-export.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	doc, err := snapshot.Decode(data)
	require.NoError(t, err)
	assert.Len(t, doc.SampleTrees, 1)
}

func TestExportOneCSV(t *testing.T) {
	t.Parallel()
	st, id := newExportTestStore(t)
	dir := t.TempDir()

	path, err := exportOne(context.Background(), st, id, "Bosco Export", "csv", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Bosco Export")
}

func TestExportAll(t *testing.T) {
	t.Parallel()
	st, _ := newExportTestStore(t)
	ctx := context.Background()

	_, err := st.CreateProject(ctx, &model.Project{Name: "Second Stand"})
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, exportAll(ctx, st, "json", dir))

	for _, name := range []string{"bosco-export.json", "second-stand.json"} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}
}
