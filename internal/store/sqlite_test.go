package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silvatech/forestctl/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestProject(t *testing.T, s *SQLiteStore) string {
	t.Helper()

	id, err := s.CreateProject(context.Background(), &model.Project{Name: "Bosco Test"})
	require.NoError(t, err)
	return id
}

func TestCreateProject_Defaults(t *testing.T) {
	t.Parallel()
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	id, err := s.CreateProject(ctx, &model.Project{Name: "Bosco Nord"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	project, err := s.GetProject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Bosco Nord", project.Name)
	assert.Equal(t, model.DefaultInventoryAreaHa, project.InventoryAreaHa)
	assert.Equal(t, model.ProjectActive, project.Status)
	assert.Len(t, project.SpeciesCatalog, len(model.DefaultCatalog()))
	assert.False(t, project.CreatedAt.IsZero())
}

func TestCreateProject_RequiresName(t *testing.T) {
	t.Parallel()
	s := newTestSQLiteStore(t)

	_, err := s.CreateProject(context.Background(), &model.Project{})
	assert.True(t, eris.Is(err, ErrValidation))
}

func TestGetProject_NotFound(t *testing.T) {
	t.Parallel()
	s := newTestSQLiteStore(t)

	_, err := s.GetProject(context.Background(), "nope")
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestUpdateProject(t *testing.T) {
	t.Parallel()
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	id := newTestProject(t, s)

	project, err := s.GetProject(ctx, id)
	require.NoError(t, err)
	project.Name = "Bosco Sud"
	project.InventoryAreaHa = 42
	require.NoError(t, s.UpdateProject(ctx, project))

	got, err := s.GetProject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Bosco Sud", got.Name)
	assert.Equal(t, 42.0, got.InventoryAreaHa)
}

func TestDeleteProject_Cascades(t *testing.T) {
	t.Parallel()
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	id := newTestProject(t, s)

	_, err := s.AddSampleTree(ctx, id, &model.SampleTree{
		Area: model.Area1, Species: "pino-domestico", DiameterClass: 25, Height: 14,
	})
	require.NoError(t, err)
	_, err = s.AddInventoryTree(ctx, id, &model.InventoryTree{
		Species: "cipresso-comune", DiameterClass: 30,
	})
	require.NoError(t, err)
	require.NoError(t, s.ReplaceHeightSummaries(ctx, id, model.HeightSummaries{
		"pino-domestico": {Average: 14, Count: 1, Min: 14, Max: 14},
	}))

	require.NoError(t, s.DeleteProject(ctx, id))

	_, err = s.GetProject(ctx, id)
	assert.True(t, eris.Is(err, ErrNotFound))

	counts, err := s.Counts(ctx)
	require.NoError(t, err)
	assert.Zero(t, counts.Projects)
	assert.Zero(t, counts.SampleTrees)
	assert.Zero(t, counts.InventoryTrees)
}

func TestDeleteProject_NotFound(t *testing.T) {
	t.Parallel()
	s := newTestSQLiteStore(t)

	err := s.DeleteProject(context.Background(), "nope")
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestListProjects_CountsAndOrder(t *testing.T) {
	t.Parallel()
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	first, err := s.CreateProject(ctx, &model.Project{Name: "First"})
	require.NoError(t, err)
	second, err := s.CreateProject(ctx, &model.Project{Name: "Second"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := s.AddSampleTree(ctx, first, &model.SampleTree{
			Area: model.Area1, Species: "pino-domestico", DiameterClass: 20, Height: 10,
		})
		require.NoError(t, err)
	}
	_, err = s.AddInventoryTree(ctx, second, &model.InventoryTree{
		Species: "altro", DiameterClass: 15,
	})
	require.NoError(t, err)

	// Touch the first project so it sorts to the top.
	project, err := s.GetProject(ctx, first)
	require.NoError(t, err)
	require.NoError(t, s.UpdateProject(ctx, project))

	summaries, err := s.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, first, summaries[0].ID)
	assert.Equal(t, 3, summaries[0].SampleTreeCount)
	assert.Equal(t, 1, summaries[1].InventoryTreeCount)
}

func TestRemoveSpecies_CascadesTrees(t *testing.T) {
	t.Parallel()
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	id := newTestProject(t, s)

	_, err := s.AddSampleTree(ctx, id, &model.SampleTree{
		Area: model.Area1, Species: "pino-domestico", DiameterClass: 25, Height: 14,
	})
	require.NoError(t, err)
	_, err = s.AddSampleTree(ctx, id, &model.SampleTree{
		Area: model.Area1, Species: "cipresso-comune", DiameterClass: 20, Height: 11,
	})
	require.NoError(t, err)

	require.NoError(t, s.RemoveSpecies(ctx, id, "pino-domestico"))

	project, err := s.GetProject(ctx, id)
	require.NoError(t, err)
	_, ok := project.SpeciesCatalog.Resolve("pino-domestico")
	assert.False(t, ok)

	trees, err := s.ListSampleTrees(ctx, id, "")
	require.NoError(t, err)
	require.Len(t, trees, 1)
	assert.Equal(t, "cipresso-comune", trees[0].Species)
}

func TestRemoveSpecies_NotInCatalog(t *testing.T) {
	t.Parallel()
	s := newTestSQLiteStore(t)
	id := newTestProject(t, s)

	err := s.RemoveSpecies(context.Background(), id, "sequoia")
	assert.True(t, eris.Is(err, ErrNotFound))
}

func TestAddSampleTree_Validation(t *testing.T) {
	t.Parallel()
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	id := newTestProject(t, s)

	tests := []struct {
		name string
		tree model.SampleTree
	}{
		{name: "unknown species", tree: model.SampleTree{Area: model.Area1, Species: "sequoia", DiameterClass: 25, Height: 14}},
		{name: "zero diameter", tree: model.SampleTree{Area: model.Area1, Species: "altro", DiameterClass: 0, Height: 14}},
		{name: "zero height", tree: model.SampleTree{Area: model.Area1, Species: "altro", DiameterClass: 25}},
		{name: "bad area", tree: model.SampleTree{Area: "area9", Species: "altro", DiameterClass: 25, Height: 14}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := tt.tree
			_, err := s.AddSampleTree(ctx, id, &tree)
			assert.True(t, eris.Is(err, ErrValidation))
		})
	}
}

func TestListSampleTrees_AreaFilter(t *testing.T) {
	t.Parallel()
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	id := newTestProject(t, s)

	for _, area := range []model.SampleArea{model.Area1, model.Area1, model.Area2} {
		_, err := s.AddSampleTree(ctx, id, &model.SampleTree{
			Area: area, Species: "pino-domestico", DiameterClass: 25, Height: 14,
			GPS: &model.GPSFix{Lat: 43.7, Lng: 11.2, Accuracy: 5},
		})
		require.NoError(t, err)
	}

	all, err := s.ListSampleTrees(ctx, id, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
	require.NotNil(t, all[0].GPS)
	assert.Equal(t, 43.7, all[0].GPS.Lat)

	area1, err := s.ListSampleTrees(ctx, id, model.Area1)
	require.NoError(t, err)
	assert.Len(t, area1, 2)
}

func TestDeleteSampleTree(t *testing.T) {
	t.Parallel()
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	id := newTestProject(t, s)

	treeID, err := s.AddSampleTree(ctx, id, &model.SampleTree{
		Area: model.Area1, Species: "altro", DiameterClass: 25, Height: 14,
	})
	require.NoError(t, err)

	require.NoError(t, s.DeleteSampleTree(ctx, treeID))
	assert.True(t, eris.Is(s.DeleteSampleTree(ctx, treeID), ErrNotFound))
}

func TestClearInventoryTrees(t *testing.T) {
	t.Parallel()
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	id := newTestProject(t, s)

	for i := 0; i < 4; i++ {
		_, err := s.AddInventoryTree(ctx, id, &model.InventoryTree{
			Species: "altro", DiameterClass: 20,
		})
		require.NoError(t, err)
	}

	n, err := s.ClearInventoryTrees(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	trees, err := s.ListInventoryTrees(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, trees)
}

func TestReplaceHeightSummaries(t *testing.T) {
	t.Parallel()
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	id := newTestProject(t, s)

	require.NoError(t, s.ReplaceHeightSummaries(ctx, id, model.HeightSummaries{
		"pino-domestico": {Average: 14, Count: 2, Min: 12, Max: 16},
		"altro":          {Average: 9, Count: 1, Min: 9, Max: 9},
	}))
	// A replace drops species absent from the new set.
	require.NoError(t, s.ReplaceHeightSummaries(ctx, id, model.HeightSummaries{
		"pino-domestico": {Average: 15, Count: 3, Min: 12, Max: 18},
	}))

	got, err := s.HeightSummaries(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 15.0, got["pino-domestico"].Average)
}

func TestSettings(t *testing.T) {
	t.Parallel()
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	got, err := s.GetSetting(ctx, "currentProject", "none")
	require.NoError(t, err)
	assert.Equal(t, "none", got)

	require.NoError(t, s.SetSetting(ctx, "currentProject", "p1"))
	require.NoError(t, s.SetSetting(ctx, "currentProject", "p2"))

	got, err = s.GetSetting(ctx, "currentProject", "none")
	require.NoError(t, err)
	assert.Equal(t, "p2", got)
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	id := newTestProject(t, s)

	_, err := s.AddSampleTree(ctx, id, &model.SampleTree{
		Area: model.Area2, Species: "pino-marittimo", DiameterClass: 35, Height: 18.5,
		GPS: &model.GPSFix{Lat: 43.76, Lng: 11.25, Accuracy: 3.1},
	})
	require.NoError(t, err)
	_, err = s.AddInventoryTree(ctx, id, &model.InventoryTree{
		Species: "cipresso-comune", DiameterClass: 30,
	})
	require.NoError(t, err)
	require.NoError(t, s.ReplaceHeightSummaries(ctx, id, model.HeightSummaries{
		"pino-marittimo": {Average: 18.5, Count: 1, Min: 18.5, Max: 18.5},
	}))

	doc, err := s.ExportProject(ctx, id)
	require.NoError(t, err)

	importedID, err := s.ImportProject(ctx, doc)
	require.NoError(t, err)
	assert.NotEqual(t, id, importedID)

	// Everything except ids and timestamps survives the round trip.
	reexported, err := s.ExportProject(ctx, importedID)
	require.NoError(t, err)
	assert.Equal(t, doc.Project.Name, reexported.Project.Name)
	assert.Equal(t, doc.Project.InventoryAreaHa, reexported.Project.InventoryAreaHa)
	assert.Equal(t, doc.Project.SpeciesCatalog, reexported.Project.SpeciesCatalog)
	assert.Equal(t, doc.HeightAverages, reexported.HeightAverages)
	require.Len(t, reexported.SampleTrees, 1)
	assert.Equal(t, doc.SampleTrees[0].Species, reexported.SampleTrees[0].Species)
	assert.Equal(t, doc.SampleTrees[0].GPS, reexported.SampleTrees[0].GPS)
	require.Len(t, reexported.InventoryTrees, 1)
	assert.Equal(t, doc.InventoryTrees[0].DiameterClass, reexported.InventoryTrees[0].DiameterClass)
}

func TestImportProject_RejectsInvalid(t *testing.T) {
	t.Parallel()
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	id := newTestProject(t, s)

	doc, err := s.ExportProject(ctx, id)
	require.NoError(t, err)
	doc.Project.Name = ""

	_, err = s.ImportProject(ctx, doc)
	assert.True(t, eris.Is(err, ErrValidation))
}
