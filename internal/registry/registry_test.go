package registry

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silvatech/forestctl/internal/model"
	"github.com/silvatech/forestctl/internal/store"
)

func newTestRegistry(t *testing.T) (*Registry, store.Store) {
	t.Helper()

	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { s.Close() })
	return New(s), s
}

func TestInit_EmptyStoreCreatesStarter(t *testing.T) {
	t.Parallel()
	r, s := newTestRegistry(t)
	ctx := context.Background()

	require.NoError(t, r.Init(ctx))
	require.NotNil(t, r.Current())
	assert.Equal(t, "Nuovo Progetto", r.Current().Name)

	// The pointer survives a restart.
	r2 := New(s)
	require.NoError(t, r2.Init(ctx))
	assert.Equal(t, r.Current().ID, r2.Current().ID)
}

func TestInit_StalePointerFallsBack(t *testing.T) {
	t.Parallel()
	r, s := newTestRegistry(t)
	ctx := context.Background()

	id, err := s.CreateProject(ctx, &model.Project{Name: "Bosco"})
	require.NoError(t, err)
	require.NoError(t, s.SetSetting(ctx, "currentProject", "gone"))

	require.NoError(t, r.Init(ctx))
	require.NotNil(t, r.Current())
	assert.Equal(t, id, r.Current().ID)
}

func TestCreate_SwitchesCurrent(t *testing.T) {
	t.Parallel()
	r, _ := newTestRegistry(t)
	ctx := context.Background()
	require.NoError(t, r.Init(ctx))

	id, err := r.Create(ctx, &model.Project{Name: "Bosco Nuovo"})
	require.NoError(t, err)
	assert.Equal(t, id, r.Current().ID)
}

func TestDelete_RefusesLastProject(t *testing.T) {
	t.Parallel()
	r, _ := newTestRegistry(t)
	ctx := context.Background()
	require.NoError(t, r.Init(ctx))

	err := r.Delete(ctx, r.Current().ID)
	assert.True(t, eris.Is(err, ErrLastProject))
	assert.NotNil(t, r.Current())
}

func TestDelete_MovesCurrentToSurvivor(t *testing.T) {
	t.Parallel()
	r, _ := newTestRegistry(t)
	ctx := context.Background()
	require.NoError(t, r.Init(ctx))
	first := r.Current().ID

	second, err := r.Create(ctx, &model.Project{Name: "Second"})
	require.NoError(t, err)

	require.NoError(t, r.Delete(ctx, second))
	require.NotNil(t, r.Current())
	assert.Equal(t, first, r.Current().ID)
}

func TestDuplicate(t *testing.T) {
	t.Parallel()
	r, s := newTestRegistry(t)
	ctx := context.Background()
	require.NoError(t, r.Init(ctx))
	source := r.Current().ID

	_, err := s.AddSampleTree(ctx, source, &model.SampleTree{
		Area: model.Area1, Species: "pino-domestico", DiameterClass: 25, Height: 14,
	})
	require.NoError(t, err)

	copyID, err := r.Duplicate(ctx, source)
	require.NoError(t, err)
	assert.NotEqual(t, source, copyID)

	copied, err := s.GetProject(ctx, copyID)
	require.NoError(t, err)
	assert.Equal(t, "Nuovo Progetto (copy)", copied.Name)

	trees, err := s.ListSampleTrees(ctx, copyID, "")
	require.NoError(t, err)
	assert.Len(t, trees, 1)
}

func TestSaveSession(t *testing.T) {
	t.Parallel()
	r, s := newTestRegistry(t)
	ctx := context.Background()
	require.NoError(t, r.Init(ctx))

	r.Current().Operator = "Luca"
	r.Current().InventoryAreaHa = 18
	require.NoError(t, r.SaveSession(ctx))

	got, err := s.GetProject(ctx, r.Current().ID)
	require.NoError(t, err)
	assert.Equal(t, "Luca", got.Operator)
	assert.Equal(t, 18.0, got.InventoryAreaHa)
}

func TestSaveSession_NoCurrent(t *testing.T) {
	t.Parallel()
	r, _ := newTestRegistry(t)

	err := r.SaveSession(context.Background())
	assert.True(t, eris.Is(err, store.ErrNotFound))
}
