package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silvatech/forestctl/internal/model"
)

func TestSummarize(t *testing.T) {
	t.Parallel()

	fixes := []model.GPSFix{
		{Lat: 43.0, Lng: 11.0},
		{Lat: 44.0, Lng: 12.0},
		{Lat: 43.5, Lng: 11.5},
	}

	summary, err := Summarize(fixes)
	require.NoError(t, err)
	require.NotNil(t, summary)

	assert.Equal(t, 3, summary.FixCount)
	assert.InDelta(t, 43.5, summary.CentroidLat, 1e-9)
	assert.InDelta(t, 11.5, summary.CentroidLng, 1e-9)
	assert.Equal(t, Bounds{MinLat: 43.0, MinLng: 11.0, MaxLat: 44.0, MaxLng: 12.0}, summary.Bounds)
}

func TestSummarize_NoFixes(t *testing.T) {
	t.Parallel()

	summary, err := Summarize(nil)
	require.NoError(t, err)
	assert.Nil(t, summary)
}

func TestCollectFixes_SkipsMissing(t *testing.T) {
	t.Parallel()

	samples := []model.SampleTree{
		{Species: "altro", GPS: &model.GPSFix{Lat: 43.7, Lng: 11.2}},
		{Species: "altro"},
	}
	inventory := []model.InventoryTree{
		{Species: "altro", GPS: &model.GPSFix{Lat: 43.8, Lng: 11.3}},
		{Species: "altro"},
	}

	fixes := CollectFixes(samples, inventory)
	assert.Len(t, fixes, 2)
}
