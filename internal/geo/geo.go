// Package geo summarizes the GPS fixes of a project for export
// metadata and the HTTP API: how many trees carry a fix, where their
// bounding box lies and where their centroid falls.
package geo

import (
	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"

	"github.com/silvatech/forestctl/internal/model"
)

// Bounds is a lat/lng bounding box.
type Bounds struct {
	MinLat float64 `json:"minLat"`
	MinLng float64 `json:"minLng"`
	MaxLat float64 `json:"maxLat"`
	MaxLng float64 `json:"maxLng"`
}

// Summary describes the spatial footprint of a project's fixes.
type Summary struct {
	FixCount    int     `json:"fixCount"`
	CentroidLat float64 `json:"centroidLat"`
	CentroidLng float64 `json:"centroidLng"`
	Bounds      Bounds  `json:"bounds"`
}

// CollectFixes gathers every GPS fix from both tree sections.
func CollectFixes(samples []model.SampleTree, inventory []model.InventoryTree) []model.GPSFix {
	var fixes []model.GPSFix
	for _, tree := range samples {
		if tree.GPS != nil {
			fixes = append(fixes, *tree.GPS)
		}
	}
	for _, tree := range inventory {
		if tree.GPS != nil {
			fixes = append(fixes, *tree.GPS)
		}
	}
	return fixes
}

// Summarize builds the spatial summary over the given fixes. It returns
// nil when no tree carries a fix.
func Summarize(fixes []model.GPSFix) (*Summary, error) {
	if len(fixes) == 0 {
		return nil, nil
	}

	coords := make([]geom.Coord, len(fixes))
	for i, fix := range fixes {
		coords[i] = geom.Coord{fix.Lng, fix.Lat}
	}
	points, err := geom.NewMultiPoint(geom.XY).SetCoords(coords)
	if err != nil {
		return nil, eris.Wrap(err, "geo: build multipoint")
	}

	bounds := points.Bounds()

	var sumLat, sumLng float64
	for _, c := range points.Coords() {
		sumLng += c.X()
		sumLat += c.Y()
	}
	n := float64(points.NumPoints())

	return &Summary{
		FixCount:    len(fixes),
		CentroidLat: sumLat / n,
		CentroidLng: sumLng / n,
		Bounds: Bounds{
			MinLat: bounds.Min(1),
			MinLng: bounds.Min(0),
			MaxLat: bounds.Max(1),
			MaxLng: bounds.Max(0),
		},
	}, nil
}
