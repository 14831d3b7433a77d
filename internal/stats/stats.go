// Package stats computes dendrometric figures from record snapshots.
// Every function is pure: recomputing from the same inputs always
// yields the same output, so persisted summaries are only a cache.
package stats

import (
	"math"

	"github.com/silvatech/forestctl/internal/model"
)

// BasalArea returns the cross-sectional stem area in m² for a diameter
// class in cm: π × (d/200)².
func BasalArea(diameterCm int) float64 {
	r := float64(diameterCm) / 200.0
	return math.Pi * r * r
}

// SampleTreeVolume computes the volume of a fully measured tree:
// basal area × height × form factor.
func SampleTreeVolume(species model.SpeciesDefinition, diameterCm int, heightM float64) float64 {
	return BasalArea(diameterCm) * heightM * species.FormFactor
}

// HeightAverages groups complete sample trees by species and returns
// count, arithmetic mean, min and max of their heights. Species with
// no complete sample are absent from the result, never zero-filled.
func HeightAverages(trees []model.SampleTree) model.HeightSummaries {
	heights := make(map[string][]float64)
	for _, tree := range trees {
		if tree.Height <= 0 {
			continue
		}
		heights[tree.Species] = append(heights[tree.Species], tree.Height)
	}

	summaries := make(model.HeightSummaries, len(heights))
	for species, hs := range heights {
		sum := 0.0
		min, max := hs[0], hs[0]
		for _, h := range hs {
			sum += h
			if h < min {
				min = h
			}
			if h > max {
				max = h
			}
		}
		summaries[species] = model.HeightSummary{
			Average: sum / float64(len(hs)),
			Count:   len(hs),
			Min:     min,
			Max:     max,
		}
	}
	return summaries
}

// InventoryTreeVolume estimates the volume of a counted tree. Height
// comes from the sampled species average when one exists, else from the
// species default height. A species with neither contributes zero
// volume: that is the deliberate unknown-height sentinel, not an error.
func InventoryTreeVolume(species model.SpeciesDefinition, diameterCm int, summaries model.HeightSummaries) float64 {
	height := 0.0
	if summary, ok := summaries[species.ID]; ok {
		height = summary.Average
	} else if species.DefaultHeight > 0 {
		height = species.DefaultHeight
	}
	return BasalArea(diameterCm) * height * species.FormFactor
}

// TotalVolume sums the estimated volume of every inventory tree.
// Trees whose species is missing from the catalog contribute zero.
func TotalVolume(trees []model.InventoryTree, catalog model.SpeciesCatalog, summaries model.HeightSummaries) float64 {
	total := 0.0
	for _, tree := range trees {
		if species, ok := catalog.Resolve(tree.Species); ok {
			total += InventoryTreeVolume(species, tree.DiameterClass, summaries)
		}
	}
	return total
}

// TotalBasalArea sums the basal area of every inventory tree.
func TotalBasalArea(trees []model.InventoryTree) float64 {
	total := 0.0
	for _, tree := range trees {
		total += BasalArea(tree.DiameterClass)
	}
	return total
}

// PerHectare normalizes an aggregate by the surveyed area. A zero or
// missing area yields a defined zero rather than a division error.
func PerHectare(total, areaHa float64) float64 {
	if areaHa <= 0 {
		return 0
	}
	return total / areaHa
}
