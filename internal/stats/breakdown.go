package stats

import (
	"math"
	"sort"

	"github.com/silvatech/forestctl/internal/model"
)

// SpeciesStats aggregates inventory figures for one species.
type SpeciesStats struct {
	Species         string      `json:"species"`
	Count           int         `json:"count"`
	Percent         float64     `json:"percent"` // share of total stems, 0-100
	BasalArea       float64     `json:"basalArea"`
	Volume          float64     `json:"volume"`
	DiameterClasses map[int]int `json:"diameterClasses"` // class cm -> occurrences
}

// SpeciesBreakdown computes per-species stem counts, shares and summed
// figures plus the diameter-class distribution, sorted by descending
// stem count (species ID breaks ties).
func SpeciesBreakdown(trees []model.InventoryTree, catalog model.SpeciesCatalog, summaries model.HeightSummaries) []SpeciesStats {
	if len(trees) == 0 {
		return nil
	}

	bySpecies := make(map[string]*SpeciesStats)
	for _, tree := range trees {
		entry, ok := bySpecies[tree.Species]
		if !ok {
			entry = &SpeciesStats{
				Species:         tree.Species,
				DiameterClasses: make(map[int]int),
			}
			bySpecies[tree.Species] = entry
		}
		entry.Count++
		entry.BasalArea += BasalArea(tree.DiameterClass)
		if species, known := catalog.Resolve(tree.Species); known {
			entry.Volume += InventoryTreeVolume(species, tree.DiameterClass, summaries)
		}
		entry.DiameterClasses[tree.DiameterClass]++
	}

	out := make([]SpeciesStats, 0, len(bySpecies))
	for _, entry := range bySpecies {
		entry.Percent = float64(entry.Count) / float64(len(trees)) * 100
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Species < out[j].Species
	})
	return out
}

// ProjectStats is the stand-level roll-up shown on the results view and
// attached to sync payloads.
type ProjectStats struct {
	SampleTrees        int            `json:"sampleTrees"`
	InventoryTrees     int            `json:"inventoryTrees"`
	SpeciesWithHeights int            `json:"speciesWithHeights"`
	TotalBasalArea     float64        `json:"totalBasalArea"` // m²
	TotalVolume        float64        `json:"totalVolume"`    // m³
	AreaHa             float64        `json:"areaHa"`
	TreesPerHa         int            `json:"treesPerHa"` // rounded half away from zero
	BasalAreaPerHa     float64        `json:"basalAreaPerHa"`
	VolumePerHa        float64        `json:"volumePerHa"`
	Breakdown          []SpeciesStats `json:"breakdown,omitempty"`
}

// Compute derives the full stand roll-up from one project's records.
// Stems per hectare round to the nearest integer; the fractional figure
// is recoverable from InventoryTrees and AreaHa.
func Compute(project *model.Project, samples []model.SampleTree, inventory []model.InventoryTree, summaries model.HeightSummaries) ProjectStats {
	totalBasal := TotalBasalArea(inventory)
	totalVolume := TotalVolume(inventory, project.SpeciesCatalog, summaries)

	return ProjectStats{
		SampleTrees:        len(samples),
		InventoryTrees:     len(inventory),
		SpeciesWithHeights: len(summaries),
		TotalBasalArea:     totalBasal,
		TotalVolume:        totalVolume,
		AreaHa:             project.InventoryAreaHa,
		TreesPerHa:         int(math.Round(PerHectare(float64(len(inventory)), project.InventoryAreaHa))),
		BasalAreaPerHa:     PerHectare(totalBasal, project.InventoryAreaHa),
		VolumePerHa:        PerHectare(totalVolume, project.InventoryAreaHa),
		Breakdown:          SpeciesBreakdown(inventory, project.SpeciesCatalog, summaries),
	}
}
