package model

import "time"

// SampleArea identifies one of the fixed sampling plots within a project.
type SampleArea string

const (
	Area1 SampleArea = "area1"
	Area2 SampleArea = "area2"
	Area3 SampleArea = "area3"
	Area4 SampleArea = "area4"
	Area5 SampleArea = "area5"
)

// SampleAreas lists every sampling plot slot in display order.
var SampleAreas = []SampleArea{Area1, Area2, Area3, Area4, Area5}

// Valid reports whether the area names a known plot slot.
func (a SampleArea) Valid() bool {
	for _, known := range SampleAreas {
		if a == known {
			return true
		}
	}
	return false
}

// GPSFix is an optional position attached to a tree record at capture time.
type GPSFix struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Accuracy float64 `json:"accuracy,omitempty"` // meters
}

// SampleTree is a tree measured for diameter and height inside a
// sampling plot. Once persisted it is immutable except for deletion.
type SampleTree struct {
	ID            string     `json:"id"`
	ProjectID     string     `json:"projectId"`
	Area          SampleArea `json:"area"`
	Species       string     `json:"species"`
	DiameterClass int        `json:"diameterClass"` // cm
	Height        float64    `json:"height"`        // meters
	Timestamp     time.Time  `json:"timestamp"`
	Operator      string     `json:"operator,omitempty"`
	GPS           *GPSFix    `json:"gps,omitempty"`
}

// InventoryTree is a tree counted for the stand-level tally
// (the "piedilista"): diameter only, no plot subdivision.
type InventoryTree struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"projectId"`
	Species       string    `json:"species"`
	DiameterClass int       `json:"diameterClass"` // cm
	Timestamp     time.Time `json:"timestamp"`
	Operator      string    `json:"operator,omitempty"`
	GPS           *GPSFix   `json:"gps,omitempty"`
}

// HeightSummary is the per-species roll-up of sample tree heights.
// It is a rebuildable cache of stats.HeightAverages, never patched
// incrementally.
type HeightSummary struct {
	Average float64 `json:"average"`
	Count   int     `json:"count"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
}

// HeightSummaries maps species ID to its summary.
type HeightSummaries map[string]HeightSummary
