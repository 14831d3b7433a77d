// Package snapshot defines the self-contained export/import document
// for one project. The JSON form round-trips exactly; record IDs are
// deliberately absent because import always allocates fresh ones.
package snapshot

import (
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"

	"github.com/silvatech/forestctl/internal/model"
)

// FormatVersion tags every exported document.
const FormatVersion = "2.0.0"

// ProjectMeta carries the project fields that survive an export.
// Identity stays behind: the importing side mints a new project ID.
type ProjectMeta struct {
	Name            string               `json:"name"`
	Description     string               `json:"description,omitempty"`
	Operator        string               `json:"operator,omitempty"`
	Location        string               `json:"location,omitempty"`
	InventoryAreaHa float64              `json:"inventoryAreaHa"`
	SpeciesCatalog  model.SpeciesCatalog `json:"speciesCatalog"`
	CreatedAt       time.Time            `json:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt"`
}

// SampleTree is the wire form of a sample plot measurement.
type SampleTree struct {
	Area          model.SampleArea `json:"area"`
	Species       string           `json:"species"`
	DiameterClass int              `json:"diameterClass"`
	Height        float64          `json:"height"`
	Timestamp     time.Time        `json:"timestamp"`
	Operator      string           `json:"operator,omitempty"`
	GPS           *model.GPSFix    `json:"gps,omitempty"`
}

// InventoryTree is the wire form of a stand tally entry.
type InventoryTree struct {
	Species       string        `json:"species"`
	DiameterClass int           `json:"diameterClass"`
	Timestamp     time.Time     `json:"timestamp"`
	Operator      string        `json:"operator,omitempty"`
	GPS           *model.GPSFix `json:"gps,omitempty"`
}

// Document is one project's full exported state.
type Document struct {
	FormatVersion  string                `json:"formatVersion"`
	ExportedAt     time.Time             `json:"exportedAt"`
	Project        ProjectMeta           `json:"project"`
	SampleTrees    []SampleTree          `json:"sampleTrees"`
	InventoryTrees []InventoryTree       `json:"inventoryTrees"`
	HeightAverages model.HeightSummaries `json:"heightAverages"`
}

// Build assembles a document from live records.
func Build(project *model.Project, samples []model.SampleTree, inventory []model.InventoryTree, summaries model.HeightSummaries) *Document {
	doc := &Document{
		FormatVersion: FormatVersion,
		ExportedAt:    time.Now().UTC(),
		Project: ProjectMeta{
			Name:            project.Name,
			Description:     project.Description,
			Operator:        project.Operator,
			Location:        project.Location,
			InventoryAreaHa: project.InventoryAreaHa,
			SpeciesCatalog:  project.SpeciesCatalog.Clone(),
			CreatedAt:       project.CreatedAt,
			UpdatedAt:       project.UpdatedAt,
		},
		SampleTrees:    make([]SampleTree, 0, len(samples)),
		InventoryTrees: make([]InventoryTree, 0, len(inventory)),
		HeightAverages: summaries,
	}
	if doc.HeightAverages == nil {
		doc.HeightAverages = model.HeightSummaries{}
	}

	for _, tree := range samples {
		doc.SampleTrees = append(doc.SampleTrees, SampleTree{
			Area:          tree.Area,
			Species:       tree.Species,
			DiameterClass: tree.DiameterClass,
			Height:        tree.Height,
			Timestamp:     tree.Timestamp,
			Operator:      tree.Operator,
			GPS:           tree.GPS,
		})
	}
	for _, tree := range inventory {
		doc.InventoryTrees = append(doc.InventoryTrees, InventoryTree{
			Species:       tree.Species,
			DiameterClass: tree.DiameterClass,
			Timestamp:     tree.Timestamp,
			Operator:      tree.Operator,
			GPS:           tree.GPS,
		})
	}
	return doc
}

// Validate checks the structural contract before an import touches the
// store: version tag, project section, and both tree sections present,
// with every tree species resolvable in the embedded catalog.
func (d *Document) Validate() error {
	if d.FormatVersion == "" {
		return eris.New("snapshot: missing formatVersion")
	}
	if d.Project.Name == "" {
		return eris.New("snapshot: project section missing or unnamed")
	}
	if len(d.Project.SpeciesCatalog) == 0 {
		return eris.New("snapshot: species catalog is empty")
	}
	if d.SampleTrees == nil {
		return eris.New("snapshot: sampleTrees section missing")
	}
	if d.InventoryTrees == nil {
		return eris.New("snapshot: inventoryTrees section missing")
	}
	for i, tree := range d.SampleTrees {
		if _, ok := d.Project.SpeciesCatalog.Resolve(tree.Species); !ok {
			return eris.Errorf("snapshot: sample tree %d references unknown species %q", i, tree.Species)
		}
	}
	for i, tree := range d.InventoryTrees {
		if _, ok := d.Project.SpeciesCatalog.Resolve(tree.Species); !ok {
			return eris.Errorf("snapshot: inventory tree %d references unknown species %q", i, tree.Species)
		}
	}
	return nil
}

// Encode renders the document as indented JSON. Snapshots get diffed
// and hand-edited in the field, so the output stays readable.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, eris.Wrap(err, "snapshot: encode")
	}
	return data, nil
}

// Decode parses and validates a JSON snapshot.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "snapshot: decode")
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}
