// Package store persists projects, tree records, height summaries and
// settings. It is the only component that writes durable state; every
// compound operation (cascade delete, import) is a single transaction
// so callers never observe partial writes.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/silvatech/forestctl/internal/model"
	"github.com/silvatech/forestctl/internal/snapshot"
)

var (
	// ErrNotFound is returned for references to nonexistent projects or trees.
	ErrNotFound = eris.New("not found")

	// ErrValidation is returned for bad input shape or range.
	ErrValidation = eris.New("validation failed")
)

// Counts summarizes the whole database for diagnostics.
type Counts struct {
	Projects       int `json:"projects"`
	SampleTrees    int `json:"sampleTrees"`
	InventoryTrees int `json:"inventoryTrees"`
}

// Store is the persistence contract for the inventory core.
type Store interface {
	// Projects
	CreateProject(ctx context.Context, project *model.Project) (string, error)
	GetProject(ctx context.Context, id string) (*model.Project, error)
	UpdateProject(ctx context.Context, project *model.Project) error
	DeleteProject(ctx context.Context, id string) error
	ListProjects(ctx context.Context) ([]model.ProjectSummary, error)
	RemoveSpecies(ctx context.Context, projectID, speciesID string) error

	// Sample trees
	AddSampleTree(ctx context.Context, projectID string, tree *model.SampleTree) (string, error)
	ListSampleTrees(ctx context.Context, projectID string, area model.SampleArea) ([]model.SampleTree, error)
	DeleteSampleTree(ctx context.Context, id string) error

	// Inventory trees
	AddInventoryTree(ctx context.Context, projectID string, tree *model.InventoryTree) (string, error)
	ListInventoryTrees(ctx context.Context, projectID string) ([]model.InventoryTree, error)
	DeleteInventoryTree(ctx context.Context, id string) error
	ClearInventoryTrees(ctx context.Context, projectID string) (int, error)

	// Height summaries (rebuildable cache, replaced wholesale)
	ReplaceHeightSummaries(ctx context.Context, projectID string, summaries model.HeightSummaries) error
	HeightSummaries(ctx context.Context, projectID string) (model.HeightSummaries, error)

	// Settings (process-wide, not project-scoped)
	GetSetting(ctx context.Context, key, fallback string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	// Snapshot exchange
	ExportProject(ctx context.Context, id string) (*snapshot.Document, error)
	ImportProject(ctx context.Context, doc *snapshot.Document) (string, error)

	// Lifecycle
	Counts(ctx context.Context) (Counts, error)
	Migrate(ctx context.Context) error
	Close() error
}
