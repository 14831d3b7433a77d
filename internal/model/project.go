package model

import "time"

// ProjectStatus tracks the project lifecycle.
type ProjectStatus string

const (
	ProjectActive  ProjectStatus = "active"
	ProjectDeleted ProjectStatus = "deleted"
)

// DefaultInventoryAreaHa is assigned when a project is created without
// an explicit surveyed area.
const DefaultInventoryAreaHa = 30.0

// Project is one forest stand survey. It owns every tree record and
// height summary carrying its ID.
type Project struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	Operator        string         `json:"operator,omitempty"`
	Location        string         `json:"location,omitempty"`
	InventoryAreaHa float64        `json:"inventoryAreaHa"` // hectares
	SpeciesCatalog  SpeciesCatalog `json:"speciesCatalog"`
	Status          ProjectStatus  `json:"status"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// ProjectSummary is the lightweight listing shape, most recently
// modified first.
type ProjectSummary struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Operator           string    `json:"operator,omitempty"`
	InventoryAreaHa    float64   `json:"inventoryAreaHa"`
	SampleTreeCount    int       `json:"sampleTreeCount"`
	InventoryTreeCount int       `json:"inventoryTreeCount"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}
