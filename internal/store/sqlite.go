package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/silvatech/forestctl/internal/model"
	"github.com/silvatech/forestctl/internal/snapshot"
)

// SQLiteStore implements Store using modernc.org/sqlite. One file per
// device; WAL keeps writes durable across power loss in the field.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures
// WAL mode and foreign keys.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS projects (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	operator          TEXT NOT NULL DEFAULT '',
	location          TEXT NOT NULL DEFAULT '',
	inventory_area_ha REAL NOT NULL,
	species_catalog   TEXT NOT NULL,
	status            TEXT NOT NULL DEFAULT 'active',
	created_at        DATETIME NOT NULL,
	updated_at        DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS sample_trees (
	id             TEXT PRIMARY KEY,
	project_id     TEXT NOT NULL REFERENCES projects(id),
	area           TEXT NOT NULL,
	species        TEXT NOT NULL,
	diameter_class INTEGER NOT NULL,
	height         REAL NOT NULL,
	timestamp      DATETIME NOT NULL,
	operator       TEXT NOT NULL DEFAULT '',
	gps            TEXT
);

CREATE TABLE IF NOT EXISTS inventory_trees (
	id             TEXT PRIMARY KEY,
	project_id     TEXT NOT NULL REFERENCES projects(id),
	species        TEXT NOT NULL,
	diameter_class INTEGER NOT NULL,
	timestamp      DATETIME NOT NULL,
	operator       TEXT NOT NULL DEFAULT '',
	gps            TEXT
);

CREATE TABLE IF NOT EXISTS height_summaries (
	project_id TEXT NOT NULL REFERENCES projects(id),
	species    TEXT NOT NULL,
	average    REAL NOT NULL,
	count      INTEGER NOT NULL,
	min        REAL NOT NULL,
	max        REAL NOT NULL,
	updated_at DATETIME NOT NULL,
	PRIMARY KEY (project_id, species)
);

CREATE TABLE IF NOT EXISTS settings (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sample_trees_project ON sample_trees(project_id);
CREATE INDEX IF NOT EXISTS idx_sample_trees_area ON sample_trees(project_id, area);
CREATE INDEX IF NOT EXISTS idx_inventory_trees_project ON inventory_trees(project_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// withTx runs fn inside a transaction, rolling back on any error.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit tx")
}

// --- Projects ---

func (s *SQLiteStore) CreateProject(ctx context.Context, project *model.Project) (string, error) {
	if project.Name == "" {
		return "", eris.Wrap(ErrValidation, "project name is required")
	}

	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now
	}
	project.UpdatedAt = now
	if project.InventoryAreaHa == 0 {
		project.InventoryAreaHa = model.DefaultInventoryAreaHa
	}
	if project.SpeciesCatalog == nil {
		project.SpeciesCatalog = model.DefaultCatalog()
	}
	if project.Status == "" {
		project.Status = model.ProjectActive
	}

	catalogJSON, err := json.Marshal(project.SpeciesCatalog)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal catalog")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, description, operator, location, inventory_area_ha, species_catalog, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		project.ID, project.Name, project.Description, project.Operator, project.Location,
		project.InventoryAreaHa, string(catalogJSON), string(project.Status),
		project.CreatedAt, project.UpdatedAt,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert project")
	}
	return project.ID, nil
}

func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*model.Project, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, operator, location, inventory_area_ha, species_catalog, status, created_at, updated_at
		 FROM projects WHERE id = ?`, id)
	return scanProject(row)
}

func (s *SQLiteStore) UpdateProject(ctx context.Context, project *model.Project) error {
	catalogJSON, err := json.Marshal(project.SpeciesCatalog)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal catalog")
	}
	project.UpdatedAt = time.Now().UTC()

	res, err := s.db.ExecContext(ctx,
		`UPDATE projects
		 SET name = ?, description = ?, operator = ?, location = ?, inventory_area_ha = ?, species_catalog = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		project.Name, project.Description, project.Operator, project.Location,
		project.InventoryAreaHa, string(catalogJSON), string(project.Status),
		project.UpdatedAt, project.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update project %s", project.ID)
	}
	return checkRowsAffected(res, "project", project.ID)
}

// DeleteProject removes the project and every dependent record in one
// transaction: on any failure nothing is deleted.
func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM sample_trees WHERE project_id = ?`,
			`DELETE FROM inventory_trees WHERE project_id = ?`,
			`DELETE FROM height_summaries WHERE project_id = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, id); err != nil {
				return eris.Wrapf(err, "sqlite: cascade delete project %s", id)
			}
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
		if err != nil {
			return eris.Wrapf(err, "sqlite: delete project %s", id)
		}
		return checkRowsAffected(res, "project", id)
	})
}

func (s *SQLiteStore) ListProjects(ctx context.Context) ([]model.ProjectSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			p.id, p.name, p.operator, p.inventory_area_ha, p.created_at, p.updated_at,
			COUNT(DISTINCT st.id) AS sample_trees,
			COUNT(DISTINCT it.id) AS inventory_trees
		FROM projects p
		LEFT JOIN sample_trees st ON st.project_id = p.id
		LEFT JOIN inventory_trees it ON it.project_id = p.id
		GROUP BY p.id, p.name, p.operator, p.inventory_area_ha, p.created_at, p.updated_at
		ORDER BY p.updated_at DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list projects")
	}
	defer rows.Close()

	var summaries []model.ProjectSummary
	for rows.Next() {
		var sum model.ProjectSummary
		if err := rows.Scan(
			&sum.ID, &sum.Name, &sum.Operator, &sum.InventoryAreaHa,
			&sum.CreatedAt, &sum.UpdatedAt,
			&sum.SampleTreeCount, &sum.InventoryTreeCount,
		); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan project summary")
		}
		summaries = append(summaries, sum)
	}
	return summaries, eris.Wrap(rows.Err(), "sqlite: list projects iterate")
}

// RemoveSpecies drops a species from the project catalog together with
// every tree referencing it and its height summary, atomically.
func (s *SQLiteStore) RemoveSpecies(ctx context.Context, projectID, speciesID string) error {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return err
	}
	if _, ok := project.SpeciesCatalog.Resolve(speciesID); !ok {
		return eris.Wrapf(ErrNotFound, "species %s not in catalog", speciesID)
	}

	catalog := project.SpeciesCatalog.Clone()
	delete(catalog, speciesID)
	catalogJSON, err := json.Marshal(catalog)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal catalog")
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		for _, q := range []string{
			`DELETE FROM sample_trees WHERE project_id = ? AND species = ?`,
			`DELETE FROM inventory_trees WHERE project_id = ? AND species = ?`,
			`DELETE FROM height_summaries WHERE project_id = ? AND species = ?`,
		} {
			if _, err := tx.ExecContext(ctx, q, projectID, speciesID); err != nil {
				return eris.Wrapf(err, "sqlite: remove species %s", speciesID)
			}
		}
		_, err := tx.ExecContext(ctx,
			`UPDATE projects SET species_catalog = ?, updated_at = ? WHERE id = ?`,
			string(catalogJSON), time.Now().UTC(), projectID)
		return eris.Wrapf(err, "sqlite: update catalog for %s", projectID)
	})
}

// --- Sample trees ---

func (s *SQLiteStore) AddSampleTree(ctx context.Context, projectID string, tree *model.SampleTree) (string, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return "", err
	}
	if err := validateTree(project, tree.Species, tree.DiameterClass); err != nil {
		return "", err
	}
	if tree.Height <= 0 {
		return "", eris.Wrap(ErrValidation, "sample tree height must be positive")
	}
	if !tree.Area.Valid() {
		return "", eris.Wrapf(ErrValidation, "unknown sampling area %q", tree.Area)
	}

	fillTreeDefaults(&tree.ID, &tree.Timestamp)
	tree.ProjectID = projectID

	gps, err := marshalGPS(tree.GPS)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sample_trees (id, project_id, area, species, diameter_class, height, timestamp, operator, gps)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tree.ID, projectID, string(tree.Area), tree.Species, tree.DiameterClass,
		tree.Height, tree.Timestamp, tree.Operator, gps,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert sample tree")
	}
	return tree.ID, nil
}

// ListSampleTrees returns a project's sample trees in insertion order,
// optionally filtered to one sampling area (empty area means all).
func (s *SQLiteStore) ListSampleTrees(ctx context.Context, projectID string, area model.SampleArea) ([]model.SampleTree, error) {
	query := `SELECT id, project_id, area, species, diameter_class, height, timestamp, operator, gps
	          FROM sample_trees WHERE project_id = ?`
	args := []any{projectID}
	if area != "" {
		query += ` AND area = ?`
		args = append(args, string(area))
	}
	query += ` ORDER BY rowid`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list sample trees")
	}
	defer rows.Close()

	var trees []model.SampleTree
	for rows.Next() {
		var tree model.SampleTree
		var areaStr string
		var gpsNull sql.NullString
		if err := rows.Scan(&tree.ID, &tree.ProjectID, &areaStr, &tree.Species,
			&tree.DiameterClass, &tree.Height, &tree.Timestamp, &tree.Operator, &gpsNull); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan sample tree")
		}
		tree.Area = model.SampleArea(areaStr)
		if gpsNull.Valid {
			if tree.GPS, err = unmarshalGPS(gpsNull.String); err != nil {
				return nil, err
			}
		}
		trees = append(trees, tree)
	}
	return trees, eris.Wrap(rows.Err(), "sqlite: list sample trees iterate")
}

func (s *SQLiteStore) DeleteSampleTree(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sample_trees WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete sample tree %s", id)
	}
	return checkRowsAffected(res, "sample tree", id)
}

// --- Inventory trees ---

func (s *SQLiteStore) AddInventoryTree(ctx context.Context, projectID string, tree *model.InventoryTree) (string, error) {
	project, err := s.GetProject(ctx, projectID)
	if err != nil {
		return "", err
	}
	if err := validateTree(project, tree.Species, tree.DiameterClass); err != nil {
		return "", err
	}

	fillTreeDefaults(&tree.ID, &tree.Timestamp)
	tree.ProjectID = projectID

	gps, err := marshalGPS(tree.GPS)
	if err != nil {
		return "", err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO inventory_trees (id, project_id, species, diameter_class, timestamp, operator, gps)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		tree.ID, projectID, tree.Species, tree.DiameterClass, tree.Timestamp, tree.Operator, gps,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert inventory tree")
	}
	return tree.ID, nil
}

func (s *SQLiteStore) ListInventoryTrees(ctx context.Context, projectID string) ([]model.InventoryTree, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, project_id, species, diameter_class, timestamp, operator, gps
		 FROM inventory_trees WHERE project_id = ? ORDER BY rowid`, projectID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list inventory trees")
	}
	defer rows.Close()

	var trees []model.InventoryTree
	for rows.Next() {
		var tree model.InventoryTree
		var gpsNull sql.NullString
		if err := rows.Scan(&tree.ID, &tree.ProjectID, &tree.Species,
			&tree.DiameterClass, &tree.Timestamp, &tree.Operator, &gpsNull); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan inventory tree")
		}
		if gpsNull.Valid {
			if tree.GPS, err = unmarshalGPS(gpsNull.String); err != nil {
				return nil, err
			}
		}
		trees = append(trees, tree)
	}
	return trees, eris.Wrap(rows.Err(), "sqlite: list inventory trees iterate")
}

func (s *SQLiteStore) DeleteInventoryTree(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM inventory_trees WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete inventory tree %s", id)
	}
	return checkRowsAffected(res, "inventory tree", id)
}

func (s *SQLiteStore) ClearInventoryTrees(ctx context.Context, projectID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM inventory_trees WHERE project_id = ?`, projectID)
	if err != nil {
		return 0, eris.Wrapf(err, "sqlite: clear inventory trees for %s", projectID)
	}
	n, err := res.RowsAffected()
	return int(n), eris.Wrap(err, "sqlite: rows affected")
}

// --- Height summaries ---

// ReplaceHeightSummaries swaps the cached summary set for a project in
// one transaction. Summaries are never patched in place.
func (s *SQLiteStore) ReplaceHeightSummaries(ctx context.Context, projectID string, summaries model.HeightSummaries) error {
	now := time.Now().UTC()
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM height_summaries WHERE project_id = ?`, projectID); err != nil {
			return eris.Wrapf(err, "sqlite: clear height summaries for %s", projectID)
		}
		for species, summary := range summaries {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO height_summaries (project_id, species, average, count, min, max, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				projectID, species, summary.Average, summary.Count, summary.Min, summary.Max, now,
			); err != nil {
				return eris.Wrapf(err, "sqlite: insert height summary %s", species)
			}
		}
		return nil
	})
}

func (s *SQLiteStore) HeightSummaries(ctx context.Context, projectID string) (model.HeightSummaries, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT species, average, count, min, max FROM height_summaries WHERE project_id = ?`, projectID)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: get height summaries")
	}
	defer rows.Close()

	summaries := model.HeightSummaries{}
	for rows.Next() {
		var species string
		var summary model.HeightSummary
		if err := rows.Scan(&species, &summary.Average, &summary.Count, &summary.Min, &summary.Max); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan height summary")
		}
		summaries[species] = summary
	}
	return summaries, eris.Wrap(rows.Err(), "sqlite: height summaries iterate")
}

// --- Settings ---

func (s *SQLiteStore) GetSetting(ctx context.Context, key, fallback string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return fallback, nil
	}
	if err != nil {
		return "", eris.Wrapf(err, "sqlite: get setting %s", key)
	}
	return value, nil
}

func (s *SQLiteStore) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC())
	return eris.Wrapf(err, "sqlite: set setting %s", key)
}

// --- Snapshot exchange ---

func (s *SQLiteStore) ExportProject(ctx context.Context, id string) (*snapshot.Document, error) {
	project, err := s.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	samples, err := s.ListSampleTrees(ctx, id, "")
	if err != nil {
		return nil, err
	}
	inventory, err := s.ListInventoryTrees(ctx, id)
	if err != nil {
		return nil, err
	}
	summaries, err := s.HeightSummaries(ctx, id)
	if err != nil {
		return nil, err
	}
	return snapshot.Build(project, samples, inventory, summaries), nil
}

// ImportProject inserts a snapshot under a fresh project ID; every tree
// gets a new ID as well. The whole import is one transaction.
func (s *SQLiteStore) ImportProject(ctx context.Context, doc *snapshot.Document) (string, error) {
	if err := doc.Validate(); err != nil {
		return "", eris.Wrap(ErrValidation, err.Error())
	}

	now := time.Now().UTC()
	projectID := uuid.New().String()
	catalogJSON, err := json.Marshal(doc.Project.SpeciesCatalog)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal catalog")
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO projects (id, name, description, operator, location, inventory_area_ha, species_catalog, status, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			projectID, doc.Project.Name, doc.Project.Description, doc.Project.Operator,
			doc.Project.Location, doc.Project.InventoryAreaHa, string(catalogJSON),
			string(model.ProjectActive), now, now,
		); err != nil {
			return eris.Wrap(err, "sqlite: import project")
		}

		for i, tree := range doc.SampleTrees {
			gps, err := marshalGPS(tree.GPS)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO sample_trees (id, project_id, area, species, diameter_class, height, timestamp, operator, gps)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				uuid.New().String(), projectID, string(tree.Area), tree.Species,
				tree.DiameterClass, tree.Height, tree.Timestamp, tree.Operator, gps,
			); err != nil {
				return eris.Wrapf(err, "sqlite: import sample tree %d", i)
			}
		}

		for i, tree := range doc.InventoryTrees {
			gps, err := marshalGPS(tree.GPS)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO inventory_trees (id, project_id, species, diameter_class, timestamp, operator, gps)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				uuid.New().String(), projectID, tree.Species,
				tree.DiameterClass, tree.Timestamp, tree.Operator, gps,
			); err != nil {
				return eris.Wrapf(err, "sqlite: import inventory tree %d", i)
			}
		}

		for species, summary := range doc.HeightAverages {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO height_summaries (project_id, species, average, count, min, max, updated_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				projectID, species, summary.Average, summary.Count, summary.Min, summary.Max, now,
			); err != nil {
				return eris.Wrapf(err, "sqlite: import height summary %s", species)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	return projectID, nil
}

// --- Diagnostics ---

func (s *SQLiteStore) Counts(ctx context.Context) (Counts, error) {
	var counts Counts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM projects),
			(SELECT COUNT(*) FROM sample_trees),
			(SELECT COUNT(*) FROM inventory_trees)`).
		Scan(&counts.Projects, &counts.SampleTrees, &counts.InventoryTrees)
	return counts, eris.Wrap(err, "sqlite: counts")
}

// --- helpers ---

func scanProject(row *sql.Row) (*model.Project, error) {
	var project model.Project
	var catalogJSON, status string
	err := row.Scan(&project.ID, &project.Name, &project.Description, &project.Operator,
		&project.Location, &project.InventoryAreaHa, &catalogJSON, &status,
		&project.CreatedAt, &project.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, eris.Wrap(ErrNotFound, "project")
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan project")
	}
	if err := json.Unmarshal([]byte(catalogJSON), &project.SpeciesCatalog); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal catalog")
	}
	project.Status = model.ProjectStatus(status)
	return &project, nil
}

func validateTree(project *model.Project, species string, diameterClass int) error {
	if _, ok := project.SpeciesCatalog.Resolve(species); !ok {
		return eris.Wrapf(ErrValidation, "species %q not in project catalog", species)
	}
	if diameterClass <= 0 {
		return eris.Wrap(ErrValidation, "diameter class must be positive")
	}
	return nil
}

func fillTreeDefaults(id *string, timestamp *time.Time) {
	if *id == "" {
		*id = uuid.New().String()
	}
	if timestamp.IsZero() {
		*timestamp = time.Now().UTC()
	}
}

func marshalGPS(fix *model.GPSFix) (any, error) {
	if fix == nil {
		return nil, nil
	}
	data, err := json.Marshal(fix)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal gps")
	}
	return string(data), nil
}

func unmarshalGPS(data string) (*model.GPSFix, error) {
	var fix model.GPSFix
	if err := json.Unmarshal([]byte(data), &fix); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal gps")
	}
	return &fix, nil
}

func checkRowsAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "rows affected")
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", kind, id)
	}
	return nil
}
