// Package registry owns the session context: which project is current,
// how projects are created and retired, and when pending edits are
// flushed. All durable state lives in the store; the registry only
// caches the current project for the life of one process.
package registry

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/silvatech/forestctl/internal/model"
	"github.com/silvatech/forestctl/internal/store"
)

// ErrLastProject is returned when deleting the only remaining project.
var ErrLastProject = eris.New("cannot delete the last project")

// settingCurrentProject persists the current-project pointer across
// process restarts.
const settingCurrentProject = "currentProject"

// defaultProjectName names the project created on first run so the
// operator can start capturing immediately.
const defaultProjectName = "Nuovo Progetto"

// Registry is the session-scoped project context.
type Registry struct {
	store   store.Store
	current *model.Project
}

// New returns a Registry over the given store. Call Init before use.
func New(s store.Store) *Registry {
	return &Registry{store: s}
}

// Init resumes the previous session: it restores the persisted
// current-project pointer, falling back to the most recently updated
// project if the pointer is stale, and creates a starter project when
// the store is empty.
func (r *Registry) Init(ctx context.Context) error {
	summaries, err := r.store.ListProjects(ctx)
	if err != nil {
		return eris.Wrap(err, "registry: list projects")
	}

	if len(summaries) == 0 {
		id, err := r.store.CreateProject(ctx, &model.Project{Name: defaultProjectName})
		if err != nil {
			return eris.Wrap(err, "registry: create starter project")
		}
		zap.L().Info("created starter project", zap.String("id", id))
		return r.SetCurrentProject(ctx, id)
	}

	id, err := r.store.GetSetting(ctx, settingCurrentProject, "")
	if err != nil {
		return eris.Wrap(err, "registry: read current project setting")
	}
	if id != "" {
		if err := r.SetCurrentProject(ctx, id); err == nil {
			return nil
		} else if !eris.Is(err, store.ErrNotFound) {
			return err
		}
		zap.L().Warn("current project setting is stale", zap.String("id", id))
	}
	// Most recently updated project wins.
	return r.SetCurrentProject(ctx, summaries[0].ID)
}

// Current returns the project the session operates on. Nil before Init.
func (r *Registry) Current() *model.Project {
	return r.current
}

// SetCurrentProject switches the session to the given project and
// persists the pointer.
func (r *Registry) SetCurrentProject(ctx context.Context, id string) error {
	project, err := r.store.GetProject(ctx, id)
	if err != nil {
		return err
	}
	if err := r.store.SetSetting(ctx, settingCurrentProject, id); err != nil {
		return eris.Wrap(err, "registry: persist current project")
	}
	r.current = project
	return nil
}

// Create adds a project and makes it current.
func (r *Registry) Create(ctx context.Context, project *model.Project) (string, error) {
	id, err := r.store.CreateProject(ctx, project)
	if err != nil {
		return "", err
	}
	if err := r.SetCurrentProject(ctx, id); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes a project and all its records. The last remaining
// project can never be deleted; if the current project goes away the
// session moves to the most recently updated survivor.
func (r *Registry) Delete(ctx context.Context, id string) error {
	summaries, err := r.store.ListProjects(ctx)
	if err != nil {
		return eris.Wrap(err, "registry: list projects")
	}
	if len(summaries) <= 1 {
		return eris.Wrap(ErrLastProject, id)
	}

	if err := r.store.DeleteProject(ctx, id); err != nil {
		return err
	}

	if r.current != nil && r.current.ID == id {
		r.current = nil
		for _, sum := range summaries {
			if sum.ID != id {
				return r.SetCurrentProject(ctx, sum.ID)
			}
		}
	}
	return nil
}

// Duplicate copies a project through the snapshot contract: export,
// rename, import under fresh ids. Returns the new project's ID.
func (r *Registry) Duplicate(ctx context.Context, id string) (string, error) {
	doc, err := r.store.ExportProject(ctx, id)
	if err != nil {
		return "", err
	}
	doc.Project.Name += " (copy)"
	return r.store.ImportProject(ctx, doc)
}

// SaveSession flushes pending edits on the current project (area,
// operator, catalog changes). This is the only commit point for
// project-level fields.
func (r *Registry) SaveSession(ctx context.Context) error {
	if r.current == nil {
		return eris.Wrap(store.ErrNotFound, "no current project")
	}
	return r.store.UpdateProject(ctx, r.current)
}

// Summaries lists every project, most recently updated first.
func (r *Registry) Summaries(ctx context.Context) ([]model.ProjectSummary, error) {
	return r.store.ListProjects(ctx)
}
