// Package sampling drives tree capture inside a sampling plot as a
// small state machine: pick a species, read a diameter, read a height,
// commit. A diameter without its height never reaches the store; the
// per-species height summaries are recomputed in full after every
// commit or deletion.
package sampling

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/silvatech/forestctl/internal/model"
	"github.com/silvatech/forestctl/internal/stats"
	"github.com/silvatech/forestctl/internal/store"
)

// ErrInvalidState is returned when a capture step arrives out of order.
var ErrInvalidState = eris.New("capture step out of order")

// State names the machine's position in the capture sequence.
type State string

const (
	Idle             State = "idle"
	SpeciesSelected  State = "speciesSelected"
	DiameterCaptured State = "diameterCaptured"
)

// Machine is the per-project capture state. It is persisted in the
// settings table so a capture sequence survives across process runs.
type Machine struct {
	store   store.Store
	project *model.Project
	bounds  model.DiameterBounds

	state    State
	area     model.SampleArea
	species  string
	diameter int
}

// persisted is the settings-table shape of the machine.
type persisted struct {
	State    State            `json:"state"`
	Area     model.SampleArea `json:"area"`
	Species  string           `json:"species,omitempty"`
	Diameter int              `json:"diameter,omitempty"`
}

// NewMachine returns an idle machine for the project, positioned on the
// first sampling plot.
func NewMachine(s store.Store, project *model.Project, bounds model.DiameterBounds) *Machine {
	return &Machine{
		store:   s,
		project: project,
		bounds:  bounds,
		state:   Idle,
		area:    model.Area1,
	}
}

func (m *Machine) settingKey() string {
	return "sampling:" + m.project.ID
}

// Load restores persisted capture state for the project. A missing or
// unreadable record leaves the machine idle.
func (m *Machine) Load(ctx context.Context) error {
	raw, err := m.store.GetSetting(ctx, m.settingKey(), "")
	if err != nil {
		return eris.Wrap(err, "sampling: load state")
	}
	if raw == "" {
		return nil
	}
	var p persisted
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		zap.L().Warn("discarding unreadable capture state", zap.Error(err))
		return nil
	}
	m.state, m.area, m.species, m.diameter = p.State, p.Area, p.Species, p.Diameter
	if !m.area.Valid() {
		m.area = model.Area1
	}
	return nil
}

func (m *Machine) save(ctx context.Context) error {
	raw, err := json.Marshal(persisted{
		State: m.state, Area: m.area, Species: m.species, Diameter: m.diameter,
	})
	if err != nil {
		return eris.Wrap(err, "sampling: marshal state")
	}
	return m.store.SetSetting(ctx, m.settingKey(), string(raw))
}

// State reports the machine's current position.
func (m *Machine) State() State { return m.state }

// Area reports the active sampling plot.
func (m *Machine) Area() model.SampleArea { return m.area }

// Species reports the selected species ID, if any.
func (m *Machine) Species() string { return m.species }

// Diameter reports the pending diameter class, if any.
func (m *Machine) Diameter() int { return m.diameter }

// SelectArea moves the machine to another sampling plot. Any capture in
// progress is discarded, never committed half-done.
func (m *Machine) SelectArea(ctx context.Context, area model.SampleArea) error {
	if !area.Valid() {
		return eris.Wrapf(store.ErrValidation, "unknown sampling area %q", area)
	}
	if m.state != Idle {
		zap.L().Info("discarding capture in progress on area switch",
			zap.String("species", m.species), zap.Int("diameter", m.diameter))
	}
	m.area = area
	m.state = Idle
	m.species = ""
	m.diameter = 0
	return m.save(ctx)
}

// SelectSpecies starts (or restarts) a capture for the given species.
// A pending diameter is discarded.
func (m *Machine) SelectSpecies(ctx context.Context, speciesID string) error {
	if _, ok := m.project.SpeciesCatalog.Resolve(speciesID); !ok {
		return eris.Wrapf(store.ErrValidation, "species %q not in project catalog", speciesID)
	}
	m.species = speciesID
	m.diameter = 0
	m.state = SpeciesSelected
	return m.save(ctx)
}

// CaptureDiameter records the diameter class for the pending capture.
// Recapturing before the height lands simply replaces the value.
func (m *Machine) CaptureDiameter(ctx context.Context, class int) error {
	if m.state == Idle {
		return eris.Wrap(ErrInvalidState, "select a species before the diameter")
	}
	if err := model.ValidateDiameter(class, m.bounds); err != nil {
		return eris.Wrap(store.ErrValidation, err.Error())
	}
	m.diameter = class
	m.state = DiameterCaptured
	return m.save(ctx)
}

// CaptureHeight completes the capture: the tree is committed and the
// project's height summaries are rebuilt from scratch. The machine
// stays on the same species for rapid repeat capture.
func (m *Machine) CaptureHeight(ctx context.Context, height float64, operator string, gps *model.GPSFix) (string, error) {
	if m.state != DiameterCaptured {
		return "", eris.Wrap(ErrInvalidState, "capture a diameter before the height")
	}
	if err := model.ValidateHeight(height); err != nil {
		return "", eris.Wrap(store.ErrValidation, err.Error())
	}

	tree := &model.SampleTree{
		Area:          m.area,
		Species:       m.species,
		DiameterClass: m.diameter,
		Height:        height,
		Operator:      operator,
		GPS:           gps,
	}
	id, err := m.store.AddSampleTree(ctx, m.project.ID, tree)
	if err != nil {
		return "", err
	}

	if err := m.rebuildSummaries(ctx); err != nil {
		return "", err
	}

	m.diameter = 0
	m.state = SpeciesSelected
	if err := m.save(ctx); err != nil {
		return "", err
	}
	zap.L().Info("sample tree captured",
		zap.String("id", id),
		zap.String("species", tree.Species),
		zap.Int("diameter", tree.DiameterClass),
		zap.Float64("height", tree.Height))
	return id, nil
}

// ForgetSpecies drops the machine back to idle when the given species
// is the one selected. Called when a species leaves the project catalog
// so the machine never points at a removed entry.
func (m *Machine) ForgetSpecies(ctx context.Context, speciesID string) error {
	if m.species != speciesID {
		return nil
	}
	m.species = ""
	m.diameter = 0
	m.state = Idle
	return m.save(ctx)
}

// DeleteSampleTree removes a committed sample and rebuilds the height
// summaries. Summaries are never patched incrementally.
func (m *Machine) DeleteSampleTree(ctx context.Context, id string) error {
	if err := m.store.DeleteSampleTree(ctx, id); err != nil {
		return err
	}
	return m.rebuildSummaries(ctx)
}

func (m *Machine) rebuildSummaries(ctx context.Context) error {
	trees, err := m.store.ListSampleTrees(ctx, m.project.ID, "")
	if err != nil {
		return err
	}
	return m.store.ReplaceHeightSummaries(ctx, m.project.ID, stats.HeightAverages(trees))
}

// String renders the machine position for status output.
func (m *Machine) String() string {
	switch m.state {
	case SpeciesSelected:
		return fmt.Sprintf("%s: species %s selected", m.area, m.species)
	case DiameterCaptured:
		return fmt.Sprintf("%s: %s at %d cm, waiting for height", m.area, m.species, m.diameter)
	default:
		return fmt.Sprintf("%s: idle", m.area)
	}
}
