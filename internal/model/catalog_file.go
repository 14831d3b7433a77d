package model

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// catalogFile is the YAML shape of a species seed file:
//
//	species:
//	  - name: Pino Domestico
//	    icon: "🌲"
//	    form_factor: 0.45
//	    default_height: 14
type catalogFile struct {
	Species []struct {
		Name          string  `yaml:"name"`
		Icon          string  `yaml:"icon"`
		FormFactor    float64 `yaml:"form_factor"`
		DefaultHeight float64 `yaml:"default_height"`
	} `yaml:"species"`
}

// LoadCatalogFile reads a species catalog seed file. IDs are derived
// from names and must not collide.
func LoadCatalogFile(path string) (SpeciesCatalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read seed file")
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrap(err, "catalog: parse seed file")
	}
	if len(file.Species) == 0 {
		return nil, eris.New("catalog: seed file lists no species")
	}

	catalog := make(SpeciesCatalog, len(file.Species))
	for _, entry := range file.Species {
		def := SpeciesDefinition{
			ID:            SpeciesID(entry.Name),
			Name:          entry.Name,
			Icon:          entry.Icon,
			FormFactor:    entry.FormFactor,
			DefaultHeight: entry.DefaultHeight,
		}
		if err := ValidateSpecies(def); err != nil {
			return nil, eris.Wrapf(err, "catalog: species %q", entry.Name)
		}
		if _, dup := catalog[def.ID]; dup {
			return nil, eris.Errorf("catalog: duplicate species id %q", def.ID)
		}
		catalog[def.ID] = def
	}
	return catalog, nil
}
