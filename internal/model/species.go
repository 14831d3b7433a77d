package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// SpeciesDefinition describes one entry in a project's species catalog.
// The ID is derived from the display name, so it stays stable across
// exports as long as the name does not change.
type SpeciesDefinition struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Icon          string  `json:"icon,omitempty"`
	FormFactor    float64 `json:"formFactor"`
	DefaultHeight float64 `json:"defaultHeight,omitempty"` // meters; 0 means unset
}

// SpeciesCatalog maps species ID to its definition.
type SpeciesCatalog map[string]SpeciesDefinition

// SpeciesID derives the catalog key for a display name: diacritics are
// stripped, apostrophes dropped, and every other non-alphanumeric run
// collapses to a single dash.
func SpeciesID(name string) string {
	stripped, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		name,
	)
	if err != nil {
		stripped = name
	}

	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(stripped) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r == '\'' || r == '’':
			// drop apostrophes entirely: "Pino d'Aleppo" -> "pino-daleppo"
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// DefaultCatalog returns the stock Mediterranean conifer catalog used
// when a project is created without a seed file.
func DefaultCatalog() SpeciesCatalog {
	defs := []SpeciesDefinition{
		{Name: "Pino Domestico", Icon: "\U0001F332", FormFactor: 0.45},
		{Name: "Pino Marittimo", Icon: "\U0001F332", FormFactor: 0.42},
		{Name: "Pino d'Aleppo", Icon: "\U0001F332", FormFactor: 0.40},
		{Name: "Cipresso Comune", Icon: "\U0001F333", FormFactor: 0.48},
		{Name: "Altro", Icon: "\U0001F331", FormFactor: 0.45},
	}

	catalog := make(SpeciesCatalog, len(defs))
	for _, def := range defs {
		def.ID = SpeciesID(def.Name)
		catalog[def.ID] = def
	}
	return catalog
}

// Resolve looks up a species by ID.
func (c SpeciesCatalog) Resolve(id string) (SpeciesDefinition, bool) {
	def, ok := c[id]
	return def, ok
}

// Clone returns a deep copy of the catalog.
func (c SpeciesCatalog) Clone() SpeciesCatalog {
	out := make(SpeciesCatalog, len(c))
	for id, def := range c {
		out[id] = def
	}
	return out
}
