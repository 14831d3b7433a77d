package snapshot

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/silvatech/forestctl/internal/model"
)

// WriteCSV renders the document as a sectioned CSV: project header,
// sample plot measurements, then the stand tally. Sections are
// separated by blank lines so the file opens cleanly in a spreadsheet.
func WriteCSV(w io.Writer, doc *Document) error {
	cw := csv.NewWriter(w)

	write := func(record ...string) {
		// csv.Writer defers errors to Flush.
		_ = cw.Write(record)
	}

	write("PROJECT")
	write("Name", "Description", "Operator", "Location", "Area_ha", "Created")
	write(
		doc.Project.Name,
		doc.Project.Description,
		doc.Project.Operator,
		doc.Project.Location,
		formatFloat(doc.Project.InventoryAreaHa),
		doc.Project.CreatedAt.Format(time.RFC3339),
	)
	write()

	write("SAMPLE_TREES")
	write("Area", "Species", "Diameter_cm", "Height_m", "GPS_Lat", "GPS_Lng", "Timestamp", "Operator")
	for _, tree := range doc.SampleTrees {
		lat, lng := gpsColumns(tree.GPS)
		write(
			string(tree.Area),
			speciesName(doc, tree.Species),
			strconv.Itoa(tree.DiameterClass),
			formatFloat(tree.Height),
			lat, lng,
			tree.Timestamp.Format(time.RFC3339),
			tree.Operator,
		)
	}
	write()

	write("INVENTORY_TREES")
	write("Species", "Diameter_cm", "GPS_Lat", "GPS_Lng", "Timestamp", "Operator")
	for _, tree := range doc.InventoryTrees {
		lat, lng := gpsColumns(tree.GPS)
		write(
			speciesName(doc, tree.Species),
			strconv.Itoa(tree.DiameterClass),
			lat, lng,
			tree.Timestamp.Format(time.RFC3339),
			tree.Operator,
		)
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "snapshot: write csv")
}

func speciesName(doc *Document, id string) string {
	if def, ok := doc.Project.SpeciesCatalog.Resolve(id); ok {
		return def.Name
	}
	return id
}

func gpsColumns(fix *model.GPSFix) (string, string) {
	if fix == nil {
		return "", ""
	}
	return fmt.Sprintf("%.6f", fix.Lat), fmt.Sprintf("%.6f", fix.Lng)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
