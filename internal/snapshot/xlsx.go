package snapshot

import (
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/silvatech/forestctl/internal/model"
)

// WriteXLSX renders the document as a workbook with one sheet per
// section, matching the CSV layout.
func WriteXLSX(path string, doc *Document) error {
	file := xlsx.NewFile()

	project, err := file.AddSheet("Project")
	if err != nil {
		return eris.Wrap(err, "snapshot: add project sheet")
	}
	addRow(project, "Name", "Description", "Operator", "Location", "Area_ha", "Created")
	row := project.AddRow()
	row.AddCell().Value = doc.Project.Name
	row.AddCell().Value = doc.Project.Description
	row.AddCell().Value = doc.Project.Operator
	row.AddCell().Value = doc.Project.Location
	row.AddCell().SetFloat(doc.Project.InventoryAreaHa)
	row.AddCell().Value = doc.Project.CreatedAt.Format(time.RFC3339)

	samples, err := file.AddSheet("Sample Trees")
	if err != nil {
		return eris.Wrap(err, "snapshot: add sample sheet")
	}
	addRow(samples, "Area", "Species", "Diameter_cm", "Height_m", "GPS_Lat", "GPS_Lng", "Timestamp", "Operator")
	for _, tree := range doc.SampleTrees {
		row := samples.AddRow()
		row.AddCell().Value = string(tree.Area)
		row.AddCell().Value = speciesName(doc, tree.Species)
		row.AddCell().SetInt(tree.DiameterClass)
		row.AddCell().SetFloat(tree.Height)
		addGPSCells(row, tree.GPS)
		row.AddCell().Value = tree.Timestamp.Format(time.RFC3339)
		row.AddCell().Value = tree.Operator
	}

	inventory, err := file.AddSheet("Inventory")
	if err != nil {
		return eris.Wrap(err, "snapshot: add inventory sheet")
	}
	addRow(inventory, "Species", "Diameter_cm", "GPS_Lat", "GPS_Lng", "Timestamp", "Operator")
	for _, tree := range doc.InventoryTrees {
		row := inventory.AddRow()
		row.AddCell().Value = speciesName(doc, tree.Species)
		row.AddCell().SetInt(tree.DiameterClass)
		addGPSCells(row, tree.GPS)
		row.AddCell().Value = tree.Timestamp.Format(time.RFC3339)
		row.AddCell().Value = tree.Operator
	}

	heights, err := file.AddSheet("Height Averages")
	if err != nil {
		return eris.Wrap(err, "snapshot: add heights sheet")
	}
	addRow(heights, "Species", "Average_m", "Count", "Min_m", "Max_m")
	for species, summary := range doc.HeightAverages {
		row := heights.AddRow()
		row.AddCell().Value = speciesName(doc, species)
		row.AddCell().SetFloat(summary.Average)
		row.AddCell().SetInt(summary.Count)
		row.AddCell().SetFloat(summary.Min)
		row.AddCell().SetFloat(summary.Max)
	}

	return eris.Wrap(file.Save(path), "snapshot: save xlsx")
}

func addRow(sheet *xlsx.Sheet, values ...string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().Value = v
	}
}

func addGPSCells(row *xlsx.Row, fix *model.GPSFix) {
	if fix == nil {
		row.AddCell()
		row.AddCell()
		return
	}
	row.AddCell().SetFloat(fix.Lat)
	row.AddCell().SetFloat(fix.Lng)
}
