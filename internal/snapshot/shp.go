package snapshot

import (
	"github.com/jonas-p/go-shp"
	"github.com/rotisserie/eris"
)

// WriteSHP writes every GPS-tagged tree as a point shapefile for GIS
// use (QGIS and friends). Trees without a fix are skipped; the count of
// written points is returned. Shapefile column names are capped at the
// DBF 10-character limit.
func WriteSHP(path string, doc *Document) (int, error) {
	writer, err := shp.Create(path, shp.POINT)
	if err != nil {
		return 0, eris.Wrap(err, "snapshot: create shapefile")
	}
	defer writer.Close()

	writer.SetFields([]shp.Field{
		shp.StringField("KIND", 10),    // sample | inventory
		shp.StringField("SPECIES", 32),
		shp.NumberField("DIAM_CM", 4),
		shp.FloatField("HEIGHT_M", 8, 2),
		shp.FloatField("ACCURACY", 8, 1),
	})

	n := 0
	for _, tree := range doc.SampleTrees {
		if tree.GPS == nil {
			continue
		}
		writer.Write(&shp.Point{X: tree.GPS.Lng, Y: tree.GPS.Lat})
		writer.WriteAttribute(n, 0, "sample")
		writer.WriteAttribute(n, 1, tree.Species)
		writer.WriteAttribute(n, 2, tree.DiameterClass)
		writer.WriteAttribute(n, 3, tree.Height)
		writer.WriteAttribute(n, 4, tree.GPS.Accuracy)
		n++
	}
	for _, tree := range doc.InventoryTrees {
		if tree.GPS == nil {
			continue
		}
		writer.Write(&shp.Point{X: tree.GPS.Lng, Y: tree.GPS.Lat})
		writer.WriteAttribute(n, 0, "inventory")
		writer.WriteAttribute(n, 1, tree.Species)
		writer.WriteAttribute(n, 2, tree.DiameterClass)
		writer.WriteAttribute(n, 3, 0.0)
		writer.WriteAttribute(n, 4, tree.GPS.Accuracy)
		n++
	}

	return n, nil
}
