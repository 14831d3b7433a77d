package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/silvatech/forestctl/internal/model"
	"github.com/silvatech/forestctl/internal/snapshot"
	"github.com/silvatech/forestctl/internal/store"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the current project (or every project) to a file",
	Long:  "Writes a project snapshot as JSON (the portable exchange format), CSV, XLSX, or a point shapefile of GPS-tagged trees.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		format, _ := cmd.Flags().GetString("format")
		if !validExportFormat(format) {
			return eris.Errorf("export: unknown format %q (json, csv, xlsx, shp)", format)
		}
		outDir, _ := cmd.Flags().GetString("out")

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if all, _ := cmd.Flags().GetBool("all"); all {
			return exportAll(ctx, st, format, outDir)
		}

		path, err := exportOne(ctx, st, reg.Current().ID, reg.Current().Name, format, outDir)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s.\n", path)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "json", "output format: json, csv, xlsx, shp")
	exportCmd.Flags().String("out", ".", "output directory")
	exportCmd.Flags().Bool("all", false, "export every project")
	rootCmd.AddCommand(exportCmd)
}

func validExportFormat(format string) bool {
	switch format {
	case "json", "csv", "xlsx", "shp":
		return true
	}
	return false
}

// exportOne snapshots a project and writes it in the chosen format.
func exportOne(ctx context.Context, st store.Store, projectID, projectName, format, outDir string) (string, error) {
	doc, err := st.ExportProject(ctx, projectID)
	if err != nil {
		return "", eris.Wrap(err, "export")
	}

	path := filepath.Join(outDir, exportFileName(projectName, format))
	switch format {
	case "json":
		data, err := doc.Encode()
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return "", eris.Wrap(err, "export: write file")
		}
	case "csv":
		f, err := os.Create(path)
		if err != nil {
			return "", eris.Wrap(err, "export: create file")
		}
		defer f.Close() //nolint:errcheck
		if err := snapshot.WriteCSV(f, doc); err != nil {
			return "", err
		}
	case "xlsx":
		if err := snapshot.WriteXLSX(path, doc); err != nil {
			return "", err
		}
	case "shp":
		n, err := snapshot.WriteSHP(path, doc)
		if err != nil {
			return "", err
		}
		zap.L().Info("wrote shapefile", zap.String("path", path), zap.Int("points", n))
	}
	return path, nil
}

// exportAll writes every project concurrently, one file each.
func exportAll(ctx context.Context, st store.Store, format, outDir string) error {
	summaries, err := st.ListProjects(ctx)
	if err != nil {
		return eris.Wrap(err, "export all")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, sum := range summaries {
		sum := sum
		g.Go(func() error {
			path, err := exportOne(gctx, st, sum.ID, sum.Name, format, outDir)
			if err != nil {
				return eris.Wrapf(err, "export all: project %s", sum.Name)
			}
			zap.L().Info("exported project", zap.String("path", path))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Printf("Exported %d projects to %s.\n", len(summaries), outDir)
	return nil
}

// exportFileName derives a safe file name from the project name.
func exportFileName(projectName, format string) string {
	slug := model.SpeciesID(projectName)
	if slug == "" {
		slug = "project"
	}
	return slug + "." + format
}
