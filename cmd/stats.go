package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/silvatech/forestctl/internal/model"
	"github.com/silvatech/forestctl/internal/stats"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show stand statistics for the current project",
	Long:  "Per-hectare stem density, basal area and volume derived from the stand tally, plus the per-species breakdown and height analysis.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		project := reg.Current()
		samples, err := st.ListSampleTrees(ctx, project.ID, "")
		if err != nil {
			return eris.Wrap(err, "stats")
		}
		inventory, err := st.ListInventoryTrees(ctx, project.ID)
		if err != nil {
			return eris.Wrap(err, "stats")
		}
		summaries, err := st.HeightSummaries(ctx, project.ID)
		if err != nil {
			return eris.Wrap(err, "stats")
		}

		result := stats.Compute(project, samples, inventory, summaries)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		formatStats(os.Stdout, project.Name, result, summaries)
		return nil
	},
}

func init() {
	statsCmd.Flags().Bool("json", false, "emit the full roll-up as JSON")
	rootCmd.AddCommand(statsCmd)
}

// formatStats renders the stand roll-up for the terminal.
func formatStats(out io.Writer, projectName string, s stats.ProjectStats, summaries model.HeightSummaries) {
	fmt.Fprintf(out, "Stand statistics for %s (%.1f ha)\n\n", projectName, s.AreaHa)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(w, "Sample trees:\t%d\n", s.SampleTrees)
	_, _ = fmt.Fprintf(w, "Inventory trees:\t%d\n", s.InventoryTrees)
	_, _ = fmt.Fprintf(w, "Stems/ha:\t%d\n", s.TreesPerHa)
	_, _ = fmt.Fprintf(w, "Basal area:\t%.4f m² (%.4f m²/ha)\n", s.TotalBasalArea, s.BasalAreaPerHa)
	_, _ = fmt.Fprintf(w, "Volume:\t%.4f m³ (%.4f m³/ha)\n", s.TotalVolume, s.VolumePerHa)
	_ = w.Flush()

	if len(s.Breakdown) > 0 {
		fmt.Fprintln(out, "\nSpecies breakdown")
		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "SPECIES\tSTEMS\tSHARE\tBASAL_M2\tVOLUME_M3")
		for _, entry := range s.Breakdown {
			_, _ = fmt.Fprintf(w, "%s\t%d\t%.1f%%\t%.4f\t%.4f\n",
				entry.Species, entry.Count, entry.Percent, entry.BasalArea, entry.Volume)
		}
		_ = w.Flush()
	}

	if len(summaries) > 0 {
		fmt.Fprintln(out, "\nHeight analysis")
		ids := make([]string, 0, len(summaries))
		for id := range summaries {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "SPECIES\tSAMPLES\tAVG_M\tMIN_M\tMAX_M")
		for _, id := range ids {
			h := summaries[id]
			_, _ = fmt.Fprintf(w, "%s\t%d\t%.1f\t%.1f\t%.1f\n", id, h.Count, h.Average, h.Min, h.Max)
		}
		_ = w.Flush()
	}
}
