package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/silvatech/forestctl/internal/config"
	"github.com/silvatech/forestctl/internal/geo"
	"github.com/silvatech/forestctl/internal/sheets"
	"github.com/silvatech/forestctl/internal/stats"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Submit the current project to the configured spreadsheet endpoint",
	Long:  "Posts the full snapshot plus derived stand statistics as one form submission. A timed-out submission may still have landed; it is reported as unknown, never as failed, and local data is untouched either way.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		if err := config.Validate(cfg, "sync"); err != nil {
			return err
		}

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		project := reg.Current()
		doc, err := st.ExportProject(ctx, project.ID)
		if err != nil {
			return eris.Wrap(err, "sync")
		}
		samples, err := st.ListSampleTrees(ctx, project.ID, "")
		if err != nil {
			return eris.Wrap(err, "sync")
		}
		inventory, err := st.ListInventoryTrees(ctx, project.ID)
		if err != nil {
			return eris.Wrap(err, "sync")
		}
		summaries, err := st.HeightSummaries(ctx, project.ID)
		if err != nil {
			return eris.Wrap(err, "sync")
		}

		spatial, err := geo.Summarize(geo.CollectFixes(samples, inventory))
		if err != nil {
			return eris.Wrap(err, "sync")
		}

		payload := sheets.BuildPayload(doc, stats.Compute(project, samples, inventory, summaries), spatial)
		client := sheets.NewClient(cfg.Sync.Endpoint, cfg.SyncTimeout())

		zap.L().Info("submitting survey",
			zap.String("project", project.Name),
			zap.Int("sampleTrees", len(samples)),
			zap.Int("inventoryTrees", len(inventory)))

		if err := client.Submit(ctx, payload); err != nil {
			if eris.Is(err, sheets.ErrSubmitTimeout) {
				fmt.Fprintln(os.Stderr, "The endpoint did not answer in time. The submission may still have been recorded; check the sheet before retrying.")
				return err
			}
			return eris.Wrap(err, "sync")
		}

		fmt.Printf("Submitted %s.\n", project.Name)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
