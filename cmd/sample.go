package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/silvatech/forestctl/internal/model"
	"github.com/silvatech/forestctl/internal/sampling"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Capture sample plot measurements",
	Long:  "Drives the capture sequence inside a sampling plot: area, species, diameter, height. The sequence survives across invocations.",
}

// initMachine resumes the capture state machine for the current project.
func initMachine(cmd *cobra.Command) (*sampling.Machine, func(), error) {
	ctx := cmd.Context()

	reg, st, err := initSession(ctx)
	if err != nil {
		return nil, nil, err
	}

	machine := sampling.NewMachine(st, reg.Current(), cfg.DiameterBounds())
	if err := machine.Load(ctx); err != nil {
		st.Close()
		return nil, nil, err
	}
	return machine, func() { st.Close() }, nil
}

// -- sample area --

var sampleAreaCmd = &cobra.Command{
	Use:   "area <1-5>",
	Short: "Switch the active sampling plot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		machine, done, err := initMachine(cmd)
		if err != nil {
			return err
		}
		defer done()

		if err := machine.SelectArea(cmd.Context(), model.SampleArea("area"+args[0])); err != nil {
			return eris.Wrap(err, "sample area")
		}

		fmt.Printf("Active plot: %s.\n", machine.Area())
		return nil
	},
}

// -- sample species --

var sampleSpeciesCmd = &cobra.Command{
	Use:   "species <species-id>",
	Short: "Start a capture for the given species",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		machine, done, err := initMachine(cmd)
		if err != nil {
			return err
		}
		defer done()

		if err := machine.SelectSpecies(cmd.Context(), args[0]); err != nil {
			return eris.Wrap(err, "sample species")
		}

		fmt.Printf("%s\n", machine)
		return nil
	},
}

// -- sample diameter --

var sampleDiameterCmd = &cobra.Command{
	Use:   "diameter <cm>",
	Short: "Record the diameter class for the pending capture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		class, err := strconv.Atoi(args[0])
		if err != nil {
			return eris.Wrapf(err, "sample diameter: %q is not a whole number of cm", args[0])
		}

		machine, done, err := initMachine(cmd)
		if err != nil {
			return err
		}
		defer done()

		if err := machine.CaptureDiameter(cmd.Context(), class); err != nil {
			return eris.Wrap(err, "sample diameter")
		}

		fmt.Printf("%s\n", machine)
		return nil
	},
}

// -- sample height --

var sampleHeightCmd = &cobra.Command{
	Use:   "height <meters>",
	Short: "Record the height and commit the capture",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		height, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return eris.Wrapf(err, "sample height: %q is not a number of meters", args[0])
		}

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		machine := sampling.NewMachine(st, reg.Current(), cfg.DiameterBounds())
		if err := machine.Load(ctx); err != nil {
			return err
		}

		id, err := machine.CaptureHeight(ctx, height, currentOperator(ctx, reg, st), gpsFromFlags(cmd))
		if err != nil {
			return eris.Wrap(err, "sample height")
		}

		fmt.Printf("Committed %s. %s\n", truncateID(id), machine)
		return nil
	},
}

// -- sample list --

var sampleListCmd = &cobra.Command{
	Use:   "list",
	Short: "List sample trees in the current project",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		areaN, _ := cmd.Flags().GetString("area")
		area := model.SampleArea("")
		if areaN != "" {
			area = model.SampleArea("area" + areaN)
		}

		trees, err := st.ListSampleTrees(ctx, reg.Current().ID, area)
		if err != nil {
			return eris.Wrap(err, "sample list")
		}
		if len(trees) == 0 {
			fmt.Fprintln(os.Stderr, "No sample trees recorded.")
			return nil
		}

		formatSampleTrees(os.Stdout, trees, reg.Current().SpeciesCatalog)
		return nil
	},
}

// -- sample delete --

var sampleDeleteCmd = &cobra.Command{
	Use:   "delete <tree-id>",
	Short: "Delete a sample tree and rebuild the height summaries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		machine, done, err := initMachine(cmd)
		if err != nil {
			return err
		}
		defer done()

		if err := machine.DeleteSampleTree(cmd.Context(), args[0]); err != nil {
			return eris.Wrap(err, "sample delete")
		}

		fmt.Println("Deleted; height summaries rebuilt.")
		return nil
	},
}

// -- sample status --

var sampleStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the capture sequence stands",
	RunE: func(cmd *cobra.Command, _ []string) error {
		machine, done, err := initMachine(cmd)
		if err != nil {
			return err
		}
		defer done()

		fmt.Printf("%s\n", machine)
		return nil
	},
}

func init() {
	sampleListCmd.Flags().String("area", "", "restrict to one plot (1-5)")

	sampleHeightCmd.Flags().Float64("lat", 0, "latitude of the tree")
	sampleHeightCmd.Flags().Float64("lng", 0, "longitude of the tree")
	sampleHeightCmd.Flags().Float64("accuracy", 0, "GPS accuracy in meters")

	sampleCmd.AddCommand(sampleAreaCmd)
	sampleCmd.AddCommand(sampleSpeciesCmd)
	sampleCmd.AddCommand(sampleDiameterCmd)
	sampleCmd.AddCommand(sampleHeightCmd)
	sampleCmd.AddCommand(sampleListCmd)
	sampleCmd.AddCommand(sampleDeleteCmd)
	sampleCmd.AddCommand(sampleStatusCmd)
	rootCmd.AddCommand(sampleCmd)
}

// gpsFromFlags reads the optional position flags; nil when absent.
func gpsFromFlags(cmd *cobra.Command) *model.GPSFix {
	lat, _ := cmd.Flags().GetFloat64("lat")
	lng, _ := cmd.Flags().GetFloat64("lng")
	if lat == 0 && lng == 0 {
		return nil
	}
	accuracy, _ := cmd.Flags().GetFloat64("accuracy")
	return &model.GPSFix{Lat: lat, Lng: lng, Accuracy: accuracy}
}

// formatSampleTrees writes a tabular sample tree listing.
func formatSampleTrees(out io.Writer, trees []model.SampleTree, catalog model.SpeciesCatalog) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tAREA\tSPECIES\tDIAM_CM\tHEIGHT_M\tGPS\tCAPTURED")
	for _, tree := range trees {
		name := tree.Species
		if def, ok := catalog.Resolve(tree.Species); ok {
			name = def.Name
		}
		gps := "-"
		if tree.GPS != nil {
			gps = fmt.Sprintf("%.5f,%.5f", tree.GPS.Lat, tree.GPS.Lng)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1f\t%s\t%s\n",
			truncateID(tree.ID), tree.Area, name, tree.DiameterClass, tree.Height,
			gps, tree.Timestamp.Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}
