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
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Maintain the stand tally (piedilista)",
	Long:  "Diameter-only tree counts across the whole stand, independent of the sampling plots.",
}

// -- inventory add --

var inventoryAddCmd = &cobra.Command{
	Use:   "add <species-id> <diameter-cm>",
	Short: "Count one tree in the stand tally",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		class, err := strconv.Atoi(args[1])
		if err != nil {
			return eris.Wrapf(err, "inventory add: %q is not a whole number of cm", args[1])
		}

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := model.ValidateDiameter(class, cfg.DiameterBounds()); err != nil {
			return eris.Wrap(err, "inventory add")
		}

		tree := &model.InventoryTree{
			Species:       args[0],
			DiameterClass: class,
			Operator:      currentOperator(ctx, reg, st),
			GPS:           gpsFromFlags(cmd),
		}
		id, err := st.AddInventoryTree(ctx, reg.Current().ID, tree)
		if err != nil {
			return eris.Wrap(err, "inventory add")
		}

		fmt.Printf("Counted %s at %d cm (%s).\n", args[0], class, truncateID(id))
		return nil
	},
}

// -- inventory list --

var inventoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stand tally",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		trees, err := st.ListInventoryTrees(ctx, reg.Current().ID)
		if err != nil {
			return eris.Wrap(err, "inventory list")
		}
		if len(trees) == 0 {
			fmt.Fprintln(os.Stderr, "Stand tally is empty.")
			return nil
		}

		formatInventoryTrees(os.Stdout, trees, reg.Current().SpeciesCatalog)
		return nil
	},
}

// -- inventory delete --

var inventoryDeleteCmd = &cobra.Command{
	Use:   "delete <tree-id>",
	Short: "Remove one entry from the stand tally",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		_, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.DeleteInventoryTree(ctx, args[0]); err != nil {
			return eris.Wrap(err, "inventory delete")
		}

		fmt.Println("Deleted.")
		return nil
	},
}

// -- inventory clear --

var inventoryClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the current project's stand tally",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		confirmed, _ := cmd.Flags().GetBool("yes")
		if !confirmed {
			return eris.New("inventory clear: pass --yes to confirm emptying the tally")
		}

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		n, err := st.ClearInventoryTrees(ctx, reg.Current().ID)
		if err != nil {
			return eris.Wrap(err, "inventory clear")
		}

		fmt.Printf("Removed %d entries from %s.\n", n, reg.Current().Name)
		return nil
	},
}

func init() {
	inventoryAddCmd.Flags().Float64("lat", 0, "latitude of the tree")
	inventoryAddCmd.Flags().Float64("lng", 0, "longitude of the tree")
	inventoryAddCmd.Flags().Float64("accuracy", 0, "GPS accuracy in meters")
	inventoryClearCmd.Flags().Bool("yes", false, "confirm emptying the tally")

	inventoryCmd.AddCommand(inventoryAddCmd)
	inventoryCmd.AddCommand(inventoryListCmd)
	inventoryCmd.AddCommand(inventoryDeleteCmd)
	inventoryCmd.AddCommand(inventoryClearCmd)
	rootCmd.AddCommand(inventoryCmd)
}

// formatInventoryTrees writes a tabular stand tally listing.
func formatInventoryTrees(out io.Writer, trees []model.InventoryTree, catalog model.SpeciesCatalog) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tSPECIES\tDIAM_CM\tGPS\tCAPTURED")
	for _, tree := range trees {
		name := tree.Species
		if def, ok := catalog.Resolve(tree.Species); ok {
			name = def.Name
		}
		gps := "-"
		if tree.GPS != nil {
			gps = fmt.Sprintf("%.5f,%.5f", tree.GPS.Lat, tree.GPS.Lng)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			truncateID(tree.ID), name, tree.DiameterClass, gps,
			tree.Timestamp.Format("2006-01-02 15:04"))
	}
	_ = w.Flush()
}
