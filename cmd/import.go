package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/silvatech/forestctl/internal/snapshot"
)

var importCmd = &cobra.Command{
	Use:   "import <snapshot.json>",
	Short: "Import a project snapshot",
	Long:  "Loads an exported JSON snapshot as a new project with fresh record IDs. The project name is kept as exported; an import never overwrites existing data.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return eris.Wrap(err, "import: read file")
		}
		doc, err := snapshot.Decode(data)
		if err != nil {
			return err
		}

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		id, err := st.ImportProject(ctx, doc)
		if err != nil {
			return eris.Wrap(err, "import")
		}

		useIt, _ := cmd.Flags().GetBool("use")
		if useIt {
			if err := reg.SetCurrentProject(ctx, id); err != nil {
				return err
			}
		}

		fmt.Printf("Imported %s (%s): %d sample trees, %d inventory trees.\n",
			doc.Project.Name, truncateID(id), len(doc.SampleTrees), len(doc.InventoryTrees))
		return nil
	},
}

func init() {
	importCmd.Flags().Bool("use", false, "make the imported project current")
	rootCmd.AddCommand(importCmd)
}
