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
	"github.com/silvatech/forestctl/internal/sampling"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage survey projects",
	Long:  "Commands for creating, listing, switching and retiring forest stand surveys.",
}

// -- project create --

var projectCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a project and make it current",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		project := &model.Project{Name: args[0]}
		project.Description, _ = cmd.Flags().GetString("description")
		project.Operator, _ = cmd.Flags().GetString("operator")
		project.Location, _ = cmd.Flags().GetString("location")
		project.InventoryAreaHa, _ = cmd.Flags().GetFloat64("area")
		if project.InventoryAreaHa == 0 {
			project.InventoryAreaHa = cfg.Project.DefaultAreaHa
		}

		if seedPath, _ := cmd.Flags().GetString("species-file"); seedPath != "" {
			catalog, err := model.LoadCatalogFile(seedPath)
			if err != nil {
				return err
			}
			project.SpeciesCatalog = catalog
		}

		id, err := reg.Create(ctx, project)
		if err != nil {
			return eris.Wrap(err, "project create")
		}

		fmt.Printf("Created project %s (%s), now current.\n", project.Name, truncateID(id))
		return nil
	},
}

// -- project list --

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, most recently updated first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		summaries, err := reg.Summaries(ctx)
		if err != nil {
			return eris.Wrap(err, "project list")
		}

		formatProjectList(os.Stdout, summaries, reg.Current().ID)
		return nil
	},
}

// -- project use --

var projectUseCmd = &cobra.Command{
	Use:   "use <project-id>",
	Short: "Switch the session to another project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := reg.SetCurrentProject(ctx, args[0]); err != nil {
			return eris.Wrap(err, "project use")
		}

		fmt.Printf("Now working on %s.\n", reg.Current().Name)
		return nil
	},
}

// -- project show --

var projectShowCmd = &cobra.Command{
	Use:   "show [project-id]",
	Short: "Show full project details (current project by default)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		project := reg.Current()
		if len(args) == 1 {
			project, err = st.GetProject(ctx, args[0])
			if err != nil {
				return eris.Wrap(err, "project show")
			}
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(project)
	},
}

// -- project delete --

var projectDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project and every record it owns",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := reg.Delete(ctx, args[0]); err != nil {
			return eris.Wrap(err, "project delete")
		}

		fmt.Printf("Deleted. Current project is now %s.\n", reg.Current().Name)
		return nil
	},
}

// -- project duplicate --

var projectDuplicateCmd = &cobra.Command{
	Use:   "duplicate <project-id>",
	Short: "Copy a project with all its records under a new name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		id, err := reg.Duplicate(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "project duplicate")
		}

		copied, err := st.GetProject(ctx, id)
		if err != nil {
			return err
		}
		fmt.Printf("Created %s (%s).\n", copied.Name, truncateID(id))
		return nil
	},
}

// -- project remove-species --

var projectRemoveSpeciesCmd = &cobra.Command{
	Use:   "remove-species <species-id>",
	Short: "Drop a species and every tree recorded under it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if err := st.RemoveSpecies(ctx, reg.Current().ID, args[0]); err != nil {
			return eris.Wrap(err, "project remove-species")
		}

		// A capture pointed at the removed species must not survive.
		machine := sampling.NewMachine(st, reg.Current(), cfg.DiameterBounds())
		if err := machine.Load(ctx); err != nil {
			return err
		}
		if err := machine.ForgetSpecies(ctx, args[0]); err != nil {
			return err
		}

		fmt.Printf("Removed %s and its records from %s.\n", args[0], reg.Current().Name)
		return nil
	},
}

// -- project set --

var projectSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Edit fields of the current project",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		project := reg.Current()
		if name, _ := cmd.Flags().GetString("name"); name != "" {
			project.Name = name
		}
		if description, _ := cmd.Flags().GetString("description"); description != "" {
			project.Description = description
		}
		if operator, _ := cmd.Flags().GetString("operator"); operator != "" {
			project.Operator = operator
		}
		if location, _ := cmd.Flags().GetString("location"); location != "" {
			project.Location = location
		}
		if area, _ := cmd.Flags().GetFloat64("area"); area > 0 {
			project.InventoryAreaHa = area
		}

		if err := reg.SaveSession(ctx); err != nil {
			return eris.Wrap(err, "project set")
		}

		fmt.Printf("Saved %s.\n", project.Name)
		return nil
	},
}

// -- project species --

var projectSpeciesCmd = &cobra.Command{
	Use:   "species",
	Short: "List the current project's species catalog",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		reg, st, err := initSession(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		formatCatalog(os.Stdout, reg.Current().SpeciesCatalog)
		return nil
	},
}

func init() {
	projectCreateCmd.Flags().String("description", "", "free-form project notes")
	projectCreateCmd.Flags().String("operator", "", "operator name recorded on captures")
	projectCreateCmd.Flags().String("location", "", "stand location")
	projectCreateCmd.Flags().Float64("area", 0, "surveyed area in hectares (default from config)")
	projectCreateCmd.Flags().String("species-file", "", "YAML species catalog seed file")

	projectSetCmd.Flags().String("name", "", "rename the project")
	projectSetCmd.Flags().String("description", "", "free-form project notes")
	projectSetCmd.Flags().String("operator", "", "operator name recorded on captures")
	projectSetCmd.Flags().String("location", "", "stand location")
	projectSetCmd.Flags().Float64("area", 0, "surveyed area in hectares")

	projectCmd.AddCommand(projectCreateCmd)
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectUseCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectDeleteCmd)
	projectCmd.AddCommand(projectDuplicateCmd)
	projectCmd.AddCommand(projectSetCmd)
	projectCmd.AddCommand(projectRemoveSpeciesCmd)
	projectCmd.AddCommand(projectSpeciesCmd)
	rootCmd.AddCommand(projectCmd)
}

// formatProjectList writes a tabular project listing to w.
func formatProjectList(out io.Writer, summaries []model.ProjectSummary, currentID string) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tAREA_HA\tSAMPLES\tINVENTORY\tUPDATED")
	_, _ = fmt.Fprintln(w, "--\t----\t-------\t-------\t---------\t-------")

	for _, s := range summaries {
		marker := ""
		if s.ID == currentID {
			marker = " *"
		}
		_, _ = fmt.Fprintf(w, "%s\t%s%s\t%.1f\t%d\t%d\t%s\n",
			truncateID(s.ID),
			s.Name, marker,
			s.InventoryAreaHa,
			s.SampleTreeCount,
			s.InventoryTreeCount,
			s.UpdatedAt.Format("2006-01-02 15:04"),
		)
	}
	_ = w.Flush()
}

// formatCatalog writes a species catalog in stable ID order.
func formatCatalog(out io.Writer, catalog model.SpeciesCatalog) {
	ids := make([]string, 0, len(catalog))
	for id := range catalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tNAME\tFORM_FACTOR\tDEFAULT_HEIGHT")
	for _, id := range ids {
		def := catalog[id]
		height := "-"
		if def.DefaultHeight > 0 {
			height = fmt.Sprintf("%.1f m", def.DefaultHeight)
		}
		_, _ = fmt.Fprintf(w, "%s\t%s %s\t%.2f\t%s\n", def.ID, def.Icon, def.Name, def.FormFactor, height)
	}
	_ = w.Flush()
}

// truncateID returns the first 8 characters of a UUID for compact display.
func truncateID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
