package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration and device settings",
}

// -- config show --

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	},
}

// -- config operator --

var configOperatorCmd = &cobra.Command{
	Use:   "operator [name]",
	Short: "Show or set the device-wide operator name",
	Long:  "The operator name is recorded on new captures when the current project has no operator of its own.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		if len(args) == 0 {
			operator, err := st.GetSetting(ctx, "operator", "")
			if err != nil {
				return eris.Wrap(err, "config operator")
			}
			if operator == "" {
				fmt.Println("No operator set.")
				return nil
			}
			fmt.Println(operator)
			return nil
		}

		if err := st.SetSetting(ctx, "operator", args[0]); err != nil {
			return eris.Wrap(err, "config operator")
		}
		fmt.Printf("Operator set to %s.\n", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configOperatorCmd)
	rootCmd.AddCommand(configCmd)
}
