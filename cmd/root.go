package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/silvatech/forestctl/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "forestctl",
	Short: "Offline forest inventory data collection",
	Long:  "Captures sample plot measurements and stand tallies in the field, computes per-hectare stand statistics, and exchanges surveys as portable snapshots.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
