package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pipeops/ili-alignment/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "ili-alignment",
	Short: "Aligns and matches in-line inspection anomalies across runs",
	Long:  "Normalizes, cleans, and coordinate-aligns K in-line inspection runs, then matches anomalies across runs into growth-tracked chains with regulatory priority bands.",
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
