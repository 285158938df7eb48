package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/latin-corpus/internal/pipeline"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the translation index only",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if v, _ := cmd.Flags().GetString("raw-dir"); v != "" {
			cfg.Paths.RawDir = v
		}
		if v, _ := cmd.Flags().GetString("out-dir"); v != "" {
			cfg.Paths.ProcessedDir = v
		}

		index, path, err := pipeline.New(cfg).BuildIndex(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d translation index entries to %s\n", index.Len(), path)
		return nil
	},
}

func init() {
	indexCmd.Flags().String("raw-dir", "", "raw data directory (overrides config)")
	indexCmd.Flags().String("out-dir", "", "processed output directory (overrides config)")
	rootCmd.AddCommand(indexCmd)
}
