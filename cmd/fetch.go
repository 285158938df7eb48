package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/latin-corpus/internal/pipeline"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Mirror configured remote exports into the raw data directory",
	Long: `Downloads every entry under "sources" in config.yaml over HTTP(S) or FTP.
Unchanged exports are skipped using their stored ETag; ZIP archives are
unpacked to the configured filename.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if v, _ := cmd.Flags().GetString("raw-dir"); v != "" {
			cfg.Paths.RawDir = v
		}

		results, err := pipeline.New(cfg).Fetch(ctx)
		if err != nil {
			return err
		}
		for _, r := range results {
			status := "unchanged"
			if r.Changed {
				status = fmt.Sprintf("%d bytes", r.Bytes)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-10s %s (%s)\n", r.Name, r.Path, status)
		}
		return nil
	},
}

func init() {
	fetchCmd.Flags().String("raw-dir", "", "raw data directory (overrides config)")
	rootCmd.AddCommand(fetchCmd)
}
