package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/latin-corpus/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "latin-corpus",
	Short: "Build the master table of early-modern Latin printed works",
	Long: "Cleans USTC and VD catalogue exports, deduplicates them into one master table, " +
		"flags modern translations and digital facsimiles, and ranks works by research priority.",
	SilenceUsage: true,
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
