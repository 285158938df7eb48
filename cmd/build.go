package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/latin-corpus/internal/config"
	"github.com/sells-group/latin-corpus/internal/pipeline"
	"github.com/sells-group/latin-corpus/internal/report"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build, annotate and score the master table",
	Long: `Reads catalogue exports and translation listings from the raw data
directory and writes the scored master table plus a run manifest to the
processed directory.

Examples:
  # Build with defaults from config.yaml
  build

  # Exact translation matching only, also write Parquet
  build --no-fuzzy --format csv,parquet

  # Custom directories and a looser fuzzy threshold
  build --raw-dir ./raw --out-dir ./out --threshold 0.85`,
	RunE: runBuild,
}

func init() {
	f := buildCmd.Flags()
	f.String("raw-dir", "", "raw data directory (overrides config)")
	f.String("out-dir", "", "processed output directory (overrides config)")
	f.Bool("no-fuzzy", false, "disable fuzzy translation matching")
	f.Float64("threshold", 0, "fuzzy title similarity threshold in [0,1] (overrides config)")
	f.String("format", "", "comma-separated output formats: csv, xlsx, parquet (overrides config)")
	f.Int("workers", 0, "concurrent workers (0=use config)")
	f.Bool("quiet", false, "skip the top-priority table")

	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	applyBuildOverrides(cmd, cfg)

	res, err := pipeline.New(cfg).Run(ctx)
	if err != nil {
		return err
	}

	if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
		if table := report.RenderTop(res.Works, cfg.Report.TopN); table != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Top %d works by priority score\n%s\n", len(res.Manifest.Top), table)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d works to %s\n", len(res.Works), res.Outputs["csv"])
	return nil
}

func applyBuildOverrides(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if v, _ := f.GetString("raw-dir"); v != "" {
		c.Paths.RawDir = v
	}
	if v, _ := f.GetString("out-dir"); v != "" {
		c.Paths.ProcessedDir = v
	}
	if v, _ := f.GetBool("no-fuzzy"); v {
		c.Match.EnableFuzzy = false
	}
	if f.Changed("threshold") {
		c.Match.FuzzyThreshold, _ = f.GetFloat64("threshold")
	}
	if v, _ := f.GetString("format"); v != "" {
		c.Output.Formats = splitAndTrim(v)
	}
	if v, _ := f.GetInt("workers"); v > 0 {
		c.Pipeline.Workers = v
	}
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
