package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/latin-corpus/internal/config"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, name := range []string{"build", "index", "normalize", "fetch"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "latin-corpus", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestBuildCommand_Flags(t *testing.T) {
	for _, name := range []string{"raw-dir", "out-dir", "no-fuzzy", "threshold", "format", "workers"} {
		require.NotNil(t, buildCmd.Flags().Lookup(name), "build command should have --%s flag", name)
	}
	assert.Equal(t, "false", buildCmd.Flags().Lookup("no-fuzzy").DefValue)
}

func newBuildFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "build"}
	f := c.Flags()
	f.String("raw-dir", "", "")
	f.String("out-dir", "", "")
	f.Bool("no-fuzzy", false, "")
	f.Float64("threshold", 0, "")
	f.String("format", "", "")
	f.Int("workers", 0, "")
	require.NoError(t, f.Parse(args))
	return c
}

func TestApplyBuildOverrides(t *testing.T) {
	c := &config.Config{
		Paths:  config.PathsConfig{RawDir: "data/raw", ProcessedDir: "data/processed"},
		Output: config.OutputConfig{Formats: []string{"csv"}},
		Match:  config.MatchConfig{EnableFuzzy: true, FuzzyThreshold: 0.9},
	}

	cmd := newBuildFlags(t,
		"--raw-dir", "/in", "--out-dir", "/out", "--no-fuzzy",
		"--threshold", "0", "--format", "csv, parquet", "--workers", "4",
	)
	applyBuildOverrides(cmd, c)

	assert.Equal(t, "/in", c.Paths.RawDir)
	assert.Equal(t, "/out", c.Paths.ProcessedDir)
	assert.False(t, c.Match.EnableFuzzy)
	assert.Equal(t, 0.0, c.Match.FuzzyThreshold)
	assert.Equal(t, []string{"csv", "parquet"}, c.Output.Formats)
	assert.Equal(t, 4, c.Pipeline.Workers)
}

func TestApplyBuildOverrides_NoFlagsKeepsConfig(t *testing.T) {
	c := &config.Config{
		Paths: config.PathsConfig{RawDir: "data/raw"},
		Match: config.MatchConfig{EnableFuzzy: true, FuzzyThreshold: 0.9},
	}
	applyBuildOverrides(newBuildFlags(t), c)

	assert.Equal(t, "data/raw", c.Paths.RawDir)
	assert.True(t, c.Match.EnableFuzzy)
	assert.Equal(t, 0.9, c.Match.FuzzyThreshold)
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitAndTrim(" a, ,b ,"))
	assert.Empty(t, splitAndTrim(""))
}

func TestNormalizeValue(t *testing.T) {
	cfg = &config.Config{}

	tests := []struct {
		kind  string
		value string
		want  string
	}{
		{"author", "Dr. Erasmus", "erasmus"},
		{"title", "De Officiis", "officiis"},
		{"year", "Anno 1543", "1543"},
		{"year", "1449", ""},
		{"language", "lat", "Latin"},
	}
	for _, tt := range tests {
		t.Run(tt.kind+"/"+tt.value, func(t *testing.T) {
			got, err := normalizeValue(tt.kind, tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := normalizeValue("place", "Basel")
	require.Error(t, err)
}
