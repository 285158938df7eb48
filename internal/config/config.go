package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
	Paths       PathsConfig       `yaml:"paths" mapstructure:"paths"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Pipeline    PipelineConfig    `yaml:"pipeline" mapstructure:"pipeline"`
	Catalogs    CatalogsConfig    `yaml:"catalogs" mapstructure:"catalogs"`
	Translation TranslationConfig `yaml:"translation" mapstructure:"translation"`
	Match       MatchConfig       `yaml:"match" mapstructure:"match"`
	Normalize   NormalizeConfig   `yaml:"normalize" mapstructure:"normalize"`
	Scorer      ScorerConfig      `yaml:"scorer" mapstructure:"scorer"`
	Report      ReportConfig      `yaml:"report" mapstructure:"report"`
	Sources     []SourceConfig    `yaml:"sources" mapstructure:"sources"`
}

// PathsConfig locates raw inputs and processed outputs.
type PathsConfig struct {
	RawDir       string `yaml:"raw_dir" mapstructure:"raw_dir"`
	ProcessedDir string `yaml:"processed_dir" mapstructure:"processed_dir"`
}

// OutputConfig configures the written tables.
type OutputConfig struct {
	Filename      string   `yaml:"filename" mapstructure:"filename"`
	IndexFilename string   `yaml:"index_filename" mapstructure:"index_filename"`
	Formats       []string `yaml:"formats" mapstructure:"formats"`
}

// PipelineConfig configures run-wide behavior.
type PipelineConfig struct {
	// Workers bounds concurrent dedupe and fuzzy matching; 0 uses NumCPU.
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// CatalogsConfig selects and ranks the source catalogues.
type CatalogsConfig struct {
	// Enabled lists the catalogues read, in order.
	Enabled  []string `yaml:"enabled" mapstructure:"enabled"`
	Priority []string `yaml:"priority" mapstructure:"priority"`
	// Paths overrides export paths per catalogue. Keys are matched
	// case-insensitively.
	Paths map[string]string `yaml:"paths" mapstructure:"paths"`
}

// PathFor returns the override path for a catalogue, if any.
func (c CatalogsConfig) PathFor(name string) string {
	for k, v := range c.Paths {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

// SeriesConfig names one translation series listing.
type SeriesConfig struct {
	Label     string            `yaml:"label" mapstructure:"label"`
	Path      string            `yaml:"path" mapstructure:"path"`
	ColumnMap map[string]string `yaml:"column_map" mapstructure:"column_map"`
}

// TranslationConfig lists the translation series read.
type TranslationConfig struct {
	Series []SeriesConfig `yaml:"series" mapstructure:"series"`
}

// MatchConfig configures translation matching.
type MatchConfig struct {
	EnableFuzzy    bool    `yaml:"enable_fuzzy" mapstructure:"enable_fuzzy"`
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
	Backend        string  `yaml:"backend" mapstructure:"backend"`
}

// NormalizeConfig overrides the normalizer word lists. Empty fields keep
// the built-in defaults.
type NormalizeConfig struct {
	AuthorHonorifics []string `yaml:"author_honorifics" mapstructure:"author_honorifics"`
	TitleStopwords   []string `yaml:"title_stopwords" mapstructure:"title_stopwords"`
	TitlePreserve    string   `yaml:"title_preserve" mapstructure:"title_preserve"`
}

// ScorerConfig configures priority scoring.
type ScorerConfig struct {
	MissingFacsimileWeight   float64 `yaml:"missing_facsimile_weight" mapstructure:"missing_facsimile_weight"`
	MissingTranslationWeight float64 `yaml:"missing_translation_weight" mapstructure:"missing_translation_weight"`
	ScientificWeight         float64 `yaml:"scientific_weight" mapstructure:"scientific_weight"`
	HermeticWeight           float64 `yaml:"hermetic_weight" mapstructure:"hermetic_weight"`
	ColonialWeight           float64 `yaml:"colonial_weight" mapstructure:"colonial_weight"`
	EarlyModernPeakWeight    float64 `yaml:"early_modern_peak_weight" mapstructure:"early_modern_peak_weight"`

	ScientificKeywords []string `yaml:"scientific_keywords" mapstructure:"scientific_keywords"`
	HermeticKeywords   []string `yaml:"hermetic_keywords" mapstructure:"hermetic_keywords"`
	ColonialKeywords   []string `yaml:"colonial_keywords" mapstructure:"colonial_keywords"`

	EarlyModernMin int `yaml:"early_modern_min" mapstructure:"early_modern_min"`
	EarlyModernMax int `yaml:"early_modern_max" mapstructure:"early_modern_max"`
}

// SourceConfig names one remote export mirrored by the fetch command.
type SourceConfig struct {
	Name     string `yaml:"name" mapstructure:"name"`
	URL      string `yaml:"url" mapstructure:"url"`
	Filename string `yaml:"filename" mapstructure:"filename"`
	Member   string `yaml:"member" mapstructure:"member"`
}

// ReportConfig configures the run summary.
type ReportConfig struct {
	TopN int `yaml:"top_n" mapstructure:"top_n"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Output formats.
const (
	FormatCSV     = "csv"
	FormatXLSX    = "xlsx"
	FormatParquet = "parquet"
)

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LATIN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("paths.raw_dir", "data/raw")
	v.SetDefault("paths.processed_dir", "data/processed")
	v.SetDefault("output.filename", "latin_master_1450_1900.csv")
	v.SetDefault("output.index_filename", "translation_index.csv")
	v.SetDefault("output.formats", []string{FormatCSV})
	v.SetDefault("pipeline.workers", 0)
	v.SetDefault("catalogs.enabled", []string{"USTC", "VD16", "VD17", "VD18"})
	v.SetDefault("catalogs.priority", []string{"USTC", "VD16", "VD17", "VD18", "ESTC"})
	v.SetDefault("translation.series", []map[string]any{
		{"label": "Loeb", "path": "loeb_classical_library.csv"},
		{"label": "I Tatti", "path": "i_tatti_renaissance_library.csv"},
		{"label": "Brill", "path": "brill_translations.csv"},
	})
	v.SetDefault("match.enable_fuzzy", true)
	v.SetDefault("match.fuzzy_threshold", 0.9)
	v.SetDefault("match.backend", "indel")
	v.SetDefault("scorer.missing_facsimile_weight", 2.0)
	v.SetDefault("scorer.missing_translation_weight", 2.0)
	v.SetDefault("scorer.scientific_weight", 1.0)
	v.SetDefault("scorer.hermetic_weight", 1.0)
	v.SetDefault("scorer.colonial_weight", 1.0)
	v.SetDefault("scorer.early_modern_peak_weight", 1.0)
	v.SetDefault("scorer.scientific_keywords", []string{"astronom", "physic", "medic", "anatom", "botan", "mathemat"})
	v.SetDefault("scorer.hermetic_keywords", []string{"hermet", "alchem", "cabal", "magia", "occult"})
	v.SetDefault("scorer.colonial_keywords", []string{"india", "china", "mexic", "peru", "brazil", "goa", "iapon", "japan"})
	v.SetDefault("scorer.early_modern_min", 1500)
	v.SetDefault("scorer.early_modern_max", 1650)
	v.SetDefault("report.top_n", 20)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings a command mode depends on.
func (c *Config) Validate(mode string) error {
	var errs []string

	if c.Paths.RawDir == "" {
		errs = append(errs, "paths.raw_dir is required")
	}
	if c.Paths.ProcessedDir == "" {
		errs = append(errs, "paths.processed_dir is required")
	}
	if c.Pipeline.Workers < 0 || c.Pipeline.Workers > 64 {
		errs = append(errs, "pipeline.workers must be between 0 and 64")
	}

	switch mode {
	case "build":
		if c.Output.Filename == "" {
			errs = append(errs, "output.filename is required")
		}
		for _, f := range c.Output.Formats {
			switch strings.ToLower(f) {
			case FormatCSV, FormatXLSX, FormatParquet:
			default:
				errs = append(errs, fmt.Sprintf("output.formats: unsupported format %q", f))
			}
		}
		if c.Match.FuzzyThreshold < 0 || c.Match.FuzzyThreshold > 1 {
			errs = append(errs, "match.fuzzy_threshold must be between 0 and 1")
		}
		if c.Report.TopN < 0 {
			errs = append(errs, "report.top_n must be >= 0")
		}
	case "index":
		if c.Output.IndexFilename == "" {
			errs = append(errs, "output.index_filename is required")
		}
	case "fetch":
		if len(c.Sources) == 0 {
			errs = append(errs, "sources: at least one source is required")
		}
		seen := make(map[string]bool, len(c.Sources))
		for i, src := range c.Sources {
			if src.Name == "" || src.URL == "" {
				errs = append(errs, fmt.Sprintf("sources[%d]: name and url are required", i))
			}
			if seen[src.Name] {
				errs = append(errs, fmt.Sprintf("sources[%d]: duplicate name %q", i, src.Name))
			}
			seen[src.Name] = true
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
