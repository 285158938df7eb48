// Package pipeline wires the catalogue cleaner, deduplicator, translation
// matcher and priority scorer into one run over a raw data directory.
package pipeline

import (
	"context"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/latin-corpus/internal/catalog"
	"github.com/sells-group/latin-corpus/internal/config"
	"github.com/sells-group/latin-corpus/internal/export"
	"github.com/sells-group/latin-corpus/internal/merge"
	"github.com/sells-group/latin-corpus/internal/model"
	"github.com/sells-group/latin-corpus/internal/normalize"
	"github.com/sells-group/latin-corpus/internal/report"
	"github.com/sells-group/latin-corpus/internal/scorer"
	"github.com/sells-group/latin-corpus/internal/sources"
	"github.com/sells-group/latin-corpus/internal/translation"
)

const maxWorkers = 16

// Pipeline runs the master-table build for one configuration.
type Pipeline struct {
	cfg  *config.Config
	norm *normalize.Normalizer
	now  func() time.Time
}

// New creates a Pipeline. The normalizer is built from cfg.Normalize.
func New(cfg *config.Config) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		norm: normalize.New(normalize.Options{
			AuthorHonorifics: cfg.Normalize.AuthorHonorifics,
			TitleStopwords:   cfg.Normalize.TitleStopwords,
			TitlePreserve:    cfg.Normalize.TitlePreserve,
		}),
		now: time.Now,
	}
}

// Result is the outcome of a build.
type Result struct {
	RunID        string
	Works        []model.MasterWork
	Index        *translation.Index
	Outputs      map[string]string
	ManifestPath string
	Manifest     *report.Manifest
}

// Run builds, annotates, scores and writes the master table.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	if err := p.cfg.Validate("build"); err != nil {
		return nil, err
	}
	if err := scorer.ValidateConfig(p.cfg.Scorer); err != nil {
		return nil, err
	}

	lock, err := lockDir(p.cfg.Paths.ProcessedDir)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock() //nolint:errcheck

	runID := uuid.NewString()
	started := p.now().UTC()
	log := zap.L().With(zap.String("component", "pipeline"), zap.String("run_id", runID))
	log.Info("pipeline: starting build",
		zap.String("raw_dir", p.cfg.Paths.RawDir),
		zap.String("processed_dir", p.cfg.Paths.ProcessedDir),
	)

	// Catalogues.
	loader := catalog.NewLoader(p.cfg.Paths.RawDir, catalog.NewCleaner(p.norm))
	records, catStats, err := loader.LoadAll(ctx, p.Specs())
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: load catalogues")
	}

	// Dedupe.
	works, mergeStats, err := merge.Deduplicate(ctx, records, merge.Options{
		Priority: p.cfg.Catalogs.Priority,
		Workers:  p.workers(),
	})
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: deduplicate")
	}
	log.Info("pipeline: deduplicated",
		zap.Int("records", mergeStats.Records),
		zap.Int("works", mergeStats.Works),
		zap.Int("collapsed", mergeStats.Collapsed),
	)

	// Translations.
	index, seriesRows, err := p.loadIndex(ctx)
	if err != nil {
		return nil, err
	}
	matchCfg := p.matchConfig()
	matcher, err := translation.NewMatcher(index, matchCfg)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: matcher")
	}
	matchStats, err := matcher.Annotate(ctx, works)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: match translations")
	}

	scorer.New(p.cfg.Scorer).Score(works)

	outputs, err := export.WriteWorks(export.Output{
		Dir:      p.cfg.Paths.ProcessedDir,
		Filename: p.cfg.Output.Filename,
		Formats:  p.cfg.Output.Formats,
	}, works)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: write master table")
	}

	coverage := report.ComputeCoverage(works)
	report.LogSummary(outputs[export.FormatCSV], coverage)

	manifest := &report.Manifest{
		RunID:     runID,
		StartedAt: started,
		Catalogs:  catStats,
		Series:    seriesRows,
		IndexSize: index.Len(),
		Merge:     mergeStats,
		Match: report.MatchSettings{
			EnableFuzzy:    matchCfg.EnableFuzzy,
			FuzzyThreshold: matchCfg.FuzzyThreshold,
			Backend:        matchCfg.Backend,
			Stats:          matchStats,
		},
		Coverage: coverage,
		Outputs:  outputs,
		Top:      report.TopWorks(works, p.cfg.Report.TopN),
	}
	manifest.FinishedAt = p.now().UTC()
	manifestPath := filepath.Join(p.cfg.Paths.ProcessedDir, report.ManifestFilename)
	if err := report.WriteManifest(manifestPath, manifest); err != nil {
		return nil, err
	}

	log.Info("pipeline: build complete",
		zap.Int("works", len(works)),
		zap.Duration("elapsed", manifest.FinishedAt.Sub(started)),
	)

	return &Result{
		RunID:        runID,
		Works:        works,
		Index:        index,
		Outputs:      outputs,
		ManifestPath: manifestPath,
		Manifest:     manifest,
	}, nil
}

// BuildIndex builds the translation index and writes it to the processed
// directory. It returns the index and the written path.
func (p *Pipeline) BuildIndex(ctx context.Context) (*translation.Index, string, error) {
	if err := p.cfg.Validate("index"); err != nil {
		return nil, "", err
	}

	lock, err := lockDir(p.cfg.Paths.ProcessedDir)
	if err != nil {
		return nil, "", err
	}
	defer lock.Unlock() //nolint:errcheck

	index, _, err := p.loadIndex(ctx)
	if err != nil {
		return nil, "", err
	}

	path := filepath.Join(p.cfg.Paths.ProcessedDir, p.cfg.Output.IndexFilename)
	if err := export.WriteIndexCSV(path, index.Entries); err != nil {
		return nil, "", eris.Wrap(err, "pipeline: write translation index")
	}
	zap.L().Info("pipeline: wrote translation index",
		zap.String("path", path),
		zap.Int("entries", index.Len()),
	)
	return index, path, nil
}

// Fetch mirrors the configured remote exports into the raw directory.
func (p *Pipeline) Fetch(ctx context.Context) ([]sources.Result, error) {
	if err := p.cfg.Validate("fetch"); err != nil {
		return nil, err
	}

	lock, err := lockDir(p.cfg.Paths.RawDir)
	if err != nil {
		return nil, err
	}
	defer lock.Unlock() //nolint:errcheck

	list := make([]sources.Source, len(p.cfg.Sources))
	for i, s := range p.cfg.Sources {
		list[i] = sources.Source{Name: s.Name, URL: s.URL, Filename: s.Filename, Member: s.Member}
	}
	return sources.NewSyncer(p.cfg.Paths.RawDir, min(p.workers(), 4)).Sync(ctx, list)
}

// Specs returns the enabled catalogue specs in load order. Built-in specs
// carry their column maps; other names are read with canonical headers.
func (p *Pipeline) Specs() []catalog.Spec {
	builtin := make(map[string]catalog.Spec)
	for _, s := range catalog.BuiltinSpecs() {
		builtin[s.Name] = s
	}

	enabled := p.cfg.Catalogs.Enabled
	if len(enabled) == 0 {
		for _, s := range catalog.BuiltinSpecs() {
			enabled = append(enabled, s.Name)
		}
	}

	specs := make([]catalog.Spec, 0, len(enabled))
	for _, name := range enabled {
		name = strings.ToUpper(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		spec, ok := builtin[name]
		if !ok {
			spec = catalog.Spec{Name: name, DefaultFilename: catalog.DefaultFilename(name)}
		}
		if path := p.cfg.Catalogs.PathFor(name); path != "" {
			spec.Path = path
		}
		specs = append(specs, spec)
	}
	return specs
}

// Series returns the configured translation series, or the defaults when
// none are configured.
func (p *Pipeline) Series() []translation.Series {
	if len(p.cfg.Translation.Series) == 0 {
		return translation.DefaultSeries()
	}
	out := make([]translation.Series, len(p.cfg.Translation.Series))
	for i, s := range p.cfg.Translation.Series {
		out[i] = translation.Series{Label: s.Label, Path: s.Path, ColumnMap: s.ColumnMap}
	}
	return out
}

func (p *Pipeline) loadIndex(ctx context.Context) (*translation.Index, map[string]int, error) {
	tables, err := translation.LoadSeries(ctx, p.cfg.Paths.RawDir, p.Series())
	if err != nil {
		return nil, nil, eris.Wrap(err, "pipeline: load translation series")
	}
	rows := make(map[string]int, len(tables))
	for label, tbl := range tables {
		rows[label] = tbl.Len()
	}
	index := translation.BuildIndexWith(p.norm, tables)
	zap.L().Info("pipeline: built translation index",
		zap.Int("series", len(tables)),
		zap.Int("entries", index.Len()),
	)
	return index, rows, nil
}

func (p *Pipeline) matchConfig() translation.MatchConfig {
	backend := p.cfg.Match.Backend
	if backend == "" {
		backend = translation.DefaultMatchConfig().Backend
	}
	return translation.MatchConfig{
		EnableFuzzy:    p.cfg.Match.EnableFuzzy,
		FuzzyThreshold: p.cfg.Match.FuzzyThreshold,
		Backend:        backend,
		Workers:        p.workers(),
	}
}

// workers resolves pipeline.workers; 0 means NumCPU clamped to 1..16.
func (p *Pipeline) workers() int {
	if n := p.cfg.Pipeline.Workers; n > 0 {
		return n
	}
	return min(max(runtime.NumCPU(), 1), maxWorkers)
}
