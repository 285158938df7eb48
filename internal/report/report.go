// Package report summarizes a pipeline run: coverage percentages, the
// highest-priority works and a YAML run manifest.
package report

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/latin-corpus/internal/catalog"
	"github.com/sells-group/latin-corpus/internal/merge"
	"github.com/sells-group/latin-corpus/internal/model"
	"github.com/sells-group/latin-corpus/internal/scorer"
	"github.com/sells-group/latin-corpus/internal/translation"
)

// ManifestFilename is written next to the master table.
const ManifestFilename = "run_manifest.yaml"

// Coverage holds the share of works lacking a facsimile or a translation.
type Coverage struct {
	Rows                int     `yaml:"rows"`
	PercentUnscanned    float64 `yaml:"percent_unscanned"`
	PercentUntranslated float64 `yaml:"percent_untranslated"`
}

// ComputeCoverage measures works. Both percentages are 0 for no works.
func ComputeCoverage(works []model.MasterWork) Coverage {
	c := Coverage{Rows: len(works)}
	if len(works) == 0 {
		return c
	}
	var scanned, translated int
	for i := range works {
		if works[i].HasDigitalFacsimile {
			scanned++
		}
		if works[i].HasModernTranslation {
			translated++
		}
	}
	n := float64(len(works))
	c.PercentUnscanned = 100 * (1 - float64(scanned)/n)
	c.PercentUntranslated = 100 * (1 - float64(translated)/n)
	return c
}

// Manifest records what a run read, did and wrote.
type Manifest struct {
	RunID      string            `yaml:"run_id"`
	StartedAt  time.Time         `yaml:"started_at"`
	FinishedAt time.Time         `yaml:"finished_at"`
	Catalogs   []catalog.Stats   `yaml:"catalogs"`
	Series     map[string]int    `yaml:"translation_series"`
	IndexSize  int               `yaml:"translation_index_entries"`
	Merge      merge.Stats       `yaml:"merge"`
	Match      MatchSettings     `yaml:"match"`
	Coverage   Coverage          `yaml:"coverage"`
	Outputs    map[string]string `yaml:"outputs"`
	Top        []TopWork         `yaml:"top_priority"`
}

// MatchSettings pairs the matcher configuration with its outcome.
type MatchSettings struct {
	EnableFuzzy    bool                   `yaml:"enable_fuzzy"`
	FuzzyThreshold float64                `yaml:"fuzzy_threshold"`
	Backend        string                 `yaml:"backend"`
	Stats          translation.MatchStats `yaml:"stats"`
}

// TopWork is the manifest view of one high-priority work.
type TopWork struct {
	WorkID        string  `yaml:"work_id"`
	Author        string  `yaml:"author"`
	Title         string  `yaml:"title"`
	ImprintYear   string  `yaml:"imprint_year"`
	PriorityScore float64 `yaml:"priority_score"`
	PriorityTags  string  `yaml:"priority_tags"`
}

// TopWorks returns the n highest-priority works in manifest form.
func TopWorks(works []model.MasterWork, n int) []TopWork {
	top := scorer.Top(works, n)
	out := make([]TopWork, len(top))
	for i := range top {
		out[i] = TopWork{
			WorkID:        top[i].WorkID,
			Author:        top[i].Author,
			Title:         top[i].Title,
			ImprintYear:   top[i].ImprintYear.String(),
			PriorityScore: top[i].PriorityScore,
			PriorityTags:  top[i].PriorityTags,
		}
	}
	return out
}

// WriteManifest writes m as YAML to path.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return eris.Wrap(err, "report: marshal manifest")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "report: create manifest dir")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "report: write manifest")
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "report: read manifest")
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrap(err, "report: unmarshal manifest")
	}
	return &m, nil
}

// LogSummary logs row counts and coverage for a finished run.
func LogSummary(outputPath string, c Coverage) {
	log := zap.L().With(zap.String("component", "report"))
	log.Info("saved master table", zap.String("path", outputPath), zap.Int("rows", c.Rows))
	if c.Rows == 0 {
		log.Warn("no data rows available, check catalogue inputs in the raw data directory")
		return
	}
	log.Info("coverage",
		zap.String("without_digital_facsimile", strconv.FormatFloat(c.PercentUnscanned, 'f', 2, 64)+"%"),
		zap.String("without_modern_translation", strconv.FormatFloat(c.PercentUntranslated, 'f', 2, 64)+"%"),
	)
}

var topHeaders = []string{"work_id", "author", "title", "year", "facsimile", "translation", "score", "tags"}

// RenderTop renders the n highest-priority works as a table. It returns ""
// when there is nothing to show.
func RenderTop(works []model.MasterWork, n int) string {
	top := scorer.Top(works, n)
	if len(top) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(topHeaders))
	for i, h := range topHeaders {
		header[i] = h
	}
	tw.AppendHeader(header)

	for i := range top {
		w := &top[i]
		tw.AppendRow(table.Row{
			w.WorkID,
			truncate(w.Author, 30),
			truncate(w.Title, 50),
			w.ImprintYear.String(),
			w.Field(model.ColHasDigitalFacsimile),
			w.Field(model.ColHasModernTranslation),
			w.Field(model.ColPriorityScore),
			w.PriorityTags,
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 7, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	return tw.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
