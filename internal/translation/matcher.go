package translation

import (
	"context"
	"runtime"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/latin-corpus/internal/model"
	"github.com/sells-group/latin-corpus/internal/similarity"
)

// MatchConfig configures the matcher.
type MatchConfig struct {
	EnableFuzzy    bool    `yaml:"enable_fuzzy" mapstructure:"enable_fuzzy"`
	FuzzyThreshold float64 `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
	// Backend names the similarity backend used for fuzzy titles.
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Workers bounds concurrent fuzzy matching; <= 0 uses runtime.NumCPU.
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// DefaultMatchConfig enables fuzzy matching at a 0.9 threshold.
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		EnableFuzzy:    true,
		FuzzyThreshold: 0.9,
		Backend:        similarity.Indel,
	}
}

// Validate checks the threshold range.
func (c MatchConfig) Validate() error {
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 1 {
		return eris.Errorf("translation: fuzzy_threshold must be between 0 and 1, got %v", c.FuzzyThreshold)
	}
	return nil
}

// MatchStats counts match outcomes.
type MatchStats struct {
	Works     int  `json:"works" yaml:"works"`
	Exact     int  `json:"exact" yaml:"exact"`
	Fuzzy     int  `json:"fuzzy" yaml:"fuzzy"`
	Unmatched int  `json:"unmatched" yaml:"unmatched"`
	FuzzyRan  bool `json:"fuzzy_ran" yaml:"fuzzy_ran"`
}

// Matcher annotates master works with translation availability.
type Matcher struct {
	index   *Index
	cfg     MatchConfig
	backend similarity.Backend
}

// NewMatcher validates cfg and resolves its similarity backend. A missing
// backend is not an error: fuzzy matching is skipped with a warning.
func NewMatcher(index *Index, cfg MatchConfig) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Backend == "" {
		cfg.Backend = similarity.Indel
	}

	m := &Matcher{index: index, cfg: cfg}
	if cfg.EnableFuzzy {
		b, err := similarity.Lookup(cfg.Backend)
		if err != nil {
			zap.L().Warn("similarity backend unavailable, fuzzy translation matching disabled",
				zap.String("backend", cfg.Backend),
				zap.Error(err),
			)
		} else {
			m.backend = b
		}
	}
	return m, nil
}

// Annotate fills the translation fields of every work in place: first by
// exact (author_norm, title_norm) lookup, then, for unmatched works, by the
// best same-author title similarity at or above the threshold.
func (m *Matcher) Annotate(ctx context.Context, works []model.MasterWork) (MatchStats, error) {
	log := zap.L().With(zap.String("component", "translation_matcher"))
	stats := MatchStats{Works: len(works)}

	var pending []int
	for i := range works {
		w := &works[i]
		w.ClearTranslation()
		if e, ok := m.index.Lookup(w.AuthorNorm, w.TitleNorm); ok && e.TranslationSources != "" {
			apply(w, e)
			stats.Exact++
			continue
		}
		pending = append(pending, i)
	}

	if m.cfg.EnableFuzzy && m.backend != nil && len(pending) > 0 {
		stats.FuzzyRan = true
		fuzzy, err := m.fuzzy(ctx, works, pending)
		if err != nil {
			return stats, err
		}
		stats.Fuzzy = fuzzy
	}

	stats.Unmatched = stats.Works - stats.Exact - stats.Fuzzy
	log.Info("annotated translations",
		zap.Int("works", stats.Works),
		zap.Int("exact", stats.Exact),
		zap.Int("fuzzy", stats.Fuzzy),
		zap.Int("unmatched", stats.Unmatched),
	)
	return stats, nil
}

// fuzzy shards pending works across workers. Each worker writes only its
// own works and reads the index.
func (m *Matcher) fuzzy(ctx context.Context, works []model.MasterWork, pending []int) (int, error) {
	workers := m.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(pending) {
		workers = len(pending)
	}

	matched := make([]int, workers)
	g, gctx := errgroup.WithContext(ctx)
	for shard := 0; shard < workers; shard++ {
		g.Go(func() error {
			for j := shard; j < len(pending); j += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				w := &works[pending[j]]
				if e, ok := m.best(w); ok {
					apply(w, e)
					matched[shard]++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, eris.Wrap(err, "translation: fuzzy match")
	}

	total := 0
	for _, n := range matched {
		total += n
	}
	return total, nil
}

// best returns the highest-scoring same-author candidate when it reaches the
// threshold. Candidates are visited in title order, so the first of equal
// scores wins.
func (m *Matcher) best(w *model.MasterWork) (model.TranslationIndexEntry, bool) {
	var (
		found     bool
		bestScore float64
		bestEntry model.TranslationIndexEntry
	)
	for _, c := range m.index.Candidates(w.AuthorNorm) {
		score := m.backend.Score(w.TitleNorm, c.LatinTitleNorm)
		if !found || score > bestScore {
			found, bestScore, bestEntry = true, score, c
		}
	}
	if !found || bestScore < m.cfg.FuzzyThreshold || bestEntry.TranslationSources == "" {
		return model.TranslationIndexEntry{}, false
	}
	return bestEntry, true
}

func apply(w *model.MasterWork, e model.TranslationIndexEntry) {
	w.HasModernTranslation = true
	w.TranslationSources = e.TranslationSources
	w.TranslationLanguages = e.ModernLanguages
	w.TranslationYears = e.TranslationYears
}
