package scorer

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/latin-corpus/internal/config"
	"github.com/sells-group/latin-corpus/internal/model"
)

// Priority tags.
const (
	TagUnscanned       = "unscanned"
	TagUntranslated    = "untranslated"
	TagScientific      = "scientific"
	TagHermetic        = "hermetic"
	TagColonial        = "colonial"
	TagEarlyModernPeak = "early_modern_peak"
)

type keywordGroup struct {
	tag      string
	weight   float64
	keywords []string
}

// Scorer applies one ScorerConfig to master works.
type Scorer struct {
	cfg    config.ScorerConfig
	groups []keywordGroup
}

// New returns a Scorer for cfg.
func New(cfg config.ScorerConfig) *Scorer {
	return &Scorer{
		cfg: cfg,
		groups: []keywordGroup{
			{tag: TagScientific, weight: cfg.ScientificWeight, keywords: lowerAll(cfg.ScientificKeywords)},
			{tag: TagHermetic, weight: cfg.HermeticWeight, keywords: lowerAll(cfg.HermeticKeywords)},
			{tag: TagColonial, weight: cfg.ColonialWeight, keywords: lowerAll(cfg.ColonialKeywords)},
		},
	}
}

// Score sets PriorityScore and PriorityTags on every work in place.
func (s *Scorer) Score(works []model.MasterWork) {
	for i := range works {
		s.scoreOne(&works[i])
	}
	zap.L().Debug("scored works", zap.String("component", "scorer"), zap.Int("works", len(works)))
}

func (s *Scorer) scoreOne(w *model.MasterWork) {
	var (
		score float64
		tags  []string
	)

	if !w.HasDigitalFacsimile {
		score += s.cfg.MissingFacsimileWeight
		tags = append(tags, TagUnscanned)
	}
	if !w.HasModernTranslation {
		score += s.cfg.MissingTranslationWeight
		tags = append(tags, TagUntranslated)
	}

	text := strings.ToLower(strings.TrimSpace(w.Title + " " + w.Subjects))
	for _, g := range s.groups {
		if len(matchKeywords(g.keywords, text)) > 0 {
			score += g.weight
			tags = append(tags, g.tag)
		}
	}

	if y := w.ImprintYear; y.Valid && y.Value >= s.cfg.EarlyModernMin && y.Value <= s.cfg.EarlyModernMax {
		score += s.cfg.EarlyModernPeakWeight
		tags = append(tags, TagEarlyModernPeak)
	}

	w.PriorityScore = score
	w.PriorityTags = model.UnionJoin(tags...)
}

// Score scores works with cfg.
func Score(works []model.MasterWork, cfg config.ScorerConfig) {
	New(cfg).Score(works)
}

// matchKeywords returns the keywords contained in the lowercased text.
func matchKeywords(keywords []string, text string) []string {
	if text == "" {
		return nil
	}
	var matched []string
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			matched = append(matched, kw)
		}
	}
	return matched
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.ToLower(v)
	}
	return out
}

// Top returns up to n works ordered by descending score, then WorkID. The
// input is not reordered.
func Top(works []model.MasterWork, n int) []model.MasterWork {
	if n <= 0 || len(works) == 0 {
		return nil
	}
	sorted := append([]model.MasterWork(nil), works...)
	sortByScore(sorted)
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// sortByScore sorts works descending by PriorityScore, then ascending WorkID.
func sortByScore(works []model.MasterWork) {
	sort.SliceStable(works, func(i, j int) bool {
		if works[i].PriorityScore != works[j].PriorityScore {
			return works[i].PriorityScore > works[j].PriorityScore
		}
		return works[i].WorkID < works[j].WorkID
	})
}
