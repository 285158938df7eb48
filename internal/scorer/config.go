// Package scorer ranks master works by how much attention they need:
// missing facsimiles, missing translations, and subject or period signals.
package scorer

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/latin-corpus/internal/config"
)

// DefaultScorerConfig returns a config.ScorerConfig with the stock weights,
// keyword groups and early-modern range.
func DefaultScorerConfig() config.ScorerConfig {
	return config.ScorerConfig{
		// Weights.
		MissingFacsimileWeight:   2,
		MissingTranslationWeight: 2,
		ScientificWeight:         1,
		HermeticWeight:           1,
		ColonialWeight:           1,
		EarlyModernPeakWeight:    1,

		// Keywords, matched as substrings of the lowercased title and subjects.
		ScientificKeywords: []string{"astronom", "physic", "medic", "anatom", "botan", "mathemat"},
		HermeticKeywords:   []string{"hermet", "alchem", "cabal", "magia", "occult"},
		ColonialKeywords:   []string{"india", "china", "mexic", "peru", "brazil", "goa", "iapon", "japan"},

		// Peak of early-modern Latin printing.
		EarlyModernMin: 1500,
		EarlyModernMax: 1650,
	}
}

// ValidateConfig checks that a ScorerConfig is internally consistent.
func ValidateConfig(c config.ScorerConfig) error {
	var errs []string

	// All weights must be non-negative.
	weights := []struct {
		name string
		w    float64
	}{
		{"missing_facsimile_weight", c.MissingFacsimileWeight},
		{"missing_translation_weight", c.MissingTranslationWeight},
		{"scientific_weight", c.ScientificWeight},
		{"hermetic_weight", c.HermeticWeight},
		{"colonial_weight", c.ColonialWeight},
		{"early_modern_peak_weight", c.EarlyModernPeakWeight},
	}
	for _, w := range weights {
		if w.w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", w.name))
		}
	}

	if c.EarlyModernMax < c.EarlyModernMin {
		errs = append(errs, "early_modern_max must be >= early_modern_min")
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
