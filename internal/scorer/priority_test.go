package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/latin-corpus/internal/model"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name      string
		work      model.MasterWork
		wantScore float64
		wantTags  string
	}{
		{
			name:      "nothing known",
			work:      model.MasterWork{},
			wantScore: 4,
			wantTags:  "unscanned;untranslated",
		},
		{
			name: "scanned and translated, out of range",
			work: model.MasterWork{
				HasDigitalFacsimile:  true,
				HasModernTranslation: true,
				Title:                "Carmina",
				ImprintYear:          model.YearOf(1700),
			},
			wantScore: 0,
			wantTags:  "",
		},
		{
			name: "scientific title in peak years",
			work: model.MasterWork{
				HasDigitalFacsimile: true,
				Title:               "Astronomia nova",
				ImprintYear:         model.YearOf(1609),
			},
			wantScore: 4,
			wantTags:  "early_modern_peak;scientific;untranslated",
		},
		{
			name: "subjects carry hermetic and colonial keywords",
			work: model.MasterWork{
				HasDigitalFacsimile:  true,
				HasModernTranslation: true,
				Title:                "Relatio",
				Subjects:             "Alchemy; Missions -- Iapon",
				ImprintYear:          model.YearOf(1650),
			},
			wantScore: 3,
			wantTags:  "colonial;early_modern_peak;hermetic",
		},
		{
			name: "several keywords of one group count once",
			work: model.MasterWork{
				HasDigitalFacsimile:  true,
				HasModernTranslation: true,
				Title:                "Anatomia et medicina",
			},
			wantScore: 1,
			wantTags:  "scientific",
		},
		{
			name: "range bounds are inclusive",
			work: model.MasterWork{
				HasDigitalFacsimile:  true,
				HasModernTranslation: true,
				ImprintYear:          model.YearOf(1500),
			},
			wantScore: 1,
			wantTags:  "early_modern_peak",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			works := []model.MasterWork{tt.work}
			Score(works, DefaultScorerConfig())
			assert.InDelta(t, tt.wantScore, works[0].PriorityScore, 1e-9)
			assert.Equal(t, tt.wantTags, works[0].PriorityTags)
		})
	}
}

func TestScore_CustomWeights(t *testing.T) {
	cfg := DefaultScorerConfig()
	cfg.MissingFacsimileWeight = 5
	cfg.ScientificWeight = 0.5

	works := []model.MasterWork{{HasModernTranslation: true, Title: "De re botanica"}}
	Score(works, cfg)
	assert.InDelta(t, 5.5, works[0].PriorityScore, 1e-9)
	assert.Equal(t, "scientific;unscanned", works[0].PriorityTags)
}

func TestScore_Empty(t *testing.T) {
	assert.NotPanics(t, func() { Score(nil, DefaultScorerConfig()) })
}

func TestMatchKeywords(t *testing.T) {
	tests := []struct {
		name     string
		keywords []string
		text     string
		wantLen  int
	}{
		{"empty keywords", nil, "some text", 0},
		{"empty text", []string{"medic"}, "", 0},
		{"substring", []string{"medic"}, "medicina", 1},
		{"several", []string{"india", "china"}, "india et china", 2},
		{"blank keyword ignored", []string{""}, "anything", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, matchKeywords(tt.keywords, tt.text), tt.wantLen)
		})
	}
}

func TestTop(t *testing.T) {
	works := []model.MasterWork{
		{WorkID: "wrk_c", PriorityScore: 3},
		{WorkID: "wrk_b", PriorityScore: 5},
		{WorkID: "wrk_a", PriorityScore: 3},
		{WorkID: "wrk_d", PriorityScore: 1},
	}

	top := Top(works, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "wrk_b", top[0].WorkID)
	assert.Equal(t, "wrk_a", top[1].WorkID)
	assert.Equal(t, "wrk_c", top[2].WorkID)
	// Input order untouched.
	assert.Equal(t, "wrk_c", works[0].WorkID)

	assert.Len(t, Top(works, 10), 4)
	assert.Nil(t, Top(works, 0))
	assert.Nil(t, Top(nil, 5))
}

func TestValidateConfig(t *testing.T) {
	t.Run("valid default config", func(t *testing.T) {
		require.NoError(t, ValidateConfig(DefaultScorerConfig()))
	})

	t.Run("negative weight", func(t *testing.T) {
		cfg := DefaultScorerConfig()
		cfg.HermeticWeight = -1
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "hermetic_weight must be >= 0")
	})

	t.Run("inverted year range", func(t *testing.T) {
		cfg := DefaultScorerConfig()
		cfg.EarlyModernMin = 1700
		cfg.EarlyModernMax = 1600
		err := ValidateConfig(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "early_modern_max must be >= early_modern_min")
	})
}
