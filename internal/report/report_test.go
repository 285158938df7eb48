package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/latin-corpus/internal/catalog"
	"github.com/sells-group/latin-corpus/internal/merge"
	"github.com/sells-group/latin-corpus/internal/model"
	"github.com/sells-group/latin-corpus/internal/translation"
)

func works() []model.MasterWork {
	return []model.MasterWork{
		{WorkID: "wrk_a", Author: "Cicero", Title: "De officiis", ImprintYear: model.YearOf(1543), HasDigitalFacsimile: true, HasModernTranslation: true, PriorityScore: 0.5},
		{WorkID: "wrk_b", Author: "Erasmus", Title: "Adagia", ImprintYear: model.YearOf(1508), PriorityScore: 3, PriorityTags: "early_modern_peak;untranslated"},
		{WorkID: "wrk_c", Author: "Anon", Title: "Carmina", HasDigitalFacsimile: true, PriorityScore: 1},
		{WorkID: "wrk_d", Author: "Vives", Title: "De disciplinis", PriorityScore: 3},
	}
}

func TestComputeCoverage(t *testing.T) {
	c := ComputeCoverage(works())
	assert.Equal(t, 4, c.Rows)
	assert.InDelta(t, 50.0, c.PercentUnscanned, 1e-9)
	assert.InDelta(t, 75.0, c.PercentUntranslated, 1e-9)
}

func TestComputeCoverage_Empty(t *testing.T) {
	c := ComputeCoverage(nil)
	assert.Equal(t, Coverage{}, c)
}

func TestTopWorks(t *testing.T) {
	top := TopWorks(works(), 3)
	require.Len(t, top, 3)
	assert.Equal(t, "wrk_b", top[0].WorkID)
	assert.Equal(t, "wrk_d", top[1].WorkID)
	assert.Equal(t, "wrk_c", top[2].WorkID)
	assert.Equal(t, "1508", top[0].ImprintYear)
	assert.Equal(t, "", top[1].ImprintYear)

	assert.Empty(t, TopWorks(nil, 20))
}

func TestRenderTop(t *testing.T) {
	out := RenderTop(works(), 2)
	assert.Contains(t, out, "work_id")
	assert.Contains(t, out, "wrk_b")
	assert.Contains(t, out, "wrk_d")
	assert.NotContains(t, out, "wrk_a")
	assert.Contains(t, out, "untranslated")

	assert.Equal(t, "", RenderTop(nil, 20))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "Æn…", truncate("Æneis", 3))
}

func TestManifest_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed", ManifestFilename)
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m := &Manifest{
		RunID:      "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(time.Minute),
		Catalogs:   []catalog.Stats{{Catalog: "USTC", RowsRead: 10, Kept: 7, NonLatin: 3}},
		Series:     map[string]int{"Loeb": 4},
		IndexSize:  4,
		Merge:      merge.Stats{Records: 7, Works: 5, Collapsed: 2},
		Match: MatchSettings{
			EnableFuzzy:    true,
			FuzzyThreshold: 0.9,
			Backend:        "indel",
			Stats:          translation.MatchStats{Works: 5, Exact: 1, Fuzzy: 1, Unmatched: 3, FuzzyRan: true},
		},
		Coverage: ComputeCoverage(works()),
		Outputs:  map[string]string{"csv": "/tmp/m.csv"},
		Top:      TopWorks(works(), 1),
	}
	require.NoError(t, WriteManifest(path, m))

	got, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, got.RunID)
	assert.True(t, m.StartedAt.Equal(got.StartedAt))
	assert.Equal(t, m.Catalogs, got.Catalogs)
	assert.Equal(t, m.Merge, got.Merge)
	assert.Equal(t, m.Match, got.Match)
	assert.Equal(t, m.Top, got.Top)
}

func TestWriteManifest_Keys(t *testing.T) {
	path := filepath.Join(t.TempDir(), ManifestFilename)
	require.NoError(t, WriteManifest(path, &Manifest{RunID: "x", Catalogs: []catalog.Stats{{Catalog: "VD16", RowsRead: 2}}}))

	got, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "x", got.RunID)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(raw), "rows_read: 2"))
	assert.True(t, strings.Contains(string(raw), "run_id: x"))
}

func TestReadManifest_Missing(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
