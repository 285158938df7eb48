// Package translation builds the translation index from modern translation
// series listings and annotates master works with translation availability.
package translation

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/latin-corpus/internal/fetcher"
	"github.com/sells-group/latin-corpus/internal/model"
	"github.com/sells-group/latin-corpus/internal/normalize"
)

// Series describes one translation series listing.
type Series struct {
	Label     string            `yaml:"label" mapstructure:"label"`
	Path      string            `yaml:"path" mapstructure:"path"`
	ColumnMap map[string]string `yaml:"column_map" mapstructure:"column_map"`
}

// DefaultSeries lists the translation series read when none are configured.
func DefaultSeries() []Series {
	return []Series{
		{Label: "Loeb", Path: "loeb_classical_library.csv"},
		{Label: "I Tatti", Path: "i_tatti_renaissance_library.csv"},
		{Label: "Brill", Path: "brill_translations.csv"},
	}
}

// DefaultFilename derives a listing filename from a series label
// ("I Tatti" -> "i_tatti.csv").
func DefaultFilename(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_") + ".csv"
}

// LoadSeries reads every series listing. Relative paths resolve against
// rawDir. Missing files and blank labels are logged and skipped; other read
// failures are returned.
func LoadSeries(ctx context.Context, rawDir string, series []Series) (map[string]*fetcher.Table, error) {
	log := zap.L().With(zap.String("component", "translation_loader"))
	tables := make(map[string]*fetcher.Table, len(series))

	for _, s := range series {
		label := strings.TrimSpace(s.Label)
		if label == "" {
			log.Warn("skipping translation series with missing label", zap.String("path", s.Path))
			continue
		}

		path := s.Path
		if path == "" {
			path = DefaultFilename(label)
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(rawDir, path)
		}

		tbl, err := fetcher.LoadTable(ctx, path, fetcher.LoadOptions{})
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("translation listing not found", zap.String("series", label), zap.String("path", path))
			tables[label] = fetcher.EmptyTable(model.TranslationColumns...)
			continue
		}
		if err != nil {
			return nil, err
		}
		if len(s.ColumnMap) > 0 {
			tbl = tbl.Rename(s.ColumnMap)
		}

		log.Info("loaded translation listing",
			zap.String("series", label),
			zap.String("path", path),
			zap.Int("rows", tbl.Len()),
		)
		tables[label] = tbl
	}

	return tables, nil
}

// Index is the read-only translation lookup keyed by normalized
// (author, title). Entries are sorted by author, then title.
type Index struct {
	Entries  []model.TranslationIndexEntry
	byKey    map[indexKey]int
	byAuthor map[string][]int
}

type indexKey struct {
	author string
	title  string
}

var translationYear = regexp.MustCompile(`\d{4}`)

type aggregate struct {
	sources   *model.OrderedSet
	languages *model.OrderedSet
	years     *model.OrderedSet
}

// BuildIndex normalizes and aggregates the series tables. Each table is
// labelled by its map key.
func BuildIndex(series map[string]*fetcher.Table) *Index {
	return BuildIndexWith(normalize.Default, series)
}

// BuildIndexWith is BuildIndex with an explicit Normalizer.
func BuildIndexWith(n *normalize.Normalizer, series map[string]*fetcher.Table) *Index {
	groups := make(map[indexKey]*aggregate)

	for label, tbl := range series {
		for i := 0; i < tbl.Len(); i++ {
			key := indexKey{
				author: n.Author(tbl.Get(i, model.ColLatinAuthor)),
				title:  n.Title(tbl.Get(i, model.ColLatinTitle)),
			}
			agg, ok := groups[key]
			if !ok {
				agg = &aggregate{
					sources:   model.NewOrderedSet(model.IsNullToken),
					languages: model.NewOrderedSet(model.IsNullToken),
					years:     model.NewOrderedSet(model.IsNullToken),
				}
				groups[key] = agg
			}
			agg.sources.Add(label)
			agg.languages.Add(strings.TrimSpace(tbl.Get(i, model.ColModernLanguage)))
			agg.years.Add(translationYear.FindString(tbl.Get(i, model.ColYearOfTranslation)))
		}
	}

	entries := make([]model.TranslationIndexEntry, 0, len(groups))
	for key, agg := range groups {
		entries = append(entries, model.TranslationIndexEntry{
			LatinAuthorNorm:    key.author,
			LatinTitleNorm:     key.title,
			TranslationSources: agg.sources.String(),
			ModernLanguages:    agg.languages.String(),
			TranslationYears:   agg.years.String(),
		})
	}

	return NewIndex(entries)
}

// NewIndex indexes prepared entries. Entries sharing a key are merged.
func NewIndex(entries []model.TranslationIndexEntry) *Index {
	merged := make(map[indexKey]*model.TranslationIndexEntry, len(entries))
	for _, e := range entries {
		key := indexKey{author: e.LatinAuthorNorm, title: e.LatinTitleNorm}
		if prev, ok := merged[key]; ok {
			prev.TranslationSources = model.UnionJoin(prev.TranslationSources, e.TranslationSources)
			prev.ModernLanguages = model.UnionJoin(prev.ModernLanguages, e.ModernLanguages)
			prev.TranslationYears = model.UnionJoin(prev.TranslationYears, e.TranslationYears)
			continue
		}
		e := e
		merged[key] = &e
	}

	idx := &Index{
		Entries:  make([]model.TranslationIndexEntry, 0, len(merged)),
		byKey:    make(map[indexKey]int, len(merged)),
		byAuthor: make(map[string][]int),
	}
	for _, e := range merged {
		idx.Entries = append(idx.Entries, *e)
	}
	sort.Slice(idx.Entries, func(i, j int) bool {
		a, b := idx.Entries[i], idx.Entries[j]
		if a.LatinAuthorNorm != b.LatinAuthorNorm {
			return a.LatinAuthorNorm < b.LatinAuthorNorm
		}
		return a.LatinTitleNorm < b.LatinTitleNorm
	})
	for i, e := range idx.Entries {
		idx.byKey[indexKey{author: e.LatinAuthorNorm, title: e.LatinTitleNorm}] = i
		// Appended in title order, so each bucket is sorted by title.
		idx.byAuthor[e.LatinAuthorNorm] = append(idx.byAuthor[e.LatinAuthorNorm], i)
	}
	return idx
}

// Len returns the number of entries.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.Entries)
}

// Lookup returns the entry for an exact normalized (author, title) pair.
func (x *Index) Lookup(author, title string) (model.TranslationIndexEntry, bool) {
	if x == nil {
		return model.TranslationIndexEntry{}, false
	}
	i, ok := x.byKey[indexKey{author: author, title: title}]
	if !ok {
		return model.TranslationIndexEntry{}, false
	}
	return x.Entries[i], true
}

// Candidates returns the entries sharing a normalized author, in ascending
// title order.
func (x *Index) Candidates(author string) []model.TranslationIndexEntry {
	if x == nil {
		return nil
	}
	ids := x.byAuthor[author]
	out := make([]model.TranslationIndexEntry, len(ids))
	for i, id := range ids {
		out[i] = x.Entries[id]
	}
	return out
}
