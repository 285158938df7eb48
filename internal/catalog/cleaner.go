package catalog

import (
	"strings"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/sells-group/latin-corpus/internal/fetcher"
	"github.com/sells-group/latin-corpus/internal/model"
	"github.com/sells-group/latin-corpus/internal/normalize"
)

// Stats counts what a Clean call did with the raw rows.
type Stats struct {
	Catalog  string `json:"catalog" yaml:"catalog"`
	RowsRead int    `json:"rows_read" yaml:"rows_read"`
	Kept     int    `json:"kept" yaml:"kept"`
	NonLatin int    `json:"non_latin" yaml:"non_latin"`
}

// Cleaner filters and normalizes raw catalogue rows. Normalized author and
// title keys are memoized because exports repeat the same headings.
type Cleaner struct {
	norm *normalize.Normalizer
	memo *gocache.Cache
}

// NewCleaner returns a Cleaner using n, or the default normalizer when n is nil.
func NewCleaner(n *normalize.Normalizer) *Cleaner {
	if n == nil {
		n = normalize.Default
	}
	return &Cleaner{
		norm: n,
		memo: gocache.New(gocache.NoExpiration, 0),
	}
}

// Clean renames the table's columns through columnMap and converts every
// Latin-language row into a CatalogRecord. Absent columns read as missing.
func (c *Cleaner) Clean(name string, tbl *fetcher.Table, columnMap map[string]string) ([]model.CatalogRecord, Stats) {
	log := zap.L().With(zap.String("component", "catalog_cleaner"), zap.String("catalog", name))
	stats := Stats{Catalog: name, RowsRead: tbl.Len()}

	if len(columnMap) > 0 {
		tbl = tbl.Rename(columnMap)
	}
	for _, col := range model.CatalogColumns {
		if !tbl.Has(col) {
			log.Debug("column absent, treating as missing", zap.String("column", col))
		}
	}

	records := make([]model.CatalogRecord, 0, tbl.Len())
	for i := 0; i < tbl.Len(); i++ {
		rawLanguage := strings.TrimSpace(tbl.Get(i, model.ColLanguage))
		if !normalize.IsLatin(rawLanguage) {
			stats.NonLatin++
			continue
		}

		rec := model.CatalogRecord{
			SourceCatalog:        name,
			SourceID:             strings.TrimSpace(tbl.Get(i, model.ColSourceID)),
			Author:               strings.TrimSpace(tbl.Get(i, model.ColAuthor)),
			Title:                strings.TrimSpace(tbl.Get(i, model.ColTitle)),
			FullTitle:            strings.TrimSpace(tbl.Get(i, model.ColFullTitle)),
			ImprintPlace:         strings.TrimSpace(tbl.Get(i, model.ColImprintPlace)),
			ImprintYear:          normalize.ExtractYearString(tbl.Get(i, model.ColImprintYear)),
			Language:             model.LanguageLatin,
			Subjects:             strings.TrimSpace(tbl.Get(i, model.ColSubjects)),
			DigitalFacsimileURLs: strings.TrimSpace(tbl.Get(i, model.ColDigitalFacsimileURLs)),
		}
		rec.AuthorNorm = c.author(rec.Author)
		rec.TitleNorm = c.title(rec.Title)
		if rec.DigitalFacsimileURLs != "" {
			rec.HasDigitalFacsimile = true
			rec.DigitalFacsimileSources = name
		}

		records = append(records, rec)
	}

	stats.Kept = len(records)
	log.Info("cleaned catalogue",
		zap.Int("rows", stats.RowsRead),
		zap.Int("kept", stats.Kept),
		zap.Int("non_latin", stats.NonLatin),
	)
	return records, stats
}

func (c *Cleaner) author(raw string) string {
	return c.memoize("a\x00"+raw, raw, c.norm.Author)
}

func (c *Cleaner) title(raw string) string {
	return c.memoize("t\x00"+raw, raw, c.norm.Title)
}

func (c *Cleaner) memoize(key, raw string, fn func(string) string) string {
	if raw == "" {
		return ""
	}
	if v, ok := c.memo.Get(key); ok {
		return v.(string)
	}
	v := fn(raw)
	c.memo.Set(key, v, gocache.NoExpiration)
	return v
}
