package catalog

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/latin-corpus/internal/fetcher"
	"github.com/sells-group/latin-corpus/internal/model"
)

// Loader reads catalogue exports from a raw data directory and cleans them.
type Loader struct {
	RawDir  string
	Cleaner *Cleaner
}

// NewLoader returns a Loader rooted at rawDir.
func NewLoader(rawDir string, cleaner *Cleaner) *Loader {
	if cleaner == nil {
		cleaner = NewCleaner(nil)
	}
	return &Loader{RawDir: rawDir, Cleaner: cleaner}
}

// Resolve returns the file a spec reads from.
func (l *Loader) Resolve(spec Spec) string {
	path := spec.Path
	if path == "" {
		path = spec.DefaultFilename
	}
	if path == "" {
		path = DefaultFilename(spec.Name)
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.RawDir, path)
}

// Load reads and cleans one catalogue. A missing export is logged and
// yields no records.
func (l *Loader) Load(ctx context.Context, spec Spec) ([]model.CatalogRecord, Stats, error) {
	log := zap.L().With(zap.String("component", "catalog_loader"), zap.String("catalog", spec.Name))
	path := l.Resolve(spec)

	opts := fetcher.LoadOptions{}
	if spec.Delimiter != "" {
		r, _ := utf8.DecodeRuneInString(spec.Delimiter)
		opts.Delimiter = r
	}

	tbl, err := fetcher.LoadTable(ctx, path, opts)
	if errors.Is(err, fs.ErrNotExist) {
		log.Warn("catalogue export not found", zap.String("path", path))
		return nil, Stats{Catalog: spec.Name}, nil
	}
	if err != nil {
		return nil, Stats{Catalog: spec.Name}, eris.Wrapf(err, "catalog: load %s", spec.Name)
	}
	log.Info("loaded catalogue export",
		zap.String("path", path),
		zap.Int("rows", tbl.Len()),
		zap.Int("columns", len(tbl.Header)),
	)

	records, stats := l.Cleaner.Clean(spec.Name, tbl, spec.ColumnMap)
	return records, stats, nil
}

// LoadAll loads every spec in order and concatenates the records.
func (l *Loader) LoadAll(ctx context.Context, specs []Spec) ([]model.CatalogRecord, []Stats, error) {
	var (
		all   []model.CatalogRecord
		stats = make([]Stats, 0, len(specs))
	)
	for _, spec := range specs {
		if err := ctx.Err(); err != nil {
			return nil, nil, eris.Wrap(err, "catalog: load cancelled")
		}
		records, st, err := l.Load(ctx, spec)
		if err != nil {
			return nil, nil, err
		}
		if len(records) == 0 {
			zap.L().Info("catalogue produced no records",
				zap.String("catalog", spec.Name),
			)
		}
		all = append(all, records...)
		stats = append(stats, st)
	}
	return all, stats, nil
}
