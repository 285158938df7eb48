// Package export writes master works and translation index entries as flat
// tables: CSV always, XLSX and Parquet on request.
package export

import (
	"encoding/csv"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"

	"github.com/sells-group/latin-corpus/internal/model"
)

// WriteCSV writes a header row and n rows produced by row to path. The file
// is written next to its final name and renamed into place, so readers never
// see a partial table. The header is written even when n is zero.
func WriteCSV(path string, columns []string, n int, row func(i int) []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrap(err, "export: create output dir")
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return eris.Wrap(err, "export: create temp file")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // already renamed on success
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return eris.Wrap(err, "export: chmod temp file")
	}

	w := csv.NewWriter(tmp)
	if err := w.Write(columns); err != nil {
		tmp.Close()
		return eris.Wrap(err, "export: write header")
	}
	for i := 0; i < n; i++ {
		if err := w.Write(row(i)); err != nil {
			tmp.Close()
			return eris.Wrap(err, "export: write row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return eris.Wrap(err, "export: flush csv")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "export: close temp file")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return eris.Wrap(err, "export: rename into place")
	}
	return nil
}

// WriteWorksCSV writes works with the given column order.
func WriteWorksCSV(path string, columns []string, works []model.MasterWork) error {
	return WriteCSV(path, columns, len(works), func(i int) []string {
		return works[i].Row(columns)
	})
}

// WriteIndexCSV writes the translation index.
func WriteIndexCSV(path string, entries []model.TranslationIndexEntry) error {
	return WriteCSV(path, model.IndexColumns, len(entries), func(i int) []string {
		return entries[i].Row(model.IndexColumns)
	})
}
