package fetcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// nullTokens are cell values read as missing.
var nullTokens = map[string]bool{
	"":     true,
	"NA":   true,
	"N/A":  true,
	"null": true,
	"None": true,
}

// Table is a header-addressed set of string rows.
type Table struct {
	Header []string
	Rows   [][]string
	index  map[string]int
}

// NewTable indexes header names. When a name repeats, the first column wins.
func NewTable(header []string, rows [][]string) *Table {
	t := &Table{Header: header, Rows: rows, index: make(map[string]int, len(header))}
	for i, col := range header {
		col = strings.TrimSpace(col)
		if _, dup := t.index[col]; !dup {
			t.index[col] = i
		}
	}
	return t
}

// EmptyTable returns a table with the given header and no rows.
func EmptyTable(header ...string) *Table {
	return NewTable(header, nil)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Has reports whether the table carries the named column.
func (t *Table) Has(col string) bool {
	if t == nil {
		return false
	}
	_, ok := t.index[col]
	return ok
}

// Get returns the raw cell for row i and column col. Absent columns, short
// rows and null tokens all read as "".
func (t *Table) Get(i int, col string) string {
	if t == nil || i < 0 || i >= len(t.Rows) {
		return ""
	}
	idx, ok := t.index[col]
	if !ok {
		return ""
	}
	row := t.Rows[i]
	if idx >= len(row) {
		return ""
	}
	if nullTokens[row[idx]] {
		return ""
	}
	return row[idx]
}

// Rename returns a copy of the table with header names mapped through
// columnMap. Unmapped columns keep their names.
func (t *Table) Rename(columnMap map[string]string) *Table {
	if t == nil {
		return EmptyTable()
	}
	header := make([]string, len(t.Header))
	for i, col := range t.Header {
		col = strings.TrimSpace(col)
		if renamed, ok := columnMap[col]; ok {
			col = renamed
		}
		header[i] = col
	}
	return NewTable(header, t.Rows)
}

// LoadOptions configures LoadTable.
type LoadOptions struct {
	// Delimiter overrides the delimiter implied by the file extension.
	Delimiter rune
	// SheetName selects an XLSX sheet; the first sheet is used when empty.
	SheetName string
	// RecordElement names the XML element read as one row.
	RecordElement string
}

// LoadTable reads a CSV, TSV or XLSX file whose first row is the header, a
// JSON array of objects, or an XML file of record elements. A missing file
// returns an error matching fs.ErrNotExist.
func LoadTable(ctx context.Context, path string, opts LoadOptions) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, eris.Wrapf(err, "fetcher: stat %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		rows, err := ReadXLSX(path, XLSXOptions{SheetName: opts.SheetName})
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			return EmptyTable(), nil
		}
		return NewTable(rows[0], rows[1:]), nil
	case ".json", ".xml":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "fetcher: open %s", path)
		}
		defer f.Close()

		if strings.EqualFold(filepath.Ext(path), ".json") {
			return ReadJSON(ctx, f)
		}
		return ReadXML(ctx, f, opts.RecordElement)
	default:
		csvOpts := CSVOptions{Delimiter: opts.Delimiter, LazyQuotes: true}
		if csvOpts.Delimiter == 0 && strings.EqualFold(filepath.Ext(path), ".tsv") {
			csvOpts.Delimiter = '\t'
		}

		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "fetcher: open %s", path)
		}
		defer f.Close()

		return ReadCSV(ctx, f, csvOpts)
	}
}
