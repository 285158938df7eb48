package fetcher

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func TestTable_GetNullTokensAndShortRows(t *testing.T) {
	tbl := NewTable(
		[]string{"id", "language", "year"},
		[][]string{
			{"1", "NA", "1543"},
			{"2", "None"},
			{"3", "N/A", "null"},
			{"4", "lat", ""},
		},
	)

	assert.Equal(t, "", tbl.Get(0, "language"))
	assert.Equal(t, "1543", tbl.Get(0, "year"))
	assert.Equal(t, "", tbl.Get(1, "year"))
	assert.Equal(t, "", tbl.Get(2, "year"))
	assert.Equal(t, "lat", tbl.Get(3, "language"))
	assert.Equal(t, "", tbl.Get(3, "missing"))
	assert.Equal(t, "", tbl.Get(99, "id"))
}

func TestTable_Rename(t *testing.T) {
	tbl := NewTable([]string{"ustc_id", " short_title ", "extra"}, [][]string{{"100", "Utopia", "x"}})
	renamed := tbl.Rename(map[string]string{"ustc_id": "source_id", "short_title": "title"})

	assert.True(t, renamed.Has("source_id"))
	assert.True(t, renamed.Has("title"))
	assert.True(t, renamed.Has("extra"))
	assert.False(t, renamed.Has("ustc_id"))
	assert.Equal(t, "Utopia", renamed.Get(0, "title"))
	// The source table is untouched.
	assert.True(t, tbl.Has("ustc_id"))
}

func TestTable_DuplicateColumnFirstWins(t *testing.T) {
	tbl := NewTable([]string{"title", "title"}, [][]string{{"first", "second"}})
	assert.Equal(t, "first", tbl.Get(0, "title"))
}

func TestTable_NilSafe(t *testing.T) {
	var tbl *Table
	assert.Equal(t, 0, tbl.Len())
	assert.False(t, tbl.Has("x"))
	assert.Equal(t, "", tbl.Get(0, "x"))
	assert.Equal(t, 0, tbl.Rename(nil).Len())
}

func TestLoadTable_Missing(t *testing.T) {
	_, err := LoadTable(context.Background(), filepath.Join(t.TempDir(), "absent.csv"), LoadOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoadTable_CSVAndTSV(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "ustc.csv")
	tsvPath := filepath.Join(dir, "vd16.tsv")
	require.NoError(t, os.WriteFile(csvPath, []byte("author,year\nBembo,1525\n"), 0o644))
	require.NoError(t, os.WriteFile(tsvPath, []byte("author\tyear\nEck, Johann\t1530\n"), 0o644))

	tbl, err := LoadTable(context.Background(), csvPath, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "1525", tbl.Get(0, "year"))

	tbl, err = LoadTable(context.Background(), tsvPath, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "Eck, Johann", tbl.Get(0, "author"))
}

func TestLoadTable_DelimiterOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "estc.txt")
	require.NoError(t, os.WriteFile(path, []byte("author|year\nMore|1516\n"), 0o644))

	tbl, err := LoadTable(context.Background(), path, LoadOptions{Delimiter: '|'})
	require.NoError(t, err)
	assert.Equal(t, "1516", tbl.Get(0, "year"))
}

func createTestXLSX(t *testing.T, sheets map[string][][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	for name, rows := range sheets {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				cell := row.AddCell()
				cell.SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "test.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestLoadTable_XLSX(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Sheet1": {
			{"latin_author", "latin_title"},
			{"Cicero", "De officiis"},
			{"", ""},
			{"Seneca", "Epistulae"},
		},
	})

	tbl, err := LoadTable(context.Background(), path, LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Seneca", tbl.Get(1, "latin_author"))
}

func TestReadXLSX_SheetByName(t *testing.T) {
	path := createTestXLSX(t, map[string][][]string{
		"Loeb": {{"a"}, {"1"}},
	})

	rows, err := ReadXLSX(path, XLSXOptions{SheetName: "Loeb", SkipRows: 1})
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1"}}, rows)

	_, err = ReadXLSX(path, XLSXOptions{SheetName: "Brill"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = ReadXLSX(path, XLSXOptions{SheetIndex: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "out of range")
}
