package export

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/latin-corpus/internal/model"
)

func sampleWorks() []model.MasterWork {
	return []model.MasterWork{
		{
			WorkID:              "wrk_000000000001",
			SourceCatalog:       model.CatalogUSTC,
			SourceID:            "1;2",
			Author:              "Cicero",
			AuthorNorm:          "cicero",
			Title:               "De officiis",
			TitleNorm:           "officiis",
			ImprintYear:         model.YearOf(1543),
			Language:            model.LanguageLatin,
			HasDigitalFacsimile: true,
			PriorityScore:       2.5,
			PriorityTags:        "early_modern_peak;untranslated",
		},
		{
			WorkID:   "wrk_000000000002",
			Author:   "Anon",
			Title:    "Carmina, \"nova\"",
			Language: model.LanguageLatin,
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteWorksCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "master.csv")
	require.NoError(t, WriteWorksCSV(path, model.ScoredColumns, sampleWorks()))

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, model.ScoredColumns, rows[0])

	row := map[string]string{}
	for i, col := range rows[0] {
		row[col] = rows[1][i]
	}
	assert.Equal(t, "1543", row[model.ColImprintYear])
	assert.Equal(t, "True", row[model.ColHasDigitalFacsimile])
	assert.Equal(t, "False", row[model.ColHasModernTranslation])
	assert.Equal(t, "2.5", row[model.ColPriorityScore])

	for i, col := range rows[0] {
		if col == model.ColTitle {
			assert.Equal(t, "Carmina, \"nova\"", rows[2][i])
		}
		if col == model.ColImprintYear {
			assert.Equal(t, "", rows[2][i])
		}
	}

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm())
}

func TestWriteWorksCSV_EmptyKeepsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.csv")
	require.NoError(t, WriteWorksCSV(path, model.MasterColumns, nil))

	rows := readCSV(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, model.MasterColumns, rows[0])
}

func TestWriteIndexCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "translation_index.csv")
	require.NoError(t, WriteIndexCSV(path, []model.TranslationIndexEntry{
		{LatinAuthorNorm: "cicero", LatinTitleNorm: "officiis", TranslationSources: "I Tatti;Loeb", ModernLanguages: "English", TranslationYears: "1913"},
	}))

	rows := readCSV(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, model.IndexColumns, rows[0])
	assert.Equal(t, []string{"cicero", "officiis", "I Tatti;Loeb", "English", "1913"}, rows[1])
}

func TestWriteWorksXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.xlsx")
	require.NoError(t, WriteWorksXLSX(path, model.ScoredColumns, sampleWorks()))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := f.Sheet[MasterSheet]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)
	assert.Equal(t, model.ColWorkID, sheet.Rows[0].Cells[0].String())
	assert.Equal(t, "wrk_000000000001", sheet.Rows[1].Cells[0].String())
}

func TestWriteWorksParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "master.parquet")
	require.NoError(t, WriteWorksParquet(path, sampleWorks()))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	info, err := file.Stat()
	require.NoError(t, err)

	pf, err := parquet.OpenFile(file, info.Size())
	require.NoError(t, err)
	assert.Equal(t, int64(2), pf.NumRows())

	reader := parquet.NewGenericReader[WorkRecord](pf)
	defer reader.Close()
	rows := make([]WorkRecord, 2)
	n, _ := reader.Read(rows)
	require.Equal(t, 2, n)
	require.NotNil(t, rows[0].ImprintYear)
	assert.Equal(t, int32(1543), *rows[0].ImprintYear)
	assert.Nil(t, rows[1].ImprintYear)
	assert.Equal(t, "cicero", rows[0].AuthorNorm)
	assert.InDelta(t, 2.5, rows[0].PriorityScore, 1e-9)
}

func TestOutput_Paths(t *testing.T) {
	o := Output{Dir: "/out", Filename: "latin_master_1450_1900.csv", Formats: []string{"csv", "XLSX", "parquet", "bogus"}}
	assert.Equal(t, map[string]string{
		FormatCSV:     "/out/latin_master_1450_1900.csv",
		FormatXLSX:    "/out/latin_master_1450_1900.xlsx",
		FormatParquet: "/out/latin_master_1450_1900.parquet",
	}, o.Paths())

	assert.Equal(t, map[string]string{FormatCSV: "/out/m.csv"}, Output{Dir: "/out", Filename: "m.csv"}.Paths())
}

func TestWriteWorks_AllFormats(t *testing.T) {
	dir := t.TempDir()
	paths, err := WriteWorks(Output{Dir: dir, Filename: "m.csv", Formats: []string{"xlsx", "parquet"}}, sampleWorks())
	require.NoError(t, err)
	require.Len(t, paths, 3)
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
}

func TestWriteWorks_RequiresFilename(t *testing.T) {
	_, err := WriteWorks(Output{Dir: t.TempDir()}, nil)
	require.Error(t, err)
}
