package export

import (
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
	"github.com/rotisserie/eris"

	"github.com/sells-group/latin-corpus/internal/model"
)

// WorkRecord is the Parquet row layout of a scored master work. Unknown
// imprint years are stored as nulls.
type WorkRecord struct {
	WorkID                  string  `parquet:"work_id"`
	SourceCatalog           string  `parquet:"source_catalog"`
	SourceID                string  `parquet:"source_id"`
	Author                  string  `parquet:"author"`
	AuthorNorm              string  `parquet:"author_norm"`
	Title                   string  `parquet:"title"`
	TitleNorm               string  `parquet:"title_norm"`
	FullTitle               string  `parquet:"full_title"`
	ImprintPlace            string  `parquet:"imprint_place"`
	ImprintYear             *int32  `parquet:"imprint_year,optional"`
	Language                string  `parquet:"language"`
	Subjects                string  `parquet:"subjects"`
	DigitalFacsimileURLs    string  `parquet:"digital_facsimile_urls"`
	HasDigitalFacsimile     bool    `parquet:"has_digital_facsimile"`
	DigitalFacsimileSources string  `parquet:"digital_facsimile_sources"`
	HasModernTranslation    bool    `parquet:"has_modern_translation"`
	TranslationSources      string  `parquet:"translation_sources"`
	TranslationLanguages    string  `parquet:"translation_languages"`
	TranslationYears        string  `parquet:"translation_years"`
	PriorityScore           float64 `parquet:"priority_score"`
	PriorityTags            string  `parquet:"priority_tags"`
}

// NewWorkRecord converts a master work to its Parquet layout.
func NewWorkRecord(w *model.MasterWork) WorkRecord {
	r := WorkRecord{
		WorkID:                  w.WorkID,
		SourceCatalog:           w.SourceCatalog,
		SourceID:                w.SourceID,
		Author:                  w.Author,
		AuthorNorm:              w.AuthorNorm,
		Title:                   w.Title,
		TitleNorm:               w.TitleNorm,
		FullTitle:               w.FullTitle,
		ImprintPlace:            w.ImprintPlace,
		Language:                w.Language,
		Subjects:                w.Subjects,
		DigitalFacsimileURLs:    w.DigitalFacsimileURLs,
		HasDigitalFacsimile:     w.HasDigitalFacsimile,
		DigitalFacsimileSources: w.DigitalFacsimileSources,
		HasModernTranslation:    w.HasModernTranslation,
		TranslationSources:      w.TranslationSources,
		TranslationLanguages:    w.TranslationLanguages,
		TranslationYears:        w.TranslationYears,
		PriorityScore:           w.PriorityScore,
		PriorityTags:            w.PriorityTags,
	}
	if w.ImprintYear.Valid {
		y := int32(w.ImprintYear.Value)
		r.ImprintYear = &y
	}
	return r
}

// WriteWorksParquet writes works as a Parquet file.
func WriteWorksParquet(path string, works []model.MasterWork) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "export: create output dir")
	}

	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "export: create parquet file")
	}
	defer f.Close()

	rows := make([]WorkRecord, len(works))
	for i := range works {
		rows[i] = NewWorkRecord(&works[i])
	}

	w := parquet.NewGenericWriter[WorkRecord](f)
	if _, err := w.Write(rows); err != nil {
		w.Close()
		return eris.Wrap(err, "export: write parquet rows")
	}
	if err := w.Close(); err != nil {
		return eris.Wrap(err, "export: close parquet writer")
	}
	if err := f.Close(); err != nil {
		return eris.Wrap(err, "export: close parquet file")
	}
	return nil
}
