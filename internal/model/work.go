package model

import "strconv"

// MasterWork is the merged record for one distinct bibliographic work.
// Identity fields are fixed by the merge step; the matcher and scorer only
// fill the translation and priority fields.
type MasterWork struct {
	WorkID                  string  `json:"work_id" yaml:"work_id"`
	SourceCatalog           string  `json:"source_catalog" yaml:"source_catalog"`
	SourceID                string  `json:"source_id" yaml:"source_id"`
	Author                  string  `json:"author" yaml:"author"`
	AuthorNorm              string  `json:"author_norm" yaml:"author_norm"`
	Title                   string  `json:"title" yaml:"title"`
	TitleNorm               string  `json:"title_norm" yaml:"title_norm"`
	FullTitle               string  `json:"full_title" yaml:"full_title"`
	ImprintPlace            string  `json:"imprint_place" yaml:"imprint_place"`
	ImprintYear             Year    `json:"-" yaml:"-"`
	Language                string  `json:"language" yaml:"language"`
	Subjects                string  `json:"subjects" yaml:"subjects"`
	DigitalFacsimileURLs    string  `json:"digital_facsimile_urls" yaml:"digital_facsimile_urls"`
	HasDigitalFacsimile     bool    `json:"has_digital_facsimile" yaml:"has_digital_facsimile"`
	DigitalFacsimileSources string  `json:"digital_facsimile_sources" yaml:"digital_facsimile_sources"`
	HasModernTranslation    bool    `json:"has_modern_translation" yaml:"has_modern_translation"`
	TranslationSources      string  `json:"translation_sources" yaml:"translation_sources"`
	TranslationLanguages    string  `json:"translation_languages" yaml:"translation_languages"`
	TranslationYears        string  `json:"translation_years" yaml:"translation_years"`
	PriorityScore           float64 `json:"priority_score" yaml:"priority_score"`
	PriorityTags            string  `json:"priority_tags" yaml:"priority_tags"`
}

// Field returns the tabular rendering of the named column, or "" for an
// unknown column.
func (w *MasterWork) Field(col string) string {
	switch col {
	case ColWorkID:
		return w.WorkID
	case ColSourceCatalog:
		return w.SourceCatalog
	case ColSourceID:
		return w.SourceID
	case ColAuthor:
		return w.Author
	case ColAuthorNorm:
		return w.AuthorNorm
	case ColTitle:
		return w.Title
	case ColTitleNorm:
		return w.TitleNorm
	case ColFullTitle:
		return w.FullTitle
	case ColImprintPlace:
		return w.ImprintPlace
	case ColImprintYear:
		return w.ImprintYear.String()
	case ColLanguage:
		return w.Language
	case ColSubjects:
		return w.Subjects
	case ColDigitalFacsimileURLs:
		return w.DigitalFacsimileURLs
	case ColHasDigitalFacsimile:
		return formatBool(w.HasDigitalFacsimile)
	case ColDigitalFacsimileSources:
		return w.DigitalFacsimileSources
	case ColHasModernTranslation:
		return formatBool(w.HasModernTranslation)
	case ColTranslationSources:
		return w.TranslationSources
	case ColTranslationLanguages:
		return w.TranslationLanguages
	case ColTranslationYears:
		return w.TranslationYears
	case ColPriorityScore:
		return strconv.FormatFloat(w.PriorityScore, 'f', -1, 64)
	case ColPriorityTags:
		return w.PriorityTags
	default:
		return ""
	}
}

// Row renders the work for the given column order.
func (w *MasterWork) Row(columns []string) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		row[i] = w.Field(col)
	}
	return row
}

// ClearTranslation resets the match fields to their unmatched state.
func (w *MasterWork) ClearTranslation() {
	w.HasModernTranslation = false
	w.TranslationSources = ""
	w.TranslationLanguages = ""
	w.TranslationYears = ""
}

// TranslationIndexEntry aggregates every known translation of one
// normalized (author, title) pair.
type TranslationIndexEntry struct {
	LatinAuthorNorm    string `json:"latin_author_norm"`
	LatinTitleNorm     string `json:"latin_title_norm"`
	TranslationSources string `json:"translation_sources"`
	ModernLanguages    string `json:"modern_languages"`
	TranslationYears   string `json:"translation_years"`
}

// Field returns the tabular rendering of the named index column.
func (e *TranslationIndexEntry) Field(col string) string {
	switch col {
	case ColLatinAuthorNorm:
		return e.LatinAuthorNorm
	case ColLatinTitleNorm:
		return e.LatinTitleNorm
	case ColTranslationSources:
		return e.TranslationSources
	case ColModernLanguages:
		return e.ModernLanguages
	case ColTranslationYears:
		return e.TranslationYears
	default:
		return ""
	}
}

// Row renders the entry for the given column order.
func (e *TranslationIndexEntry) Row(columns []string) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		row[i] = e.Field(col)
	}
	return row
}

func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
