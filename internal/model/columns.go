package model

// Canonical column names.
const (
	ColWorkID                  = "work_id"
	ColSourceCatalog           = "source_catalog"
	ColSourceID                = "source_id"
	ColAuthor                  = "author"
	ColAuthorNorm              = "author_norm"
	ColTitle                   = "title"
	ColTitleNorm               = "title_norm"
	ColFullTitle               = "full_title"
	ColImprintPlace            = "imprint_place"
	ColImprintYear             = "imprint_year"
	ColLanguage                = "language"
	ColSubjects                = "subjects"
	ColDigitalFacsimileURLs    = "digital_facsimile_urls"
	ColHasDigitalFacsimile     = "has_digital_facsimile"
	ColDigitalFacsimileSources = "digital_facsimile_sources"

	ColHasModernTranslation = "has_modern_translation"
	ColTranslationSources   = "translation_sources"
	ColTranslationLanguages = "translation_languages"
	ColTranslationYears     = "translation_years"

	ColPriorityScore = "priority_score"
	ColPriorityTags  = "priority_tags"

	ColLatinAuthor       = "latin_author"
	ColLatinTitle        = "latin_title"
	ColModernLanguage    = "modern_language"
	ColTranslationSeries = "translation_series"
	ColYearOfTranslation = "year_of_translation"
	ColLatinAuthorNorm   = "latin_author_norm"
	ColLatinTitleNorm    = "latin_title_norm"
	ColModernLanguages   = "modern_languages"
)

// CatalogColumns are the canonical raw catalogue columns a rename map targets.
var CatalogColumns = []string{
	ColSourceID,
	ColAuthor,
	ColTitle,
	ColFullTitle,
	ColImprintPlace,
	ColImprintYear,
	ColLanguage,
	ColSubjects,
	ColDigitalFacsimileURLs,
}

// TranslationColumns are the canonical raw translation-series columns.
var TranslationColumns = []string{
	ColLatinAuthor,
	ColLatinTitle,
	ColModernLanguage,
	ColTranslationSeries,
	ColYearOfTranslation,
}

// MasterColumns is the schema of the deduplicated master table.
var MasterColumns = []string{
	ColWorkID,
	ColSourceCatalog,
	ColSourceID,
	ColAuthor,
	ColAuthorNorm,
	ColTitle,
	ColTitleNorm,
	ColFullTitle,
	ColImprintPlace,
	ColImprintYear,
	ColLanguage,
	ColSubjects,
	ColDigitalFacsimileURLs,
	ColHasDigitalFacsimile,
	ColDigitalFacsimileSources,
}

// MatchedColumns is the master schema plus the translation match fields.
var MatchedColumns = append(append([]string{}, MasterColumns...),
	ColHasModernTranslation,
	ColTranslationSources,
	ColTranslationLanguages,
	ColTranslationYears,
)

// ScoredColumns is the matched schema plus the priority fields.
var ScoredColumns = append(append([]string{}, MatchedColumns...),
	ColPriorityScore,
	ColPriorityTags,
)

// IndexColumns is the schema of the translation index.
var IndexColumns = []string{
	ColLatinAuthorNorm,
	ColLatinTitleNorm,
	ColTranslationSources,
	ColModernLanguages,
	ColTranslationYears,
}
