// Package model defines the bibliographic records that flow through the
// latin-corpus pipeline and the canonical column schemas they are written with.
package model

import (
	"strconv"
	"strings"
)

// Catalogue labels for the built-in source catalogues.
const (
	CatalogUSTC = "USTC"
	CatalogVD16 = "VD16"
	CatalogVD17 = "VD17"
	CatalogVD18 = "VD18"
	CatalogESTC = "ESTC"
)

// LanguageLatin is the canonical label every cleaned record carries.
const LanguageLatin = "Latin"

// UnknownYearBucket is the dedupe bucket shared by all records without a usable year.
const UnknownYearBucket = -1

// Year is an imprint year that may be unknown.
type Year struct {
	Value int
	Valid bool
}

// YearOf returns a known year.
func YearOf(v int) Year {
	return Year{Value: v, Valid: true}
}

// String renders the year, or "" when unknown.
func (y Year) String() string {
	if !y.Valid {
		return ""
	}
	return strconv.Itoa(y.Value)
}

// Bucket returns the year, or UnknownYearBucket when unknown.
func (y Year) Bucket() int {
	if !y.Valid {
		return UnknownYearBucket
	}
	return y.Value
}

// Token is the year as used inside work identifiers ("na" when unknown).
func (y Year) Token() string {
	if !y.Valid {
		return "na"
	}
	return strconv.Itoa(y.Value)
}

// CatalogRecord is one cleaned entry from one source catalogue.
type CatalogRecord struct {
	SourceCatalog           string `json:"source_catalog"`
	SourceID                string `json:"source_id"`
	Author                  string `json:"author"`
	AuthorNorm              string `json:"author_norm"`
	Title                   string `json:"title"`
	TitleNorm               string `json:"title_norm"`
	FullTitle               string `json:"full_title"`
	ImprintPlace            string `json:"imprint_place"`
	ImprintYear             Year   `json:"-"`
	Language                string `json:"language"`
	Subjects                string `json:"subjects"`
	DigitalFacsimileURLs    string `json:"digital_facsimile_urls"`
	HasDigitalFacsimile     bool   `json:"has_digital_facsimile"`
	DigitalFacsimileSources string `json:"digital_facsimile_sources"`
}

// DedupeKey identifies "the same work" across catalogues.
type DedupeKey struct {
	AuthorNorm string
	TitleNorm  string
	YearBucket int
}

// Key returns the record's dedupe key.
func (r *CatalogRecord) Key() DedupeKey {
	return DedupeKey{
		AuthorNorm: r.AuthorNorm,
		TitleNorm:  r.TitleNorm,
		YearBucket: r.ImprintYear.Bucket(),
	}
}

// Completeness counts the value columns that carry data.
func (r *CatalogRecord) Completeness() int {
	n := 0
	for _, v := range []string{
		r.Author,
		r.Title,
		r.FullTitle,
		r.ImprintPlace,
		r.Subjects,
		r.DigitalFacsimileURLs,
	} {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}
