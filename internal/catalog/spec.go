// Package catalog turns raw source-catalogue exports into cleaned,
// Latin-only catalog records.
package catalog

import (
	"strings"

	"github.com/sells-group/latin-corpus/internal/model"
)

// Spec describes how one source catalogue export maps onto the canonical
// catalogue columns.
type Spec struct {
	Name            string            `yaml:"name" mapstructure:"name"`
	ColumnMap       map[string]string `yaml:"column_map" mapstructure:"column_map"`
	DefaultFilename string            `yaml:"default_filename" mapstructure:"default_filename"`
	// Path overrides DefaultFilename. Relative paths resolve against the raw
	// data directory.
	Path string `yaml:"path" mapstructure:"path"`
	// Delimiter overrides the delimiter implied by the file extension.
	Delimiter string `yaml:"delimiter" mapstructure:"delimiter"`
}

// DefaultPriority ranks catalogues from most to least trusted.
var DefaultPriority = []string{
	model.CatalogUSTC,
	model.CatalogVD16,
	model.CatalogVD17,
	model.CatalogVD18,
	model.CatalogESTC,
}

// DefaultFilenames maps catalogue labels to their export filenames.
var DefaultFilenames = map[string]string{
	model.CatalogUSTC: "ustc_export.csv",
	model.CatalogVD16: "vd16_export.csv",
	model.CatalogVD17: "vd17_export.csv",
	model.CatalogVD18: "vd18_export.csv",
	model.CatalogESTC: "estc_export.csv",
}

// DefaultFilename returns the export filename for a catalogue label.
// Unknown labels map to "<name>_export.csv".
func DefaultFilename(name string) string {
	if f, ok := DefaultFilenames[strings.ToUpper(name)]; ok {
		return f
	}
	return strings.ToLower(name) + "_export.csv"
}

// BuiltinSpecs returns the catalogues read by default, in load order.
func BuiltinSpecs() []Spec {
	return []Spec{
		{
			Name: model.CatalogUSTC,
			ColumnMap: map[string]string{
				"ustc_id":                "source_id",
				"author":                 "author",
				"short_title":            "title",
				"full_title":             "full_title",
				"imprint_place":          "imprint_place",
				"imprint_year":           "imprint_year",
				"language":               "language",
				"subjects":               "subjects",
				"digital_facsimile_urls": "digital_facsimile_urls",
			},
			DefaultFilename: DefaultFilename(model.CatalogUSTC),
		},
		{
			Name: model.CatalogVD16,
			ColumnMap: map[string]string{
				"vd16":         "source_id",
				"author":       "author",
				"title_short":  "title",
				"title_full":   "full_title",
				"place":        "imprint_place",
				"year":         "imprint_year",
				"language":     "language",
				"keywords":     "subjects",
				"digital_urls": "digital_facsimile_urls",
			},
			DefaultFilename: DefaultFilename(model.CatalogVD16),
		},
		{
			Name: model.CatalogVD17,
			ColumnMap: map[string]string{
				"vd17":              "source_id",
				"author":            "author",
				"short_title":       "title",
				"full_title":        "full_title",
				"place":             "imprint_place",
				"imprint_year":      "imprint_year",
				"language":          "language",
				"subjects":          "subjects",
				"digital_facsimile": "digital_facsimile_urls",
			},
			DefaultFilename: DefaultFilename(model.CatalogVD17),
		},
		{
			Name: model.CatalogVD18,
			ColumnMap: map[string]string{
				"vd18":              "source_id",
				"author":            "author",
				"title":             "title",
				"title_full":        "full_title",
				"place":             "imprint_place",
				"year":              "imprint_year",
				"language":          "language",
				"subjects":          "subjects",
				"digital_facsimile": "digital_facsimile_urls",
			},
			DefaultFilename: DefaultFilename(model.CatalogVD18),
		},
	}
}

// Priority ranks catalogue labels. Unlisted labels rank after every listed one.
type Priority struct {
	rank map[string]int
}

// NewPriority builds a ranking from labels ordered most to least trusted.
// Repeated labels keep their first position.
func NewPriority(order []string) Priority {
	p := Priority{rank: make(map[string]int, len(order))}
	for _, name := range order {
		if _, dup := p.rank[name]; !dup {
			p.rank[name] = len(p.rank)
		}
	}
	return p
}

// Rank returns the label's position; lower is more trusted.
func (p Priority) Rank(name string) int {
	if r, ok := p.rank[name]; ok {
		return r
	}
	return len(p.rank)
}
