package export

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/latin-corpus/internal/model"
)

// Supported output formats.
const (
	FormatCSV     = "csv"
	FormatXLSX    = "xlsx"
	FormatParquet = "parquet"
)

// Output names the master table and the formats written alongside it.
type Output struct {
	Dir string
	// Filename is the CSV name; other formats swap its extension.
	Filename string
	Formats  []string
}

// Paths returns the file written for each requested format. CSV is always
// included.
func (o Output) Paths() map[string]string {
	base := strings.TrimSuffix(o.Filename, filepath.Ext(o.Filename))
	paths := map[string]string{FormatCSV: filepath.Join(o.Dir, o.Filename)}
	for _, f := range o.Formats {
		switch f = strings.ToLower(strings.TrimSpace(f)); f {
		case FormatXLSX, FormatParquet:
			paths[f] = filepath.Join(o.Dir, base+"."+f)
		}
	}
	return paths
}

// WriteWorks writes the scored master table in every requested format and
// returns the written paths keyed by format.
func WriteWorks(o Output, works []model.MasterWork) (map[string]string, error) {
	if o.Filename == "" {
		return nil, eris.New("export: output filename is required")
	}

	paths := o.Paths()
	for format, path := range paths {
		var err error
		switch format {
		case FormatCSV:
			err = WriteWorksCSV(path, model.ScoredColumns, works)
		case FormatXLSX:
			err = WriteWorksXLSX(path, model.ScoredColumns, works)
		case FormatParquet:
			err = WriteWorksParquet(path, works)
		}
		if err != nil {
			return nil, eris.Wrapf(err, "export: write %s", format)
		}
		zap.L().Info("wrote master table",
			zap.String("component", "export"),
			zap.String("format", format),
			zap.String("path", path),
			zap.Int("rows", len(works)),
		)
	}
	return paths, nil
}
