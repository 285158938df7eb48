package export

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/latin-corpus/internal/model"
)

// MasterSheet names the worksheet holding the master table.
const MasterSheet = "master"

// WriteWorksXLSX writes works to a single-sheet workbook.
func WriteWorksXLSX(path string, columns []string, works []model.MasterWork) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrap(err, "export: create output dir")
	}

	f := xlsx.NewFile()
	sheet, err := f.AddSheet(MasterSheet)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	appendRow(sheet, columns)
	for i := range works {
		appendRow(sheet, works[i].Row(columns))
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save xlsx")
	}
	return nil
}

func appendRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		cell := row.AddCell()
		cell.SetString(v)
	}
}
