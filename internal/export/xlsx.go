package export

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/churn-cli/internal/model"
)

// WriteXLSX writes the cleaned table to an XLSX workbook with a single
// sheet, same column order as the CSV export. Numeric cells are written as
// numbers so spreadsheet formulas work on them directly.
func WriteXLSX(t model.Table, path string) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("clean")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, c := range t.Columns {
		header.AddCell().Value = c
	}

	for _, row := range t.Rows {
		r := sheet.AddRow()
		for _, c := range t.Columns {
			cell := r.AddCell()
			v := row[c]
			if num, ok := v.Float(); ok {
				cell.SetFloat(num)
				continue
			}
			cell.Value = v.Render()
		}
	}

	return eris.Wrapf(f.Save(path), "export: save %s", path)
}
