// Package export writes the cleaned table to CSV and XLSX files.
package export

import (
	"encoding/csv"
	"os"

	"github.com/rotisserie/eris"

	"github.com/sells-group/churn-cli/internal/model"
)

// WriteCSV writes the cleaned table to path in the table's column order
// (canonical schema order, derived columns last). Missing cells render as
// empty fields.
func WriteCSV(t model.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "export: create %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(t.Columns); err != nil {
		return eris.Wrap(err, "export: write header")
	}

	for _, row := range t.Rows {
		if err := w.Write(buildRow(t.Columns, row)); err != nil {
			return eris.Wrap(err, "export: write row")
		}
	}

	w.Flush()
	return eris.Wrap(w.Error(), "export: flush csv")
}

// buildRow renders one record in column order.
func buildRow(columns []string, row model.Record) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = row[c].Render()
	}
	return out
}
