package pipeline

import (
	"github.com/sells-group/churn-cli/internal/model"
)

// Canonical columns the deriver and aggregator reference directly.
const (
	colTenure       = "tenure"
	colTotalCharges = "TotalCharges"
	colChurn        = "Churn"

	// ColAverageMonthlyCharge is the derived per-period charge column,
	// appended after the canonical columns.
	ColAverageMonthlyCharge = "AverageMonthlyCharge"
)

// DeriveFeatures appends derived columns to a deduplicated table. All
// pre-existing columns and row order are preserved.
//
// AverageMonthlyCharge = TotalCharges / tenure when both are present and
// tenure > 0; otherwise the missing sentinel — never an infinity.
func DeriveFeatures(t model.Table) model.Table {
	out := t.Clone()
	out.Columns = append(out.Columns, ColAverageMonthlyCharge)

	for _, row := range out.Rows {
		total, okTotal := row[colTotalCharges].Float()
		tenure, okTenure := row[colTenure].Float()
		if okTotal && okTenure && tenure > 0 {
			row[ColAverageMonthlyCharge] = model.Number(total / tenure)
		} else {
			row[ColAverageMonthlyCharge] = model.Missing()
		}
	}
	return out
}
