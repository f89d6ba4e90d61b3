package pipeline

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/churn-cli/internal/model"
	"github.com/sells-group/churn-cli/internal/schema"
)

// NormalizeStats tallies the row-local issues absorbed by Normalize.
type NormalizeStats struct {
	DroppedLabels    int // rows excluded for an unresolvable churn label
	CoercionFailures int // non-empty values that became the missing sentinel
}

// Normalize maps raw columns onto the canonical schema and coerces every
// cell to its target type. Unmatched raw columns are dropped; canonical
// columns with no raw counterpart come out all-missing. Rows whose churn
// label cannot be resolved are excluded and tallied — an ambiguous label
// must not count toward either class. Fails only when the identity column
// matches no raw column.
func Normalize(t model.Table, s schema.Schema) (model.Table, NormalizeStats, error) {
	rawFor := resolveColumns(t, s)

	identity := s.Identity()
	if _, ok := rawFor[identity]; !ok {
		return model.Table{}, NormalizeStats{}, eris.Wrapf(ErrSchema,
			"normalize: identity column %s matches no raw column", identity)
	}

	out := model.Table{Columns: s.ColumnNames()}
	var stats NormalizeStats

rows:
	for _, row := range t.Rows {
		rec := make(model.Record, len(s.Columns))
		for _, col := range s.Columns {
			raw, ok := rawFor[col.Name]
			if !ok {
				// A label column with no raw counterpart can never resolve,
				// so every row falls under the drop policy.
				if col.Type == schema.TypeLabel {
					stats.DroppedLabels++
					continue rows
				}
				rec[col.Name] = model.Missing()
				continue
			}

			cell, issue := coerce(row[raw], col)
			if col.Type == schema.TypeLabel {
				// Ambiguous labels are a drop, not a coercion issue.
				if cell.IsMissing() {
					stats.DroppedLabels++
					continue rows
				}
			} else if issue {
				stats.CoercionFailures++
			}
			rec[col.Name] = cell
		}
		out.Rows = append(out.Rows, rec)
	}

	if stats.DroppedLabels > 0 || stats.CoercionFailures > 0 {
		zap.L().Info("normalize: row-local issues absorbed",
			zap.Int("dropped_labels", stats.DroppedLabels),
			zap.Int("coercion_failures", stats.CoercionFailures),
		)
	}

	return out, stats, nil
}

// resolveColumns matches raw column names against the schema. The first raw
// column matching a canonical column wins; later duplicates are ignored.
func resolveColumns(t model.Table, s schema.Schema) map[string]string {
	rawFor := make(map[string]string)
	for _, raw := range t.Columns {
		col, ok := s.Resolve(raw)
		if !ok {
			continue
		}
		if _, taken := rawFor[col.Name]; !taken {
			rawFor[col.Name] = raw
		}
	}
	return rawFor
}

// coerce converts one cell to the column's target type. The second return
// reports a coercion issue: a non-empty value that could not be converted.
// Empty input is plain missing, not an issue.
func coerce(v model.Value, col schema.Column) (model.Value, bool) {
	if v.IsMissing() {
		return model.Missing(), false
	}

	switch col.Type {
	case schema.TypeNumber:
		if f, ok := v.Float(); ok {
			return model.Number(f), false
		}
		s := strings.TrimSpace(v.Str)
		if s == "" {
			return model.Missing(), false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return model.Missing(), true
		}
		return model.Number(f), false

	case schema.TypeCategory, schema.TypeLabel:
		s := strings.TrimSpace(v.Render())
		if s == "" {
			return model.Missing(), false
		}
		if label, ok := col.ResolveCategory(s); ok {
			return model.String(label), false
		}
		return model.Missing(), true

	default: // schema.TypeString
		s := strings.TrimSpace(v.Render())
		if s == "" {
			return model.Missing(), false
		}
		return model.String(s), false
	}
}
