// Package pipeline implements the churn ETL stages: flatten, normalize,
// dedupe, derive, aggregate. Each stage is a pure function of its input
// table; row-local issues are absorbed and tallied, only structural problems
// abort the run.
package pipeline

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/rotisserie/eris"

	"github.com/sells-group/churn-cli/internal/model"
)

// ErrSchema is the fatal error class: unrecognizable input shape or an
// unresolvable identity column. Checked with errors.Is / eris.
var ErrSchema = eris.New("schema error")

// flattenSep joins parent and child keys when a nested object is flattened.
const flattenSep = "_"

// Flatten converts a parsed JSON value into a table. Accepted shapes:
// an array of objects, an object wrapping such an array under some field
// (the "records wrapper"), or a single object treated as a one-row table.
// Nested sub-objects are flattened one level deep; anything deeper is
// serialized to its JSON string form.
func Flatten(raw any) (model.Table, error) {
	rows, err := locateRows(raw)
	if err != nil {
		return model.Table{}, err
	}

	var (
		table model.Table
		seen  = make(map[string]bool)
	)
	for i, el := range rows {
		obj, ok := el.(map[string]any)
		if !ok {
			return model.Table{}, eris.Wrapf(ErrSchema, "flatten: element %d is not an object", i)
		}

		rec := make(model.Record)
		for k, v := range obj {
			for col, cell := range flattenField(k, v) {
				rec[col] = cell
				seen[col] = true
			}
		}
		table.Rows = append(table.Rows, rec)
	}

	// Go maps do not preserve JSON key order, so the raw column set is
	// sorted to keep the output deterministic for identical input.
	table.Columns = make([]string, 0, len(seen))
	for c := range seen {
		table.Columns = append(table.Columns, c)
	}
	sort.Strings(table.Columns)

	return table, nil
}

// locateRows resolves the tagged input shape once at entry.
func locateRows(raw any) ([]any, error) {
	switch v := raw.(type) {
	case []any:
		return v, nil
	case map[string]any:
		// Records wrapper: the first array-valued field (in sorted key
		// order, for determinism) holds the rows.
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if arr, ok := v[k].([]any); ok {
				return arr, nil
			}
		}
		// No array field: a single record.
		return []any{v}, nil
	default:
		return nil, eris.Wrapf(ErrSchema, "flatten: unsupported top-level JSON value %T", raw)
	}
}

// flattenField converts one source field into output cells, flattening
// nested objects one level with the parent key as prefix.
func flattenField(key string, v any) map[string]model.Value {
	nested, ok := v.(map[string]any)
	if !ok {
		return map[string]model.Value{key: toCell(v)}
	}

	out := make(map[string]model.Value, len(nested))
	for ck, cv := range nested {
		out[key+flattenSep+ck] = toCell(cv)
	}
	return out
}

// toCell converts a scalar JSON value to a cell. Deeper containers are
// serialized rather than recursed into.
func toCell(v any) model.Value {
	switch x := v.(type) {
	case nil:
		return model.Missing()
	case string:
		return model.String(x)
	case float64:
		return model.Number(x)
	case bool:
		return model.String(fmt.Sprintf("%t", x))
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return model.Missing()
		}
		return model.String(string(b))
	}
}
