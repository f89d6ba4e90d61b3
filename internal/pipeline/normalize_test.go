package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/churn-cli/internal/model"
	"github.com/sells-group/churn-cli/internal/schema"
)

func rawTable(columns []string, rows ...model.Record) model.Table {
	return model.Table{Columns: columns, Rows: rows}
}

func TestNormalize_AliasResolution(t *testing.T) {
	in := rawTable(
		[]string{"Customer ID", "CHURN", "Monthly Charges"},
		model.Record{
			"Customer ID":     model.String("A1"),
			"CHURN":           model.String("Yes"),
			"Monthly Charges": model.String("50.5"),
		},
	)

	out, stats, err := Normalize(in, schema.Default())
	require.NoError(t, err)
	require.Len(t, out.Rows, 1)

	row := out.Rows[0]
	assert.Equal(t, "A1", row["customerID"].Str)
	assert.Equal(t, model.LabelChurned, row["Churn"].Str)
	assert.Equal(t, 50.5, row["MonthlyCharges"].Num)
	assert.Zero(t, stats.CoercionFailures)
}

func TestNormalize_AllCanonicalColumnsPresent(t *testing.T) {
	s := schema.Default()
	in := rawTable(
		[]string{"customerID", "Churn"},
		model.Record{"customerID": model.String("A1"), "Churn": model.String("No")},
	)

	out, _, err := Normalize(in, s)
	require.NoError(t, err)

	assert.Equal(t, s.ColumnNames(), out.Columns)
	for _, col := range out.Columns {
		_, ok := out.Rows[0][col]
		assert.True(t, ok, col)
	}
	// Columns absent from the source come out all-missing.
	assert.True(t, out.Rows[0]["TotalCharges"].IsMissing())
}

func TestNormalize_UnmatchedRawColumnsDropped(t *testing.T) {
	in := rawTable(
		[]string{"customerID", "Churn", "internal_notes"},
		model.Record{
			"customerID":     model.String("A1"),
			"Churn":          model.String("No"),
			"internal_notes": model.String("ignore me"),
		},
	)

	out, _, err := Normalize(in, schema.Default())
	require.NoError(t, err)
	assert.False(t, out.HasColumn("internal_notes"))
}

func TestNormalize_NumericCoercion(t *testing.T) {
	tests := []struct {
		name    string
		raw     model.Value
		missing bool
		num     float64
		failure bool
	}{
		{"parses text", model.String("42.5"), false, 42.5, false},
		{"keeps numbers", model.Number(7), false, 7, false},
		{"empty is missing", model.String(""), true, 0, false},
		{"whitespace is missing", model.String("  "), true, 0, false},
		{"garbage is missing and tallied", model.String("abc"), true, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := rawTable(
				[]string{"customerID", "Churn", "MonthlyCharges"},
				model.Record{
					"customerID":     model.String("A1"),
					"Churn":          model.String("No"),
					"MonthlyCharges": tt.raw,
				},
			)

			out, stats, err := Normalize(in, schema.Default())
			require.NoError(t, err)
			require.Len(t, out.Rows, 1)

			v := out.Rows[0]["MonthlyCharges"]
			assert.Equal(t, tt.missing, v.IsMissing())
			if !tt.missing {
				assert.Equal(t, tt.num, v.Num)
			}
			assert.Equal(t, tt.failure, stats.CoercionFailures == 1)
		})
	}
}

func TestNormalize_CategoryCollapse(t *testing.T) {
	in := rawTable(
		[]string{"customerID", "Churn", "OnlineSecurity", "SeniorCitizen"},
		model.Record{
			"customerID":     model.String("A1"),
			"Churn":          model.String("No"),
			"OnlineSecurity": model.String("No internet service"),
			"SeniorCitizen":  model.Number(1),
		},
	)

	out, _, err := Normalize(in, schema.Default())
	require.NoError(t, err)

	assert.Equal(t, "No", out.Rows[0]["OnlineSecurity"].Str)
	assert.Equal(t, "Yes", out.Rows[0]["SeniorCitizen"].Str)
}

func TestNormalize_AmbiguousLabelDropsRow(t *testing.T) {
	in := rawTable(
		[]string{"customerID", "Churn"},
		model.Record{"customerID": model.String("A1"), "Churn": model.String("maybe")},
		model.Record{"customerID": model.String("B2"), "Churn": model.String("Yes")},
	)

	out, stats, err := Normalize(in, schema.Default())
	require.NoError(t, err)

	require.Len(t, out.Rows, 1)
	assert.Equal(t, "B2", out.Rows[0]["customerID"].Str)
	assert.Equal(t, 1, stats.DroppedLabels)
	// Dropped labels are not coercion failures.
	assert.Zero(t, stats.CoercionFailures)
}

func TestNormalize_LabelNeverMissingInOutput(t *testing.T) {
	in := rawTable(
		[]string{"customerID", "Churn"},
		model.Record{"customerID": model.String("A1"), "Churn": model.String("")},
		model.Record{"customerID": model.String("B2"), "Churn": model.Missing()},
		model.Record{"customerID": model.String("C3"), "Churn": model.String("TRUE")},
	)

	out, stats, err := Normalize(in, schema.Default())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.DroppedLabels)
	for _, row := range out.Rows {
		assert.False(t, row["Churn"].IsMissing())
	}
}

func TestNormalize_MissingIdentityColumn(t *testing.T) {
	in := rawTable(
		[]string{"Churn", "tenure"},
		model.Record{"Churn": model.String("Yes"), "tenure": model.String("5")},
	)

	_, _, err := Normalize(in, schema.Default())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSchema))
}

func TestNormalize_StringTrimmed(t *testing.T) {
	in := rawTable(
		[]string{"customerID", "Churn", "Contract"},
		model.Record{
			"customerID": model.String(" A1 "),
			"Churn":      model.String("No"),
			"Contract":   model.String("  Month-to-month  "),
		},
	)

	out, _, err := Normalize(in, schema.Default())
	require.NoError(t, err)
	assert.Equal(t, "A1", out.Rows[0]["customerID"].Str)
	assert.Equal(t, "Month-to-month", out.Rows[0]["Contract"].Str)
}
