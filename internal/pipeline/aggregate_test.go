package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/churn-cli/internal/model"
)

func labeledRow(id, label string, extra model.Record) model.Record {
	row := model.Record{
		"customerID": model.String(id),
		"Churn":      model.String(label),
	}
	for k, v := range extra {
		row[k] = v
	}
	return row
}

func TestAggregate_OverallRate(t *testing.T) {
	in := rawTable(
		[]string{"customerID", "Churn"},
		labeledRow("A", model.LabelChurned, nil),
		labeledRow("B", model.LabelRetained, nil),
		labeledRow("C", model.LabelRetained, nil),
		labeledRow("D", model.LabelChurned, nil),
	)

	sum := Aggregate(in, nil, nil)

	require.True(t, sum.Overall.Defined)
	assert.Equal(t, 0.5, sum.Overall.Value)
	assert.Equal(t, 2, sum.Overall.Churned)
	assert.Equal(t, 4, sum.Overall.Eligible)
}

func TestAggregate_RateBounds(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   float64
	}{
		{"all churned", []string{model.LabelChurned, model.LabelChurned}, 1},
		{"none churned", []string{model.LabelRetained, model.LabelRetained}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows []model.Record
			for i, label := range tt.labels {
				rows = append(rows, labeledRow(string(rune('A'+i)), label, nil))
			}
			sum := Aggregate(rawTable([]string{"customerID", "Churn"}, rows...), nil, nil)
			require.True(t, sum.Overall.Defined)
			assert.Equal(t, tt.want, sum.Overall.Value)
		})
	}
}

func TestAggregate_UndefinedRateOnEmptyTable(t *testing.T) {
	sum := Aggregate(rawTable([]string{"customerID", "Churn"}), nil, nil)

	assert.False(t, sum.Overall.Defined)
	assert.Zero(t, sum.Overall.Value)
	assert.Zero(t, sum.Overall.Eligible)
}

func TestAggregate_DimensionRates(t *testing.T) {
	in := rawTable(
		[]string{"customerID", "Churn", "Contract"},
		labeledRow("A", model.LabelChurned, model.Record{"Contract": model.String("Month-to-month")}),
		labeledRow("B", model.LabelRetained, model.Record{"Contract": model.String("Two year")}),
		labeledRow("C", model.LabelChurned, model.Record{"Contract": model.String("Month-to-month")}),
		labeledRow("D", model.LabelRetained, model.Record{"Contract": model.String("Month-to-month")}),
	)

	sum := Aggregate(in, []string{"Contract"}, nil)

	require.Len(t, sum.Dimensions, 1)
	dim := sum.Dimensions[0]
	assert.Equal(t, "Contract", dim.Dimension)
	require.Len(t, dim.Groups, 2)

	// Groups come out in first-seen order.
	assert.Equal(t, "Month-to-month", dim.Groups[0].Category)
	assert.InDelta(t, 2.0/3.0, dim.Groups[0].Rate.Value, 1e-9)
	assert.Equal(t, 3, dim.Groups[0].Rate.Eligible)

	assert.Equal(t, "Two year", dim.Groups[1].Category)
	assert.Equal(t, 0.0, dim.Groups[1].Rate.Value)
}

func TestAggregate_MissingCategoryExcluded(t *testing.T) {
	in := rawTable(
		[]string{"customerID", "Churn", "Contract"},
		labeledRow("A", model.LabelChurned, model.Record{"Contract": model.String("One year")}),
		labeledRow("B", model.LabelRetained, model.Record{"Contract": model.Missing()}),
	)

	sum := Aggregate(in, []string{"Contract"}, nil)

	require.Len(t, sum.Dimensions, 1)
	require.Len(t, sum.Dimensions[0].Groups, 1)
	assert.Equal(t, 1, sum.Dimensions[0].Groups[0].Rate.Eligible)
}

func TestAggregate_UnknownColumnsSkipped(t *testing.T) {
	in := rawTable(
		[]string{"customerID", "Churn"},
		labeledRow("A", model.LabelChurned, nil),
	)

	sum := Aggregate(in, []string{"NoSuchDimension"}, []string{"NoSuchNumeric"})

	assert.Empty(t, sum.Dimensions)
	assert.Empty(t, sum.Numeric)
}

func TestAggregate_NumericSummary(t *testing.T) {
	in := rawTable(
		[]string{"customerID", "Churn", "MonthlyCharges"},
		labeledRow("A", model.LabelRetained, model.Record{"MonthlyCharges": model.Number(1)}),
		labeledRow("B", model.LabelRetained, model.Record{"MonthlyCharges": model.Number(2)}),
		labeledRow("C", model.LabelChurned, model.Record{"MonthlyCharges": model.Number(3)}),
		labeledRow("D", model.LabelChurned, model.Record{"MonthlyCharges": model.Number(4)}),
	)

	sum := Aggregate(in, nil, []string{"MonthlyCharges"})

	require.Len(t, sum.Numeric, 1)
	ns := sum.Numeric[0]
	assert.Equal(t, "MonthlyCharges", ns.Column)

	assert.Equal(t, 4, ns.Overall.Count)
	assert.Equal(t, 2.5, ns.Overall.Mean)
	assert.InDelta(t, 1.29099, ns.Overall.Std, 1e-5)
	assert.Equal(t, 1.0, ns.Overall.Min)
	assert.Equal(t, 1.75, ns.Overall.Q1)
	assert.Equal(t, 2.5, ns.Overall.Median)
	assert.Equal(t, 3.25, ns.Overall.Q3)
	assert.Equal(t, 4.0, ns.Overall.Max)

	require.Len(t, ns.ByLabel, 2)
	assert.Equal(t, model.LabelRetained, ns.ByLabel[0].Label)
	assert.Equal(t, 1.5, ns.ByLabel[0].Stats.Mean)
	assert.Equal(t, model.LabelChurned, ns.ByLabel[1].Label)
	assert.Equal(t, 3.5, ns.ByLabel[1].Stats.Mean)
}

func TestAggregate_NumericIgnoresMissing(t *testing.T) {
	in := rawTable(
		[]string{"customerID", "Churn", "TotalCharges"},
		labeledRow("A", model.LabelRetained, model.Record{"TotalCharges": model.Number(10)}),
		labeledRow("B", model.LabelRetained, model.Record{"TotalCharges": model.Missing()}),
	)

	sum := Aggregate(in, nil, []string{"TotalCharges"})

	require.Len(t, sum.Numeric, 1)
	assert.Equal(t, 1, sum.Numeric[0].Overall.Count)
	assert.Equal(t, 10.0, sum.Numeric[0].Overall.Mean)
}

func TestDescribe_SingleValue(t *testing.T) {
	s := describe([]float64{5})

	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 5.0, s.Mean)
	assert.Zero(t, s.Std)
	assert.Equal(t, 5.0, s.Min)
	assert.Equal(t, 5.0, s.Median)
	assert.Equal(t, 5.0, s.Max)
}

func TestQuantile_Interpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	assert.Equal(t, 1.0, quantile(sorted, 0))
	assert.Equal(t, 2.0, quantile(sorted, 0.25))
	assert.Equal(t, 3.0, quantile(sorted, 0.5))
	assert.Equal(t, 5.0, quantile(sorted, 1))
	assert.InDelta(t, 1.4, quantile(sorted, 0.1), 1e-9)
}
