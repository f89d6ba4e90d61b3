package pipeline

import (
	"math"
	"sort"

	"github.com/sells-group/churn-cli/internal/model"
)

// Aggregate computes the statistics summary over the cleaned table: overall
// churn rate, per-category rates for each configured dimension, and
// descriptive statistics for each configured numeric column (overall and
// split by churn label). Missing values never enter a denominator. The
// caller fills Summary.Counters afterward.
func Aggregate(t model.Table, dimensions, numericCols []string) model.Summary {
	sum := model.Summary{
		Overall: churnRate(t.Rows),
	}

	for _, dim := range dimensions {
		if !t.HasColumn(dim) {
			continue
		}
		sum.Dimensions = append(sum.Dimensions, dimensionRates(t.Rows, dim))
	}

	for _, col := range numericCols {
		if !t.HasColumn(col) {
			continue
		}
		sum.Numeric = append(sum.Numeric, numericSummary(t.Rows, col))
	}

	return sum
}

// churnRate computes churned/eligible over a row subset. Rows with a missing
// label are not eligible and count toward neither side.
func churnRate(rows []model.Record) model.Rate {
	var churned, eligible int
	for _, row := range rows {
		label := row[colChurn]
		if label.IsMissing() {
			continue
		}
		eligible++
		if label.Str == model.LabelChurned {
			churned++
		}
	}
	return model.NewRate(churned, eligible)
}

// dimensionRates groups rows by one categorical column and computes the
// churn rate per group, in first-seen order. Rows with a missing category
// value belong to no group.
func dimensionRates(rows []model.Record, dim string) model.DimensionRates {
	var order []string
	groups := make(map[string][]model.Record)

	for _, row := range rows {
		v := row[dim]
		if v.IsMissing() {
			continue
		}
		key := v.Render()
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], row)
	}

	out := model.DimensionRates{Dimension: dim}
	for _, key := range order {
		out.Groups = append(out.Groups, model.CategoryRate{
			Category: key,
			Rate:     churnRate(groups[key]),
		})
	}
	return out
}

// numericSummary computes descriptive statistics for one numeric column,
// overall and per churn label.
func numericSummary(rows []model.Record, col string) model.NumericSummary {
	out := model.NumericSummary{
		Column:  col,
		Overall: describe(collect(rows, col)),
	}
	for _, label := range []string{model.LabelRetained, model.LabelChurned} {
		var subset []model.Record
		for _, row := range rows {
			if !row[colChurn].IsMissing() && row[colChurn].Str == label {
				subset = append(subset, row)
			}
		}
		out.ByLabel = append(out.ByLabel, model.LabelStats{
			Label: label,
			Stats: describe(collect(subset, col)),
		})
	}
	return out
}

// collect gathers the present numeric values of a column.
func collect(rows []model.Record, col string) []float64 {
	var vals []float64
	for _, row := range rows {
		if f, ok := row[col].Float(); ok {
			vals = append(vals, f)
		}
	}
	return vals
}

// describe computes count, mean, sample standard deviation, and the
// five-number summary. Std is zero when fewer than two values are present.
func describe(vals []float64) model.Stats {
	n := len(vals)
	if n == 0 {
		return model.Stats{}
	}

	var sum float64
	for _, v := range vals {
		sum += v
	}
	mean := sum / float64(n)

	var sq float64
	for _, v := range vals {
		d := v - mean
		sq += d * d
	}
	var std float64
	if n > 1 {
		std = math.Sqrt(sq / float64(n-1))
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)

	return model.Stats{
		Count:  n,
		Mean:   mean,
		Std:    std,
		Min:    sorted[0],
		Q1:     quantile(sorted, 0.25),
		Median: quantile(sorted, 0.5),
		Q3:     quantile(sorted, 0.75),
		Max:    sorted[n-1],
	}
}

// quantile returns the q-th quantile of sorted values using linear
// interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
