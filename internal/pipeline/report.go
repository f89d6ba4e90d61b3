package pipeline

import (
	"fmt"
	"strings"

	"github.com/sells-group/churn-cli/internal/model"
)

// FormatReport generates the human-readable Markdown report for one run.
// It must state how many rows were dropped and why — the dataset never
// shrinks silently.
func FormatReport(source string, sum model.Summary) string {
	var b strings.Builder

	b.WriteString("# Customer Churn ETL Report\n\n")

	// Extraction.
	b.WriteString("## Extraction\n")
	fmt.Fprintf(&b, "- Source file: `%s`\n", source)
	fmt.Fprintf(&b, "- Raw records: %d\n\n", sum.Counters.OriginalRows)

	// Transformation.
	b.WriteString("## Transformation\n")
	b.WriteString("- Column names resolved to the canonical schema; unmatched columns dropped\n")
	b.WriteString("- Numeric columns coerced (unparseable values treated as missing)\n")
	b.WriteString("- Service categories collapsed (e.g. \"No internet service\" -> \"No\")\n")
	fmt.Fprintf(&b, "- Rows dropped for unresolvable churn label: %d\n", sum.Counters.DroppedLabels)
	fmt.Fprintf(&b, "- Duplicate rows removed by customer ID (first occurrence kept): %d\n", sum.Counters.DroppedDuplicates)
	fmt.Fprintf(&b, "- Values that failed coercion and became missing: %d\n", sum.Counters.CoercionFailures)
	fmt.Fprintf(&b, "- Derived %s = TotalCharges / tenure (missing when tenure is 0)\n", ColAverageMonthlyCharge)
	fmt.Fprintf(&b, "- Clean records: %d\n\n", sum.Counters.CleanRows)

	// Rates.
	b.WriteString("## Churn Analysis\n")
	fmt.Fprintf(&b, "- **Overall churn rate**: %s\n", formatRate(sum.Overall))

	for _, dim := range sum.Dimensions {
		fmt.Fprintf(&b, "\n**Churn by %s**\n\n", dim.Dimension)
		fmt.Fprintf(&b, "| %s | Churn rate | Eligible |\n|---|---|---|\n", dim.Dimension)
		for _, g := range dim.Groups {
			fmt.Fprintf(&b, "| %s | %s | %d |\n", g.Category, formatRate(g.Rate), g.Rate.Eligible)
		}
	}

	// Descriptive statistics.
	if len(sum.Numeric) > 0 {
		b.WriteString("\n## Descriptive Statistics\n")
		for _, ns := range sum.Numeric {
			fmt.Fprintf(&b, "\n**%s by churn label**\n\n", ns.Column)
			b.WriteString("| group | count | mean | std | min | 25% | 50% | 75% | max |\n")
			b.WriteString("|---|---|---|---|---|---|---|---|---|\n")
			writeStatsRow(&b, "all", ns.Overall)
			for _, ls := range ns.ByLabel {
				writeStatsRow(&b, ls.Label, ls.Stats)
			}
		}
	}

	// Findings.
	b.WriteString("\n## Findings\n")
	b.WriteString(findings(sum))

	return b.String()
}

// formatRate renders a rate as a percentage, or an explicit marker when the
// denominator was zero.
func formatRate(r model.Rate) string {
	if !r.Defined {
		return "n/a (no eligible rows)"
	}
	return fmt.Sprintf("%.2f%%", r.Value*100)
}

func writeStatsRow(b *strings.Builder, label string, s model.Stats) {
	if s.Count == 0 {
		fmt.Fprintf(b, "| %s | 0 | - | - | - | - | - | - | - |\n", label)
		return
	}
	std := "-"
	if s.Count > 1 {
		std = fmt.Sprintf("%.2f", s.Std)
	}
	fmt.Fprintf(b, "| %s | %d | %.2f | %s | %.2f | %.2f | %.2f | %.2f | %.2f |\n",
		label, s.Count, s.Mean, std, s.Min, s.Q1, s.Median, s.Q3, s.Max)
}

// findings surfaces the highest-churn category per dimension.
func findings(sum model.Summary) string {
	var b strings.Builder
	for _, dim := range sum.Dimensions {
		var worst *model.CategoryRate
		for i := range dim.Groups {
			g := &dim.Groups[i]
			if !g.Rate.Defined {
				continue
			}
			if worst == nil || g.Rate.Value > worst.Rate.Value {
				worst = g
			}
		}
		if worst != nil {
			fmt.Fprintf(&b, "- Highest churn within %s: %s (%s)\n",
				dim.Dimension, worst.Category, formatRate(worst.Rate))
		}
	}
	if b.Len() == 0 {
		b.WriteString("- No per-dimension rates available.\n")
	}
	return b.String()
}
