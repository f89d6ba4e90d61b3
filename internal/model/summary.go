package model

// Churn label states after normalization. Any raw spelling resolves to one of
// these two or to missing; rows left ambiguous are dropped by the normalizer.
const (
	LabelChurned  = "churned"
	LabelRetained = "retained"
)

// Rate is a churn rate over some row subset. Defined is false when the
// subset had no rows with a resolved label — an explicit marker instead of a
// NaN leaking into the report.
type Rate struct {
	Defined  bool    `json:"defined"`
	Value    float64 `json:"value"` // fraction in [0,1]
	Churned  int     `json:"churned"`
	Eligible int     `json:"eligible"`
}

// NewRate computes churned/eligible, handling the zero denominator.
func NewRate(churned, eligible int) Rate {
	if eligible == 0 {
		return Rate{}
	}
	return Rate{
		Defined:  true,
		Value:    float64(churned) / float64(eligible),
		Churned:  churned,
		Eligible: eligible,
	}
}

// CategoryRate is the churn rate for one category value of a dimension.
type CategoryRate struct {
	Category string `json:"category"`
	Rate     Rate   `json:"rate"`
}

// DimensionRates holds per-category rates for one categorical dimension,
// in first-seen category order.
type DimensionRates struct {
	Dimension string         `json:"dimension"`
	Groups    []CategoryRate `json:"groups"`
}

// Stats holds descriptive statistics for a numeric column subset. Missing
// values are excluded; Count is the number of present values. Std is the
// sample standard deviation and only meaningful when Count >= 2.
type Stats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// LabelStats is a column's descriptive statistics within one churn group.
type LabelStats struct {
	Label string `json:"label"`
	Stats Stats  `json:"stats"`
}

// NumericSummary holds a numeric column's statistics overall and split by
// churn label.
type NumericSummary struct {
	Column  string       `json:"column"`
	Overall Stats        `json:"overall"`
	ByLabel []LabelStats `json:"by_label"`
}

// Counters surfaces how the dataset shrank during cleaning. The report must
// state these; rows are never dropped silently.
type Counters struct {
	OriginalRows      int `json:"original_rows"`
	CleanRows         int `json:"clean_rows"`
	DroppedDuplicates int `json:"dropped_duplicates"`
	DroppedLabels     int `json:"dropped_labels"`
	CoercionFailures  int `json:"coercion_failures"`
}

// Summary is the aggregator's output: overall and per-dimension churn rates
// plus descriptive statistics. Produced once per run and immutable after;
// reporting and export collaborators only read it.
type Summary struct {
	Overall    Rate             `json:"overall"`
	Dimensions []DimensionRates `json:"dimensions"`
	Numeric    []NumericSummary `json:"numeric"`
	Counters   Counters         `json:"counters"`
}
