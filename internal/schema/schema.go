// Package schema defines the canonical column set for the churn dataset and
// the alias/category maps used to resolve raw source spellings.
package schema

import (
	"strings"

	"golang.org/x/text/cases"
)

// ColumnType declares how a canonical column's raw values are coerced.
type ColumnType string

const (
	// TypeString trims text; the empty string coerces to missing.
	TypeString ColumnType = "string"
	// TypeNumber parses text to float64; unparseable values coerce to missing.
	TypeNumber ColumnType = "number"
	// TypeCategory maps a fixed set of raw spellings to canonical labels;
	// unrecognized spellings coerce to missing.
	TypeCategory ColumnType = "category"
	// TypeLabel is the churn target. Rows whose label cannot be resolved are
	// dropped by the normalizer rather than kept with a missing label.
	TypeLabel ColumnType = "label"
)

// Column is one canonical column: its target type, accepted raw-name aliases,
// and (for category/label columns) the spelling map. Static configuration,
// not derived from data.
type Column struct {
	Name       string            `yaml:"name"`
	Type       ColumnType        `yaml:"type"`
	Aliases    []string          `yaml:"aliases,omitempty"`
	Categories map[string]string `yaml:"categories,omitempty"`
	Identity   bool              `yaml:"identity,omitempty"`
}

// Schema is the ordered canonical column set. Column order fixes the export
// order of the cleaned table.
type Schema struct {
	Columns []Column `yaml:"columns"`
}

// Identity returns the identity-key column name.
func (s Schema) Identity() string {
	for _, c := range s.Columns {
		if c.Identity {
			return c.Name
		}
	}
	return ""
}

// Label returns the churn label column name.
func (s Schema) Label() string {
	for _, c := range s.Columns {
		if c.Type == TypeLabel {
			return c.Name
		}
	}
	return ""
}

// ColumnNames returns the canonical column names in schema order.
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

var folder = cases.Fold()

// FoldKey normalizes a raw column name or category spelling for matching:
// trimmed, case-folded, internal separators unified to underscores.
func FoldKey(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return folder.String(s)
}

// Resolve matches a folded raw column name against the schema and returns the
// canonical column, if any. The canonical name itself always matches.
func (s Schema) Resolve(rawName string) (Column, bool) {
	key := FoldKey(rawName)
	for _, c := range s.Columns {
		if FoldKey(c.Name) == key {
			return c, true
		}
		for _, a := range c.Aliases {
			if FoldKey(a) == key {
				return c, true
			}
		}
	}
	return Column{}, false
}

// ResolveCategory maps a raw category spelling to its canonical label.
func (c Column) ResolveCategory(raw string) (string, bool) {
	v, ok := c.Categories[FoldKey(raw)]
	return v, ok
}

// yesNo is the spelling map for plain boolean-like columns.
func yesNo() map[string]string {
	return map[string]string{
		"yes": "Yes", "no": "No",
		"true": "Yes", "false": "No",
		"1": "Yes", "0": "No",
	}
}

// service extends yesNo with the "no service" collapsings: customers without
// the underlying internet or phone subscription count as "No" for add-ons.
func service() map[string]string {
	m := yesNo()
	m["no_internet_service"] = "No"
	m["no_phone_service"] = "No"
	m["sem_serviço_de_internet"] = "No"
	m["sem_serviço_de_telefone"] = "No"
	return m
}

// churnLabel maps raw churn spellings to the two resolved states.
func churnLabel() map[string]string {
	return map[string]string{
		"yes": "churned", "no": "retained",
		"true": "churned", "false": "retained",
		"1": "churned", "0": "retained",
		"churned": "churned", "retained": "retained",
	}
}

// Default returns the canonical telecom churn schema.
func Default() Schema {
	return Schema{Columns: []Column{
		{Name: "customerID", Type: TypeString, Identity: true, Aliases: []string{"customer_id", "customerid"}},
		{Name: "gender", Type: TypeString},
		{Name: "SeniorCitizen", Type: TypeCategory, Aliases: []string{"senior_citizen"}, Categories: yesNo()},
		{Name: "Partner", Type: TypeCategory, Categories: yesNo()},
		{Name: "Dependents", Type: TypeCategory, Categories: yesNo()},
		{Name: "tenure", Type: TypeNumber, Aliases: []string{"tenure_months", "customer_tenure"}},
		{Name: "PhoneService", Type: TypeCategory, Aliases: []string{"phone_service"}, Categories: yesNo()},
		{Name: "MultipleLines", Type: TypeCategory, Aliases: []string{"multiple_lines"}, Categories: service()},
		{Name: "InternetService", Type: TypeString, Aliases: []string{"internet_service"}},
		{Name: "OnlineSecurity", Type: TypeCategory, Aliases: []string{"online_security"}, Categories: service()},
		{Name: "OnlineBackup", Type: TypeCategory, Aliases: []string{"online_backup"}, Categories: service()},
		{Name: "DeviceProtection", Type: TypeCategory, Aliases: []string{"device_protection"}, Categories: service()},
		{Name: "TechSupport", Type: TypeCategory, Aliases: []string{"tech_support"}, Categories: service()},
		{Name: "StreamingTV", Type: TypeCategory, Aliases: []string{"streaming_tv"}, Categories: service()},
		{Name: "StreamingMovies", Type: TypeCategory, Aliases: []string{"streaming_movies"}, Categories: service()},
		{Name: "Contract", Type: TypeString, Aliases: []string{"contract_type"}},
		{Name: "PaperlessBilling", Type: TypeCategory, Aliases: []string{"paperless_billing"}, Categories: yesNo()},
		{Name: "PaymentMethod", Type: TypeString, Aliases: []string{"payment_method"}},
		{Name: "MonthlyCharges", Type: TypeNumber, Aliases: []string{"monthly_charges"}},
		{Name: "TotalCharges", Type: TypeNumber, Aliases: []string{"total_charges"}},
		{Name: "Churn", Type: TypeLabel, Aliases: []string{"churned", "churn_label"}, Categories: churnLabel()},
	}}
}
