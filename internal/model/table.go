package model

// Record maps canonical column names to typed cells. Downstream of the
// normalizer every record carries every canonical column, so lookups never
// need an existence check.
type Record map[string]Value

// Clone returns a deep copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered sequence of records sharing one column set. Row order
// is preserved from the source for reproducible output; Columns fixes the
// export order.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Record `json:"rows"`
}

// HasColumn reports whether name is part of the table's column set.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the table. Stages return fresh tables and
// never mutate their input; Clone is the starting point for stages that
// modify rows.
func (t Table) Clone() Table {
	out := Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Record, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = r.Clone()
	}
	return out
}
