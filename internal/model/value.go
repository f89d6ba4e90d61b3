package model

import "strconv"

// ValueKind discriminates the typed states a cell can take.
type ValueKind int

const (
	// KindMissing marks a value that was absent or unparseable in the source.
	KindMissing ValueKind = iota
	KindString
	KindNumber
)

// Value is a single typed cell. The zero value is the missing sentinel, which
// is deliberately distinct from the empty string and from zero — "" in the
// source coerces to missing, never to a valid value.
type Value struct {
	Kind ValueKind `json:"kind"`
	Str  string    `json:"str,omitempty"`
	Num  float64   `json:"num,omitempty"`
}

// Missing returns the missing sentinel.
func Missing() Value {
	return Value{Kind: KindMissing}
}

// String returns a string-kinded value.
func String(s string) Value {
	return Value{Kind: KindString, Str: s}
}

// Number returns a number-kinded value.
func Number(f float64) Value {
	return Value{Kind: KindNumber, Num: f}
}

// IsMissing reports whether v is the missing sentinel.
func (v Value) IsMissing() bool {
	return v.Kind == KindMissing
}

// Float returns the numeric payload and whether one is present.
func (v Value) Float() (float64, bool) {
	if v.Kind != KindNumber {
		return 0, false
	}
	return v.Num, true
}

// Render formats v as an output cell. Missing renders as the empty cell;
// numbers use the shortest round-trip representation so re-running the
// pipeline on identical input yields byte-identical output.
func (v Value) Render() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return ""
	}
}
