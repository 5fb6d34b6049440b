package importer

import (
	"github.com/shopspring/decimal"
)

// Record is one raw input row, keyed by the column headers of the source
// file. Values are untrimmed cell text.
type Record map[string]string

// Fields is the normalized field set produced by mapping a Record. Optional
// fields that were blank in the input are absent rather than zero-valued,
// which is what gives reconciliation its merge (not replace) semantics.
type Fields struct {
	values map[string]any
}

func NewFields() Fields {
	return Fields{values: make(map[string]any)}
}

func (f Fields) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

func (f Fields) set(name string, value any) {
	f.values[name] = value
}

func (f Fields) String(name string) (string, bool) {
	v, ok := f.values[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// StringOr returns the incoming value for name, or fallback when the field
// was absent in the input.
func (f Fields) StringOr(name, fallback string) string {
	if v, ok := f.String(name); ok {
		return v
	}
	return fallback
}

func (f Fields) Decimal(name string) (decimal.Decimal, bool) {
	v, ok := f.values[name]
	if !ok {
		return decimal.Decimal{}, false
	}
	d, ok := v.(decimal.Decimal)
	return d, ok
}

func (f Fields) DecimalOr(name string, fallback decimal.Decimal) decimal.Decimal {
	if v, ok := f.Decimal(name); ok {
		return v
	}
	return fallback
}

func (f Fields) Int(name string) (int, bool) {
	v, ok := f.values[name]
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}

func (f Fields) Bool(name string) (bool, bool) {
	v, ok := f.values[name]
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}

func (f Fields) BoolOr(name string, fallback bool) bool {
	if v, ok := f.Bool(name); ok {
		return v
	}
	return fallback
}
