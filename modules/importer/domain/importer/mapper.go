package importer

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type FieldType int

const (
	TypeString FieldType = iota
	TypeDecimal
	TypeInt
	TypeBool
)

// FieldRule declares one column of an entity kind's import format.
type FieldRule struct {
	Name     string
	Type     FieldType
	Required bool
}

var truthyTokens = map[string]bool{
	"t": true, "true": true, "1": true, "y": true, "yes": true,
	"f": false, "false": false, "0": false, "n": false, "no": false,
}

// MapRecord converts a raw record into a normalized field set according to
// the given rules. It is pure: no I/O, no mutation of the input. Blank or
// whitespace-only values are treated as absent; absent required fields and
// malformed typed values produce a ValidationError.
func MapRecord(rec Record, rules []FieldRule) (Fields, error) {
	fields := NewFields()
	for _, rule := range rules {
		raw, ok := rec[rule.Name]
		value := strings.TrimSpace(raw)
		if !ok || value == "" {
			if rule.Required {
				return Fields{}, &ValidationError{Field: rule.Name, Reason: "is required"}
			}
			continue
		}

		switch rule.Type {
		case TypeString:
			fields.set(rule.Name, value)
		case TypeDecimal:
			d, err := decimal.NewFromString(value)
			if err != nil {
				return Fields{}, &ValidationError{Field: rule.Name, Reason: "must be a number"}
			}
			fields.set(rule.Name, d)
		case TypeInt:
			i, err := strconv.Atoi(value)
			if err != nil {
				return Fields{}, &ValidationError{Field: rule.Name, Reason: "must be an integer"}
			}
			fields.set(rule.Name, i)
		case TypeBool:
			b, ok := truthyTokens[strings.ToLower(value)]
			if !ok {
				return Fields{}, &ValidationError{Field: rule.Name, Reason: "must be a boolean token (T/F, 1/0, yes/no)"}
			}
			fields.set(rule.Name, b)
		}
	}
	return fields, nil
}
