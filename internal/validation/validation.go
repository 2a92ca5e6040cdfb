// Package validation interprets declarative field-rule tables against decoded
// JSON objects. Rules are plain data so the same table drives the HTTP API and
// any other caller that needs product input checked.
package validation

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

type Kind int

const (
	KindString Kind = iota
	KindNumeric
	KindInteger
)

type Rule struct {
	Field    string
	Label    string
	Kind     Kind
	Required bool
	MaxLen   int
	Min      *decimal.Decimal
	Max      *decimal.Decimal
}

func (r Rule) label() string {
	if r.Label != "" {
		return r.Label
	}
	return strings.ReplaceAll(r.Field, "_", " ")
}

// Values holds the coerced value for every rule field: string, decimal.Decimal
// or int64, and nil for an absent optional field.
type Values map[string]any

func (v Values) String(field string) string {
	s, _ := v[field].(string)
	return s
}

func (v Values) OptionalString(field string) *string {
	s, ok := v[field].(string)
	if !ok {
		return nil
	}
	return &s
}

func (v Values) Decimal(field string) decimal.Decimal {
	d, _ := v[field].(decimal.Decimal)
	return d
}

func (v Values) Int(field string) int64 {
	n, _ := v[field].(int64)
	return n
}

// Error carries per-field messages. It is returned as a pointer so callers can
// errors.As it out of wrapped chains.
type Error struct {
	Fields map[string][]string
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], " "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *Error) Has(field string) bool {
	if e == nil {
		return false
	}
	_, ok := e.Fields[field]
	return ok
}

func (e *Error) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string][]string{}
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// Validate checks input against rules. Fields not named by any rule are
// ignored. The returned error is nil or a *Error.
func Validate(rules []Rule, input map[string]any) (Values, error) {
	out := Values{}
	verr := &Error{}
	for _, rule := range rules {
		raw, present := input[rule.Field]
		if s, ok := raw.(string); ok {
			raw = strings.TrimSpace(s)
			if raw == "" {
				raw = nil
			}
		}
		if !present || raw == nil {
			if rule.Required {
				verr.add(rule.Field, fmt.Sprintf("The %s field is required.", rule.label()))
				continue
			}
			out[rule.Field] = nil
			continue
		}

		switch rule.Kind {
		case KindString:
			s, ok := raw.(string)
			if !ok {
				verr.add(rule.Field, fmt.Sprintf("The %s must be a string.", rule.label()))
				continue
			}
			if rule.MaxLen > 0 && utf8.RuneCountInString(s) > rule.MaxLen {
				verr.add(rule.Field, fmt.Sprintf("The %s may not be greater than %d characters.", rule.label(), rule.MaxLen))
				continue
			}
			out[rule.Field] = s
		case KindNumeric:
			d, ok := toDecimal(raw)
			if !ok {
				verr.add(rule.Field, fmt.Sprintf("The %s must be a number.", rule.label()))
				continue
			}
			if msg := checkRange(rule, d); msg != "" {
				verr.add(rule.Field, msg)
				continue
			}
			out[rule.Field] = d
		case KindInteger:
			d, ok := toDecimal(raw)
			if !ok || !d.IsInteger() || !d.BigInt().IsInt64() {
				verr.add(rule.Field, fmt.Sprintf("The %s must be an integer.", rule.label()))
				continue
			}
			if msg := checkRange(rule, d); msg != "" {
				verr.add(rule.Field, msg)
				continue
			}
			out[rule.Field] = d.IntPart()
		}
	}
	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return out, nil
}

func checkRange(rule Rule, d decimal.Decimal) string {
	if rule.Min != nil && d.LessThan(*rule.Min) {
		return fmt.Sprintf("The %s must be at least %s.", rule.label(), rule.Min.String())
	}
	if rule.Max != nil && d.GreaterThan(*rule.Max) {
		return fmt.Sprintf("The %s may not be greater than %s.", rule.label(), rule.Max.String())
	}
	return ""
}

func toDecimal(raw any) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	default:
		return decimal.Decimal{}, false
	}
}
