package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrValidation is matched by every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// Reason classifies a field violation.
type Reason string

const (
	ReasonRequired    Reason = "required"
	ReasonOutOfRange  Reason = "out_of_range"
	ReasonNotInEnum   Reason = "not_in_enum"
	ReasonInvalidType Reason = "invalid_type"
)

// FieldError is a single violated field.
type FieldError struct {
	Field   string `json:"field"`
	Reason  Reason `json:"reason"`
	Message string `json:"message"`
}

func (f FieldError) String() string {
	return fmt.Sprintf("%s: %s", f.Field, f.Message)
}

// ValidationError lists every violated field of one entity.
type ValidationError struct {
	Entity string       `json:"entity"`
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Field returns the violation recorded for name, if any.
func (e *ValidationError) Field(name string) (FieldError, bool) {
	if e == nil {
		return FieldError{}, false
	}
	for _, f := range e.Fields {
		if f.Field == name {
			return f, true
		}
	}
	return FieldError{}, false
}

// fieldErrors accumulates at most one violation per field, first one wins.
type fieldErrors []FieldError

func (fe *fieldErrors) add(field string, reason Reason, format string, args ...any) {
	if fe.has(field) {
		return
	}
	*fe = append(*fe, FieldError{Field: field, Reason: reason, Message: fmt.Sprintf(format, args...)})
}

func (fe fieldErrors) has(field string) bool {
	for _, f := range fe {
		if f.Field == field {
			return true
		}
	}
	return false
}

func (fe *fieldErrors) requireText(field, value string) {
	if strings.TrimSpace(value) == "" {
		fe.add(field, ReasonRequired, "is required")
	}
}

func (fe *fieldErrors) requireRange(field string, value, lo, hi float64) {
	switch {
	case math.IsNaN(value):
		fe.add(field, ReasonInvalidType, "must be a number")
	case value < lo || value > hi:
		if math.IsInf(hi, 1) {
			fe.add(field, ReasonOutOfRange, "must be >= %g, got %g", lo, value)
			return
		}
		fe.add(field, ReasonOutOfRange, "must be between %g and %g, got %g", lo, hi, value)
	}
}

func (fe fieldErrors) err(entity string) error {
	if len(fe) == 0 {
		return nil
	}
	return &ValidationError{Entity: entity, Fields: append([]FieldError(nil), fe...)}
}

// record reads loosely typed values out of an untyped map, logging type mismatches.
type record struct {
	raw  map[string]any
	errs fieldErrors
}

func newRecord(raw map[string]any) *record {
	if raw == nil {
		raw = map[string]any{}
	}
	return &record{raw: raw}
}

func (r *record) lookup(field string) (any, bool) {
	v, ok := r.raw[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// text returns the string at field; absent fields yield "".
func (r *record) text(field string) string {
	v, ok := r.lookup(field)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.errs.add(field, ReasonInvalidType, "must be text, got %T", v)
		return ""
	}
	return s
}

// optionalText returns nil for absent, null or empty values.
func (r *record) optionalText(field string) *string {
	s := r.text(field)
	if s == "" {
		return nil
	}
	return &s
}

// number returns the numeric value at field. Absent fields are required violations.
func (r *record) number(field string) float64 {
	v, ok := r.lookup(field)
	if !ok {
		r.errs.add(field, ReasonRequired, "is required")
		return 0
	}
	f, ok := toFloat(v)
	if !ok {
		r.errs.add(field, ReasonInvalidType, "must be a number, got %T", v)
		return 0
	}
	return f
}

func (r *record) date(field string) *Date {
	s := r.text(field)
	if s == "" {
		return nil
	}
	d, err := ParseDate(s)
	if err != nil {
		r.errs.add(field, ReasonInvalidType, "must be a date (YYYY-MM-DD), got %q", s)
		return nil
	}
	return &d
}

// textList accepts []string or []any of strings.
func (r *record) textList(field string) []string {
	v, ok := r.lookup(field)
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		return append([]string(nil), list...)
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			s, ok := item.(string)
			if !ok {
				r.errs.add(field, ReasonInvalidType, "must be a list of text, found %T", item)
				return nil
			}
			out = append(out, s)
		}
		return out
	case string:
		// A lone tag is accepted as a one-element set.
		return []string{list}
	default:
		r.errs.add(field, ReasonInvalidType, "must be a list of text, got %T", v)
		return nil
	}
}

func (r *record) object(field string) map[string]any {
	v, ok := r.lookup(field)
	if !ok {
		return nil
	}
	switch m := v.(type) {
	case map[string]any:
		return m
	case map[string]float64:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out
	case map[CriterionKey]float64:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[string(k)] = val
		}
		return out
	default:
		r.errs.add(field, ReasonInvalidType, "must be an object, got %T", v)
		return nil
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// decodeObject reads a JSON object preserving numbers as json.Number.
func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
