package models

import (
	"fmt"
	"sort"
)

const (
	MinScore = 0
	MaxScore = 10
)

// Evaluation holds per-criterion scores for a judged item. Missing criteria are unscored.
type Evaluation struct {
	ID     string                   `json:"id"`
	Name   string                   `json:"name"`
	Scores map[CriterionKey]float64 `json:"scores"`
}

// ParseEvaluation converts an untyped record into an Evaluation.
func ParseEvaluation(raw map[string]any) (*Evaluation, error) {
	r := newRecord(raw)
	e := &Evaluation{
		ID:     r.text("id"),
		Name:   r.text("name"),
		Scores: map[CriterionKey]float64{},
	}

	scores := r.object("scores")
	for _, key := range sortedKeys(scores) {
		field := "scores." + key
		if _, ok := LookupCriterion(key); !ok {
			r.errs.add(field, ReasonNotInEnum, "unknown criterion %q", key)
			continue
		}
		v, ok := toFloat(scores[key])
		if !ok {
			r.errs.add(field, ReasonInvalidType, "must be a number, got %T", scores[key])
			continue
		}
		e.Scores[CriterionKey(key)] = v
	}

	e.check(&r.errs)
	if err := r.errs.err("evaluation"); err != nil {
		return nil, err
	}
	return e, nil
}

// DecodeEvaluation parses a JSON object into an Evaluation.
func DecodeEvaluation(data []byte) (*Evaluation, error) {
	raw, err := decodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("decode evaluation: %w", err)
	}
	return ParseEvaluation(raw)
}

// Validate checks an already typed Evaluation.
func (e *Evaluation) Validate() error {
	var errs fieldErrors
	e.check(&errs)
	return errs.err("evaluation")
}

func (e *Evaluation) check(errs *fieldErrors) {
	errs.requireText("id", e.ID)
	errs.requireText("name", e.Name)

	keys := make([]string, 0, len(e.Scores))
	for k := range e.Scores {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for _, k := range keys {
		field := "scores." + k
		if _, ok := LookupCriterion(k); !ok {
			errs.add(field, ReasonNotInEnum, "unknown criterion %q", k)
			continue
		}
		errs.requireRange(field, e.Scores[CriterionKey(k)], MinScore, MaxScore)
	}
}

// Total sums the present scores.
func (e *Evaluation) Total() float64 {
	var sum float64
	for _, v := range e.Scores {
		sum += v
	}
	return sum
}

// Average returns the mean of the present scores and false when nothing is scored.
func (e *Evaluation) Average() (float64, bool) {
	if len(e.Scores) == 0 {
		return 0, false
	}
	return e.Total() / float64(len(e.Scores)), true
}

// Complete reports whether every criterion has a score.
func (e *Evaluation) Complete() bool {
	for _, c := range criteria {
		if _, ok := e.Scores[c.Key]; !ok {
			return false
		}
	}
	return true
}

// Record returns e as an untyped map suitable for ParseEvaluation.
func (e *Evaluation) Record() map[string]any {
	scores := make(map[string]any, len(e.Scores))
	for k, v := range e.Scores {
		scores[string(k)] = v
	}
	return map[string]any{
		"id":     e.ID,
		"name":   e.Name,
		"scores": scores,
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
