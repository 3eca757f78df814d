package models

import (
	"fmt"
	"math"
)

// Attachment describes a robot run strategy.
type Attachment struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	RunExit   string  `json:"runExit"`
	Missions  string  `json:"missions"`
	Points    float64 `json:"points"`
	AvgTime   float64 `json:"avgTime"`
	SwapTime  float64 `json:"swapTime"`
	Precision float64 `json:"precision"`
	ImageURL  *string `json:"imageUrl"`
}

// ParseAttachment converts an untyped record into an Attachment.
// Bounds are inclusive; out-of-range precision is rejected rather than clamped.
func ParseAttachment(raw map[string]any) (*Attachment, error) {
	r := newRecord(raw)
	a := &Attachment{
		ID:        r.text("id"),
		Name:      r.text("name"),
		RunExit:   r.text("runExit"),
		Missions:  r.text("missions"),
		Points:    r.number("points"),
		AvgTime:   r.number("avgTime"),
		SwapTime:  r.number("swapTime"),
		Precision: r.number("precision"),
		ImageURL:  r.optionalText("imageUrl"),
	}
	a.check(&r.errs)
	if err := r.errs.err("attachment"); err != nil {
		return nil, err
	}
	return a, nil
}

// DecodeAttachment parses a JSON object into an Attachment.
func DecodeAttachment(data []byte) (*Attachment, error) {
	raw, err := decodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("decode attachment: %w", err)
	}
	return ParseAttachment(raw)
}

// Validate checks an already typed Attachment.
func (a *Attachment) Validate() error {
	var errs fieldErrors
	a.check(&errs)
	return errs.err("attachment")
}

func (a *Attachment) check(errs *fieldErrors) {
	errs.requireText("id", a.ID)
	errs.requireText("name", a.Name)
	errs.requireText("runExit", a.RunExit)
	errs.requireText("missions", a.Missions)
	errs.requireRange("points", a.Points, 0, math.Inf(1))
	errs.requireRange("avgTime", a.AvgTime, 0, math.Inf(1))
	errs.requireRange("swapTime", a.SwapTime, 0, math.Inf(1))
	errs.requireRange("precision", a.Precision, 0, 100)
}

// Record returns a as an untyped map suitable for ParseAttachment.
func (a *Attachment) Record() map[string]any {
	rec := map[string]any{
		"id":        a.ID,
		"name":      a.Name,
		"runExit":   a.RunExit,
		"missions":  a.Missions,
		"points":    a.Points,
		"avgTime":   a.AvgTime,
		"swapTime":  a.SwapTime,
		"precision": a.Precision,
		"imageUrl":  nil,
	}
	if a.ImageURL != nil {
		rec["imageUrl"] = *a.ImageURL
	}
	return rec
}
