package models

import (
	"fmt"
	"strings"
)

// Task is a card on the Kanban board.
type Task struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Priority  Priority `json:"priority"`
	Area      []Area   `json:"area"`
	StartDate *Date    `json:"startDate"`
	DueDate   *Date    `json:"dueDate"`
	ColumnID  ColumnID `json:"columnId"`
}

// ParseTask converts an untyped record into a Task, reporting every violation at once.
// startDate and dueDate are not ordered against each other.
func ParseTask(raw map[string]any) (*Task, error) {
	r := newRecord(raw)
	t := &Task{
		ID:        r.text("id"),
		Name:      r.text("name"),
		Priority:  Priority(r.text("priority")),
		StartDate: r.date("startDate"),
		DueDate:   r.date("dueDate"),
		ColumnID:  ColumnID(r.text("columnId")),
	}
	for _, tag := range r.textList("area") {
		t.Area = append(t.Area, Area(tag))
	}
	t.check(&r.errs)
	if err := r.errs.err("task"); err != nil {
		return nil, err
	}
	t.Area = uniqueAreas(t.Area)
	return t, nil
}

// DecodeTask parses a JSON object into a Task.
func DecodeTask(data []byte) (*Task, error) {
	raw, err := decodeObject(data)
	if err != nil {
		return nil, fmt.Errorf("decode task: %w", err)
	}
	return ParseTask(raw)
}

// Validate checks an already typed Task.
func (t *Task) Validate() error {
	var errs fieldErrors
	t.check(&errs)
	return errs.err("task")
}

func (t *Task) check(errs *fieldErrors) {
	errs.requireText("id", t.ID)
	errs.requireText("name", t.Name)

	if t.Priority == "" {
		errs.add("priority", ReasonRequired, "is required")
	} else if _, ok := ParsePriority(string(t.Priority)); !ok {
		errs.add("priority", ReasonNotInEnum, "must be one of %s, got %q", joinPriorities(), t.Priority)
	}

	if t.ColumnID == "" {
		errs.add("columnId", ReasonRequired, "is required")
	} else if _, ok := ParseColumn(string(t.ColumnID)); !ok {
		errs.add("columnId", ReasonNotInEnum, "must be one of %s, got %q", joinColumns(), t.ColumnID)
	}

	if len(t.Area) == 0 {
		errs.add("area", ReasonRequired, "must contain at least one area")
		return
	}
	var unknown []string
	for _, a := range t.Area {
		if _, ok := ParseArea(string(a)); !ok {
			unknown = append(unknown, fmt.Sprintf("%q", a))
		}
	}
	if len(unknown) > 0 {
		errs.add("area", ReasonNotInEnum, "unknown area %s", strings.Join(unknown, ", "))
	}
}

// HasArea reports whether t is tagged with a.
func (t *Task) HasArea(a Area) bool {
	for _, got := range t.Area {
		if got == a {
			return true
		}
	}
	return false
}

// Record returns t as an untyped map suitable for ParseTask.
func (t *Task) Record() map[string]any {
	areas := make([]any, len(t.Area))
	for i, a := range t.Area {
		areas[i] = string(a)
	}
	rec := map[string]any{
		"id":        t.ID,
		"name":      t.Name,
		"priority":  string(t.Priority),
		"area":      areas,
		"columnId":  string(t.ColumnID),
		"startDate": nil,
		"dueDate":   nil,
	}
	if t.StartDate != nil {
		rec["startDate"] = t.StartDate.String()
	}
	if t.DueDate != nil {
		rec["dueDate"] = t.DueDate.String()
	}
	return rec
}

func uniqueAreas(in []Area) []Area {
	seen := make(map[Area]bool, len(in))
	out := make([]Area, 0, len(in))
	for _, a := range in {
		if seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}

func joinPriorities() string {
	names := make([]string, len(priorities))
	for i, p := range priorities {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func joinColumns() string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = string(c.ID)
	}
	return strings.Join(names, ", ")
}
