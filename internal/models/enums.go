package models

// Priority is the urgency of a task.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

var priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Priorities returns the closed set of priorities, lowest first.
func Priorities() []Priority {
	return append([]Priority(nil), priorities...)
}

// ParsePriority reports whether s names a priority.
func ParsePriority(s string) (Priority, bool) {
	for _, p := range priorities {
		if string(p) == s {
			return p, true
		}
	}
	return "", false
}

// Area is a team area a task can be tagged with.
type Area string

const (
	AreaInnovationProject Area = "Innovation Project"
	AreaBuild             Area = "Build"
	AreaProgramming       Area = "Programming"
	AreaCoreValues        Area = "Core Values"
)

var areas = []Area{AreaInnovationProject, AreaBuild, AreaProgramming, AreaCoreValues}

// Areas returns the closed set of area tags.
func Areas() []Area {
	return append([]Area(nil), areas...)
}

// ParseArea reports whether s names an area.
func ParseArea(s string) (Area, bool) {
	for _, a := range areas {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

// ColumnID identifies a workflow stage on the board.
type ColumnID string

const (
	ColumnPlanning    ColumnID = "planning"
	ColumnTodo        ColumnID = "todo"
	ColumnDoing       ColumnID = "doing"
	ColumnDone        ColumnID = "done"
	ColumnReview      ColumnID = "review"
	ColumnImprovement ColumnID = "improvement"
)

// Column is a workflow stage with its display title.
type Column struct {
	ID    ColumnID `json:"id"`
	Title string   `json:"title"`
}

// columns is ordered: a task moves left to right through these stages.
var columns = []Column{
	{ID: ColumnPlanning, Title: "Planning"},
	{ID: ColumnTodo, Title: "To Do"},
	{ID: ColumnDoing, Title: "Doing"},
	{ID: ColumnDone, Title: "Done"},
	{ID: ColumnReview, Title: "Review"},
	{ID: ColumnImprovement, Title: "Improvement"},
}

// Columns returns the workflow stages in board order.
func Columns() []Column {
	return append([]Column(nil), columns...)
}

// ParseColumn reports whether s is a column ID.
func ParseColumn(s string) (ColumnID, bool) {
	if i := columnIndex(ColumnID(s)); i >= 0 {
		return columns[i].ID, true
	}
	return "", false
}

// Title returns the display title, or the raw ID for unknown columns.
func (c ColumnID) Title() string {
	if i := columnIndex(c); i >= 0 {
		return columns[i].Title
	}
	return string(c)
}

// Index returns the position of c on the board, or -1.
func (c ColumnID) Index() int {
	return columnIndex(c)
}

// Next returns the stage to the right of c. The last stage has no successor.
func (c ColumnID) Next() (ColumnID, bool) {
	return c.shift(1)
}

// Prev returns the stage to the left of c. The first stage has no predecessor.
func (c ColumnID) Prev() (ColumnID, bool) {
	return c.shift(-1)
}

func (c ColumnID) shift(delta int) (ColumnID, bool) {
	i := columnIndex(c)
	if i < 0 {
		return "", false
	}
	j := i + delta
	if j < 0 || j >= len(columns) {
		return "", false
	}
	return columns[j].ID, true
}

func columnIndex(c ColumnID) int {
	for i, col := range columns {
		if col.ID == c {
			return i
		}
	}
	return -1
}

// CriterionKey identifies an evaluation criterion.
type CriterionKey string

const (
	CriterionTheme       CriterionKey = "tema"
	CriterionCoherence   CriterionKey = "coerencia"
	CriterionAlignment   CriterionKey = "alinhamento"
	CriterionFeasibility CriterionKey = "viabilidade"
	CriterionOriginality CriterionKey = "originalidade"
	CriterionClarity     CriterionKey = "clareza"
)

// Criterion is a judging criterion with a stable key and display label.
type Criterion struct {
	Key   CriterionKey `json:"key"`
	Label string       `json:"label"`
}

var criteria = []Criterion{
	{Key: CriterionTheme, Label: "Tema"},
	{Key: CriterionCoherence, Label: "Coerência Tema-Problema-Solução"},
	{Key: CriterionAlignment, Label: "Alinhamento com o Tema da Temporada"},
	{Key: CriterionFeasibility, Label: "Viabilidade"},
	{Key: CriterionOriginality, Label: "Originalidade"},
	{Key: CriterionClarity, Label: "Clareza e Registros"},
}

// Criteria returns the fixed evaluation criteria in display order.
func Criteria() []Criterion {
	return append([]Criterion(nil), criteria...)
}

// LookupCriterion returns the criterion with the given key.
func LookupCriterion(key string) (Criterion, bool) {
	for _, c := range criteria {
		if string(c.Key) == key {
			return c, true
		}
	}
	return Criterion{}, false
}
