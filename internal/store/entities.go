package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fentz26/robodesk/internal/models"
)

// --- Task Operations ---

const taskColumns = `id, name, priority, area, start_date, due_date, column_id`

// SaveTask inserts or replaces a task.
func (s *Store) SaveTask(task *models.Task) error {
	areaJSON, err := json.Marshal(task.Area)
	if err != nil {
		return fmt.Errorf("encode area: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(
		`INSERT INTO tasks (id, name, priority, area, start_date, due_date, column_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			priority = excluded.priority,
			area = excluded.area,
			start_date = excluded.start_date,
			due_date = excluded.due_date,
			column_id = excluded.column_id,
			updated_at = excluded.updated_at`,
		task.ID, task.Name, task.Priority, string(areaJSON),
		nullDate(task.StartDate), nullDate(task.DueDate), task.ColumnID, now, now,
	)
	if err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// GetTask retrieves a task by ID. It returns nil when the task does not exist.
func (s *Store) GetTask(id string) (*models.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query task: %w", err)
	}
	return task, nil
}

// ListTasks returns all tasks, optionally filtered by column, oldest first.
func (s *Store) ListTasks(column models.ColumnID) ([]models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []interface{}

	if column != "" {
		query += ` WHERE column_id = ?`
		args = append(args, column)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

// DeleteTask removes a task and reports whether it existed.
func (s *Store) DeleteTask(id string) (bool, error) {
	return s.deleteRow("tasks", id)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(sc scanner) (*models.Task, error) {
	var task models.Task
	var areaJSON string
	var startDate, dueDate sql.NullString

	if err := sc.Scan(&task.ID, &task.Name, &task.Priority, &areaJSON, &startDate, &dueDate, &task.ColumnID); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(areaJSON), &task.Area); err != nil {
		return nil, fmt.Errorf("decode area: %w", err)
	}
	var err error
	if task.StartDate, err = parseNullDate(startDate); err != nil {
		return nil, err
	}
	if task.DueDate, err = parseNullDate(dueDate); err != nil {
		return nil, err
	}
	return &task, nil
}

func nullDate(d *models.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseNullDate(ns sql.NullString) (*models.Date, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	d, err := models.ParseDate(ns.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// --- Attachment Operations ---

const attachmentColumns = `id, name, run_exit, missions, points, avg_time, swap_time, precision_pct, image_url`

// SaveAttachment inserts or replaces an attachment.
func (s *Store) SaveAttachment(a *models.Attachment) error {
	var imageURL sql.NullString
	if a.ImageURL != nil {
		imageURL = sql.NullString{String: *a.ImageURL, Valid: true}
	}

	now := time.Now().UTC()
	_, err := s.db.Exec(
		`INSERT INTO attachments (id, name, run_exit, missions, points, avg_time, swap_time, precision_pct, image_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			run_exit = excluded.run_exit,
			missions = excluded.missions,
			points = excluded.points,
			avg_time = excluded.avg_time,
			swap_time = excluded.swap_time,
			precision_pct = excluded.precision_pct,
			image_url = excluded.image_url,
			updated_at = excluded.updated_at`,
		a.ID, a.Name, a.RunExit, a.Missions, a.Points, a.AvgTime, a.SwapTime, a.Precision, imageURL, now, now,
	)
	if err != nil {
		return fmt.Errorf("save attachment: %w", err)
	}
	return nil
}

// GetAttachment retrieves an attachment by ID. It returns nil when absent.
func (s *Store) GetAttachment(id string) (*models.Attachment, error) {
	row := s.db.QueryRow(`SELECT `+attachmentColumns+` FROM attachments WHERE id = ?`, id)
	a, err := scanAttachment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query attachment: %w", err)
	}
	return a, nil
}

// ListAttachments returns all attachments, oldest first.
func (s *Store) ListAttachments() ([]models.Attachment, error) {
	rows, err := s.db.Query(`SELECT ` + attachmentColumns + ` FROM attachments ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close()

	var out []models.Attachment
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// DeleteAttachment removes an attachment and reports whether it existed.
func (s *Store) DeleteAttachment(id string) (bool, error) {
	return s.deleteRow("attachments", id)
}

func scanAttachment(sc scanner) (*models.Attachment, error) {
	var a models.Attachment
	var imageURL sql.NullString
	if err := sc.Scan(&a.ID, &a.Name, &a.RunExit, &a.Missions, &a.Points, &a.AvgTime, &a.SwapTime, &a.Precision, &imageURL); err != nil {
		return nil, err
	}
	if imageURL.Valid {
		a.ImageURL = &imageURL.String
	}
	return &a, nil
}

// --- Evaluation Operations ---

// SaveEvaluation inserts or replaces an evaluation.
func (s *Store) SaveEvaluation(e *models.Evaluation) error {
	scores := e.Scores
	if scores == nil {
		scores = map[models.CriterionKey]float64{}
	}
	scoresJSON, err := json.Marshal(scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}

	now := time.Now().UTC()
	_, err = s.db.Exec(
		`INSERT INTO evaluations (id, name, scores, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, scores = excluded.scores, updated_at = excluded.updated_at`,
		e.ID, e.Name, string(scoresJSON), now, now,
	)
	if err != nil {
		return fmt.Errorf("save evaluation: %w", err)
	}
	return nil
}

// GetEvaluation retrieves an evaluation by ID. It returns nil when absent.
func (s *Store) GetEvaluation(id string) (*models.Evaluation, error) {
	row := s.db.QueryRow(`SELECT id, name, scores FROM evaluations WHERE id = ?`, id)
	e, err := scanEvaluation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query evaluation: %w", err)
	}
	return e, nil
}

// ListEvaluations returns all evaluations, oldest first.
func (s *Store) ListEvaluations() ([]models.Evaluation, error) {
	rows, err := s.db.Query(`SELECT id, name, scores FROM evaluations ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("query evaluations: %w", err)
	}
	defer rows.Close()

	var out []models.Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// DeleteEvaluation removes an evaluation and reports whether it existed.
func (s *Store) DeleteEvaluation(id string) (bool, error) {
	return s.deleteRow("evaluations", id)
}

func scanEvaluation(sc scanner) (*models.Evaluation, error) {
	var e models.Evaluation
	var scoresJSON string
	if err := sc.Scan(&e.ID, &e.Name, &scoresJSON); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(scoresJSON), &e.Scores); err != nil {
		return nil, fmt.Errorf("decode scores: %w", err)
	}
	if e.Scores == nil {
		e.Scores = map[models.CriterionKey]float64{}
	}
	return &e, nil
}

// deleteRow is only called with the package's own table names.
func (s *Store) deleteRow(table, id string) (bool, error) {
	result, err := s.db.Exec(`DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check rows affected: %w", err)
	}
	return n > 0, nil
}
