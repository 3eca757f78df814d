// Package board provides the validated create, edit, move and delete operations
// for tasks, attachments and evaluations.
package board

import (
	"fmt"

	"github.com/fentz26/robodesk/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Repository persists board entities. Get methods return nil when the row is missing.
type Repository interface {
	SaveTask(task *models.Task) error
	GetTask(id string) (*models.Task, error)
	ListTasks(column models.ColumnID) ([]models.Task, error)
	DeleteTask(id string) (bool, error)

	SaveAttachment(a *models.Attachment) error
	GetAttachment(id string) (*models.Attachment, error)
	ListAttachments() ([]models.Attachment, error)
	DeleteAttachment(id string) (bool, error)

	SaveEvaluation(e *models.Evaluation) error
	GetEvaluation(id string) (*models.Evaluation, error)
	ListEvaluations() ([]models.Evaluation, error)
	DeleteEvaluation(id string) (bool, error)
}

// SessionSource supplies the current session.
type SessionSource interface {
	Session() models.Session
}

// Lane is one board column with its tasks.
type Lane struct {
	Column models.Column
	Tasks  []models.Task
}

// Service provides the board business logic.
type Service struct {
	repo    Repository
	session SessionSource
	logger  logrus.FieldLogger
	newID   func() string
}

// NewService creates a new board service.
func NewService(repo Repository, session SessionSource, logger logrus.FieldLogger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{
		repo:    repo,
		session: session,
		logger:  logger.WithField("component", "board"),
		newID:   uuid.NewString,
	}
}

func (s *Service) authorize() (string, error) {
	sess := s.session.Session()
	if sess.Loading || !sess.IsAuthenticated {
		return "", ErrUnauthenticated
	}
	return sess.Username, nil
}

func (s *Service) log(user, op, id string) {
	s.logger.WithFields(logrus.Fields{"username": user, "action": op, "id": id}).Info("board updated")
}

// --- Task Operations ---

// CreateTask validates raw and stores it under a fresh ID.
// A missing columnId defaults to the first column.
func (s *Service) CreateTask(raw map[string]any) (*models.Task, error) {
	user, err := s.authorize()
	if err != nil {
		return nil, err
	}
	rec := clone(raw)
	rec["id"] = s.newID()
	if _, ok := rec["columnId"]; !ok {
		rec["columnId"] = string(models.Columns()[0].ID)
	}
	task, err := models.ParseTask(rec)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveTask(task); err != nil {
		return nil, err
	}
	s.log(user, "task.create", task.ID)
	return task, nil
}

// GetTask retrieves a task by ID.
func (s *Service) GetTask(id string) (*models.Task, error) {
	if _, err := s.authorize(); err != nil {
		return nil, err
	}
	return s.loadTask(id)
}

// UpdateTask merges patch over the stored task and re-validates the result.
// The ID cannot be changed.
func (s *Service) UpdateTask(id string, patch map[string]any) (*models.Task, error) {
	user, err := s.authorize()
	if err != nil {
		return nil, err
	}
	current, err := s.loadTask(id)
	if err != nil {
		return nil, err
	}
	rec := current.Record()
	for k, v := range patch {
		rec[k] = v
	}
	rec["id"] = current.ID

	task, err := models.ParseTask(rec)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveTask(task); err != nil {
		return nil, err
	}
	s.log(user, "task.update", id)
	return task, nil
}

// MoveTask places a task in column.
func (s *Service) MoveTask(id string, column models.ColumnID) (*models.Task, error) {
	return s.UpdateTask(id, map[string]any{"columnId": string(column)})
}

// ShiftTask moves a task one column left (delta < 0) or right (delta > 0).
func (s *Service) ShiftTask(id string, delta int) (*models.Task, error) {
	if _, err := s.authorize(); err != nil {
		return nil, err
	}
	current, err := s.loadTask(id)
	if err != nil {
		return nil, err
	}
	var (
		next models.ColumnID
		ok   bool
	)
	switch {
	case delta > 0:
		next, ok = current.ColumnID.Next()
	case delta < 0:
		next, ok = current.ColumnID.Prev()
	default:
		return current, nil
	}
	if !ok {
		return nil, ErrInvalidShift
	}
	return s.MoveTask(id, next)
}

// SetTaskDates replaces both dates. Nil clears a date.
func (s *Service) SetTaskDates(id string, start, due *models.Date) (*models.Task, error) {
	patch := map[string]any{"startDate": nil, "dueDate": nil}
	if start != nil {
		patch["startDate"] = start.String()
	}
	if due != nil {
		patch["dueDate"] = due.String()
	}
	return s.UpdateTask(id, patch)
}

// DeleteTask removes a task.
func (s *Service) DeleteTask(id string) error {
	user, err := s.authorize()
	if err != nil {
		return err
	}
	ok, err := s.repo.DeleteTask(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	s.log(user, "task.delete", id)
	return nil
}

// ListTasks returns tasks, optionally filtered by column.
func (s *Service) ListTasks(column models.ColumnID) ([]models.Task, error) {
	if _, err := s.authorize(); err != nil {
		return nil, err
	}
	return s.repo.ListTasks(column)
}

// Board returns every column in board order with its tasks.
func (s *Service) Board() ([]Lane, error) {
	tasks, err := s.ListTasks("")
	if err != nil {
		return nil, err
	}
	cols := models.Columns()
	lanes := make([]Lane, len(cols))
	for i, c := range cols {
		lanes[i].Column = c
	}
	for _, t := range tasks {
		if i := t.ColumnID.Index(); i >= 0 {
			lanes[i].Tasks = append(lanes[i].Tasks, t)
		}
	}
	return lanes, nil
}

func (s *Service) loadTask(id string) (*models.Task, error) {
	task, err := s.repo.GetTask(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return task, nil
}

// --- Attachment Operations ---

// CreateAttachment validates raw and stores it under a fresh ID.
func (s *Service) CreateAttachment(raw map[string]any) (*models.Attachment, error) {
	user, err := s.authorize()
	if err != nil {
		return nil, err
	}
	rec := clone(raw)
	rec["id"] = s.newID()
	a, err := models.ParseAttachment(rec)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveAttachment(a); err != nil {
		return nil, err
	}
	s.log(user, "attachment.create", a.ID)
	return a, nil
}

// UpdateAttachment merges patch over the stored attachment and re-validates the result.
func (s *Service) UpdateAttachment(id string, patch map[string]any) (*models.Attachment, error) {
	user, err := s.authorize()
	if err != nil {
		return nil, err
	}
	current, err := s.repo.GetAttachment(id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("attachment %s: %w", id, ErrNotFound)
	}
	rec := current.Record()
	for k, v := range patch {
		rec[k] = v
	}
	rec["id"] = current.ID

	a, err := models.ParseAttachment(rec)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveAttachment(a); err != nil {
		return nil, err
	}
	s.log(user, "attachment.update", id)
	return a, nil
}

// DeleteAttachment removes an attachment.
func (s *Service) DeleteAttachment(id string) error {
	user, err := s.authorize()
	if err != nil {
		return err
	}
	ok, err := s.repo.DeleteAttachment(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("attachment %s: %w", id, ErrNotFound)
	}
	s.log(user, "attachment.delete", id)
	return nil
}

// ListAttachments returns every attachment.
func (s *Service) ListAttachments() ([]models.Attachment, error) {
	if _, err := s.authorize(); err != nil {
		return nil, err
	}
	return s.repo.ListAttachments()
}

// --- Evaluation Operations ---

// CreateEvaluation validates raw and stores it under a fresh ID.
func (s *Service) CreateEvaluation(raw map[string]any) (*models.Evaluation, error) {
	user, err := s.authorize()
	if err != nil {
		return nil, err
	}
	rec := clone(raw)
	rec["id"] = s.newID()
	e, err := models.ParseEvaluation(rec)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveEvaluation(e); err != nil {
		return nil, err
	}
	s.log(user, "evaluation.create", e.ID)
	return e, nil
}

// SetScore sets one criterion score on an evaluation.
func (s *Service) SetScore(id string, key models.CriterionKey, value float64) (*models.Evaluation, error) {
	return s.editEvaluation(id, "evaluation.score", func(e *models.Evaluation) {
		e.Scores[key] = value
	})
}

// ClearScore marks one criterion as unscored.
func (s *Service) ClearScore(id string, key models.CriterionKey) (*models.Evaluation, error) {
	return s.editEvaluation(id, "evaluation.clear", func(e *models.Evaluation) {
		delete(e.Scores, key)
	})
}

func (s *Service) editEvaluation(id, op string, edit func(*models.Evaluation)) (*models.Evaluation, error) {
	user, err := s.authorize()
	if err != nil {
		return nil, err
	}
	e, err := s.loadEvaluation(id)
	if err != nil {
		return nil, err
	}
	if e.Scores == nil {
		e.Scores = map[models.CriterionKey]float64{}
	}
	edit(e)
	if err := e.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.SaveEvaluation(e); err != nil {
		return nil, err
	}
	s.log(user, op, id)
	return e, nil
}

// GetEvaluation retrieves an evaluation by ID.
func (s *Service) GetEvaluation(id string) (*models.Evaluation, error) {
	if _, err := s.authorize(); err != nil {
		return nil, err
	}
	return s.loadEvaluation(id)
}

// DeleteEvaluation removes an evaluation.
func (s *Service) DeleteEvaluation(id string) error {
	user, err := s.authorize()
	if err != nil {
		return err
	}
	ok, err := s.repo.DeleteEvaluation(id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
	}
	s.log(user, "evaluation.delete", id)
	return nil
}

// ListEvaluations returns every evaluation.
func (s *Service) ListEvaluations() ([]models.Evaluation, error) {
	if _, err := s.authorize(); err != nil {
		return nil, err
	}
	return s.repo.ListEvaluations()
}

func (s *Service) loadEvaluation(id string) (*models.Evaluation, error) {
	e, err := s.repo.GetEvaluation(id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("evaluation %s: %w", id, ErrNotFound)
	}
	return e, nil
}

func clone(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw)+2)
	for k, v := range raw {
		out[k] = v
	}
	return out
}
