package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fentz26/robodesk/internal/models"
)

func TestNew(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "nested", "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer s.Close()

	// Verify file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestNew_ReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := s.Set("username", "Davi"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	s.Close()

	s, err = New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer s.Close()

	got, ok, err := s.Get("username")
	if err != nil || !ok || got != "Davi" {
		t.Errorf("Expected persisted username Davi, got %q ok=%v err=%v", got, ok, err)
	}
}

func TestKV(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	// Missing key
	_, ok, err := s.Get("missing")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if ok {
		t.Error("Expected missing key to be absent")
	}

	// Set and overwrite
	if err := s.Set("k", "v1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("k", "v2"); err != nil {
		t.Fatalf("Set overwrite failed: %v", err)
	}
	got, ok, _ := s.Get("k")
	if !ok || got != "v2" {
		t.Errorf("Expected v2, got %q", got)
	}

	// Delete, twice
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Second delete should be a no-op: %v", err)
	}
	if _, ok, _ := s.Get("k"); ok {
		t.Error("Expected key to be deleted")
	}
}

func TestKV_SetAllDeleteAll(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	err := s.SetAll(map[string]string{"username": "Davi", "isAuthenticated": "true"})
	if err != nil {
		t.Fatalf("SetAll failed: %v", err)
	}
	for _, k := range []string{"username", "isAuthenticated"} {
		if _, ok, _ := s.Get(k); !ok {
			t.Errorf("Expected %s to be set", k)
		}
	}

	if err := s.DeleteAll("username", "isAuthenticated"); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	for _, k := range []string{"username", "isAuthenticated"} {
		if _, ok, _ := s.Get(k); ok {
			t.Errorf("Expected %s to be removed", k)
		}
	}
}

func TestKV_ClosedStoreFails(t *testing.T) {
	s := newTestStore(t)
	s.Close()

	if err := s.SetAll(map[string]string{"a": "b"}); err == nil {
		t.Error("Expected SetAll on closed store to fail")
	}
	if _, _, err := s.Get("a"); err == nil {
		t.Error("Expected Get on closed store to fail")
	}
}

func TestTaskCRUD(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	due := models.NewDate(2026, time.November, 3)
	task := &models.Task{
		ID:       "task-1",
		Name:     "Test Task",
		Priority: models.PriorityMedium,
		Area:     []models.Area{models.AreaBuild, models.AreaCoreValues},
		DueDate:  &due,
		ColumnID: models.ColumnPlanning,
	}

	// Create
	if err := s.SaveTask(task); err != nil {
		t.Fatalf("SaveTask failed: %v", err)
	}

	// Get
	got, err := s.GetTask(task.ID)
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if got == nil {
		t.Fatal("Expected task to exist")
	}
	if got.Name != "Test Task" {
		t.Errorf("Expected name 'Test Task', got %s", got.Name)
	}
	if len(got.Area) != 2 || got.Area[1] != models.AreaCoreValues {
		t.Errorf("Unexpected area: %v", got.Area)
	}
	if got.StartDate != nil {
		t.Errorf("Expected nil start date, got %v", got.StartDate)
	}
	if got.DueDate == nil || !got.DueDate.Equal(due) {
		t.Errorf("Expected due date %s, got %v", due, got.DueDate)
	}

	// Update column
	task.ColumnID = models.ColumnDoing
	if err := s.SaveTask(task); err != nil {
		t.Fatalf("SaveTask update failed: %v", err)
	}

	// List with filter
	tasks, err := s.ListTasks(models.ColumnDoing)
	if err != nil {
		t.Fatalf("ListTasks with filter failed: %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("Expected 1 doing task, got %d", len(tasks))
	}

	tasks, err = s.ListTasks(models.ColumnPlanning)
	if err != nil {
		t.Fatalf("ListTasks with filter failed: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("Expected 0 planning tasks, got %d", len(tasks))
	}

	// Delete
	existed, err := s.DeleteTask(task.ID)
	if err != nil || !existed {
		t.Fatalf("DeleteTask failed: existed=%v err=%v", existed, err)
	}
	existed, _ = s.DeleteTask(task.ID)
	if existed {
		t.Error("Second delete should report missing row")
	}

	got, _ = s.GetTask(task.ID)
	if got != nil {
		t.Error("Expected task to be gone")
	}
}

func TestAttachmentCRUD(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	img := "https://example.com/a.png"
	a := &models.Attachment{
		ID: "att-1", Name: "Crane", RunExit: "Left", Missions: "M01",
		Points: 30, AvgTime: 20.5, SwapTime: 3, Precision: 85, ImageURL: &img,
	}
	if err := s.SaveAttachment(a); err != nil {
		t.Fatalf("SaveAttachment failed: %v", err)
	}

	got, err := s.GetAttachment("att-1")
	if err != nil || got == nil {
		t.Fatalf("GetAttachment failed: %v", err)
	}
	if got.AvgTime != 20.5 || got.Precision != 85 {
		t.Errorf("Unexpected numbers: %+v", got)
	}
	if got.ImageURL == nil || *got.ImageURL != img {
		t.Errorf("Expected image url %s, got %v", img, got.ImageURL)
	}

	a.ImageURL = nil
	if err := s.SaveAttachment(a); err != nil {
		t.Fatalf("SaveAttachment update failed: %v", err)
	}
	list, err := s.ListAttachments()
	if err != nil {
		t.Fatalf("ListAttachments failed: %v", err)
	}
	if len(list) != 1 || list[0].ImageURL != nil {
		t.Errorf("Expected one attachment without image, got %+v", list)
	}

	if existed, _ := s.DeleteAttachment("att-1"); !existed {
		t.Error("Expected attachment to be deleted")
	}
}

func TestEvaluationCRUD(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	e := &models.Evaluation{ID: "ev-1", Name: "Team A", Scores: map[models.CriterionKey]float64{
		models.CriterionTheme: 7,
	}}
	if err := s.SaveEvaluation(e); err != nil {
		t.Fatalf("SaveEvaluation failed: %v", err)
	}

	got, err := s.GetEvaluation("ev-1")
	if err != nil || got == nil {
		t.Fatalf("GetEvaluation failed: %v", err)
	}
	if got.Scores[models.CriterionTheme] != 7 {
		t.Errorf("Expected tema=7, got %v", got.Scores)
	}

	empty := &models.Evaluation{ID: "ev-2", Name: "Team B"}
	if err := s.SaveEvaluation(empty); err != nil {
		t.Fatalf("SaveEvaluation empty failed: %v", err)
	}
	got, _ = s.GetEvaluation("ev-2")
	if got.Scores == nil {
		t.Error("Expected non-nil scores map")
	}

	list, _ := s.ListEvaluations()
	if len(list) != 2 {
		t.Errorf("Expected 2 evaluations, got %d", len(list))
	}

	if existed, _ := s.DeleteEvaluation("missing"); existed {
		t.Error("Deleting a missing evaluation should report false")
	}
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	defer s.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := s.Ping(ctx)
	if err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func newTestStore(t *testing.T) *Store {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	return s
}
