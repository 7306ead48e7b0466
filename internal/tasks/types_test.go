package tasks

import (
	"testing"
	"time"

	gtasks "google.golang.org/api/tasks/v1"
)

func TestToTask(t *testing.T) {
	completed := "2026-08-30T10:00:00Z"
	task := toTask(&gtasks.Task{
		Id:        "task1",
		Title:     "Prepare offsite agenda",
		Notes:     "collect topics",
		Status:    "completed",
		Due:       "2026-09-01T00:00:00Z",
		Completed: &completed,
	})

	if task.ID != "task1" || task.Title != "Prepare offsite agenda" {
		t.Errorf("unexpected conversion %+v", task)
	}
	if task.Due.IsZero() {
		t.Error("expected Due to be parsed")
	}
	if want := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC); !task.Completed.Equal(want) {
		t.Errorf("unexpected Completed %v", task.Completed)
	}
}

func TestToTaskNil(t *testing.T) {
	task := toTask(nil)
	if task.ID != "" || task.Title != "" {
		t.Errorf("expected zero task for nil input, got %+v", task)
	}
}

func TestToTaskUnparseableDue(t *testing.T) {
	task := toTask(&gtasks.Task{Id: "task1", Due: "next tuesday"})
	if !task.Due.IsZero() {
		t.Errorf("expected zero Due for garbage input, got %v", task.Due)
	}
}
