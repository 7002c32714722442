package tasks

import (
	"context"
	"testing"
	"time"

	tasksapi "google.golang.org/api/tasks/v1"
)

func TestToTask(t *testing.T) {
	completed := "2026-08-20T10:00:00Z"
	in := &tasksapi.Task{
		Id:        "t1",
		Title:     "Buy milk",
		Notes:     "2 liters",
		Status:    StatusCompleted,
		Due:       "2026-08-21T00:00:00Z",
		Completed: &completed,
	}

	got := toTask(in)
	if got.ID != "t1" || got.Title != "Buy milk" || got.Notes != "2 liters" {
		t.Errorf("task = %+v", got)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %q", got.Status)
	}
	if got.Due.IsZero() || got.Due.Day() != 21 {
		t.Errorf("due = %v", got.Due)
	}
	if got.Completed.IsZero() {
		t.Error("completed not parsed")
	}
}

func TestToTaskEmptyDates(t *testing.T) {
	got := toTask(&tasksapi.Task{Id: "t1", Title: "x", Status: StatusNeedsAction})
	if !got.Due.IsZero() || !got.Completed.IsZero() {
		t.Errorf("zero dates expected, got due=%v completed=%v", got.Due, got.Completed)
	}
}

func TestToTaskInvalidDates(t *testing.T) {
	bad := "not-a-date"
	got := toTask(&tasksapi.Task{Id: "t1", Due: "garbage", Completed: &bad})
	if !got.Due.IsZero() || !got.Completed.IsZero() {
		t.Error("invalid dates should parse to zero")
	}
}

func TestToTaskNil(t *testing.T) {
	got := toTask(nil)
	if got.ID != "" {
		t.Errorf("nil task = %+v", got)
	}
}

func TestNewClientForAccountWithProviderNil(t *testing.T) {
	_, err := NewClientForAccountWithProvider(context.Background(), "default", nil)
	if err == nil {
		t.Fatal("expected error for nil provider")
	}
}

func TestTaskInputZeroDue(t *testing.T) {
	input := TaskInput{Title: "x"}
	if !input.Due.IsZero() {
		t.Error("zero value due expected")
	}
	input.Due = time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)
	if input.Due.IsZero() {
		t.Error("due lost")
	}
}
