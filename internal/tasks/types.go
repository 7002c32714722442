package tasks

import (
	"time"

	tasks "google.golang.org/api/tasks/v1"
)

// StatusNeedsAction and StatusCompleted are the two task states the API
// knows about.
const (
	StatusNeedsAction = "needsAction"
	StatusCompleted   = "completed"
)

// Task is a single reminder or to-do item.
type Task struct {
	ID        string
	Title     string
	Notes     string
	Status    string
	Due       time.Time
	Completed time.Time
}

// TaskInput carries the fields for creating a task.
type TaskInput struct {
	Title string
	Notes string
	Due   time.Time
}

func toTask(t *tasks.Task) Task {
	if t == nil {
		return Task{}
	}

	out := Task{
		ID:     t.Id,
		Title:  t.Title,
		Notes:  t.Notes,
		Status: t.Status,
	}

	if t.Due != "" {
		if due, err := time.Parse(time.RFC3339, t.Due); err == nil {
			out.Due = due
		}
	}
	if t.Completed != nil && *t.Completed != "" {
		if completed, err := time.Parse(time.RFC3339, *t.Completed); err == nil {
			out.Completed = completed
		}
	}

	return out
}
