package tasks_tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deskmate/deskmate/internal/server"
	"github.com/deskmate/deskmate/internal/tasks"
	"github.com/deskmate/deskmate/internal/tools"
	"github.com/deskmate/deskmate/internal/tools/common"
)

type tasksClient interface {
	ListTasks(taskListID string, showCompleted bool, maxResults int64) ([]tasks.Task, error)
	CreateTask(taskListID string, input tasks.TaskInput) (*tasks.Task, error)
	CompleteTask(taskListID, taskID string) (*tasks.Task, error)
	DeleteTask(taskListID, taskID string) error
}

var clientFor = func(sc *server.ServerContext, account string) tasksClient {
	if client := sc.TasksClientForAccount(account); client != nil {
		return client
	}
	return nil
}

// Register adds the tasks tool family to the registry.
func Register(reg *tools.Registry, sc *server.ServerContext) error {
	specs := []tools.Spec{
		{
			Name:        "list_tasks",
			Description: "List reminders and to-do items.",
			Params: []tools.Param{
				{Name: "show_completed", Type: tools.TypeBoolean, Default: false, Description: "Include completed tasks"},
				{Name: "max_results", Type: tools.TypeNumber, Default: 25.0, Description: "Maximum number of tasks to return"},
				{Name: "task_list_id", Type: tools.TypeString, Description: "Task list to read (default: the primary list)"},
				{Name: "account", Type: tools.TypeString, Description: "Google account to use"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleList(ctx, sc, args)
			},
		},
		{
			Name:        "create_task",
			Description: "Create a reminder or to-do item, optionally with a due date.",
			Params: []tools.Param{
				{Name: "title", Type: tools.TypeString, Required: true, Description: "Task title"},
				{Name: "notes", Type: tools.TypeString, Description: "Free-text notes"},
				{Name: "due", Type: tools.TypeString, Description: "Due date, RFC 3339"},
				{Name: "task_list_id", Type: tools.TypeString, Description: "Task list to add to (default: the primary list)"},
				{Name: "account", Type: tools.TypeString, Description: "Google account to use"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleCreate(ctx, sc, args)
			},
		},
		{
			Name:        "complete_task",
			Description: "Mark a task as completed.",
			Params: []tools.Param{
				{Name: "task_id", Type: tools.TypeString, Required: true, Description: "ID of the task to complete"},
				{Name: "task_list_id", Type: tools.TypeString, Description: "Task list the task belongs to (default: the primary list)"},
				{Name: "account", Type: tools.TypeString, Description: "Google account to use"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleComplete(ctx, sc, args)
			},
		},
		{
			Name:        "delete_task",
			Description: "Delete a task.",
			Params: []tools.Param{
				{Name: "task_id", Type: tools.TypeString, Required: true, Description: "ID of the task to delete"},
				{Name: "task_list_id", Type: tools.TypeString, Description: "Task list the task belongs to (default: the primary list)"},
				{Name: "account", Type: tools.TypeString, Description: "Google account to use"},
			},
			Handler: func(ctx context.Context, args map[string]any) (string, error) {
				return handleDelete(ctx, sc, args)
			},
		},
	}

	for _, spec := range specs {
		if err := reg.Register(spec); err != nil {
			return fmt.Errorf("failed to register %s: %w", spec.Name, err)
		}
	}
	return nil
}

func handleList(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	client := clientFor(sc, common.AccountFromArgs(args))
	if client == nil {
		return "", errors.New(common.AuthRequiredMessage())
	}

	start := time.Now()
	items, err := client.ListTasks(
		common.String(args, "task_list_id"),
		common.Bool(args, "show_completed"),
		int64(common.Number(args, "max_results")),
	)
	common.RecordOperation(ctx, sc.Metrics(), "tasks", "list_tasks", start, err)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "No tasks found.", nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d task(s):\n", len(items))
	for _, task := range items {
		fmt.Fprintf(&b, "\nID: %s\nTitle: %s\nStatus: %s\n", task.ID, task.Title, task.Status)
		if !task.Due.IsZero() {
			fmt.Fprintf(&b, "Due: %s\n", task.Due.Format("2006-01-02"))
		}
		if task.Notes != "" {
			fmt.Fprintf(&b, "Notes: %s\n", task.Notes)
		}
	}
	return b.String(), nil
}

func handleCreate(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	client := clientFor(sc, common.AccountFromArgs(args))
	if client == nil {
		return "", errors.New(common.AuthRequiredMessage())
	}

	input := tasks.TaskInput{
		Title: common.String(args, "title"),
		Notes: common.String(args, "notes"),
	}
	if s := common.String(args, "due"); s != "" {
		due, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return "", fmt.Errorf("invalid due date %q: %w", s, err)
		}
		input.Due = due
	}

	start := time.Now()
	created, err := client.CreateTask(common.String(args, "task_list_id"), input)
	common.RecordOperation(ctx, sc.Metrics(), "tasks", "create_task", start, err)
	if err != nil {
		return "", err
	}

	out := fmt.Sprintf("Task created.\nID: %s\nTitle: %s", created.ID, created.Title)
	if !created.Due.IsZero() {
		out += fmt.Sprintf("\nDue: %s", created.Due.Format("2006-01-02"))
	}
	return out, nil
}

func handleComplete(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	client := clientFor(sc, common.AccountFromArgs(args))
	if client == nil {
		return "", errors.New(common.AuthRequiredMessage())
	}

	start := time.Now()
	completed, err := client.CompleteTask(common.String(args, "task_list_id"), common.String(args, "task_id"))
	common.RecordOperation(ctx, sc.Metrics(), "tasks", "complete_task", start, err)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Task %q marked as completed.", completed.Title), nil
}

func handleDelete(ctx context.Context, sc *server.ServerContext, args map[string]any) (string, error) {
	client := clientFor(sc, common.AccountFromArgs(args))
	if client == nil {
		return "", errors.New(common.AuthRequiredMessage())
	}

	taskID := common.String(args, "task_id")
	start := time.Now()
	err := client.DeleteTask(common.String(args, "task_list_id"), taskID)
	common.RecordOperation(ctx, sc.Metrics(), "tasks", "delete_task", start, err)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Task %s deleted.", taskID), nil
}
