package tasks

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	tasks "google.golang.org/api/tasks/v1"

	"github.com/deskmate/deskmate/internal/google"
)

// defaultTaskList is the well-known alias for an account's primary list.
const defaultTaskList = "@default"

// Client wraps the Google Tasks service for a single account.
type Client struct {
	svc     *tasks.Service
	account string
}

// Account returns the account name this client is associated with.
func (c *Client) Account() string {
	return c.account
}

// NewClientForAccountWithProvider creates a Tasks client for the given
// account, resolving the OAuth token through the provided token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	client := google.HTTPClientForToken(ctx, token)

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Tasks service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// NewClientForAccount creates a Tasks client for the given account using
// the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a Tasks client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// ListTasks lists tasks on a task list, optionally including completed
// ones.
func (c *Client) ListTasks(taskListID string, showCompleted bool, maxResults int64) ([]Task, error) {
	if taskListID == "" {
		taskListID = defaultTaskList
	}
	if maxResults <= 0 {
		maxResults = 25
	}

	call := c.svc.Tasks.List(taskListID).MaxResults(maxResults)
	if showCompleted {
		call = call.ShowCompleted(true).ShowHidden(true)
	}

	result, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var out []Task
	for _, t := range result.Items {
		out = append(out, toTask(t))
	}

	return out, nil
}

// CreateTask creates a task on the given list.
func (c *Client) CreateTask(taskListID string, input TaskInput) (*Task, error) {
	if taskListID == "" {
		taskListID = defaultTaskList
	}
	if input.Title == "" {
		return nil, fmt.Errorf("task title is required")
	}

	t := &tasks.Task{
		Title: input.Title,
		Notes: input.Notes,
	}
	if !input.Due.IsZero() {
		t.Due = input.Due.Format(time.RFC3339)
	}

	created, err := c.svc.Tasks.Insert(taskListID, t).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	out := toTask(created)
	return &out, nil
}

// CompleteTask marks a task as completed.
func (c *Client) CompleteTask(taskListID, taskID string) (*Task, error) {
	if taskListID == "" {
		taskListID = defaultTaskList
	}
	if taskID == "" {
		return nil, fmt.Errorf("taskID is required")
	}

	existing, err := c.svc.Tasks.Get(taskListID, taskID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get task %s: %w", taskID, err)
	}

	existing.Status = StatusCompleted
	completedTime := time.Now().Format(time.RFC3339)
	existing.Completed = &completedTime

	updated, err := c.svc.Tasks.Update(taskListID, taskID, existing).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to complete task %s: %w", taskID, err)
	}

	out := toTask(updated)
	return &out, nil
}

// DeleteTask deletes a task from the given list.
func (c *Client) DeleteTask(taskListID, taskID string) error {
	if taskListID == "" {
		taskListID = defaultTaskList
	}
	if taskID == "" {
		return fmt.Errorf("taskID is required")
	}
	if err := c.svc.Tasks.Delete(taskListID, taskID).Do(); err != nil {
		return fmt.Errorf("failed to delete task %s: %w", taskID, err)
	}
	return nil
}
