package tasks

import (
	"context"
	"fmt"
	"time"

	tasks "google.golang.org/api/tasks/v1"
	"google.golang.org/api/option"

	"github.com/HYyydu/calendar-agent/internal/google"
)

// Client wraps the Google Tasks service, scoped to the default task list
// of the authenticated identity.
type Client struct {
	svc     *tasks.Service
	account string // The account this client is associated with
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// NewClientForAccount creates a new Tasks client with OAuth2 authentication
// for a specific account.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w", account, err)
	}

	svc, err := tasks.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Tasks service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// NewClient creates a new Tasks client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// defaultTaskListID returns the id of the user's default task list, which
// is the first list the backend reports.
func (c *Client) defaultTaskListID(ctx context.Context) (string, error) {
	result, err := c.svc.Tasklists.List().Context(ctx).MaxResults(1).Do()
	if err != nil {
		return "", fmt.Errorf("failed to list task lists: %w", err)
	}
	if len(result.Items) == 0 {
		return "", fmt.Errorf("no task lists found")
	}
	return result.Items[0].Id, nil
}

// CreateTask creates a new task on the default task list and returns it
// with the backend-assigned id.
func (c *Client) CreateTask(ctx context.Context, input TaskInput) (*Task, error) {
	listID, err := c.defaultTaskListID(ctx)
	if err != nil {
		return nil, err
	}

	t := &tasks.Task{
		Title:  input.Title,
		Notes:  input.Notes,
		Status: "needsAction",
	}
	if !input.Due.IsZero() {
		t.Due = input.Due.Format(time.RFC3339)
	}

	created, err := c.svc.Tasks.Insert(listID, t).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	result := toTask(created)
	return &result, nil
}

// ListTasks lists tasks on the default task list, optionally bounded by
// due time.
func (c *Client) ListTasks(ctx context.Context, showCompleted bool, dueMin, dueMax time.Time) ([]Task, error) {
	listID, err := c.defaultTaskListID(ctx)
	if err != nil {
		return nil, err
	}

	call := c.svc.Tasks.List(listID).Context(ctx)
	if showCompleted {
		call = call.ShowCompleted(true)
	}
	if !dueMin.IsZero() {
		call = call.DueMin(dueMin.Format(time.RFC3339))
	}
	if !dueMax.IsZero() {
		call = call.DueMax(dueMax.Format(time.RFC3339))
	}

	result, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	var taskList []Task
	for _, t := range result.Items {
		taskList = append(taskList, toTask(t))
	}

	return taskList, nil
}
