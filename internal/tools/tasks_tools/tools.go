package tasks_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/HYyydu/calendar-agent/internal/google"
	"github.com/HYyydu/calendar-agent/internal/server"
	"github.com/HYyydu/calendar-agent/internal/tasks"
	"github.com/HYyydu/calendar-agent/internal/tools/common"
)

// getTasksClient retrieves or creates a tasks client for the specified account
func getTasksClient(ctx context.Context, account string, sc *server.ServerContext) (*tasks.Client, error) {
	client := sc.TasksClientForAccount(account)
	if client == nil {
		if !google.HasTokenForAccount(account) {
			authURL := google.GetAuthURL()
			return nil, fmt.Errorf(`Google OAuth token not found for account "%s". To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant access to Google Calendar and Tasks
4. Copy the authorization code

5. Provide the authorization code to your AI agent
   The agent will use the google_save_auth_code tool with account="%s" to complete authentication.

Note: You only need to authorize once. The tokens will be automatically refreshed.`, account, authURL, account)
		}

		var err error
		client, err = tasks.NewClientForAccount(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("failed to create Tasks client for account %s: %w", account, err)
		}
		sc.SetTasksClientForAccount(account, client)
	}
	return client, nil
}

// RegisterTasksTools registers the to-do tools with the MCP server.
// Task creation is withheld in read-only mode.
func RegisterTasksTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	listTool := mcp.NewTool("todo_list",
		mcp.WithDescription("List to-do items from the default task list"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithBoolean("showCompleted",
			mcp.Description("Include completed items (default: false)"),
		),
		mcp.WithString("dueMin",
			mcp.Description("Only items due at or after this time (RFC3339 format)"),
		),
		mcp.WithString("dueMax",
			mcp.Description("Only items due before this time (RFC3339 format)"),
		),
	)

	s.AddTool(listTool, common.InstrumentedToolHandlerWithService("todo_list", "tasks", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListTodos(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("todo_create",
		mcp.WithDescription("Create a to-do item on the default task list"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("The title of the to-do item"),
		),
		mcp.WithString("notes",
			mcp.Description("Additional notes for the item"),
		),
		mcp.WithString("due",
			mcp.Description("Due time (RFC3339 format, e.g., '2025-01-15T00:00:00Z')"),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithService("todo_create", "tasks", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateTodo(ctx, request, sc)
		}))

	return nil
}

func handleListTodos(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	showCompleted, _ := args["showCompleted"].(bool)

	var dueMin, dueMax time.Time
	if v, ok := args["dueMin"].(string); ok && v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid dueMin format: %v", err)), nil
		}
		dueMin = parsed
	}
	if v, ok := args["dueMax"].(string); ok && v != "" {
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid dueMax format: %v", err)), nil
		}
		dueMax = parsed
	}

	client, err := getTasksClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	items, err := client.ListTasks(ctx, showCompleted, dueMin, dueMax)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list to-do items: %v", err)), nil
	}

	if len(items) == 0 {
		return mcp.NewToolResultText("No to-do items found."), nil
	}

	result := fmt.Sprintf("Found %d to-do item(s):\n\n", len(items))
	for i, item := range items {
		result += fmt.Sprintf("%d. %s\n", i+1, item.Title)
		result += fmt.Sprintf("   Status: %s\n", item.Status)
		if !item.Due.IsZero() {
			result += fmt.Sprintf("   Due: %s\n", item.Due.Format(time.RFC3339))
		}
		if item.Notes != "" {
			result += fmt.Sprintf("   Notes: %s\n", item.Notes)
		}
		result += "\n"
	}

	return mcp.NewToolResultText(result), nil
}

func handleCreateTodo(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	title, ok := args["title"].(string)
	if !ok || title == "" {
		return mcp.NewToolResultError("title is required"), nil
	}

	input := tasks.TaskInput{Title: title}
	input.Notes, _ = args["notes"].(string)

	if dueStr, ok := args["due"].(string); ok && dueStr != "" {
		due, err := time.Parse(time.RFC3339, dueStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid due format: %v", err)), nil
		}
		input.Due = due
	}

	client, err := getTasksClient(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	task, err := client.CreateTask(ctx, input)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create to-do item: %v", err)), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Created to-do item %q.", task.Title)), nil
}
