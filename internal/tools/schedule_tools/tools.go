package schedule_tools

import (
	"context"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/HYyydu/calendar-agent/internal/google"
	"github.com/HYyydu/calendar-agent/internal/schedule"
	"github.com/HYyydu/calendar-agent/internal/server"
	"github.com/HYyydu/calendar-agent/internal/tools/common"
)

// getOrchestrator retrieves the schedule orchestrator for the specified
// account, with an actionable error when the account has no token yet.
func getOrchestrator(account string, sc *server.ServerContext) (*schedule.Orchestrator, error) {
	orch := sc.OrchestratorForAccount(account)
	if orch == nil {
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
		return nil, fmt.Errorf("failed to create Calendar client for account %s", account)
	}
	return orch, nil
}

// RegisterScheduleTools registers all schedule-related tools with the MCP
// server. Mutating tools (create, modify, delete, confirm) are withheld in
// read-only mode.
func RegisterScheduleTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	searchTool := mcp.NewTool("schedule_search",
		mcp.WithDescription("List calendar events within a time range, ordered by start time"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start of the range (RFC3339 format, e.g., '2025-01-01T00:00:00Z')"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End of the range (RFC3339 format). The range must not exceed one year."),
		),
	)

	s.AddTool(searchTool, common.InstrumentedToolHandlerWithService("schedule_search", "calendar", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSearch(ctx, request, sc)
		}))

	if readOnly {
		return nil
	}

	createTool := mcp.NewTool("schedule_create",
		mcp.WithDescription("Create a calendar event. All-day events take dates only; timed events take date, time and an optional timezone."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title/summary"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithBoolean("allDay",
			mcp.Description("Create as an all-day event. All-day events use only startDate/endDate."),
		),
		mcp.WithString("startDate",
			mcp.Description("Start date (YYYY-MM-DD). Required for all-day events, ignored for timed events."),
		),
		mcp.WithString("startTime",
			mcp.Description("Start time of day (HH:MM or HH:MM:SS). Required for timed events, ignored for all-day events."),
		),
		mcp.WithString("endDate",
			mcp.Description("End date (YYYY-MM-DD), inclusive. Required for all-day events, ignored for timed events."),
		),
		mcp.WithString("endTime",
			mcp.Description("End time of day (HH:MM or HH:MM:SS). Required for timed events, ignored for all-day events."),
		),
		mcp.WithString("timeZone",
			mcp.Description("IANA time zone for timed events (e.g., 'America/New_York'). Defaults to the configured zone."),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithService("schedule_create", "calendar", "create", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreate(ctx, request, sc)
		}))

	modifyTool := mcp.NewTool("schedule_modify",
		mcp.WithDescription("Reschedule a calendar event located by exact summary and description match within a time range. The event keeps its shape: all-day stays all-day, timed stays timed."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start of the search range (RFC3339 format)"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End of the search range (RFC3339 format)"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Exact summary of the event to modify"),
		),
		mcp.WithString("description",
			mcp.Description("Exact description of the event to modify"),
		),
		mcp.WithString("newStartDate",
			mcp.Description("New start date (YYYY-MM-DD)"),
		),
		mcp.WithString("newStartTime",
			mcp.Description("New start time of day (HH:MM or HH:MM:SS), timed events only"),
		),
		mcp.WithString("newEndDate",
			mcp.Description("New end date (YYYY-MM-DD)"),
		),
		mcp.WithString("newEndTime",
			mcp.Description("New end time of day (HH:MM or HH:MM:SS), timed events only"),
		),
		mcp.WithString("timeZone",
			mcp.Description("IANA time zone for the new times. When omitted the event keeps its current timezone."),
		),
	)

	s.AddTool(modifyTool, common.InstrumentedToolHandlerWithService("schedule_modify", "calendar", "update", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleModify(ctx, request, sc)
		}))

	deleteTool := mcp.NewTool("schedule_delete",
		mcp.WithDescription("Propose deleting a calendar event described in natural language. Nothing is deleted until schedule_confirm_delete is called in the same session."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("timeMin",
			mcp.Required(),
			mcp.Description("Start of the search range (RFC3339 format)"),
		),
		mcp.WithString("timeMax",
			mcp.Required(),
			mcp.Description("End of the search range (RFC3339 format)"),
		),
		mcp.WithString("description",
			mcp.Required(),
			mcp.Description("How the user described the event to delete"),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithService("schedule_delete", "calendar", "propose", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleDelete(ctx, request, sc)
		}))

	confirmTool := mcp.NewTool("schedule_confirm_delete",
		mcp.WithDescription("Confirm and execute the deletion previously proposed by schedule_delete in this session"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)

	s.AddTool(confirmTool, common.InstrumentedToolHandlerWithService("schedule_confirm_delete", "calendar", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleConfirmDelete(ctx, request, sc)
		}))

	return nil
}

func handleCreate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	summary, ok := args["summary"].(string)
	if !ok || summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}

	spec := createSpec(args)

	orch, err := getOrchestrator(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outcome := orch.Create(ctx, spec)
	return outcomeResult(outcome), nil
}

func handleSearch(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	r, errResult := timeRangeFromArgs(args)
	if errResult != nil {
		return errResult, nil
	}

	orch, err := getOrchestrator(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outcome := orch.Search(ctx, r)
	if !outcome.OK || len(outcome.Events) == 0 {
		return outcomeResult(outcome), nil
	}

	result := outcome.Reply + "\n\n"
	for i, event := range outcome.Events {
		result += fmt.Sprintf("%d. %s\n", i+1, event.Summary)
		result += fmt.Sprintf("   ID: %s\n", event.ID)
		if event.AllDay {
			result += fmt.Sprintf("   Start: %s (all day)\n", event.Start.Date)
			result += fmt.Sprintf("   End: %s\n", event.End.Date)
		} else {
			result += fmt.Sprintf("   Start: %s\n", event.StartsAt.Format(time.RFC3339))
			result += fmt.Sprintf("   End: %s\n", event.EndsAt.Format(time.RFC3339))
		}
		if event.Description != "" {
			result += fmt.Sprintf("   Description: %s\n", event.Description)
		}
		result += "\n"
	}

	return mcp.NewToolResultText(result), nil
}

func handleModify(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	r, errResult := timeRangeFromArgs(args)
	if errResult != nil {
		return errResult, nil
	}

	summary, ok := args["summary"].(string)
	if !ok || summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}

	timeZone, _ := args["timeZone"].(string)

	req := schedule.ModifyRequest{
		Range:   r,
		Summary: summary,
		Start: schedule.Endpoint{
			Date:     stringArg(args, "newStartDate"),
			Time:     timeArg(args, "newStartTime"),
			TimeZone: timeZone,
		},
		End: schedule.Endpoint{
			Date:     stringArg(args, "newEndDate"),
			Time:     timeArg(args, "newEndTime"),
			TimeZone: timeZone,
		},
	}
	req.Description, _ = args["description"].(string)

	orch, err := getOrchestrator(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outcome := orch.Modify(ctx, req)
	return outcomeResult(outcome), nil
}

func handleDelete(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	r, errResult := timeRangeFromArgs(args)
	if errResult != nil {
		return errResult, nil
	}

	description, ok := args["description"].(string)
	if !ok || description == "" {
		return mcp.NewToolResultError("description is required"), nil
	}

	orch, err := getOrchestrator(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outcome := orch.ProposeDelete(ctx, common.GetSessionID(ctx), description, r)
	return outcomeResult(outcome), nil
}

func handleConfirmDelete(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	orch, err := getOrchestrator(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outcome := orch.ConfirmDelete(ctx, common.GetSessionID(ctx))
	return outcomeResult(outcome), nil
}

// outcomeResult converts an orchestrator outcome into a tool result. The
// reply is always conversational text for the agent to relay; only
// argument or auth failures use error results.
func outcomeResult(outcome schedule.Outcome) *mcp.CallToolResult {
	return mcp.NewToolResultText(outcome.Reply)
}

// createSpec builds the event spec from schedule_create arguments, keeping
// each endpoint in its declared shape: all-day events carry dates only,
// timed events carry wall-clock times and the zone only. Arguments the
// declared shape does not use are dropped.
func createSpec(args map[string]interface{}) schedule.Spec {
	allDay, _ := args["allDay"].(bool)

	spec := schedule.Spec{
		Summary: stringArg(args, "summary"),
		AllDay:  allDay,
	}
	spec.Description, _ = args["description"].(string)

	if allDay {
		spec.Start = schedule.Endpoint{Date: stringArg(args, "startDate")}
		spec.End = schedule.Endpoint{Date: stringArg(args, "endDate")}
		return spec
	}

	timeZone, _ := args["timeZone"].(string)
	spec.Start = schedule.Endpoint{Time: timeArg(args, "startTime"), TimeZone: timeZone}
	spec.End = schedule.Endpoint{Time: timeArg(args, "endTime"), TimeZone: timeZone}
	return spec
}

func stringArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

// timeArg reads a time-of-day argument, expanding HH:MM to HH:MM:SS.
func timeArg(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	if len(v) == len("15:04") {
		v += ":00"
	}
	return v
}

func timeRangeFromArgs(args map[string]interface{}) (schedule.TimeRange, *mcp.CallToolResult) {
	timeMinStr, ok := args["timeMin"].(string)
	if !ok || timeMinStr == "" {
		return schedule.TimeRange{}, mcp.NewToolResultError("timeMin is required")
	}
	timeMin, err := time.Parse(time.RFC3339, timeMinStr)
	if err != nil {
		return schedule.TimeRange{}, mcp.NewToolResultError(fmt.Sprintf("Invalid timeMin format: %v", err))
	}

	timeMaxStr, ok := args["timeMax"].(string)
	if !ok || timeMaxStr == "" {
		return schedule.TimeRange{}, mcp.NewToolResultError("timeMax is required")
	}
	timeMax, err := time.Parse(time.RFC3339, timeMaxStr)
	if err != nil {
		return schedule.TimeRange{}, mcp.NewToolResultError(fmt.Sprintf("Invalid timeMax format: %v", err))
	}

	return schedule.TimeRange{Min: timeMin, Max: timeMax}, nil
}
