package calendar

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/HYyydu/calendar-agent/internal/google"
)

// primaryCalendarID is the only calendar this engine manages.
const primaryCalendarID = "primary"

// MaxRangeSpan is the widest window a single event listing may cover.
const MaxRangeSpan = 365 * 24 * time.Hour

// Client wraps the Google Calendar service, scoped to the primary calendar
// of the authenticated identity.
type Client struct {
	svc     *calendar.Service
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

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return google.HasToken()
}

// NewClientForAccountWithProvider creates a new Calendar client for a
// specific account, with the OAuth token coming from the given provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	conf := google.GetOAuthConfig()
	tokenSource := conf.TokenSource(ctx, token)

	client := oauth2.NewClient(ctx, tokenSource)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// NewClientForAccount creates a new Calendar client for a specific account
// using the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a new Calendar client for the default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// ListEvents lists events on the primary calendar with a start time in
// [timeMin, timeMax), ordered by start time ascending. Recurring entries
// are expanded into single instances; raw recurrence rules never surface.
func (c *Client) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]Event, error) {
	if !timeMax.After(timeMin) {
		return nil, fmt.Errorf("timeMax must be after timeMin")
	}
	if timeMax.Sub(timeMin) > MaxRangeSpan {
		return nil, fmt.Errorf("time range exceeds %s", MaxRangeSpan)
	}

	call := c.svc.Events.List(primaryCalendarID).
		Context(ctx).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime")

	result, err := call.Do()
	if err != nil {
		return nil, wrapAPIError("list events", err)
	}

	var events []Event
	for _, item := range result.Items {
		events = append(events, toEvent(item))
	}

	// The backend already orders by start time; keep the invariant even if
	// a converted stamp failed to parse.
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})

	return events, nil
}

// CreateEvent creates a new event on the primary calendar. The backend
// assigns the id and the canonical link.
func (c *Client) CreateEvent(ctx context.Context, input EventInput) (*Event, error) {
	body := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start:       stampToEventDateTime(input.Start),
		End:         stampToEventDateTime(input.End),
	}

	created, err := c.svc.Events.Insert(primaryCalendarID, body).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError("create event", err)
	}

	event := toEvent(created)
	return &event, nil
}

// UpdateEvent applies a partial patch to an existing event. Fields absent
// from the patch keep their backend values. The existing event decides the
// endpoint shape: an all-day event stays all-day, a timed event stays timed
// and inherits its timezone when the patch does not supply one.
func (c *Client) UpdateEvent(ctx context.Context, eventID string, patch EventPatch) (*Event, error) {
	existing, err := c.svc.Events.Get(primaryCalendarID, eventID).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError("get existing event", err)
	}

	if patch.Summary != "" {
		existing.Summary = patch.Summary
	}
	if patch.Description != "" {
		existing.Description = patch.Description
	}

	allDay := existing.Start != nil && existing.Start.Date != ""

	if patch.Start != "" {
		existing.Start = patchedEndpoint(existing.Start, patch.Start, patch.TimeZone, allDay)
	}
	if patch.End != "" {
		existing.End = patchedEndpoint(existing.End, patch.End, patch.TimeZone, allDay)
	}

	updated, err := c.svc.Events.Update(primaryCalendarID, eventID, existing).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError("update event", err)
	}

	event := toEvent(updated)
	return &event, nil
}

// DeleteEvent removes an event from the primary calendar.
func (c *Client) DeleteEvent(ctx context.Context, eventID string) error {
	if err := c.svc.Events.Delete(primaryCalendarID, eventID).Context(ctx).Do(); err != nil {
		return wrapAPIError("delete event", err)
	}
	return nil
}

// ListCalendars lists all calendars accessible to the user.
func (c *Client) ListCalendars(ctx context.Context) ([]CalendarInfo, error) {
	list, err := c.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError("list calendars", err)
	}

	var calendars []CalendarInfo
	for _, entry := range list.Items {
		calendars = append(calendars, toCalendarInfo(entry))
	}

	return calendars, nil
}

// stampToEventDateTime converts a normalized stamp to the wire shape.
func stampToEventDateTime(s Stamp) *calendar.EventDateTime {
	if s.Date != "" {
		return &calendar.EventDateTime{Date: s.Date}
	}
	return &calendar.EventDateTime{
		DateTime: s.DateTime,
		TimeZone: s.TimeZone,
	}
}

// patchedEndpoint writes a patch value into the shape the existing endpoint
// already has. Timezone inheritance for timed events is deliberate policy:
// modify must round-trip an event without moving it to another zone.
func patchedEndpoint(existing *calendar.EventDateTime, value, timeZone string, allDay bool) *calendar.EventDateTime {
	if allDay {
		return &calendar.EventDateTime{Date: value}
	}

	tz := timeZone
	if tz == "" && existing != nil {
		tz = existing.TimeZone
	}
	if tz == "" {
		tz = "UTC"
	}
	return &calendar.EventDateTime{
		DateTime: value,
		TimeZone: tz,
	}
}
