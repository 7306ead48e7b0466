package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"
)

// Stamp is one endpoint of an event the way the backend represents it:
// either a whole calendar date (all-day) or an exact datetime with its
// IANA zone (timed). Exactly one of the two forms is populated.
type Stamp struct {
	Date     string // yyyy-MM-dd, all-day events only
	DateTime string // RFC3339 with explicit UTC offset, timed events only
	TimeZone string // IANA zone name, timed events only
}

// IsZero reports whether the stamp carries neither form.
func (s Stamp) IsZero() bool {
	return s.Date == "" && s.DateTime == ""
}

// Event is a calendar entry as returned by the backend. The backend owns
// these; the engine never keeps them past the request that fetched them.
type Event struct {
	ID          string
	Summary     string
	Description string
	Start       Stamp
	End         Stamp
	AllDay      bool
	Status      string
	HTMLLink    string

	// StartsAt/EndsAt are the parsed instants, used for ordering and
	// range checks. For all-day events they are midnight of the date.
	StartsAt time.Time
	EndsAt   time.Time
}

// EventInput is the payload for creating an event. Start and End must
// already be normalized stamps consistent with AllDay.
type EventInput struct {
	Summary     string
	Description string
	AllDay      bool
	Start       Stamp
	End         Stamp
}

// EventPatch is a partial update. Empty fields are left unchanged on the
// backend. Start and End are raw normalized values; the client writes them
// into whichever shape the existing event already has, so a patch can never
// flip an event between all-day and timed.
type EventPatch struct {
	Summary     string
	Description string
	Start       string // date for all-day targets, RFC3339 datetime for timed
	End         string
	TimeZone    string // timed targets only; existing zone is kept when empty
}

// CalendarInfo describes one calendar visible to the authenticated user.
type CalendarInfo struct {
	ID       string
	Summary  string
	TimeZone string
	Primary  bool
}

// toEvent converts a Google Calendar event to an Event.
func toEvent(event *calendar.Event) Event {
	e := Event{
		ID:          event.Id,
		Summary:     event.Summary,
		Description: event.Description,
		Status:      event.Status,
		HTMLLink:    event.HtmlLink,
	}

	if event.Start != nil {
		e.Start = toStamp(event.Start)
		e.AllDay = event.Start.Date != ""
		e.StartsAt = parseStamp(e.Start)
	}
	if event.End != nil {
		e.End = toStamp(event.End)
		e.EndsAt = parseStamp(e.End)
	}

	return e
}

func toStamp(dt *calendar.EventDateTime) Stamp {
	return Stamp{
		Date:     dt.Date,
		DateTime: dt.DateTime,
		TimeZone: dt.TimeZone,
	}
}

// parseStamp returns the instant a stamp refers to, or the zero time when
// the backend sent something unparseable.
func parseStamp(s Stamp) time.Time {
	if s.DateTime != "" {
		if t, err := time.Parse(time.RFC3339, s.DateTime); err == nil {
			return t
		}
		return time.Time{}
	}
	if s.Date != "" {
		if t, err := time.Parse("2006-01-02", s.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// toCalendarInfo converts a Google Calendar list entry to CalendarInfo.
func toCalendarInfo(entry *calendar.CalendarListEntry) CalendarInfo {
	return CalendarInfo{
		ID:       entry.Id,
		Summary:  entry.Summary,
		TimeZone: entry.TimeZone,
		Primary:  entry.Primary,
	}
}
