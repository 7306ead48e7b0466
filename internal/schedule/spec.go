package schedule

import (
	"fmt"
	"time"
)

// Field limits imposed by the backend on event text.
const (
	MaxSummaryLen     = 2048
	MaxDescriptionLen = 5000
)

// MaxRangeSpan is the widest window a search range may cover.
const MaxRangeSpan = 365 * 24 * time.Hour

// Endpoint is one partially specified end of an event as the agent parsed
// it from user text: a calendar date for all-day events, or a wall-clock
// time plus IANA zone for timed events. Exactly one of the two forms may
// be populated, consistent with the spec's AllDay flag.
type Endpoint struct {
	Date     string // yyyy-MM-dd
	Time     string // HH:MM:SS
	TimeZone string // IANA zone name, e.g. America/Los_Angeles
}

// Spec is a user-intended event. It is constructed from parsed user input,
// consumed once by the orchestrator and discarded after the backend call.
type Spec struct {
	Summary     string
	Description string
	AllDay      bool
	Start       Endpoint
	End         Endpoint
}

// Validate checks the shape invariant: per endpoint, exactly one of
// {date-only, time+timezone} is populated, matching AllDay.
func (s *Spec) Validate() error {
	if s.Summary == "" {
		return fmt.Errorf("summary is required")
	}
	if len(s.Summary) > MaxSummaryLen {
		return fmt.Errorf("summary exceeds %d characters", MaxSummaryLen)
	}
	if len(s.Description) > MaxDescriptionLen {
		return fmt.Errorf("description exceeds %d characters", MaxDescriptionLen)
	}

	if err := s.Start.validate(s.AllDay, "start"); err != nil {
		return err
	}
	return s.End.validate(s.AllDay, "end")
}

func (ep Endpoint) validate(allDay bool, name string) error {
	if allDay {
		if ep.Date == "" {
			return fmt.Errorf("%s: all-day events require a date", name)
		}
		if ep.Time != "" || ep.TimeZone != "" {
			return fmt.Errorf("%s: all-day events must not carry a time or timezone", name)
		}
		return nil
	}

	if ep.Time == "" {
		return fmt.Errorf("%s: timed events require a wall-clock time", name)
	}
	if ep.Date != "" {
		return fmt.Errorf("%s: timed events must not carry a date", name)
	}
	return nil
}

// TimeRange bounds a range query over the calendar. Events are matched by
// start time in [Min, Max).
type TimeRange struct {
	Min time.Time
	Max time.Time
}

// Validate enforces ordering and the one-year span cap.
func (r TimeRange) Validate() error {
	if r.Min.IsZero() || r.Max.IsZero() {
		return fmt.Errorf("time range requires both bounds")
	}
	if !r.Max.After(r.Min) {
		return fmt.Errorf("time range max must be after min")
	}
	if r.Max.Sub(r.Min) > MaxRangeSpan {
		return fmt.Errorf("time range may not span more than one year")
	}
	return nil
}
