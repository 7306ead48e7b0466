package schedule

import (
	"regexp"
	"time"

	"github.com/HYyydu/calendar-agent/internal/calendar"
)

// DefaultTimeZone is used when a timed endpoint omits its zone. The
// original assistant pinned its users to the US west coast; deployments
// override this via configuration.
const DefaultTimeZone = "America/Los_Angeles"

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}$`)
)

// Normalizer converts partial endpoint descriptions into unambiguous
// backend stamps.
//
// Timed endpoints carry only a wall-clock time, so the normalizer must
// pick the calendar date itself. It anchors to the day after "now" in the
// endpoint's zone, never today: a user asking for "5pm" after 5pm would
// otherwise be scheduled into the past. That next-day anchoring is policy,
// not an accident of parsing.
type Normalizer struct {
	defaultZone string

	// now is the clock; tests replace it.
	now func() time.Time
}

// NewNormalizer returns a Normalizer using defaultZone for timed endpoints
// that omit a zone. An empty defaultZone falls back to DefaultTimeZone.
func NewNormalizer(defaultZone string) *Normalizer {
	if defaultZone == "" {
		defaultZone = DefaultTimeZone
	}
	return &Normalizer{
		defaultZone: defaultZone,
		now:         time.Now,
	}
}

// Endpoint normalizes one spec endpoint into a backend stamp.
//
// All-day endpoints pass their date through unchanged: for the end of an
// all-day event the caller must already have advanced the date by one day,
// because the backend treats all-day ends as exclusive. The normalizer
// never adds that day itself.
func (n *Normalizer) Endpoint(ep Endpoint, allDay bool) (calendar.Stamp, error) {
	if allDay {
		return n.allDayStamp(ep)
	}
	return n.timedStamp(ep)
}

func (n *Normalizer) allDayStamp(ep Endpoint) (calendar.Stamp, error) {
	if !datePattern.MatchString(ep.Date) {
		return calendar.Stamp{}, malformed("date", ep.Date)
	}
	if _, err := time.Parse("2006-01-02", ep.Date); err != nil {
		return calendar.Stamp{}, malformed("date", ep.Date)
	}
	return calendar.Stamp{Date: ep.Date}, nil
}

func (n *Normalizer) timedStamp(ep Endpoint) (calendar.Stamp, error) {
	if !timePattern.MatchString(ep.Time) {
		return calendar.Stamp{}, malformed("time", ep.Time)
	}
	clock, err := time.Parse("15:04:05", ep.Time)
	if err != nil {
		return calendar.Stamp{}, malformed("time", ep.Time)
	}

	zone := ep.TimeZone
	if zone == "" {
		zone = n.defaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return calendar.Stamp{}, malformed("timezone", zone)
	}

	// Anchor to tomorrow in the endpoint's zone.
	anchor := n.now().In(loc).AddDate(0, 0, 1)
	t := time.Date(anchor.Year(), anchor.Month(), anchor.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, loc)

	return calendar.Stamp{
		DateTime: t.Format(time.RFC3339),
		TimeZone: zone,
	}, nil
}

// Spec normalizes both endpoints of a spec. The spec must already have
// passed Validate.
func (n *Normalizer) Spec(s *Spec) (start, end calendar.Stamp, err error) {
	start, err = n.Endpoint(s.Start, s.AllDay)
	if err != nil {
		return calendar.Stamp{}, calendar.Stamp{}, err
	}
	end, err = n.Endpoint(s.End, s.AllDay)
	if err != nil {
		return calendar.Stamp{}, calendar.Stamp{}, err
	}
	return start, end, nil
}
