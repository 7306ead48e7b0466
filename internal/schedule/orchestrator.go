package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/HYyydu/calendar-agent/internal/calendar"
	"github.com/HYyydu/calendar-agent/internal/instrumentation"
	"github.com/HYyydu/calendar-agent/internal/logging"
)

// Gateway is the calendar backend as the orchestrator sees it. It is
// satisfied by *calendar.Client; tests substitute fakes.
type Gateway interface {
	ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]calendar.Event, error)
	CreateEvent(ctx context.Context, input calendar.EventInput) (*calendar.Event, error)
	UpdateEvent(ctx context.Context, eventID string, patch calendar.EventPatch) (*calendar.Event, error)
	DeleteEvent(ctx context.Context, eventID string) error
}

// Outcome is the terminal result of one user action. Reply is the single
// user-facing string; OK is the internal success flag. No error ever
// crosses this boundary — failures are converted into Reply text.
type Outcome struct {
	Reply  string
	OK     bool
	Events []calendar.Event
}

// ModifyRequest locates an event by exact summary/description match inside
// a search range and patches its endpoints. Empty endpoints leave the
// corresponding backend field untouched.
type ModifyRequest struct {
	Range       TimeRange
	Summary     string
	Description string
	Start       Endpoint
	End         Endpoint
}

// Orchestrator drives one user action end to end: it validates, normalizes,
// talks to the gateway and the resolver, and folds every failure into a
// user-facing reply. Each call handles exactly one utterance synchronously;
// the only state kept across calls is the per-session pending-deletion slot.
type Orchestrator struct {
	gateway  Gateway
	resolver *Resolver
	norm     *Normalizer
	pending  *PendingStore
	metrics  *instrumentation.Metrics
	logger   *slog.Logger
}

// NewOrchestrator wires an orchestrator from its collaborators. The pending
// store may be shared between orchestrators; sessions key into it.
func NewOrchestrator(gateway Gateway, resolver *Resolver, norm *Normalizer, pending *PendingStore, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		gateway:  gateway,
		resolver: resolver,
		norm:     norm,
		pending:  pending,
		metrics:  &instrumentation.Metrics{},
		logger:   logger,
	}
}

// WithMetrics attaches a metrics recorder. Without one, metric calls are
// no-ops.
func (o *Orchestrator) WithMetrics(m *instrumentation.Metrics) *Orchestrator {
	if m != nil {
		o.metrics = m
	}
	return o
}

// Create validates and normalizes a spec, then creates the event. The
// reply names the event and carries the backend's canonical link when the
// backend provides one.
func (o *Orchestrator) Create(ctx context.Context, spec Spec) Outcome {
	if err := spec.Validate(); err != nil {
		return o.failure("create", err)
	}

	start, end, err := o.norm.Spec(&spec)
	if err != nil {
		return o.failure("create", err)
	}
	if spec.AllDay {
		// The backend treats the all-day end date as exclusive; the user
		// states it inclusively.
		end.Date, err = nextDay(end.Date)
		if err != nil {
			return o.failure("create", err)
		}
	}

	event, err := o.gateway.CreateEvent(ctx, calendar.EventInput{
		Summary:     spec.Summary,
		Description: spec.Description,
		AllDay:      spec.AllDay,
		Start:       start,
		End:         end,
	})
	if err != nil {
		return o.failure("create", err)
	}

	o.logger.Info("event created",
		logging.Operation("create"),
		logging.EventID(event.ID))

	reply := fmt.Sprintf("Created %q.", event.Summary)
	if event.HTMLLink != "" {
		reply = fmt.Sprintf("Created %q. You can view it here: %s", event.Summary, event.HTMLLink)
	}
	return Outcome{Reply: reply, OK: true, Events: []calendar.Event{*event}}
}

// Search lists the events in a range, ordered by start time. The raw event
// sequence rides along in the outcome so the agent can format it.
func (o *Orchestrator) Search(ctx context.Context, r TimeRange) Outcome {
	if err := r.Validate(); err != nil {
		return o.failure("search", err)
	}

	events, err := o.gateway.ListEvents(ctx, r.Min, r.Max)
	if err != nil {
		return o.failure("search", err)
	}

	if len(events) == 0 {
		return Outcome{Reply: "No events in that time range.", OK: true}
	}
	return Outcome{
		Reply:  fmt.Sprintf("Found %d event(s) in that time range.", len(events)),
		OK:     true,
		Events: events,
	}
}

// Modify finds the event whose summary and description exactly match the
// request and patches it. The located event's shape decides how the new
// endpoints are written: an all-day event stays all-day, a timed event
// stays timed and keeps its timezone unless the request names another.
func (o *Orchestrator) Modify(ctx context.Context, req ModifyRequest) Outcome {
	if err := req.Range.Validate(); err != nil {
		return o.failure("modify", err)
	}
	if req.Summary == "" {
		return o.failure("modify", fmt.Errorf("summary is required to locate the event"))
	}

	events, err := o.gateway.ListEvents(ctx, req.Range.Min, req.Range.Max)
	if err != nil {
		return o.failure("modify", err)
	}

	var target *calendar.Event
	for i := range events {
		if events[i].Summary == req.Summary && events[i].Description == req.Description {
			target = &events[i]
			break
		}
	}
	if target == nil {
		return Outcome{Reply: "I couldn't find a matching event in that time range.", OK: false}
	}

	patch := calendar.EventPatch{
		Summary:     req.Summary,
		Description: req.Description,
	}
	if !req.Start.isEmpty() {
		stamp, err := o.norm.Endpoint(req.Start, target.AllDay)
		if err != nil {
			return o.failure("modify", err)
		}
		patch.Start = stampValue(stamp)
		patch.TimeZone = stamp.TimeZone
	}
	if !req.End.isEmpty() {
		stamp, err := o.norm.Endpoint(req.End, target.AllDay)
		if err != nil {
			return o.failure("modify", err)
		}
		if target.AllDay {
			stamp.Date, err = nextDay(stamp.Date)
			if err != nil {
				return o.failure("modify", err)
			}
		}
		patch.End = stampValue(stamp)
		if patch.TimeZone == "" {
			patch.TimeZone = stamp.TimeZone
		}
	}

	updated, err := o.gateway.UpdateEvent(ctx, target.ID, patch)
	if err != nil {
		return o.failure("modify", err)
	}

	o.logger.Info("event updated",
		logging.Operation("modify"),
		logging.EventID(updated.ID))

	return Outcome{
		Reply:  fmt.Sprintf("Updated %q.", updated.Summary),
		OK:     true,
		Events: []calendar.Event{*updated},
	}
}

// ProposeDelete is the first phase of the two-phase delete: it searches
// the range, resolves the user's description against the candidates, and
// on a unique match records a pending deletion for the session. Nothing is
// deleted yet; the reply asks the user to confirm.
func (o *Orchestrator) ProposeDelete(ctx context.Context, sessionID, description string, r TimeRange) Outcome {
	if err := r.Validate(); err != nil {
		return o.failure("delete", err)
	}

	candidates, err := o.gateway.ListEvents(ctx, r.Min, r.Max)
	if err != nil {
		return o.failure("delete", err)
	}

	res := o.resolver.Resolve(ctx, description, candidates)
	switch res.Kind {
	case NoMatch:
		o.metrics.RecordResolution(ctx, instrumentation.OutcomeNoMatch)
		return Outcome{Reply: "Your calendar has no events in that time range.", OK: false}
	case Ambiguous:
		o.metrics.RecordResolution(ctx, instrumentation.OutcomeAmbiguous)
		return Outcome{
			Reply: "I couldn't tell which event you mean. Could you describe it more precisely?",
			OK:    false,
		}
	}
	o.metrics.RecordResolution(ctx, instrumentation.OutcomeResolved)

	if replaced := o.pending.Put(sessionID, res.Event.ID, res.Event.Summary); replaced {
		o.metrics.PendingDeletionSettled(ctx)
	}
	o.metrics.PendingDeletionProposed(ctx)

	o.logger.Info("deletion proposed",
		logging.Operation("delete_propose"),
		logging.SessionHash(sessionID),
		logging.EventID(res.Event.ID))

	return Outcome{
		Reply: fmt.Sprintf("I found %q. Should I delete it? Please confirm.", res.Event.Summary),
		OK:    true,
	}
}

// ConfirmDelete is the second phase: it consumes the session's pending
// deletion and executes it. Without a prior proposal the confirm step
// deletes nothing and says so; confirming twice reports the same.
func (o *Orchestrator) ConfirmDelete(ctx context.Context, sessionID string) Outcome {
	p, ok := o.pending.Take(sessionID)
	if !ok {
		return o.failure("delete_confirm", ErrNothingToConfirm)
	}
	o.metrics.PendingDeletionSettled(ctx)

	if err := o.gateway.DeleteEvent(ctx, p.EventID); err != nil {
		return o.failure("delete_confirm", err)
	}

	o.logger.Info("event deleted",
		logging.Operation("delete_confirm"),
		logging.SessionHash(sessionID),
		logging.EventID(p.EventID))

	return Outcome{Reply: fmt.Sprintf("Deleted %q.", p.Summary), OK: true}
}

func (ep Endpoint) isEmpty() bool {
	return ep.Date == "" && ep.Time == ""
}

func nextDay(date string) (string, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", malformed("date", date)
	}
	return d.AddDate(0, 0, 1).Format("2006-01-02"), nil
}

func stampValue(s calendar.Stamp) string {
	if s.Date != "" {
		return s.Date
	}
	return s.DateTime
}

// failure converts a component-level error into a user-facing outcome.
// This is the only place taxonomy errors turn into text; nothing below
// the orchestrator composes replies and nothing above it sees errors.
func (o *Orchestrator) failure(op string, err error) Outcome {
	o.logger.Warn("operation failed",
		logging.Operation(op),
		logging.Status(logging.StatusError),
		logging.Err(err))

	switch {
	case IsMalformedTime(err):
		return Outcome{Reply: fmt.Sprintf("I couldn't understand the time in your request (%v).", err)}
	case errors.Is(err, calendar.ErrNotFound):
		return Outcome{Reply: "That event no longer exists on your calendar."}
	case errors.Is(err, calendar.ErrUnavailable):
		return Outcome{Reply: "The calendar service is temporarily unavailable. Please try again in a moment."}
	case errors.Is(err, ErrNothingToConfirm):
		return Outcome{Reply: "There is no deletion waiting for confirmation."}
	default:
		return Outcome{Reply: fmt.Sprintf("Sorry, I couldn't complete that: %v.", err)}
	}
}
