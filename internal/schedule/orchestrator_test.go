package schedule

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/HYyydu/calendar-agent/internal/calendar"
)

// fakeGateway is an in-memory Gateway. Errors can be injected per
// operation.
type fakeGateway struct {
	events []calendar.Event

	listErr   error
	createErr error
	updateErr error
	deleteErr error

	created []calendar.EventInput
	patches map[string]calendar.EventPatch
	deleted []string
}

func newFakeGateway(events ...calendar.Event) *fakeGateway {
	return &fakeGateway{
		events:  events,
		patches: make(map[string]calendar.EventPatch),
	}
}

func (g *fakeGateway) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]calendar.Event, error) {
	if g.listErr != nil {
		return nil, g.listErr
	}
	return g.events, nil
}

func (g *fakeGateway) CreateEvent(ctx context.Context, input calendar.EventInput) (*calendar.Event, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.created = append(g.created, input)
	return &calendar.Event{
		ID:       "created-1",
		Summary:  input.Summary,
		Start:    input.Start,
		End:      input.End,
		AllDay:   input.AllDay,
		HTMLLink: "https://calendar.example/created-1",
	}, nil
}

func (g *fakeGateway) UpdateEvent(ctx context.Context, eventID string, patch calendar.EventPatch) (*calendar.Event, error) {
	if g.updateErr != nil {
		return nil, g.updateErr
	}
	g.patches[eventID] = patch
	return &calendar.Event{ID: eventID, Summary: patch.Summary}, nil
}

func (g *fakeGateway) DeleteEvent(ctx context.Context, eventID string) error {
	if g.deleteErr != nil {
		return g.deleteErr
	}
	g.deleted = append(g.deleted, eventID)
	return nil
}

func testRange(t *testing.T) TimeRange {
	t.Helper()
	min := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return TimeRange{Min: min, Max: min.Add(7 * 24 * time.Hour)}
}

// newTestOrchestrator wires an orchestrator over the fake gateway with a
// reasoning stub that fails the test if invoked.
func newTestOrchestrator(t *testing.T, g *fakeGateway) *Orchestrator {
	t.Helper()
	return newTestOrchestratorWithLLM(t, g, &stubLLM{t: t, failOnCall: true})
}

func newTestOrchestratorWithLLM(t *testing.T, g *fakeGateway, stub *stubLLM) *Orchestrator {
	t.Helper()
	logger := quietLogger()
	return NewOrchestrator(g, NewResolver(stub, logger), NewNormalizer(""), NewPendingStore(), logger)
}

func TestCreateAllDayAdvancesExclusiveEnd(t *testing.T) {
	g := newFakeGateway()
	o := newTestOrchestrator(t, g)

	out := o.Create(context.Background(), Spec{
		Summary: "Company offsite",
		AllDay:  true,
		Start:   Endpoint{Date: "2026-09-01"},
		End:     Endpoint{Date: "2026-09-03"},
	})

	if !out.OK {
		t.Fatalf("expected success, got reply %q", out.Reply)
	}
	if len(g.created) != 1 {
		t.Fatalf("expected one created event, got %d", len(g.created))
	}

	input := g.created[0]
	if input.Start.Date != "2026-09-01" {
		t.Errorf("unexpected start date %q", input.Start.Date)
	}
	// The user's inclusive end date becomes the backend's exclusive one.
	if input.End.Date != "2026-09-04" {
		t.Errorf("expected end date advanced to 2026-09-04, got %q", input.End.Date)
	}
}

func TestCreateSingleDayAllDay(t *testing.T) {
	g := newFakeGateway()
	o := newTestOrchestrator(t, g)

	out := o.Create(context.Background(), Spec{
		Summary: "Public holiday",
		AllDay:  true,
		Start:   Endpoint{Date: "2026-09-01"},
		End:     Endpoint{Date: "2026-09-01"},
	})

	if !out.OK {
		t.Fatalf("expected success, got reply %q", out.Reply)
	}
	if got := g.created[0].End.Date; got != "2026-09-02" {
		t.Errorf("a single-day event ends the next day on the backend, got %q", got)
	}
}

func TestCreateTimedEvent(t *testing.T) {
	g := newFakeGateway()
	o := newTestOrchestrator(t, g)

	out := o.Create(context.Background(), Spec{
		Summary: "Standup sync",
		Start:   Endpoint{Time: "09:00:00", TimeZone: "America/Los_Angeles"},
		End:     Endpoint{Time: "09:30:00", TimeZone: "America/Los_Angeles"},
	})

	if !out.OK {
		t.Fatalf("expected success, got reply %q", out.Reply)
	}

	input := g.created[0]
	if input.AllDay {
		t.Error("expected a timed event")
	}
	if input.Start.DateTime == "" || input.Start.TimeZone != "America/Los_Angeles" {
		t.Errorf("unexpected start stamp %+v", input.Start)
	}
	if !strings.Contains(out.Reply, "Standup sync") {
		t.Errorf("reply should name the event, got %q", out.Reply)
	}
	if !strings.Contains(out.Reply, "https://calendar.example/created-1") {
		t.Errorf("reply should carry the backend link, got %q", out.Reply)
	}
}

func TestCreateInvalidSpecReportsToUser(t *testing.T) {
	g := newFakeGateway()
	o := newTestOrchestrator(t, g)

	out := o.Create(context.Background(), Spec{
		Summary: "Broken",
		AllDay:  true,
		Start:   Endpoint{Date: "2026-09-01", Time: "09:00:00"},
		End:     Endpoint{Date: "2026-09-01"},
	})

	if out.OK {
		t.Error("expected failure for a malformed spec")
	}
	if out.Reply == "" {
		t.Error("failures must still produce a user-facing reply")
	}
	if len(g.created) != 0 {
		t.Error("nothing should reach the backend on validation failure")
	}
}

func TestCreateMalformedTimeReply(t *testing.T) {
	g := newFakeGateway()
	o := newTestOrchestrator(t, g)

	out := o.Create(context.Background(), Spec{
		Summary: "Standup sync",
		Start:   Endpoint{Time: "five pm"},
		End:     Endpoint{Time: "09:30:00"},
	})

	if out.OK {
		t.Fatal("expected failure")
	}
	if !strings.Contains(out.Reply, "couldn't understand the time") {
		t.Errorf("unexpected reply %q", out.Reply)
	}
}

func TestSearch(t *testing.T) {
	g := newFakeGateway(
		calendar.Event{ID: "ev1", Summary: "Standup sync"},
		calendar.Event{ID: "ev2", Summary: "Team lunch"},
	)
	o := newTestOrchestrator(t, g)

	out := o.Search(context.Background(), testRange(t))
	if !out.OK {
		t.Fatalf("expected success, got reply %q", out.Reply)
	}
	if len(out.Events) != 2 {
		t.Errorf("expected 2 events in the outcome, got %d", len(out.Events))
	}
}

func TestSearchEmptyRange(t *testing.T) {
	g := newFakeGateway()
	o := newTestOrchestrator(t, g)

	out := o.Search(context.Background(), testRange(t))
	if !out.OK {
		t.Fatalf("an empty range is not a failure, got reply %q", out.Reply)
	}
	if len(out.Events) != 0 {
		t.Errorf("expected no events, got %d", len(out.Events))
	}
}

func TestSearchRejectsOverlongRange(t *testing.T) {
	g := newFakeGateway()
	o := newTestOrchestrator(t, g)

	min := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	out := o.Search(context.Background(), TimeRange{Min: min, Max: min.AddDate(2, 0, 0)})
	if out.OK {
		t.Error("expected a range over one year to be rejected")
	}
}

func TestSearchBackendUnavailable(t *testing.T) {
	g := newFakeGateway()
	g.listErr = calendar.ErrUnavailable
	o := newTestOrchestrator(t, g)

	out := o.Search(context.Background(), testRange(t))
	if out.OK {
		t.Fatal("expected failure")
	}
	if !strings.Contains(out.Reply, "temporarily unavailable") {
		t.Errorf("unexpected reply %q", out.Reply)
	}
}

func TestModifyExactMatch(t *testing.T) {
	g := newFakeGateway(
		calendar.Event{ID: "ev1", Summary: "Standup sync", Description: "daily"},
		calendar.Event{ID: "ev2", Summary: "Standup sync", Description: "weekly"},
	)
	o := newTestOrchestrator(t, g)

	out := o.Modify(context.Background(), ModifyRequest{
		Range:       testRange(t),
		Summary:     "Standup sync",
		Description: "weekly",
		Start:       Endpoint{Time: "10:00:00", TimeZone: "America/Los_Angeles"},
	})

	if !out.OK {
		t.Fatalf("expected success, got reply %q", out.Reply)
	}
	if _, ok := g.patches["ev2"]; !ok {
		t.Errorf("expected the description to disambiguate to ev2, patched %v", g.patches)
	}
}

func TestModifyNoMatch(t *testing.T) {
	g := newFakeGateway(
		calendar.Event{ID: "ev1", Summary: "Standup sync", Description: "daily"},
	)
	o := newTestOrchestrator(t, g)

	out := o.Modify(context.Background(), ModifyRequest{
		Range:   testRange(t),
		Summary: "Retro",
	})

	if out.OK {
		t.Error("expected failure when nothing matches")
	}
	if len(g.patches) != 0 {
		t.Error("nothing should be patched when nothing matches")
	}
}

func TestModifyAllDayEndAdvanced(t *testing.T) {
	g := newFakeGateway(
		calendar.Event{ID: "ev1", Summary: "Offsite", AllDay: true},
	)
	o := newTestOrchestrator(t, g)

	out := o.Modify(context.Background(), ModifyRequest{
		Range:   testRange(t),
		Summary: "Offsite",
		End:     Endpoint{Date: "2026-09-05"},
	})

	if !out.OK {
		t.Fatalf("expected success, got reply %q", out.Reply)
	}
	if got := g.patches["ev1"].End; got != "2026-09-06" {
		t.Errorf("expected all-day end advanced to 2026-09-06, got %q", got)
	}
}

func TestModifyTimedInheritsShape(t *testing.T) {
	g := newFakeGateway(
		calendar.Event{ID: "ev1", Summary: "Standup sync", AllDay: false},
	)
	o := newTestOrchestrator(t, g)

	out := o.Modify(context.Background(), ModifyRequest{
		Range:   testRange(t),
		Summary: "Standup sync",
		Start:   Endpoint{Time: "10:00:00"},
		End:     Endpoint{Time: "10:30:00"},
	})

	if !out.OK {
		t.Fatalf("expected success, got reply %q", out.Reply)
	}

	patch := g.patches["ev1"]
	if patch.Start == "" || patch.End == "" {
		t.Fatalf("expected both endpoints patched, got %+v", patch)
	}
	if strings.Contains(patch.Start, "T") == false {
		t.Errorf("a timed event must stay timed, got start %q", patch.Start)
	}
	if patch.TimeZone == "" {
		t.Error("expected a timezone on the patch")
	}
}

func TestTwoPhaseDelete(t *testing.T) {
	g := newFakeGateway(
		calendar.Event{ID: "ev1", Summary: "Standup sync"},
	)
	o := newTestOrchestrator(t, g)
	ctx := context.Background()

	out := o.ProposeDelete(ctx, "session-a", "the standup", testRange(t))
	if !out.OK {
		t.Fatalf("expected proposal to succeed, got reply %q", out.Reply)
	}
	if !strings.Contains(out.Reply, "Standup sync") || !strings.Contains(out.Reply, "confirm") {
		t.Errorf("proposal reply should name the event and ask to confirm, got %q", out.Reply)
	}
	if len(g.deleted) != 0 {
		t.Fatal("nothing may be deleted before confirmation")
	}

	out = o.ConfirmDelete(ctx, "session-a")
	if !out.OK {
		t.Fatalf("expected confirmation to succeed, got reply %q", out.Reply)
	}
	if len(g.deleted) != 1 || g.deleted[0] != "ev1" {
		t.Errorf("expected ev1 deleted, got %v", g.deleted)
	}
}

func TestConfirmWithoutProposal(t *testing.T) {
	g := newFakeGateway()
	o := newTestOrchestrator(t, g)

	out := o.ConfirmDelete(context.Background(), "session-a")
	if out.OK {
		t.Error("confirming without a proposal must fail")
	}
	if !strings.Contains(out.Reply, "no deletion waiting") {
		t.Errorf("unexpected reply %q", out.Reply)
	}
	if len(g.deleted) != 0 {
		t.Error("nothing may be deleted without a proposal")
	}
}

func TestConfirmTwiceDeletesOnce(t *testing.T) {
	g := newFakeGateway(
		calendar.Event{ID: "ev1", Summary: "Standup sync"},
	)
	o := newTestOrchestrator(t, g)
	ctx := context.Background()

	o.ProposeDelete(ctx, "session-a", "the standup", testRange(t))
	o.ConfirmDelete(ctx, "session-a")

	out := o.ConfirmDelete(ctx, "session-a")
	if out.OK {
		t.Error("a second confirmation must find nothing pending")
	}
	if len(g.deleted) != 1 {
		t.Errorf("expected exactly one deletion, got %d", len(g.deleted))
	}
}

func TestProposeDeleteEmptyCalendar(t *testing.T) {
	g := newFakeGateway()
	o := newTestOrchestrator(t, g)

	out := o.ProposeDelete(context.Background(), "session-a", "the standup", testRange(t))
	if out.OK {
		t.Error("an empty candidate list must not produce a proposal")
	}
	if !strings.Contains(out.Reply, "no events") {
		t.Errorf("unexpected reply %q", out.Reply)
	}
}

func TestProposeDeleteAmbiguous(t *testing.T) {
	g := newFakeGateway(
		calendar.Event{ID: "ev1", Summary: "Standup sync"},
		calendar.Event{ID: "ev2", Summary: "Team lunch"},
	)
	// The reasoning call names an id outside the candidate set.
	stub := &stubLLM{t: t, content: `{"id": "ev999", "isAllDay": false}`}
	o := newTestOrchestratorWithLLM(t, g, stub)

	out := o.ProposeDelete(context.Background(), "session-a", "the thing", testRange(t))
	if out.OK {
		t.Error("an ambiguous resolution must not produce a proposal")
	}

	confirm := o.ConfirmDelete(context.Background(), "session-a")
	if confirm.OK {
		t.Error("nothing must be pending after an ambiguous proposal")
	}
}

func TestProposeDeleteResolvesWithReasoning(t *testing.T) {
	g := newFakeGateway(
		calendar.Event{ID: "ev1", Summary: "Standup sync"},
		calendar.Event{ID: "ev2", Summary: "Team lunch"},
	)
	stub := &stubLLM{t: t, content: `{"id": "ev2", "isAllDay": false}`}
	o := newTestOrchestratorWithLLM(t, g, stub)
	ctx := context.Background()

	out := o.ProposeDelete(ctx, "session-a", "lunch with the team", testRange(t))
	if !out.OK {
		t.Fatalf("expected proposal, got reply %q", out.Reply)
	}

	o.ConfirmDelete(ctx, "session-a")
	if len(g.deleted) != 1 || g.deleted[0] != "ev2" {
		t.Errorf("expected ev2 deleted, got %v", g.deleted)
	}
}

func TestProposeDeleteSimilarTitles(t *testing.T) {
	g := newFakeGateway(
		calendar.Event{ID: "ev-standup", Summary: "Standup"},
		calendar.Event{ID: "ev-standup-sync", Summary: "Standup sync"},
	)
	stub := &stubLLM{t: t, content: `{"id": "ev-standup-sync", "isAllDay": false}`}
	o := newTestOrchestratorWithLLM(t, g, stub)
	ctx := context.Background()

	out := o.ProposeDelete(ctx, "session-a", "cancel my standup sync", testRange(t))
	if !out.OK {
		t.Fatalf("expected proposal, got reply %q", out.Reply)
	}
	if !strings.Contains(out.Reply, "Standup sync") {
		t.Errorf("proposal must name the picked event, got %q", out.Reply)
	}
	if len(g.deleted) != 0 {
		t.Fatalf("nothing may be deleted before confirmation, got %v", g.deleted)
	}

	o.ConfirmDelete(ctx, "session-a")
	if len(g.deleted) != 1 || g.deleted[0] != "ev-standup-sync" {
		t.Errorf("expected ev-standup-sync deleted, got %v", g.deleted)
	}
}

func TestProposalsAreSessionScoped(t *testing.T) {
	g := newFakeGateway(
		calendar.Event{ID: "ev1", Summary: "Standup sync"},
	)
	o := newTestOrchestrator(t, g)
	ctx := context.Background()

	o.ProposeDelete(ctx, "session-a", "the standup", testRange(t))

	// A different session cannot confirm session-a's proposal.
	out := o.ConfirmDelete(ctx, "session-b")
	if out.OK {
		t.Error("a proposal must only be confirmable by its own session")
	}
	if len(g.deleted) != 0 {
		t.Error("nothing may be deleted across sessions")
	}
}

func TestConfirmDeleteEventGone(t *testing.T) {
	g := newFakeGateway(
		calendar.Event{ID: "ev1", Summary: "Standup sync"},
	)
	g.deleteErr = calendar.ErrNotFound
	o := newTestOrchestrator(t, g)
	ctx := context.Background()

	o.ProposeDelete(ctx, "session-a", "the standup", testRange(t))

	out := o.ConfirmDelete(ctx, "session-a")
	if out.OK {
		t.Fatal("expected failure when the event is gone")
	}
	if !strings.Contains(out.Reply, "no longer exists") {
		t.Errorf("unexpected reply %q", out.Reply)
	}
}

func TestNextDay(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2026-09-01", "2026-09-02"},
		{"2026-09-30", "2026-10-01"},
		{"2026-12-31", "2027-01-01"},
		{"2028-02-28", "2028-02-29"}, // leap year
	}

	for _, tt := range tests {
		got, err := nextDay(tt.in)
		if err != nil {
			t.Errorf("nextDay(%q): unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("nextDay(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := nextDay("not-a-date"); err == nil {
		t.Error("expected error for a malformed date")
	}
}
