package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/HYyydu/calendar-agent/internal/calendar"
	"github.com/HYyydu/calendar-agent/internal/llm"
	"github.com/HYyydu/calendar-agent/internal/logging"
)

// ResolutionKind tags the outcome of a candidate resolution.
type ResolutionKind int

const (
	// Resolved means exactly one candidate matched the description.
	Resolved ResolutionKind = iota
	// NoMatch means the candidate list was empty.
	NoMatch
	// Ambiguous means the resolver could not pick a single candidate:
	// either the reasoning call failed, its reply did not parse, or it
	// named an id outside the candidate set. The resolver never guesses.
	Ambiguous
)

// Resolution is the tagged result of Resolver.Resolve. Event is set only
// when Kind is Resolved.
type Resolution struct {
	Kind  ResolutionKind
	Event *calendar.Event
}

// Resolver picks the calendar event a free-text description refers to out
// of a candidate list. It issues at most one reasoning call per resolution
// and never mutates calendar state.
type Resolver struct {
	client llm.Client
	logger *slog.Logger
}

// NewResolver creates a Resolver backed by the given reasoning client.
func NewResolver(client llm.Client, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		client: client,
		logger: logger,
	}
}

const resolverSystemPrompt = `You match a user's request against a list of calendar events.
Given the user's description and the candidate events below, pick the single event the user means.
Respond with exactly one JSON object of the form {"id": "<event id>", "isAllDay": <true|false>} and nothing else.
The id must be the id field of one of the candidate events.

Candidate events:
%s`

// Resolve picks the best candidate for the description.
//
// Zero candidates report NoMatch. A sole candidate is returned directly
// without a reasoning call. With several candidates, one reasoning call is
// made; its reply must name an id from the candidate set or the result is
// Ambiguous.
func (r *Resolver) Resolve(ctx context.Context, description string, candidates []calendar.Event) Resolution {
	switch len(candidates) {
	case 0:
		return Resolution{Kind: NoMatch}
	case 1:
		return Resolution{Kind: Resolved, Event: &candidates[0]}
	}

	if r.client == nil {
		r.logger.Warn("no reasoning client configured, cannot disambiguate",
			logging.Operation("resolve"))
		return Resolution{Kind: Ambiguous}
	}

	pick, err := r.askModel(ctx, description, candidates)
	if err != nil {
		r.logger.Warn("candidate resolution failed",
			logging.Operation("resolve"),
			logging.Err(err))
		return Resolution{Kind: Ambiguous}
	}

	for i := range candidates {
		if candidates[i].ID == pick.ID {
			return Resolution{Kind: Resolved, Event: &candidates[i]}
		}
	}

	r.logger.Warn("resolver returned an id outside the candidate set",
		logging.Operation("resolve"),
		logging.EventID(pick.ID))
	return Resolution{Kind: Ambiguous}
}

// eventPick is the structured reply the reasoning call must produce.
type eventPick struct {
	ID       string `json:"id"`
	IsAllDay bool   `json:"isAllDay"`
}

func (r *Resolver) askModel(ctx context.Context, description string, candidates []calendar.Event) (*eventPick, error) {
	payload, err := json.Marshal(candidateViews(candidates))
	if err != nil {
		return nil, fmt.Errorf("marshal candidates: %w", err)
	}

	resp, err := r.client.Complete(ctx, llm.CompletionRequest{
		Messages: []llm.Message{
			{Role: "system", Content: fmt.Sprintf(resolverSystemPrompt, payload)},
			{Role: "user", Content: description},
		},
	})
	if err != nil {
		return nil, err
	}

	return parsePick(resp.Content)
}

// candidateView is the candidate shape serialized into the prompt.
type candidateView struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Description string `json:"description,omitempty"`
	Start       string `json:"start,omitempty"`
	End         string `json:"end,omitempty"`
	IsAllDay    bool   `json:"isAllDay"`
}

func candidateViews(candidates []calendar.Event) []candidateView {
	views := make([]candidateView, len(candidates))
	for i, c := range candidates {
		views[i] = candidateView{
			ID:          c.ID,
			Summary:     c.Summary,
			Description: c.Description,
			Start:       stampString(c.Start),
			End:         stampString(c.End),
			IsAllDay:    c.AllDay,
		}
	}
	return views
}

func stampString(s calendar.Stamp) string {
	if s.Date != "" {
		return s.Date
	}
	return s.DateTime
}

// parsePick extracts the {id, isAllDay} object from the model's reply.
// Models wrap JSON in fences or prose often enough that the raw content is
// repaired before decoding; a reply that still fails to yield a non-empty
// id is a resolver failure, never a default.
func parsePick(content string) (*eventPick, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	repaired, err := jsonrepair.JSONRepair(content)
	if err != nil {
		return nil, fmt.Errorf("unparseable resolver reply: %w", err)
	}

	var pick eventPick
	if err := json.Unmarshal([]byte(repaired), &pick); err != nil {
		return nil, fmt.Errorf("decode resolver reply: %w", err)
	}
	if pick.ID == "" {
		return nil, fmt.Errorf("resolver reply missing event id")
	}

	return &pick, nil
}
