package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/HYyydu/calendar-agent/internal/calendar"
	"github.com/HYyydu/calendar-agent/internal/google"
	"github.com/HYyydu/calendar-agent/internal/instrumentation"
	"github.com/HYyydu/calendar-agent/internal/llm"
	"github.com/HYyydu/calendar-agent/internal/schedule"
	"github.com/HYyydu/calendar-agent/internal/tasks"
)

// ServerContext holds the context for the MCP server. Calendar and tasks
// clients are cached per account; orchestrators are built on top of them.
// The pending-deletion store is shared so a session's proposal survives
// across tool calls regardless of which orchestrator served them.
type ServerContext struct {
	ctx             context.Context
	cancel          context.CancelFunc
	calendarClients map[string]*calendar.Client
	tasksClients    map[string]*tasks.Client
	orchestrators   map[string]*schedule.Orchestrator
	llmClient       llm.Client
	normalizer      *schedule.Normalizer
	pending         *schedule.PendingStore
	metrics         *instrumentation.Metrics
	audit           *instrumentation.AuditLogger
	logger          *slog.Logger
	mu              sync.RWMutex
	shutdown        bool
}

// Options configures a ServerContext.
type Options struct {
	// LLMClient resolves ambiguous event references. Optional; without it
	// multi-candidate deletions report ambiguity instead of reasoning.
	LLMClient llm.Client

	// DefaultTimeZone is the zone assumed for timed requests that name none.
	DefaultTimeZone string

	// Metrics is the metrics recorder. Optional.
	Metrics *instrumentation.Metrics

	// Audit is the mutation audit logger. Optional.
	Audit *instrumentation.AuditLogger

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewServerContext creates a new server context. Clients are lazily
// initialized per account when first needed; a missing token is not an
// error at startup.
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = &instrumentation.Metrics{}
	}
	audit := opts.Audit
	if audit == nil {
		audit = instrumentation.NewAuditLogger(logger)
	}

	llmClient := opts.LLMClient
	if llmClient != nil {
		llmClient = llm.NewInstrumentedClient(llmClient, metrics)
	}

	return &ServerContext{
		ctx:             shutdownCtx,
		cancel:          cancel,
		calendarClients: make(map[string]*calendar.Client),
		tasksClients:    make(map[string]*tasks.Client),
		orchestrators:   make(map[string]*schedule.Orchestrator),
		llmClient:       llmClient,
		normalizer:      schedule.NewNormalizer(opts.DefaultTimeZone),
		pending:         schedule.NewPendingStore(),
		metrics:         metrics,
		audit:           audit,
		logger:          logger,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// CalendarClientForAccount returns the Calendar client for a specific account.
// Creates and caches the client if it doesn't exist yet.
// Returns nil if the account has no token.
func (sc *ServerContext) CalendarClientForAccount(account string) *calendar.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.calendarClientLocked(account)
}

func (sc *ServerContext) calendarClientLocked(account string) *calendar.Client {
	if client, ok := sc.calendarClients[account]; ok {
		return client
	}

	if !google.HasTokenForAccount(account) {
		return nil
	}

	client, err := calendar.NewClientForAccount(sc.ctx, account)
	if err != nil {
		sc.logger.Warn("failed to create calendar client", "account", account, "error", err)
		return nil
	}

	sc.calendarClients[account] = client
	return client
}

// CalendarClient returns the Calendar client for the default account
func (sc *ServerContext) CalendarClient() *calendar.Client {
	return sc.CalendarClientForAccount("default")
}

// SetCalendarClientForAccount sets the Calendar client for a specific account.
// The cached orchestrator for the account is rebuilt on next use.
func (sc *ServerContext) SetCalendarClientForAccount(account string, client *calendar.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.calendarClients[account] = client
	delete(sc.orchestrators, account)
}

// TasksClientForAccount returns the Tasks client for a specific account.
// Creates and caches the client if it doesn't exist yet.
// Returns nil if the account has no token.
func (sc *ServerContext) TasksClientForAccount(account string) *tasks.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if client, ok := sc.tasksClients[account]; ok {
		return client
	}

	if !google.HasTokenForAccount(account) {
		return nil
	}

	client, err := tasks.NewClientForAccount(sc.ctx, account)
	if err != nil {
		sc.logger.Warn("failed to create tasks client", "account", account, "error", err)
		return nil
	}

	sc.tasksClients[account] = client
	return client
}

// TasksClient returns the Tasks client for the default account
func (sc *ServerContext) TasksClient() *tasks.Client {
	return sc.TasksClientForAccount("default")
}

// SetTasksClientForAccount sets the Tasks client for a specific account
func (sc *ServerContext) SetTasksClientForAccount(account string, client *tasks.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.tasksClients[account] = client
}

// OrchestratorForAccount returns the schedule orchestrator for a specific
// account, building it on first use. Returns nil if the account has no
// calendar client.
func (sc *ServerContext) OrchestratorForAccount(account string) *schedule.Orchestrator {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if orch, ok := sc.orchestrators[account]; ok {
		return orch
	}

	client := sc.calendarClientLocked(account)
	if client == nil {
		return nil
	}

	resolver := schedule.NewResolver(sc.llmClient, sc.logger)
	orch := schedule.NewOrchestrator(client, resolver, sc.normalizer, sc.pending, sc.logger).WithMetrics(sc.metrics)
	sc.orchestrators[account] = orch
	return orch
}

// Orchestrator returns the schedule orchestrator for the default account
func (sc *ServerContext) Orchestrator() *schedule.Orchestrator {
	return sc.OrchestratorForAccount("default")
}

// PendingStore returns the shared pending-deletion store.
func (sc *ServerContext) PendingStore() *schedule.PendingStore {
	return sc.pending
}

// Metrics returns the metrics recorder.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	return sc.metrics
}

// Audit returns the mutation audit logger.
func (sc *ServerContext) Audit() *instrumentation.AuditLogger {
	return sc.audit
}

// Logger returns the structured logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
