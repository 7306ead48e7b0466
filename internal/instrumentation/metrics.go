package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrStatus    = "status"
	attrOperation = "operation"
	attrService   = "service"
	attrTool      = "tool"
	attrAccount   = "account"
	attrModel     = "model"
	attrOutcome   = "outcome"
)

// Resolution outcome label values for resolver metrics.
const (
	OutcomeResolved  = "resolved"
	OutcomeNoMatch   = "no_match"
	OutcomeAmbiguous = "ambiguous"
)

// Metrics provides methods for recording observability metrics.
// The zero value is a no-op recorder; every method tolerates
// uninitialized instruments.
type Metrics struct {
	// MCP tool metrics
	toolInvocationsTotal metric.Int64Counter
	toolDuration         metric.Float64Histogram
	activeSessions       metric.Int64UpDownCounter

	// Calendar/Tasks backend metrics
	backendOperationsTotal   metric.Int64Counter
	backendOperationDuration metric.Float64Histogram

	// Reasoning model metrics
	reasoningCallsTotal   metric.Int64Counter
	reasoningCallDuration metric.Float64Histogram
	reasoningTokensTotal  metric.Int64Counter
	resolutionsTotal      metric.Int64Counter

	// Two-phase delete metrics
	pendingDeletions metric.Int64UpDownCounter

	// detailedLabels controls whether high-cardinality labels are included
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all instruments initialized.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	m.toolInvocationsTotal, err = meter.Int64Counter(
		"mcp_tool_invocations_total",
		metric.WithDescription("Total number of MCP tool invocations"),
		metric.WithUnit("{invocation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_invocations_total counter: %w", err)
	}

	m.toolDuration, err = meter.Float64Histogram(
		"mcp_tool_duration_seconds",
		metric.WithDescription("MCP tool execution duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mcp_tool_duration_seconds histogram: %w", err)
	}

	m.activeSessions, err = meter.Int64UpDownCounter(
		"active_sessions",
		metric.WithDescription("Number of active user sessions"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create active_sessions gauge: %w", err)
	}

	m.backendOperationsTotal, err = meter.Int64Counter(
		"backend_operations_total",
		metric.WithDescription("Total number of calendar/tasks backend operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend_operations_total counter: %w", err)
	}

	m.backendOperationDuration, err = meter.Float64Histogram(
		"backend_operation_duration_seconds",
		metric.WithDescription("Calendar/tasks backend operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create backend_operation_duration_seconds histogram: %w", err)
	}

	m.reasoningCallsTotal, err = meter.Int64Counter(
		"reasoning_calls_total",
		metric.WithDescription("Total number of reasoning model calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reasoning_calls_total counter: %w", err)
	}

	m.reasoningCallDuration, err = meter.Float64Histogram(
		"reasoning_call_duration_seconds",
		metric.WithDescription("Reasoning model call duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0, 60.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reasoning_call_duration_seconds histogram: %w", err)
	}

	m.reasoningTokensTotal, err = meter.Int64Counter(
		"reasoning_tokens_total",
		metric.WithDescription("Total number of tokens consumed by reasoning model calls"),
		metric.WithUnit("{token}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reasoning_tokens_total counter: %w", err)
	}

	m.resolutionsTotal, err = meter.Int64Counter(
		"event_resolutions_total",
		metric.WithDescription("Total number of event resolution attempts by outcome"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create event_resolutions_total counter: %w", err)
	}

	m.pendingDeletions, err = meter.Int64UpDownCounter(
		"pending_deletions",
		metric.WithDescription("Number of deletions proposed and awaiting confirmation"),
		metric.WithUnit("{deletion}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create pending_deletions gauge: %w", err)
	}

	return m, nil
}

// RecordToolInvocation records an MCP tool invocation with tool name, status,
// and duration. The account label is only added when detailed labels are
// enabled; accounts are user-chosen names and can explode cardinality.
func (m *Metrics) RecordToolInvocation(ctx context.Context, toolName, status, account string, duration time.Duration) {
	if m.toolInvocationsTotal == nil || m.toolDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrTool, toolName),
		attribute.String(attrStatus, status),
	}
	if m.detailedLabels && account != "" {
		attrs = append(attrs, attribute.String(attrAccount, account))
	}

	m.toolInvocationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.toolDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordBackendOperation records a calendar or tasks backend operation.
//
// Parameters:
//   - service: backend name (calendar, tasks)
//   - operation: operation type (list, create, update, delete)
//   - status: result status ("success" or "error")
//   - duration: time taken for the operation
func (m *Metrics) RecordBackendOperation(ctx context.Context, service, operation, status string, duration time.Duration) {
	if m.backendOperationsTotal == nil || m.backendOperationDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrService, service),
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	m.backendOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.backendOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordReasoningCall records one reasoning model call with its token usage.
func (m *Metrics) RecordReasoningCall(ctx context.Context, model, status string, tokens int, duration time.Duration) {
	if m.reasoningCallsTotal == nil || m.reasoningCallDuration == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrModel, model),
		attribute.String(attrStatus, status),
	}

	m.reasoningCallsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.reasoningCallDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	if m.reasoningTokensTotal != nil && tokens > 0 {
		m.reasoningTokensTotal.Add(ctx, int64(tokens), metric.WithAttributes(attribute.String(attrModel, model)))
	}
}

// RecordResolution records the outcome of one event resolution attempt.
// Outcome should be one of: "resolved", "no_match", "ambiguous".
func (m *Metrics) RecordResolution(ctx context.Context, outcome string) {
	if m.resolutionsTotal == nil {
		return
	}

	m.resolutionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOutcome, outcome)))
}

// PendingDeletionProposed increments the pending deletions gauge.
func (m *Metrics) PendingDeletionProposed(ctx context.Context) {
	if m.pendingDeletions == nil {
		return
	}

	m.pendingDeletions.Add(ctx, 1)
}

// PendingDeletionSettled decrements the pending deletions gauge.
// Called when a proposal is confirmed or replaced.
func (m *Metrics) PendingDeletionSettled(ctx context.Context) {
	if m.pendingDeletions == nil {
		return
	}

	m.pendingDeletions.Add(ctx, -1)
}

// IncrementActiveSessions increments the active sessions counter.
func (m *Metrics) IncrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return
	}

	m.activeSessions.Add(ctx, 1)
}

// DecrementActiveSessions decrements the active sessions counter.
func (m *Metrics) DecrementActiveSessions(ctx context.Context) {
	if m.activeSessions == nil {
		return
	}

	m.activeSessions.Add(ctx, -1)
}
