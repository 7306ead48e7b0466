// Package instrumentation provides OpenTelemetry instrumentation for the
// calendar-agent MCP server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for MCP tools, backend calls, and reasoning calls
//   - Distributed tracing for request flows and API calls
//   - Prometheus metrics export via /metrics endpoint on a dedicated port
//   - OTLP export support for modern observability platforms
//   - An audit trail for mutating calendar operations
//
// # Metrics
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of tool execution durations
//   - active_sessions: Gauge of active user sessions
//
// Backend Metrics:
//   - backend_operations_total: Counter of calendar/tasks operations by service, operation, status
//   - backend_operation_duration_seconds: Histogram of backend operation durations
//
// Reasoning Metrics:
//   - reasoning_calls_total: Counter of reasoning model calls by model and status
//   - reasoning_call_duration_seconds: Histogram of reasoning call durations
//   - reasoning_tokens_total: Counter of tokens consumed by reasoning calls
//   - event_resolutions_total: Counter of resolution attempts by outcome
//
// Two-Phase Delete Metrics:
//   - pending_deletions: Gauge of deletions awaiting confirmation
//
// # Tracing
//
// Spans are created for:
//   - MCP tool invocations (tool.<name>)
//   - Backend calls (backend.<service>.<operation>)
//   - Reasoning model calls (reasoning.resolve)
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: calendar-agent)
package instrumentation
