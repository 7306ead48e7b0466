// Package server provides the MCP server context, session management,
// health checks, and the dedicated metrics listener for the calendar-agent
// application.
//
// # Key Components
//
// ServerContext manages Google API clients with lazy initialization and
// caching. It supports multiple accounts; each account gets its own
// calendar and tasks client and a schedule orchestrator built on top of
// them. The pending-deletion store is shared across accounts and keyed by
// session, so a deletion proposed in one session can only be confirmed by
// the same session.
//
// SessionIDManager handles multi-account session tracking for HTTP
// transport. It maps Bearer tokens to accounts and discards a session's
// pending deletion proposal when the session expires.
//
// HealthChecker serves Kubernetes liveness and readiness probes; the
// detailed variant also reports the number of deletions awaiting
// confirmation.
//
// MetricsServer serves Prometheus metrics on a dedicated port, keeping
// operational metrics off the main application listener.
package server
