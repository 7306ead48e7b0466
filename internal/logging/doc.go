// Package logging provides structured logging helpers built on log/slog.
//
// It defines canonical attribute keys so that log lines from the gateways,
// the resolver and the orchestrator stay queryable with a consistent
// vocabulary, and it anonymizes session identifiers before they reach the
// log stream.
package logging
