// Package schedule turns natural-language schedule requests into calendar
// operations. It holds the time normalizer (date and time fragments into
// calendar stamps), the candidate resolver (picking one event out of a
// search window, with a reasoning model consulted only when more than one
// candidate exists), the two-phase deletion store, and the orchestrator
// that drives one user action end to end.
//
// Every failure the package produces for a user action is folded into a
// single user-facing reply string by the orchestrator. Callers above it
// never see raw errors; components below it never compose replies.
package schedule
