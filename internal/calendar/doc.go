// Package calendar provides the gateway to the Google Calendar backend.
//
// All operations are scoped to the primary calendar of the authenticated
// identity. The gateway performs no retries; transport and auth failures
// surface as ErrUnavailable and missing events as ErrNotFound, leaving the
// retry decision to the caller so that mutations keep at-most-once
// semantics.
//
// Endpoints travel as Stamp values: a bare date for all-day events or an
// RFC3339 datetime plus IANA zone for timed events. Updates preserve the
// shape of the existing event and inherit its timezone when the patch does
// not name one.
package calendar
