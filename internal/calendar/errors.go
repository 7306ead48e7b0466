package calendar

import (
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// ErrNotFound is returned when the backend has no event with the given id.
var ErrNotFound = errors.New("event not found")

// ErrUnavailable is returned for transport or auth failures talking to the
// backend. Callers must not retry automatically: a retried create could
// double-book an event.
var ErrUnavailable = errors.New("calendar backend unavailable")

// wrapAPIError maps a Google API error onto the gateway's error taxonomy,
// keeping the original error in the chain.
func wrapAPIError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound, http.StatusGone:
			return fmt.Errorf("%s: %w: %v", op, ErrNotFound, err)
		}
	}
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}
