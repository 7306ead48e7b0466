package schedule

import (
	"errors"
	"fmt"
)

// MalformedTimeError reports a date or time string that failed pattern
// validation. It is always propagated to the caller; the engine never
// silently substitutes a default for a malformed value.
type MalformedTimeError struct {
	Field string // which part of the request was malformed
	Value string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("malformed %s: %q", e.Field, e.Value)
}

// malformed builds a MalformedTimeError for a field/value pair.
func malformed(field, value string) error {
	return &MalformedTimeError{Field: field, Value: value}
}

// IsMalformedTime reports whether err is (or wraps) a MalformedTimeError.
func IsMalformedTime(err error) bool {
	var mte *MalformedTimeError
	return errors.As(err, &mte)
}

// ErrNothingToConfirm is returned by the delete-confirm step when no
// deletion is pending for the session.
var ErrNothingToConfirm = errors.New("no deletion pending for this session")
