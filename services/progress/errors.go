package progress

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the progress engine. Callers classify with
// errors.Is; messages carry the detail.
var (
	// ErrCourseNotFound means the referenced course is absent from the
	// catalog. On the write path the percentage degrades to 0 instead of
	// failing the event.
	ErrCourseNotFound = errors.New("course not found")

	// ErrProgressNotFound means no record exists for the (user, course)
	// pair. Reads translate this into the zero projection.
	ErrProgressNotFound = errors.New("progress record not found")

	// ErrConflict means a concurrent write was detected (stale version or
	// duplicate creation). The recorder retries the whole sequence a
	// bounded number of times before surfacing it.
	ErrConflict = errors.New("progress record was modified concurrently")

	// ErrUnavailable means the store timed out or could not be reached.
	// Retryable by the caller, never treated as success.
	ErrUnavailable = errors.New("progress store unavailable")

	// ErrValidation means the input was rejected before touching the store.
	ErrValidation = errors.New("invalid input")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
