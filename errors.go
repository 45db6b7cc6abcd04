package caliper

import (
	"errors"
	"fmt"
)

// Sentinel error kinds, matched with errors.Is. Every error the package
// raises wraps one of these (via fmt.Errorf's %w, or, for the landmark
// violation ExpDecayReservoir panics with, an Unwrap method) so a caller
// can pattern-match on the kind.
var (
	// ErrInvalidName is returned for an empty or malformed dotted name.
	ErrInvalidName = errors.New("caliper: invalid name")
	// ErrInvalidLabel is returned for a path segment violating the label grammar.
	ErrInvalidLabel = errors.New("caliper: invalid label")
	// ErrDuplicateName is returned when something is already registered at
	// a name's path (or a prefix of it is a leaf metric), and by the
	// fetch-or-create functions when the name holds a different metric type.
	ErrDuplicateName = errors.New("caliper: duplicate name")
	// ErrInvalidQuantile is returned by GetValue(q) when q is outside [0, 1].
	ErrInvalidQuantile = errors.New("caliper: invalid quantile")
	// ErrLandmarkViolation indicates a clock regression: an observation at
	// or before the reservoir's decay landmark.
	ErrLandmarkViolation = errors.New("caliper: observation at or before landmark")
)

func invalidNamef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidName}, args...)...)
}

func invalidLabelf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidLabel}, args...)...)
}

func duplicateNamef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrDuplicateName}, args...)...)
}

func invalidQuantilef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrInvalidQuantile}, args...)...)
}
