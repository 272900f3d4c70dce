package dialect

import (
	"fmt"

	errors "gopkg.in/src-d/go-errors.v1"
)

var (
	// ErrUnsupportedGrain is returned when a grain key is absent from the
	// dialect's time grain table.
	ErrUnsupportedGrain = errors.NewKind("time grain %q is not supported by %s")

	// ErrInvalidLimit is returned for a negative row limit.
	ErrInvalidLimit = errors.NewKind("invalid row limit %d")

	// ErrPartitionsUnsupported is returned by dialects without partition discovery.
	ErrPartitionsUnsupported = errors.NewKind("%s does not support partition discovery")

	// ErrNilCollaborator is returned when a required inspector or connection is missing.
	ErrNilCollaborator = errors.NewKind("%s requires a %s")
)

// UnknownDialectError is returned when an unregistered dialect is requested.
type UnknownDialectError struct {
	Name      string
	Available []string
}

func (e *UnknownDialectError) Error() string {
	return fmt.Sprintf("unknown dialect %q\nAvailable dialects: %v", e.Name, e.Available)
}
