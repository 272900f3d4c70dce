package nested

import errors "gopkg.in/src-d/go-errors.v1"

var (
	// ErrEmptyType is returned when a structural column has no type string.
	ErrEmptyType = errors.NewKind("column %q has no type")

	// ErrMalformedType is returned when a type is not of the form KEYWORD(...).
	ErrMalformedType = errors.NewKind("unable to parse column type %s")

	// ErrUnknownStructuralType is returned for KEYWORD(...) types other than ARRAY and ROW.
	ErrUnknownStructuralType = errors.NewKind("unknown type %s")

	// ErrUndecodable is returned when a stringified nested value is not valid JSON.
	ErrUndecodable = errors.NewKind("cannot decode value of column %s: %s")
)
