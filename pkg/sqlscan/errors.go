package sqlscan

import errors "gopkg.in/src-d/go-errors.v1"

// ErrNoSelect is returned when a TOP clause must be injected into a
// statement that has no SELECT keyword.
var ErrNoSelect = errors.NewKind("cannot apply TOP %d: statement has no SELECT")
