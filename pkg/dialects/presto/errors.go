package presto

import errors "gopkg.in/src-d/go-errors.v1"

var (
	// ErrCostUnsupported is returned when the server is too old, or its
	// version unknown, for EXPLAIN (TYPE IO).
	ErrCostUnsupported = errors.NewKind("cost estimation requires Presto 0.319 or later (server version %q)")

	// ErrMalformedPlan is returned when an EXPLAIN result cannot be decoded.
	ErrMalformedPlan = errors.NewKind("unexpected EXPLAIN output: %s")
)
