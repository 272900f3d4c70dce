package partition

import errors "gopkg.in/src-d/go-errors.v1"

var (
	// ErrNotPartitioned is returned when the inspector reports no partition index.
	ErrNotPartitioned = errors.NewKind("error getting partition for %s. Verify that this table has a partition")

	// ErrNoPartitionField is returned when the partition index has no columns.
	ErrNoPartitionField = errors.NewKind("the table should have one partitioned field")

	// ErrMultiplePartitionKeys is returned by Latest for multi-key tables
	// unless the caller asked for the first key only.
	ErrMultiplePartitionKeys = errors.NewKind("the table should have a single partitioned field to use this function. You may want to use `latest_sub_partition`")

	// ErrNotPartitionKey is returned when a sub-partition filter names a non-key column.
	ErrNotPartitionKey = errors.NewKind("field [%s] is not part of the partitioning key")

	// ErrFilterCount is returned when sub-partition filters do not cover all but one key.
	ErrFilterCount = errors.NewKind("a filter needs to be specified for %d out of the %d fields")
)
