package dialect

import (
	"context"
	"log/slog"
	"time"

	"github.com/leapstack-labs/enginespec/pkg/core"
)

// Base implements the descriptor-driven part of Engine. Concrete engines
// embed it, add GetColumns and override what their backend does
// differently.
type Base struct {
	d      *Dialect
	logger *slog.Logger
}

// NewBase creates a Base over d. A nil logger discards output.
func NewBase(d *Dialect, logger *slog.Logger) Base {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return Base{d: d, logger: logger.With(slog.String("dialect", d.Name))}
}

// Name returns the registry key.
func (b *Base) Name() string { return b.d.Name }

// Dialect returns the descriptor.
func (b *Base) Dialect() *Dialect { return b.d }

// Logger returns the engine's logger.
func (b *Base) Logger() *slog.Logger { return b.logger }

// GetColumnSpec maps a native type string.
func (b *Base) GetColumnSpec(rawType string) (core.ColumnSpec, bool) {
	return b.d.ColumnSpec(rawType)
}

// ConvertDatetime renders a datetime literal.
func (b *Base) ConvertDatetime(targetType string, t time.Time) (string, bool) {
	return b.d.ConvertDatetime(targetType, t)
}

// TimeGrainExpression truncates column to grain.
func (b *Base) TimeGrainExpression(grain, column string) (string, error) {
	return b.d.TimeGrainExpression(grain, column)
}

// ApplyLimit bounds sql to at most limit rows.
func (b *Base) ApplyLimit(sql string, limit int) (string, error) {
	return b.d.ApplyLimit(sql, limit)
}

// ExpandData returns the input unchanged.
func (b *Base) ExpandData(columns []core.Column, rows []map[string]any) (core.Expansion, error) {
	return Passthrough(columns, rows), nil
}

// LatestPartition reports that the backend has no partition discovery.
func (b *Base) LatestPartition(context.Context, core.Connection, core.Inspector, string, string, bool) (core.Partition, error) {
	return core.Partition{}, ErrPartitionsUnsupported.New(b.d.DisplayName)
}

// ClassifyError maps driver error text to a structured error.
func (b *Base) ClassifyError(raw string, params core.ErrorContext) (core.StructuredError, bool) {
	return b.d.Classify(raw, params)
}
