package presto

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/dialect"
	"github.com/leapstack-labs/enginespec/pkg/sqlscan"
)

var errorLocation = regexp.MustCompile(`line (\d+):(\d+): (.+)`)

// Validate runs EXPLAIN (TYPE VALIDATE) for each statement in sql and
// returns one annotation per rejected statement. Errors that carry no
// source location are returned as errors.
func Validate(ctx context.Context, conn core.Connection, sql string, logger *slog.Logger) ([]dialect.Annotation, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	var annotations []dialect.Annotation
	for _, stmt := range sqlscan.Split(sql) {
		logger.Debug("validating statement", slog.String("sql", stmt))
		_, err := conn.Query(ctx, "EXPLAIN (TYPE VALIDATE) "+stmt)
		if err == nil {
			continue
		}
		a, ok := ParseAnnotation(err.Error())
		if !ok {
			return annotations, err
		}
		annotations = append(annotations, a)
	}
	return annotations, nil
}

// ParseAnnotation extracts "line L:C: message" from a server error.
func ParseAnnotation(msg string) (dialect.Annotation, bool) {
	m := errorLocation.FindStringSubmatch(msg)
	if m == nil {
		return dialect.Annotation{}, false
	}
	line, _ := strconv.Atoi(m[1])
	col, _ := strconv.Atoi(m[2])
	return dialect.Annotation{
		Message:     m[3],
		LineNumber:  line,
		StartColumn: col,
		EndColumn:   col,
	}, true
}
