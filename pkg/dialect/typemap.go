package dialect

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/leapstack-labs/enginespec/pkg/core"
)

// TypeMapping maps native type strings matching Pattern to a canonical type.
type TypeMapping struct {
	Pattern *regexp.Regexp
	Type    func(match []string) core.SQLType
	Generic core.GenericType
}

// Rule builds a case-insensitive mapping to a fixed canonical type.
func Rule(pattern string, typ core.SQLType, generic core.GenericType) TypeMapping {
	return TypeMapping{
		Pattern: regexp.MustCompile("(?i)" + pattern),
		Type:    func([]string) core.SQLType { return typ },
		Generic: generic,
	}
}

// RuleFunc builds a case-insensitive mapping whose canonical type is built
// from the regex submatches.
func RuleFunc(pattern string, fn func(match []string) core.SQLType, generic core.GenericType) TypeMapping {
	return TypeMapping{
		Pattern: regexp.MustCompile("(?i)" + pattern),
		Type:    fn,
		Generic: generic,
	}
}

// SizedType returns a constructor that reads a length from submatch group.
// Without a length the type degrades to an unbounded STRING.
func SizedType(name string, group int) func([]string) core.SQLType {
	return func(m []string) core.SQLType {
		if group < len(m) && m[group] != "" {
			if n, err := strconv.Atoi(m[group]); err == nil {
				return core.SQLType{Name: name, Length: n}
			}
		}
		return core.TypeString
	}
}

// DefaultTypeMappings are tried after a dialect's own rules.
var DefaultTypeMappings = []TypeMapping{
	Rule(`^string`, core.TypeString, core.GenericString),
	Rule(`^n((var)?char|text)`, core.TypeText, core.GenericString),
	Rule(`^(var)?char`, core.TypeString, core.GenericString),
	Rule(`^(tiny|medium|long)?text`, core.TypeString, core.GenericString),
	Rule(`^interval`, core.TypeInterval, core.GenericTemporal),
	Rule(`^smallint`, core.TypeSmallInt, core.GenericNumeric),
	Rule(`^int(eger)?`, core.TypeInteger, core.GenericNumeric),
	Rule(`^bigint`, core.TypeBigInt, core.GenericNumeric),
	Rule(`^long`, core.TypeFloat, core.GenericNumeric),
	Rule(`^decimal`, core.TypeDecimal, core.GenericNumeric),
	Rule(`^numeric`, core.TypeDecimal, core.GenericNumeric),
	Rule(`^float`, core.TypeFloat, core.GenericNumeric),
	Rule(`^double`, core.TypeFloat, core.GenericNumeric),
	Rule(`^real`, core.SQLType{Name: "REAL"}, core.GenericNumeric),
	Rule(`^smallserial`, core.TypeSmallInt, core.GenericNumeric),
	Rule(`^serial`, core.TypeInteger, core.GenericNumeric),
	Rule(`^bigserial`, core.TypeBigInt, core.GenericNumeric),
	Rule(`^money`, core.TypeDecimal, core.GenericNumeric),
	Rule(`^timestamp`, core.TypeTimestamp, core.GenericTemporal),
	Rule(`^datetime`, core.TypeDateTime, core.GenericTemporal),
	Rule(`^date`, core.TypeDate, core.GenericTemporal),
	Rule(`^time`, core.TypeTime, core.GenericTemporal),
	Rule(`^bool(ean)?`, core.TypeBoolean, core.GenericBoolean),
}

// ColumnSpec maps a native type string using the first matching rule.
// It returns false when no rule matches.
func (d *Dialect) ColumnSpec(rawType string) (core.ColumnSpec, bool) {
	raw := strings.TrimSpace(rawType)
	if raw == "" {
		return core.ColumnSpec{}, false
	}
	for _, rule := range d.typeMappings {
		m := rule.Pattern.FindStringSubmatch(raw)
		if m == nil {
			continue
		}
		return core.ColumnSpec{
			Type:    rule.Type(m),
			Generic: rule.Generic,
			IsDttm:  rule.Generic == core.GenericTemporal,
		}, true
	}
	return core.ColumnSpec{}, false
}

// ResolveType is ColumnSpec with the string fallback: unknown types are
// logged and treated as opaque strings.
func ResolveType(e Engine, rawType, column string, logger *slog.Logger) core.ColumnSpec {
	if spec, ok := e.GetColumnSpec(rawType); ok {
		return spec
	}
	if logger != nil {
		logger.Info("did not recognize type",
			slog.String("type", rawType),
			slog.String("column", column))
	}
	return core.ColumnSpec{Type: core.TypeString, Generic: core.GenericString}
}
