package nested

import (
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"github.com/leapstack-labs/enginespec/pkg/core"
)

// TypeLookup maps a native type string to a column spec.
type TypeLookup func(rawType string) (core.ColumnSpec, bool)

type frame struct {
	name string
	kind string
}

// ParseStructuralColumn flattens a column of type array(...) or row(...)
// into the parent column followed by one column per nested field, named by
// its dotted path. Types are matched with lookup; unknown field types are
// logged and treated as strings. A parent name containing whitespace is
// quoted while parsing; quoted field names keep their quotes.
//
// The parser walks the type string with a stack of open array/row scopes.
// Unbalanced input does not panic; whatever columns were produced are
// returned.
func ParseStructuralColumn(name, rawType string, lookup TypeLookup, logger *slog.Logger) []core.Column {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	parent := name
	if strings.ContainsAny(name, " \t") {
		parent = `"` + name + `"`
	}

	var (
		result []core.Column
		stack  []frame
	)
	pop := func() {
		if len(stack) > 0 {
			stack = stack[:len(stack)-1]
		}
	}
	path := func() string {
		names := lo.FilterMap(stack, func(f frame, _ int) (string, bool) {
			return f.name, f.name != ""
		})
		return strings.Join(names, ".")
	}

	for _, open := range splitUnquoted(parent+" "+rawType, isByte('(')) {
		for _, inner := range splitUnquoted(open, isByte(')')) {
			switch {
			case inner == "":
				pop()
			case hasNestedFields(inner):
				for _, field := range splitUnquoted(inner, isByte(',')) {
					field = strings.TrimSpace(field)
					if field == "" {
						continue
					}
					info := splitUnquoted(field, isSpace)
					fieldName, fieldType := info[0], ""
					if len(info) > 1 {
						fieldType = info[1]
					}

					spec, ok := lookup(fieldType)
					if !ok {
						spec = core.ColumnSpec{Type: core.TypeString, Generic: core.GenericString}
						logger.Info("did not recognize type",
							slog.String("type", fieldType),
							slog.String("column", fieldName))
					}

					colName := fieldName
					if isScope(fieldType) {
						stack = append(stack, frame{name: fieldName, kind: fieldType})
						colName = path()
					} else if p := path(); p != "" {
						colName = p + "." + fieldName
					}
					result = append(result, core.Column{
						Name:     strings.Replace(colName, parent, name, 1),
						Type:     spec.Type.String(),
						Generic:  spec.Generic,
						IsDttm:   spec.IsDttm,
						Nullable: true,
					})
				}
				lower := strings.ToLower(inner)
				if !strings.HasSuffix(lower, "array") && !strings.HasSuffix(lower, "row") {
					pop()
				}
			case isScope(inner):
				stack = append(stack, frame{kind: inner})
			default:
				pop()
			}
		}
	}
	return result
}

func isScope(typ string) bool {
	return strings.EqualFold(typ, "array") || strings.EqualFold(typ, "row")
}

// QueryAs returns the projection for a dotted column path, quoting each
// segment unless already quoted: a.b becomes "a"."b" AS "a.b".
func QueryAs(name string) string {
	parts := splitUnquoted(name, isByte('.'))
	for i, p := range parts {
		if !(len(p) >= 2 && strings.HasPrefix(p, `"`) && strings.HasSuffix(p, `"`)) {
			parts[i] = `"` + p + `"`
		}
	}
	return strings.Join(parts, ".") + ` AS "` + name + `"`
}
