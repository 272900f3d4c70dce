package nested

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/enginespec/pkg/core"
)

var structuralType = regexp.MustCompile(`^(?P<type>\w+)\((?P<children>.*)\)`)

// GetChildren decomposes an ARRAY(T) or ROW(f1 T1, ...) column.
//
// An array yields a single child with the parent's name and the element
// type. A row yields one child per field named parent.field, with field
// names unquoted and lower-cased; unnamed fields are called _col0, _col1
// and so on.
func GetChildren(column core.Column) ([]core.Column, error) {
	if strings.TrimSpace(column.Type) == "" {
		return nil, ErrEmptyType.New(column.Name)
	}
	m := structuralType.FindStringSubmatch(column.Type)
	if m == nil {
		return nil, ErrMalformedType.New(column.Type)
	}
	kind, inner := strings.ToUpper(m[1]), m[2]

	switch kind {
	case "ARRAY":
		return []core.Column{{Name: column.Name, Type: inner, Nullable: true}}, nil
	case "ROW":
		var (
			out      []core.Column
			nameless int
		)
		for _, child := range Split(inner, ',') {
			parts := fields(child)
			if len(parts) == 0 {
				continue
			}
			var name, typ string
			if len(parts) >= 2 {
				name = strings.ToLower(strings.Trim(parts[0], `"`))
				typ = strings.Join(parts[1:], " ")
			} else {
				name = fmt.Sprintf("_col%d", nameless)
				typ = parts[0]
				nameless++
			}
			out = append(out, core.Column{
				Name:     column.Name + "." + name,
				Type:     typ,
				Nullable: true,
			})
		}
		return out, nil
	default:
		return nil, ErrUnknownStructuralType.New(kind)
	}
}
