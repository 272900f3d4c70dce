package dialect

import (
	"maps"
	"regexp"

	"github.com/leapstack-labs/enginespec/pkg/core"
)

// ErrorPattern maps driver error text to a structured error.
// Message may reference named groups and context params as %(name)s.
type ErrorPattern struct {
	Regexp  *regexp.Regexp
	Message string
	Type    core.ErrorType
	Extra   map[string]any
}

// Pattern compiles an error pattern. It panics on an invalid expression,
// so patterns are declared as package-level tables.
func Pattern(expr, message string, typ core.ErrorType, extra map[string]any) ErrorPattern {
	return ErrorPattern{
		Regexp:  regexp.MustCompile(expr),
		Message: message,
		Type:    typ,
		Extra:   extra,
	}
}

var placeholder = regexp.MustCompile(`%\((\w+)\)s`)

// RenderTemplate replaces %(name)s placeholders. Unknown names render empty.
func RenderTemplate(tmpl string, params map[string]string) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		return params[placeholder.FindStringSubmatch(m)[1]]
	})
}

// Classify matches raw against the dialect's error patterns in order.
// On a miss it returns a generic error carrying raw unchanged and false.
func (d *Dialect) Classify(raw string, params core.ErrorContext) (core.StructuredError, bool) {
	for _, p := range d.errorPatterns {
		m := p.Regexp.FindStringSubmatch(raw)
		if m == nil {
			continue
		}

		values := make(map[string]string, len(params)+len(m))
		maps.Copy(values, params)
		extra := map[string]any{"engine_name": d.DisplayName}
		for i, name := range p.Regexp.SubexpNames() {
			if name == "" || i >= len(m) {
				continue
			}
			values[name] = m[i]
			extra[name] = m[i]
		}
		maps.Copy(extra, p.Extra)

		return core.StructuredError{
			Message: RenderTemplate(p.Message, values),
			Type:    p.Type,
			Level:   core.LevelError,
			Extra:   extra,
		}, true
	}

	return core.StructuredError{
		Message: raw,
		Type:    core.GenericDBEngineError,
		Level:   core.LevelError,
		Extra:   map[string]any{"engine_name": d.DisplayName},
	}, false
}
