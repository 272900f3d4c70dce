package dialect

import (
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/leapstack-labs/enginespec/pkg/core"
)

// Builder provides a fluent API for constructing dialects.
type Builder struct {
	dialect *Dialect
}

// NewDialect creates a new dialect builder with the given name.
// Defaults: double-quote identifiers, force-limit, the shared default type
// mappings after the dialect's own, and the pass-through None grain.
func NewDialect(name string) *Builder {
	return &Builder{
		dialect: &Dialect{
			Name:         name,
			DisplayName:  name,
			LimitMethod:  core.LimitForce,
			quote:        `"`,
			defaultTypes: true,
			timeGrains:   map[string]string{GrainNone: "{col}"},
		},
	}
}

// DisplayName sets the human readable engine name used in error extras.
func (b *Builder) DisplayName(name string) *Builder {
	b.dialect.DisplayName = name
	return b
}

// MaxIdentifierLength sets the longest label the backend accepts.
func (b *Builder) MaxIdentifierLength(n int) *Builder {
	b.dialect.MaxIdentifierLength = n
	return b
}

// Limit sets the row-limiting strategy.
func (b *Builder) Limit(m core.LimitMethod) *Builder {
	b.dialect.LimitMethod = m
	return b
}

// IdentifierQuote sets the identifier quote character.
func (b *Builder) IdentifierQuote(q string) *Builder {
	b.dialect.quote = q
	return b
}

// DefaultSchema sets the schema used when none is given.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.dialect.DefaultSchema = schema
	return b
}

// TypeMappings appends type rules. Rules are tried in the order added.
func (b *Builder) TypeMappings(rules ...TypeMapping) *Builder {
	b.dialect.typeMappings = append(b.dialect.typeMappings, rules...)
	return b
}

// WithoutDefaultTypes disables the shared fallback type rules.
func (b *Builder) WithoutDefaultTypes() *Builder {
	b.dialect.defaultTypes = false
	return b
}

// TimeGrains adds grain templates. Templates use {col} as placeholder.
func (b *Builder) TimeGrains(grains map[string]string) *Builder {
	maps.Copy(b.dialect.timeGrains, grains)
	return b
}

// Epoch sets the seconds-since-epoch conversion template.
func (b *Builder) Epoch(template string) *Builder {
	b.dialect.epoch = template
	return b
}

// EpochMs sets the milliseconds-since-epoch conversion template.
func (b *Builder) EpochMs(template string) *Builder {
	b.dialect.epochMs = template
	return b
}

// Errors appends error patterns. Patterns are tried in the order added.
func (b *Builder) Errors(patterns ...ErrorPattern) *Builder {
	b.dialect.errorPatterns = append(b.dialect.errorPatterns, patterns...)
	return b
}

// DatetimeLiteral sets the datetime literal renderer.
func (b *Builder) DatetimeLiteral(fn LiteralFunc) *Builder {
	b.dialect.literal = fn
	return b
}

// ReservedWords adds identifiers that must always be quoted.
func (b *Builder) ReservedWords(words ...string) *Builder {
	if b.dialect.reserved == nil {
		b.dialect.reserved = make(map[string]struct{}, len(words))
	}
	for _, w := range words {
		b.dialect.reserved[strings.ToLower(w)] = struct{}{}
	}
	return b
}

// Build returns the finished dialect. The builder must not be reused.
func (b *Builder) Build() *Dialect {
	d := b.dialect
	if _, ok := d.timeGrains[GrainNone]; !ok {
		d.timeGrains[GrainNone] = "{col}"
	}
	if d.defaultTypes {
		d.typeMappings = append(slices.Clip(d.typeMappings), DefaultTypeMappings...)
	}

	d.grainOrder = make([]string, 0, len(d.timeGrains))
	for key := range d.timeGrains {
		d.grainOrder = append(d.grainOrder, key)
	}
	sort.SliceStable(d.grainOrder, func(i, j int) bool {
		ri, rj := grainRank(d.grainOrder[i]), grainRank(d.grainOrder[j])
		if ri != rj {
			return ri < rj
		}
		return d.grainOrder[i] < d.grainOrder[j]
	})

	b.dialect = nil
	return d
}
