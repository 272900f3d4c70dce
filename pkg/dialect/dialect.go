// Package dialect provides the SQL dialect contract.
//
// A Dialect is an immutable, table-driven description of one backend: how
// native type strings map to generic categories, how timestamps are
// truncated to a time grain, how datetime literals are written, how a
// statement is bounded to N rows and how driver error text is classified.
// Concrete dialects are assembled with the Builder in pkg/dialects/*/ and
// exposed through the Engine capability interface.
package dialect

import (
	"crypto/md5" //nolint:gosec // labels only, not security sensitive
	"encoding/hex"
	"strings"
	"time"

	"github.com/leapstack-labs/enginespec/pkg/core"
	"github.com/leapstack-labs/enginespec/pkg/sqlscan"
)

// LiteralFunc renders t as a literal of the given target type. It returns
// false when the target type is not representable.
type LiteralFunc func(targetType string, t time.Time) (string, bool)

// Dialect is a read-only dialect descriptor. Build one with NewDialect.
type Dialect struct {
	Name        string
	DisplayName string

	// MaxIdentifierLength bounds generated labels; 0 means unlimited.
	MaxIdentifierLength int
	LimitMethod         core.LimitMethod
	DefaultSchema       string

	quote         string
	typeMappings  []TypeMapping
	defaultTypes  bool
	timeGrains    map[string]string
	grainOrder    []string
	epoch         string
	epochMs       string
	errorPatterns []ErrorPattern
	literal       LiteralFunc
	reserved      map[string]struct{}
}

// ConvertDatetime renders t as a literal of targetType.
// Must preserve microseconds where the dialect supports them.
func (d *Dialect) ConvertDatetime(targetType string, t time.Time) (string, bool) {
	if d.literal == nil {
		return "", false
	}
	return d.literal(strings.ToUpper(strings.TrimSpace(targetType)), t)
}

// ApplyLimit bounds sql to at most limit rows using the dialect's limit
// method. An existing tighter bound is never loosened.
func (d *Dialect) ApplyLimit(sql string, limit int) (string, error) {
	if limit < 0 {
		return "", ErrInvalidLimit.New(limit)
	}
	switch d.LimitMethod {
	case core.LimitWrap:
		return sqlscan.WrapLimit(sql, limit), nil
	case core.LimitTop:
		return sqlscan.ApplyTop(sql, limit)
	default:
		return sqlscan.ForceLimit(sql, limit), nil
	}
}

// MakeLabel returns a column label the backend accepts. Labels longer than
// MaxIdentifierLength are replaced by a prefix of their md5 digest.
func (d *Dialect) MakeLabel(label string) string {
	if d.MaxIdentifierLength <= 0 || len(label) <= d.MaxIdentifierLength {
		return label
	}
	sum := md5.Sum([]byte(label)) //nolint:gosec // see import
	hashed := hex.EncodeToString(sum[:])
	if len(hashed) > d.MaxIdentifierLength {
		hashed = hashed[:d.MaxIdentifierLength]
	}
	return hashed
}

// QuoteIdentifier quotes an identifier using the dialect's quote character.
func (d *Dialect) QuoteIdentifier(name string) string {
	return d.quote + strings.ReplaceAll(name, d.quote, d.quote+d.quote) + d.quote
}

// IsReserved reports whether name is a reserved word of the dialect.
func (d *Dialect) IsReserved(name string) bool {
	_, ok := d.reserved[strings.ToLower(name)]
	return ok
}

// QuoteIfNeeded quotes name only when it is reserved or is not a plain
// identifier.
func (d *Dialect) QuoteIfNeeded(name string) string {
	if d.IsReserved(name) || !plainIdentifier(name) {
		return d.QuoteIdentifier(name)
	}
	return name
}

func plainIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// QuoteTable quotes a possibly schema-qualified table name.
func (d *Dialect) QuoteTable(schema, table string) string {
	if schema == "" {
		return d.QuoteIdentifier(table)
	}
	return d.QuoteIdentifier(schema) + "." + d.QuoteIdentifier(table)
}

// EpochToDatetime converts a seconds-since-epoch column expression to a
// timestamp expression.
func (d *Dialect) EpochToDatetime(column string) (string, bool) {
	if d.epoch == "" {
		return "", false
	}
	return strings.ReplaceAll(d.epoch, "{col}", column), true
}

// EpochMsToDatetime converts a milliseconds-since-epoch column expression.
// Dialects without a dedicated expression divide by 1000 and reuse the
// seconds form.
func (d *Dialect) EpochMsToDatetime(column string) (string, bool) {
	if d.epochMs != "" {
		return strings.ReplaceAll(d.epochMs, "{col}", column), true
	}
	return d.EpochToDatetime("(" + column + "/1000)")
}
