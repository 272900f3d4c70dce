package core

import (
	"fmt"
	"strings"
)

// GenericType is the dialect-independent classification of a column type.
type GenericType int

// Generic type categories.
const (
	// GenericString is also the fallback for types no rule recognizes.
	GenericString GenericType = iota
	GenericNumeric
	GenericBoolean
	GenericTemporal
)

// String returns the upper-case name of the category.
func (g GenericType) String() string {
	switch g {
	case GenericString:
		return "STRING"
	case GenericNumeric:
		return "NUMERIC"
	case GenericBoolean:
		return "BOOLEAN"
	case GenericTemporal:
		return "TEMPORAL"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the category by name.
func (g GenericType) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// SQLType is a canonical type descriptor such as VARCHAR(255) or DECIMAL(10, 2).
type SQLType struct {
	Name      string `json:"name" yaml:"name"`
	Length    int    `json:"length,omitempty" yaml:"length,omitempty"`
	Precision int    `json:"precision,omitempty" yaml:"precision,omitempty"`
	Scale     int    `json:"scale,omitempty" yaml:"scale,omitempty"`
}

// String renders the type with its modifiers.
func (t SQLType) String() string {
	switch {
	case t.Length > 0:
		return fmt.Sprintf("%s(%d)", t.Name, t.Length)
	case t.Precision > 0 && t.Scale > 0:
		return fmt.Sprintf("%s(%d, %d)", t.Name, t.Precision, t.Scale)
	case t.Precision > 0:
		return fmt.Sprintf("%s(%d)", t.Name, t.Precision)
	default:
		return t.Name
	}
}

// Common canonical types.
var (
	TypeBoolean   = SQLType{Name: "BOOLEAN"}
	TypeTinyInt   = SQLType{Name: "TINYINT"}
	TypeSmallInt  = SQLType{Name: "SMALLINT"}
	TypeInteger   = SQLType{Name: "INTEGER"}
	TypeBigInt    = SQLType{Name: "BIGINT"}
	TypeFloat     = SQLType{Name: "FLOAT"}
	TypeDouble    = SQLType{Name: "DOUBLE"}
	TypeDecimal   = SQLType{Name: "DECIMAL"}
	TypeString    = SQLType{Name: "STRING"}
	TypeText      = SQLType{Name: "TEXT"}
	TypeBinary    = SQLType{Name: "VARBINARY"}
	TypeJSON      = SQLType{Name: "JSON"}
	TypeDate      = SQLType{Name: "DATE"}
	TypeTime      = SQLType{Name: "TIME"}
	TypeTimestamp = SQLType{Name: "TIMESTAMP"}
	TypeDateTime  = SQLType{Name: "DATETIME"}
	TypeInterval  = SQLType{Name: "INTERVAL"}
	TypeArray     = SQLType{Name: "ARRAY"}
	TypeMap       = SQLType{Name: "MAP"}
	TypeRow       = SQLType{Name: "ROW"}
)

// ColumnSpec is the result of mapping a native type string.
type ColumnSpec struct {
	Type    SQLType     `json:"type" yaml:"type"`
	Generic GenericType `json:"generic" yaml:"generic"`
	IsDttm  bool        `json:"is_dttm" yaml:"is_dttm"`
}

// Column describes a table or result-set column.
type Column struct {
	Name     string      `json:"name" yaml:"name"`
	Type     string      `json:"type" yaml:"type"`
	Generic  GenericType `json:"generic" yaml:"generic"`
	IsDttm   bool        `json:"is_dttm" yaml:"is_dttm"`
	Nullable bool        `json:"nullable" yaml:"nullable"`
	Default  *string     `json:"default,omitempty" yaml:"default,omitempty"`

	// QueryAs is the projection to use when the column was expanded from a
	// nested row, e.g. "a"."b" AS "a.b". Empty means select by name.
	QueryAs string `json:"query_as,omitempty" yaml:"query_as,omitempty"`
}

// IsStructural reports whether the raw type is an ARRAY(...) or ROW(...).
func (c Column) IsStructural() bool {
	t := strings.ToUpper(c.Type)
	return strings.HasPrefix(t, "ARRAY(") || strings.HasPrefix(t, "ROW(")
}

// Index describes a table index. Partitioned tables report their partition
// keys as an index named "partition".
type Index struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []string `json:"columns" yaml:"columns"`
}

// Partition pairs partition column names with the latest values.
// Values is nil when the table has no partitions yet.
type Partition struct {
	Columns []string `json:"columns" yaml:"columns"`
	Values  []any    `json:"values" yaml:"values"`
}

// LimitMethod selects how a dialect bounds the rows of a statement.
type LimitMethod int

const (
	// LimitForce appends or tightens a trailing LIMIT clause.
	LimitForce LimitMethod = iota
	// LimitWrap wraps the statement in a bounding subquery.
	LimitWrap
	// LimitTop rewrites an inline TOP/SAMPLE clause.
	LimitTop
)

// String returns the string representation of the limit method.
func (m LimitMethod) String() string {
	switch m {
	case LimitForce:
		return "force_limit"
	case LimitWrap:
		return "wrap_sql"
	case LimitTop:
		return "top"
	default:
		return "unknown"
	}
}

// Expansion is the output of flattening nested result data.
type Expansion struct {
	Columns  []Column         `json:"columns" yaml:"columns"`
	Rows     []map[string]any `json:"rows" yaml:"rows"`
	Expanded []Column         `json:"expanded_columns" yaml:"expanded_columns"`
}
