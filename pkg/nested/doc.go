// Package nested decomposes structural column types (ARRAY(...), ROW(...))
// and flattens result data holding such values into tabular rows.
//
// Parsing is best-effort over the type strings a Presto-family backend
// reports. It splits on delimiters outside double quotes and parentheses
// rather than parsing a grammar.
package nested
