package sqlscan

import (
	"sort"
	"strings"
)

// CTEPrefix marks generated common table expressions that are never
// reported as tables.
const CTEPrefix = "CTE__"

// Table is a [[catalog.]schema.]table reference.
type Table struct {
	Catalog string
	Schema  string
	Name    string
}

// String renders the reference in dotted form.
func (t Table) String() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{t.Catalog, t.Schema, t.Name} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

var clauseKeywords = map[string]bool{
	"WHERE": true, "GROUP": true, "ORDER": true, "HAVING": true, "LIMIT": true,
	"UNION": true, "EXCEPT": true, "INTERSECT": true, "MINUS": true,
	"JOIN": true, "LEFT": true, "RIGHT": true, "INNER": true, "OUTER": true,
	"FULL": true, "CROSS": true, "NATURAL": true, "ON": true, "USING": true,
	"QUALIFY": true, "WINDOW": true, "SAMPLE": true, "TOP": true, "SET": true,
	"SELECT": true, "SEL": true, "FROM": true, "WITH": true, "AS": true,
	"LATERAL": true, "VALUES": true,
}

// Tables returns the tables a query reads, sorted by name. Names are taken
// after FROM, JOIN and DESCRIBE; subqueries, table functions, CTE names and
// names starting with CTEPrefix are skipped.
func Tables(sql string) []Table {
	tokens := Significant(Scan(sql))
	aliases := cteNames(tokens)

	seen := map[string]Table{}
	expect := false
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if tok.Kind == Word && (tok.Is("FROM") || tok.Is("JOIN") || tok.Is("DESCRIBE")) {
			expect = true
			continue
		}
		if !expect {
			continue
		}
		if tok.Kind != Word && tok.Kind != QuotedIdent {
			expect = false
			continue
		}
		if tok.Kind == Word && clauseKeywords[strings.ToUpper(tok.Text)] {
			expect = false
			continue
		}

		parts := []string{unquote(tok.Text)}
		for i+2 < len(tokens) && tokens[i+1].Text == "." &&
			(tokens[i+2].Kind == Word || tokens[i+2].Kind == QuotedIdent) {
			parts = append(parts, unquote(tokens[i+2].Text))
			i += 2
		}

		// table function
		if i+1 < len(tokens) && tokens[i+1].Text == "(" {
			expect = false
			continue
		}

		if t, ok := newTable(parts); ok && !strings.HasPrefix(t.Name, CTEPrefix) && !aliases[strings.ToLower(t.String())] {
			seen[t.String()] = t
		}

		i = skipAlias(tokens, i)
		if i+1 < len(tokens) && tokens[i+1].Text == "," {
			i++
			continue
		}
		expect = false
	}

	out := make([]Table, 0, len(seen))
	for _, t := range seen {
		out = append(out, t)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].String() < out[b].String() })
	return out
}

func newTable(parts []string) (Table, bool) {
	switch len(parts) {
	case 1:
		return Table{Name: parts[0]}, true
	case 2:
		return Table{Schema: parts[0], Name: parts[1]}, true
	case 3:
		return Table{Catalog: parts[0], Schema: parts[1], Name: parts[2]}, true
	default:
		return Table{}, false
	}
}

// skipAlias advances past "AS alias" or a bare alias following position i.
func skipAlias(tokens []Token, i int) int {
	if i+1 >= len(tokens) {
		return i
	}
	next := tokens[i+1]
	if next.Is("AS") {
		if i+2 < len(tokens) {
			return i + 2
		}
		return i + 1
	}
	if next.Kind == QuotedIdent || (next.Kind == Word && !clauseKeywords[strings.ToUpper(next.Text)]) {
		return i + 1
	}
	return i
}

// cteNames collects the names declared as "name AS (".
func cteNames(tokens []Token) map[string]bool {
	names := map[string]bool{}
	for i := 0; i+2 < len(tokens); i++ {
		if (tokens[i].Kind == Word || tokens[i].Kind == QuotedIdent) &&
			tokens[i+1].Is("AS") && tokens[i+2].Text == "(" {
			names[strings.ToLower(unquote(tokens[i].Text))] = true
		}
	}
	return names
}

func unquote(s string) string {
	if len(s) >= 2 {
		q := s[0]
		if (q == '"' || q == '`') && s[len(s)-1] == q {
			inner := s[1 : len(s)-1]
			return strings.ReplaceAll(inner, string(q)+string(q), string(q))
		}
	}
	return s
}
