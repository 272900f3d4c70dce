package sqlscan

import (
	"fmt"
	"strconv"
	"strings"
)

// TrailingLimit returns the value of a top-level LIMIT clause that ends
// the statement, and the token holding the row count.
// Recognized forms: LIMIT n, LIMIT n OFFSET m, LIMIT m, n.
func TrailingLimit(sql string) (int, Token, bool) {
	toks := Significant(Scan(sql))
	n := len(toks)
	if n > 0 && toks[n-1].Kind == Punct && toks[n-1].Text == ";" {
		toks = toks[:n-1]
		n--
	}

	var count Token
	switch {
	case n >= 4 && toks[n-4].Is("LIMIT") && toks[n-3].Kind == Number &&
		toks[n-2].Is("OFFSET") && toks[n-1].Kind == Number:
		count = toks[n-3]
	case n >= 4 && toks[n-4].Is("LIMIT") && toks[n-3].Kind == Number &&
		toks[n-2].Text == "," && toks[n-1].Kind == Number:
		count = toks[n-1]
	case n >= 2 && toks[n-2].Is("LIMIT") && toks[n-1].Kind == Number:
		count = toks[n-1]
	default:
		return 0, Token{}, false
	}
	if count.Depth != 0 {
		return 0, Token{}, false
	}
	v, err := strconv.Atoi(count.Text)
	if err != nil {
		return 0, Token{}, false
	}
	return v, count, true
}

// ForceLimit bounds sql to at most limit rows. An existing trailing LIMIT
// is tightened to min(existing, limit); otherwise a LIMIT clause is
// appended. A non-positive limit leaves the statement unchanged.
func ForceLimit(sql string, limit int) string {
	s := Strip(sql)
	if limit <= 0 {
		return s
	}
	if existing, tok, ok := TrailingLimit(s); ok {
		if existing <= limit {
			return s
		}
		return s[:tok.Pos] + strconv.Itoa(limit) + s[tok.End:]
	}
	return fmt.Sprintf("%s\nLIMIT %d", s, limit)
}

const (
	wrapPrefix = "SELECT * FROM (\n"
	wrapSuffix = "\n) AS inner_qry LIMIT "
)

// WrapLimit bounds sql by wrapping it in a subquery. A statement that is
// already wrapped has its outer limit tightened instead.
func WrapLimit(sql string, limit int) string {
	s := Strip(sql)
	if limit <= 0 {
		return s
	}
	if strings.HasPrefix(s, wrapPrefix) {
		if existing, tok, ok := TrailingLimit(s); ok && strings.HasSuffix(s[:tok.Pos], wrapSuffix) {
			if existing <= limit {
				return s
			}
			return s[:tok.Pos] + strconv.Itoa(limit)
		}
	}
	return fmt.Sprintf("%s%s%s%d", wrapPrefix, s, wrapSuffix, limit)
}
