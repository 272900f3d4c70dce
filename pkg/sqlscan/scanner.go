// Package sqlscan is a best-effort SQL tokenizer.
//
// It recognizes words, numbers, quoted strings, comments and punctuation,
// and tracks parenthesis depth. It is enough to locate row-limiting
// clauses and statement boundaries without a dialect grammar. Known
// limitations: dialect-specific quoting (dollar quoting, nested comments)
// is not recognized.
package sqlscan

import (
	"strings"
	"unicode"
)

// Kind classifies a token.
type Kind int

// Token kinds.
const (
	Word Kind = iota
	Number
	String
	QuotedIdent
	Comment
	Punct
)

// Token is a lexical token with its byte offsets in the source.
type Token struct {
	Kind  Kind
	Text  string
	Pos   int
	End   int
	Depth int // parenthesis depth at the token
}

// Is reports whether the token is the given keyword (case-insensitive).
func (t Token) Is(keyword string) bool {
	return t.Kind == Word && strings.EqualFold(t.Text, keyword)
}

// Scan tokenizes sql. Whitespace is dropped; comments are kept.
func Scan(sql string) []Token {
	var tokens []Token
	depth := 0
	i := 0
	for i < len(sql) {
		c := sql[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f':
			i++
		case c == '-' && i+1 < len(sql) && sql[i+1] == '-':
			end := strings.IndexByte(sql[i:], '\n')
			if end < 0 {
				end = len(sql)
			} else {
				end += i
			}
			tokens = append(tokens, Token{Kind: Comment, Text: sql[i:end], Pos: i, End: end, Depth: depth})
			i = end
		case c == '/' && i+1 < len(sql) && sql[i+1] == '*':
			end := strings.Index(sql[i+2:], "*/")
			if end < 0 {
				end = len(sql)
			} else {
				end += i + 4
			}
			tokens = append(tokens, Token{Kind: Comment, Text: sql[i:end], Pos: i, End: end, Depth: depth})
			i = end
		case c == '\'' || c == '"' || c == '`':
			end := scanQuoted(sql, i, c)
			kind := String
			if c != '\'' {
				kind = QuotedIdent
			}
			tokens = append(tokens, Token{Kind: kind, Text: sql[i:end], Pos: i, End: end, Depth: depth})
			i = end
		case c >= '0' && c <= '9':
			end := i
			for end < len(sql) && (isDigit(sql[end]) || sql[end] == '.') {
				end++
			}
			tokens = append(tokens, Token{Kind: Number, Text: sql[i:end], Pos: i, End: end, Depth: depth})
			i = end
		case isWordStart(rune(c)):
			end := i
			for end < len(sql) && isWordPart(rune(sql[end])) {
				end++
			}
			tokens = append(tokens, Token{Kind: Word, Text: sql[i:end], Pos: i, End: end, Depth: depth})
			i = end
		default:
			if c == ')' && depth > 0 {
				depth--
			}
			tokens = append(tokens, Token{Kind: Punct, Text: sql[i : i+1], Pos: i, End: i + 1, Depth: depth})
			if c == '(' {
				depth++
			}
			i++
		}
	}
	return tokens
}

// scanQuoted returns the offset just past the closing quote. A doubled
// quote character is an escaped quote.
func scanQuoted(sql string, start int, quote byte) int {
	i := start + 1
	for i < len(sql) {
		if sql[i] == quote {
			if i+1 < len(sql) && sql[i+1] == quote {
				i += 2
				continue
			}
			return i + 1
		}
		if sql[i] == '\\' && quote != '`' && i+1 < len(sql) {
			i += 2
			continue
		}
		i++
	}
	return len(sql)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isWordStart(r rune) bool {
	return r == '_' || r == '$' || r == '#' || r == '@' || unicode.IsLetter(r) || r >= 0x80
}

func isWordPart(r rune) bool {
	return isWordStart(r) || (r >= '0' && r <= '9')
}

// Significant filters out comments.
func Significant(tokens []Token) []Token {
	out := make([]Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind != Comment {
			out = append(out, t)
		}
	}
	return out
}

// Strip trims surrounding whitespace and trailing semicolons.
func Strip(sql string) string {
	return strings.Trim(sql, " \t\n\r;")
}

// Split breaks a script into statements on top-level semicolons.
// Statements that are empty or hold only comments are dropped.
func Split(sql string) []string {
	var out []string
	start := 0
	for _, t := range Scan(sql) {
		if t.Kind == Punct && t.Text == ";" && t.Depth == 0 {
			if s := strings.TrimSpace(sql[start:t.Pos]); StripComments(s) != "" {
				out = append(out, s)
			}
			start = t.End
		}
	}
	if s := strings.TrimSpace(sql[start:]); StripComments(s) != "" {
		out = append(out, s)
	}
	return out
}

// StripComments removes comments, keeping a single space in their place.
func StripComments(sql string) string {
	var b strings.Builder
	last := 0
	for _, t := range Scan(sql) {
		if t.Kind != Comment {
			continue
		}
		b.WriteString(sql[last:t.Pos])
		b.WriteByte(' ')
		last = t.End
	}
	b.WriteString(sql[last:])
	return strings.TrimSpace(b.String())
}
