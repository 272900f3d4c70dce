package nested

import "strings"

// Split splits s on sep where sep is outside double quotes and outside
// parentheses. A backslash-escaped quote does not close a quoted section.
func Split(s string, sep byte) []string {
	var (
		parts  []string
		depth  int
		quoted bool
		start  int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			if !quoted {
				quoted = true
			} else if i == 0 || s[i-1] != '\\' {
				quoted = false
			}
		case quoted:
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		case c == '(':
			depth++
		case c == ')':
			depth--
		}
	}
	return append(parts, s[start:])
}

// splitUnquoted splits s on every byte for which isSep reports true, unless
// the byte is inside double quotes. Parentheses are not tracked.
func splitUnquoted(s string, isSep func(byte) bool) []string {
	var (
		parts  []string
		quoted bool
		start  int
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' {
			quoted = !quoted
			continue
		}
		if !quoted && isSep(c) {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

func isByte(b byte) func(byte) bool {
	return func(c byte) bool { return c == b }
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

// hasNestedFields reports whether a type fragment holds a field list, i.e.
// a comma or whitespace outside double quotes.
func hasNestedFields(s string) bool {
	return len(splitUnquoted(s, func(c byte) bool { return c == ',' || isSpace(c) })) > 1
}

// fields splits s on runs of whitespace outside quotes and drops empties.
func fields(s string) []string {
	var out []string
	for _, p := range Split(strings.TrimSpace(s), ' ') {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
