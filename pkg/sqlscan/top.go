package sqlscan

import (
	"strconv"
	"strings"
)

var (
	selectKeywords = []string{"SELECT", "SEL"}
	topKeywords    = []string{"TOP", "SAMPLE"}
)

func isKeyword(tok string, set []string) bool {
	for _, k := range set {
		if strings.EqualFold(tok, k) {
			return true
		}
	}
	return false
}

// Fields splits a statement on whitespace after folding line breaks.
func Fields(sql string) []string {
	return strings.Fields(strings.ReplaceAll(sql, "\r", ""))
}

// scan states for TOP/SAMPLE rewriting
type topState int

const (
	scanning topState = iota
	foundKeyword
	consumed
)

// ApplyTop bounds a Teradata-style statement with TOP n.
//
// The statement is split on whitespace. Every TOP/SAMPLE argument is
// replaced by the smaller of itself and limit. When no TOP/SAMPLE clause is
// present, TOP limit is injected after the first SELECT (or SEL), skipping
// a DISTINCT modifier. Tokens are re-joined with single spaces, so string
// literals with repeated whitespace and keywords inside comments or strings
// are not handled.
func ApplyTop(sql string, limit int) (string, error) {
	tokens := Fields(Strip(sql))

	out := make([]string, 0, len(tokens)+2)
	state := scanning
	found := false
	for _, tok := range tokens {
		switch state {
		case scanning, consumed:
			if isKeyword(tok, topKeywords) {
				state = foundKeyword
			}
		case foundKeyword:
			state = scanning
			if n, err := strconv.Atoi(tok); err == nil {
				found = true
				state = consumed
				if limit > 0 && limit < n {
					tok = strconv.Itoa(limit)
				}
			}
		}
		out = append(out, tok)
	}

	if found || limit <= 0 {
		return strings.Join(out, " "), nil
	}

	at := -1
	for i, tok := range out {
		if isKeyword(tok, selectKeywords) {
			at = i + 1
			break
		}
	}
	if at < 0 {
		return "", ErrNoSelect.New(limit)
	}
	if at < len(out) && strings.EqualFold(out[at], "DISTINCT") {
		at++
	}

	res := make([]string, 0, len(out)+2)
	res = append(res, out[:at]...)
	res = append(res, "TOP", strconv.Itoa(limit))
	res = append(res, out[at:]...)
	return strings.Join(res, " "), nil
}
