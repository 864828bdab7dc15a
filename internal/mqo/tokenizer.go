package mqo

import "strings"

// Tokenize splits a line on spaces and tabs that are neither inside a
// quoted string nor inside parentheses. Outside quotes a backslash takes the
// next character literally. Quotes and parentheses stay part of their token,
// and unterminated trailing content becomes the last token.
func Tokenize(line string) []string {
	var (
		tokens  []string
		cur     strings.Builder
		quoted  bool
		depth   int
		escaped bool
	)

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case quoted:
			cur.WriteRune(r)
			if r == '"' {
				quoted = false
			}
		case r == '\\':
			escaped = true
		case r == '"':
			cur.WriteRune(r)
			quoted = true
		case r == '(':
			cur.WriteRune(r)
			depth++
		case r == ')':
			cur.WriteRune(r)
			if depth > 0 {
				depth--
			}
		case (r == ' ' || r == '\t') && depth == 0:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// unquote strips one pair of surrounding double quotes.
func unquote(tok string) string {
	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
		return tok[1 : len(tok)-1]
	}
	return tok
}

// splitGroup splits a `key(args)` token into its key and argument tokens.
func splitGroup(tok string) (string, []string, bool) {
	open := strings.IndexByte(tok, '(')
	if open <= 0 || !strings.HasSuffix(tok, ")") {
		return "", nil, false
	}
	return tok[:open], Tokenize(tok[open+1 : len(tok)-1]), true
}
