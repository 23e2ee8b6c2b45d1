package mapping

// QualifiedAliases returns the leading identifier of every qualified
// reference in an SQL fragment, in order of first appearance.
//
// A qualified reference is an identifier followed by a dot and another name
// part, so "o.cust_id = c2.id" yields [o c2] and "c.s.t.col" yields [c].
// Single-quoted string literals and numeric literals are skipped. A
// double-quoted identifier is returned with its quotes, which matches an
// alias declared the same way.
func QualifiedAliases(fragment string) []string {
	var aliases []string
	seen := make(map[string]bool)

	n := len(fragment)
	i := 0
	for i < n {
		c := fragment[i]
		switch {
		case c == '\'':
			i = skipQuoted(fragment, i, '\'')
		case isDigit(c):
			for i < n && (isIdentPart(fragment[i]) || fragment[i] == '.') {
				i++
			}
		case c == '"' || isIdentStart(c):
			end := scanNamePart(fragment, i)
			name := fragment[i:end]
			if hasNextPart(fragment, end) {
				if !seen[name] {
					seen[name] = true
					aliases = append(aliases, name)
				}
				for hasNextPart(fragment, end) {
					end = scanNamePart(fragment, end+1)
				}
			}
			i = end
		default:
			i++
		}
	}
	return aliases
}

// scanNamePart returns the index just past the name part starting at i: a
// quoted identifier, a bare identifier or a "*" wildcard.
func scanNamePart(s string, i int) int {
	if i >= len(s) {
		return i
	}
	switch {
	case s[i] == '"':
		return skipQuoted(s, i, '"')
	case s[i] == '*':
		return i + 1
	}
	j := i
	for j < len(s) && isIdentPart(s[j]) {
		j++
	}
	return j
}

// hasNextPart reports whether a dot at i continues a qualified name.
func hasNextPart(s string, i int) bool {
	if i+1 >= len(s) || s[i] != '.' {
		return false
	}
	next := s[i+1]
	return next == '"' || next == '*' || isIdentStart(next)
}

// skipQuoted returns the index just past the quoted run opening at i.
// A doubled quote inside the run is an escaped quote.
func skipQuoted(s string, i int, quote byte) int {
	j := i + 1
	for j < len(s) {
		if s[j] == quote {
			if j+1 < len(s) && s[j+1] == quote {
				j += 2
				continue
			}
			return j + 1
		}
		j++
	}
	return j
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '$'
}
