package textscan

// MatchParen returns the index of the ')' matching the '(' at open, or -1
// if open does not point at '(' or no closer exists before end of input.
//
// The scan recognizes quotes and comments inline rather than requiring
// pre-masked input, because callers invoke it at arbitrary offsets into the
// original text where a separately-computed mask may be stale.
func MatchParen(s string, open int) int {
	if open < 0 || open >= len(s) || s[open] != '(' {
		return -1
	}

	depth := 0
	i := open
	n := len(s)

	for i < n {
		c := s[i]

		switch {
		case c == '/' && i+1 < n && s[i+1] == '*':
			i += 2
			for i < n {
				if s[i] == '*' && i+1 < n && s[i+1] == '/' {
					i += 2
					break
				}
				i++
			}
			continue

		case (c == '-' && i+1 < n && s[i+1] == '-') || c == '#':
			for i < n && s[i] != '\n' {
				i++
			}
			continue

		case c == '\'' || c == '"':
			quote := c
			i++
			for i < n {
				if s[i] == quote {
					if i+1 < n && s[i+1] == quote {
						i += 2
						continue
					}
					i++
					break
				}
				i++
			}
			continue

		case c == '(':
			depth++

		case c == ')':
			depth--
			if depth == 0 {
				return i
			}
		}

		i++
	}

	return -1
}
