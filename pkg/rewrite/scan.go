package rewrite

import "strings"

// Clause terminator sets for the forward scans. Multi-word clauses are keyed
// by their first word; the scan only consults these at paren depth zero.
var (
	oracleClauseTerminators = wordSet(
		"SELECT", "FROM", "WHERE", "GROUP", "HAVING", "ORDER", "UNION",
		"INTERSECT", "MINUS", "EXCEPT", "CONNECT", "START", "QUALIFY",
	)
	qualifyTerminators = wordSet(
		"SELECT", "FROM", "WHERE", "GROUP", "HAVING", "ORDER", "WINDOW",
		"LIMIT", "FETCH", "OFFSET", "UNION", "INTERSECT", "EXCEPT", "MINUS",
	)
	groupByTerminators = wordSet(
		"HAVING", "ORDER", "WINDOW", "QUALIFY", "LIMIT", "FETCH", "OFFSET",
		"UNION", "INTERSECT", "EXCEPT", "MINUS", "SELECT", "FROM", "WHERE",
	)
)

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// scanClauseEnd walks masked text forward from start, tracking paren depth,
// and returns the offset where the current clause ends: at a terminator
// keyword seen at depth zero, a semicolon, an unmatched ')' (the enclosing
// subquery closes), optionally a top-level comma, or end of input.
func scanClauseEnd(masked string, start int, terminators map[string]bool, stopAtComma bool) int {
	depth := 0
	i := start
	n := len(masked)

	for i < n {
		c := masked[i]

		switch {
		case c == '(':
			depth++
			i++

		case c == ')':
			if depth == 0 {
				return i
			}
			depth--
			i++

		case c == ';':
			if depth == 0 {
				return i
			}
			i++

		case c == ',' && stopAtComma && depth == 0:
			return i

		case isIdentByte(c) && (i == 0 || !isIdentByte(masked[i-1])):
			j := i
			for j < n && isIdentByte(masked[j]) {
				j++
			}
			if depth == 0 && terminators[strings.ToUpper(masked[i:j])] {
				return i
			}
			i = j

		default:
			i++
		}
	}

	return n
}

// splitTopLevel splits masked[start:end] on commas at paren depth zero and
// returns the spans of the pieces (offsets into the full text). Empty or
// whitespace-only pieces are dropped.
func splitTopLevel(masked string, start, end int) []Span {
	var spans []Span
	depth := 0
	pieceStart := start

	emit := func(from, to int) {
		if strings.TrimSpace(masked[from:to]) != "" {
			spans = append(spans, Span{Start: from, End: to})
		}
	}

	for i := start; i < end; i++ {
		switch masked[i] {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				emit(pieceStart, i)
				pieceStart = i + 1
			}
		}
	}
	emit(pieceStart, end)

	return spans
}

// trimSpan narrows a span to exclude leading and trailing whitespace,
// using the masked view so literal content cannot influence trimming.
func trimSpan(masked string, s Span) Span {
	for s.Start < s.End && isSpaceByte(masked[s.Start]) {
		s.Start++
	}
	for s.End > s.Start && isSpaceByte(masked[s.End-1]) {
		s.End--
	}
	return s
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
