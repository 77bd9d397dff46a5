// Package splitter partitions multi-statement SQL scripts into individual
// statements. The scan is a single forward pass that treats quoted regions,
// comments, dollar-quoted bodies, procedural BEGIN...END blocks and a
// mutable custom delimiter as non-splitting regions. Malformed input never
// fails: an unterminated construct consumes to end of input.
package splitter

import (
	"strings"

	"github.com/leapstack-labs/sqlnorm/pkg/textscan"
)

// DefaultDelimiter is the statement terminator in effect until a DELIMITER
// directive changes it.
const DefaultDelimiter = ";"

// scanState carries the lexical mode and depth counters for one pass.
// At most one of the mode flags is true at a time; the depth counters are
// never negative. A fresh state is allocated per scan and never shared.
type scanState struct {
	inString       bool
	stringDelim    byte
	inLineComment  bool
	inBlockComment bool
	inDollarQuote  bool
	dollarTag      string

	parenDepth    int
	beginEndDepth int
	caseDepth     int

	delimiter string
}

// Split scans sql and yields each statement (trimmed) to onStatement as the
// scan progresses. Statements that contain only comments are discarded.
func Split(sql string, onStatement func(string)) {
	st := &scanState{delimiter: DefaultDelimiter}
	n := len(sql)
	start := 0
	i := 0

	for i < n {
		c := sql[i]

		// Suspended modes take precedence over everything else.
		switch {
		case st.inLineComment:
			if c == '\n' {
				st.inLineComment = false
			}
			i++
			continue

		case st.inBlockComment:
			if c == '*' && i+1 < n && sql[i+1] == '/' {
				st.inBlockComment = false
				i += 2
				continue
			}
			i++
			continue

		case st.inString:
			if c == st.stringDelim {
				if i+1 < n && sql[i+1] == st.stringDelim {
					i += 2 // escaped quote
					continue
				}
				st.inString = false
			}
			i++
			continue

		case st.inDollarQuote:
			if c == '$' {
				if tag, end, ok := dollarTagAt(sql, i); ok && tag == st.dollarTag {
					st.inDollarQuote = false
					i = end
					continue
				}
			}
			i++
			continue
		}

		// Statement boundary: active delimiter at top level.
		if st.parenDepth == 0 && st.beginEndDepth == 0 && strings.HasPrefix(sql[i:], st.delimiter) {
			emitStatement(sql[start:i], onStatement)
			i += len(st.delimiter)
			start = i
			continue
		}

		switch {
		case c == '-' && i+1 < n && sql[i+1] == '-':
			st.inLineComment = true
			i += 2

		case c == '#':
			st.inLineComment = true
			i++

		case c == '/' && i+1 < n && sql[i+1] == '*':
			st.inBlockComment = true
			i += 2

		case c == '\'' || c == '"':
			st.inString = true
			st.stringDelim = c
			i++

		case c == '$':
			if tag, end, ok := dollarTagAt(sql, i); ok {
				st.inDollarQuote = true
				st.dollarTag = tag
				i = end
			} else {
				i++
			}

		case c == '(':
			st.parenDepth++
			i++

		case c == ')':
			if st.parenDepth > 0 {
				st.parenDepth--
			}
			i++

		case isWordByte(c) && (i == 0 || !isWordByte(sql[i-1])):
			j := i
			for j < n && isWordByte(sql[j]) {
				j++
			}
			word := strings.ToUpper(sql[i:j])

			switch word {
			case "DELIMITER":
				// Only a directive when it opens a statement.
				if strings.TrimSpace(sql[start:i]) == "" {
					if tok, lineEnd, ok := delimiterToken(sql, j); ok {
						st.delimiter = tok
						i = lineEnd
						start = i
						continue
					}
				}

			case "CASE":
				st.caseDepth++

			case "BEGIN":
				next, _ := nextWord(sql, j)
				if !nonProceduralBeginFollowers[next] && isProceduralBegin(sql[start:i]) {
					st.beginEndDepth++
				}

			case "END":
				next, nextEnd := nextWord(sql, j)
				switch {
				case next == "CASE":
					// END CASE closes the statement form of CASE. The
					// keyword is consumed here so it is not re-read as a
					// fresh CASE opener.
					if st.caseDepth > 0 {
						st.caseDepth--
					}
					j = nextEnd
				case selfClosingEndQualifiers[next]:
					// END TRY / END IF / ... closes its own block and must
					// not consume the outer depth counter.
				case st.caseDepth > 0:
					st.caseDepth--
				case st.beginEndDepth > 0:
					st.beginEndDepth--
				}
			}

			i = j

		default:
			i++
		}
	}

	emitStatement(sql[start:], onStatement)
}

// Statements returns every statement in sql as a slice.
func Statements(sql string) []string {
	var stmts []string
	Split(sql, func(s string) { stmts = append(stmts, s) })
	return stmts
}

// Count returns the number of statements in sql. It shares the Split scan
// so validation layers can enforce statement ceilings cheaply.
func Count(sql string) int {
	n := 0
	Split(sql, func(string) { n++ })
	return n
}

// emitStatement trims and yields a statement. A fragment whose non-comment
// content is empty yields nothing.
func emitStatement(stmt string, fn func(string)) {
	trimmed := strings.TrimSpace(stmt)
	if trimmed == "" {
		return
	}
	if strings.TrimSpace(textscan.StripComments(trimmed)) == "" {
		return
	}
	fn(trimmed)
}

// dollarTagAt parses a $tag$ opener (or closer) at i, where tag is a
// possibly-empty alphanumeric/underscore run. Returns the tag and the
// offset just past the closing '$'.
func dollarTagAt(s string, i int) (string, int, bool) {
	j := i + 1
	for j < len(s) && isTagByte(s[j]) {
		j++
	}
	if j < len(s) && s[j] == '$' {
		return s[i+1 : j], j + 1, true
	}
	return "", 0, false
}

// delimiterToken reads the token after a DELIMITER directive and the offset
// past the end of its line.
func delimiterToken(s string, from int) (string, int, bool) {
	i := from
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	tokStart := i
	for i < len(s) && s[i] != ' ' && s[i] != '\t' && s[i] != '\n' && s[i] != '\r' {
		i++
	}
	if i == tokStart {
		return "", 0, false
	}
	tok := s[tokStart:i]
	for i < len(s) && s[i] != '\n' {
		i++
	}
	if i < len(s) {
		i++
	}
	return tok, i, true
}

// nextWord returns the uppercased word following offset i and the offset
// just past it, skipping whitespace. Used for single-token lookahead after
// BEGIN and END.
func nextWord(s string, i int) (string, int) {
	for i < len(s) && isSpaceByte(s[i]) {
		i++
	}
	j := i
	for j < len(s) && isWordByte(s[j]) {
		j++
	}
	return strings.ToUpper(s[i:j]), j
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func isTagByte(b byte) bool {
	return isWordByte(b)
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
