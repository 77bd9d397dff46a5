package rewrite

import (
	"regexp"

	"github.com/leapstack-labs/sqlnorm/pkg/dialect"
	"github.com/leapstack-labs/sqlnorm/pkg/textscan"
)

var (
	qualifyRe = regexp.MustCompile(`(?i)\bQUALIFY\b`)
	iffRe     = regexp.MustCompile(`(?i)\bIFF\s*\(`)

	// Trailing comma left dangling before the next clause keyword.
	trailingCommaRe = regexp.MustCompile(`(?i),\s*(FROM|WHERE)\b`)

	// ::type with an optional (precision[, scale]) suffix.
	castSuffixRe = regexp.MustCompile(`(?i)::\s*[a-z_]\w*(\s*\(\s*\d+(\s*,\s*\d+)?\s*\))?`)

	// A colon path of three or more segments; quoted segments appear in the
	// masked view as "    " so the content never interferes.
	colonPathRe = regexp.MustCompile(`(?i)\b[a-z_][\w$]*(:"[^"]*"|:[a-z_][\w$]*){3,}`)
)

// SnowflakeQualify strips QUALIFY clauses up to the next clause keyword,
// semicolon, or enclosing subquery close.
func SnowflakeQualify(sql string, d dialect.ID) (string, bool) {
	if d != dialect.Snowflake {
		return sql, false
	}

	masked := textscan.Mask(sql)
	var edits []Edit

	for _, m := range qualifyRe.FindAllStringIndex(masked, -1) {
		end := scanClauseEnd(masked, m[1], qualifyTerminators, false)
		edits = append(edits, Edit{Span: Span{Start: m[0], End: end}})
	}

	if len(edits) == 0 {
		return sql, false
	}
	return apply(sql, mergeAscending(edits)), true
}

// maxIffPasses bounds the fixed-point loop; each pass reduces IFF nesting
// by at least one level.
const maxIffPasses = 32

// SnowflakeIff rewrites IFF(cond, a, b) to CASE WHEN cond THEN a ELSE b END.
// Nested calls are handled by iterating to a fixed point: an outer rewrite
// carries the inner IFF text along, and the next pass picks it up.
func SnowflakeIff(sql string, d dialect.ID) (string, bool) {
	if d != dialect.Snowflake {
		return sql, false
	}

	cur := sql
	changed := false

	for pass := 0; pass < maxIffPasses; pass++ {
		masked := textscan.Mask(cur)
		var edits []Edit
		lastEnd := -1

		for _, m := range iffRe.FindAllStringIndex(masked, -1) {
			if m[0] < lastEnd {
				// Nested inside a call already being rewritten this pass.
				continue
			}
			open := m[1] - 1
			closer := textscan.MatchParen(masked, open)
			if closer < 0 {
				continue
			}
			args := splitTopLevel(masked, open+1, closer)
			if len(args) != 3 {
				continue
			}
			cond := spanText(cur, masked, args[0])
			then := spanText(cur, masked, args[1])
			els := spanText(cur, masked, args[2])
			edits = append(edits, Edit{
				Span:        Span{Start: m[0], End: closer + 1},
				Replacement: "CASE WHEN " + cond + " THEN " + then + " ELSE " + els + " END",
			})
			lastEnd = closer + 1
		}

		if len(edits) == 0 {
			break
		}
		cur = apply(cur, edits)
		changed = true
	}

	if !changed {
		return sql, false
	}
	return cur, true
}

// spanText slices the original text for a span, trimmed using the masked view.
func spanText(original, masked string, s Span) string {
	s = trimSpan(masked, s)
	return original[s.Start:s.End]
}

// SnowflakeCommas removes a trailing comma left before FROM or WHERE, a
// frequent artifact of templated select lists.
func SnowflakeCommas(sql string, d dialect.ID) (string, bool) {
	if d != dialect.Snowflake {
		return sql, false
	}

	masked := textscan.Mask(sql)
	var edits []Edit

	for _, m := range trailingCommaRe.FindAllStringIndex(masked, -1) {
		edits = append(edits, Edit{Span: Span{Start: m[0], End: m[0] + 1}})
	}

	if len(edits) == 0 {
		return sql, false
	}
	return apply(sql, edits), true
}

// SnowflakePaths collapses semi-structured path chains of three or more
// segments (payload:a:b:c) down to exactly two (payload:a:b). A numeric
// neighbor disqualifies a match so time-of-day text such as 12:34:56 is
// never touched, and a trailing ::cast suffix sits outside the match and is
// preserved verbatim.
func SnowflakePaths(sql string, d dialect.ID) (string, bool) {
	if d != dialect.Snowflake {
		return sql, false
	}

	masked := textscan.Mask(sql)
	var edits []Edit

	for _, m := range colonPathRe.FindAllStringIndex(masked, -1) {
		if m[0] > 0 {
			prev := masked[m[0]-1]
			if prev == ':' || prev == '.' || (prev >= '0' && prev <= '9') {
				continue
			}
		}
		// Keep the column and its first two path segments; everything from
		// the third colon on is dropped.
		colons := 0
		cut := -1
		for i := m[0]; i < m[1]; i++ {
			if masked[i] == ':' {
				colons++
				if colons == 3 {
					cut = i
					break
				}
			}
		}
		if cut < 0 {
			continue
		}
		edits = append(edits, Edit{Span: Span{Start: cut, End: m[1]}})
	}

	if len(edits) == 0 {
		return sql, false
	}
	return apply(sql, mergeAscending(edits)), true
}

// SnowflakeCasts strips ::type cast suffixes, including an optional
// precision such as ::number(10,2).
func SnowflakeCasts(sql string, d dialect.ID) (string, bool) {
	if d != dialect.Snowflake {
		return sql, false
	}

	masked := textscan.Mask(sql)
	var edits []Edit

	for _, m := range castSuffixRe.FindAllStringIndex(masked, -1) {
		edits = append(edits, Edit{Span: Span{Start: m[0], End: m[1]}})
	}

	if len(edits) == 0 {
		return sql, false
	}
	return apply(sql, mergeAscending(edits)), true
}
