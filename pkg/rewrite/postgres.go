package rewrite

import (
	"regexp"

	"github.com/leapstack-labs/sqlnorm/pkg/dialect"
	"github.com/leapstack-labs/sqlnorm/pkg/textscan"
)

var (
	// AT TIME ZONE followed by a string literal or an identifier path.
	atTimeZoneRe = regexp.MustCompile(`(?i)\s*\bAT\s+TIME\s+ZONE\s+('[^']*'|[a-z_][\w.]*)`)

	// A type keyword immediately preceding a string literal. timestamptz is
	// listed before timestamp so the longer alternative wins.
	typedLiteralRe = regexp.MustCompile(`(?i)\b(timestamptz|timestamp|interval|date|time)\s*'`)
)

// PostgresLiterals simplifies Postgres literal syntax the baseline grammar
// rejects: AT TIME ZONE expressions are dropped and a type keyword in front
// of a string literal is removed, leaving just the literal. Both are
// structure-preserving simplifications, not semantic rewrites.
func PostgresLiterals(sql string, d dialect.ID) (string, bool) {
	if d != dialect.PostgreSQL {
		return sql, false
	}

	masked := textscan.Mask(sql)
	var edits []Edit

	for _, m := range atTimeZoneRe.FindAllStringIndex(masked, -1) {
		edits = append(edits, Edit{Span: Span{Start: m[0], End: m[1]}})
	}

	for _, m := range typedLiteralRe.FindAllStringIndex(masked, -1) {
		// Keep the opening quote: strip only the keyword and the gap.
		edits = append(edits, Edit{Span: Span{Start: m[0], End: m[1] - 1}})
	}

	if len(edits) == 0 {
		return sql, false
	}
	return apply(sql, mergeAscending(edits)), true
}
