package rewrite

import (
	"regexp"

	"github.com/leapstack-labs/sqlnorm/pkg/dialect"
	"github.com/leapstack-labs/sqlnorm/pkg/textscan"
)

var (
	outerJoinMarkRe = regexp.MustCompile(`\(\s*\+\s*\)`)
	minusKeywordRe  = regexp.MustCompile(`(?i)\bMINUS\b`)

	hierarchicalRe = regexp.MustCompile(`(?i)\b(START\s+WITH|CONNECT\s+BY(\s+NOCYCLE)?|ORDER\s+SIBLINGS\s+BY)\b`)
	pivotRe        = regexp.MustCompile(`(?i)\b(UN)?PIVOT\s*(XML\s*)?\(`)
	modelRulesRe   = regexp.MustCompile(`(?i)\bMODEL\b[^;]*?\bRULES\s*\(`)
	asOfRe         = regexp.MustCompile(`(?i)\bAS\s+OF\s+(SCN|TIMESTAMP)\b`)
	returningRe    = regexp.MustCompile(`(?i)\bRETURNING\b`)
	intoBindsRe    = regexp.MustCompile(`(?i)\bINTO\s+:\w+(\s*,\s*:\w+)*`)
)

// OracleJoins removes (+) outer-join markers and rewrites the MINUS set
// operator to EXCEPT. Neither ever fires inside a literal because the scan
// runs over masked text.
func OracleJoins(sql string, d dialect.ID) (string, bool) {
	if d != dialect.Oracle {
		return sql, false
	}

	masked := textscan.Mask(sql)
	var edits []Edit

	for _, m := range outerJoinMarkRe.FindAllStringIndex(masked, -1) {
		edits = append(edits, Edit{Span: Span{Start: m[0], End: m[1]}})
	}
	for _, m := range minusKeywordRe.FindAllStringIndex(masked, -1) {
		edits = append(edits, Edit{Span: Span{Start: m[0], End: m[1]}, Replacement: "EXCEPT"})
	}

	if len(edits) == 0 {
		return sql, false
	}
	return apply(sql, mergeAscending(edits)), true
}

// OracleClauses strips Oracle-only clauses wholesale: hierarchical query
// clauses (START WITH, CONNECT BY, ORDER SIBLINGS BY), PIVOT/UNPIVOT and
// MODEL ... RULES(...) bodies, flashback AS OF expressions, and the
// INTO :bind list after RETURNING. A candidate that cannot be delimited
// (unbalanced parens, missing pieces) is skipped, not fatal.
func OracleClauses(sql string, d dialect.ID) (string, bool) {
	if d != dialect.Oracle {
		return sql, false
	}

	masked := textscan.Mask(sql)
	var edits []Edit

	for _, m := range hierarchicalRe.FindAllStringIndex(masked, -1) {
		end := scanClauseEnd(masked, m[1], oracleClauseTerminators, false)
		edits = append(edits, Edit{Span: Span{Start: m[0], End: end}})
	}

	for _, m := range pivotRe.FindAllStringIndex(masked, -1) {
		closer := textscan.MatchParen(masked, m[1]-1)
		if closer < 0 {
			continue
		}
		edits = append(edits, Edit{Span: Span{Start: m[0], End: closer + 1}})
	}

	for _, m := range modelRulesRe.FindAllStringIndex(masked, -1) {
		closer := textscan.MatchParen(masked, m[1]-1)
		if closer < 0 {
			continue
		}
		edits = append(edits, Edit{Span: Span{Start: m[0], End: closer + 1}})
	}

	for _, m := range asOfRe.FindAllStringIndex(masked, -1) {
		end := scanClauseEnd(masked, m[1], oracleClauseTerminators, true)
		edits = append(edits, Edit{Span: Span{Start: m[0], End: end}})
	}

	// INTO :bind, ... immediately following RETURNING, never across a
	// statement boundary.
	for _, m := range returningRe.FindAllStringIndex(masked, -1) {
		limit := len(masked)
		for i := m[1]; i < len(masked); i++ {
			if masked[i] == ';' {
				limit = i
				break
			}
		}
		loc := intoBindsRe.FindStringIndex(masked[m[1]:limit])
		if loc == nil {
			continue
		}
		edits = append(edits, Edit{Span: Span{Start: m[1] + loc[0], End: m[1] + loc[1]}})
	}

	if len(edits) == 0 {
		return sql, false
	}
	return apply(sql, mergeAscending(edits)), true
}
