package rewrite

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/sqlnorm/pkg/dialect"
	"github.com/leapstack-labs/sqlnorm/pkg/textscan"
)

var (
	groupByRe      = regexp.MustCompile(`(?i)\bGROUP\s+BY\b`)
	groupingSetsRe = regexp.MustCompile(`(?i)\bGROUPING\s+SETS\s*\(`)
)

// GroupingSets flattens GROUP BY ... GROUPING SETS(...) into a single flat
// GROUP BY column list. Every column or tuple inside the GROUPING SETS body
// is extracted (tuples are flattened), merged with columns already present
// in the clause, and de-duplicated by a normalized key. If nothing remains
// (only empty grouping sets), the whole clause is removed.
//
// The rewrite applies to every dialect: GROUPING SETS appears across
// vendors and the downstream grammar accepts none of them.
func GroupingSets(sql string, d dialect.ID) (string, bool) {
	_ = d

	masked := textscan.Mask(sql)
	var edits []Edit

	for _, gb := range groupByRe.FindAllStringIndex(masked, -1) {
		clauseEnd := scanClauseEnd(masked, gb[1], groupByTerminators, false)

		gs := groupingSetsRe.FindStringIndex(masked[gb[1]:clauseEnd])
		if gs == nil {
			continue
		}
		gsStart := gb[1] + gs[0]
		open := gb[1] + gs[1] - 1
		closer := textscan.MatchParen(masked, open)
		if closer < 0 || closer > clauseEnd {
			continue
		}

		var cols []string
		seen := make(map[string]bool)
		add := func(s Span) {
			s = trimSpan(masked, s)
			if s.Start >= s.End {
				return
			}
			text := sql[s.Start:s.End]
			key := strings.Join(strings.Fields(strings.ToLower(text)), " ")
			if key == "" || seen[key] {
				return
			}
			seen[key] = true
			cols = append(cols, text)
		}

		// Columns already present in the clause, on either side of the
		// GROUPING SETS segment.
		for _, s := range splitTopLevel(masked, gb[1], gsStart) {
			add(s)
		}
		for _, s := range splitTopLevel(masked, closer+1, clauseEnd) {
			add(s)
		}

		// The GROUPING SETS body: flatten parenthesized tuples.
		for _, item := range splitTopLevel(masked, open+1, closer) {
			item = trimSpan(masked, item)
			if item.Start < item.End && masked[item.Start] == '(' &&
				textscan.MatchParen(masked, item.Start) == item.End-1 {
				for _, inner := range splitTopLevel(masked, item.Start+1, item.End-1) {
					add(inner)
				}
				continue
			}
			add(item)
		}

		var replacement string
		if len(cols) > 0 {
			replacement = "GROUP BY " + strings.Join(cols, ", ")
			if clauseEnd < len(sql) {
				replacement += " "
			}
		}
		edits = append(edits, Edit{Span: Span{Start: gb[0], End: clauseEnd}, Replacement: replacement})
	}

	if len(edits) == 0 {
		return sql, false
	}
	return apply(sql, mergeAscending(edits)), true
}
