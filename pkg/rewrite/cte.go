package rewrite

import (
	"regexp"
	"strings"

	"github.com/leapstack-labs/sqlnorm/pkg/dialect"
	"github.com/leapstack-labs/sqlnorm/pkg/textscan"
)

// maxHoistPasses bounds the iterative hoist; each pass lifts one nested
// WITH block and re-masks, since every hoist shifts offsets.
const maxHoistPasses = 20

var (
	nestedWithRe = regexp.MustCompile(`(?i)\(\s*WITH\b`)
	topWithRe    = regexp.MustCompile(`(?i)^\s*WITH\b`)
)

// bodyKeywords are the statement keywords that end a CTE definition list.
var bodyKeywords = wordSet("SELECT", "INSERT", "UPDATE", "DELETE", "MERGE")

// HoistNestedCTEs lifts WITH blocks nested inside subqueries up to the
// statement's top level, an equivalence-preserving rewrite for grammars
// that only accept CTEs at statement start. The subquery keeps only its
// body; the definitions are merged into an existing top-level WITH or a new
// one is created. Candidates that do not parse as a CTE list are skipped.
func HoistNestedCTEs(sql string, d dialect.ID) (string, bool) {
	_ = d // nested CTEs are hoisted for every dialect

	cur := sql
	changed := false

	for pass := 0; pass < maxHoistPasses; pass++ {
		next, ok := hoistOne(cur)
		if !ok {
			break
		}
		cur = next
		changed = true
	}

	if !changed {
		return sql, false
	}
	return cur, true
}

// hoistOne lifts the first hoistable nested WITH and reports whether it did.
func hoistOne(sql string) (string, bool) {
	masked := textscan.Mask(sql)

	for _, m := range nestedWithRe.FindAllStringIndex(masked, -1) {
		closer := textscan.MatchParen(masked, m[0])
		if closer < 0 {
			continue
		}

		withStart := m[1] - 4 // offset of the WITH keyword itself
		defs, bodyStart, ok := parseCTEDefs(sql, masked, m[1], closer)
		if !ok {
			continue
		}

		// Splice: hoist the definitions to the top, keep only the body
		// inside the subquery parens.
		var insertion string
		insertAt := 0
		if loc := topWithRe.FindStringIndex(masked); loc != nil {
			// Merge into the existing top-level WITH as the leading CTE so
			// later definitions may reference it.
			insertAt = loc[1]
			insertion = " " + defs + ","
		} else {
			for insertAt < len(masked) && isSpaceByte(masked[insertAt]) {
				insertAt++
			}
			insertion = "WITH " + defs + " "
		}

		return sql[:insertAt] + insertion + sql[insertAt:withStart] + sql[bodyStart:], true
	}

	return sql, false
}

// parseCTEDefs parses a comma-separated CTE definition list starting just
// after a nested WITH keyword and ending where the statement body begins.
// It returns the trimmed definition text and the body's start offset.
// Any structural surprise aborts the candidate rather than the whole pass.
func parseCTEDefs(sql, masked string, pos, limit int) (string, int, bool) {
	defsStart := -1
	i := pos

	skipSpace := func() {
		for i < limit && isSpaceByte(masked[i]) {
			i++
		}
	}

	for {
		skipSpace()
		if i >= limit {
			return "", 0, false
		}

		// The definition list ends when a statement body keyword appears.
		if w, _ := wordAt(masked, i); w != "" && bodyKeywords[w] {
			if defsStart < 0 {
				return "", 0, false
			}
			defs := strings.TrimSpace(sql[defsStart:prevNonSpace(masked, i)])
			defs = strings.TrimSuffix(defs, ",")
			return strings.TrimSpace(defs), i, true
		}

		if defsStart < 0 {
			defsStart = i
		}

		// CTE name: identifier or quoted.
		if masked[i] == '"' {
			j := strings.IndexByte(masked[i+1:limit], '"')
			if j < 0 {
				return "", 0, false
			}
			i += j + 2
		} else if w, end := wordAt(masked, i); w != "" {
			i = end
		} else {
			return "", 0, false
		}
		skipSpace()

		// Optional explicit column list.
		if i < limit && masked[i] == '(' {
			closer := textscan.MatchParen(masked, i)
			if closer < 0 || closer >= limit {
				return "", 0, false
			}
			i = closer + 1
			skipSpace()
		}

		// AS ( body )
		if w, end := wordAt(masked, i); w == "AS" {
			i = end
		} else {
			return "", 0, false
		}
		skipSpace()
		if i >= limit || masked[i] != '(' {
			return "", 0, false
		}
		closer := textscan.MatchParen(masked, i)
		if closer < 0 || closer >= limit {
			return "", 0, false
		}
		i = closer + 1
		skipSpace()

		if i < limit && masked[i] == ',' {
			i++
			continue
		}
		// No comma: the next token must start the body; handled on the
		// next loop iteration.
	}
}

// wordAt returns the uppercased identifier starting at i, or "" when i does
// not sit at an identifier start.
func wordAt(masked string, i int) (string, int) {
	if i >= len(masked) || !isIdentByte(masked[i]) {
		return "", i
	}
	if i > 0 && isIdentByte(masked[i-1]) {
		return "", i
	}
	j := i
	for j < len(masked) && isIdentByte(masked[j]) {
		j++
	}
	return strings.ToUpper(masked[i:j]), j
}

// prevNonSpace returns the offset just past the last non-space byte
// before i.
func prevNonSpace(masked string, i int) int {
	for i > 0 && isSpaceByte(masked[i-1]) {
		i--
	}
	return i
}
