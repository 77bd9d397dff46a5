// Package rewrite contains dialect-specific text rewriters that simplify
// vendor SQL constructs into forms a common-denominator grammar accepts.
//
// Every rewriter follows the same shape: mask the input, scan the masked
// view for constructs to change, collect edits whose offsets are valid for
// the original text, then splice the edits in from the highest start offset
// down so untouched offsets stay valid. A rewriter returns (input, false)
// when it has nothing to do; callers treat a true second value as a full
// replacement document, never a partial diff.
package rewrite

import (
	"sort"

	"github.com/leapstack-labs/sqlnorm/pkg/dialect"
)

// Span is a half-open [Start, End) offset range into the original text.
type Span struct {
	Start int
	End   int
}

// Edit replaces the text at Span with Replacement.
type Edit struct {
	Span        Span
	Replacement string
}

// Func is the signature every rewriter implements. The boolean is false
// when the input is returned untouched.
type Func func(sql string, d dialect.ID) (string, bool)

// Rule pairs a rewriter with a stable name for logging and diagnostics.
type Rule struct {
	Name string
	Fn   Func
}

// Rules returns the canonical rewriter sequence applied by the pipeline.
// Order matters: structural strips run before the path/cast cleanups that
// would otherwise disturb their offsets, and CTE hoisting runs last because
// it re-masks internally.
func Rules() []Rule {
	return []Rule{
		{Name: "procedural-keywords", Fn: ProceduralKeywords},
		{Name: "oracle-joins", Fn: OracleJoins},
		{Name: "oracle-clauses", Fn: OracleClauses},
		{Name: "postgres-literals", Fn: PostgresLiterals},
		{Name: "snowflake-iff", Fn: SnowflakeIff},
		{Name: "snowflake-qualify", Fn: SnowflakeQualify},
		{Name: "snowflake-commas", Fn: SnowflakeCommas},
		{Name: "snowflake-paths", Fn: SnowflakePaths},
		{Name: "snowflake-casts", Fn: SnowflakeCasts},
		{Name: "grouping-sets", Fn: GroupingSets},
		{Name: "hoist-nested-ctes", Fn: HoistNestedCTEs},
	}
}

// mergeAscending sorts edits by start offset and merges any edit whose span
// overlaps the previous one into it. Within one rewriter pass edits must
// never overlap; a later-discovered overlapping span extends the earlier
// edit rather than adding a second, conflicting one.
func mergeAscending(edits []Edit) []Edit {
	if len(edits) < 2 {
		return edits
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].Span.Start < edits[j].Span.Start })

	merged := edits[:1]
	for _, e := range edits[1:] {
		last := &merged[len(merged)-1]
		if e.Span.Start < last.Span.End {
			if e.Span.End > last.Span.End {
				last.Span.End = e.Span.End
			}
			continue
		}
		merged = append(merged, e)
	}
	return merged
}

// apply splices edits into src in descending start-offset order so that
// each splice only moves text to its right.
func apply(src string, edits []Edit) string {
	sorted := make([]Edit, len(edits))
	copy(sorted, edits)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Span.Start > sorted[j].Span.Start })

	out := src
	for _, e := range sorted {
		start, end := e.Span.Start, e.Span.End
		if start < 0 || end > len(out) || start > end {
			continue
		}
		out = out[:start] + e.Replacement + out[end:]
	}
	return out
}
