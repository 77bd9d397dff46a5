package rewrite

import (
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlnorm/pkg/dialect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApply(t *testing.T) {
	src := "abcdef"
	out := apply(src, []Edit{
		{Span: Span{Start: 0, End: 2}, Replacement: "X"},
		{Span: Span{Start: 4, End: 6}, Replacement: "Y"},
	})
	assert.Equal(t, "XcdY", out)
}

func TestApplySkipsOutOfRange(t *testing.T) {
	src := "abc"
	out := apply(src, []Edit{{Span: Span{Start: 2, End: 10}}})
	assert.Equal(t, "abc", out)
}

func TestMergeAscending(t *testing.T) {
	merged := mergeAscending([]Edit{
		{Span: Span{Start: 5, End: 9}},
		{Span: Span{Start: 0, End: 3}},
		{Span: Span{Start: 7, End: 12}},
	})

	require.Len(t, merged, 2)
	assert.Equal(t, Span{Start: 0, End: 3}, merged[0].Span)
	assert.Equal(t, Span{Start: 5, End: 12}, merged[1].Span)
}

func TestOracleJoins(t *testing.T) {
	sql := "SELECT * FROM a, b WHERE a.id = b.id(+) AND a.type = b.type(+)"

	out, changed := OracleJoins(sql, dialect.Oracle)

	require.True(t, changed)
	assert.NotContains(t, out, "(+)")
	assert.Equal(t, "SELECT * FROM a, b WHERE a.id = b.id AND a.type = b.type", out)
}

func TestOracleJoinsMinus(t *testing.T) {
	out, changed := OracleJoins("SELECT a FROM t MINUS SELECT a FROM u", dialect.Oracle)

	require.True(t, changed)
	assert.Equal(t, "SELECT a FROM t EXCEPT SELECT a FROM u", out)
}

func TestOracleJoinsGating(t *testing.T) {
	sql := "SELECT * FROM a WHERE a.id = b.id(+)"

	_, changed := OracleJoins(sql, dialect.PostgreSQL)
	assert.False(t, changed)

	_, changed = OracleJoins("SELECT '(+)' FROM t", dialect.Oracle)
	assert.False(t, changed, "marker inside a literal must not fire")
}

func TestOracleClausesHierarchical(t *testing.T) {
	sql := "SELECT * FROM emp START WITH mgr IS NULL CONNECT BY PRIOR id = mgr ORDER BY id"

	out, changed := OracleClauses(sql, dialect.Oracle)

	require.True(t, changed)
	assert.NotContains(t, strings.ToUpper(out), "START WITH")
	assert.NotContains(t, strings.ToUpper(out), "CONNECT BY")
	assert.Contains(t, out, "ORDER BY id")
}

func TestOracleClausesPivot(t *testing.T) {
	sql := "SELECT * FROM sales PIVOT (SUM(amt) FOR q IN (1, 2, 3, 4))"

	out, changed := OracleClauses(sql, dialect.Oracle)

	require.True(t, changed)
	assert.NotContains(t, strings.ToUpper(out), "PIVOT")
	assert.Contains(t, out, "FROM sales")
}

func TestOracleClausesAsOf(t *testing.T) {
	sql := "SELECT * FROM orders AS OF TIMESTAMP (SYSTIMESTAMP - INTERVAL '1' HOUR) WHERE id = 1"

	out, changed := OracleClauses(sql, dialect.Oracle)

	require.True(t, changed)
	assert.NotContains(t, strings.ToUpper(out), "AS OF")
	assert.Contains(t, out, "WHERE id = 1")
}

func TestOracleClausesReturningInto(t *testing.T) {
	sql := "INSERT INTO t (a) VALUES (1) RETURNING id INTO :out"

	out, changed := OracleClauses(sql, dialect.Oracle)

	require.True(t, changed)
	assert.NotContains(t, out, ":out")
	assert.Contains(t, out, "RETURNING id")
	assert.Contains(t, out, "INSERT INTO t", "only the bind INTO is stripped")
}

func TestOracleClausesUnbalancedSkipped(t *testing.T) {
	// Unclosed PIVOT body: the candidate is skipped, nothing else changes.
	_, changed := OracleClauses("SELECT * FROM sales PIVOT (SUM(amt", dialect.Oracle)
	assert.False(t, changed)
}

func TestPostgresLiterals(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want string
	}{
		{
			name: "at time zone dropped",
			sql:  "SELECT ts AT TIME ZONE 'UTC' FROM t",
			want: "SELECT ts FROM t",
		},
		{
			name: "at time zone with identifier",
			sql:  "SELECT ts AT TIME ZONE tz.name FROM t",
			want: "SELECT ts FROM t",
		},
		{
			name: "typed timestamp literal",
			sql:  "SELECT timestamp '2020-01-01 00:00:00' FROM t",
			want: "SELECT '2020-01-01 00:00:00' FROM t",
		},
		{
			name: "typed interval literal",
			sql:  "SELECT interval '1 day' FROM t",
			want: "SELECT '1 day' FROM t",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed := PostgresLiterals(tt.sql, dialect.PostgreSQL)
			require.True(t, changed)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestPostgresLiteralsGating(t *testing.T) {
	_, changed := PostgresLiterals("SELECT ts AT TIME ZONE 'UTC' FROM t", dialect.Snowflake)
	assert.False(t, changed)

	_, changed = PostgresLiterals("SELECT 1", dialect.PostgreSQL)
	assert.False(t, changed)
}

func TestSnowflakeIff(t *testing.T) {
	out, changed := SnowflakeIff("SELECT IFF(a > 1, 'y', 'n') FROM t", dialect.Snowflake)

	require.True(t, changed)
	assert.Equal(t, "SELECT CASE WHEN a > 1 THEN 'y' ELSE 'n' END FROM t", out)
}

func TestSnowflakeIffNested(t *testing.T) {
	out, changed := SnowflakeIff("SELECT IFF(a, IFF(b, 1, 2), 3) FROM t", dialect.Snowflake)

	require.True(t, changed)
	assert.NotContains(t, strings.ToUpper(out), "IFF(")
	assert.Contains(t, out, "CASE WHEN b THEN 1 ELSE 2 END")
}

func TestSnowflakeIffWrongArity(t *testing.T) {
	_, changed := SnowflakeIff("SELECT IFF(a, b) FROM t", dialect.Snowflake)
	assert.False(t, changed)
}

func TestSnowflakeQualify(t *testing.T) {
	sql := "SELECT * FROM t QUALIFY ROW_NUMBER() OVER (PARTITION BY a ORDER BY b) = 1"

	out, changed := SnowflakeQualify(sql, dialect.Snowflake)

	require.True(t, changed)
	assert.NotContains(t, strings.ToUpper(out), "QUALIFY")
	assert.Contains(t, out, "SELECT * FROM t")
}

func TestSnowflakeQualifyKeepsFollowingClause(t *testing.T) {
	sql := "SELECT * FROM t QUALIFY rn = 1 ORDER BY x"

	out, changed := SnowflakeQualify(sql, dialect.Snowflake)

	require.True(t, changed)
	assert.NotContains(t, strings.ToUpper(out), "QUALIFY")
	assert.Contains(t, out, "ORDER BY x")
}

func TestSnowflakeCommas(t *testing.T) {
	out, changed := SnowflakeCommas("SELECT a, b, FROM t", dialect.Snowflake)

	require.True(t, changed)
	assert.Equal(t, "SELECT a, b FROM t", out)
}

func TestSnowflakePaths(t *testing.T) {
	out, changed := SnowflakePaths("SELECT payload:a:b:c:d FROM t", dialect.Snowflake)

	require.True(t, changed)
	assert.Contains(t, out, "payload:a:b")
	assert.NotContains(t, out, "payload:a:b:c")
}

func TestSnowflakePathsShortChainUntouched(t *testing.T) {
	_, changed := SnowflakePaths("SELECT payload:a:b FROM t", dialect.Snowflake)
	assert.False(t, changed)
}

func TestSnowflakePathsPreservesCast(t *testing.T) {
	out, changed := SnowflakePaths("SELECT payload:a:b:c::int FROM t", dialect.Snowflake)

	require.True(t, changed)
	assert.Equal(t, "SELECT payload:a:b::int FROM t", out)
}

func TestSnowflakePathsTimeLiteralUntouched(t *testing.T) {
	_, changed := SnowflakePaths("SELECT '12:34:56' FROM t", dialect.Snowflake)
	assert.False(t, changed)
}

func TestSnowflakeCasts(t *testing.T) {
	out, changed := SnowflakeCasts("SELECT a::number(10,2), b::varchar FROM t", dialect.Snowflake)

	require.True(t, changed)
	assert.Equal(t, "SELECT a, b FROM t", out)
}

func TestGroupingSets(t *testing.T) {
	sql := "SELECT dept, SUM(sales) FROM sales GROUP BY dept, region GROUPING SETS ((dept), (region), (dept, region)) HAVING SUM(sales) > 10"

	out, changed := GroupingSets(sql, dialect.Unknown)

	require.True(t, changed)
	assert.NotContains(t, strings.ToUpper(out), "GROUPING SETS")
	assert.Contains(t, out, "GROUP BY dept, region HAVING")
}

func TestGroupingSetsEmptyBodyDropsClause(t *testing.T) {
	out, changed := GroupingSets("SELECT 1 FROM t GROUP BY GROUPING SETS (())", dialect.Unknown)

	require.True(t, changed)
	assert.NotContains(t, strings.ToUpper(out), "GROUP BY")
}

func TestGroupingSetsPlainGroupByUntouched(t *testing.T) {
	_, changed := GroupingSets("SELECT a FROM t GROUP BY a", dialect.Unknown)
	assert.False(t, changed)
}

func TestHoistNestedCTEs(t *testing.T) {
	sql := "SELECT * FROM (WITH x AS (SELECT 1 AS a) SELECT * FROM x) sub"

	out, changed := HoistNestedCTEs(sql, dialect.Unknown)

	require.True(t, changed)
	assert.Equal(t, "WITH x AS (SELECT 1 AS a) SELECT * FROM (SELECT * FROM x) sub", out)
}

func TestHoistNestedCTEsMergesIntoExistingWith(t *testing.T) {
	sql := "WITH y AS (SELECT 2 AS b) SELECT * FROM (WITH x AS (SELECT 1 AS a) SELECT * FROM x) sub, y"

	out, changed := HoistNestedCTEs(sql, dialect.Unknown)

	require.True(t, changed)
	assert.Contains(t, out, "WITH x AS (SELECT 1 AS a), y AS (SELECT 2 AS b)")
	assert.NotContains(t, out, "(WITH")
}

func TestHoistNestedCTEsNoCandidate(t *testing.T) {
	_, changed := HoistNestedCTEs("WITH x AS (SELECT 1) SELECT * FROM x", dialect.Unknown)
	assert.False(t, changed)
}

func TestProceduralKeywords(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		d       dialect.ID
		removed string
	}{
		{
			name:    "mysql delimiter lines",
			sql:     "DELIMITER //\nCREATE PROCEDURE p()\nBEGIN\nSELECT 1;\nEND//\nDELIMITER ;",
			d:       dialect.MySQL,
			removed: "DELIMITER",
		},
		{
			name:    "tsql go separators",
			sql:     "SELECT 1\nGO\nSELECT 2",
			d:       dialect.TransactSQL,
			removed: "GO",
		},
		{
			name:    "oracle block terminator slash",
			sql:     "BEGIN NULL; END;\n/\nSELECT 1",
			d:       dialect.Oracle,
			removed: "/",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, changed := ProceduralKeywords(tt.sql, tt.d)
			require.True(t, changed)
			assert.NotContains(t, out, tt.removed)
		})
	}
}

func TestProceduralKeywordsGating(t *testing.T) {
	_, changed := ProceduralKeywords("SELECT 1\nGO\nSELECT 2", dialect.PostgreSQL)
	assert.False(t, changed)
}

// Every rewriter that reports a change must be at a fixed point afterwards;
// re-running it on its own output returns unchanged.
func TestRewritersReachFixedPoint(t *testing.T) {
	cases := []struct {
		rule Rule
		sql  string
		d    dialect.ID
	}{
		{Rule{"oracle-joins", OracleJoins}, "SELECT * FROM a WHERE a.id = b.id(+)", dialect.Oracle},
		{Rule{"postgres-literals", PostgresLiterals}, "SELECT ts AT TIME ZONE 'UTC' FROM t", dialect.PostgreSQL},
		{Rule{"snowflake-iff", SnowflakeIff}, "SELECT IFF(a, 1, 2) FROM t", dialect.Snowflake},
		{Rule{"snowflake-paths", SnowflakePaths}, "SELECT payload:a:b:c:d FROM t", dialect.Snowflake},
		{Rule{"grouping-sets", GroupingSets}, "SELECT a FROM t GROUP BY GROUPING SETS ((a), (b))", dialect.Unknown},
	}

	for _, tc := range cases {
		t.Run(tc.rule.Name, func(t *testing.T) {
			out, changed := tc.rule.Fn(tc.sql, tc.d)
			require.True(t, changed)

			_, changedAgain := tc.rule.Fn(out, tc.d)
			assert.False(t, changedAgain, "second application must be a no-op")
		})
	}
}

func TestRulesOrder(t *testing.T) {
	rules := Rules()
	require.NotEmpty(t, rules)

	names := make([]string, len(rules))
	for i, r := range rules {
		names[i] = r.Name
	}
	assert.Equal(t, "procedural-keywords", names[0])
	assert.Equal(t, "hoist-nested-ctes", names[len(names)-1])
}
