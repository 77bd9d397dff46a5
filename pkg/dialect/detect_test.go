package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectSignals(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want Signal
	}{
		{"connect by", "SELECT * FROM emp CONNECT BY PRIOR id = mgr", SignalConnectBy},
		{"qualify", "SELECT * FROM t QUALIFY ROW_NUMBER() OVER (ORDER BY id) = 1", SignalQualify},
		{"ilike", "SELECT * FROM t WHERE name ILIKE 'a%'", SignalIlike},
		{"dollar quote", "CREATE FUNCTION f() AS $$ SELECT 1 $$", SignalDollarQuote},
		{"cast operator", "SELECT x::int FROM t", SignalCastOperator},
		{"backtick", "SELECT `col` FROM t", SignalBacktick},
		{"top", "SELECT TOP 10 * FROM t", SignalTop},
		{"outer join mark", "SELECT * FROM a, b WHERE a.id = b.id(+)", SignalOuterJoinMark},
		{"lateral view", "SELECT * FROM t LATERAL VIEW explode(x) e", SignalLateralView},
		{"bracket ident", "SELECT * FROM [dbo table]", SignalBracketIdent},
		{"interval literal", "SELECT now() - INTERVAL '7 days'", SignalIntervalLiteral},
		{"iff", "SELECT IFF(a > 1, 'y', 'n') FROM t", SignalIff},
		{"grouping sets", "SELECT a FROM t GROUP BY GROUPING SETS ((a), (b))", SignalGroupingSets},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det := Detect(tt.sql)
			assert.True(t, det.Signals[tt.want], "expected %s to fire", tt.want)
		})
	}
}

func TestDetectSignalInsideStringIgnored(t *testing.T) {
	det := Detect("SELECT 'CONNECT BY is oracle' FROM t")
	assert.False(t, det.Signals[SignalConnectBy])
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name       string
		sql        string
		dialect    ID
		confidence Confidence
	}{
		{
			name:       "empty input",
			sql:        "",
			dialect:    Unknown,
			confidence: ConfidenceNone,
		},
		{
			name:       "comment-only input",
			sql:        "-- nothing here\n/* still nothing */",
			dialect:    Unknown,
			confidence: ConfidenceNone,
		},
		{
			name:       "no signals",
			sql:        "SELECT id FROM users WHERE id = 1",
			dialect:    Unknown,
			confidence: ConfidenceNone,
		},
		{
			name:       "single strong oracle signal",
			sql:        "SELECT * FROM emp START WITH mgr IS NULL CONNECT BY PRIOR id = mgr",
			dialect:    Oracle,
			confidence: ConfidenceHigh,
		},
		{
			name:       "shared signal stays ambiguous",
			sql:        "SELECT * FROM users WHERE name ILIKE 'a%'",
			dialect:    Unknown,
			confidence: ConfidenceLow,
		},
		{
			name:       "dollar quote is postgres",
			sql:        "CREATE FUNCTION f() RETURNS int AS $$ SELECT 1 $$ LANGUAGE sql",
			dialect:    PostgreSQL,
			confidence: ConfidenceHigh,
		},
		{
			name:       "tsql top plus brackets",
			sql:        "SELECT TOP 10 * FROM [Users]",
			dialect:    TransactSQL,
			confidence: ConfidenceHigh,
		},
		{
			name:       "mysql clears the margin over mariadb",
			sql:        "SELECT `a` FROM t GROUP BY a WITH ROLLUP",
			dialect:    MySQL,
			confidence: ConfidenceHigh,
		},
		{
			name:       "hive lateral view",
			sql:        "SELECT e.x FROM t LATERAL VIEW explode(arr) e AS x",
			dialect:    Hive,
			confidence: ConfidenceHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			det := Detect(tt.sql)
			assert.Equal(t, tt.confidence, det.Confidence)
			assert.Equal(t, tt.dialect, det.Dialect)
		})
	}
}

func TestDetectLowConfidenceKeepsScores(t *testing.T) {
	det := Detect("SELECT * FROM users WHERE name ILIKE 'a%'")

	require.Equal(t, ConfidenceLow, det.Confidence)
	assert.Equal(t, Unknown, det.Dialect)
	assert.Equal(t, 1, det.Scores[PostgreSQL])
	assert.Equal(t, 1, det.Scores[Snowflake])
	assert.Equal(t, 1, det.Scores[Redshift])
}

func TestScoreAccumulates(t *testing.T) {
	scores := Score(SignalSet{SignalBacktick: true, SignalWithRollup: true})

	assert.Equal(t, 4, scores[MySQL])
	assert.Equal(t, 2, scores[MariaDB])
	assert.Equal(t, 1, scores[BigQuery])
	assert.Equal(t, 1, scores[Hive])
}

func TestRankDeterministic(t *testing.T) {
	scores := map[ID]int{Oracle: 3, MySQL: 1, PostgreSQL: 1, Teradata: 0}

	ranked := Rank(scores)

	require.Len(t, ranked, 3, "zero scores must not rank")
	assert.Equal(t, Oracle, ranked[0])
	// Equal scores order by name.
	assert.Equal(t, MySQL, ranked[1])
	assert.Equal(t, PostgreSQL, ranked[2])
}

func TestConfidenceString(t *testing.T) {
	assert.Equal(t, "none", ConfidenceNone.String())
	assert.Equal(t, "low", ConfidenceLow.String())
	assert.Equal(t, "high", ConfidenceHigh.String())
}
