package dialect

import (
	"sort"
	"strings"

	"github.com/leapstack-labs/sqlnorm/pkg/textscan"
)

// Confidence grades how trustworthy a detection result is.
type Confidence int

const (
	// ConfidenceNone means no signal fired at all.
	ConfidenceNone Confidence = iota
	// ConfidenceLow means several dialects are plausible; no dialect is chosen.
	ConfidenceLow
	// ConfidenceHigh means the top dialect is safe to act on automatically.
	ConfidenceHigh
)

// String returns the confidence grade as a word.
func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "high"
	case ConfidenceLow:
		return "low"
	default:
		return "none"
	}
}

// Result is the outcome of one detection pass. It is purely derived data:
// computed once per input document, never mutated.
type Result struct {
	// Dialect is the detected dialect, or Unknown unless Confidence is high.
	Dialect ID `json:"dialect,omitempty" yaml:"dialect,omitempty"`
	// Scores holds the per-dialect point totals for every dialect that scored.
	Scores map[ID]int `json:"scores" yaml:"scores"`
	// Confidence grades the result.
	Confidence Confidence `json:"-" yaml:"-"`
	// Signals is the set of probes that fired.
	Signals SignalSet `json:"-" yaml:"-"`
}

type weight struct {
	dialect ID
	points  int
}

// weights assigns 1-3 points per fired signal, reflecting how discriminating
// the signal is. These are empirical constants; downstream suggestion text
// is calibrated against them, so they are not to be re-derived.
var weights = map[Signal][]weight{
	SignalThreePartName:   {{TransactSQL, 1}, {Snowflake, 1}, {BigQuery, 1}},
	SignalQualify:         {{Snowflake, 2}, {Teradata, 2}},
	SignalIlike:           {{PostgreSQL, 1}, {Snowflake, 1}, {Redshift, 1}},
	SignalFlatten:         {{Snowflake, 2}},
	SignalColonPath:       {{Snowflake, 2}},
	SignalNamedArg:        {{Snowflake, 2}},
	SignalStruct:          {{BigQuery, 2}},
	SignalArrayType:       {{BigQuery, 2}},
	SignalUnnest:          {{BigQuery, 2}, {Trino, 1}},
	SignalDollarQuote:     {{PostgreSQL, 3}},
	SignalCastOperator:    {{PostgreSQL, 2}, {Snowflake, 1}, {Redshift, 1}},
	SignalJSONOperator:    {{PostgreSQL, 2}, {MySQL, 1}, {SQLite, 1}},
	SignalAtTimeZone:      {{PostgreSQL, 2}, {Snowflake, 1}},
	SignalBacktick:        {{MySQL, 2}, {MariaDB, 1}, {BigQuery, 1}, {Hive, 1}},
	SignalWithRollup:      {{MySQL, 2}, {MariaDB, 1}},
	SignalFromDual:        {{Oracle, 2}, {MySQL, 1}},
	SignalApply:           {{TransactSQL, 3}},
	SignalTop:             {{TransactSQL, 2}},
	SignalPivot:           {{TransactSQL, 1}, {Oracle, 1}, {Snowflake, 1}},
	SignalConnectBy:       {{Oracle, 3}},
	SignalRownum:          {{Oracle, 3}},
	SignalOuterJoinMark:   {{Oracle, 3}},
	SignalMinus:           {{Oracle, 2}, {Teradata, 1}},
	SignalNextval:         {{Oracle, 3}},
	SignalIntervalLiteral: {{PostgreSQL, 1}, {Oracle, 1}},
	SignalLateralView:     {{Hive, 3}},
	SignalClusterBy:       {{Hive, 2}},
	SignalDistkey:         {{Redshift, 3}},
	SignalAutoincrement:   {{SQLite, 2}},
	SignalBracketIdent:    {{TransactSQL, 2}},
	SignalPartitionedBy:   {{Hive, 2}, {Athena, 1}},
	SignalMsckRepair:      {{Hive, 2}, {Athena, 2}},
	SignalSelAbbrev:       {{Teradata, 2}},
	SignalCollectStats:    {{Teradata, 3}},
	SignalIff:             {{Snowflake, 2}},
	SignalGroupingSets:    {{PostgreSQL, 1}, {Oracle, 1}, {TransactSQL, 1}},
	SignalTryCast:         {{TransactSQL, 1}, {Trino, 1}, {Snowflake, 1}},
	SignalWithoutRowid:    {{SQLite, 3}},
	SignalConnectionID:    {{MySQL, 2}, {MariaDB, 1}},
	SignalIdentityInsert:  {{TransactSQL, 3}},
}

// Confidence thresholds. A single scoring dialect is always high; otherwise
// the leader needs at least highScoreMin points and highMarginMin over the
// runner-up. Ambiguity favors silence over a wrong guess.
const (
	highScoreMin  = 3
	highMarginMin = 2
)

// Score accumulates per-dialect points for a set of fired signals.
func Score(signals SignalSet) map[ID]int {
	scores := make(map[ID]int)
	for sig := range signals {
		for _, w := range weights[sig] {
			scores[w.dialect] += w.points
		}
	}
	return scores
}

// Rank returns the dialects that scored, best first. Ties break on dialect
// name so results are deterministic.
func Rank(scores map[ID]int) []ID {
	ranked := make([]ID, 0, len(scores))
	for d, pts := range scores {
		if pts > 0 {
			ranked = append(ranked, d)
		}
	}
	sort.Slice(ranked, func(i, j int) bool {
		if scores[ranked[i]] != scores[ranked[j]] {
			return scores[ranked[i]] > scores[ranked[j]]
		}
		return ranked[i] < ranked[j]
	})
	return ranked
}

// Detect classifies the dialect of sql. Comment-only or blank input yields
// ConfidenceNone immediately. The result's Dialect is set only when
// confidence is high; a low-confidence result keeps Dialect at Unknown and
// leaves the scores for suggestion rendering.
func Detect(sql string) Result {
	stripped := textscan.StripComments(sql)
	if strings.TrimSpace(stripped) == "" {
		return Result{Scores: map[ID]int{}, Confidence: ConfidenceNone, Signals: SignalSet{}}
	}

	masked := textscan.Mask(sql)
	signals := DetectSignals(masked, sql)
	scores := Score(signals)
	ranked := Rank(scores)

	res := Result{Scores: scores, Signals: signals}

	if len(ranked) == 0 {
		res.Confidence = ConfidenceNone
		return res
	}

	if len(ranked) == 1 {
		res.Confidence = ConfidenceHigh
		res.Dialect = ranked[0]
		return res
	}

	top, runnerUp := scores[ranked[0]], scores[ranked[1]]
	if top >= highScoreMin && top-runnerUp >= highMarginMin {
		res.Confidence = ConfidenceHigh
		res.Dialect = ranked[0]
		return res
	}

	res.Confidence = ConfidenceLow
	return res
}
