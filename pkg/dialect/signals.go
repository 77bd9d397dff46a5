package dialect

import "regexp"

// Signal names one syntax probe. The set of fired signals is exposed to
// callers (diagnostics rendering keys off individual booleans).
type Signal string

// Syntax probes. Each is a boolean test over masked text, except
// SignalIntervalLiteral which runs on raw text because its evidence is the
// literal content itself.
const (
	SignalThreePartName   Signal = "three_part_name"
	SignalQualify         Signal = "qualify"
	SignalIlike           Signal = "ilike"
	SignalFlatten         Signal = "flatten"
	SignalColonPath       Signal = "colon_path"
	SignalNamedArg        Signal = "named_arg"
	SignalStruct          Signal = "struct"
	SignalArrayType       Signal = "array_type"
	SignalUnnest          Signal = "unnest"
	SignalDollarQuote     Signal = "dollar_quote"
	SignalCastOperator    Signal = "cast_operator"
	SignalJSONOperator    Signal = "json_operator"
	SignalAtTimeZone      Signal = "at_time_zone"
	SignalBacktick        Signal = "backtick"
	SignalWithRollup      Signal = "with_rollup"
	SignalFromDual        Signal = "from_dual"
	SignalApply           Signal = "apply"
	SignalTop             Signal = "top"
	SignalPivot           Signal = "pivot"
	SignalConnectBy       Signal = "connect_by"
	SignalRownum          Signal = "rownum"
	SignalOuterJoinMark   Signal = "outer_join_mark"
	SignalMinus           Signal = "minus"
	SignalNextval         Signal = "nextval"
	SignalIntervalLiteral Signal = "interval_literal"
	SignalLateralView     Signal = "lateral_view"
	SignalClusterBy       Signal = "cluster_by"
	SignalDistkey         Signal = "distkey"
	SignalAutoincrement   Signal = "autoincrement"
	SignalBracketIdent    Signal = "bracket_ident"
	SignalPartitionedBy   Signal = "partitioned_by"
	SignalMsckRepair      Signal = "msck_repair"
	SignalSelAbbrev       Signal = "sel_abbrev"
	SignalCollectStats    Signal = "collect_stats"
	SignalIff             Signal = "iff"
	SignalGroupingSets    Signal = "grouping_sets"
	SignalTryCast         Signal = "try_cast"
	SignalWithoutRowid    Signal = "without_rowid"
	SignalConnectionID    Signal = "connection_id"
	SignalIdentityInsert  Signal = "identity_insert"
)

// SignalSet holds the probes that fired for one document.
type SignalSet map[Signal]bool

// probes run against masked text. Keeping them in one table makes the
// battery easy to audit against the weight table.
var probes = map[Signal]*regexp.Regexp{
	SignalThreePartName:  regexp.MustCompile(`(?i)\b[a-z_][\w$]*\.[a-z_][\w$]*\.[a-z_][\w$]*\b`),
	SignalQualify:        regexp.MustCompile(`(?i)\bQUALIFY\b`),
	SignalIlike:          regexp.MustCompile(`(?i)\bILIKE\b`),
	SignalFlatten:        regexp.MustCompile(`(?i)\bFLATTEN\s*\(`),
	SignalColonPath:      regexp.MustCompile(`(?i)\b[a-z_][\w$]*:[a-z_"][\w$"]*`),
	SignalNamedArg:       regexp.MustCompile(`(?i)\b[a-z_][\w$]*\s*=>`),
	SignalStruct:         regexp.MustCompile(`(?i)\bSTRUCT\s*[(<]`),
	SignalArrayType:      regexp.MustCompile(`(?i)\bARRAY\s*<`),
	SignalUnnest:         regexp.MustCompile(`(?i)\bUNNEST\s*\(`),
	SignalDollarQuote:    regexp.MustCompile(`\$[A-Za-z0-9_]*\$`),
	SignalCastOperator:   regexp.MustCompile(`::\s*[A-Za-z_]`),
	SignalJSONOperator:   regexp.MustCompile(`->>?|#>>?`),
	SignalAtTimeZone:     regexp.MustCompile(`(?i)\bAT\s+TIME\s+ZONE\b`),
	SignalBacktick:       regexp.MustCompile("`[^`]+`"),
	SignalWithRollup:     regexp.MustCompile(`(?i)\bWITH\s+ROLLUP\b`),
	SignalFromDual:       regexp.MustCompile(`(?i)\bFROM\s+DUAL\b`),
	SignalApply:          regexp.MustCompile(`(?i)\b(CROSS|OUTER)\s+APPLY\b`),
	SignalTop:            regexp.MustCompile(`(?i)\bSELECT\s+(DISTINCT\s+)?TOP\s*[(\d]`),
	SignalPivot:          regexp.MustCompile(`(?i)\bUN?PIVOT\s*\(`),
	SignalConnectBy:      regexp.MustCompile(`(?i)\bCONNECT\s+BY\b`),
	SignalRownum:         regexp.MustCompile(`(?i)\bROWNUM\b`),
	SignalOuterJoinMark:  regexp.MustCompile(`\(\s*\+\s*\)`),
	SignalMinus:          regexp.MustCompile(`(?i)\bMINUS\b`),
	SignalNextval:        regexp.MustCompile(`(?i)\.\s*(NEXTVAL|CURRVAL)\b`),
	SignalLateralView:    regexp.MustCompile(`(?i)\bLATERAL\s+VIEW\b`),
	SignalClusterBy:      regexp.MustCompile(`(?i)\b(DISTRIBUTE|CLUSTER)\s+BY\b|\bSORT\s+BY\b`),
	SignalDistkey:        regexp.MustCompile(`(?i)\b(DISTKEY|SORTKEY|DISTSTYLE)\b`),
	SignalAutoincrement:  regexp.MustCompile(`(?i)\bAUTOINCREMENT\b`),
	SignalBracketIdent:   regexp.MustCompile(`\[[A-Za-z_][\w ]*\]`),
	SignalPartitionedBy:  regexp.MustCompile(`(?i)\bPARTITIONED\s+BY\b`),
	SignalMsckRepair:     regexp.MustCompile(`(?i)\bMSCK\s+REPAIR\b`),
	SignalSelAbbrev:      regexp.MustCompile(`(?i)^\s*SEL\s`),
	SignalCollectStats:   regexp.MustCompile(`(?i)\bCOLLECT\s+STAT(ISTIC)?S\b`),
	SignalIff:            regexp.MustCompile(`(?i)\bIFF\s*\(`),
	SignalGroupingSets:   regexp.MustCompile(`(?i)\bGROUPING\s+SETS\s*\(`),
	SignalTryCast:        regexp.MustCompile(`(?i)\bTRY_CAST\s*\(`),
	SignalWithoutRowid:   regexp.MustCompile(`(?i)\bWITHOUT\s+ROWID\b`),
	SignalConnectionID:   regexp.MustCompile(`(?i)\bCONNECTION_ID\s*\(`),
	SignalIdentityInsert: regexp.MustCompile(`(?i)\bIDENTITY_INSERT\b`),
}

// intervalProbe is evaluated against unmasked text: the content of the
// literal is the signal, so masking would erase it.
var intervalProbe = regexp.MustCompile(`(?i)\bINTERVAL\s+'[^']*\d+\s*(year|month|week|day|hour|minute|second)s?`)

// DetectSignals evaluates every probe. masked must be the length-preserving
// mask of raw.
func DetectSignals(masked, raw string) SignalSet {
	set := make(SignalSet)
	for sig, re := range probes {
		if re.MatchString(masked) {
			set[sig] = true
		}
	}
	if intervalProbe.MatchString(raw) {
		set[SignalIntervalLiteral] = true
	}
	return set
}
