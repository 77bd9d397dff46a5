package splitter

import (
	"regexp"
	"strings"
)

// beginLookbackWindow bounds how far back the procedural-BEGIN heuristic
// looks for a preceding keyword. Routine headers can be arbitrarily long,
// so the CREATE check runs on the whole statement prefix instead.
const beginLookbackWindow = 64

// proceduralBeginPredecessors are keywords that, when they immediately
// precede BEGIN, mark it as a block opener rather than a transaction start.
var proceduralBeginPredecessors = wordSet("AS", "THEN", "ELSE", "LOOP", "IS")

// nonProceduralBeginFollowers disqualify a BEGIN outright: BEGIN TRANSACTION
// and friends never open a body, and T-SQL's BEGIN TRY/CATCH blocks are
// closed by their own qualified END.
var nonProceduralBeginFollowers = wordSet("TRANSACTION", "WORK", "TRAN", "TRY", "CATCH")

// selfClosingEndQualifiers mark END variants that close their own construct
// and therefore leave the CASE and BEGIN...END counters untouched.
var selfClosingEndQualifiers = wordSet("TRY", "CATCH", "IF", "LOOP", "WHILE")

var createRoutineRe = regexp.MustCompile(`(?is)\bCREATE\s+(OR\s+REPLACE\s+)?(FUNCTION|PROCEDURE|TRIGGER)\b`)

// isProceduralBegin reports whether a BEGIN keyword opens a procedural body.
// stmtPrefix is the statement text scanned so far, up to (not including) the
// BEGIN itself. Heuristic, on purpose: a keyword just before BEGIN or a
// routine-creating header earlier in the statement both count.
func isProceduralBegin(stmtPrefix string) bool {
	window := stmtPrefix
	if len(window) > beginLookbackWindow {
		window = window[len(window)-beginLookbackWindow:]
	}
	if proceduralBeginPredecessors[lastWord(window)] {
		return true
	}
	return createRoutineRe.MatchString(stmtPrefix)
}

// lastWord returns the uppercased trailing word of s, or "" when s does not
// end in an identifier.
func lastWord(s string) string {
	end := len(s)
	for end > 0 && isSpaceByte(s[end-1]) {
		end--
	}
	start := end
	for start > 0 && isWordByte(s[start-1]) {
		start--
	}
	return strings.ToUpper(s[start:end])
}

func wordSet(words ...string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
