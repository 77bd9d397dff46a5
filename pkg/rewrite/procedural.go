package rewrite

import (
	"regexp"

	"github.com/leapstack-labs/sqlnorm/pkg/dialect"
	"github.com/leapstack-labs/sqlnorm/pkg/textscan"
)

var (
	delimiterLineRe = regexp.MustCompile(`(?im)^[ \t]*DELIMITER[ \t]+\S+[ \t]*\r?$`)
	goLineRe        = regexp.MustCompile(`(?im)^[ \t]*GO[ \t]*;?[ \t]*\r?$`)
	slashLineRe     = regexp.MustCompile(`(?m)^[ \t]*/[ \t]*\r?$`)
)

// ProceduralKeywords removes dialect directives that only make sense to a
// client tool, not a grammar: MySQL/MariaDB DELIMITER lines, T-SQL GO batch
// separators, and Oracle's lone-slash block terminator. Matching runs on
// masked text so directives quoted inside literals are left alone.
func ProceduralKeywords(sql string, d dialect.ID) (string, bool) {
	if !dialect.Procedural(d) {
		return sql, false
	}

	masked := textscan.Mask(sql)
	var edits []Edit

	collect := func(re *regexp.Regexp) {
		for _, m := range re.FindAllStringIndex(masked, -1) {
			edits = append(edits, Edit{Span: Span{Start: m[0], End: m[1]}})
		}
	}

	switch d {
	case dialect.MySQL, dialect.MariaDB:
		collect(delimiterLineRe)
	case dialect.TransactSQL:
		collect(goLineRe)
	case dialect.Oracle:
		collect(slashLineRe)
	}

	if len(edits) == 0 {
		return sql, false
	}
	return apply(sql, mergeAscending(edits)), true
}
