// Package normalize orchestrates the full rewrite pipeline: dialect
// detection, the ordered rewriter chain, and an optional handoff to an
// external grammar parser. The pipeline is fail-soft end to end: a rewriter
// that finds nothing leaves the text alone, and a parser failure is reported
// on the result rather than aborting it.
package normalize

import (
	"fmt"
	"log/slog"

	"github.com/leapstack-labs/sqlnorm/pkg/dialect"
	"github.com/leapstack-labs/sqlnorm/pkg/rewrite"
	"github.com/leapstack-labs/sqlnorm/pkg/splitter"
)

// Parser is the external grammar collaborator. The pipeline feeds it the
// rewritten text as a final check; it never influences the rewrite itself.
type Parser interface {
	Parse(sql string, d dialect.ID) error
}

// Pipeline sequences detection, rewriting, and the optional parse check.
// A Pipeline is immutable after New and safe for concurrent use.
type Pipeline struct {
	parser Parser
	rules  []rewrite.Rule
	log    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithParser sets the external grammar parser invoked on the rewritten text.
func WithParser(p Parser) Option {
	return func(pl *Pipeline) { pl.parser = p }
}

// WithRules overrides the canonical rewriter chain. Order matters: rules run
// in slice order.
func WithRules(rules []rewrite.Rule) Option {
	return func(pl *Pipeline) { pl.rules = rules }
}

// WithLogger sets the logger used for pipeline diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(pl *Pipeline) { pl.log = log }
}

// New builds a Pipeline with the canonical rewriter chain and the default
// slog logger unless options say otherwise.
func New(opts ...Option) *Pipeline {
	pl := &Pipeline{
		rules: rewrite.Rules(),
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(pl)
	}
	return pl
}

// Result is the outcome of normalizing one statement.
type Result struct {
	// SQL is the rewritten text, or the input verbatim when nothing applied.
	SQL string `json:"sql" yaml:"sql"`
	// Dialect is the dialect the rewriters ran under.
	Dialect dialect.ID `json:"dialect,omitempty" yaml:"dialect,omitempty"`
	// Detection carries the full detection outcome for suggestion rendering.
	Detection dialect.Result `json:"detection" yaml:"detection"`
	// Applied lists the names of the rewriters that changed the text, in
	// application order.
	Applied []string `json:"applied,omitempty" yaml:"applied,omitempty"`
	// Changed reports whether any rewriter touched the text.
	Changed bool `json:"changed" yaml:"changed"`
	// ParseErr is the external parser's verdict on the rewritten text, when
	// a parser is configured. It is advisory: SQL is still the best effort.
	ParseErr error `json:"-" yaml:"-"`
}

// Normalize runs the pipeline on a single statement. hint pins the dialect;
// when hint is Unknown the detected dialect is used, but only if detection
// confidence is high. Low-confidence detection leaves the dialect Unknown so
// no dialect-gated rewriter fires on a guess.
func (pl *Pipeline) Normalize(sql string, hint dialect.ID) Result {
	det := dialect.Detect(sql)

	d := hint
	if d == dialect.Unknown && det.Confidence == dialect.ConfidenceHigh {
		d = det.Dialect
	}

	res := Result{SQL: sql, Dialect: d, Detection: det}

	for _, rule := range pl.rules {
		out, changed := rule.Fn(res.SQL, d)
		if !changed {
			continue
		}
		res.SQL = out
		res.Applied = append(res.Applied, rule.Name)
		res.Changed = true
	}

	if pl.parser != nil {
		if err := pl.parser.Parse(res.SQL, d); err != nil {
			pl.log.Warn("rewritten statement failed downstream parse",
				"dialect", d, "applied", res.Applied, "error", err)
			res.ParseErr = err
		}
	}

	return res
}

// NormalizeScript splits a multi-statement script and normalizes each
// statement independently, sharing one detection hint across all of them.
func (pl *Pipeline) NormalizeScript(script string, hint dialect.ID) []Result {
	var results []Result
	splitter.Split(script, func(stmt string) {
		results = append(results, pl.Normalize(stmt, hint))
	})
	return results
}

// Hints renders human-readable dialect suggestions from a detection result.
// Suggestions are advisory text keyed off the score table; only a
// high-confidence detection warrants acting on one automatically.
func Hints(det dialect.Result) []string {
	ranked := dialect.Rank(det.Scores)
	if len(ranked) == 0 {
		return nil
	}

	if det.Confidence == dialect.ConfidenceHigh {
		return []string{fmt.Sprintf("syntax looks like %s (score %d)",
			det.Dialect, det.Scores[det.Dialect])}
	}

	hints := make([]string, 0, len(ranked))
	for _, d := range ranked {
		hints = append(hints, fmt.Sprintf("syntax could be %s (score %d)", d, det.Scores[d]))
	}
	return hints
}
