package commands

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/sqlnorm/pkg/dialect"
	"github.com/leapstack-labs/sqlnorm/pkg/normalize"
	"github.com/spf13/cobra"
)

// detectReport is the serializable shape of a detection outcome.
type detectReport struct {
	Dialect    dialect.ID         `json:"dialect,omitempty" yaml:"dialect,omitempty"`
	Confidence string             `json:"confidence" yaml:"confidence"`
	Scores     map[dialect.ID]int `json:"scores" yaml:"scores"`
	Hints      []string           `json:"hints,omitempty" yaml:"hints,omitempty"`
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [file]",
		Short: "Detect the SQL dialect of a statement or script",
		Long: `Detect runs the syntax-signal probes against the input and reports the
per-dialect scores, the confidence grade, and the chosen dialect when the
evidence is strong enough. Reads from stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())

			sql, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			det := dialect.Detect(sql)
			report := detectReport{
				Dialect:    det.Dialect,
				Confidence: det.Confidence.String(),
				Scores:     det.Scores,
				Hints:      normalize.Hints(det),
			}

			switch cfg.Format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			case "yaml":
				return renderYAML(cmd.OutOrStdout(), report)
			default:
				renderDetectTable(cmd, report)
				return nil
			}
		},
	}
}

func renderDetectTable(cmd *cobra.Command, report detectReport) {
	out := cmd.OutOrStdout()

	if report.Dialect != dialect.Unknown {
		_, _ = fmt.Fprintf(out, "Dialect: %s (confidence: %s)\n\n", report.Dialect, report.Confidence)
	} else {
		_, _ = fmt.Fprintf(out, "Dialect: unknown (confidence: %s)\n\n", report.Confidence)
	}

	if len(report.Scores) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(out)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Dialect", "Score"})
		for _, d := range dialect.Rank(report.Scores) {
			t.AppendRow(table.Row{d.String(), report.Scores[d]})
		}
		t.Render()
	}

	for _, h := range report.Hints {
		_, _ = fmt.Fprintf(out, "hint: %s\n", h)
	}
}
