package commands

import (
	"encoding/json"
	"fmt"

	"github.com/leapstack-labs/sqlnorm/pkg/splitter"
	"github.com/spf13/cobra"
)

// NewSplitCommand creates the split command.
func NewSplitCommand() *cobra.Command {
	var countOnly bool

	cmd := &cobra.Command{
		Use:   "split [file]",
		Short: "Split a multi-statement script into individual statements",
		Long: `Split partitions a script on real statement boundaries, honoring
procedural BEGIN...END blocks, dollar-quoted bodies, comments, and custom
DELIMITER directives. Reads from stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())

			sql, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			if countOnly {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), splitter.Count(sql))
				return nil
			}

			stmts := splitter.Statements(sql)

			switch cfg.Format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(stmts)
			case "yaml":
				return renderYAML(cmd.OutOrStdout(), stmts)
			}

			out := cmd.OutOrStdout()
			for i, stmt := range stmts {
				_, _ = fmt.Fprintf(out, "-- statement %d\n%s;\n\n", i+1, stmt)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&countOnly, "count", false, "Print only the number of statements")

	return cmd
}
