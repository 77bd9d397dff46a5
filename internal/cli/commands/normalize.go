package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leapstack-labs/sqlnorm/pkg/normalize"
	"github.com/spf13/cobra"
)

// NewNormalizeCommand creates the normalize command.
func NewNormalizeCommand() *cobra.Command {
	var listPasses bool

	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Rewrite dialect-specific syntax into portable SQL",
		Long: `Normalize detects the dialect of each statement (unless --dialect pins
one), runs the rewriter chain, and prints the rewritten SQL. Reads from
stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			sql, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			hint, err := cfg.ResolveDialect()
			if err != nil {
				return err
			}

			pipeline := normalize.New(normalize.WithLogger(logger))
			results := pipeline.NormalizeScript(sql, hint)

			switch cfg.Format {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			case "yaml":
				return renderYAML(cmd.OutOrStdout(), results)
			}

			out := cmd.OutOrStdout()
			for _, res := range results {
				_, _ = fmt.Fprintf(out, "%s;\n", res.SQL)
				if listPasses {
					if len(res.Applied) > 0 {
						_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "-- applied: %s\n", strings.Join(res.Applied, ", "))
					} else {
						_, _ = fmt.Fprintln(cmd.ErrOrStderr(), "-- applied: (none)")
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&listPasses, "list-passes", false, "Print the rewriters that changed each statement")

	return cmd
}
