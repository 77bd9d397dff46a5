package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/sqlnorm/pkg/dialect"
	"github.com/leapstack-labs/sqlnorm/pkg/normalize"
	"github.com/spf13/cobra"
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively detect and normalize statements",
		Long: `Start an interactive loop. Each statement entered (terminated by a
semicolon) is dialect-detected, normalized, and echoed back together with
the rewriters that fired.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := GetConfig(cmd.Context())
			logger := GetLogger(cmd.Context())

			hint, err := cfg.ResolveDialect()
			if err != nil {
				return err
			}

			historyFile := filepath.Join(os.TempDir(), "sqlnorm_history")
			rl, err := readline.NewEx(&readline.Config{
				Prompt:          "sqlnorm> ",
				HistoryFile:     historyFile,
				AutoComplete:    newREPLCompleter(),
				InterruptPrompt: "^C",
				EOFPrompt:       ".quit",
			})
			if err != nil {
				return fmt.Errorf("failed to initialize REPL: %w", err)
			}
			defer func() { _ = rl.Close() }()

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "sqlnorm REPL")
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
			_, _ = fmt.Fprintln(cmd.OutOrStdout())

			pipeline := normalize.New(normalize.WithLogger(logger))

			var buf strings.Builder
			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					buf.Reset()
					rl.SetPrompt("sqlnorm> ")
					continue
				}
				if errors.Is(err, io.EOF) {
					break
				}

				line = strings.TrimSpace(line)
				if line == "" {
					continue
				}

				if strings.HasPrefix(line, ".") && buf.Len() == 0 {
					quit := handleREPLCommand(cmd, line, &hint)
					if quit {
						break
					}
					continue
				}

				buf.WriteString(line)
				if !strings.HasSuffix(line, ";") {
					buf.WriteString(" ")
					rl.SetPrompt("   ...> ")
					continue
				}
				rl.SetPrompt("sqlnorm> ")

				stmt := strings.TrimSuffix(buf.String(), ";")
				buf.Reset()

				res := pipeline.Normalize(stmt, hint)
				renderREPLResult(cmd.OutOrStdout(), res)
			}

			return nil
		},
	}
}

// handleREPLCommand processes a dot-command and reports whether to quit.
func handleREPLCommand(cmd *cobra.Command, line string, hint *dialect.ID) bool {
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		printREPLHelp(cmd.OutOrStdout())

	case ".dialect":
		if len(parts) < 2 {
			if *hint == dialect.Unknown {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "dialect: auto-detect")
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "dialect: %s\n", *hint)
			}
			return false
		}
		if parts[1] == "auto" {
			*hint = dialect.Unknown
			return false
		}
		d, ok := dialect.Parse(parts[1])
		if !ok {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown dialect: %s\n", parts[1])
			return false
		}
		*hint = d

	case ".clear":
		fmt.Print("\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", parts[0])
	}
	return false
}

func renderREPLResult(w io.Writer, res normalize.Result) {
	if res.Dialect != dialect.Unknown {
		_, _ = fmt.Fprintf(w, "dialect: %s (confidence: %s)\n", res.Dialect, res.Detection.Confidence)
	} else {
		_, _ = fmt.Fprintf(w, "dialect: unknown (confidence: %s)\n", res.Detection.Confidence)
		for _, h := range normalize.Hints(res.Detection) {
			_, _ = fmt.Fprintf(w, "hint: %s\n", h)
		}
	}
	if len(res.Applied) > 0 {
		_, _ = fmt.Fprintf(w, "applied: %s\n", strings.Join(res.Applied, ", "))
	}
	_, _ = fmt.Fprintf(w, "%s;\n\n", res.SQL)
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help             Show this help message
  .dialect [name]   Show or pin the dialect ("auto" to re-enable detection)
  .clear            Clear the screen
  .quit / .exit     Exit the REPL

Tips:
  - SQL statements must end with a semicolon (;)
  - Use arrow keys to navigate history
`
	_, _ = fmt.Fprintln(w, help)
}

// newREPLCompleter completes dot-commands and dialect names.
func newREPLCompleter() *readline.PrefixCompleter {
	dialects := make([]readline.PrefixCompleterInterface, 0, len(dialect.All())+1)
	dialects = append(dialects, readline.PcItem("auto"))
	for _, d := range dialect.All() {
		dialects = append(dialects, readline.PcItem(string(d)))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".dialect", dialects...),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
